package align

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainpay/paylink/types"
	"github.com/chainpay/paylink/wallet"
)

type fakeProvider struct {
	chainID   types.ChainID
	switchErr error
	switched  []wallet.AddChainParams
}

func (f *fakeProvider) Connect(context.Context) error { return nil }

func (f *fakeProvider) ChainID(context.Context) (types.ChainID, error) { return f.chainID, nil }

func (f *fakeProvider) Signer() wallet.Signer { return nil }

func (f *fakeProvider) SwitchChain(_ context.Context, params wallet.AddChainParams) error {
	f.switched = append(f.switched, params)
	return f.switchErr
}

func (f *fakeProvider) Subscribe() *wallet.Subscription { return wallet.NewSubscription() }

func (f *fakeProvider) Close() error { return nil }

func TestIsAligned(t *testing.T) {
	assert.True(t, IsAligned(1, 1))
	assert.False(t, IsAligned(1, 100))
}

func TestAddChainParams_WithRegistryRPC(t *testing.T) {
	m := NewManager("", nil)
	chain := &types.ChainDescriptor{
		ChainID:        100,
		Name:           "xDAI",
		Network:        "xdai",
		NativeCurrency: types.Currency{Name: "xDAI", Symbol: "xDAI", Decimals: 18},
		ExplorerURL:    "https://blockscout.com/poa/dai",
		RPCURL:         "https://rpc.xdaichain.com",
	}

	params, err := m.AddChainParams(chain)
	require.NoError(t, err)
	assert.Equal(t, "0x64", params.ChainID)
	assert.Equal(t, "xDAI", params.ChainName)
	assert.Equal(t, []string{"https://rpc.xdaichain.com"}, params.RPCURLs)
	assert.Equal(t, []string{"https://blockscout.com/poa/dai"}, params.BlockExplorerURLs)
	assert.Equal(t, 18, params.NativeCurrency.Decimals)
}

func TestAddChainParams_DerivedRPCFallback(t *testing.T) {
	m := NewManager("test-project", nil)
	chain := &types.ChainDescriptor{
		ChainID: 4,
		Name:    "Ethereum Rinkeby Testnet",
		Network: "rinkeby",
	}

	params, err := m.AddChainParams(chain)
	require.NoError(t, err)
	assert.Equal(t, "0x4", params.ChainID)
	assert.Equal(t, []string{"https://rinkeby.infura.io/v3/test-project"}, params.RPCURLs)
}

func TestAddChainParams_NoRPCNoNetwork(t *testing.T) {
	m := NewManager("", nil)
	_, err := m.AddChainParams(&types.ChainDescriptor{ChainID: 5})
	require.Error(t, err)
	assert.Equal(t, types.ErrUnsupportedChain, types.ErrorCode(err))
}

func TestRequestSwitch(t *testing.T) {
	m := NewManager("", nil)
	provider := &fakeProvider{chainID: 1}
	chain := &types.ChainDescriptor{ChainID: 100, Name: "xDAI", Network: "xdai", RPCURL: "https://rpc.xdaichain.com"}

	require.NoError(t, m.RequestSwitch(context.Background(), provider, chain))
	require.Len(t, provider.switched, 1)
	assert.Equal(t, "0x64", provider.switched[0].ChainID)
}

func TestRequestSwitch_RejectionSurfaces(t *testing.T) {
	m := NewManager("", nil)
	provider := &fakeProvider{
		chainID:   1,
		switchErr: types.NewPayError(types.ErrSwitchRejected, "user rejected chain switch"),
	}
	chain := &types.ChainDescriptor{ChainID: 100, Name: "xDAI", Network: "xdai", RPCURL: "https://rpc.xdaichain.com"}

	err := m.RequestSwitch(context.Background(), provider, chain)
	require.Error(t, err)
	assert.Equal(t, types.ErrSwitchRejected, types.ErrorCode(err))
	assert.Contains(t, err.Error(), "user rejected chain switch")
}

func TestRequestSwitch_NilProvider(t *testing.T) {
	m := NewManager("", nil)
	err := m.RequestSwitch(context.Background(), nil, &types.ChainDescriptor{ChainID: 1})
	require.Error(t, err)
	assert.Equal(t, types.ErrSignerUnavailable, types.ErrorCode(err))
}
