package txbuilder

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainpay/paylink/registry"
	"github.com/chainpay/paylink/types"
	"github.com/chainpay/paylink/wallet"
)

const (
	recipient   = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	daiContract = "0x6b175474e89094c44da98b954eedeac495271d0f"
)

var transferSelector = common.FromHex("0xa9059cbb")

type fakeSigner struct {
	addr common.Address
	hash common.Hash
	err  error
	sent []wallet.TxRequest
}

func (f *fakeSigner) Address() common.Address { return f.addr }

func (f *fakeSigner) SendTransaction(_ context.Context, tx wallet.TxRequest) (common.Hash, error) {
	f.sent = append(f.sent, tx)
	if f.err != nil {
		return common.Hash{}, f.err
	}
	return f.hash, nil
}

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := New(registry.Default(), nil)
	require.NoError(t, err)
	return b
}

func TestBuild_NativeTransfer(t *testing.T) {
	b := newBuilder(t)
	signer := &fakeSigner{hash: common.HexToHash("0x01")}

	req := &types.PaymentRequest{ChainID: 1, Currency: "eth", Amount: "1", To: recipient}
	hash, err := b.Build(context.Background(), req, signer)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x01").Hex(), hash)

	require.Len(t, signer.sent, 1)
	tx := signer.sent[0]
	assert.Equal(t, common.HexToAddress(recipient), tx.To)
	assert.Equal(t, "1000000000000000000", tx.Value.String())
	assert.Empty(t, tx.Data)
}

func TestBuild_NativeTransferWithData(t *testing.T) {
	b := newBuilder(t)
	signer := &fakeSigner{hash: common.HexToHash("0x02")}

	req := &types.PaymentRequest{ChainID: 1, Currency: "eth", Amount: "0.5", To: recipient, Data: "0xdeadbeef"}
	_, err := b.Build(context.Background(), req, signer)
	require.NoError(t, err)

	tx := signer.sent[0]
	assert.Equal(t, common.FromHex("0xdeadbeef"), tx.Data)
	assert.Equal(t, "500000000000000000", tx.Value.String())
}

func TestBuild_TokenTransfer(t *testing.T) {
	b := newBuilder(t)
	signer := &fakeSigner{hash: common.HexToHash("0x03")}

	req := &types.PaymentRequest{ChainID: 1, Currency: "dai", Amount: "10", To: recipient}
	_, err := b.Build(context.Background(), req, signer)
	require.NoError(t, err)

	require.Len(t, signer.sent, 1)
	tx := signer.sent[0]

	// the transaction targets the token contract, not the recipient
	assert.Equal(t, common.HexToAddress(daiContract), tx.To)
	assert.Equal(t, "0", tx.Value.String())

	// calldata encodes transfer(recipient, 10 * 10^18)
	require.Len(t, tx.Data, 4+32+32)
	assert.Equal(t, transferSelector, tx.Data[:4])
	assert.Equal(t, common.HexToAddress(recipient), common.BytesToAddress(tx.Data[4:36]))

	wantValue, ok := new(big.Int).SetString("10000000000000000000", 10)
	require.True(t, ok)
	assert.Zero(t, wantValue.Cmp(new(big.Int).SetBytes(tx.Data[36:68])))
}

func TestBuild_UnsupportedAsset(t *testing.T) {
	b := newBuilder(t)
	signer := &fakeSigner{}

	req := &types.PaymentRequest{ChainID: 1, Currency: "doge", Amount: "1", To: recipient}
	_, err := b.Build(context.Background(), req, signer)
	require.Error(t, err)
	assert.Equal(t, types.ErrUnsupportedAsset, types.ErrorCode(err))
	assert.Empty(t, signer.sent)
}

func TestBuild_NilSigner(t *testing.T) {
	b := newBuilder(t)

	req := &types.PaymentRequest{ChainID: 1, Currency: "eth", Amount: "1", To: recipient}
	_, err := b.Build(context.Background(), req, nil)
	require.Error(t, err)
	assert.Equal(t, types.ErrSignerUnavailable, types.ErrorCode(err))
}

func TestBuild_ExcessPrecisionRejected(t *testing.T) {
	b := newBuilder(t)
	signer := &fakeSigner{}

	req := &types.PaymentRequest{ChainID: 1, Currency: "eth", Amount: "1.0000000000000000001", To: recipient}
	_, err := b.Build(context.Background(), req, signer)
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidRequest, types.ErrorCode(err))
	assert.Empty(t, signer.sent)
}

func TestBuild_SubmissionErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		sendErr  error
		wantCode string
	}{
		{"user rejection", errors.New("user denied transaction signature"), types.ErrSubmissionRejected},
		{"revert", errors.New("execution reverted: Dai/insufficient-balance"), types.ErrSubmissionRejected},
		{"network failure", errors.New("connection refused"), types.ErrSubmissionFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newBuilder(t)
			signer := &fakeSigner{err: tc.sendErr}

			req := &types.PaymentRequest{ChainID: 1, Currency: "eth", Amount: "1", To: recipient}
			_, err := b.Build(context.Background(), req, signer)
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, types.ErrorCode(err))
			// exactly one submission per Build call, even on failure
			assert.Len(t, signer.sent, 1)
		})
	}
}

func TestBuild_XDAINativeOnChain100(t *testing.T) {
	b := newBuilder(t)
	signer := &fakeSigner{hash: common.HexToHash("0x04")}

	req := &types.PaymentRequest{ChainID: 100, Currency: "xdai", Amount: "2", To: recipient}
	_, err := b.Build(context.Background(), req, signer)
	require.NoError(t, err)

	tx := signer.sent[0]
	assert.Equal(t, common.HexToAddress(recipient), tx.To)
	assert.Equal(t, "2000000000000000000", tx.Value.String())
}
