// Package align checks that the wallet's connected chain matches the chain a
// payment request targets, and asks the wallet to switch when it does not.
package align

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainpay/paylink/logger"
	"github.com/chainpay/paylink/types"
	"github.com/chainpay/paylink/wallet"
)

// IsAligned reports whether the wallet chain matches the request chain.
func IsAligned(walletChainID, requestChainID types.ChainID) bool {
	return walletChainID == requestChainID
}

// Manager builds chain add/switch requests for the wallet boundary.
type Manager struct {
	log logger.Logger

	// InfuraProjectID feeds the derived RPC fallback for chains whose
	// registry entry carries no RPC URL.
	infuraProjectID string
}

// NewManager builds an alignment manager. infuraProjectID may be empty when
// every registry chain carries its own RPC URL.
func NewManager(infuraProjectID string, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Manager{log: log, infuraProjectID: infuraProjectID}
}

// RequestSwitch asks the provider to move to the described chain. Rejection
// by the wallet surfaces as an actionable error; no automatic retry.
func (m *Manager) RequestSwitch(ctx context.Context, provider wallet.Provider, chain *types.ChainDescriptor) error {
	if provider == nil {
		return types.NewPayError(types.ErrSignerUnavailable, "no wallet provider connected")
	}

	params, err := m.AddChainParams(chain)
	if err != nil {
		return err
	}

	m.log.Info("requesting chain switch", map[string]any{
		"chainId": chain.ChainID,
		"name":    chain.Name,
	})
	if err := provider.SwitchChain(ctx, params); err != nil {
		return fmt.Errorf("error while switching chains: %w", err)
	}
	return nil
}

// AddChainParams derives an EIP-3085 style descriptor from registry chain
// metadata. When the registry entry has no RPC URL, a default endpoint keyed
// by the chain's network name is derived instead.
func (m *Manager) AddChainParams(chain *types.ChainDescriptor) (wallet.AddChainParams, error) {
	if chain == nil {
		return wallet.AddChainParams{}, types.NewPayError(types.ErrUnsupportedChain, "no chain descriptor to switch to")
	}

	rpcURL := chain.RPCURL
	if rpcURL == "" {
		if chain.Network == "" {
			return wallet.AddChainParams{}, &types.PayError{
				Code:    types.ErrUnsupportedChain,
				Message: fmt.Sprintf("chain %d has no RPC URL and no network name to derive one", chain.ChainID),
			}
		}
		rpcURL = fmt.Sprintf("https://%s.infura.io/v3/%s", chain.Network, m.infuraProjectID)
	}

	return wallet.AddChainParams{
		ChainID:           hexutil.EncodeUint64(uint64(chain.ChainID)),
		ChainName:         chain.Name,
		NativeCurrency:    chain.NativeCurrency,
		RPCURLs:           []string{rpcURL},
		BlockExplorerURLs: []string{chain.ExplorerURL},
	}, nil
}
