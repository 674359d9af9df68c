// Package wallet defines the narrow capability boundary between the payment
// pipeline and a concrete wallet backend, plus an RPC-backed implementation
// over go-ethereum. The core never branches on backend identity; every
// backend exposes the same connect/chain/sign/subscribe/close surface.
package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainpay/paylink/types"
)

// TxRequest is the single transaction shape the pipeline submits: a target,
// a smallest-unit value and an optional call payload.
type TxRequest struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// Signer is the wallet-held capability able to authorize and broadcast one
// transaction on behalf of an address.
type Signer interface {
	Address() common.Address
	SendTransaction(ctx context.Context, tx TxRequest) (common.Hash, error)
}

// AddChainParams describes a chain for the provider's network-management
// capability, mirroring the EIP-3085 wallet_addEthereumChain request shape.
type AddChainParams struct {
	ChainID           string         `json:"chainId"` // hex-encoded
	ChainName         string         `json:"chainName"`
	NativeCurrency    types.Currency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

// Provider is the capability surface a connected wallet backend exposes.
type Provider interface {
	// Connect establishes the wallet session. It suspends until the backend
	// is reachable or the context is done.
	Connect(ctx context.Context) error

	// ChainID reports the chain the wallet is currently connected to.
	ChainID(ctx context.Context) (types.ChainID, error)

	// Signer returns the signing capability, or nil before Connect.
	Signer() Signer

	// SwitchChain asks the backend to move to the described chain.
	SwitchChain(ctx context.Context, params AddChainParams) error

	// Subscribe registers a new event subscription. The caller owns the
	// returned subscription and must Close it.
	Subscribe() *Subscription

	// Close tears the session down and notifies subscribers.
	Close() error
}

// EventKind classifies wallet session events.
type EventKind string

const (
	EventDisconnected    EventKind = "disconnected"
	EventAccountsChanged EventKind = "accountsChanged"
	EventChainChanged    EventKind = "chainChanged"
)

// Event is a wallet session change notification.
type Event struct {
	Kind    EventKind
	Address string
	ChainID types.ChainID
}
