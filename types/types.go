// Package types defines the shared data model for the paylink payment
// pipeline: chain and asset descriptors, the parsed payment request, the
// wallet session and the per-attempt payment status.
package types

import (
	"strconv"
	"strings"
)

// ChainID identifies a target blockchain network (1 = Ethereum mainnet).
type ChainID int64

// ParseChainID parses a decimal chain id string.
func ParseChainID(s string) (ChainID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return ChainID(v), nil
}

func (c ChainID) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// Symbol is a normalized (lower-case) asset symbol used as a lookup key.
type Symbol string

// NewSymbol normalizes a raw currency symbol for registry lookups.
func NewSymbol(raw string) Symbol {
	return Symbol(strings.ToLower(strings.TrimSpace(raw)))
}

func (s Symbol) String() string {
	return string(s)
}

// Currency describes a chain's native currency.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// ChainDescriptor holds the registry metadata for one supported chain.
// Descriptors are loaded once at startup and never mutated.
type ChainDescriptor struct {
	ChainID        ChainID  `json:"chainId"`
	Name           string   `json:"name"`
	Network        string   `json:"network"` // short name, e.g. "mainnet"
	NativeCurrency Currency `json:"nativeCurrency"`
	ExplorerURL    string   `json:"blockExplorerUrl"`
	RPCURL         string   `json:"rpcUrl,omitempty"`
}

// ExplorerTxURL returns the block-explorer URL for a transaction hash.
func (c *ChainDescriptor) ExplorerTxURL(txHash string) string {
	return strings.TrimRight(c.ExplorerURL, "/") + "/tx/" + txHash
}

// AssetDescriptor describes one payable asset on a chain. An asset with a
// contract address is a token; one without is the chain's native currency.
type AssetDescriptor struct {
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	Decimals        string `json:"decimals"` // string-encoded integer
	ContractAddress string `json:"contractAddress,omitempty"`
}

// IsToken reports whether the asset is a contract-backed token.
func (a *AssetDescriptor) IsToken() bool {
	return a.ContractAddress != ""
}

// DecimalsInt parses the string-encoded decimal precision.
func (a *AssetDescriptor) DecimalsInt() (int, error) {
	return strconv.Atoi(a.Decimals)
}

// PaymentRequest is the validated, immutable form of an inbound payment URL.
// It is never constructed with missing required fields or an unknown chain;
// construction failure yields no request at all.
type PaymentRequest struct {
	ChainID     ChainID `json:"chainId"`
	Currency    string  `json:"currency" validate:"required"`
	Amount      string  `json:"amount" validate:"required,amount"`
	To          string  `json:"to" validate:"required,ethaddr"`
	CallbackURL string  `json:"callbackUrl"` // empty means no redirect
	Data        string  `json:"data"`        // raw hex payload, native transfers only
}
