// Package registry provides the static chain and asset lookup tables the
// payment pipeline resolves inbound requests against. The registry is built
// once at startup and is read-only afterwards.
package registry

import (
	"github.com/chainpay/paylink/types"
)

// Registry maps chain ids to chain metadata and (chainId, symbol) pairs to
// asset metadata. Symbol lookups are case-insensitive.
type Registry struct {
	chains map[types.ChainID]*types.ChainDescriptor
	assets map[types.ChainID]map[types.Symbol]*types.AssetDescriptor
}

// New builds a registry from chain descriptors and per-chain asset tables.
// Asset map keys are normalized, so callers may pass display-cased symbols.
func New(chains []types.ChainDescriptor, assets map[types.ChainID][]types.AssetDescriptor) *Registry {
	r := &Registry{
		chains: make(map[types.ChainID]*types.ChainDescriptor, len(chains)),
		assets: make(map[types.ChainID]map[types.Symbol]*types.AssetDescriptor, len(assets)),
	}
	for i := range chains {
		c := chains[i]
		r.chains[c.ChainID] = &c
	}
	for chainID, list := range assets {
		table := make(map[types.Symbol]*types.AssetDescriptor, len(list))
		for i := range list {
			a := list[i]
			table[types.NewSymbol(a.Symbol)] = &a
		}
		r.assets[chainID] = table
	}
	return r
}

// ResolveChain looks up a chain descriptor by id.
func (r *Registry) ResolveChain(chainID types.ChainID) (*types.ChainDescriptor, bool) {
	c, ok := r.chains[chainID]
	return c, ok
}

// ResolveAsset looks up an asset by chain id and symbol. The symbol is
// normalized before lookup, so "ETH" and "eth" resolve identically.
func (r *Registry) ResolveAsset(chainID types.ChainID, symbol string) (*types.AssetDescriptor, bool) {
	table, ok := r.assets[chainID]
	if !ok {
		return nil, false
	}
	a, ok := table[types.NewSymbol(symbol)]
	return a, ok
}

// Chains returns all registered chain descriptors.
func (r *Registry) Chains() []types.ChainDescriptor {
	out := make([]types.ChainDescriptor, 0, len(r.chains))
	for _, c := range r.chains {
		out = append(out, *c)
	}
	return out
}

// Tokens returns the symbols of contract-backed assets on a chain.
func (r *Registry) Tokens(chainID types.ChainID) []string {
	table, ok := r.assets[chainID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(table))
	for _, a := range table {
		if a.IsToken() {
			out = append(out, a.Symbol)
		}
	}
	return out
}
