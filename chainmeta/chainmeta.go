// Package chainmeta fetches chain metadata from the public EIP-155 chain
// registry. It is display-name enrichment only: a fetch failure must never
// block the payment flow, which always resolves against the static registry.
package chainmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chainpay/paylink/types"
)

// DefaultRegistryURL is the public EIP-155 chain list.
const DefaultRegistryURL = "https://chainid.network/chains.json"

// chainEntry is the subset of the chains.json record this client consumes.
type chainEntry struct {
	Name      string   `json:"name"`
	ShortName string   `json:"shortName"`
	Network   string   `json:"network"`
	ChainID   int64    `json:"chainId"`
	RPC       []string `json:"rpc"`
	InfoURL   string   `json:"infoURL"`
	Currency  struct {
		Name     string `json:"name"`
		Symbol   string `json:"symbol"`
		Decimals int    `json:"decimals"`
	} `json:"nativeCurrency"`
	Explorers []struct {
		URL string `json:"url"`
	} `json:"explorers"`
}

// Client fetches chain descriptors from a remote registry.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New builds a Client against the default registry.
func New() *Client {
	return NewWithURL(DefaultRegistryURL)
}

// NewWithURL builds a Client against a custom registry endpoint.
func NewWithURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

// ResolveChainMetadata fetches the descriptor for one chain id.
func (c *Client) ResolveChainMetadata(ctx context.Context, chainID types.ChainID) (*types.ChainDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chain registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chain registry returned status %d", resp.StatusCode)
	}

	var entries []chainEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode chain registry response: %w", err)
	}

	for _, entry := range entries {
		if types.ChainID(entry.ChainID) != chainID {
			continue
		}
		desc := &types.ChainDescriptor{
			ChainID: chainID,
			Name:    entry.Name,
			Network: entry.Network,
			NativeCurrency: types.Currency{
				Name:     entry.Currency.Name,
				Symbol:   entry.Currency.Symbol,
				Decimals: entry.Currency.Decimals,
			},
		}
		if len(entry.Explorers) > 0 {
			desc.ExplorerURL = entry.Explorers[0].URL
		}
		if len(entry.RPC) > 0 {
			desc.RPCURL = entry.RPC[0]
		}
		return desc, nil
	}

	return nil, fmt.Errorf("no chain found with chainId: %d", chainID)
}
