package chainmeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainsJSON = `[
  {
    "name": "Ethereum Mainnet",
    "shortName": "eth",
    "network": "mainnet",
    "chainId": 1,
    "rpc": ["https://cloudflare-eth.com"],
    "infoURL": "https://ethereum.org",
    "nativeCurrency": {"name": "Ether", "symbol": "ETH", "decimals": 18},
    "explorers": [{"url": "https://etherscan.io"}]
  },
  {
    "name": "Gnosis",
    "shortName": "gno",
    "network": "mainnet",
    "chainId": 100,
    "rpc": [],
    "nativeCurrency": {"name": "xDAI", "symbol": "XDAI", "decimals": 18},
    "explorers": []
  }
]`

func TestResolveChainMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chainsJSON))
	}))
	defer server.Close()

	client := NewWithURL(server.URL)

	chain, err := client.ResolveChainMetadata(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Ethereum Mainnet", chain.Name)
	assert.Equal(t, "ETH", chain.NativeCurrency.Symbol)
	assert.Equal(t, 18, chain.NativeCurrency.Decimals)
	assert.Equal(t, "https://etherscan.io", chain.ExplorerURL)
	assert.Equal(t, "https://cloudflare-eth.com", chain.RPCURL)
}

func TestResolveChainMetadata_SparseEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(chainsJSON))
	}))
	defer server.Close()

	chain, err := NewWithURL(server.URL).ResolveChainMetadata(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "Gnosis", chain.Name)
	assert.Empty(t, chain.ExplorerURL)
	assert.Empty(t, chain.RPCURL)
}

func TestResolveChainMetadata_UnknownChain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(chainsJSON))
	}))
	defer server.Close()

	_, err := NewWithURL(server.URL).ResolveChainMetadata(context.Background(), 1337)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1337")
}

func TestResolveChainMetadata_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewWithURL(server.URL).ResolveChainMetadata(context.Background(), 1)
	require.Error(t, err)
}
