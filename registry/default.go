package registry

import "github.com/chainpay/paylink/types"

// Default returns the built-in registry of supported chains and assets.
func Default() *Registry {
	chains := []types.ChainDescriptor{
		{
			ChainID:        1,
			Name:           "Ethereum",
			Network:        "mainnet",
			NativeCurrency: types.Currency{Name: "Ethereum", Symbol: "ETH", Decimals: 18},
			ExplorerURL:    "https://etherscan.io",
		},
		{
			ChainID:        3,
			Name:           "Ethereum Ropsten Testnet",
			Network:        "ropsten",
			NativeCurrency: types.Currency{Name: "Ethereum", Symbol: "ETH", Decimals: 18},
			ExplorerURL:    "https://ropsten.etherscan.io",
		},
		{
			ChainID:        4,
			Name:           "Ethereum Rinkeby Testnet",
			Network:        "rinkeby",
			NativeCurrency: types.Currency{Name: "Ethereum", Symbol: "ETH", Decimals: 18},
			ExplorerURL:    "https://rinkeby.etherscan.io",
		},
		{
			ChainID:        100,
			Name:           "xDAI",
			Network:        "xdai",
			NativeCurrency: types.Currency{Name: "xDAI", Symbol: "xDAI", Decimals: 18},
			ExplorerURL:    "https://blockscout.com/poa/dai",
			RPCURL:         "https://rpc.xdaichain.com",
		},
	}

	assets := map[types.ChainID][]types.AssetDescriptor{
		1: {
			{Symbol: "ETH", Name: "Ethereum", Decimals: "18"},
			{Symbol: "DAI", Name: "DAI Stablecoin", Decimals: "18", ContractAddress: "0x6b175474e89094c44da98b954eedeac495271d0f"},
		},
		3: {
			{Symbol: "ETH", Name: "Ethereum", Decimals: "18"},
			{Symbol: "DAI", Name: "DAI Stablecoin", Decimals: "18", ContractAddress: "0xad6d458402f60fd3bd25163575031acdce07538d"},
		},
		4: {
			{Symbol: "ETH", Name: "Ethereum", Decimals: "18"},
			{Symbol: "DAI", Name: "DAI Stablecoin", Decimals: "18", ContractAddress: "0xc7AD46e0b8a400Bb3C915120d284AafbA8fc4735"},
		},
		100: {
			{Symbol: "xDAI", Name: "xDAI", Decimals: "18"},
		},
	}

	return New(chains, assets)
}
