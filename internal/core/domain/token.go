package domain

// TokenDescriptor is static metadata describing one fungible asset the client
// can operate on. Descriptors are immutable; exactly one is selected at a
// time, the first registry entry by default.
type TokenDescriptor struct {
	Name            string `yaml:"name"             json:"name"`
	Symbol          string `yaml:"symbol"           json:"symbol"`
	ContractAddress string `yaml:"contract_address" json:"contractAddress"`
	Decimals        uint8  `yaml:"decimals"         json:"decimals"`
	PriceSourceID   string `yaml:"price_source_id"  json:"priceSourceId"` // empty = no external quote
	LogoURL         string `yaml:"logo_url"         json:"logoUrl"`
}

// DefaultTokens returns the built-in token registry, in selection order.
// A config file may replace it entirely.
func DefaultTokens() []TokenDescriptor {
	return []TokenDescriptor{
		{
			Name:            "MaveriX Token",
			Symbol:          "MXT",
			ContractAddress: "0x8ec06564305BF5624a784d943572Bc1A0ccB8166",
			Decimals:        18,
			LogoURL:         "/mxt-logo.png",
		},
		{
			Name:            "Wrapped ETH",
			Symbol:          "WETH",
			ContractAddress: "0xdd13E55209Fd76AfE204dBda4007C227904f0a81",
			Decimals:        18,
			PriceSourceID:   "weth",
			LogoURL:         "https://cryptologos.cc/logos/ethereum-eth-logo.png",
		},
		{
			Name:            "Wrapped BTC",
			Symbol:          "WBTC",
			ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			Decimals:        8,
			PriceSourceID:   "wrapped-bitcoin",
			LogoURL:         "https://cryptologos.cc/logos/bitcoin-btc-logo.png",
		},
	}
}
