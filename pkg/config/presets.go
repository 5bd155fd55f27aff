package config

import "math/big"

// usdt converts whole-dollar amounts to 6-decimal settlement units.
func usdt(dollars int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(dollars), big.NewInt(1e6))
}

// Presets returns the four product-line sale configurations. Each is a
// parameter set of the same engine; windows start inactive until an admin
// opens them.
func Presets() []SaleConfig {
	return []SaleConfig{
		{
			Name:               "SeedPass",
			Symbol:             "SEED",
			MaxSupply:          3000,
			PublicAllocation:   2700,
			ReservedAllocation: 300,
			MaxPerWallet:       3,
			WhitelistPrice:     usdt(99),
			PublicPrice:        usdt(149),
			AgentMintPriced:    true,
		},
		{
			Name:               "TreePass",
			Symbol:             "TREE",
			MaxSupply:          1500,
			PublicAllocation:   1300,
			ReservedAllocation: 200,
			MaxPerWallet:       2,
			WhitelistPrice:     usdt(199),
			PublicPrice:        usdt(299),
			AgentMintPriced:    true,
		},
		{
			Name:               "SolarPass",
			Symbol:             "SOLR",
			MaxSupply:          999,
			PublicAllocation:   799,
			ReservedAllocation: 200,
			MaxPerWallet:       1,
			WhitelistPrice:     usdt(299),
			PublicPrice:        usdt(499),
			AgentMintPriced:    true,
		},
		{
			Name:               "ComputePass",
			Symbol:             "CMPT",
			MaxSupply:          299,
			PublicAllocation:   99,
			ReservedAllocation: 200,
			MaxPerWallet:       1,
			WhitelistPrice:     usdt(499),
			PublicPrice:        usdt(899),
			AgentMintPriced:    true,
		},
	}
}

// Preset returns the preset with the given symbol.
func Preset(symbol string) (SaleConfig, bool) {
	for _, s := range Presets() {
		if s.Symbol == symbol {
			return s, true
		}
	}
	return SaleConfig{}, false
}
