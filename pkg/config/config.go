// Package config provides configuration management for the passgate node.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tyler-smith/go-bip39"
)

// Default values.
var (
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8711
	DefaultAccountCount  = 10
	DefaultFaucetBalance = new(big.Int).Mul(big.NewInt(1000000), big.NewInt(1e6)) // 1M USDT at 6 decimals
	DefaultMnemonic      = "test test test test test test test test test test test junk"
	DefaultTokenName     = "Tether USD"
	DefaultTokenSymbol   = "USDT"
	DefaultTokenDecimals = uint8(6)
)

// SaleConfig defines one sale's parameters.
type SaleConfig struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`

	MaxSupply          uint64 `json:"maxSupply"`
	PublicAllocation   uint64 `json:"publicAllocation"`
	ReservedAllocation uint64 `json:"reservedAllocation"`
	MaxPerWallet       uint64 `json:"maxPerWallet"`

	WhitelistPrice *big.Int `json:"whitelistPrice"`
	PublicPrice    *big.Int `json:"publicPrice"`

	WhitelistStart int64 `json:"whitelistStart"`
	WhitelistEnd   int64 `json:"whitelistEnd"`
	Active         bool  `json:"active"`

	AgentMintPriced bool `json:"agentMintPriced"`

	// Allowlist seeds the committed merkle root and lets the node serve
	// proofs. Optional; an empty list leaves the root zeroed (closed).
	Allowlist []common.Address `json:"allowlist,omitempty"`
}

// Config defines the node configuration.
type Config struct {
	Host string `json:"host"`
	Port int    `json:"port"`

	// Dev-harness accounts. Account 0 is the contract owner, account 1 the
	// initial treasury receiver, account 2 the first agent minter.
	Mnemonic      string   `json:"mnemonic"`
	AccountCount  int      `json:"accountCount"`
	FaucetBalance *big.Int `json:"faucetBalance"`

	// Settlement token.
	TokenName     string `json:"tokenName"`
	TokenSymbol   string `json:"tokenSymbol"`
	TokenDecimals uint8  `json:"tokenDecimals"`

	Sales []SaleConfig `json:"sales"`
}

// Default returns a configuration with default values and the four product
// presets.
func Default() *Config {
	return &Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		Mnemonic:      DefaultMnemonic,
		AccountCount:  DefaultAccountCount,
		FaucetBalance: new(big.Int).Set(DefaultFaucetBalance),
		TokenName:     DefaultTokenName,
		TokenSymbol:   DefaultTokenSymbol,
		TokenDecimals: DefaultTokenDecimals,
		Sales:         Presets(),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}
	if c.AccountCount < 3 {
		errs = append(errs, "accountCount must be at least 3 (owner, treasury, agent)")
	}
	if c.Mnemonic != "" && !bip39.IsMnemonicValid(c.Mnemonic) {
		errs = append(errs, "mnemonic is invalid")
	}
	if c.FaucetBalance != nil && c.FaucetBalance.Sign() < 0 {
		errs = append(errs, "faucetBalance must not be negative")
	}
	if len(c.Sales) == 0 {
		errs = append(errs, "at least one sale must be configured")
	}

	symbols := make(map[string]bool)
	for i, s := range c.Sales {
		prefix := fmt.Sprintf("sales[%d]", i)
		if s.Symbol == "" {
			errs = append(errs, prefix+": symbol is required")
		}
		if symbols[s.Symbol] {
			errs = append(errs, prefix+": duplicate symbol "+s.Symbol)
		}
		symbols[s.Symbol] = true
		if s.MaxSupply == 0 {
			errs = append(errs, prefix+": maxSupply must be greater than 0")
		}
		if s.PublicAllocation > s.MaxSupply || s.MaxSupply-s.PublicAllocation != s.ReservedAllocation {
			errs = append(errs, prefix+": publicAllocation + reservedAllocation must equal maxSupply")
		}
		if s.MaxPerWallet == 0 {
			errs = append(errs, prefix+": maxPerWallet must be greater than 0")
		}
		if s.WhitelistPrice == nil || s.WhitelistPrice.Sign() < 0 {
			errs = append(errs, prefix+": whitelistPrice must be a non-negative amount")
		}
		if s.PublicPrice == nil || s.PublicPrice.Sign() < 0 {
			errs = append(errs, prefix+": publicPrice must be a non-negative amount")
		}
		if s.WhitelistStart > s.WhitelistEnd {
			errs = append(errs, prefix+": whitelistStart must not be after whitelistEnd")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// LoadFromFile loads configuration from a JSON file and merges it with
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return MergeWithDefaults(&cfg), nil
}

// MergeWithDefaults merges a partial config with default values. A config
// that names any sale replaces the preset list wholesale.
func MergeWithDefaults(partial *Config) *Config {
	def := Default()

	if partial.Host != "" {
		def.Host = partial.Host
	}
	if partial.Port != 0 {
		def.Port = partial.Port
	}
	if partial.Mnemonic != "" {
		def.Mnemonic = partial.Mnemonic
	}
	if partial.AccountCount != 0 {
		def.AccountCount = partial.AccountCount
	}
	if partial.FaucetBalance != nil {
		def.FaucetBalance = partial.FaucetBalance
	}
	if partial.TokenName != "" {
		def.TokenName = partial.TokenName
	}
	if partial.TokenSymbol != "" {
		def.TokenSymbol = partial.TokenSymbol
	}
	if partial.TokenDecimals != 0 {
		def.TokenDecimals = partial.TokenDecimals
	}
	if len(partial.Sales) > 0 {
		def.Sales = partial.Sales
	}

	return def
}

// Copy creates a deep copy of the configuration.
func (c *Config) Copy() *Config {
	copied := *c

	if c.FaucetBalance != nil {
		copied.FaucetBalance = new(big.Int).Set(c.FaucetBalance)
	}
	copied.Sales = make([]SaleConfig, len(c.Sales))
	for i, s := range c.Sales {
		saleCopy := s
		if s.WhitelistPrice != nil {
			saleCopy.WhitelistPrice = new(big.Int).Set(s.WhitelistPrice)
		}
		if s.PublicPrice != nil {
			saleCopy.PublicPrice = new(big.Int).Set(s.PublicPrice)
		}
		if s.Allowlist != nil {
			saleCopy.Allowlist = make([]common.Address, len(s.Allowlist))
			copy(saleCopy.Allowlist, s.Allowlist)
		}
		copied.Sales[i] = saleCopy
	}

	return &copied
}

// ServerAddr returns the server address string.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
