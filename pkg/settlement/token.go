// Package settlement provides the settlement-token and native-balance
// capabilities used for mint payment and treasury sweeps.
package settlement

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Token is an ERC-20 style settlement token with balances and allowances.
// Mint payments are pulled through TransferFrom by the sale engine acting
// as the approved spender.
type Token struct {
	name     string
	symbol   string
	decimals uint8

	balances    map[common.Address]*big.Int
	allowances  map[common.Address]map[common.Address]*big.Int
	totalSupply *big.Int

	mu sync.RWMutex
}

// NewToken creates a settlement token.
func NewToken(name, symbol string, decimals uint8) *Token {
	return &Token{
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		balances:    make(map[common.Address]*big.Int),
		allowances:  make(map[common.Address]map[common.Address]*big.Int),
		totalSupply: big.NewInt(0),
	}
}

// Name returns the token name.
func (t *Token) Name() string { return t.name }

// Symbol returns the token symbol.
func (t *Token) Symbol() string { return t.symbol }

// Decimals returns the token decimals.
func (t *Token) Decimals() uint8 { return t.decimals }

// Mint mints tokens to an address. Used by the dev-harness faucet.
func (t *Token) Mint(to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}

	balance := t.balances[to]
	if balance == nil {
		balance = big.NewInt(0)
	}
	t.balances[to] = new(big.Int).Add(balance, amount)
	t.totalSupply = new(big.Int).Add(t.totalSupply, amount)
	return nil
}

// BalanceOf returns the balance of an address.
func (t *Token) BalanceOf(addr common.Address) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if balance := t.balances[addr]; balance != nil {
		return new(big.Int).Set(balance)
	}
	return big.NewInt(0)
}

// TotalSupply returns the total minted supply.
func (t *Token) TotalSupply() *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return new(big.Int).Set(t.totalSupply)
}

// Approve sets the allowance a spender may pull from the owner.
func (t *Token) Approve(owner, spender common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}

	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[common.Address]*big.Int)
	}
	t.allowances[owner][spender] = new(big.Int).Set(amount)
	return nil
}

// Allowance returns the amount a spender may pull from the owner.
func (t *Token) Allowance(owner, spender common.Address) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if allowed := t.allowances[owner][spender]; allowed != nil {
		return new(big.Int).Set(allowed)
	}
	return big.NewInt(0)
}

// Transfer moves tokens from one address to another.
func (t *Token) Transfer(from, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.transfer(from, to, amount)
}

// TransferFrom pulls tokens from an owner on behalf of an approved spender,
// failing loudly on insufficient balance or allowance.
func (t *Token) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	allowed := t.allowances[from][spender]
	if allowed == nil || allowed.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}

	if err := t.transfer(from, to, amount); err != nil {
		return err
	}
	t.allowances[from][spender] = new(big.Int).Sub(allowed, amount)
	return nil
}

func (t *Token) transfer(from, to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}

	balance := t.balances[from]
	if balance == nil || balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	t.balances[from] = new(big.Int).Sub(balance, amount)
	toBalance := t.balances[to]
	if toBalance == nil {
		toBalance = big.NewInt(0)
	}
	t.balances[to] = new(big.Int).Add(toBalance, amount)
	return nil
}
