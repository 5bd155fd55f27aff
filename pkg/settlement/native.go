package settlement

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// NativeLedger tracks native-coin balances so stray funds sent to a sale
// contract can be swept to the treasury.
type NativeLedger struct {
	balances map[common.Address]*big.Int

	mu sync.RWMutex
}

// NewNativeLedger creates an empty native-coin ledger.
func NewNativeLedger() *NativeLedger {
	return &NativeLedger{
		balances: make(map[common.Address]*big.Int),
	}
}

// Credit adds native coin to an address.
func (l *NativeLedger) Credit(addr common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}

	balance := l.balances[addr]
	if balance == nil {
		balance = big.NewInt(0)
	}
	l.balances[addr] = new(big.Int).Add(balance, amount)
	return nil
}

// BalanceOf returns the native balance of an address.
func (l *NativeLedger) BalanceOf(addr common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if balance := l.balances[addr]; balance != nil {
		return new(big.Int).Set(balance)
	}
	return big.NewInt(0)
}

// Transfer moves native coin between addresses.
func (l *NativeLedger) Transfer(from, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}

	balance := l.balances[from]
	if balance == nil || balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	l.balances[from] = new(big.Int).Sub(balance, amount)
	toBalance := l.balances[to]
	if toBalance == nil {
		toBalance = big.NewInt(0)
	}
	l.balances[to] = new(big.Int).Add(toBalance, amount)
	return nil
}
