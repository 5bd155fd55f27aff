// Package royalty provides ERC-2981 style royalty configuration and quotes.
package royalty

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// MaxBasisPoints is the fee denominator: 10000 basis points = 100%.
const MaxBasisPoints = 10000

// Manager holds the royalty receiver and rate for a collection.
type Manager struct {
	receiver    common.Address
	basisPoints uint16

	mu sync.RWMutex
}

// NewManager creates a royalty manager.
func NewManager(receiver common.Address, basisPoints uint16) (*Manager, error) {
	if basisPoints > MaxBasisPoints {
		return nil, ErrInvalidBasisPoints
	}
	return &Manager{receiver: receiver, basisPoints: basisPoints}, nil
}

// Set updates the royalty receiver and rate.
func (m *Manager) Set(receiver common.Address, basisPoints uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if receiver == (common.Address{}) {
		return ErrZeroReceiver
	}
	if basisPoints > MaxBasisPoints {
		return ErrInvalidBasisPoints
	}
	m.receiver = receiver
	m.basisPoints = basisPoints
	return nil
}

// Receiver returns the royalty receiver.
func (m *Manager) Receiver() common.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.receiver
}

// BasisPoints returns the royalty rate in basis points.
func (m *Manager) BasisPoints() uint16 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.basisPoints
}

// Quote returns the royalty receiver and amount owed for a sale price.
func (m *Manager) Quote(salePrice *big.Int) (common.Address, *big.Int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	amount := new(big.Int).Mul(salePrice, big.NewInt(int64(m.basisPoints)))
	amount.Div(amount, big.NewInt(MaxBasisPoints))
	return m.receiver, amount
}
