// Package token provides the pass collection issuance capability.
package token

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Collection manages a sequentially issued pass collection. Token IDs start
// at 1 and are contiguous. The collection does not enforce supply caps; the
// sale engine checks caps before calling Issue.
type Collection struct {
	name   string
	symbol string

	baseURI string
	frozen  bool

	nextID     uint64
	owners     map[uint64]common.Address
	balances   map[common.Address]uint64
	selfMinted map[common.Address]uint64

	mu sync.RWMutex
}

// NewCollection creates an empty collection.
func NewCollection(name, symbol string) *Collection {
	return &Collection{
		name:       name,
		symbol:     symbol,
		nextID:     1,
		owners:     make(map[uint64]common.Address),
		balances:   make(map[common.Address]uint64),
		selfMinted: make(map[common.Address]uint64),
	}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Symbol returns the collection symbol.
func (c *Collection) Symbol() string { return c.symbol }

// Issue issues quantity passes to the recipient and returns their IDs.
// It does not touch the recipient's self-mint counter: agent-issued passes
// are invisible to the per-wallet limit.
func (c *Collection) Issue(to common.Address, quantity uint64) ([]uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.issue(to, quantity)
}

// IssueCounted issues quantity passes to the recipient and counts them
// against the recipient's self-mint allowance. Used only by the
// self-service mint path.
func (c *Collection) IssueCounted(to common.Address, quantity uint64) ([]uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids, err := c.issue(to, quantity)
	if err != nil {
		return nil, err
	}
	c.selfMinted[to] += quantity
	return ids, nil
}

func (c *Collection) issue(to common.Address, quantity uint64) ([]uint64, error) {
	if to == (common.Address{}) {
		return nil, ErrZeroAddress
	}

	ids := make([]uint64, quantity)
	for i := uint64(0); i < quantity; i++ {
		id := c.nextID + i
		c.owners[id] = to
		ids[i] = id
	}
	c.nextID += quantity
	c.balances[to] += quantity
	return ids, nil
}

// TotalIssued returns the number of passes issued so far.
func (c *Collection) TotalIssued() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.nextID - 1
}

// BalanceOf returns the number of passes held by an address.
func (c *Collection) BalanceOf(addr common.Address) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.balances[addr]
}

// SelfMinted returns how many passes an address obtained through the
// self-service mint path.
func (c *Collection) SelfMinted(addr common.Address) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.selfMinted[addr]
}

// OwnerOf returns the owner of a pass.
func (c *Collection) OwnerOf(id uint64) (common.Address, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	owner, ok := c.owners[id]
	return owner, ok
}

// SetBaseURI sets the metadata base URI. Fails permanently once metadata
// is frozen.
func (c *Collection) SetBaseURI(uri string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return ErrMetadataFrozen
	}
	c.baseURI = uri
	return nil
}

// BaseURI returns the current metadata base URI.
func (c *Collection) BaseURI() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.baseURI
}

// Freeze permanently locks the base URI. Calling it again is harmless.
func (c *Collection) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frozen = true
}

// Frozen reports whether metadata is frozen.
func (c *Collection) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.frozen
}

// TokenURI returns the metadata URI for an issued pass.
func (c *Collection) TokenURI(id uint64) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.owners[id]; !ok {
		return "", ErrUnknownToken
	}
	return fmt.Sprintf("%s%d", c.baseURI, id), nil
}
