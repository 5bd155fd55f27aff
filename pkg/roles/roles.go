// Package roles provides the capability store for sale administration.
package roles

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Capability identifies an administrative permission.
type Capability uint8

// Capabilities.
const (
	Admin Capability = iota
	AgentMinter
	Treasurer
)

// String returns the capability name.
func (c Capability) String() string {
	switch c {
	case Admin:
		return "ADMIN"
	case AgentMinter:
		return "AGENT_MINTER"
	case Treasurer:
		return "TREASURER"
	default:
		return "UNKNOWN"
	}
}

// Store maps identities to their granted capabilities.
//
// Treasurer is a managed capability: it always tracks the treasury receiver
// and exactly one identity holds it. Grant and Revoke reject it; only
// SetTreasurer moves it.
type Store struct {
	owner     common.Address
	grants    map[Capability]map[common.Address]bool
	treasurer common.Address

	mu sync.RWMutex
}

// NewStore creates a capability store. The owner receives Admin and the
// treasury address receives Treasurer.
func NewStore(owner, treasury common.Address) *Store {
	s := &Store{
		owner: owner,
		grants: map[Capability]map[common.Address]bool{
			Admin:       {owner: true},
			AgentMinter: {},
			Treasurer:   {treasury: true},
		},
		treasurer: treasury,
	}
	return s
}

// Owner returns the contract owner.
func (s *Store) Owner() common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.owner
}

// Has reports whether addr holds the capability. The owner holds only what
// it has been granted; in particular it does not implicitly hold Treasurer.
func (s *Store) Has(addr common.Address, c Capability) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.grants[c][addr]
}

// Grant grants a capability to an address.
func (s *Store) Grant(c Capability, addr common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if addr == (common.Address{}) {
		return ErrZeroAddress
	}
	if c == Treasurer {
		return ErrTreasurerManaged
	}
	s.grants[c][addr] = true
	return nil
}

// Revoke revokes a capability from an address.
func (s *Store) Revoke(c Capability, addr common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c == Treasurer {
		return ErrTreasurerManaged
	}
	delete(s.grants[c], addr)
	return nil
}

// SetTreasurer moves the Treasurer capability to a new treasury receiver,
// revoking it from the previous holder in the same step.
func (s *Store) SetTreasurer(addr common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if addr == (common.Address{}) {
		return ErrZeroAddress
	}
	delete(s.grants[Treasurer], s.treasurer)
	s.grants[Treasurer][addr] = true
	s.treasurer = addr
	return nil
}

// CurrentTreasurer returns the current holder of the Treasurer capability.
func (s *Store) CurrentTreasurer() common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.treasurer
}

// Holders returns all addresses holding a capability.
func (s *Store) Holders(c Capability) []common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()

	holders := make([]common.Address, 0, len(s.grants[c]))
	for addr := range s.grants[c] {
		holders = append(holders, addr)
	}
	return holders
}
