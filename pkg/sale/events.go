package sale

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// EventType identifies an engine event for off-chain indexing.
type EventType string

// Event types.
const (
	EvWhitelistMint      EventType = "WhitelistMint"
	EvPublicMint         EventType = "PublicMint"
	EvAgentMint          EventType = "AgentMint"
	EvSaleWindowUpdated  EventType = "SaleWindowUpdated"
	EvAllowlistUpdated   EventType = "AllowlistUpdated"
	EvRoleUpdated        EventType = "RoleUpdated"
	EvMetadataFrozen     EventType = "MetadataFrozen"
	EvBaseURIUpdated     EventType = "BaseURIUpdated"
	EvTreasuryWithdrawal EventType = "TreasuryWithdrawal"
	EvPaused             EventType = "Paused"
	EvUnpaused           EventType = "Unpaused"
	EvUpgradeAuthorized  EventType = "UpgradeAuthorized"
)

// Event is a single engine event. Fields beyond Type, Seq and At are set
// per event type; unused fields are zero.
type Event struct {
	Type EventType `json:"type"`
	Seq  uint64    `json:"seq"`
	At   int64     `json:"at"`

	Account  common.Address `json:"account,omitempty"`
	Quantity uint64         `json:"quantity,omitempty"`
	Payment  *big.Int       `json:"payment,omitempty"`
	TokenIDs []uint64       `json:"tokenIds,omitempty"`
	Window   *SaleWindow    `json:"window,omitempty"`
	Root     *common.Hash   `json:"root,omitempty"`
	Role     string         `json:"role,omitempty"`
	Granted  bool           `json:"granted,omitempty"`
	URI      string         `json:"uri,omitempty"`
	Asset    string         `json:"asset,omitempty"`
	Target   common.Address `json:"target,omitempty"`
}

// EventLog is an append-only in-memory event log.
type EventLog struct {
	events []Event
	seq    uint64

	mu sync.RWMutex
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{events: make([]Event, 0)}
}

// Append records an event, assigning it the next sequence number.
func (l *EventLog) Append(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	ev.Seq = l.seq
	l.events = append(l.events, ev)
}

// All returns a copy of every recorded event in order.
func (l *EventLog) All() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Since returns events with sequence numbers greater than seq.
func (l *EventLog) Since(seq uint64) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Event, 0)
	for _, ev := range l.events {
		if ev.Seq > seq {
			out = append(out, ev)
		}
	}
	return out
}

// Len returns the number of recorded events.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.events)
}
