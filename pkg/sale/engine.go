// Package sale implements the mint-phase and allocation-accounting engine
// for a capped pass collection: a whitelist phase and a public phase drawing
// from a shared public allocation, plus a reserved allocation minted by
// designated agents.
package sale

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/verdant-labs/passgate/pkg/allowlist"
	"github.com/verdant-labs/passgate/pkg/roles"
	"github.com/verdant-labs/passgate/pkg/royalty"
	"github.com/verdant-labs/passgate/pkg/settlement"
	"github.com/verdant-labs/passgate/pkg/token"
)

// Params holds the fixed sale parameters of one product line. The
// allocations must sum to MaxSupply; this is validated at construction and
// never re-checked at runtime.
type Params struct {
	Name   string
	Symbol string

	MaxSupply          uint64
	PublicAllocation   uint64
	ReservedAllocation uint64
	MaxPerWallet       uint64

	WhitelistPrice *big.Int
	PublicPrice    *big.Int

	// AgentMintPriced controls whether agents pay the whitelist unit price
	// for reserved-allocation mints. Deployments wanting free agent mints
	// set it false.
	AgentMintPriced bool
}

// Deps are the external capabilities an engine operates against.
type Deps struct {
	Collection *token.Collection
	Settlement *settlement.Token
	Native     *settlement.NativeLedger
	Roles      *roles.Store
	Royalties  *royalty.Manager
	Events     *EventLog

	// Now supplies the current unix timestamp. Defaults to time.Now.
	Now func() int64
}

// Asset names a sweepable treasury asset.
type Asset uint8

// Sweepable assets.
const (
	AssetNative Asset = iota
	AssetToken
)

// String returns the asset name.
func (a Asset) String() string {
	if a == AssetNative {
		return "NATIVE"
	}
	return "TOKEN"
}

// MintReceipt describes a successful self-service mint.
type MintReceipt struct {
	Phase     Phase
	TokenIDs  []uint64
	UnitPrice *big.Int
	Payment   *big.Int
}

// Engine is the sale state machine for one product line. Every entry point
// runs under the engine mutex, which serializes calls and doubles as the
// non-reentrant guard: a nested call arriving through the settlement hook
// would block rather than observe the ledger mid-update.
type Engine struct {
	params  Params
	address common.Address

	window SaleWindow
	root   common.Hash

	publicMinted   uint64
	reservedMinted uint64

	paused         bool
	implementation common.Address

	collection *token.Collection
	settle     *settlement.Token
	native     *settlement.NativeLedger
	roles      *roles.Store
	royalties  *royalty.Manager
	events     *EventLog
	now        func() int64

	mu sync.Mutex
}

// NewEngine creates a sale engine. address is the engine's own asset
// address (the recipient of stray funds swept by Withdraw).
func NewEngine(params Params, address common.Address, window SaleWindow, root common.Hash, deps Deps) (*Engine, error) {
	if params.PublicAllocation > params.MaxSupply ||
		params.MaxSupply-params.PublicAllocation != params.ReservedAllocation {
		return nil, ErrAllocationMismatch
	}
	if params.MaxSupply == 0 || params.MaxPerWallet == 0 {
		return nil, ErrInvalidConfiguration
	}
	if params.WhitelistPrice == nil || params.WhitelistPrice.Sign() < 0 ||
		params.PublicPrice == nil || params.PublicPrice.Sign() < 0 {
		return nil, ErrInvalidConfiguration
	}
	if deps.Collection == nil || deps.Settlement == nil || deps.Roles == nil {
		return nil, ErrInvalidConfiguration
	}

	e := &Engine{
		params:     params,
		address:    address,
		window:     window,
		root:       root,
		collection: deps.Collection,
		settle:     deps.Settlement,
		native:     deps.Native,
		roles:      deps.Roles,
		royalties:  deps.Royalties,
		events:     deps.Events,
		now:        deps.Now,
	}
	if e.native == nil {
		e.native = settlement.NewNativeLedger()
	}
	if e.events == nil {
		e.events = NewEventLog()
	}
	if e.now == nil {
		e.now = func() int64 { return time.Now().Unix() }
	}
	if e.royalties == nil {
		m, err := royalty.NewManager(deps.Roles.CurrentTreasurer(), 0)
		if err != nil {
			return nil, err
		}
		e.royalties = m
	}
	return e, nil
}

// Mint is the self-service mint entry point. Preconditions are checked in a
// fixed order before any mutation; the first failure aborts the whole call.
// The ledger is incremented before the payment pull, and rolled back if the
// pull fails, so a failed call leaves no partial state.
func (e *Engine) Mint(caller common.Address, amount uint64, proof []common.Hash) (*MintReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return nil, ErrPaused
	}
	if caller == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	if !e.window.Active {
		return nil, ErrSaleNotActive
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	// Subtraction form keeps the cap comparisons exact for any amount; the
	// additive form wraps near the uint64 ceiling.
	if amount > e.params.MaxSupply || e.collection.TotalIssued() > e.params.MaxSupply-amount {
		return nil, ErrExceedsMaxSupply
	}
	if amount > e.params.MaxPerWallet || e.collection.SelfMinted(caller) > e.params.MaxPerWallet-amount {
		return nil, ErrExceedsWalletLimit
	}

	phase := e.window.PhaseAt(e.now())
	var unit *big.Int
	switch phase {
	case PhaseWhitelist:
		if !allowlist.Verify(e.root, caller, proof) {
			return nil, ErrNotWhitelisted
		}
		unit = e.params.WhitelistPrice
	case PhasePublic:
		unit = e.params.PublicPrice
	default:
		// PhaseUpcoming; PhaseInactive is unreachable behind the Active check.
		return nil, ErrPublicSaleNotStarted
	}

	// Both self-service phases draw from the shared public allocation.
	if amount > e.params.PublicAllocation || e.publicMinted > e.params.PublicAllocation-amount {
		return nil, ErrExceedsPublicAllocation
	}

	payment := new(big.Int).Mul(unit, new(big.Int).SetUint64(amount))
	treasury := e.roles.CurrentTreasurer()

	e.publicMinted += amount
	if err := e.settle.TransferFrom(e.address, caller, treasury, payment); err != nil {
		e.publicMinted -= amount
		return nil, err
	}

	ids, err := e.collection.IssueCounted(caller, amount)
	if err != nil {
		e.publicMinted -= amount
		if rerr := e.settle.Transfer(treasury, caller, payment); rerr != nil {
			return nil, fmt.Errorf("refund after failed issue: %w", rerr)
		}
		return nil, err
	}

	evType := EvPublicMint
	if phase == PhaseWhitelist {
		evType = EvWhitelistMint
	}
	e.events.Append(Event{
		Type:     evType,
		At:       e.now(),
		Account:  caller,
		Quantity: amount,
		Payment:  payment,
		TokenIDs: ids,
	})

	return &MintReceipt{
		Phase:     phase,
		TokenIDs:  ids,
		UnitPrice: new(big.Int).Set(unit),
		Payment:   payment,
	}, nil
}

// AgentMint issues reserved-allocation passes to a batch of recipients.
// The reserved counter is charged once, up front, after every recipient has
// been validated, so the issue loop cannot fail and leave the call partially
// applied. Zero-amount entries are skipped, not rejected; a zero recipient
// with a nonzero amount rejects the whole call before any mutation.
// Recipients' per-wallet counters are
// untouched. When the sale is configured with priced agent mints, the agent
// pays the whitelist unit price for the whole batch.
func (e *Engine) AgentMint(caller common.Address, recipients []common.Address, amounts []uint64) ([]uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return nil, ErrPaused
	}
	if !e.roles.Has(caller, roles.AgentMinter) {
		return nil, ErrUnauthorized
	}
	if len(recipients) != len(amounts) {
		return nil, ErrInvalidConfiguration
	}

	// Every recipient that will actually receive passes must be validated
	// here, before the ledger is charged: a rejection mid-issue-loop would
	// leave the call partially applied.
	var total uint64
	for i, amount := range amounts {
		if amount > 0 && recipients[i] == (common.Address{}) {
			return nil, ErrZeroAddress
		}
		if total+amount < total {
			return nil, ErrInvalidConfiguration
		}
		total += amount
	}

	if total > e.params.MaxSupply || e.collection.TotalIssued() > e.params.MaxSupply-total {
		return nil, ErrExceedsMaxSupply
	}
	if total > e.params.ReservedAllocation || e.reservedMinted > e.params.ReservedAllocation-total {
		return nil, ErrExceedsReservedAllocation
	}

	e.reservedMinted += total

	if e.params.AgentMintPriced && total > 0 {
		payment := new(big.Int).Mul(e.params.WhitelistPrice, new(big.Int).SetUint64(total))
		if err := e.settle.TransferFrom(e.address, caller, e.roles.CurrentTreasurer(), payment); err != nil {
			e.reservedMinted -= total
			return nil, err
		}
	}

	issued := make([]uint64, 0, total)
	for i, recipient := range recipients {
		if amounts[i] == 0 {
			continue
		}
		ids, err := e.collection.Issue(recipient, amounts[i])
		if err != nil {
			return nil, err
		}
		issued = append(issued, ids...)

		payment := big.NewInt(0)
		if e.params.AgentMintPriced {
			payment = new(big.Int).Mul(e.params.WhitelistPrice, new(big.Int).SetUint64(amounts[i]))
		}
		e.events.Append(Event{
			Type:     EvAgentMint,
			At:       e.now(),
			Account:  recipient,
			Quantity: amounts[i],
			Payment:  payment,
			TokenIDs: ids,
		})
	}
	return issued, nil
}

func (e *Engine) requireAdmin(caller common.Address) error {
	if !e.roles.Has(caller, roles.Admin) {
		return ErrUnauthorized
	}
	return nil
}

// SetSaleWindow replaces the sale window. No validation ties the new window
// to the current time or the previous window; admins may move or close the
// whitelist period mid-sale.
func (e *Engine) SetSaleWindow(caller common.Address, window SaleWindow) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	e.window = window
	e.events.Append(Event{Type: EvSaleWindowUpdated, At: e.now(), Account: caller, Window: &window})
	return nil
}

// SetAllowlistRoot replaces the committed allowlist root wholesale.
func (e *Engine) SetAllowlistRoot(caller common.Address, root common.Hash) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	e.root = root
	e.events.Append(Event{Type: EvAllowlistUpdated, At: e.now(), Account: caller, Root: &root})
	return nil
}

// SetPrices overrides the whitelist and public unit prices.
func (e *Engine) SetPrices(caller common.Address, whitelistPrice, publicPrice *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if whitelistPrice == nil || whitelistPrice.Sign() < 0 ||
		publicPrice == nil || publicPrice.Sign() < 0 {
		return ErrInvalidConfiguration
	}
	e.params.WhitelistPrice = new(big.Int).Set(whitelistPrice)
	e.params.PublicPrice = new(big.Int).Set(publicPrice)
	return nil
}

// GrantAgentMinter grants the agent-minter capability.
func (e *Engine) GrantAgentMinter(caller, agent common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if agent == (common.Address{}) {
		return ErrZeroAddress
	}
	if err := e.roles.Grant(roles.AgentMinter, agent); err != nil {
		return err
	}
	e.events.Append(Event{Type: EvRoleUpdated, At: e.now(), Account: agent, Role: roles.AgentMinter.String(), Granted: true})
	return nil
}

// RevokeAgentMinter revokes the agent-minter capability.
func (e *Engine) RevokeAgentMinter(caller, agent common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if err := e.roles.Revoke(roles.AgentMinter, agent); err != nil {
		return err
	}
	e.events.Append(Event{Type: EvRoleUpdated, At: e.now(), Account: agent, Role: roles.AgentMinter.String(), Granted: false})
	return nil
}

// SetTreasury changes the treasury receiver. Owner-only, stricter than
// Admin. The Treasurer capability moves to the new receiver in the same
// step; the old receiver loses it.
func (e *Engine) SetTreasury(caller, treasury common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.roles.Owner() {
		return ErrUnauthorized
	}
	if treasury == (common.Address{}) {
		return ErrZeroAddress
	}
	if err := e.roles.SetTreasurer(treasury); err != nil {
		return err
	}
	e.events.Append(Event{Type: EvRoleUpdated, At: e.now(), Account: treasury, Role: roles.Treasurer.String(), Granted: true})
	return nil
}

// SetRoyalty updates the royalty receiver and rate.
func (e *Engine) SetRoyalty(caller, receiver common.Address, basisPoints uint16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if receiver == (common.Address{}) {
		return ErrZeroAddress
	}
	return e.royalties.Set(receiver, basisPoints)
}

// SetBaseURI sets the metadata base URI. Fails permanently once metadata
// is frozen, for every caller including the owner.
func (e *Engine) SetBaseURI(caller common.Address, uri string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if e.collection.Frozen() {
		return ErrMetadataFrozen
	}
	if err := e.collection.SetBaseURI(uri); err != nil {
		return err
	}
	e.events.Append(Event{Type: EvBaseURIUpdated, At: e.now(), Account: caller, URI: uri})
	return nil
}

// FreezeMetadata permanently locks the base URI. One-way; calling it twice
// is harmless.
func (e *Engine) FreezeMetadata(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	e.collection.Freeze()
	e.events.Append(Event{Type: EvMetadataFrozen, At: e.now(), Account: caller})
	return nil
}

// Pause halts both mint entry points.
func (e *Engine) Pause(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	e.paused = true
	e.events.Append(Event{Type: EvPaused, At: e.now(), Account: caller})
	return nil
}

// Unpause resumes minting.
func (e *Engine) Unpause(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	e.paused = false
	e.events.Append(Event{Type: EvUnpaused, At: e.now(), Account: caller})
	return nil
}

// AuthorizeUpgrade records the next deployment target for this sale.
func (e *Engine) AuthorizeUpgrade(caller, implementation common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if implementation == (common.Address{}) {
		return ErrZeroAddress
	}
	e.implementation = implementation
	e.events.Append(Event{Type: EvUpgradeAuthorized, At: e.now(), Account: caller, Target: implementation})
	return nil
}

// Withdraw sweeps the engine's entire balance of the named asset to the
// treasury receiver. Treasurer-only. An empty balance is a no-op, not an
// error, and emits nothing.
func (e *Engine) Withdraw(caller common.Address, asset Asset) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.roles.Has(caller, roles.Treasurer) {
		return nil, ErrUnauthorized
	}

	treasury := e.roles.CurrentTreasurer()
	var balance *big.Int
	switch asset {
	case AssetToken:
		balance = e.settle.BalanceOf(e.address)
		if balance.Sign() == 0 {
			return balance, nil
		}
		if err := e.settle.Transfer(e.address, treasury, balance); err != nil {
			return nil, err
		}
	default:
		balance = e.native.BalanceOf(e.address)
		if balance.Sign() == 0 {
			return balance, nil
		}
		if err := e.native.Transfer(e.address, treasury, balance); err != nil {
			return nil, err
		}
	}

	e.events.Append(Event{Type: EvTreasuryWithdrawal, At: e.now(), Account: treasury, Asset: asset.String(), Payment: balance})
	return balance, nil
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.window.PhaseAt(e.now())
}

// Window returns the current sale window.
func (e *Engine) Window() SaleWindow {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.window
}

// AllowlistRoot returns the committed allowlist root.
func (e *Engine) AllowlistRoot() common.Hash {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.root
}

// Paused reports whether minting is paused.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.paused
}

// PublicMinted returns the number of passes minted from the public
// allocation.
func (e *Engine) PublicMinted() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.publicMinted
}

// ReservedMinted returns the number of passes minted from the reserved
// allocation.
func (e *Engine) ReservedMinted() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.reservedMinted
}

// RemainingPublic returns the unminted remainder of the public allocation.
func (e *Engine) RemainingPublic() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.params.PublicAllocation - e.publicMinted
}

// RemainingReserved returns the unminted remainder of the reserved
// allocation.
func (e *Engine) RemainingReserved() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.params.ReservedAllocation - e.reservedMinted
}

// TotalIssued returns the total number of issued passes.
func (e *Engine) TotalIssued() uint64 {
	return e.collection.TotalIssued()
}

// SelfMinted returns how many passes an address obtained through Mint.
func (e *Engine) SelfMinted(addr common.Address) uint64 {
	return e.collection.SelfMinted(addr)
}

// Treasury returns the current treasury receiver.
func (e *Engine) Treasury() common.Address {
	return e.roles.CurrentTreasurer()
}

// RoyaltyQuote returns the royalty receiver and amount for a sale price.
func (e *Engine) RoyaltyQuote(salePrice *big.Int) (common.Address, *big.Int) {
	return e.royalties.Quote(salePrice)
}

// Implementation returns the recorded next deployment target.
func (e *Engine) Implementation() common.Address {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.implementation
}

// Params returns a copy of the sale parameters.
func (e *Engine) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.params
	p.WhitelistPrice = new(big.Int).Set(e.params.WhitelistPrice)
	p.PublicPrice = new(big.Int).Set(e.params.PublicPrice)
	return p
}

// Address returns the engine's own asset address.
func (e *Engine) Address() common.Address {
	return e.address
}

// Collection returns the pass collection backing this sale.
func (e *Engine) Collection() *token.Collection {
	return e.collection
}

// Events returns the engine's event log.
func (e *Engine) Events() *EventLog {
	return e.events
}
