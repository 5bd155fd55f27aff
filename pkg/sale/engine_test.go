package sale

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant-labs/passgate/pkg/allowlist"
	"github.com/verdant-labs/passgate/pkg/roles"
	"github.com/verdant-labs/passgate/pkg/settlement"
	"github.com/verdant-labs/passgate/pkg/token"
)

var (
	owner      = common.HexToAddress("0x1000000000000000000000000000000000000001")
	treasury   = common.HexToAddress("0x1000000000000000000000000000000000000002")
	agent      = common.HexToAddress("0x1000000000000000000000000000000000000003")
	alice      = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	bob        = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	carol      = common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	engineAddr = common.HexToAddress("0xe000000000000000000000000000000000000001")
)

const (
	wlStart = int64(1000)
	wlEnd   = int64(2000)
)

// computeParams mirrors the ComputePass product line.
func computeParams() Params {
	return Params{
		Name:               "ComputePass",
		Symbol:             "CMPT",
		MaxSupply:          299,
		PublicAllocation:   99,
		ReservedAllocation: 200,
		MaxPerWallet:       1,
		WhitelistPrice:     big.NewInt(499000000),
		PublicPrice:        big.NewInt(899000000),
		AgentMintPriced:    true,
	}
}

type fixture struct {
	engine     *Engine
	collection *token.Collection
	settle     *settlement.Token
	native     *settlement.NativeLedger
	store      *roles.Store
	proofs     map[common.Address][]common.Hash
	now        int64
}

// newFixture builds an engine with alice and bob whitelisted, the whitelist
// window at [1000, 2000], the agent granted, and every account funded.
func newFixture(t *testing.T, params Params) *fixture {
	t.Helper()

	tree, err := allowlist.NewTree([]common.Address{alice, bob})
	require.NoError(t, err)

	f := &fixture{
		collection: token.NewCollection(params.Name, params.Symbol),
		settle:     settlement.NewToken("Tether USD", "USDT", 6),
		native:     settlement.NewNativeLedger(),
		store:      roles.NewStore(owner, treasury),
		proofs:     make(map[common.Address][]common.Hash),
		now:        wlStart,
	}
	require.NoError(t, f.store.Grant(roles.AgentMinter, agent))

	for _, acc := range []common.Address{alice, bob, carol, agent} {
		require.NoError(t, f.settle.Mint(acc, big.NewInt(1e12)))
	}
	for _, acc := range []common.Address{alice, bob} {
		proof, err := tree.ProofFor(acc)
		require.NoError(t, err)
		f.proofs[acc] = proof
	}

	f.engine, err = NewEngine(
		params,
		engineAddr,
		SaleWindow{WhitelistStart: wlStart, WhitelistEnd: wlEnd, Active: true},
		tree.Root(),
		Deps{
			Collection: f.collection,
			Settlement: f.settle,
			Native:     f.native,
			Roles:      f.store,
			Now:        func() int64 { return f.now },
		},
	)
	require.NoError(t, err)
	return f
}

// approve lets the engine pull the full balance of an account.
func (f *fixture) approve(t *testing.T, acc common.Address) {
	t.Helper()
	require.NoError(t, f.settle.Approve(acc, engineAddr, f.settle.BalanceOf(acc)))
}

func TestNewEngine_AllocationMismatch(t *testing.T) {
	deps := Deps{
		Collection: token.NewCollection("x", "X"),
		Settlement: settlement.NewToken("t", "T", 6),
		Roles:      roles.NewStore(owner, treasury),
	}

	params := computeParams()
	params.PublicAllocation = 100

	_, err := NewEngine(params, engineAddr, SaleWindow{}, common.Hash{}, deps)
	require.Error(t, err)
	assert.Equal(t, ErrAllocationMismatch, err)

	// Allocations whose uint64 sum wraps back to MaxSupply must not pass.
	wrapped := computeParams()
	wrapped.MaxSupply = 1
	wrapped.PublicAllocation = 1 << 63
	wrapped.ReservedAllocation = 1<<63 + 1

	_, err = NewEngine(wrapped, engineAddr, SaleWindow{}, common.Hash{}, deps)
	assert.Equal(t, ErrAllocationMismatch, err)
}

func TestNewEngine_InvalidParams(t *testing.T) {
	base := computeParams()

	noWallet := base
	noWallet.MaxPerWallet = 0

	noPrice := base
	noPrice.WhitelistPrice = nil

	deps := Deps{
		Collection: token.NewCollection("x", "X"),
		Settlement: settlement.NewToken("t", "T", 6),
		Roles:      roles.NewStore(owner, treasury),
	}

	_, err := NewEngine(noWallet, engineAddr, SaleWindow{}, common.Hash{}, deps)
	assert.Equal(t, ErrInvalidConfiguration, err)

	_, err = NewEngine(noPrice, engineAddr, SaleWindow{}, common.Hash{}, deps)
	assert.Equal(t, ErrInvalidConfiguration, err)

	_, err = NewEngine(base, engineAddr, SaleWindow{}, common.Hash{}, Deps{})
	assert.Equal(t, ErrInvalidConfiguration, err)
}

func TestMint_WhitelistScenario(t *testing.T) {
	f := newFixture(t, computeParams())
	f.approve(t, alice)
	f.now = wlStart

	receipt, err := f.engine.Mint(alice, 1, f.proofs[alice])
	require.NoError(t, err)

	assert.Equal(t, PhaseWhitelist, receipt.Phase)
	assert.Equal(t, []uint64{1}, receipt.TokenIDs)
	assert.Equal(t, big.NewInt(499000000), receipt.Payment)

	assert.Equal(t, uint64(1), f.engine.PublicMinted())
	assert.Equal(t, uint64(1), f.collection.BalanceOf(alice))
	assert.Equal(t, big.NewInt(499000000), f.settle.BalanceOf(treasury))

	events := f.engine.Events().All()
	require.Len(t, events, 1)
	assert.Equal(t, EvWhitelistMint, events[0].Type)
	assert.Equal(t, uint64(1), events[0].Quantity)
	assert.Equal(t, big.NewInt(499000000), events[0].Payment)

	// A second mint from the same wallet must fail at any later time.
	f.now = wlEnd + 500
	_, err = f.engine.Mint(alice, 1, f.proofs[alice])
	require.Error(t, err)
	assert.Equal(t, ErrExceedsWalletLimit, err)
	assert.Equal(t, uint64(1), f.engine.PublicMinted())
}

func TestMint_PublicPhase(t *testing.T) {
	f := newFixture(t, computeParams())
	f.approve(t, carol)
	f.now = wlEnd + 1

	// No proof needed after the whitelist window; carol is not whitelisted.
	receipt, err := f.engine.Mint(carol, 1, nil)
	require.NoError(t, err)

	assert.Equal(t, PhasePublic, receipt.Phase)
	assert.Equal(t, big.NewInt(899000000), receipt.Payment)
	assert.Equal(t, big.NewInt(899000000), f.settle.BalanceOf(treasury))

	events := f.engine.Events().All()
	require.Len(t, events, 1)
	assert.Equal(t, EvPublicMint, events[0].Type)
}

func TestMint_SaleNotActive(t *testing.T) {
	f := newFixture(t, computeParams())
	require.NoError(t, f.engine.SetSaleWindow(owner, SaleWindow{WhitelistStart: wlStart, WhitelistEnd: wlEnd, Active: false}))

	_, err := f.engine.Mint(alice, 1, f.proofs[alice])
	assert.Equal(t, ErrSaleNotActive, err)
}

func TestMint_Paused(t *testing.T) {
	f := newFixture(t, computeParams())
	require.NoError(t, f.engine.Pause(owner))

	_, err := f.engine.Mint(alice, 1, f.proofs[alice])
	assert.Equal(t, ErrPaused, err)
}

func TestMint_ZeroAmount(t *testing.T) {
	f := newFixture(t, computeParams())

	_, err := f.engine.Mint(alice, 0, f.proofs[alice])
	assert.Equal(t, ErrInvalidAmount, err)
}

func TestMint_Upcoming(t *testing.T) {
	f := newFixture(t, computeParams())
	f.now = wlStart - 1

	_, err := f.engine.Mint(alice, 1, f.proofs[alice])
	assert.Equal(t, ErrPublicSaleNotStarted, err)
}

func TestMint_NotWhitelisted(t *testing.T) {
	f := newFixture(t, computeParams())
	f.approve(t, carol)
	f.now = wlStart + 100

	// No proof.
	_, err := f.engine.Mint(carol, 1, nil)
	assert.Equal(t, ErrNotWhitelisted, err)

	// A valid proof for another account.
	_, err = f.engine.Mint(carol, 1, f.proofs[alice])
	assert.Equal(t, ErrNotWhitelisted, err)
}

func TestMint_ZeroRootClosesWhitelist(t *testing.T) {
	f := newFixture(t, computeParams())
	require.NoError(t, f.engine.SetAllowlistRoot(owner, common.Hash{}))
	f.approve(t, alice)

	_, err := f.engine.Mint(alice, 1, f.proofs[alice])
	assert.Equal(t, ErrNotWhitelisted, err)
}

func TestMint_ExceedsPublicAllocation(t *testing.T) {
	params := computeParams()
	params.MaxSupply = 4
	params.PublicAllocation = 2
	params.ReservedAllocation = 2
	params.MaxPerWallet = 5

	f := newFixture(t, params)
	f.approve(t, alice)
	f.approve(t, bob)

	_, err := f.engine.Mint(alice, 2, f.proofs[alice])
	require.NoError(t, err)

	// The public allocation is exhausted even though max supply is not.
	_, err = f.engine.Mint(bob, 1, f.proofs[bob])
	assert.Equal(t, ErrExceedsPublicAllocation, err)
	assert.Equal(t, uint64(2), f.engine.PublicMinted())
}

func TestMint_ExceedsMaxSupply(t *testing.T) {
	params := computeParams()
	params.MaxSupply = 3
	params.PublicAllocation = 2
	params.ReservedAllocation = 1
	params.MaxPerWallet = 5

	f := newFixture(t, params)
	f.approve(t, alice)
	f.approve(t, agent)

	_, err := f.engine.AgentMint(agent, []common.Address{carol}, []uint64{1})
	require.NoError(t, err)
	_, err = f.engine.Mint(alice, 2, f.proofs[alice])
	require.NoError(t, err)

	_, err = f.engine.Mint(alice, 1, f.proofs[alice])
	assert.Equal(t, ErrExceedsMaxSupply, err)
}

func TestMint_HugeAmountRejected(t *testing.T) {
	params := computeParams()
	params.WhitelistPrice = big.NewInt(0)
	params.PublicPrice = big.NewInt(0)
	params.MaxPerWallet = 5

	f := newFixture(t, params)

	_, err := f.engine.Mint(alice, 1, f.proofs[alice])
	require.NoError(t, err)

	// An amount chosen so every additive cap check would wrap past its
	// limit; it must still fail at the supply cap instead of reaching
	// issuance.
	_, err = f.engine.Mint(alice, ^uint64(0), f.proofs[alice])
	require.Error(t, err)
	assert.Equal(t, ErrExceedsMaxSupply, err)
	assert.Equal(t, uint64(1), f.engine.PublicMinted())
	assert.Equal(t, uint64(1), f.collection.BalanceOf(alice))
}

func TestMint_PaymentFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t, computeParams())
	// No approval: the pull must fail and roll everything back.

	_, err := f.engine.Mint(alice, 1, f.proofs[alice])
	require.Error(t, err)
	assert.Equal(t, settlement.ErrInsufficientAllowance, err)

	assert.Equal(t, uint64(0), f.engine.PublicMinted())
	assert.Equal(t, uint64(0), f.collection.BalanceOf(alice))
	assert.Equal(t, uint64(0), f.collection.SelfMinted(alice))
	assert.Equal(t, big.NewInt(0), f.settle.BalanceOf(treasury))
	assert.Equal(t, 0, f.engine.Events().Len())
}

func TestAgentMint_Success(t *testing.T) {
	f := newFixture(t, computeParams())
	f.approve(t, agent)

	ids, err := f.engine.AgentMint(agent, []common.Address{alice, bob}, []uint64{2, 3})
	require.NoError(t, err)
	assert.Len(t, ids, 5)

	assert.Equal(t, uint64(5), f.engine.ReservedMinted())
	assert.Equal(t, uint64(0), f.engine.PublicMinted())
	assert.Equal(t, uint64(2), f.collection.BalanceOf(alice))
	assert.Equal(t, uint64(3), f.collection.BalanceOf(bob))

	// The agent pays the whitelist unit price for the whole batch.
	expected := new(big.Int).Mul(big.NewInt(499000000), big.NewInt(5))
	assert.Equal(t, expected, f.settle.BalanceOf(treasury))

	// Agent-issued passes are invisible to the per-wallet limit.
	assert.Equal(t, uint64(0), f.collection.SelfMinted(alice))
	f.approve(t, alice)
	_, err = f.engine.Mint(alice, 1, f.proofs[alice])
	require.NoError(t, err)

	events := f.engine.Events().All()
	require.Len(t, events, 3) // two AgentMint, one WhitelistMint
	assert.Equal(t, EvAgentMint, events[0].Type)
	assert.Equal(t, alice, events[0].Account)
	assert.Equal(t, uint64(2), events[0].Quantity)
	assert.Equal(t, EvAgentMint, events[1].Type)
	assert.Equal(t, bob, events[1].Account)
}

func TestAgentMint_Unpriced(t *testing.T) {
	params := computeParams()
	params.AgentMintPriced = false

	f := newFixture(t, params)
	// No approval needed when agent minting is unpriced.

	_, err := f.engine.AgentMint(agent, []common.Address{alice}, []uint64{3})
	require.NoError(t, err)

	assert.Equal(t, uint64(3), f.engine.ReservedMinted())
	assert.Equal(t, big.NewInt(0), f.settle.BalanceOf(treasury))
}

func TestAgentMint_Unauthorized(t *testing.T) {
	f := newFixture(t, computeParams())

	_, err := f.engine.AgentMint(alice, []common.Address{bob}, []uint64{1})
	assert.Equal(t, ErrUnauthorized, err)
}

func TestAgentMint_LengthMismatch(t *testing.T) {
	f := newFixture(t, computeParams())

	_, err := f.engine.AgentMint(agent, []common.Address{alice, bob}, []uint64{1})
	assert.Equal(t, ErrInvalidConfiguration, err)
}

func TestAgentMint_ExceedsReservedAllocation(t *testing.T) {
	f := newFixture(t, computeParams())
	f.approve(t, agent)

	// 260 fits under max supply (299) but not under the reserved
	// allocation (200); nothing may change.
	_, err := f.engine.AgentMint(agent, []common.Address{alice, bob}, []uint64{250, 10})
	require.Error(t, err)
	assert.Equal(t, ErrExceedsReservedAllocation, err)

	assert.Equal(t, uint64(0), f.engine.ReservedMinted())
	assert.Equal(t, uint64(0), f.collection.BalanceOf(alice))
	assert.Equal(t, uint64(0), f.collection.BalanceOf(bob))
	assert.Equal(t, big.NewInt(0), f.settle.BalanceOf(treasury))
}

func TestAgentMint_ExceedsMaxSupply(t *testing.T) {
	params := computeParams()
	params.MaxSupply = 10
	params.PublicAllocation = 2
	params.ReservedAllocation = 8

	f := newFixture(t, params)
	f.approve(t, agent)
	f.approve(t, alice)

	_, err := f.engine.Mint(alice, 1, f.proofs[alice])
	require.NoError(t, err)

	// 10 would fit the reserved allocation alone but not max supply with
	// one public pass already issued.
	_, err = f.engine.AgentMint(agent, []common.Address{bob}, []uint64{10})
	assert.Equal(t, ErrExceedsMaxSupply, err)
}

func TestAgentMint_ZeroRecipientLeavesNoTrace(t *testing.T) {
	f := newFixture(t, computeParams())
	f.approve(t, agent)

	// The zero recipient sits after a valid one; the rejection must come
	// before the reserved counter is charged or the agent is billed.
	_, err := f.engine.AgentMint(agent, []common.Address{alice, {}}, []uint64{1, 1})
	require.Error(t, err)
	assert.Equal(t, ErrZeroAddress, err)

	assert.Equal(t, uint64(0), f.engine.ReservedMinted())
	assert.Equal(t, uint64(0), f.engine.TotalIssued())
	assert.Equal(t, uint64(0), f.collection.BalanceOf(alice))
	assert.Equal(t, big.NewInt(0), f.settle.BalanceOf(treasury))
	assert.Equal(t, 0, f.engine.Events().Len())

	// A zero recipient with a zero amount is still just a skipped entry.
	ids, err := f.engine.AgentMint(agent, []common.Address{{}, alice}, []uint64{0, 1})
	require.NoError(t, err)
	assert.Len(t, ids, 1)
	assert.Equal(t, uint64(1), f.engine.ReservedMinted())
}

func TestAgentMint_ZeroAmountEntriesSkipped(t *testing.T) {
	f := newFixture(t, computeParams())
	f.approve(t, agent)

	ids, err := f.engine.AgentMint(agent, []common.Address{alice, bob}, []uint64{0, 2})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	assert.Equal(t, uint64(2), f.engine.ReservedMinted())
	assert.Equal(t, uint64(0), f.collection.BalanceOf(alice))
	assert.Equal(t, uint64(2), f.collection.BalanceOf(bob))

	// Only the nonzero entry emits an event.
	events := f.engine.Events().All()
	require.Len(t, events, 1)
	assert.Equal(t, bob, events[0].Account)
}

func TestAgentMint_Paused(t *testing.T) {
	f := newFixture(t, computeParams())
	require.NoError(t, f.engine.Pause(owner))

	_, err := f.engine.AgentMint(agent, []common.Address{alice}, []uint64{1})
	assert.Equal(t, ErrPaused, err)
}

func TestAgentMint_PaymentFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t, computeParams())
	// Priced agent mint without approval.

	_, err := f.engine.AgentMint(agent, []common.Address{alice}, []uint64{2})
	require.Error(t, err)
	assert.Equal(t, settlement.ErrInsufficientAllowance, err)

	assert.Equal(t, uint64(0), f.engine.ReservedMinted())
	assert.Equal(t, uint64(0), f.collection.BalanceOf(alice))
}

func TestSetSaleWindow(t *testing.T) {
	f := newFixture(t, computeParams())

	next := SaleWindow{WhitelistStart: 5000, WhitelistEnd: 6000, Active: true}
	require.NoError(t, f.engine.SetSaleWindow(owner, next))
	assert.Equal(t, next, f.engine.Window())

	// Non-admins cannot touch the window.
	err := f.engine.SetSaleWindow(alice, SaleWindow{})
	assert.Equal(t, ErrUnauthorized, err)
}

func TestSetAllowlistRoot(t *testing.T) {
	f := newFixture(t, computeParams())

	next := common.HexToHash("0x1234")
	require.NoError(t, f.engine.SetAllowlistRoot(owner, next))
	assert.Equal(t, next, f.engine.AllowlistRoot())

	err := f.engine.SetAllowlistRoot(carol, common.Hash{})
	assert.Equal(t, ErrUnauthorized, err)
}

func TestSetPrices(t *testing.T) {
	f := newFixture(t, computeParams())
	f.approve(t, alice)

	require.NoError(t, f.engine.SetPrices(owner, big.NewInt(100), big.NewInt(200)))

	receipt, err := f.engine.Mint(alice, 1, f.proofs[alice])
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), receipt.Payment)

	assert.Equal(t, ErrInvalidConfiguration, f.engine.SetPrices(owner, nil, big.NewInt(1)))
	assert.Equal(t, ErrUnauthorized, f.engine.SetPrices(alice, big.NewInt(1), big.NewInt(1)))
}

func TestGrantRevokeAgentMinter(t *testing.T) {
	f := newFixture(t, computeParams())

	require.NoError(t, f.engine.GrantAgentMinter(owner, carol))
	assert.True(t, f.store.Has(carol, roles.AgentMinter))

	require.NoError(t, f.engine.RevokeAgentMinter(owner, carol))
	assert.False(t, f.store.Has(carol, roles.AgentMinter))

	assert.Equal(t, ErrZeroAddress, f.engine.GrantAgentMinter(owner, common.Address{}))
	assert.Equal(t, ErrUnauthorized, f.engine.GrantAgentMinter(alice, carol))
}

func TestSetTreasury(t *testing.T) {
	f := newFixture(t, computeParams())
	next := common.HexToAddress("0x9999999999999999999999999999999999999999")

	// Admin capability is not enough; only the owner may move the treasury.
	require.NoError(t, f.store.Grant(roles.Admin, alice))
	assert.Equal(t, ErrUnauthorized, f.engine.SetTreasury(alice, next))

	assert.Equal(t, ErrZeroAddress, f.engine.SetTreasury(owner, common.Address{}))

	require.NoError(t, f.engine.SetTreasury(owner, next))
	assert.Equal(t, next, f.engine.Treasury())
	assert.True(t, f.store.Has(next, roles.Treasurer))
	assert.False(t, f.store.Has(treasury, roles.Treasurer))
}

func TestSetTreasury_RedirectsPayments(t *testing.T) {
	f := newFixture(t, computeParams())
	next := common.HexToAddress("0x9999999999999999999999999999999999999999")
	require.NoError(t, f.engine.SetTreasury(owner, next))

	f.approve(t, alice)
	_, err := f.engine.Mint(alice, 1, f.proofs[alice])
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(0), f.settle.BalanceOf(treasury))
	assert.Equal(t, big.NewInt(499000000), f.settle.BalanceOf(next))
}

func TestSetRoyalty(t *testing.T) {
	f := newFixture(t, computeParams())
	receiver := common.HexToAddress("0x7777777777777777777777777777777777777777")

	require.NoError(t, f.engine.SetRoyalty(owner, receiver, 500))

	to, amount := f.engine.RoyaltyQuote(big.NewInt(899000000))
	assert.Equal(t, receiver, to)
	assert.Equal(t, big.NewInt(44950000), amount)

	assert.Equal(t, ErrZeroAddress, f.engine.SetRoyalty(owner, common.Address{}, 100))
	assert.Equal(t, ErrUnauthorized, f.engine.SetRoyalty(alice, receiver, 100))
}

func TestFreezeMetadata_OneWay(t *testing.T) {
	f := newFixture(t, computeParams())

	require.NoError(t, f.engine.SetBaseURI(owner, "ipfs://compute/"))
	require.NoError(t, f.engine.FreezeMetadata(owner))

	// Frozen for everyone, including the owner, forever.
	err := f.engine.SetBaseURI(owner, "ipfs://other/")
	assert.Equal(t, ErrMetadataFrozen, err)
	assert.Equal(t, "ipfs://compute/", f.collection.BaseURI())

	// Freezing again is harmless.
	require.NoError(t, f.engine.FreezeMetadata(owner))
}

func TestPauseUnpause(t *testing.T) {
	f := newFixture(t, computeParams())
	f.approve(t, alice)

	require.NoError(t, f.engine.Pause(owner))
	assert.True(t, f.engine.Paused())

	_, err := f.engine.Mint(alice, 1, f.proofs[alice])
	assert.Equal(t, ErrPaused, err)
	_, err = f.engine.AgentMint(agent, []common.Address{bob}, []uint64{1})
	assert.Equal(t, ErrPaused, err)

	require.NoError(t, f.engine.Unpause(owner))
	_, err = f.engine.Mint(alice, 1, f.proofs[alice])
	require.NoError(t, err)

	assert.Equal(t, ErrUnauthorized, f.engine.Pause(alice))
}

func TestAuthorizeUpgrade(t *testing.T) {
	f := newFixture(t, computeParams())
	impl := common.HexToAddress("0x5555555555555555555555555555555555555555")

	require.NoError(t, f.engine.AuthorizeUpgrade(owner, impl))
	assert.Equal(t, impl, f.engine.Implementation())

	assert.Equal(t, ErrZeroAddress, f.engine.AuthorizeUpgrade(owner, common.Address{}))
	assert.Equal(t, ErrUnauthorized, f.engine.AuthorizeUpgrade(alice, impl))
}

func TestWithdraw_Token(t *testing.T) {
	f := newFixture(t, computeParams())

	// Stray settlement tokens on the engine address.
	require.NoError(t, f.settle.Mint(engineAddr, big.NewInt(12345)))

	swept, err := f.engine.Withdraw(treasury, AssetToken)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12345), swept)
	assert.Equal(t, big.NewInt(12345), f.settle.BalanceOf(treasury))
	assert.Equal(t, big.NewInt(0), f.settle.BalanceOf(engineAddr))
}

func TestWithdraw_Native(t *testing.T) {
	f := newFixture(t, computeParams())
	require.NoError(t, f.native.Credit(engineAddr, big.NewInt(777)))

	swept, err := f.engine.Withdraw(treasury, AssetNative)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(777), swept)
	assert.Equal(t, big.NewInt(777), f.native.BalanceOf(treasury))
}

func TestWithdraw_EmptyBalanceIsNoOp(t *testing.T) {
	f := newFixture(t, computeParams())

	swept, err := f.engine.Withdraw(treasury, AssetToken)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), swept)
	assert.Equal(t, 0, f.engine.Events().Len())
}

func TestWithdraw_TreasurerOnly(t *testing.T) {
	f := newFixture(t, computeParams())

	// Admin alone is not enough.
	_, err := f.engine.Withdraw(owner, AssetToken)
	assert.Equal(t, ErrUnauthorized, err)
}

func TestCapInvariantsHold(t *testing.T) {
	params := computeParams()
	params.MaxSupply = 20
	params.PublicAllocation = 8
	params.ReservedAllocation = 12
	params.MaxPerWallet = 10

	f := newFixture(t, params)
	f.approve(t, alice)
	f.approve(t, bob)
	f.approve(t, agent)

	check := func() {
		assert.LessOrEqual(t, f.engine.PublicMinted(), params.PublicAllocation)
		assert.LessOrEqual(t, f.engine.ReservedMinted(), params.ReservedAllocation)
		assert.Equal(t, f.engine.PublicMinted()+f.engine.ReservedMinted(), f.engine.TotalIssued())
	}

	steps := []func() error{
		func() error { _, err := f.engine.Mint(alice, 3, f.proofs[alice]); return err },
		func() error { _, err := f.engine.AgentMint(agent, []common.Address{carol}, []uint64{5}); return err },
		func() error { _, err := f.engine.Mint(bob, 6, f.proofs[bob]); return err }, // exceeds public allocation
		func() error { _, err := f.engine.Mint(bob, 5, f.proofs[bob]); return err },
		func() error { _, err := f.engine.AgentMint(agent, []common.Address{carol}, []uint64{8}); return err }, // exceeds max supply
		func() error { _, err := f.engine.AgentMint(agent, []common.Address{carol}, []uint64{7}); return err },
		func() error { _, err := f.engine.Mint(alice, 1, f.proofs[alice]); return err }, // supply exhausted
	}
	for _, step := range steps {
		_ = step()
		check()
	}

	assert.Equal(t, uint64(8), f.engine.PublicMinted())
	assert.Equal(t, uint64(12), f.engine.ReservedMinted())
	assert.Equal(t, uint64(20), f.engine.TotalIssued())
	assert.Equal(t, uint64(0), f.engine.RemainingPublic())
	assert.Equal(t, uint64(0), f.engine.RemainingReserved())
}
