// Package backend wires the sale engines, settlement token and dev-harness
// accounts into one node.
package backend

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/verdant-labs/passgate/pkg/allowlist"
	"github.com/verdant-labs/passgate/pkg/clock"
	"github.com/verdant-labs/passgate/pkg/config"
	"github.com/verdant-labs/passgate/pkg/roles"
	"github.com/verdant-labs/passgate/pkg/sale"
	"github.com/verdant-labs/passgate/pkg/settlement"
	"github.com/verdant-labs/passgate/pkg/token"
)

// Sale bundles one engine with its allowlist tree (when configured).
type Sale struct {
	Engine *sale.Engine
	Tree   *allowlist.Tree
}

// Backend hosts every configured sale against a shared settlement token and
// a shared set of dev-harness accounts.
type Backend struct {
	cfg *config.Config

	settle   *settlement.Token
	native   *settlement.NativeLedger
	clock    *clock.Clock
	sales    map[string]*Sale
	symbols  []string
	accounts []common.Address

	mu sync.RWMutex
}

// New builds a backend from a validated configuration. Accounts are derived
// deterministically from the mnemonic; account 0 becomes the owner,
// account 1 the treasury receiver, account 2 the first agent minter. Every
// account is funded with the faucet balance of the settlement token.
func New(cfg *config.Config) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	accounts := DeriveAccounts(cfg.Mnemonic, cfg.AccountCount)
	owner := accounts[0]
	treasury := accounts[1]
	agent := accounts[2]

	settle := settlement.NewToken(cfg.TokenName, cfg.TokenSymbol, cfg.TokenDecimals)
	native := settlement.NewNativeLedger()
	if cfg.FaucetBalance != nil && cfg.FaucetBalance.Sign() > 0 {
		for _, acc := range accounts {
			if err := settle.Mint(acc, cfg.FaucetBalance); err != nil {
				return nil, err
			}
		}
	}

	b := &Backend{
		cfg:      cfg,
		settle:   settle,
		native:   native,
		clock:    clock.New(),
		sales:    make(map[string]*Sale, len(cfg.Sales)),
		symbols:  make([]string, 0, len(cfg.Sales)),
		accounts: accounts,
	}

	for i, sc := range cfg.Sales {
		var tree *allowlist.Tree
		root := common.Hash{}
		if len(sc.Allowlist) > 0 {
			t, err := allowlist.NewTree(sc.Allowlist)
			if err != nil {
				return nil, fmt.Errorf("sale %s: %w", sc.Symbol, err)
			}
			tree = t
			root = t.Root()
		}

		store := roles.NewStore(owner, treasury)
		if err := store.Grant(roles.AgentMinter, agent); err != nil {
			return nil, err
		}

		engine, err := sale.NewEngine(
			sale.Params{
				Name:               sc.Name,
				Symbol:             sc.Symbol,
				MaxSupply:          sc.MaxSupply,
				PublicAllocation:   sc.PublicAllocation,
				ReservedAllocation: sc.ReservedAllocation,
				MaxPerWallet:       sc.MaxPerWallet,
				WhitelistPrice:     sc.WhitelistPrice,
				PublicPrice:        sc.PublicPrice,
				AgentMintPriced:    sc.AgentMintPriced,
			},
			crypto.CreateAddress(owner, uint64(i)),
			sale.SaleWindow{
				WhitelistStart: sc.WhitelistStart,
				WhitelistEnd:   sc.WhitelistEnd,
				Active:         sc.Active,
			},
			root,
			sale.Deps{
				Collection: token.NewCollection(sc.Name, sc.Symbol),
				Settlement: settle,
				Native:     native,
				Roles:      store,
				Now:        b.clock.Now,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("sale %s: %w", sc.Symbol, err)
		}

		b.sales[sc.Symbol] = &Sale{Engine: engine, Tree: tree}
		b.symbols = append(b.symbols, sc.Symbol)
	}

	return b, nil
}

// DeriveAccounts derives deterministic harness addresses from a BIP-39
// mnemonic. These are identities, not signing keys: the node authenticates
// callers by address, the way a local dev node impersonates accounts.
func DeriveAccounts(mnemonic string, count int) []common.Address {
	seed := bip39.NewSeed(mnemonic, "")
	accounts := make([]common.Address, count)
	for i := 0; i < count; i++ {
		h := crypto.Keccak256(seed, []byte{byte(i)})
		accounts[i] = common.BytesToAddress(h[12:])
	}
	return accounts
}

// Sale returns the sale for a product symbol.
func (b *Backend) Sale(symbol string) (*Sale, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s, ok := b.sales[symbol]
	return s, ok
}

// Symbols returns the configured product symbols in configuration order.
func (b *Backend) Symbols() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, len(b.symbols))
	copy(out, b.symbols)
	return out
}

// SetAllowlist builds a merkle tree over the accounts, commits its root to
// the sale and keeps the tree so the node can serve proofs.
func (b *Backend) SetAllowlist(symbol string, caller common.Address, accounts []common.Address) (common.Hash, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sales[symbol]
	if !ok {
		return common.Hash{}, ErrUnknownSale
	}
	t, err := allowlist.NewTree(accounts)
	if err != nil {
		return common.Hash{}, err
	}
	if err := s.Engine.SetAllowlistRoot(caller, t.Root()); err != nil {
		return common.Hash{}, err
	}
	s.Tree = t
	return t.Root(), nil
}

// Proof returns the membership proof for an account against a sale's
// node-held allowlist tree.
func (b *Backend) Proof(symbol string, addr common.Address) ([]common.Hash, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s, ok := b.sales[symbol]
	if !ok {
		return nil, ErrUnknownSale
	}
	if s.Tree == nil {
		return nil, ErrNoAllowlist
	}
	return s.Tree.ProofFor(addr)
}

// Clock returns the node's controllable time source.
func (b *Backend) Clock() *clock.Clock {
	return b.clock
}

// SettlementToken returns the shared settlement token.
func (b *Backend) SettlementToken() *settlement.Token {
	return b.settle
}

// NativeLedger returns the shared native-coin ledger.
func (b *Backend) NativeLedger() *settlement.NativeLedger {
	return b.native
}

// Accounts returns the derived dev-harness accounts.
func (b *Backend) Accounts() []common.Address {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]common.Address, len(b.accounts))
	copy(out, b.accounts)
	return out
}

// Owner returns the contract owner account.
func (b *Backend) Owner() common.Address {
	return b.accounts[0]
}
