package settlement

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob     = common.HexToAddress("0x2222222222222222222222222222222222222222")
	spender = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func TestToken_Mint(t *testing.T) {
	tok := NewToken("Tether USD", "USDT", 6)

	err := tok.Mint(alice, big.NewInt(1000))
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(1000), tok.BalanceOf(alice))
	assert.Equal(t, big.NewInt(1000), tok.TotalSupply())
}

func TestToken_BalanceOf_Nonexistent(t *testing.T) {
	tok := NewToken("Tether USD", "USDT", 6)
	assert.Equal(t, big.NewInt(0), tok.BalanceOf(alice))
}

func TestToken_Transfer(t *testing.T) {
	tok := NewToken("Tether USD", "USDT", 6)
	require.NoError(t, tok.Mint(alice, big.NewInt(1000)))

	err := tok.Transfer(alice, bob, big.NewInt(400))
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(600), tok.BalanceOf(alice))
	assert.Equal(t, big.NewInt(400), tok.BalanceOf(bob))
}

func TestToken_Transfer_InsufficientBalance(t *testing.T) {
	tok := NewToken("Tether USD", "USDT", 6)
	require.NoError(t, tok.Mint(alice, big.NewInt(100)))

	err := tok.Transfer(alice, bob, big.NewInt(500))
	require.Error(t, err)
	assert.Equal(t, ErrInsufficientBalance, err)
	assert.Equal(t, big.NewInt(100), tok.BalanceOf(alice))
}

func TestToken_TransferFrom(t *testing.T) {
	tok := NewToken("Tether USD", "USDT", 6)
	require.NoError(t, tok.Mint(alice, big.NewInt(1000)))
	require.NoError(t, tok.Approve(alice, spender, big.NewInt(600)))

	err := tok.TransferFrom(spender, alice, bob, big.NewInt(400))
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(600), tok.BalanceOf(alice))
	assert.Equal(t, big.NewInt(400), tok.BalanceOf(bob))
	assert.Equal(t, big.NewInt(200), tok.Allowance(alice, spender))
}

func TestToken_TransferFrom_NoAllowance(t *testing.T) {
	tok := NewToken("Tether USD", "USDT", 6)
	require.NoError(t, tok.Mint(alice, big.NewInt(1000)))

	err := tok.TransferFrom(spender, alice, bob, big.NewInt(400))
	require.Error(t, err)
	assert.Equal(t, ErrInsufficientAllowance, err)
	assert.Equal(t, big.NewInt(1000), tok.BalanceOf(alice))
}

func TestToken_TransferFrom_AllowanceButNoBalance(t *testing.T) {
	tok := NewToken("Tether USD", "USDT", 6)
	require.NoError(t, tok.Approve(alice, spender, big.NewInt(600)))

	err := tok.TransferFrom(spender, alice, bob, big.NewInt(400))
	require.Error(t, err)
	assert.Equal(t, ErrInsufficientBalance, err)

	// A failed pull must not burn allowance.
	assert.Equal(t, big.NewInt(600), tok.Allowance(alice, spender))
}

func TestNativeLedger_CreditAndTransfer(t *testing.T) {
	ledger := NewNativeLedger()

	require.NoError(t, ledger.Credit(alice, big.NewInt(500)))
	assert.Equal(t, big.NewInt(500), ledger.BalanceOf(alice))

	require.NoError(t, ledger.Transfer(alice, bob, big.NewInt(500)))
	assert.Equal(t, big.NewInt(0), ledger.BalanceOf(alice))
	assert.Equal(t, big.NewInt(500), ledger.BalanceOf(bob))
}

func TestNativeLedger_Transfer_InsufficientBalance(t *testing.T) {
	ledger := NewNativeLedger()

	err := ledger.Transfer(alice, bob, big.NewInt(1))
	require.Error(t, err)
	assert.Equal(t, ErrInsufficientBalance, err)
}
