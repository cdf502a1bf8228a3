package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
)

var xrd = asset.Currency{Code: "XRD", Decimals: 18}

func testItem(class, id string) asset.Item {
	return asset.Item{Key: asset.ItemKey{Class: asset.ItemClass(class), ID: asset.ItemID(id)}}
}

func TestGate_RestrictedAndRelaxed(t *testing.T) {
	issuer, err := credential.NewIssuer()
	require.NoError(t, err)

	admin := issuer.NewClass("gate-admin", nil)
	trader := issuer.NewClass("trader", nil)
	stranger := issuer.NewClass("stranger", nil)

	adminCred, err := issuer.Issue(admin)
	require.NoError(t, err)
	traderCred, err := issuer.Issue(trader)
	require.NoError(t, err)
	strangerCred, err := issuer.Issue(stranger)
	require.NoError(t, err)

	gate := NewGate(admin, trader)

	assert.True(t, gate.Allows(traderCred))
	assert.False(t, gate.Allows(strangerCred))
	assert.False(t, gate.Allows(credential.Credential{}))

	// only the admin may toggle
	assert.ErrorIs(t, gate.Relax(traderCred), ErrNotGateAdmin)
	require.NoError(t, gate.Relax(adminCred))
	assert.True(t, gate.IsOpen())
	assert.True(t, gate.Allows(strangerCred))

	require.NoError(t, gate.Restore(adminCred))
	assert.False(t, gate.Allows(strangerCred))
}

func TestAccount_DepositGateChecked(t *testing.T) {
	issuer, err := credential.NewIssuer()
	require.NoError(t, err)

	admin := issuer.NewClass("gate-admin", nil)
	owner := issuer.NewClass("owner", nil)
	strangerCred, err := issuer.Issue(issuer.NewClass("stranger", nil))
	require.NoError(t, err)

	gates := NewGateRegistry()
	require.NoError(t, gates.Register("royal", NewGate(admin)))

	account := NewAccount(owner, gates)

	// gated class: stranger refused
	err = account.Deposit(testItem("royal", "1"), strangerCred)
	assert.ErrorIs(t, err, ErrDepositRefused)
	assert.False(t, account.Has(testItem("royal", "1").Key))

	// ungated class: anyone may deposit
	require.NoError(t, account.Deposit(testItem("plain", "1"), strangerCred))
	assert.True(t, account.Has(testItem("plain", "1").Key))
}

func TestAccount_WithdrawItemOwnerOnly(t *testing.T) {
	issuer, err := credential.NewIssuer()
	require.NoError(t, err)

	owner := issuer.NewClass("owner", nil)
	ownerCred, err := issuer.Issue(owner)
	require.NoError(t, err)
	otherCred, err := issuer.Issue(issuer.NewClass("other", nil))
	require.NoError(t, err)

	account := NewAccount(owner, NewGateRegistry())
	item := testItem("plain", "7")
	account.Mint(item)

	_, err = account.WithdrawItem(item.Key, otherCred)
	assert.ErrorIs(t, err, ErrNotOwner)

	got, err := account.WithdrawItem(item.Key, ownerCred)
	require.NoError(t, err)
	assert.Equal(t, item.Key, got.Key)
	assert.False(t, account.Has(item.Key))

	_, err = account.WithdrawItem(item.Key, ownerCred)
	assert.ErrorIs(t, err, ErrItemNotHeld)
}

func TestAccount_RefuseDirectDeposit(t *testing.T) {
	issuer, err := credential.NewIssuer()
	require.NoError(t, err)
	owner := issuer.NewClass("owner", nil)

	account := NewAccount(owner, NewGateRegistry(), RefuseDirectDeposit())

	funds, err := asset.NewFunds(xrd, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.ErrorIs(t, account.DepositFunds(funds), ErrDepositRefused)
}

func TestLocker_StoreAndClaim(t *testing.T) {
	issuer, err := credential.NewIssuer()
	require.NoError(t, err)

	owner := issuer.NewClass("owner", nil)
	ownerCred, err := issuer.Issue(owner)
	require.NoError(t, err)
	otherCred, err := issuer.Issue(issuer.NewClass("other", nil))
	require.NoError(t, err)

	account := NewAccount(owner, NewGateRegistry())
	locker := NewLocker()

	first, err := asset.NewFunds(xrd, decimal.NewFromInt(40))
	require.NoError(t, err)
	second, err := asset.NewFunds(xrd, decimal.NewFromInt(2))
	require.NoError(t, err)
	locker.Store(account.ID(), first)
	locker.Store(account.ID(), second)

	assert.True(t, locker.Held(account.ID(), xrd).Amount().Equal(decimal.NewFromInt(42)))

	_, err = locker.Claim(account, otherCred, xrd)
	assert.ErrorIs(t, err, ErrNotOwner)

	claimed, err := locker.Claim(account, ownerCred, xrd)
	require.NoError(t, err)
	assert.True(t, claimed.Amount().Equal(decimal.NewFromInt(42)))

	_, err = locker.Claim(account, ownerCred, xrd)
	assert.ErrorIs(t, err, ErrNothingToClaim)
}
