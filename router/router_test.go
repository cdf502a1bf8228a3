package router

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
	"github.com/opentradeorg/libopentrade-go/escrow"
	"github.com/opentradeorg/libopentrade-go/ledger"
	"github.com/opentradeorg/libopentrade-go/royalty"
)

var (
	xrd      = asset.Currency{Code: "XRD", Decimals: 18}
	artClass = asset.ItemClass("art")
)

type seller struct {
	escrow  *escrow.Account
	account *ledger.Account
	gate    *ledger.Gate
}

type fixture struct {
	issuer *credential.Issuer

	market     credential.Credential
	admin      credential.Credential
	adminClass credential.Class

	gates  *ledger.GateRegistry
	buyer  *ledger.Account
	router *Router

	sellers []*seller
}

// newFixture builds n independent sellers, each with its own escrow account
// and royalty-enforced "art" gate, all trading under one router.
func newFixture(t *testing.T, n int) *fixture {
	t.Helper()

	issuer, err := credential.NewIssuer()
	require.NoError(t, err)

	marketClass := issuer.NewClass("marketplace", map[string]string{"fee_rate": "0.02"})
	market, err := issuer.Issue(marketClass)
	require.NoError(t, err)

	adminClass := issuer.NewClass("router-admin", nil)
	admin, err := issuer.Issue(adminClass)
	require.NoError(t, err)

	gates := ledger.NewGateRegistry()
	buyerClass := issuer.NewClass("buyer-owner", nil)
	buyer := ledger.NewAccount(buyerClass, gates)

	r, err := New(market, adminClass)
	require.NoError(t, err)

	fx := &fixture{
		issuer:     issuer,
		market:     market,
		admin:      admin,
		adminClass: adminClass,
		gates:      gates,
		buyer:      buyer,
		router:     r,
	}

	locker := ledger.NewLocker()
	for i := 0; i < n; i++ {
		ownerClass := issuer.NewClass("seller-owner", nil)
		owner, err := issuer.Issue(ownerClass)
		require.NoError(t, err)

		creatorClass := issuer.NewClass("creator", nil)
		gateAdminClass := issuer.NewClass("gate-admin", nil)
		gateAdmin, err := issuer.Issue(gateAdminClass)
		require.NoError(t, err)

		gate := ledger.NewGate(gateAdminClass, gateAdminClass)
		policy, err := royalty.NewPolicy(artClass, creatorClass, gateAdmin, gate, royalty.Config{
			Rate:    decimal.RequireFromString("0.1"),
			MaxRate: decimal.RequireFromString("0.2"),
		})
		require.NoError(t, err)

		account := ledger.NewAccount(ownerClass, gates)
		esc, err := escrow.New(ownerClass, account, locker, nil)
		require.NoError(t, err)
		require.NoError(t, esc.EnforceRoyalty(artClass, policy, gate, gateAdmin))

		s := &seller{escrow: esc, account: account, gate: gate}
		fx.sellers = append(fx.sellers, s)

		// seed listings: seller i lists items "<i>-0"... at 10 each
		for j := 0; j <= i; j++ {
			item := asset.Item{Key: asset.ItemKey{Class: artClass, ID: asset.ItemID(itemID(i, j))}}
			require.NoError(t, esc.List(item, xrd, decimal.NewFromInt(10),
				[]credential.Class{marketClass}, owner, "tx-list"))
		}
	}
	return fx
}

func itemID(seller, n int) string {
	return string(rune('a'+seller)) + "-" + string(rune('0'+n))
}

func pay(t *testing.T, amount string) *asset.Funds {
	t.Helper()
	f, err := asset.NewFunds(xrd, decimal.RequireFromString(amount))
	require.NoError(t, err)
	return f
}

func TestNew_RejectsBadFeeRate(t *testing.T) {
	issuer, err := credential.NewIssuer()
	require.NoError(t, err)

	greedy, err := issuer.Issue(issuer.NewClass("marketplace", map[string]string{"fee_rate": "1.2"}))
	require.NoError(t, err)
	_, err = New(greedy, issuer.NewClass("admin", nil))
	assert.ErrorIs(t, err, ErrFeeRateInvalid)

	garbled, err := issuer.Issue(issuer.NewClass("marketplace", map[string]string{"fee_rate": "two percent"}))
	require.NoError(t, err)
	_, err = New(garbled, issuer.NewClass("admin", nil))
	assert.ErrorIs(t, err, ErrFeeRateInvalid)
}

func TestRoutePurchase_GroupsBySeller(t *testing.T) {
	// seller 0 holds one listing, seller 1 holds two; 30 asked in total
	fx := newFixture(t, 2)

	orders := []Order{
		{Account: fx.sellers[0].escrow, Item: asset.ItemKey{Class: artClass, ID: asset.ItemID(itemID(0, 0))}, Price: decimal.NewFromInt(10)},
		{Account: fx.sellers[1].escrow, Item: asset.ItemKey{Class: artClass, ID: asset.ItemID(itemID(1, 0))}, Price: decimal.NewFromInt(10)},
		{Account: fx.sellers[1].escrow, Item: asset.ItemKey{Class: artClass, ID: asset.ItemID(itemID(1, 1))}, Price: decimal.NewFromInt(10)},
	}

	result, err := fx.router.RoutePurchase(orders, pay(t, "35"), fx.buyer, "tx-buy")
	require.NoError(t, err)

	assert.Len(t, result.Items, 3)
	assert.Len(t, result.Open, 2, "one open settlement per royalty-enforced seller")
	assert.True(t, result.Change.Amount().Equal(decimal.NewFromInt(5)), "change %s", result.Change.Amount())

	// seller 1's two orders merged into one batch
	for _, s := range fx.sellers {
		require.NotNil(t, s.escrow.Pending())
	}
	assert.Len(t, fx.sellers[1].escrow.Pending().IDs, 2)

	// 2% of 10 and 2% of 20
	assert.True(t, fx.router.FeeBalance(xrd).Equal(decimal.RequireFromString("0.6")),
		"fees %s", fx.router.FeeBalance(xrd))

	// deliver everything and close both windows
	for _, item := range result.Items {
		require.NoError(t, fx.buyer.Deposit(item, fx.market))
	}
	for _, open := range result.Open {
		require.NoError(t, open.Seller.Cleared(open.Token))
	}
	for _, s := range fx.sellers {
		assert.False(t, s.gate.IsOpen())
		assert.Nil(t, s.escrow.Pending())
	}
}

func TestRoutePurchase_Validation(t *testing.T) {
	fx := newFixture(t, 1)

	_, err := fx.router.RoutePurchase(nil, pay(t, "10"), fx.buyer, "tx-buy")
	assert.ErrorIs(t, err, ErrNoOrders)

	orders := []Order{{
		Account: fx.sellers[0].escrow,
		Item:    asset.ItemKey{Class: artClass, ID: asset.ItemID(itemID(0, 0))},
		Price:   decimal.NewFromInt(10),
	}}
	_, err = fx.router.RoutePurchase(orders, pay(t, "5"), fx.buyer, "tx-buy")
	assert.ErrorIs(t, err, ErrInsufficientPayment)
}

func TestRoutePurchase_SubCallFailureAborts(t *testing.T) {
	fx := newFixture(t, 1)

	orders := []Order{{
		Account: fx.sellers[0].escrow,
		Item:    asset.ItemKey{Class: artClass, ID: "missing"},
		Price:   decimal.NewFromInt(10),
	}}
	payment := pay(t, "10")
	_, err := fx.router.RoutePurchase(orders, payment, fx.buyer, "tx-buy")
	assert.ErrorIs(t, err, escrow.ErrListingNotFound)
	assert.True(t, fx.router.FeeBalance(xrd).IsZero())

	// the buyer's payment survives the failed request intact
	assert.True(t, payment.Amount().Equal(decimal.NewFromInt(10)),
		"payment %s", payment.Amount())
}

func TestRoutePurchase_FailureReturnsEarlierGroupTakes(t *testing.T) {
	// two sellers; the second group's listing is missing. The first group may
	// settle (no rollback across accounts), but the second group's take must
	// flow back into the payment rather than vanish.
	fx := newFixture(t, 2)

	orders := []Order{
		{Account: fx.sellers[0].escrow, Item: asset.ItemKey{Class: artClass, ID: asset.ItemID(itemID(0, 0))}, Price: decimal.NewFromInt(10)},
		{Account: fx.sellers[1].escrow, Item: asset.ItemKey{Class: artClass, ID: "missing"}, Price: decimal.NewFromInt(10)},
	}
	payment := pay(t, "20")
	_, err := fx.router.RoutePurchase(orders, payment, fx.buyer, "tx-buy")
	require.ErrorIs(t, err, escrow.ErrListingNotFound)

	settled := decimal.Zero
	for _, s := range fx.sellers {
		settled = settled.Add(s.account.Balance(xrd))
	}
	settled = settled.Add(fx.router.FeeBalance(xrd))
	for _, s := range fx.sellers {
		if s.escrow.Pending() != nil {
			// royalty share of the settled group
			settled = settled.Add(decimal.NewFromInt(1))
		}
	}

	// every unit of the 20 paid is either settled value or back in the payment
	assert.True(t, payment.Amount().Add(settled).Equal(decimal.NewFromInt(20)),
		"payment %s + settled %s", payment.Amount(), settled)
	assert.True(t, payment.Amount().GreaterThanOrEqual(decimal.NewFromInt(10)),
		"failed group's take must return to the payment, got %s", payment.Amount())
}

func TestPurchaseSingle(t *testing.T) {
	fx := newFixture(t, 1)

	result, err := fx.router.PurchaseSingle(fx.sellers[0].escrow,
		asset.ItemKey{Class: artClass, ID: asset.ItemID(itemID(0, 0))},
		decimal.NewFromInt(10), pay(t, "10"), fx.buyer, "tx-buy")
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Len(t, result.Open, 1)
	assert.True(t, result.Change.IsZero())
}

func TestWithdrawFees(t *testing.T) {
	fx := newFixture(t, 1)

	_, err := fx.router.PurchaseSingle(fx.sellers[0].escrow,
		asset.ItemKey{Class: artClass, ID: asset.ItemID(itemID(0, 0))},
		decimal.NewFromInt(10), pay(t, "10"), fx.buyer, "tx-buy")
	require.NoError(t, err)

	stranger, err := fx.issuer.Issue(fx.issuer.NewClass("stranger", nil))
	require.NoError(t, err)
	_, err = fx.router.WithdrawFees(xrd, stranger)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	out, err := fx.router.WithdrawFees(xrd, fx.admin)
	require.NoError(t, err)
	assert.True(t, out.Amount().Equal(decimal.RequireFromString("0.2")))
	assert.True(t, fx.router.FeeBalance(xrd).IsZero())

	_, err = fx.router.WithdrawFees(xrd, fx.admin)
	assert.ErrorIs(t, err, ErrNothingAccrued)
}
