// Package router implements the buyer-facing fee router: it accepts bulk buy
// orders, fans them out to the right escrow accounts, and consolidates the
// marketplace fee share across currencies into withdrawable balances.
package router

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
	"github.com/opentradeorg/libopentrade-go/escrow"
	"github.com/opentradeorg/libopentrade-go/ledger"
)

// Order is one line of a bulk buy request: which escrow account sells the
// item and at what listed price.
type Order struct {
	Account *escrow.Account
	Item    asset.ItemKey
	Price   decimal.Decimal
}

// OpenSettlement pairs a transient token with the escrow account expecting
// it back. The buyer must deliver the items and present the token to the
// account's Cleared to close the window.
type OpenSettlement struct {
	Seller *escrow.Account
	Token  credential.Credential
}

// Result is what a routed purchase hands back to the buyer.
type Result struct {
	Items  []asset.Item
	Open   []OpenSettlement
	Change *asset.Funds
}

// Router fans buy orders out to escrow accounts under one marketplace
// credential and accumulates the fee share per currency.
type Router struct {
	market credential.Credential
	admin  credential.Class
	fees   map[asset.Currency]*asset.Funds
}

// New creates a router trading under the marketplace credential. The
// credential's fee_rate metadata, if present, must parse into [0, 1]; fee
// withdrawal requires a credential of the admin class.
func New(market credential.Credential, admin credential.Class) (*Router, error) {
	if raw, ok := market.Metadata("fee_rate"); ok {
		rate, err := decimal.NewFromString(raw)
		if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: %q", ErrFeeRateInvalid, raw)
		}
	}
	return &Router{
		market: market,
		admin:  admin,
		fees:   make(map[asset.Currency]*asset.Funds),
	}, nil
}

type orderGroup struct {
	account *escrow.Account
	keys    []asset.ItemKey
	total   decimal.Decimal
}

// RoutePurchase partitions orders by escrow account, withdraws each group's
// summed price from payment, and settles the group with a single purchase
// call (multi for groups of more than one item). Returned items follow input
// order within a group; group order is unspecified. Whatever payment is left
// over comes back as change.
//
// A failing sub-call aborts the whole request; there is no retry.
func (r *Router) RoutePurchase(orders []Order, payment *asset.Funds, destination *ledger.Account, tx ledger.TxID) (*Result, error) {
	if len(orders) == 0 {
		return nil, ErrNoOrders
	}

	groups := make(map[*escrow.Account]*orderGroup, len(orders))
	asked := decimal.Zero
	for _, o := range orders {
		g, ok := groups[o.Account]
		if !ok {
			g = &orderGroup{account: o.Account, total: decimal.Zero}
			groups[o.Account] = g
		}
		g.keys = append(g.keys, o.Item)
		g.total = g.total.Add(o.Price)
		asked = asked.Add(o.Price)
	}
	if asked.GreaterThan(payment.Amount()) {
		return nil, fmt.Errorf("%w: asked %s, paid %s %s",
			ErrInsufficientPayment, asked, payment.Amount(), payment.Currency().Code)
	}

	result := &Result{Change: payment}
	for _, g := range groups {
		sub, err := payment.Take(g.total)
		if err != nil {
			return nil, err
		}

		var (
			items []asset.Item
			token credential.Credential
			fee   *asset.Funds
		)
		if len(g.keys) == 1 {
			var item asset.Item
			item, token, fee, err = g.account.Purchase(g.keys[0], sub, r.market, destination, tx)
			items = []asset.Item{item}
		} else {
			items, token, fee, err = g.account.MultiPurchase(g.keys, sub, r.market, destination, tx)
		}
		if err != nil {
			// a failed settlement leaves sub whole; hand it back to the
			// buyer's payment. Same currency by construction.
			_ = payment.Put(sub)
			return nil, err
		}

		result.Items = append(result.Items, items...)
		if !token.IsZero() {
			result.Open = append(result.Open, OpenSettlement{Seller: g.account, Token: token})
		}
		r.accrue(fee)
	}
	return result, nil
}

// PurchaseSingle settles one listing through the router. Front-end
// convenience over RoutePurchase.
func (r *Router) PurchaseSingle(account *escrow.Account, key asset.ItemKey, price decimal.Decimal, payment *asset.Funds, destination *ledger.Account, tx ledger.TxID) (*Result, error) {
	return r.RoutePurchase([]Order{{Account: account, Item: key, Price: price}}, payment, destination, tx)
}

func (r *Router) accrue(fee *asset.Funds) {
	if fee == nil || fee.IsZero() {
		return
	}
	bucket, ok := r.fees[fee.Currency()]
	if !ok {
		bucket = asset.Zero(fee.Currency())
		r.fees[fee.Currency()] = bucket
	}
	// same currency by construction
	_ = bucket.Put(fee)
}

// FeeBalance returns the accrued fees in currency without withdrawing them.
func (r *Router) FeeBalance(currency asset.Currency) decimal.Decimal {
	if bucket, ok := r.fees[currency]; ok {
		return bucket.Amount()
	}
	return decimal.Zero
}

// WithdrawFees drains the fee accumulator for currency.
func (r *Router) WithdrawFees(currency asset.Currency, by credential.Credential) (*asset.Funds, error) {
	if by.IsZero() || by.Class() != r.admin {
		return nil, fmt.Errorf("%w: withdraw %s", ErrNotAuthorized, currency.Code)
	}
	bucket, ok := r.fees[currency]
	if !ok || bucket.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrNothingAccrued, currency.Code)
	}
	out := asset.Zero(currency)
	if err := out.Put(bucket); err != nil {
		return nil, err
	}
	return out, nil
}
