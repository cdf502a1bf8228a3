package escrow

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
	"github.com/opentradeorg/libopentrade-go/event"
	"github.com/opentradeorg/libopentrade-go/ledger"
)

// feeRate reads the purchasing credential's fee_rate metadata. Absent
// metadata means no fee; a present value must parse into [0, 1].
func feeRate(buyer credential.Credential) (decimal.Decimal, error) {
	raw, ok := buyer.Metadata(feeRateKey)
	if !ok {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrFeeRateInvalid, raw)
	}
	return rate, nil
}

// Purchase settles one listing. On success the listing is gone, royalty and
// marketplace fee are split out of payment, the remainder is deposited for
// the seller, and — for royalty-enforced items — the class gate is relaxed,
// a PendingTransfer to destination is recorded, and the account's transient
// token is handed out. The caller must deliver the item to destination and
// present the token to Cleared to close the window.
//
// Any failed precondition aborts the call with no observable state change.
func (a *Account) Purchase(key asset.ItemKey, payment *asset.Funds, buyer credential.Credential, destination *ledger.Account, tx ledger.TxID) (asset.Item, credential.Credential, *asset.Funds, error) {
	items, token, fee, err := a.settle([]asset.ItemKey{key}, payment, buyer, destination, tx)
	if err != nil {
		return asset.Item{}, credential.Credential{}, nil, err
	}
	return items[0], token, fee, nil
}

// MultiPurchase settles a batch of listings against one payment. All
// listings must share one item class and one currency; payment must equal
// the summed prices. The batch opens a single PendingTransfer covering every
// item id, closed by one MultiCleared call.
func (a *Account) MultiPurchase(keys []asset.ItemKey, payment *asset.Funds, buyer credential.Credential, destination *ledger.Account, tx ledger.TxID) ([]asset.Item, credential.Credential, *asset.Funds, error) {
	return a.settle(keys, payment, buyer, destination, tx)
}

func (a *Account) settle(keys []asset.ItemKey, payment *asset.Funds, buyer credential.Credential, destination *ledger.Account, tx ledger.TxID) ([]asset.Item, credential.Credential, *asset.Funds, error) {
	var zero credential.Credential
	if len(keys) == 0 {
		return nil, zero, nil, fmt.Errorf("%w: empty batch", ErrListingNotFound)
	}

	// validate everything before the first mutation
	class := keys[0].Class
	total := decimal.Zero
	var currency asset.Currency
	listings := make([]*Listing, 0, len(keys))
	ids := make([]asset.ItemID, 0, len(keys))
	for i, key := range keys {
		if key.Class != class {
			return nil, zero, nil, fmt.Errorf("%w: %s and %s", ErrMixedClasses, class, key.Class)
		}
		l, ok := a.listings[key]
		if !ok {
			return nil, zero, nil, fmt.Errorf("%w: %s", ErrListingNotFound, key)
		}
		if !l.permits(buyer.Class()) {
			return nil, zero, nil, fmt.Errorf("%w: %s", ErrPermissionDenied, key)
		}
		if i == 0 {
			currency = l.Currency
		} else if l.Currency != currency {
			return nil, zero, nil, fmt.Errorf("%w: %s listed in %s", ErrCurrencyMismatch, key, l.Currency.Code)
		}
		total = total.Add(l.Price)
		listings = append(listings, l)
		ids = append(ids, key.ID)
	}
	if payment.Currency() != currency || !payment.Amount().Equal(total) {
		return nil, zero, nil, fmt.Errorf("%w: paid %s %s, asked %s %s",
			ErrPaymentMismatch, payment.Amount(), payment.Currency().Code, total, currency.Code)
	}

	b := a.binding(class)
	if b != nil {
		for _, l := range listings {
			if tx != "" && l.listedIn == tx {
				return nil, zero, nil, fmt.Errorf("%w: %s", ErrSameTransactionReplay, l.Item)
			}
		}
		if a.pending != nil {
			return nil, zero, nil, ErrSettlementOpen
		}
	}

	rate, err := feeRate(buyer)
	if err != nil {
		return nil, zero, nil, err
	}
	feeShare := payment.Amount().Mul(rate).Truncate(currency.Decimals)
	royaltyShare := decimal.Zero
	if b != nil {
		royaltyShare = payment.Amount().Mul(b.policy.Rate()).Truncate(currency.Decimals)
	}
	if feeShare.Add(royaltyShare).GreaterThan(payment.Amount()) {
		return nil, zero, nil, fmt.Errorf("%w: royalty %s + fee %s > %s",
			ErrFeeExceedsRemainder, royaltyShare, feeShare, payment.Amount())
	}

	// settle: relax the gate, split royalty and fee, bank the remainder
	remainder := payment
	if b != nil {
		if err := b.gate.Relax(b.gateAdmin); err != nil {
			return nil, zero, nil, err
		}
		remainder, err = b.policy.PayRoyalty(class, ids, payment, buyer.Class())
		if err != nil {
			if restoreErr := b.gate.Restore(b.gateAdmin); restoreErr != nil {
				return nil, zero, nil, errors.Join(err, restoreErr)
			}
			return nil, zero, nil, err
		}
	}

	var fee *asset.Funds
	if feeShare.IsPositive() {
		fee, err = remainder.Take(feeShare)
		if err != nil {
			return nil, zero, nil, err
		}
	}

	if err := a.seller.DepositFunds(remainder); err != nil {
		if !errors.Is(err, ledger.ErrDepositRefused) {
			return nil, zero, nil, err
		}
		a.locker.Store(a.seller.ID(), remainder)
	}

	items := make([]asset.Item, 0, len(keys))
	for i, key := range keys {
		items = append(items, a.vault[key])
		a.sink.ListingPurchased(a.listingEvent(listings[i]))
		delete(a.vault, key)
		delete(a.listings, key)
	}

	token := zero
	if b != nil {
		token = *a.token
		a.token = nil
		a.pending = &PendingTransfer{
			Class:       class,
			IDs:         ids,
			Destination: destination,
			OpenedAt:    a.now(),
		}
		a.sink.SettlementOpened(event.Settlement{
			Seller:   a.id,
			Class:    class,
			IDs:      ids,
			OpenedAt: a.pending.OpenedAt,
		})
	}
	return items, token, fee, nil
}

// Cleared closes the open settlement. The presented token must be this
// account's transient token, and the recorded destination must now hold
// every item of the pending transfer; only then is the token re-vaulted and
// the class gate restored to its restrictive rule.
func (a *Account) Cleared(token credential.Credential) error {
	if token.IsZero() || token.Class() != a.tokenClass {
		return fmt.Errorf("%w: %s", ErrWrongToken, token.Class())
	}
	if a.pending == nil {
		return ErrNoPendingTransfer
	}
	for _, id := range a.pending.IDs {
		key := asset.ItemKey{Class: a.pending.Class, ID: id}
		if !a.pending.Destination.Has(key) {
			return fmt.Errorf("%w: %s", ErrTransferNotObserved, key)
		}
	}

	b := a.binding(a.pending.Class)
	if err := b.gate.Restore(b.gateAdmin); err != nil {
		return err
	}
	a.token = &token
	a.sink.SettlementClosed(event.Settlement{
		Seller:   a.id,
		Class:    a.pending.Class,
		IDs:      a.pending.IDs,
		OpenedAt: a.pending.OpenedAt,
	})
	a.pending = nil
	return nil
}

// MultiCleared closes a batch settlement. Same protocol as Cleared; the
// single pending batch covers every item of the originating MultiPurchase.
func (a *Account) MultiCleared(token credential.Credential) error {
	return a.Cleared(token)
}
