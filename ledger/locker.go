package ledger

import (
	"fmt"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
)

// Locker is a pull-style revenue store. Sellers whose accounts refuse direct
// deposits accumulate proceeds here and claim them later. Store never fails:
// it is the fallback leg of settlement and must always accept value.
type Locker struct {
	held map[string]map[asset.Currency]*asset.Funds
}

// NewLocker creates an empty locker.
func NewLocker() *Locker {
	return &Locker{held: make(map[string]map[asset.Currency]*asset.Funds)}
}

// Store drains f into the balance held for accountID.
func (l *Locker) Store(accountID string, f *asset.Funds) {
	byCurrency, ok := l.held[accountID]
	if !ok {
		byCurrency = make(map[asset.Currency]*asset.Funds)
		l.held[accountID] = byCurrency
	}
	bal, ok := byCurrency[f.Currency()]
	if !ok {
		bal = asset.Zero(f.Currency())
		byCurrency[f.Currency()] = bal
	}
	// same currency by construction
	_ = bal.Put(f)
}

// Held returns the balance stored for accountID in currency without claiming it.
func (l *Locker) Held(accountID string, currency asset.Currency) *asset.Funds {
	if byCurrency, ok := l.held[accountID]; ok {
		if bal, ok := byCurrency[currency]; ok {
			return bal
		}
	}
	return asset.Zero(currency)
}

// Claim drains the balance held for account in currency. The caller must
// prove ownership of the destination account.
func (l *Locker) Claim(account *Account, by credential.Credential, currency asset.Currency) (*asset.Funds, error) {
	if !account.OwnedBy(by) {
		return nil, fmt.Errorf("%w: claim %s", ErrNotOwner, currency.Code)
	}
	byCurrency, ok := l.held[account.ID()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNothingToClaim, currency.Code)
	}
	bal, ok := byCurrency[currency]
	if !ok || bal.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrNothingToClaim, currency.Code)
	}
	out := asset.Zero(currency)
	if err := out.Put(bal); err != nil {
		return nil, err
	}
	return out, nil
}
