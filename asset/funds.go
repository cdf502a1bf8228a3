package asset

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Funds is a single-currency bucket of value. Takes and puts move value
// between buckets; value is never created or destroyed by any method here.
type Funds struct {
	currency Currency
	amount   decimal.Decimal
}

// NewFunds creates a bucket holding amount of currency.
func NewFunds(currency Currency, amount decimal.Decimal) (*Funds, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}
	return &Funds{currency: currency, amount: amount}, nil
}

// Zero creates an empty bucket of currency.
func Zero(currency Currency) *Funds {
	return &Funds{currency: currency, amount: decimal.Zero}
}

// Currency returns the bucket's currency.
func (f *Funds) Currency() Currency {
	return f.currency
}

// Amount returns the current balance.
func (f *Funds) Amount() decimal.Decimal {
	return f.amount
}

// IsZero reports whether the bucket is empty.
func (f *Funds) IsZero() bool {
	return f.amount.IsZero()
}

// Take removes exactly amount from the bucket and returns it as a new bucket.
func (f *Funds) Take(amount decimal.Decimal) (*Funds, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}
	if amount.GreaterThan(f.amount) {
		return nil, fmt.Errorf("%w: take %s, balance %s %s",
			ErrInsufficientFunds, amount, f.amount, f.currency.Code)
	}
	f.amount = f.amount.Sub(amount)
	return &Funds{currency: f.currency, amount: amount}, nil
}

// TakeRounded truncates amount toward zero at the currency's precision and
// takes the result. This is the only rounding mode used in settlement:
// a computed share is never rounded up at the payer's expense.
func (f *Funds) TakeRounded(amount decimal.Decimal) (*Funds, error) {
	return f.Take(amount.Truncate(f.currency.Decimals))
}

// Put drains other into this bucket. Both buckets must share a currency.
func (f *Funds) Put(other *Funds) error {
	if other.currency != f.currency {
		return fmt.Errorf("%w: put %s into %s",
			ErrCurrencyMismatch, other.currency.Code, f.currency.Code)
	}
	f.amount = f.amount.Add(other.amount)
	other.amount = decimal.Zero
	return nil
}
