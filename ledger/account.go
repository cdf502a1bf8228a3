package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
)

// Account is a holding account: it custodies items and fungible balances for
// one owner credential class. Item deposits are checked against the transfer
// gate of the item's class.
type Account struct {
	id            string
	owner         credential.Class
	gates         *GateRegistry
	items         map[asset.ItemKey]asset.Item
	funds         map[asset.Currency]*asset.Funds
	refuseDeposit bool
}

// AccountOption configures an account at creation.
type AccountOption func(*Account)

// RefuseDirectDeposit makes DepositFunds fail, forcing payers onto the
// pull-style locker. Mirrors accounts that reject third-party deposits.
func RefuseDirectDeposit() AccountOption {
	return func(a *Account) { a.refuseDeposit = true }
}

// NewAccount creates a holding account owned by owner.
func NewAccount(owner credential.Class, gates *GateRegistry, opts ...AccountOption) *Account {
	a := &Account{
		id:    uuid.NewString(),
		owner: owner,
		gates: gates,
		items: make(map[asset.ItemKey]asset.Item),
		funds: make(map[asset.Currency]*asset.Funds),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the account identifier.
func (a *Account) ID() string {
	return a.id
}

// OwnedBy reports whether the credential proves ownership of this account.
func (a *Account) OwnedBy(by credential.Credential) bool {
	return !by.IsZero() && by.Class() == a.owner
}

// Deposit places an item into the account. The transfer gate of the item's
// class decides whether the depositing credential may do so; classes without
// a gate are unrestricted.
func (a *Account) Deposit(item asset.Item, by credential.Credential) error {
	if gate := a.gates.Lookup(item.Key.Class); gate != nil && !gate.Allows(by) {
		return fmt.Errorf("%w: %s", ErrDepositRefused, item.Key)
	}
	a.items[item.Key] = item
	return nil
}

// Has reports whether the account currently holds the item.
func (a *Account) Has(key asset.ItemKey) bool {
	_, ok := a.items[key]
	return ok
}

// WithdrawItem removes an item from the account. Only the owner may withdraw.
func (a *Account) WithdrawItem(key asset.ItemKey, by credential.Credential) (asset.Item, error) {
	if !a.OwnedBy(by) {
		return asset.Item{}, fmt.Errorf("%w: withdraw %s", ErrNotOwner, key)
	}
	item, ok := a.items[key]
	if !ok {
		return asset.Item{}, fmt.Errorf("%w: %s", ErrItemNotHeld, key)
	}
	delete(a.items, key)
	return item, nil
}

// DepositFunds credits the account's balance, draining f. Accounts created
// with RefuseDirectDeposit reject this; callers fall back to the locker.
func (a *Account) DepositFunds(f *asset.Funds) error {
	if a.refuseDeposit {
		return fmt.Errorf("%w: direct funds deposit", ErrDepositRefused)
	}
	bal, ok := a.funds[f.Currency()]
	if !ok {
		bal = asset.Zero(f.Currency())
		a.funds[f.Currency()] = bal
	}
	return bal.Put(f)
}

// Balance returns the account's balance in currency.
func (a *Account) Balance(currency asset.Currency) decimal.Decimal {
	if bal, ok := a.funds[currency]; ok {
		return bal.Amount()
	}
	return decimal.Zero
}

// WithdrawFunds removes the whole balance in currency. Only the owner may withdraw.
func (a *Account) WithdrawFunds(currency asset.Currency, by credential.Credential) (*asset.Funds, error) {
	if !a.OwnedBy(by) {
		return nil, fmt.Errorf("%w: withdraw %s", ErrNotOwner, currency.Code)
	}
	bal, ok := a.funds[currency]
	if !ok || bal.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrNothingToClaim, currency.Code)
	}
	out := asset.Zero(currency)
	if err := out.Put(bal); err != nil {
		return nil, err
	}
	return out, nil
}

// Mint places a freshly created item directly into the account, bypassing the
// gate. Bootstrap helper for creators seeding a collection.
func (a *Account) Mint(item asset.Item) {
	a.items[item.Key] = item
}
