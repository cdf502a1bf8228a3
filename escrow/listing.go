package escrow

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
	"github.com/opentradeorg/libopentrade-go/ledger"
)

// Listing is one item offered for sale. Permissions is the allow-list of
// credential classes that may execute the purchase; an empty list leaves the
// listing open to any marketplace. A listing exists iff its item sits in the
// escrow vault under the same key.
type Listing struct {
	Item        asset.ItemKey
	Currency    asset.Currency
	Price       decimal.Decimal
	Permissions map[credential.Class]struct{}

	// transaction the listing was created in; drives the replay guard on
	// royalty-enforced items
	listedIn ledger.TxID
}

func (l *Listing) permits(class credential.Class) bool {
	if len(l.Permissions) == 0 {
		return true
	}
	_, ok := l.Permissions[class]
	return ok
}

// List moves an item into escrow and records a listing for it. Only the
// account owner may list; price must be positive.
func (a *Account) List(item asset.Item, currency asset.Currency, price decimal.Decimal, permissions []credential.Class, by credential.Credential, tx ledger.TxID) error {
	if err := a.requireOwner(by); err != nil {
		return err
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	if _, ok := a.listings[item.Key]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyListed, item.Key)
	}

	l := &Listing{
		Item:        item.Key,
		Currency:    currency,
		Price:       price,
		Permissions: make(map[credential.Class]struct{}, len(permissions)),
		listedIn:    tx,
	}
	for _, class := range permissions {
		l.Permissions[class] = struct{}{}
	}

	a.vault[item.Key] = item
	a.listings[item.Key] = l
	a.sink.ListingCreated(a.listingEvent(l))
	return nil
}

// MultiList lists a batch of items at one price each. All-or-nothing: any
// invalid entry rejects the whole batch before the vault is touched.
func (a *Account) MultiList(items []asset.Item, currency asset.Currency, price decimal.Decimal, permissions []credential.Class, by credential.Credential, tx ledger.TxID) error {
	if err := a.requireOwner(by); err != nil {
		return err
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	for _, item := range items {
		if _, ok := a.listings[item.Key]; ok {
			return fmt.Errorf("%w: %s", ErrAlreadyListed, item.Key)
		}
	}
	for _, item := range items {
		l := &Listing{
			Item:        item.Key,
			Currency:    currency,
			Price:       price,
			Permissions: make(map[credential.Class]struct{}, len(permissions)),
			listedIn:    tx,
		}
		for _, class := range permissions {
			l.Permissions[class] = struct{}{}
		}
		a.vault[item.Key] = item
		a.listings[item.Key] = l
		a.sink.ListingCreated(a.listingEvent(l))
	}
	return nil
}

// CancelListing removes a listing and returns the item to the seller's own
// holding account.
func (a *Account) CancelListing(key asset.ItemKey, by credential.Credential) (asset.Item, error) {
	if err := a.requireOwner(by); err != nil {
		return asset.Item{}, err
	}
	l, ok := a.listings[key]
	if !ok {
		return asset.Item{}, fmt.Errorf("%w: %s", ErrListingNotFound, key)
	}
	item := a.vault[key]

	depositor := by
	if b := a.binding(key.Class); b != nil {
		depositor = b.gateAdmin
	}
	if err := a.seller.Deposit(item, depositor); err != nil {
		return asset.Item{}, err
	}

	delete(a.vault, key)
	delete(a.listings, key)
	a.sink.ListingCanceled(a.listingEvent(l))
	return item, nil
}

// ChangePrice updates a listing's price.
func (a *Account) ChangePrice(key asset.ItemKey, price decimal.Decimal, by credential.Credential) error {
	if err := a.requireOwner(by); err != nil {
		return err
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	l, ok := a.listings[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrListingNotFound, key)
	}
	l.Price = price
	a.sink.ListingUpdated(a.listingEvent(l))
	return nil
}

// AddBuyerPermission grows a listing's purchase allow-list.
func (a *Account) AddBuyerPermission(key asset.ItemKey, class credential.Class, by credential.Credential) error {
	if err := a.requireOwner(by); err != nil {
		return err
	}
	l, ok := a.listings[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrListingNotFound, key)
	}
	l.Permissions[class] = struct{}{}
	a.sink.ListingUpdated(a.listingEvent(l))
	return nil
}

// RevokeMarketPermission removes a credential class from a listing's
// purchase allow-list.
func (a *Account) RevokeMarketPermission(key asset.ItemKey, class credential.Class, by credential.Credential) error {
	if err := a.requireOwner(by); err != nil {
		return err
	}
	l, ok := a.listings[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrListingNotFound, key)
	}
	delete(l.Permissions, class)
	a.sink.ListingUpdated(a.listingEvent(l))
	return nil
}

// Listing returns the listing for key, or ErrListingNotFound.
func (a *Account) Listing(key asset.ItemKey) (Listing, error) {
	l, ok := a.listings[key]
	if !ok {
		return Listing{}, fmt.Errorf("%w: %s", ErrListingNotFound, key)
	}
	return *l, nil
}
