// Package escrow implements the per-seller settlement account: it custodies
// listed items, matches payment to listings, splits royalty and marketplace
// fee from the proceeds, and runs the two-phase unlock/verify/relock protocol
// around every transfer-restricted sale.
package escrow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
	"github.com/opentradeorg/libopentrade-go/event"
	"github.com/opentradeorg/libopentrade-go/ledger"
	"github.com/opentradeorg/libopentrade-go/royalty"
)

// feeRateKey is the metadata field of a marketplace credential naming its
// cut of every sale it executes.
const feeRateKey = "fee_rate"

// royaltyBinding ties a royalty-enforced item class to its policy and to the
// transfer gate the account toggles during settlement.
type royaltyBinding struct {
	policy    *royalty.Policy
	gate      *ledger.Gate
	gateAdmin credential.Credential
}

// PendingTransfer is the externally observable intermediate state of an open
// settlement: items have left escrow under a relaxed gate and the declared
// destination has not yet been verified to hold them.
type PendingTransfer struct {
	Class       asset.ItemClass
	IDs         []asset.ItemID
	Destination *ledger.Account
	OpenedAt    time.Time
}

// Account is one seller's escrow account. All seller-side operations require
// the owner credential; purchases require a credential on the listing's
// allow-list. Every method runs as one serialized transaction, so the type
// carries no locks.
type Account struct {
	id     string
	owner  credential.Class
	seller *ledger.Account
	locker *ledger.Locker
	sink   event.Sink
	now    func() time.Time

	vault    map[asset.ItemKey]asset.Item
	listings map[asset.ItemKey]*Listing
	royalty  map[asset.ItemClass]*royaltyBinding

	// transient settlement token, fixed supply of one
	tokenClass credential.Class
	token      *credential.Credential
	pending    *PendingTransfer
}

// Option configures an account at creation.
type Option func(*Account)

// WithClock overrides the settlement clock.
func WithClock(now func() time.Time) Option {
	return func(a *Account) { a.now = now }
}

// New creates an escrow account for a seller. Proceeds deposit into seller,
// falling back to locker when the seller's account refuses direct deposits.
// The account mints its own single-use settlement token class; no other
// party can produce a token of that class.
func New(owner credential.Class, seller *ledger.Account, locker *ledger.Locker, sink event.Sink, opts ...Option) (*Account, error) {
	issuer, err := credential.NewIssuer()
	if err != nil {
		return nil, fmt.Errorf("escrow: token issuer: %w", err)
	}
	tokenClass := issuer.NewClass("settlement-transient", nil)
	token, err := issuer.Issue(tokenClass)
	if err != nil {
		return nil, fmt.Errorf("escrow: mint token: %w", err)
	}
	if sink == nil {
		sink = event.NopSink{}
	}

	a := &Account{
		id:         uuid.NewString(),
		owner:      owner,
		seller:     seller,
		locker:     locker,
		sink:       sink,
		now:        time.Now,
		vault:      make(map[asset.ItemKey]asset.Item),
		listings:   make(map[asset.ItemKey]*Listing),
		royalty:    make(map[asset.ItemClass]*royaltyBinding),
		tokenClass: tokenClass,
		token:      &token,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ID returns the escrow account identifier.
func (a *Account) ID() string {
	return a.id
}

// TokenClass returns the class of the account's transient settlement token.
func (a *Account) TokenClass() credential.Class {
	return a.tokenClass
}

// Pending returns the open settlement, or nil when none is outstanding.
func (a *Account) Pending() *PendingTransfer {
	return a.pending
}

// EnforceRoyalty binds an item class to its royalty policy and transfer gate.
// Listings of the class gain the replay guard and the two-phase settlement
// protocol; admin must be the gate's admin credential.
//
// The relax-once invariant is per account: give each escrow account selling
// a class its own Gate. Two accounts sharing one gate could have one
// account's Cleared restore the gate while the other's window is still open.
func (a *Account) EnforceRoyalty(class asset.ItemClass, policy *royalty.Policy, gate *ledger.Gate, admin credential.Credential) error {
	if policy.Class() != class {
		return fmt.Errorf("%w: bind %s", royalty.ErrPolicyMismatch, class)
	}
	a.royalty[class] = &royaltyBinding{policy: policy, gate: gate, gateAdmin: admin}
	return nil
}

func (a *Account) requireOwner(by credential.Credential) error {
	if by.IsZero() || by.Class() != a.owner {
		return ErrNotSeller
	}
	return nil
}

// binding returns the royalty binding for class, or nil for plain collections.
func (a *Account) binding(class asset.ItemClass) *royaltyBinding {
	return a.royalty[class]
}

func (a *Account) listingEvent(l *Listing) event.Listing {
	return event.Listing{
		Seller:   a.id,
		Item:     l.Item,
		Currency: l.Currency,
		Price:    l.Price,
	}
}
