// Package royalty implements the per-collection royalty policy engine: it
// computes and escrows the creator's share of every sale and owns the
// transfer-restriction rule gating who may receive an item.
package royalty

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
	"github.com/opentradeorg/libopentrade-go/ledger"
)

// Config is the creator-supplied initial royalty configuration.
type Config struct {
	Rate    decimal.Decimal
	MaxRate decimal.Decimal
}

// Policy holds one collection's royalty economics and permission lists.
// All mutators require the creator credential; once the configuration is
// locked, settings may only move toward more permissive.
type Policy struct {
	class   asset.ItemClass
	creator credential.Class
	admin   credential.Credential // internal capability toggling the gate
	gate    *ledger.Gate

	rate    decimal.Decimal
	maxRate decimal.Decimal

	limitCurrencies     bool
	permittedCurrencies map[asset.Currency]struct{}

	minimumRoyalties bool
	minimumAmounts   map[asset.Currency]decimal.Decimal

	limitDapps        bool
	permissionedDapps map[string]credential.Class

	limitBuyers        bool
	permissionedBuyers map[credential.Class]struct{}

	limitPrivateTrade bool
	locked            bool

	vaults map[asset.Currency]*asset.Funds
}

// NewPolicy binds a policy to an item class. The admin credential must be the
// gate's admin; it is the only capability the policy ever uses to toggle the
// collection's transfer restriction.
func NewPolicy(class asset.ItemClass, creator credential.Class, admin credential.Credential, gate *ledger.Gate, cfg Config) (*Policy, error) {
	one := decimal.NewFromInt(1)
	if cfg.Rate.IsNegative() || cfg.MaxRate.GreaterThan(one) {
		return nil, fmt.Errorf("%w: rate %s max %s", ErrInvalidRate, cfg.Rate, cfg.MaxRate)
	}
	if cfg.Rate.GreaterThan(cfg.MaxRate) {
		return nil, fmt.Errorf("%w: rate %s max %s", ErrRateAboveMaximum, cfg.Rate, cfg.MaxRate)
	}
	return &Policy{
		class:               class,
		creator:             creator,
		admin:               admin,
		gate:                gate,
		rate:                cfg.Rate,
		maxRate:             cfg.MaxRate,
		permittedCurrencies: make(map[asset.Currency]struct{}),
		minimumAmounts:      make(map[asset.Currency]decimal.Decimal),
		permissionedDapps:   make(map[string]credential.Class),
		permissionedBuyers:  make(map[credential.Class]struct{}),
		vaults:              make(map[asset.Currency]*asset.Funds),
	}, nil
}

// Class returns the bound item class.
func (p *Policy) Class() asset.ItemClass {
	return p.class
}

// Rate returns the current royalty rate.
func (p *Policy) Rate() decimal.Decimal {
	return p.rate
}

// MaxRate returns the rate ceiling.
func (p *Policy) MaxRate() decimal.Decimal {
	return p.maxRate
}

// Locked reports whether the configuration latch is set.
func (p *Policy) Locked() bool {
	return p.locked
}

// VaultBalance returns the accumulated royalties in currency.
func (p *Policy) VaultBalance(currency asset.Currency) decimal.Decimal {
	if vault, ok := p.vaults[currency]; ok {
		return vault.Amount()
	}
	return decimal.Zero
}

// PayRoyalty takes the creator's share of payment into the royalty vault and
// returns the remainder. The share is payment*rate truncated toward zero at
// the currency's precision, so remainder+royalty always equals the payment.
// It performs no gate changes; relaxing the transfer restriction around the
// sale is the caller's responsibility.
func (p *Policy) PayRoyalty(class asset.ItemClass, ids []asset.ItemID, payment *asset.Funds, buyer credential.Class) (*asset.Funds, error) {
	if class != p.class {
		return nil, fmt.Errorf("%w: got %s, bound %s", ErrPolicyMismatch, class, p.class)
	}
	if p.limitBuyers {
		if _, ok := p.permissionedBuyers[buyer]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrBuyerNotPermitted, buyer)
		}
	}
	currency := payment.Currency()
	if p.limitCurrencies {
		if _, ok := p.permittedCurrencies[currency]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrCurrencyNotPermitted, currency.Code)
		}
	}

	share := payment.Amount().Mul(p.rate).Truncate(currency.Decimals)

	if p.limitCurrencies && p.minimumRoyalties {
		if min, ok := p.minimumAmounts[currency]; ok && share.LessThan(min) {
			return nil, fmt.Errorf("%w: %s < %s %s",
				ErrBelowMinimumRoyalty, share, min, currency.Code)
		}
	}

	royalty, err := payment.Take(share)
	if err != nil {
		return nil, err
	}
	vault, ok := p.vaults[currency]
	if !ok {
		vault = asset.Zero(currency)
		p.vaults[currency] = vault
	}
	if err := vault.Put(royalty); err != nil {
		return nil, err
	}
	return payment, nil
}

// Withdraw drains the royalty vault for currency to the creator.
func (p *Policy) Withdraw(by credential.Credential, currency asset.Currency) (*asset.Funds, error) {
	if err := p.requireCreator(by); err != nil {
		return nil, err
	}
	vault, ok := p.vaults[currency]
	if !ok || vault.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrNothingToWithdraw, currency.Code)
	}
	out := asset.Zero(currency)
	if err := out.Put(vault); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Policy) requireCreator(by credential.Credential) error {
	if by.IsZero() || by.Class() != p.creator {
		return ErrNotCreator
	}
	return nil
}
