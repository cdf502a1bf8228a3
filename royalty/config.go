package royalty

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
)

// Configuration mutators. The locked latch is one-way: once set, a setting
// may only move toward more permissive. Concretely: restrictions can be
// turned off but not on, allow-lists can grow but not shrink, the rate can
// fall but not rise, and the maximum can still be lowered.

// ChangeRate sets the royalty rate. Raising the rate is forbidden once the
// configuration is locked; lowering is always allowed.
func (p *Policy) ChangeRate(by credential.Credential, rate decimal.Decimal) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if rate.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}
	if rate.GreaterThan(p.maxRate) {
		return fmt.Errorf("%w: %s > %s", ErrRateAboveMaximum, rate, p.maxRate)
	}
	if p.locked && rate.GreaterThan(p.rate) {
		return fmt.Errorf("%w: raise rate", ErrConfigLocked)
	}
	p.rate = rate
	return nil
}

// LowerMaxRate lowers the rate ceiling. Permitted even when locked; the new
// maximum may not exceed the current one or fall below the current rate.
func (p *Policy) LowerMaxRate(by credential.Credential, max decimal.Decimal) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if max.GreaterThan(p.maxRate) {
		return fmt.Errorf("%w: %s > %s", ErrMaxRaised, max, p.maxRate)
	}
	if max.LessThan(p.rate) {
		return fmt.Errorf("%w: %s < %s", ErrMaxBelowRate, max, p.rate)
	}
	p.maxRate = max
	return nil
}

// RestrictCurrencies turns the currency allow-list on.
func (p *Policy) RestrictCurrencies(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if p.locked {
		return fmt.Errorf("%w: restrict currencies", ErrConfigLocked)
	}
	p.limitCurrencies = true
	return nil
}

// AllowAllCurrencies turns the currency allow-list off. Always permitted.
func (p *Policy) AllowAllCurrencies(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	p.limitCurrencies = false
	return nil
}

// AddPermittedCurrency grows the currency allow-list. Permitted even when locked.
func (p *Policy) AddPermittedCurrency(by credential.Credential, currency asset.Currency) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if !p.limitCurrencies {
		return fmt.Errorf("%w: currencies", ErrRestrictionDisabled)
	}
	p.permittedCurrencies[currency] = struct{}{}
	return nil
}

// RemovePermittedCurrency shrinks the currency allow-list.
func (p *Policy) RemovePermittedCurrency(by credential.Credential, currency asset.Currency) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if !p.limitCurrencies {
		return fmt.Errorf("%w: currencies", ErrRestrictionDisabled)
	}
	if p.locked {
		return fmt.Errorf("%w: remove currency", ErrConfigLocked)
	}
	delete(p.permittedCurrencies, currency)
	return nil
}

// EnableMinimumRoyalties turns per-currency minimums on. Requires the
// currency allow-list since minimums are keyed by permitted currency.
func (p *Policy) EnableMinimumRoyalties(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if !p.limitCurrencies {
		return fmt.Errorf("%w: currencies", ErrRestrictionDisabled)
	}
	if p.locked {
		return fmt.Errorf("%w: enable minimums", ErrConfigLocked)
	}
	p.minimumRoyalties = true
	return nil
}

// DisableMinimumRoyalties turns per-currency minimums off. Always permitted.
func (p *Policy) DisableMinimumRoyalties(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	p.minimumRoyalties = false
	return nil
}

// SetMinimumRoyalty sets the per-sale floor for one currency.
func (p *Policy) SetMinimumRoyalty(by credential.Credential, currency asset.Currency, amount decimal.Decimal) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if !p.limitCurrencies {
		return fmt.Errorf("%w: currencies", ErrRestrictionDisabled)
	}
	if p.locked {
		return fmt.Errorf("%w: set minimum", ErrConfigLocked)
	}
	p.minimumAmounts[currency] = amount
	return nil
}

// RemoveMinimumRoyalty removes a per-currency floor. Permitted even when locked.
func (p *Policy) RemoveMinimumRoyalty(by credential.Credential, currency asset.Currency) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if !p.limitCurrencies {
		return fmt.Errorf("%w: currencies", ErrRestrictionDisabled)
	}
	delete(p.minimumAmounts, currency)
	return nil
}

// LimitDapps turns the destination allow-list on.
func (p *Policy) LimitDapps(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if p.locked {
		return fmt.Errorf("%w: limit dapps", ErrConfigLocked)
	}
	p.limitDapps = true
	return nil
}

// AllowAllDapps turns the destination allow-list off. Always permitted.
func (p *Policy) AllowAllDapps(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	p.limitDapps = false
	return nil
}

// AddPermissionedDapp allows a destination, bound to the badge class it must
// present for private transfers. Permitted even when locked.
func (p *Policy) AddPermissionedDapp(by credential.Credential, destination string, badge credential.Class) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	p.permissionedDapps[destination] = badge
	return nil
}

// RemovePermissionedDapp removes a destination from the allow-list.
func (p *Policy) RemovePermissionedDapp(by credential.Credential, destination string) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if p.locked {
		return fmt.Errorf("%w: remove dapp", ErrConfigLocked)
	}
	delete(p.permissionedDapps, destination)
	return nil
}

// AddPermissionedBuyer grows the buyer allow-list. Permitted even when locked.
func (p *Policy) AddPermissionedBuyer(by credential.Credential, buyer credential.Class) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	p.permissionedBuyers[buyer] = struct{}{}
	return nil
}

// RemovePermissionedBuyer shrinks the buyer allow-list.
func (p *Policy) RemovePermissionedBuyer(by credential.Credential, buyer credential.Class) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if p.locked {
		return fmt.Errorf("%w: remove buyer", ErrConfigLocked)
	}
	delete(p.permissionedBuyers, buyer)
	return nil
}

// DenyAllBuyers turns the buyer allow-list on.
func (p *Policy) DenyAllBuyers(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if p.locked {
		return fmt.Errorf("%w: deny buyers", ErrConfigLocked)
	}
	p.limitBuyers = true
	return nil
}

// AllowAllBuyers turns the buyer allow-list off. Always permitted.
func (p *Policy) AllowAllBuyers(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	p.limitBuyers = false
	return nil
}

// LimitPrivateTrade restricts out-of-settlement transfers to permissioned
// destinations.
func (p *Policy) LimitPrivateTrade(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	if p.locked {
		return fmt.Errorf("%w: limit private trade", ErrConfigLocked)
	}
	p.limitPrivateTrade = true
	return nil
}

// AllowPrivateTrade lifts the private-trade restriction. Always permitted.
func (p *Policy) AllowPrivateTrade(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	p.limitPrivateTrade = false
	return nil
}

// LockConfiguration sets the one-way latch. There is no unlock.
func (p *Policy) LockConfiguration(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	p.locked = true
	return nil
}
