package royalty

import "errors"

var (
	// ErrPolicyMismatch indicates the item class is not bound to this policy.
	ErrPolicyMismatch = errors.New("royalty: item class not bound to this policy")

	// ErrBuyerNotPermitted indicates the buyer credential is not on the allow-list.
	ErrBuyerNotPermitted = errors.New("royalty: buyer not permitted to trade this collection")

	// ErrCurrencyNotPermitted indicates the payment currency is not on the allow-list.
	ErrCurrencyNotPermitted = errors.New("royalty: currency not permitted")

	// ErrBelowMinimumRoyalty indicates the computed royalty is under the configured minimum.
	ErrBelowMinimumRoyalty = errors.New("royalty: royalty below configured minimum")

	// ErrNotCreator indicates the credential does not prove collection creatorship.
	ErrNotCreator = errors.New("royalty: creator credential required")

	// ErrConfigLocked indicates the change is forbidden once the configuration is locked.
	ErrConfigLocked = errors.New("royalty: configuration is locked")

	// ErrInvalidRate indicates a rate outside [0, max].
	ErrInvalidRate = errors.New("royalty: invalid rate")

	// ErrRateAboveMaximum indicates a rate above the configured maximum.
	ErrRateAboveMaximum = errors.New("royalty: rate above maximum")

	// ErrMaxBelowRate indicates a maximum below the current rate.
	ErrMaxBelowRate = errors.New("royalty: maximum below current rate")

	// ErrMaxRaised indicates an attempt to raise the maximum rate.
	ErrMaxRaised = errors.New("royalty: maximum rate can only be lowered")

	// ErrRestrictionDisabled indicates the targeted restriction is not turned on.
	ErrRestrictionDisabled = errors.New("royalty: restriction not enabled")

	// ErrDappNotPermitted indicates the destination is not on the dapp allow-list.
	ErrDappNotPermitted = errors.New("royalty: destination not permitted")

	// ErrNothingToWithdraw indicates an empty royalty vault.
	ErrNothingToWithdraw = errors.New("royalty: nothing to withdraw")
)
