package router

import "errors"

var (
	// ErrNotAuthorized indicates the caller lacks the router admin credential.
	ErrNotAuthorized = errors.New("router: admin credential required")

	// ErrFeeRateInvalid indicates the marketplace credential's fee_rate
	// metadata is unparseable or outside [0, 1].
	ErrFeeRateInvalid = errors.New("router: fee rate outside [0, 1]")

	// ErrNoOrders indicates an empty order batch.
	ErrNoOrders = errors.New("router: no orders")

	// ErrNothingAccrued indicates an empty fee accumulator for the currency.
	ErrNothingAccrued = errors.New("router: no fees accrued")

	// ErrInsufficientPayment indicates the payment cannot cover the summed
	// order prices.
	ErrInsufficientPayment = errors.New("router: payment below summed order prices")
)
