package escrow

import "errors"

var (
	// ErrNotSeller indicates the caller does not hold the account owner credential.
	ErrNotSeller = errors.New("escrow: seller owner credential required")

	// ErrListingNotFound indicates no listing exists for the item key.
	ErrListingNotFound = errors.New("escrow: listing not found")

	// ErrAlreadyListed indicates the item key is already listed.
	ErrAlreadyListed = errors.New("escrow: item already listed")

	// ErrInvalidPrice indicates a zero or negative listing price.
	ErrInvalidPrice = errors.New("escrow: price must be positive")

	// ErrPermissionDenied indicates the credential is not permitted to
	// execute the purchase.
	ErrPermissionDenied = errors.New("escrow: credential not permitted")

	// ErrPaymentMismatch indicates the payment amount or currency does not
	// match the listing.
	ErrPaymentMismatch = errors.New("escrow: payment does not match listing")

	// ErrCurrencyMismatch indicates a batch of listings spans currencies.
	ErrCurrencyMismatch = errors.New("escrow: batch spans currencies")

	// ErrMixedClasses indicates a batch of listings spans item classes.
	ErrMixedClasses = errors.New("escrow: batch spans item classes")

	// ErrSameTransactionReplay indicates a royalty-enforced item was listed
	// and bought inside one transaction.
	ErrSameTransactionReplay = errors.New("escrow: listing created in the same transaction")

	// ErrSettlementOpen indicates an earlier settlement has not been cleared.
	ErrSettlementOpen = errors.New("escrow: a settlement is already open")

	// ErrWrongToken indicates the presented token is not this account's
	// transient settlement token.
	ErrWrongToken = errors.New("escrow: wrong settlement token")

	// ErrNoPendingTransfer indicates no settlement is open.
	ErrNoPendingTransfer = errors.New("escrow: no pending transfer")

	// ErrTransferNotObserved indicates the declared recipient does not hold
	// every item of the pending transfer.
	ErrTransferNotObserved = errors.New("escrow: transfer not observed at destination")

	// ErrFeeRateInvalid indicates the fee_rate metadata of the purchasing
	// credential is unparseable or outside [0, 1].
	ErrFeeRateInvalid = errors.New("escrow: fee rate outside [0, 1]")

	// ErrFeeExceedsRemainder indicates royalty plus fee would exceed the payment.
	ErrFeeExceedsRemainder = errors.New("escrow: royalty plus fee exceeds payment")
)
