package ledger

import "errors"

var (
	// ErrDepositRefused indicates the account or its transfer gate rejected a deposit.
	ErrDepositRefused = errors.New("ledger: deposit refused")

	// ErrItemNotHeld indicates the account does not hold the item.
	ErrItemNotHeld = errors.New("ledger: item not held")

	// ErrNotOwner indicates the credential does not prove account ownership.
	ErrNotOwner = errors.New("ledger: credential does not prove ownership")

	// ErrNotGateAdmin indicates the credential may not toggle the gate.
	ErrNotGateAdmin = errors.New("ledger: credential is not the gate admin")

	// ErrGateExists indicates a gate is already registered for the item class.
	ErrGateExists = errors.New("ledger: gate already registered")

	// ErrNothingToClaim indicates the locker holds nothing for the account and currency.
	ErrNothingToClaim = errors.New("ledger: nothing to claim")
)
