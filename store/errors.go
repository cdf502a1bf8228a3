package store

import "errors"

var (
	// ErrListingNotFound indicates no persisted listing under the key.
	ErrListingNotFound = errors.New("store: listing not found")

	// ErrSettlementNotFound indicates no open settlement for the seller.
	ErrSettlementNotFound = errors.New("store: settlement not found")
)
