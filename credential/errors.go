package credential

import "errors"

var (
	// ErrUnknownClass indicates the class was not minted by this issuer.
	ErrUnknownClass = errors.New("credential: unknown class")
)
