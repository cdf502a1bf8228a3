package asset

import "errors"

var (
	// ErrNegativeAmount indicates a fund amount below zero.
	ErrNegativeAmount = errors.New("asset: amount must not be negative")

	// ErrInsufficientFunds indicates a take larger than the bucket balance.
	ErrInsufficientFunds = errors.New("asset: insufficient funds")

	// ErrCurrencyMismatch indicates an operation across two currencies.
	ErrCurrencyMismatch = errors.New("asset: currency mismatch")
)
