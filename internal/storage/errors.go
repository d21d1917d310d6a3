package storage

import "errors"

// Storage errors for append-only stores.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEntry is returned when appending an entry whose key already
	// exists. Ledgers never overwrite.
	ErrDuplicateEntry = errors.New("duplicate entry: append-only store does not allow updates")

	// ErrCorruptLedger is returned when a stored ledger record cannot be parsed.
	ErrCorruptLedger = errors.New("corrupt ledger")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
