package ledger

import (
	"errors"
	"fmt"

	"cap-ledger/internal/domain"
)

// ErrIntegrityMismatch is returned when ledgers, schedule and override files disagree.
var ErrIntegrityMismatch = errors.New("ledger integrity mismatch")

// IntegrityError carries the context of a fatal integrity failure.
type IntegrityError struct {
	Team   string
	Date   domain.Date
	File   string
	Reason string
}

func (e *IntegrityError) Error() string {
	msg := "integrity error"
	if e.Team != "" {
		msg += " team " + e.Team
	}
	if !e.Date.IsZero() {
		msg += " game " + e.Date.String()
	}
	if e.File != "" {
		msg += " in " + e.File
	}
	return fmt.Sprintf("%s: %s", msg, e.Reason)
}

// Unwrap lets errors.Is match ErrIntegrityMismatch.
func (e *IntegrityError) Unwrap() error {
	return ErrIntegrityMismatch
}
