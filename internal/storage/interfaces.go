package storage

import (
	"context"

	"cap-ledger/internal/domain"
)

// LedgerStore provides access to per-team cap ledgers.
type LedgerStore interface {
	// ReadAll returns a team's entries in append order.
	// A team with no ledger yet has no entries and no error.
	ReadAll(ctx context.Context, team string) ([]*domain.LedgerEntry, error)

	// Append adds one entry. Returns ErrDuplicateEntry if (team, date) exists.
	Append(ctx context.Context, e *domain.LedgerEntry) error

	// AppendBulk adds entries for one team in order. Fails on any duplicate
	// before anything is written.
	AppendBulk(ctx context.Context, team string, entries []*domain.LedgerEntry) error
}

// ProjectionStore keeps projection history across runs.
type ProjectionStore interface {
	// InsertBulk adds projections. Returns ErrDuplicateEntry if (run_id, team) exists.
	InsertBulk(ctx context.Context, projections []*domain.Projection) error

	// GetByRun retrieves a run's projections ordered by team id.
	GetByRun(ctx context.Context, runID string) ([]*domain.Projection, error)

	// GetByTeam retrieves a team's projections ordered by league date.
	GetByTeam(ctx context.Context, team string) ([]*domain.Projection, error)
}
