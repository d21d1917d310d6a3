package reporting

import (
	"context"
	"fmt"
	"time"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/storage"
)

// Generator assembles run reports from stored projections.
type Generator struct {
	projections storage.ProjectionStore
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(projections storage.ProjectionStore) *Generator {
	return &Generator{
		projections: projections,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Input carries the run data that is not kept in the projection store.
type Input struct {
	RunID          string
	LeagueDate     domain.Date
	Breakdowns     []TeamBreakdown
	Reconciliation ReconciliationSection
}

// Generate loads the run's projections and builds the report.
func (g *Generator) Generate(ctx context.Context, in Input) (*CapReport, error) {
	rows, err := g.projections.GetByRun(ctx, in.RunID)
	if err != nil {
		return nil, fmt.Errorf("load projections for run %s: %w", in.RunID, err)
	}

	return &CapReport{
		RunID:          in.RunID,
		GeneratedAt:    g.now(),
		LeagueDate:     in.LeagueDate,
		Rows:           rows,
		Breakdowns:     in.Breakdowns,
		Reconciliation: in.Reconciliation,
	}, nil
}
