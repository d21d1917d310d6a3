package clickhouse

import (
	"context"
	"fmt"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/storage"
)

// ProjectionStore implements storage.ProjectionStore using ClickHouse.
type ProjectionStore struct {
	conn *Conn
}

// NewProjectionStore creates a new ProjectionStore.
func NewProjectionStore(conn *Conn) *ProjectionStore {
	return &ProjectionStore{conn: conn}
}

var _ storage.ProjectionStore = (*ProjectionStore)(nil)

const projectionColumns = `
	run_id, league_year, league_month, league_day,
	team, team_id, games_played, games_remaining,
	today, to_date, penalties, ltir, projected, over_cap,
	contracts, max_allowable, headroom
`

// InsertBulk adds a run's projections. Fails entire batch on a duplicate (run_id, team).
func (s *ProjectionStore) InsertBulk(ctx context.Context, projections []*domain.Projection) error {
	if len(projections) == 0 {
		return nil
	}

	type key struct {
		runID string
		team  string
	}
	seen := make(map[key]struct{}, len(projections))
	for _, p := range projections {
		if p == nil || p.RunID == "" || p.Team == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.RunID, p.Team}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateEntry
		}
		seen[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness, so check existing rows first.
	for _, p := range projections {
		exists, err := s.exists(ctx, p.RunID, p.Team)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateEntry
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO cap_projections ("+projectionColumns+")")
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range projections {
		var overCap uint8
		if p.OverCap {
			overCap = 1
		}
		err = batch.Append(
			p.RunID, uint16(p.LeagueDate.Year), uint8(p.LeagueDate.Month), uint8(p.LeagueDate.Day),
			p.Team, uint16(p.TeamID), uint16(p.GamesPlayed), uint16(p.GamesRemaining),
			p.Today, p.ToDate, p.Penalties, p.LTIR, p.Projected, overCap,
			uint16(p.Contracts), p.MaxAllowable, p.Headroom,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRun retrieves a run's projections ordered by team id.
func (s *ProjectionStore) GetByRun(ctx context.Context, runID string) ([]*domain.Projection, error) {
	query := "SELECT " + projectionColumns + `
		FROM cap_projections FINAL
		WHERE run_id = ?
		ORDER BY team_id ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run: %w", err)
	}
	defer rows.Close()

	return scanProjections(rows)
}

// GetByTeam retrieves a team's projection history ordered by league date, then run id.
func (s *ProjectionStore) GetByTeam(ctx context.Context, team string) ([]*domain.Projection, error) {
	query := "SELECT " + projectionColumns + `
		FROM cap_projections FINAL
		WHERE team = ?
		ORDER BY league_year ASC, league_month ASC, league_day ASC, run_id ASC
	`

	rows, err := s.conn.Query(ctx, query, team)
	if err != nil {
		return nil, fmt.Errorf("query by team: %w", err)
	}
	defer rows.Close()

	return scanProjections(rows)
}

func (s *ProjectionStore) exists(ctx context.Context, runID, team string) (bool, error) {
	query := `
		SELECT count(*) FROM cap_projections
		WHERE run_id = ? AND team = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, runID, team).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanProjections(rows chRows) ([]*domain.Projection, error) {
	var result []*domain.Projection

	for rows.Next() {
		var p domain.Projection
		var year, teamID, gp, remaining, contracts uint16
		var month, day, overCap uint8

		err := rows.Scan(
			&p.RunID, &year, &month, &day,
			&p.Team, &teamID, &gp, &remaining,
			&p.Today, &p.ToDate, &p.Penalties, &p.LTIR, &p.Projected, &overCap,
			&contracts, &p.MaxAllowable, &p.Headroom,
		)
		if err != nil {
			return nil, fmt.Errorf("scan projection row: %w", err)
		}

		p.LeagueDate = domain.NewDate(int(year), int(month), int(day))
		p.TeamID = int(teamID)
		p.GamesPlayed = int(gp)
		p.GamesRemaining = int(remaining)
		p.OverCap = overCap != 0
		p.Contracts = int(contracts)

		result = append(result, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projection rows: %w", err)
	}

	return result, nil
}
