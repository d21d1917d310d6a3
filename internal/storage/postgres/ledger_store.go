package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/idhash"
	"cap-ledger/internal/storage"
)

// LedgerStore implements storage.LedgerStore using PostgreSQL.
// Entries live in ledger_entries, roster lines in ledger_roster_lines.
type LedgerStore struct {
	pool *Pool
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LedgerStore = (*LedgerStore)(nil)

var rosterLineColumns = []string{
	"entry_id", "line_no", "player_id", "player_team", "first_name", "last_name", "cap_hit",
}

// ReadAll returns a team's entries in append order.
func (s *LedgerStore) ReadAll(ctx context.Context, team string) ([]*domain.LedgerEntry, error) {
	if team == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT entry_id, team, game_year, game_month, game_day, cap_hit, penalties, ltir
		FROM ledger_entries
		WHERE team = $1
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, team)
	if err != nil {
		return nil, fmt.Errorf("get ledger entries: %w", err)
	}
	entries, err := scanLedgerEntries(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	byID := make(map[string]*domain.LedgerEntry, len(entries))
	for _, e := range entries {
		byID[e.EntryID] = e
	}

	lineQuery := `
		SELECT l.entry_id, l.player_id, l.player_team, l.first_name, l.last_name, l.cap_hit
		FROM ledger_roster_lines l
		JOIN ledger_entries e ON e.entry_id = l.entry_id
		WHERE e.team = $1
		ORDER BY e.seq ASC, l.line_no ASC
	`

	lineRows, err := s.pool.Query(ctx, lineQuery, team)
	if err != nil {
		return nil, fmt.Errorf("get ledger roster lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var entryID string
		var l domain.RosterLine
		if err := lineRows.Scan(&entryID, &l.PlayerID, &l.Team, &l.FirstName, &l.LastName, &l.CapHit); err != nil {
			return nil, fmt.Errorf("scan ledger roster line: %w", err)
		}
		e, ok := byID[entryID]
		if !ok {
			return nil, fmt.Errorf("%w: roster line for unknown entry %s", storage.ErrCorruptLedger, entryID)
		}
		e.Roster = append(e.Roster, l)
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger roster lines: %w", err)
	}

	return entries, nil
}

// Append adds one entry. Returns ErrDuplicateEntry if (team, date) exists.
func (s *LedgerStore) Append(ctx context.Context, e *domain.LedgerEntry) error {
	if e == nil {
		return storage.ErrInvalidInput
	}
	return s.AppendBulk(ctx, e.Team, []*domain.LedgerEntry{e})
}

// AppendBulk adds entries for one team atomically. Fails entire batch on any duplicate.
func (s *LedgerStore) AppendBulk(ctx context.Context, team string, entries []*domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if team == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO ledger_entries (
			entry_id, team, game_year, game_month, game_day,
			cap_hit, penalties, ltir
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8
		)
	`

	var lines [][]any
	for _, e := range entries {
		if e == nil || e.Team != team {
			return storage.ErrInvalidInput
		}
		entryID := e.EntryID
		if entryID == "" {
			entryID = idhash.ComputeEntryID(team, e.Date)
		}

		_, err := tx.Exec(ctx, query,
			entryID, team, e.Date.Year, e.Date.Month, e.Date.Day,
			e.CapHit, e.Penalties, e.LTIR,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("%s %s: %w", team, e.Date, storage.ErrDuplicateEntry)
			}
			return fmt.Errorf("insert ledger entry: %w", err)
		}

		for i, l := range e.Roster {
			lines = append(lines, []any{
				entryID, i, l.PlayerID, l.Team, l.FirstName, l.LastName, l.CapHit,
			})
		}
	}

	if len(lines) > 0 {
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"ledger_roster_lines"},
			rosterLineColumns,
			pgx.CopyFromRows(lines),
		)
		if err != nil {
			return fmt.Errorf("copy ledger roster lines: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// scanLedgerEntries scans entry headers without roster lines.
func scanLedgerEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry

	for rows.Next() {
		var e domain.LedgerEntry

		err := rows.Scan(
			&e.EntryID, &e.Team, &e.Date.Year, &e.Date.Month, &e.Date.Day,
			&e.CapHit, &e.Penalties, &e.LTIR,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry row: %w", err)
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entry rows: %w", err)
	}

	return entries, nil
}
