// Package ledger keeps each team's running cap ledger and reconciles logged games.
package ledger

import (
	"context"
	"fmt"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/storage"
	"cap-ledger/internal/verification"
)

// SalaryLookup returns a player's effective salary, or 0 when the id is unknown.
type SalaryLookup interface {
	Salary(id int) int64
}

// Sink receives reconciliation results.
type Sink interface {
	Record(m verification.Mismatch) error
	Checked(lines int)
}

// pathLocator is implemented by stores that keep one file per team.
type pathLocator interface {
	Path(team string) string
}

// Ledger is one team's append-only cap history.
type Ledger struct {
	team    string
	store   storage.LedgerStore
	entries []*domain.LedgerEntry
	byDate  map[domain.Date]int
}

// Open loads a team ledger. A team without history opens empty.
func Open(ctx context.Context, store storage.LedgerStore, team string) (*Ledger, error) {
	entries, err := store.ReadAll(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("load ledger %s: %w", team, err)
	}

	l := &Ledger{
		team:    team,
		store:   store,
		entries: entries,
		byDate:  make(map[domain.Date]int, len(entries)),
	}
	for i, e := range entries {
		if _, dup := l.byDate[e.Date]; dup {
			return nil, &IntegrityError{
				Team:   team,
				Date:   e.Date,
				File:   l.File(),
				Reason: "game logged twice",
			}
		}
		l.byDate[e.Date] = i
	}
	return l, nil
}

// Team returns the team code.
func (l *Ledger) Team() string {
	return l.team
}

// File names the ledger's backing file, or the team code for non-file stores.
func (l *Ledger) File() string {
	if loc, ok := l.store.(pathLocator); ok {
		return loc.Path(l.team)
	}
	return l.team
}

// Len returns the number of loaded entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// HasEntry reports whether a game on date is already logged.
func (l *Ledger) HasEntry(date domain.Date) bool {
	_, ok := l.byDate[date]
	return ok
}

// Entry returns the logged entry for date.
func (l *Ledger) Entry(date domain.Date) (*domain.LedgerEntry, bool) {
	i, ok := l.byDate[date]
	if !ok {
		return nil, false
	}
	return l.entries[i], true
}

// Verify reconciles the logged entry for date against both salary sources.
// Every mismatch is recorded to sink and returned; processing continues past them.
func (l *Ledger) Verify(date domain.Date, old, current SalaryLookup, sink Sink) ([]verification.Mismatch, error) {
	e, ok := l.Entry(date)
	if !ok {
		return nil, fmt.Errorf("verify %s %s: %w", l.team, date, storage.ErrNotFound)
	}

	var mismatches []verification.Mismatch
	for _, line := range e.Roster {
		m, bad := verification.Compare(l.team, date, line, old.Salary(line.PlayerID), current.Salary(line.PlayerID))
		if !bad {
			continue
		}
		if err := sink.Record(m); err != nil {
			return mismatches, err
		}
		mismatches = append(mismatches, m)
	}
	sink.Checked(len(e.Roster))

	return mismatches, nil
}

// Append logs a new game. It never overwrites: a date already present
// fails with storage.ErrDuplicateEntry.
func (l *Ledger) Append(ctx context.Context, e *domain.LedgerEntry) error {
	if e.Team != l.team {
		return fmt.Errorf("append %s entry to ledger %s: %w", e.Team, l.team, storage.ErrInvalidInput)
	}
	if l.HasEntry(e.Date) {
		return fmt.Errorf("append %s %s: %w", l.team, e.Date, storage.ErrDuplicateEntry)
	}

	if err := l.store.Append(ctx, e); err != nil {
		return fmt.Errorf("append %s %s: %w", l.team, e.Date, err)
	}

	l.byDate[e.Date] = len(l.entries)
	l.entries = append(l.entries, e.Clone())
	return nil
}

// ReadAll re-reads the ledger from its store in append order.
func (l *Ledger) ReadAll(ctx context.Context) ([]*domain.LedgerEntry, error) {
	entries, err := l.store.ReadAll(ctx, l.team)
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", l.team, err)
	}
	return entries, nil
}
