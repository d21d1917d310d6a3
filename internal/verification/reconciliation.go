// Package verification reconciles logged ledger snapshots against roster salaries.
// A logged cap hit is accepted when it matches either the season-start salary
// or the current salary of the same player.
package verification

import (
	"fmt"
	"io"
	"os"
	"sync"

	"cap-ledger/internal/domain"
)

// Mismatch is a logged cap hit that matches neither roster source.
type Mismatch struct {
	Team     string
	Date     domain.Date
	PlayerID int
	Reported int64 // cap hit stored in the ledger
	Old      int64 // season-start effective salary, 0 when absent
	Current  int64 // current effective salary, 0 when absent
}

// Line formats the mismatch as one reconciliation log line.
func (m Mismatch) Line() string {
	return fmt.Sprintf("Mismatch game %s playerid %d salary %d old file %d current file %d",
		m.Date, m.PlayerID, m.Reported, m.Old, m.Current)
}

// Compare checks one logged roster line against the old and current salaries.
func Compare(team string, date domain.Date, line domain.RosterLine, old, current int64) (Mismatch, bool) {
	if line.CapHit == old || line.CapHit == current {
		return Mismatch{}, false
	}
	return Mismatch{
		Team:     team,
		Date:     date,
		PlayerID: line.PlayerID,
		Reported: line.CapHit,
		Old:      old,
		Current:  current,
	}, true
}

// Summary counts reconciliation results for one run.
type Summary struct {
	CheckedGames int
	CheckedLines int
	Mismatches   int
	ByTeam       map[string]int
}

// Log is the single ordered sink for reconciliation mismatches.
// It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	w       io.Writer
	closer  io.Closer
	summary Summary
}

// NewLog writes mismatch lines to w.
func NewLog(w io.Writer) *Log {
	return &Log{
		w:       w,
		summary: Summary{ByTeam: make(map[string]int)},
	}
}

// CreateLog truncates or creates the reconciliation log at path.
func CreateLog(path string) (*Log, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create reconciliation log: %w", err)
	}
	l := NewLog(f)
	l.closer = f
	return l, nil
}

// Record appends one mismatch line.
func (l *Log) Record(m Mismatch) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := fmt.Fprintln(l.w, m.Line()); err != nil {
		return fmt.Errorf("write reconciliation line: %w", err)
	}
	l.summary.Mismatches++
	l.summary.ByTeam[m.Team]++
	return nil
}

// Checked records that a logged game with n roster lines was reconciled.
func (l *Log) Checked(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.summary.CheckedGames++
	l.summary.CheckedLines += n
}

// Summary returns a copy of the counters.
func (l *Log) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.summary
	s.ByTeam = make(map[string]int, len(l.summary.ByTeam))
	for k, v := range l.summary.ByTeam {
		s.ByTeam[k] = v
	}
	return s
}

// Close closes the underlying file when the log owns one.
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
