package memory

import (
	"context"
	"sync"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/idhash"
	"cap-ledger/internal/storage"
)

// LedgerStore is an in-memory implementation of storage.LedgerStore.
type LedgerStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.LedgerEntry // keyed by team, append order
}

// NewLedgerStore creates a new in-memory ledger store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		data: make(map[string][]*domain.LedgerEntry),
	}
}

// ReadAll returns a team's entries in append order.
func (s *LedgerStore) ReadAll(_ context.Context, team string) ([]*domain.LedgerEntry, error) {
	if team == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.data[team]
	result := make([]*domain.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Clone())
	}
	return result, nil
}

// Append adds one entry. Returns ErrDuplicateEntry if (team, date) exists.
func (s *LedgerStore) Append(ctx context.Context, e *domain.LedgerEntry) error {
	if e == nil {
		return storage.ErrInvalidInput
	}
	return s.AppendBulk(ctx, e.Team, []*domain.LedgerEntry{e})
}

// AppendBulk adds entries for one team. Fails entire batch on any duplicate.
func (s *LedgerStore) AppendBulk(_ context.Context, team string, entries []*domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if team == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track dates in this batch to detect intra-batch duplicates
	dates := make(map[domain.Date]struct{}, len(s.data[team])+len(entries))
	for _, e := range s.data[team] {
		dates[e.Date] = struct{}{}
	}

	// First pass: check for duplicates (existing + intra-batch)
	for _, e := range entries {
		if e == nil || e.Team != team {
			return storage.ErrInvalidInput
		}
		if _, exists := dates[e.Date]; exists {
			return storage.ErrDuplicateEntry
		}
		dates[e.Date] = struct{}{}
	}

	// Second pass: insert all
	for _, e := range entries {
		c := e.Clone()
		if c.EntryID == "" {
			c.EntryID = idhash.ComputeEntryID(team, c.Date)
		}
		s.data[team] = append(s.data[team], c)
	}

	return nil
}

var _ storage.LedgerStore = (*LedgerStore)(nil)
