package memory

import (
	"context"
	"sort"
	"sync"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/storage"
)

type projectionKey struct {
	runID string
	team  string
}

// ProjectionStore is an in-memory implementation of storage.ProjectionStore.
type ProjectionStore struct {
	mu   sync.RWMutex
	data map[projectionKey]*domain.Projection
}

// NewProjectionStore creates a new in-memory projection store.
func NewProjectionStore() *ProjectionStore {
	return &ProjectionStore{
		data: make(map[projectionKey]*domain.Projection),
	}
}

// InsertBulk adds projections. Fails entire batch on any duplicate (run_id, team).
func (s *ProjectionStore) InsertBulk(_ context.Context, projections []*domain.Projection) error {
	if len(projections) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[projectionKey]struct{}, len(projections))
	for _, p := range projections {
		if p == nil || p.RunID == "" || p.Team == "" {
			return storage.ErrInvalidInput
		}
		key := projectionKey{runID: p.RunID, team: p.Team}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateEntry
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateEntry
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range projections {
		c := *p
		s.data[projectionKey{runID: p.RunID, team: p.Team}] = &c
	}
	return nil
}

// GetByRun retrieves a run's projections ordered by team id.
func (s *ProjectionStore) GetByRun(_ context.Context, runID string) ([]*domain.Projection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Projection
	for k, p := range s.data {
		if k.runID == runID {
			c := *p
			result = append(result, &c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TeamID < result[j].TeamID
	})
	return result, nil
}

// GetByTeam retrieves a team's projections ordered by league date, then run id.
func (s *ProjectionStore) GetByTeam(_ context.Context, team string) ([]*domain.Projection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Projection
	for k, p := range s.data {
		if k.team == team {
			c := *p
			result = append(result, &c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if c := result[i].LeagueDate.Compare(result[j].LeagueDate); c != 0 {
			return c < 0
		}
		return result[i].RunID < result[j].RunID
	})
	return result, nil
}

var _ storage.ProjectionStore = (*ProjectionStore)(nil)
