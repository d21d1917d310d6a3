// Package roster loads roster snapshots and the per-team override tables.
package roster

import (
	"context"

	"cap-ledger/internal/domain"
)

// Provider supplies one roster snapshot.
type Provider interface {
	Load(ctx context.Context) ([]*domain.RosterMember, error)
}

// Static is a Provider over members already in memory.
type Static []*domain.RosterMember

// Load returns copies of the members.
func (s Static) Load(_ context.Context) ([]*domain.RosterMember, error) {
	out := make([]*domain.RosterMember, len(s))
	for i, m := range s {
		c := *m
		out[i] = &c
	}
	return out, nil
}

var (
	_ Provider = (*CSVProvider)(nil)
	_ Provider = Static(nil)
)
