package ledger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/storage/memory"
	"cap-ledger/internal/verification"
)

func smallLeague() domain.League {
	l := domain.DefaultLeague()
	l.TeamCodes = []string{"ANA", "CBJ", "BOS"}
	return l
}

func TestBook_ReconcileNeitherLogged(t *testing.T) {
	ctx := context.Background()
	book, err := OpenBook(ctx, memory.NewLedgerStore(), smallLeague())
	require.NoError(t, err)
	require.Len(t, book.Ledgers(), 3)

	game := domain.GameEntry{Date: domain.NewDate(2023, 10, 5), Home: 1, Away: 3}
	logged, err := book.Reconcile(game, salaries{}, salaries{}, verification.NewLog(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.False(t, logged)
}

func TestBook_ReconcileBothLogged(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLedgerStore()
	d := domain.NewDate(2023, 10, 5)
	require.NoError(t, store.Append(ctx, entry("ANA", d, domain.RosterLine{PlayerID: 1, CapHit: 700_000})))
	require.NoError(t, store.Append(ctx, entry("BOS", d, domain.RosterLine{PlayerID: 2, CapHit: 900_000})))

	book, err := OpenBook(ctx, store, smallLeague())
	require.NoError(t, err)

	var buf bytes.Buffer
	sink := verification.NewLog(&buf)
	logged, err := book.Reconcile(domain.GameEntry{Date: d, Home: 1, Away: 3}, salaries{1: 700_000}, salaries{}, sink)
	require.NoError(t, err)
	assert.True(t, logged)

	s := sink.Summary()
	assert.Equal(t, 2, s.CheckedGames)
	assert.Equal(t, 1, s.Mismatches)
	assert.Equal(t, map[string]int{"BOS": 1}, s.ByTeam)
}

func TestBook_ReconcileOneSideLogged(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLedgerStore()
	d := domain.NewDate(2023, 10, 5)
	require.NoError(t, store.Append(ctx, entry("ANA", d)))

	book, err := OpenBook(ctx, store, smallLeague())
	require.NoError(t, err)

	_, err = book.Reconcile(domain.GameEntry{Date: d, Home: 1, Away: 2}, salaries{}, salaries{}, verification.NewLog(&bytes.Buffer{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIntegrityMismatch))
	assert.Contains(t, err.Error(), "home and away games not both logged")

	var ie *IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "CBJ", ie.Team)
}
