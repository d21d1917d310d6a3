package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/ledger"
	"cap-ledger/internal/observability"
	"cap-ledger/internal/reporting"
	"cap-ledger/internal/roster"
	"cap-ledger/internal/storage/memory"
)

// Three games: two played by 25/10/2023, one still to come.
const testSchedule = `5 10 2023 1 2 0
3 2
20 10 2023 2 3 0
1 4
5 11 2023 3 1 0
0 0
`

func testLeague() domain.League {
	l := domain.DefaultLeague()
	l.TeamCodes = []string{"ANA", "CBJ", "BOS"}
	return l
}

func testMembers() roster.Static {
	return roster.Static{
		{ID: 1, Team: 1, Rights: 1, Salary: 1_000_000, Years: 2, BirthYear: 1990, BirthMonth: 1, BirthDay: 1, FirstName: "Ann", LastName: "Able"},
		{ID: 2, Team: 2, Rights: 2, Salary: 1_000_000, Years: 2, BirthYear: 1990, BirthMonth: 1, BirthDay: 1, FirstName: "Ben", LastName: "Baker"},
		{ID: 3, Team: 3, Rights: 3, Salary: 1_000_000, Years: 2, BirthYear: 1990, BirthMonth: 1, BirthDay: 1, FirstName: "Cal", LastName: "Cole"},
	}
}

type fixture struct {
	saveDir string
	capDir  string
	ledgers *memory.LedgerStore
	projs   *memory.ProjectionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		saveDir: t.TempDir(),
		capDir:  t.TempDir(),
		ledgers: memory.NewLedgerStore(),
		projs:   memory.NewProjectionStore(),
	}
	require.NoError(t, os.WriteFile(filepath.Join(f.saveDir, LeagueFile), []byte("2023 10 25\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(f.saveDir, ScheduleFile), []byte(testSchedule), 0o644))
	return f
}

func (f *fixture) options() Options {
	return Options{
		League:          testLeague(),
		Roster:          testMembers(),
		CapRoster:       testMembers(),
		LedgerStore:     f.ledgers,
		ProjectionStore: f.projs,
		SaveDir:         f.saveDir,
		CapDir:          f.capDir,
		Clock:           func() time.Time { return time.Date(2023, 10, 25, 12, 0, 0, 0, time.UTC) },
	}
}

func (f *fixture) entries(t *testing.T, team string) []*domain.LedgerEntry {
	t.Helper()
	entries, err := f.ledgers.ReadAll(context.Background(), team)
	require.NoError(t, err)
	return entries
}

// One major-league member each: 1,000,000 plus 21 missing pros at 600,000.
const expectedCap = 1_000_000 + 21*600_000

func TestRun_AppendsPlayedGames(t *testing.T) {
	f := newFixture(t)
	opts := f.options()
	opts.RunID = "run-1"

	result, err := New(opts).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, domain.NewDate(2023, 10, 25), result.LeagueDate)
	assert.Equal(t, 2, result.GamesPlayed)
	assert.Equal(t, 4, result.Appended)
	assert.Equal(t, 0, result.Checked)
	assert.Equal(t, 0, result.Mismatches)

	ana := f.entries(t, "ANA")
	require.Len(t, ana, 1)
	assert.Equal(t, domain.NewDate(2023, 10, 5), ana[0].Date)
	assert.Equal(t, int64(expectedCap), ana[0].CapHit)
	assert.NotEmpty(t, ana[0].EntryID)
	require.Len(t, ana[0].Roster, 1)
	assert.Equal(t, int64(1_000_000), ana[0].Roster[0].CapHit)

	assert.Len(t, f.entries(t, "CBJ"), 2)
	assert.Len(t, f.entries(t, "BOS"), 1)

	require.Len(t, result.Projections, 3)
	cbj := result.Projections[1]
	assert.Equal(t, "CBJ", cbj.Team)
	assert.Equal(t, 2, cbj.GamesPlayed)
	assert.Equal(t, 80, cbj.GamesRemaining)
	assert.InDelta(t, float64(expectedCap), cbj.Projected, 1e-6)
	assert.False(t, cbj.OverCap)
	assert.Equal(t, "run-1", cbj.RunID)

	stored, err := f.projs.GetByRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	assert.Len(t, result.Files, 5)
	for _, name := range []string{reporting.CapHitsFile, reporting.BreakdownFile, ReconciliationFile} {
		_, err := os.Stat(filepath.Join(f.capDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRun_SecondRunVerifiesInsteadOfAppending(t *testing.T) {
	f := newFixture(t)

	_, err := New(f.options()).Run(context.Background())
	require.NoError(t, err)

	result, err := New(f.options()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Appended)
	assert.Equal(t, 4, result.Checked) // two games, both sides each
	assert.Equal(t, 0, result.Mismatches)
	assert.Len(t, f.entries(t, "CBJ"), 2)

	data, err := os.ReadFile(filepath.Join(f.capDir, ReconciliationFile))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRun_WritesMismatchLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := domain.NewDate(2023, 10, 5)
	for _, e := range []*domain.LedgerEntry{
		{Team: "ANA", Date: d, CapHit: expectedCap, Roster: []domain.RosterLine{{PlayerID: 1, Team: 1, FirstName: "Ann", LastName: "Able", CapHit: 555}}},
		{Team: "CBJ", Date: d, CapHit: expectedCap, Roster: []domain.RosterLine{{PlayerID: 2, Team: 2, FirstName: "Ben", LastName: "Baker", CapHit: 1_000_000}}},
	} {
		require.NoError(t, f.ledgers.Append(ctx, e))
	}

	result, err := New(f.options()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 1, result.Mismatches)
	assert.Equal(t, 2, result.Appended) // 20/10 for CBJ and BOS
	assert.Equal(t, 1, result.Report.Reconciliation.Mismatches)

	data, err := os.ReadFile(filepath.Join(f.capDir, ReconciliationFile))
	require.NoError(t, err)
	assert.Equal(t, "Mismatch game 5/10/2023 playerid 1 salary 555 old file 1000000 current file 1000000\n", string(data))
}

func TestRun_OneSideLoggedIsFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ledgers.Append(ctx, &domain.LedgerEntry{Team: "ANA", Date: domain.NewDate(2023, 10, 5)}))

	_, err := New(f.options()).Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrIntegrityMismatch))

	var ie *ledger.IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "CBJ", ie.Team)
	assert.Contains(t, ie.Reason, "not both logged")

	assert.Empty(t, f.entries(t, "BOS"))
}

func TestRun_PenaltyOrderMismatchLeavesLedgersUntouched(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "penalties.txt")
	require.NoError(t, os.WriteFile(path, []byte("CBJ 100\nANA 0\nBOS 0\n"), 0o644))

	opts := f.options()
	opts.PenaltiesPath = path

	_, err := New(opts).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrIntegrityMismatch))

	for _, team := range []string{"ANA", "CBJ", "BOS"} {
		assert.Empty(t, f.entries(t, team), team)
	}
}

func TestRun_LedgerCountMismatchIsFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// Logged on a date the schedule does not have.
	require.NoError(t, f.ledgers.Append(ctx, &domain.LedgerEntry{Team: "BOS", Date: domain.NewDate(2023, 9, 30)}))

	_, err := New(f.options()).Run(ctx)
	require.Error(t, err)

	var ie *ledger.IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "BOS", ie.Team)
	assert.Contains(t, ie.Reason, "games counted 2 doesn't match 1 games played")
}

func TestRun_PenaltiesAndMetrics(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	penalties := filepath.Join(dir, "penalties.txt")
	require.NoError(t, os.WriteFile(penalties, []byte("ANA 250000\nCBJ\nBOS 0\n"), 0o644))

	opts := f.options()
	opts.PenaltiesPath = penalties
	opts.Metrics = observability.NewRunMetrics()

	result, err := New(opts).Run(context.Background())
	require.NoError(t, err)

	ana := f.entries(t, "ANA")
	require.Len(t, ana, 1)
	assert.Equal(t, int64(expectedCap), ana[0].CapHit)
	assert.Equal(t, int64(250_000), ana[0].Penalties)

	assert.InDelta(t, float64(expectedCap+250_000), result.Projections[0].Today, 1e-6)
	assert.Equal(t, int64(expectedCap+250_000), result.Report.Breakdowns[0].Final)

	families, err := opts.Metrics.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRun_MissingSchedule(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.saveDir, ScheduleFile)))

	_, err := New(f.options()).Run(context.Background())
	require.Error(t, err)
}

func TestRun_RequiresStores(t *testing.T) {
	_, err := New(Options{League: testLeague()}).Run(context.Background())
	require.Error(t, err)
}

// Entries logged before this run keep their recorded cap; the surcharge is
// only charged into entries appended now.
func TestRun_SurchargeOnlyAtAppendTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := domain.NewDate(2023, 10, 5)
	for _, e := range []*domain.LedgerEntry{
		{Team: "ANA", Date: d, CapHit: 1_000_000, Roster: []domain.RosterLine{{PlayerID: 1, Team: 1, CapHit: 1_000_000}}},
		{Team: "CBJ", Date: d, CapHit: 1_000_000, Roster: []domain.RosterLine{{PlayerID: 2, Team: 2, CapHit: 1_000_000}}},
	} {
		require.NoError(t, f.ledgers.Append(ctx, e))
	}

	result, err := New(f.options()).Run(ctx)
	require.NoError(t, err)

	ana := result.Projections[0]
	assert.InDelta(t, 1_000_000, ana.ToDate, 1e-6)
	assert.InDelta(t, float64(expectedCap), ana.Today, 1e-6)

	cbj := f.entries(t, "CBJ")
	require.Len(t, cbj, 2)
	assert.Equal(t, int64(1_000_000), cbj[0].CapHit)
	assert.Equal(t, int64(expectedCap), cbj[1].CapHit)
	assert.InDelta(t, float64(1_000_000+expectedCap)/2, result.Projections[1].ToDate, 1e-6)
}
