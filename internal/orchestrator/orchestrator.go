// Package orchestrator runs one batch pass over the schedule, the team
// ledgers and the rosters.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"cap-ledger/internal/caphit"
	"cap-ledger/internal/domain"
	"cap-ledger/internal/idhash"
	"cap-ledger/internal/ledger"
	"cap-ledger/internal/observability"
	"cap-ledger/internal/projection"
	"cap-ledger/internal/reporting"
	"cap-ledger/internal/roster"
	"cap-ledger/internal/schedule"
	"cap-ledger/internal/storage"
	"cap-ledger/internal/verification"
)

// File names read from the save directory and written to the cap directory.
const (
	ScheduleFile       = "schedule.ehm"
	LeagueFile         = "league.ehm"
	ReconciliationFile = "check_caps.txt"
)

// Options configures the orchestrator.
type Options struct {
	League domain.League

	// Roster is the current roster. CapRoster is the season-start roster
	// whose signed members are charged to the club holding their rights.
	Roster    roster.Provider
	CapRoster roster.Provider

	LedgerStore     storage.LedgerStore
	ProjectionStore storage.ProjectionStore

	SaveDir       string // holds schedule.ehm and league.ehm
	CapDir        string // reports and the reconciliation log
	PenaltiesPath string // optional
	LTIRPath      string // optional

	RunID   string           // generated when empty
	Clock   func() time.Time // defaults to time.Now().UTC()
	Workers int              // per-team parallelism, defaults to 8

	Metrics *observability.RunMetrics // optional
	Logger  zerolog.Logger
}

// RunResult summarizes a completed run.
type RunResult struct {
	RunID       string
	LeagueDate  domain.Date
	GamesPlayed int // played games in the schedule
	Checked     int // games already logged and reconciled
	Appended    int // ledger entries written this run
	Mismatches  int
	OutOfOrder  int
	Projections []*domain.Projection
	Report      *reporting.CapReport
	Files       []string
}

// Orchestrator coordinates one batch run.
type Orchestrator struct {
	opts Options
	log  zerolog.Logger
	agg  *caphit.Aggregator
}

// New creates a new orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	return &Orchestrator{
		opts: opts,
		log:  opts.Logger.With().Str("component", "orchestrator").Logger(),
		agg:  caphit.NewAggregator(caphit.NewCalculator(opts.League)),
	}
}

// teamOutcome is what the per-team phase produces for one team.
type teamOutcome struct {
	appended   int
	projection *domain.Projection
	breakdown  reporting.TeamBreakdown
}

// Run executes the batch pass. Ledger appends made before a fatal error are kept.
func (o *Orchestrator) Run(ctx context.Context) (result *RunResult, err error) {
	if o.opts.LedgerStore == nil || o.opts.ProjectionStore == nil {
		return nil, errors.New("orchestrator: ledger and projection stores are required")
	}
	if o.opts.Roster == nil || o.opts.CapRoster == nil {
		return nil, errors.New("orchestrator: roster providers are required")
	}

	runID := o.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := o.log.With().Str("run_id", runID).Logger()
	league := o.opts.League

	defer func() {
		if o.opts.Metrics != nil {
			o.opts.Metrics.RecordRun(err, o.opts.Clock())
		}
	}()

	// Phase 1: override tables. An order mismatch stops the run before any ledger is touched.
	phaseStart := time.Now()
	penalties, err := roster.LoadOverrides(o.opts.PenaltiesPath, league)
	if err != nil {
		return nil, fmt.Errorf("load penalties: %w", err)
	}
	ltir, err := roster.LoadOverrides(o.opts.LTIRPath, league)
	if err != nil {
		return nil, fmt.Errorf("load ltir: %w", err)
	}

	// Phase 2: rosters
	current, err := o.opts.Roster.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	capMembers, err := o.opts.CapRoster.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cap roster: %w", err)
	}
	oldIndex := roster.NewIndex(capMembers, league.SalaryFloor)
	currentIndex := roster.NewIndex(current, league.SalaryFloor)
	groups := roster.GroupByRights(capMembers, league)
	o.observe("load", phaseStart)
	log.Info().
		Int("roster", len(current)).
		Int("cap_roster", len(capMembers)).
		Msg("rosters loaded")

	// Phase 3: league date and schedule walk
	phaseStart = time.Now()
	leagueDate, err := schedule.ReadLeagueDate(filepath.Join(o.opts.SaveDir, LeagueFile))
	if err != nil {
		return nil, err
	}
	games, err := schedule.ReadSchedule(filepath.Join(o.opts.SaveDir, ScheduleFile))
	if err != nil {
		return nil, err
	}
	walk, err := schedule.Walk(games, leagueDate, league.NumTeams())
	if err != nil {
		return nil, err
	}
	if walk.OutOfOrder > 0 {
		log.Warn().Int("games", walk.OutOfOrder).Msg("played games found after unplayed ones")
	}
	o.observe("walk", phaseStart)
	log.Info().
		Str("date", leagueDate.String()).
		Int("games", len(walk.Played)).
		Msg("schedule walked")

	// Phase 4: open ledgers
	phaseStart = time.Now()
	book, err := ledger.OpenBook(ctx, o.opts.LedgerStore, league)
	o.recordStore("ledger", "read_all", phaseStart, err)
	if err != nil {
		return nil, err
	}

	// Phase 5: reconcile logged games in schedule order, queue the rest per team
	phaseStart = time.Now()
	recon, err := verification.CreateLog(filepath.Join(o.opts.CapDir, ReconciliationFile))
	if err != nil {
		return nil, err
	}
	defer recon.Close()

	pending := make([][]domain.Date, league.NumTeams())
	for _, g := range walk.Played {
		logged, err := book.Reconcile(g, oldIndex, currentIndex, recon)
		if err != nil {
			return nil, err
		}
		if !logged {
			pending[g.Home-1] = append(pending[g.Home-1], g.Date)
			pending[g.Away-1] = append(pending[g.Away-1], g.Date)
		}
	}
	summary := recon.Summary()
	o.observe("reconcile", phaseStart)
	log.Info().
		Int("checked", summary.CheckedGames).
		Int("mismatches", summary.Mismatches).
		Msg("logged games reconciled")

	// Phase 6: per team append, re-read and project
	phaseStart = time.Now()
	outcomes := make([]teamOutcome, league.NumTeams())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Workers)
	for i := range outcomes {
		g.Go(func() error {
			out, err := o.processTeam(gctx, teamInput{
				index:       i,
				members:     groups[i],
				ledger:      book.Ledger(i + 1),
				pending:     pending[i],
				gamesPlayed: walk.GamesPlayed[i],
				penalty:     penalties[i],
				ltir:        ltir[i],
				leagueDate:  leagueDate,
			})
			if err != nil {
				return err
			}
			out.projection.RunID = runID
			out.projection.LeagueDate = leagueDate
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	o.observe("project", phaseStart)

	projections := make([]*domain.Projection, len(outcomes))
	breakdowns := make([]reporting.TeamBreakdown, len(outcomes))
	appended := 0
	overCap := 0
	for i, out := range outcomes {
		projections[i] = out.projection
		breakdowns[i] = out.breakdown
		appended += out.appended
		if out.projection.OverCap {
			overCap++
		}
	}
	log.Info().Int("appended", appended).Msg("ledgers updated")

	// Phase 7: projection history
	phaseStart = time.Now()
	err = o.opts.ProjectionStore.InsertBulk(ctx, projections)
	o.recordStore("projection", "insert", phaseStart, err)
	if err != nil {
		return nil, fmt.Errorf("store projections: %w", err)
	}

	// Phase 8: reports
	phaseStart = time.Now()
	report, err := reporting.NewGenerator(o.opts.ProjectionStore).
		WithClock(o.opts.Clock).
		Generate(ctx, reporting.Input{
			RunID:      runID,
			LeagueDate: leagueDate,
			Breakdowns: breakdowns,
			Reconciliation: reporting.ReconciliationSection{
				CheckedGames: summary.CheckedGames,
				Mismatches:   summary.Mismatches,
				Appended:     appended,
				OutOfOrder:   walk.OutOfOrder,
			},
		})
	if err != nil {
		return nil, err
	}
	files, err := reporting.WriteFiles(o.opts.CapDir, report)
	if err != nil {
		return nil, err
	}
	o.observe("report", phaseStart)

	if m := o.opts.Metrics; m != nil {
		m.GamesChecked.Add(float64(summary.CheckedGames))
		m.EntriesAppended.Add(float64(appended))
		m.OutOfOrderGames.Add(float64(walk.OutOfOrder))
		for team, n := range summary.ByTeam {
			m.Mismatches.WithLabelValues(team).Add(float64(n))
		}
		for _, p := range projections {
			m.RecordProjection(p.Team, p.Projected, p.Headroom)
		}
		m.TeamsOverCap.Set(float64(overCap))
	}

	log.Info().
		Int("over_cap", overCap).
		Int("files", len(files)).
		Msg("run complete")

	return &RunResult{
		RunID:       runID,
		LeagueDate:  leagueDate,
		GamesPlayed: len(walk.Played),
		Checked:     summary.CheckedGames,
		Appended:    appended,
		Mismatches:  summary.Mismatches,
		OutOfOrder:  walk.OutOfOrder,
		Projections: projections,
		Report:      report,
		Files:       files,
	}, nil
}

type teamInput struct {
	index       int
	members     []*domain.RosterMember
	ledger      *ledger.Ledger
	pending     []domain.Date
	gamesPlayed int
	penalty     int64
	ltir        int64
	leagueDate  domain.Date
}

// processTeam appends the team's newly played games and projects its season.
// Each team's ledger is only touched by one goroutine.
func (o *Orchestrator) processTeam(ctx context.Context, in teamInput) (teamOutcome, error) {
	league := o.opts.League
	code := league.Code(in.index)

	// Today's cap goes into every new entry. Penalties and LTIR are kept apart.
	today := o.agg.Aggregate(in.members, 0, in.leagueDate)

	for _, date := range in.pending {
		entry := &domain.LedgerEntry{
			EntryID:   idhash.ComputeEntryID(code, date),
			Team:      code,
			Date:      date,
			CapHit:    today.Total,
			Penalties: in.penalty,
			LTIR:      in.ltir,
			Roster:    o.agg.Snapshot(in.members, date),
		}
		start := time.Now()
		err := in.ledger.Append(ctx, entry)
		o.recordStore("ledger", "append", start, err)
		if err != nil {
			return teamOutcome{}, err
		}
		o.log.Debug().
			Str("team", code).
			Str("date", date.String()).
			Int64("cap_hit", entry.CapHit).
			Msg("ledger entry appended")
	}

	entries, err := in.ledger.ReadAll(ctx)
	if err != nil {
		return teamOutcome{}, err
	}
	running, err := projection.RunningCap(entries, in.gamesPlayed, league.CapCeiling)
	if err != nil {
		var ie *ledger.IntegrityError
		if errors.As(err, &ie) {
			ie.Team = code
			ie.Date = in.leagueDate
			ie.File = in.ledger.File()
		}
		return teamOutcome{}, err
	}

	p := projection.Project(projection.Input{
		Team:        code,
		TeamID:      in.index + 1,
		GamesPlayed: in.gamesPlayed,
		Running:     running,
		CapHit:      today.Total,
		Penalties:   in.penalty,
		LTIR:        in.ltir,
		Contracts:   today.Contracts,
	}, league)

	final := o.agg.Aggregate(in.members, in.penalty, in.leagueDate)
	breakdown := reporting.NewBreakdown(code, o.agg.Snapshot(in.members, in.leagueDate),
		in.penalty, final.Total, final.Contracts)

	return teamOutcome{
		appended:   len(in.pending),
		projection: &p,
		breakdown:  breakdown,
	}, nil
}

func (o *Orchestrator) observe(phase string, start time.Time) {
	if o.opts.Metrics != nil {
		o.opts.Metrics.ObservePhase(phase, time.Since(start))
	}
}

func (o *Orchestrator) recordStore(store, operation string, start time.Time, err error) {
	if o.opts.Metrics != nil {
		o.opts.Metrics.RecordStoreOp(store, operation, time.Since(start), err)
	}
}
