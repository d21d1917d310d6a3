package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"cap-ledger/internal/config"
	"cap-ledger/internal/observability"
	"cap-ledger/internal/orchestrator"
	"cap-ledger/internal/roster"
	"cap-ledger/internal/storage"
	chstore "cap-ledger/internal/storage/clickhouse"
	"cap-ledger/internal/storage/file"
	"cap-ledger/internal/storage/memory"
	"cap-ledger/internal/storage/postgres"
)

func runCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Append newly played games to the ledgers and write the cap reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context())
		},
	}
}

func (a *app) run(ctx context.Context) error {
	cfg := a.cfg
	if cfg.Paths.Roster == "" {
		return errors.New("a roster file is required (--roster)")
	}
	league, err := cfg.LeagueRules()
	if err != nil {
		return err
	}

	ledgers, closeLedgers, err := openLedgerStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLedgers()

	projections, closeProjections, err := openProjectionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeProjections()

	capRosterPath := cfg.Paths.SeasonStartRoster
	if capRosterPath == "" {
		capRosterPath = cfg.Paths.Roster
	}

	metrics := observability.NewRunMetrics()
	orch := orchestrator.New(orchestrator.Options{
		League:          league,
		Roster:          roster.NewCSVProvider(cfg.Paths.Roster),
		CapRoster:       roster.NewCSVProvider(capRosterPath),
		LedgerStore:     ledgers,
		ProjectionStore: projections,
		SaveDir:         cfg.Paths.SaveDir,
		CapDir:          cfg.Paths.CapDir,
		PenaltiesPath:   cfg.Paths.Penalties,
		LTIRPath:        cfg.Paths.LTIR,
		Metrics:         metrics,
		Logger:          a.log,
	})

	result, runErr := orch.Run(ctx)

	if url := cfg.Metrics.PushGatewayURL; url != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := metrics.Push(pushCtx, url, cfg.Metrics.Job); err != nil {
			a.log.Warn().Err(err).Msg("metrics push failed")
		}
		cancel()
	}

	if runErr != nil {
		return runErr
	}

	a.log.Info().
		Str("run_id", result.RunID).
		Str("date", result.LeagueDate.String()).
		Int("appended", result.Appended).
		Int("checked", result.Checked).
		Int("mismatches", result.Mismatches).
		Strs("files", result.Files).
		Msg("cap ledgers updated")
	return nil
}

// openLedgerStore returns the configured ledger backend and its cleanup.
func openLedgerStore(ctx context.Context, cfg *config.Config) (storage.LedgerStore, func(), error) {
	switch cfg.Storage.LedgerBackend {
	case config.BackendMemory:
		return memory.NewLedgerStore(), func() {}, nil
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN, cfg.Storage.PostgresMaxConns)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewLedgerStore(pool), pool.Close, nil
	default:
		store, err := file.NewLedgerStore(cfg.Paths.CapDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

// openProjectionStore returns ClickHouse history when configured, memory otherwise.
func openProjectionStore(ctx context.Context, cfg *config.Config) (storage.ProjectionStore, func(), error) {
	if cfg.Storage.ClickHouseDSN == "" {
		return memory.NewProjectionStore(), func() {}, nil
	}
	conn, err := chstore.NewConn(ctx, cfg.Storage.ClickHouseDSN)
	if err != nil {
		return nil, nil, err
	}
	return chstore.NewProjectionStore(conn), func() { conn.Close() }, nil
}
