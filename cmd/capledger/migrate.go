package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"cap-ledger/internal/storage/migrations"
	"cap-ledger/internal/storage/postgres"
)

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded Postgres and ClickHouse migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.migrate(cmd.Context())
		},
	}
}

func (a *app) migrate(ctx context.Context) error {
	cfg := a.cfg
	if cfg.Storage.PostgresDSN == "" && cfg.Storage.ClickHouseDSN == "" {
		return errors.New("nothing to migrate: set --postgres-dsn or --clickhouse-dsn")
	}

	if dsn := cfg.Storage.PostgresDSN; dsn != "" {
		pool, err := postgres.NewPool(ctx, dsn, cfg.Storage.PostgresMaxConns)
		if err != nil {
			return err
		}
		applied, err := migrations.RunPostgresMigrations(ctx, pool)
		pool.Close()
		if err != nil {
			return err
		}
		a.log.Info().Strs("files", applied).Msg("postgres migrations applied")
	}

	if dsn := cfg.Storage.ClickHouseDSN; dsn != "" {
		conn, applied, err := migrations.RunClickhouseMigrations(ctx, dsn)
		if err != nil {
			return err
		}
		conn.Close()
		a.log.Info().Strs("files", applied).Msg("clickhouse migrations applied")
	}
	return nil
}
