package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cap-ledger/internal/config"
	"cap-ledger/internal/observability"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "capledger",
		Short:         "Season salary-cap ledger and projections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = observability.NewLogger(cfg.Log.Level, cfg.Log.Pretty, os.Stderr)
			return nil
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(runCmd(a))
	root.AddCommand(salariesCmd(a))
	root.AddCommand(migrateCmd(a))

	return root, a
}
