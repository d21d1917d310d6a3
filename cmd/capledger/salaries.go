package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cap-ledger/internal/contract"
	"cap-ledger/internal/orchestrator"
	"cap-ledger/internal/roster"
	"cap-ledger/internal/schedule"
)

func salariesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "salaries",
		Short: "Write the salary grid and the RFA salary estimates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.salaries(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) salaries(ctx context.Context, stdout io.Writer) error {
	cfg := a.cfg
	if cfg.Paths.Roster == "" {
		return errors.New("a roster file is required (--roster)")
	}
	league, err := cfg.LeagueRules()
	if err != nil {
		return err
	}

	members, err := roster.NewCSVProvider(cfg.Paths.Roster).Load(ctx)
	if err != nil {
		return err
	}

	leagueDate, err := schedule.ReadLeagueDate(filepath.Join(cfg.Paths.SaveDir, orchestrator.LeagueFile))
	if err != nil && cfg.Contract.RFADate == "" {
		return fmt.Errorf("rfa date needs the league date or contract.rfa_date: %w", err)
	}

	est := &contract.Estimator{
		Rater:       contract.Rater{MaxWeight: cfg.Contract.MaxWeight, MinWeight: cfg.Contract.MinWeight},
		Curve:       contract.DefaultCurve(),
		SalaryFloor: league.SalaryFloor,
		RFADate:     cfg.RFADate(leagueDate),
	}
	if cfg.Paths.Brackets != "" {
		b, err := contract.LoadBrackets(cfg.Paths.Brackets)
		if err != nil {
			return err
		}
		est.Brackets = b
	}

	out := stdout
	if path := cfg.Paths.SalaryReport; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create salary report: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := est.WriteReport(out, members); err != nil {
		return err
	}

	a.log.Info().
		Int("members", len(members)).
		Int("rfas", len(est.RFAs(members))).
		Str("rfa_date", est.RFADate.String()).
		Msg("salary report written")
	return nil
}
