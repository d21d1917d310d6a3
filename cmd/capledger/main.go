// Command capledger maintains the per-team cap ledgers and writes the season
// cap projections and salary estimates.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cap-ledger/internal/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received signal %v, cancelling\n", sig)
		cancel()
	}()

	root, a := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		logger := a.log
		if a.cfg == nil {
			logger = observability.NewLogger("info", false, os.Stderr)
		}
		logger.Error().Err(err).Msg("capledger failed")
		os.Exit(1)
	}
}
