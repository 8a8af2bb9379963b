// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/moncacao/moncacao/internal/auth"
	"github.com/moncacao/moncacao/internal/observability"
	"github.com/moncacao/moncacao/pkg/errutil"
)

// Default values for sweep command flags.
const (
	defaultMetricsAddr = "127.0.0.1:9100"
	shutdownTimeout    = 5 * time.Second
)

// NewSweepCmd creates the sweep subcommand.
func NewSweepCmd(deps *Deps) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired sessions and reset tickets",
		Long: `Periodically delete expired sessions and reset tickets until interrupted.
Metrics and health probes are served on --metrics-addr (empty to disable).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, deps, once)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single sweep and exit")
	cmd.Flags().String("metrics-addr", defaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().Duration("sweep-interval", auth.DefaultSweepInterval, "time between sweeps")

	return cmd
}

func runSweep(cmd *cobra.Command, deps *Deps, once bool) error {
	cfg, logger, err := loadConfig(cmd, deps)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg, deps, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	authDeps := deps.AuthDependencies(db)
	sessions, err := auth.NewSessionManager(authDeps.Sessions, cfg.SessionTTL)
	if err != nil {
		return err
	}
	resets, err := auth.NewResetManager(authDeps.ResetTickets, cfg.ResetTTL)
	if err != nil {
		return err
	}
	sweeper := auth.NewSweeper(sessions, resets, cfg.SweepInterval, auth.WithSweepLogger(logger))

	if once {
		result, err := sweeper.RunOnce(ctx)
		if err != nil {
			return oops.Code("SWEEP_FAILED").Wrap(err)
		}
		cmd.Printf("Removed %d expired sessions and %d expired reset tickets\n",
			result.Sessions, result.ResetTickets)
		return nil
	}

	var serverErrs <-chan error
	if cfg.MetricsAddr != "" {
		server := deps.ObservabilityServerFactory(observability.Config{
			Addr:       cfg.MetricsAddr,
			Ready:      pingReadiness(db),
			Registrars: []observability.Registrar{auth.RegisterMetrics},
			Logger:     logger,
		})
		if serverErrs, err = server.Start(); err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").With("addr", cfg.MetricsAddr).Wrap(err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if stopErr := server.Stop(shutdownCtx); stopErr != nil {
				errutil.LogError(shutdownCtx, logger, "failed to stop observability server", stopErr)
			}
		}()
	}

	sweeper.Start(ctx)
	defer sweeper.Stop()
	logger.InfoContext(ctx, "sweeper started",
		"interval", cfg.SweepInterval.String(),
		"metrics_addr", cfg.MetricsAddr)

	select {
	case <-ctx.Done():
		logger.InfoContext(ctx, "shutting down sweeper")
		return nil
	case serveErr, ok := <-serverErrs:
		if !ok {
			return nil
		}
		return oops.Code("OBSERVABILITY_FAILED").Wrap(serveErr)
	}
}

func pingReadiness(db Database) observability.ReadinessChecker {
	return func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			return oops.Code("DB_PING_FAILED").Wrap(err)
		}
		return nil
	}
}
