// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/moncacao/moncacao/internal/auth"
	"github.com/moncacao/moncacao/internal/config"
	"github.com/moncacao/moncacao/internal/logging"
	"github.com/moncacao/moncacao/internal/store"
)

const serviceName = "moncacao"

// NewRootCmd creates the root command for the Mon Cacao CLI.
// If deps is nil, default implementations are used.
func NewRootCmd(deps *Deps) *cobra.Command {
	deps = deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "moncacao",
		Short: "Mon Cacao account administration",
		Long: `Administer Mon Cacao accounts: apply the auth schema, sweep expired
sessions and reset tickets, and register or recover users.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file path (default: $XDG_CONFIG_HOME/moncacao/config.yaml)")
	cmd.PersistentFlags().String("log-format", "json", "log format (json or text)")
	cmd.PersistentFlags().String("database-url", "", "PostgreSQL URL (default: $DATABASE_URL)")

	cmd.AddCommand(NewMigrateCmd(deps))
	cmd.AddCommand(NewSweepCmd(deps))
	cmd.AddCommand(NewUserCmd(deps))

	return cmd
}

// loadConfig reads the configuration for cmd and installs the default logger.
func loadConfig(cmd *cobra.Command, deps *Deps) (*config.Config, *slog.Logger, error) {
	file, _ := cmd.Flags().GetString("config") //nolint:errcheck // declared on the root command
	cfg, err := config.Load(config.LoadOptions{
		File:   file,
		Flags:  cmd.Flags(),
		Getenv: deps.Getenv,
	})
	if err != nil {
		return nil, nil, err
	}
	logger := logging.SetDefault(serviceName, version, cfg.LogFormat, cmd.ErrOrStderr())
	return cfg, logger, nil
}

// openDatabase connects to the configured database.
func openDatabase(ctx context.Context, cfg *config.Config, deps *Deps, logger *slog.Logger) (Database, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	return deps.DatabaseFactory(ctx, cfg.DatabaseURL, store.ConnectOptions{
		Attempts: cfg.DBConnectAttempts,
		Logger:   logger,
	})
}

// newService composes the auth Service over db.
func newService(cmd *cobra.Command, cfg *config.Config, deps *Deps, db Database, logger *slog.Logger) (*auth.Service, error) {
	authDeps := deps.AuthDependencies(db)
	authDeps.Policy = cfg.PasswordPolicy()
	authDeps.Limiter = auth.NewKeyedLimiter(cfg.LimiterConfig())
	authDeps.Delivery = &writerDelivery{w: cmd.OutOrStdout()}

	return auth.NewService(authDeps,
		auth.WithLogger(logger),
		auth.WithSessionTTL(cfg.SessionTTL),
		auth.WithResetTTL(cfg.ResetTTL),
		auth.WithIssuer(cfg.TOTPIssuer))
}
