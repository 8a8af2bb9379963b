// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package main

import (
	"fmt"
	"io"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/moncacao/moncacao/internal/store"
	"github.com/moncacao/moncacao/pkg/errutil"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the auth database schema",
		Long:  `Apply, roll back or inspect the embedded PostgreSQL migrations.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, deps, func(m Migrator) error {
				cmd.Println("Running migrations...")
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations completed successfully")
				return nil
			})
		},
	})

	var confirmed bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Long:  `Roll back every migration. This drops all accounts, sessions and reset tickets.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return oops.Code("CLI_CONFIRMATION_REQUIRED").
					Errorf("migrate down deletes all auth data; rerun with --yes to confirm")
			}
			return withMigrator(cmd, deps, func(m Migrator) error {
				cmd.Println("Rolling back migrations...")
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Rollback completed successfully")
				return nil
			})
		},
	}
	down.Flags().BoolVar(&confirmed, "yes", false, "confirm dropping all auth data")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, deps, func(m Migrator) error {
				status, err := m.Status()
				if err != nil {
					return err
				}
				return printStatus(cmd.OutOrStdout(), status)
			})
		},
	})

	return cmd
}

func withMigrator(cmd *cobra.Command, deps *Deps, fn func(Migrator) error) error {
	cfg, logger, err := loadConfig(cmd, deps)
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	m, err := deps.MigratorFactory(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			errutil.LogError(cmd.Context(), logger, "failed to close migrator", closeErr)
		}
	}()

	return fn(m)
}

func printStatus(w io.Writer, status *store.MigrationStatus) error {
	fmt.Fprintf(w, "Schema version: %d\n", status.Version)
	if status.Dirty {
		fmt.Fprintln(w, "WARNING: schema is dirty; a migration failed part way")
	}

	sections := []struct {
		title    string
		versions []uint
	}{
		{"Applied", status.Applied},
		{"Pending", status.Pending},
	}
	for _, section := range sections {
		if len(section.versions) == 0 {
			fmt.Fprintf(w, "%s: none\n", section.title)
			continue
		}
		fmt.Fprintf(w, "%s:\n", section.title)
		for _, v := range section.versions {
			name, err := store.MigrationName(v)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	return nil
}
