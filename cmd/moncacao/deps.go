// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package main

import (
	"context"
	"io"
	"os"

	"github.com/moncacao/moncacao/internal/auth"
	"github.com/moncacao/moncacao/internal/auth/postgres"
	"github.com/moncacao/moncacao/internal/observability"
	"github.com/moncacao/moncacao/internal/store"
)

// Deps contains injectable dependencies for every command.
// All fields with nil values will use their default implementations.
type Deps struct {
	// DatabaseFactory opens the database pool.
	// Default: store.Connect
	DatabaseFactory func(ctx context.Context, url string, opts store.ConnectOptions) (Database, error)

	// MigratorFactory creates a schema migrator.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (Migrator, error)

	// AuthDependencies builds the credential store from the database.
	// Default: postgres.Dependencies
	AuthDependencies func(db postgres.DB) auth.Dependencies

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(cfg observability.Config) ObservabilityServer

	// PasswordReader reads a password without echo.
	// Default: readTerminalPassword
	PasswordReader func(prompt string, out io.Writer) (string, error)

	// Getenv looks up environment variables.
	// Default: os.Getenv
	Getenv func(string) string
}

// Database wraps the methods used from *pgxpool.Pool.
type Database interface {
	postgres.DB
	Ping(ctx context.Context) error
	Close()
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Status() (*store.MigrationStatus, error)
	Close() error
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

func (d *Deps) withDefaults() *Deps {
	out := &Deps{}
	if d != nil {
		*out = *d
	}
	if out.DatabaseFactory == nil {
		out.DatabaseFactory = func(ctx context.Context, url string, opts store.ConnectOptions) (Database, error) {
			pool, err := store.Connect(ctx, url, opts)
			if err != nil {
				return nil, err
			}
			return pool, nil
		}
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = func(url string) (Migrator, error) {
			m, err := store.NewMigrator(url)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	if out.AuthDependencies == nil {
		out.AuthDependencies = postgres.Dependencies
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(cfg observability.Config) ObservabilityServer {
			return observability.NewServer(cfg)
		}
	}
	if out.PasswordReader == nil {
		out.PasswordReader = readTerminalPassword
	}
	if out.Getenv == nil {
		out.Getenv = os.Getenv
	}
	return out
}
