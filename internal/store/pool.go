// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

// Package store connects to PostgreSQL and manages the schema.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection retry defaults.
const (
	DefaultConnectAttempts = 5
	connectBaseDelay       = 250 * time.Millisecond
	connectMaxDelay        = 5 * time.Second
)

// ConnectOptions tune Connect.
type ConnectOptions struct {
	// Attempts is the total number of connection attempts.
	// Defaults to DefaultConnectAttempts if zero or negative.
	Attempts int

	// BaseDelay is the first backoff delay, doubled on every retry.
	BaseDelay time.Duration

	Logger *slog.Logger
}

// Connect opens a pgx pool for dsn and waits until the database answers a
// ping, retrying with exponential backoff. A malformed dsn is not retried.
func Connect(ctx context.Context, dsn string, opts ConnectOptions) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, oops.Code("DB_CONFIG_INVALID").Errorf("database url is required")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").With("operation", "parse database url").Wrap(err)
	}

	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = DefaultConnectAttempts
	}
	base := opts.BaseDelay
	if base <= 0 {
		base = connectBaseDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backoff := retry.WithMaxRetries(uint64(attempts-1),
		retry.WithCappedDuration(connectMaxDelay, retry.NewExponential(base)))

	var pool *pgxpool.Pool
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		p, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			logger.WarnContext(ctx, "database connect failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			logger.WarnContext(ctx, "database ping failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("attempts", attempt).
			With("host", cfg.ConnConfig.Host).
			Wrap(err)
	}
	return pool, nil
}
