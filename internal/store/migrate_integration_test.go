//go:build integration

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/moncacao/moncacao/internal/store"
)

var testConnStr string

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("moncacao_test"),
		postgres.WithUsername("moncacao"),
		postgres.WithPassword("moncacao"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		panic("failed to start postgres container: " + err.Error())
	}

	testConnStr, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		panic("failed to get connection string: " + err.Error())
	}

	code := m.Run()

	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestMigrator_FullCycle(t *testing.T) {
	migrator, err := store.NewMigrator(testConnStr)
	require.NoError(t, err)
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, migrator.Up())

	status, err := migrator.Status()
	require.NoError(t, err)
	assert.Equal(t, uint(2), status.Version)
	assert.False(t, status.Dirty)
	assert.Empty(t, status.Pending)

	// Up again is a no-op.
	require.NoError(t, migrator.Up())

	require.NoError(t, migrator.Down())
	version, _, err = migrator.Version()
	require.NoError(t, err)
	assert.Zero(t, version)

	// Leave the schema in place for the ginkgo suite.
	require.NoError(t, migrator.Up())
}

func TestConnect_Container(t *testing.T) {
	ctx := context.Background()
	pool, err := store.Connect(ctx, testConnStr, store.ConnectOptions{Attempts: 3})
	require.NoError(t, err)
	defer pool.Close()

	var one int
	require.NoError(t, pool.QueryRow(ctx, "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}
