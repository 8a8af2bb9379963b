// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moncacao/moncacao/internal/store"
	"github.com/moncacao/moncacao/pkg/errutil"
)

func TestConnect_EmptyDSN(t *testing.T) {
	pool, err := store.Connect(context.Background(), "", store.ConnectOptions{})
	assert.Nil(t, pool)
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}

func TestConnect_MalformedDSN(t *testing.T) {
	pool, err := store.Connect(context.Background(), "postgres://u:p@localhost:notaport/db", store.ConnectOptions{})
	assert.Nil(t, pool)
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}

func TestConnect_UnreachableGivesUpAfterAttempts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := store.Connect(ctx, "postgres://u:p@127.0.0.1:1/db?connect_timeout=1", store.ConnectOptions{
		Attempts:  2,
		BaseDelay: time.Millisecond,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	assert.Nil(t, pool)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
	errutil.AssertErrorContext(t, err, "attempts", 2)
	errutil.AssertErrorContext(t, err, "host", "127.0.0.1")
}
