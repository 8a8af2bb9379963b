// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/moncacao/moncacao/internal/auth"
	"github.com/moncacao/moncacao/internal/auth/authtest"
)

type sweepFixture struct {
	store    *authtest.Store
	sessions *auth.SessionManager
	resets   *auth.ResetManager
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	store := authtest.NewStore()
	sessions, err := auth.NewSessionManager(store.Sessions(), time.Hour)
	require.NoError(t, err)
	resets, err := auth.NewResetManager(store.ResetTickets(), time.Hour)
	require.NoError(t, err)

	user := storedUser(t, store, "sweepy")
	ctx := context.Background()
	_, _, err = sessions.Issue(ctx, user.ID, stepStart)
	require.NoError(t, err)
	_, _, err = sessions.Issue(ctx, user.ID, stepStart.Add(2*time.Hour))
	require.NoError(t, err)
	_, _, err = resets.Issue(ctx, user.ID, stepStart)
	require.NoError(t, err)

	return &sweepFixture{store: store, sessions: sessions, resets: resets}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweeper_RunOnce(t *testing.T) {
	f := newSweepFixture(t)
	limiter := auth.NewKeyedLimiter(auth.KeyedLimiterConfig{IdleAge: time.Minute})
	limiter.Allow("alice", stepStart)

	sweeper := auth.NewSweeper(f.sessions, f.resets, time.Minute,
		auth.WithSweepClock(func() time.Time { return stepStart.Add(90 * time.Minute) }),
		auth.WithSweepLimiter(limiter),
		auth.WithSweepLogger(quietLogger()))

	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auth.SweepResult{Sessions: 1, ResetTickets: 1, LimiterKeys: 1}, result)
	assert.Equal(t, 1, f.store.SessionCount())
	assert.Zero(t, f.store.TicketCount())
	assert.Zero(t, limiter.Len())

	result, err = sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auth.SweepResult{}, result)
}

func TestSweeper_RunOnceContinuesAfterFailure(t *testing.T) {
	f := newSweepFixture(t)
	sweeper := auth.NewSweeper(f.sessions, f.resets, time.Minute,
		auth.WithSweepClock(func() time.Time { return stepStart.Add(90 * time.Minute) }),
		auth.WithSweepLogger(quietLogger()))

	f.store.FailNext(errors.New("connection reset"))
	result, err := sweeper.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Zero(t, result.Sessions)
	assert.Equal(t, int64(1), result.ResetTickets, "ticket sweep still runs")
}

func TestSweeper_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newSweepFixture(t)
	sweeper := auth.NewSweeper(f.sessions, f.resets, 10*time.Millisecond,
		auth.WithSweepClock(func() time.Time { return stepStart.Add(4 * time.Hour) }),
		auth.WithSweepLogger(quietLogger()))

	sweeper.Start(context.Background())
	require.Eventually(t, func() bool {
		return f.store.SessionCount() == 0 && f.store.TicketCount() == 0
	}, time.Second, 5*time.Millisecond)
	sweeper.Stop()
	sweeper.Stop()
}

func TestSweeper_RepeatedStartKeepsOneLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newSweepFixture(t)
	sweeper := auth.NewSweeper(f.sessions, f.resets, 10*time.Millisecond,
		auth.WithSweepClock(func() time.Time { return stepStart.Add(4 * time.Hour) }),
		auth.WithSweepLogger(quietLogger()))

	ctx := context.Background()
	sweeper.Start(ctx)
	sweeper.Start(ctx)

	stopped := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after a repeated Start")
	}

	sweeper.Start(ctx)
	sweeper.Stop()
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	sweeper := auth.NewSweeper(nil, nil, 0)
	assert.NotPanics(t, sweeper.Stop)
	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auth.SweepResult{}, result)
}
