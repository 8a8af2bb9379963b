// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the Sweeper runs when no interval is set.
const DefaultSweepInterval = 15 * time.Minute

// SweepResult reports what a single sweep removed.
type SweepResult struct {
	Sessions     int64
	ResetTickets int64
	LimiterKeys  int
}

// Sweeper periodically removes expired sessions and reset tickets. Expired
// records are already rejected on access, so sweeping only reclaims space.
type Sweeper struct {
	sessions *SessionManager
	resets   *ResetManager
	limiter  *KeyedLimiter
	interval time.Duration
	logger   *slog.Logger
	clock    func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc // non-nil while running
	wg     sync.WaitGroup
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepLogger sets the logger. Defaults to slog.Default().
func WithSweepLogger(logger *slog.Logger) SweeperOption {
	return func(w *Sweeper) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithSweepClock sets the time source. Defaults to time.Now.
func WithSweepClock(clock func() time.Time) SweeperOption {
	return func(w *Sweeper) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// WithSweepLimiter also prunes idle keys from limiter on every sweep.
func WithSweepLimiter(limiter *KeyedLimiter) SweeperOption {
	return func(w *Sweeper) { w.limiter = limiter }
}

// NewSweeper creates a Sweeper. A non-positive interval falls back to
// DefaultSweepInterval.
func NewSweeper(sessions *SessionManager, resets *ResetManager, interval time.Duration, opts ...SweeperOption) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	w := &Sweeper{
		sessions: sessions,
		resets:   resets,
		interval: interval,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RunOnce executes a single sweep. Both deletions are attempted even if the
// first fails; errors are combined.
func (w *Sweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	now := w.clock()
	var result SweepResult
	var errs []error

	if w.sessions != nil {
		n, err := w.sessions.Sweep(ctx, now)
		if err != nil {
			w.logger.ErrorContext(ctx, "sweep expired sessions failed", "error", err)
			errs = append(errs, err)
		} else {
			result.Sessions = n
			RecordSwept(SweepKindSessions, n)
		}
	}

	if w.resets != nil {
		n, err := w.resets.Sweep(ctx, now)
		if err != nil {
			w.logger.ErrorContext(ctx, "sweep expired reset tickets failed", "error", err)
			errs = append(errs, err)
		} else {
			result.ResetTickets = n
			RecordSwept(SweepKindResetTickets, n)
		}
	}

	if w.limiter != nil {
		result.LimiterKeys = w.limiter.Prune(now)
		RecordSwept(SweepKindLimiterKeys, int64(result.LimiterKeys))
	}

	if result.Sessions > 0 || result.ResetTickets > 0 {
		w.logger.InfoContext(ctx, "swept expired auth records",
			"sessions", result.Sessions,
			"reset_tickets", result.ResetTickets)
	}

	return result, errors.Join(errs...)
}

// Start begins periodic sweeping. It runs one sweep immediately. Starting a
// running Sweeper is a no-op.
func (w *Sweeper) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop stops the sweeper and waits for completion. A stopped Sweeper may be
// started again.
func (w *Sweeper) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *Sweeper) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	//nolint:errcheck // failures are logged by RunOnce
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			//nolint:errcheck // failures are logged by RunOnce
			w.RunOnce(ctx)
		}
	}
}
