// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"time"
)

// Lockout configuration.
const (
	// LockoutDuration is the time an account is locked after too many failures.
	LockoutDuration = 15 * time.Minute

	// LockoutThreshold is the number of consecutive failures that triggers a lockout.
	LockoutThreshold = 7

	// MaxFailureDelay caps the progressive delay between failed attempts.
	MaxFailureDelay = 32 * time.Second
)

// FailureState describes how the next login attempt for an account is throttled.
type FailureState struct {
	// Delay is the minimum spacing after the last failure: 2^(failures-1)
	// seconds, capped at MaxFailureDelay.
	Delay time.Duration

	// RetryAfter is how long the caller must still wait. Zero when an
	// attempt is allowed now.
	RetryAfter time.Duration

	// IsLockedOut indicates the account is temporarily locked.
	IsLockedOut bool

	// LockoutRemaining is the time until the lockout expires.
	LockoutRemaining time.Duration
}

// Throttled reports whether an attempt at the evaluated time must be refused.
func (s FailureState) Throttled() bool {
	return s.IsLockedOut || s.RetryAfter > 0
}

// CheckFailures evaluates the throttling state for an account at now.
// lastFailedAt and lockedUntil may be nil.
func CheckFailures(failures int, lastFailedAt, lockedUntil *time.Time, now time.Time) FailureState {
	state := FailureState{}

	if IsLockedOut(lockedUntil, now) {
		state.IsLockedOut = true
		state.LockoutRemaining = lockedUntil.Sub(now)
		return state
	}

	if failures <= 0 {
		return state
	}
	// Shift capped so large counters cannot overflow.
	shift := min(failures-1, 10)
	state.Delay = min(time.Duration(1<<shift)*time.Second, MaxFailureDelay)
	if lastFailedAt != nil {
		if wait := lastFailedAt.Add(state.Delay).Sub(now); wait > 0 {
			state.RetryAfter = wait
		}
	}
	return state
}

// IsLockedOut returns true if the lockout time is after now.
func IsLockedOut(lockedUntil *time.Time, now time.Time) bool {
	return lockedUntil != nil && lockedUntil.After(now)
}

// LoginFailure is one failed attempt to record against an account.
// The account locks until LockUntil once its failure count reaches LockAfter.
type LoginFailure struct {
	At        time.Time
	LockAfter int
	LockUntil time.Time
}

// NewLoginFailure returns the failure to record for an attempt at now under
// the default lockout policy.
func NewLoginFailure(now time.Time) LoginFailure {
	return LoginFailure{
		At:        now,
		LockAfter: LockoutThreshold,
		LockUntil: now.Add(LockoutDuration),
	}
}

// FailureCounters are an account's failure bookkeeping after an update.
type FailureCounters struct {
	FailedAttempts int
	LastFailedAt   *time.Time
	LockedUntil    *time.Time
}

// LoginSuccess is a completed login to record against an account. It
// applies only while the stored password hash is still PasswordHash and the
// second-factor flag is still SecondFactorEnabled, so a login verified
// against credentials that changed meanwhile is rejected.
type LoginSuccess struct {
	At                  time.Time
	PasswordHash        string
	SecondFactorEnabled bool

	// UpgradedHash, when not empty, replaces PasswordHash.
	UpgradedHash string
}
