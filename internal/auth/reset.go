// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Reset token configuration.
const (
	ResetTokenBytes  = 32        // 32 bytes = 64 hex chars
	ResetTokenExpiry = time.Hour // 1 hour expiry
)

// ResetTicket is a single-use grant to replace a user's password.
type ResetTicket struct {
	ID        ulid.ULID
	UserID    ulid.ULID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewResetTicket creates a validated ResetTicket issued at now.
func NewResetTicket(userID ulid.ULID, tokenHash string, now time.Time, ttl time.Duration) (*ResetTicket, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("RESET_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if tokenHash == "" {
		return nil, oops.Code("RESET_INVALID_HASH").Errorf("token hash cannot be empty")
	}
	if ttl <= 0 {
		return nil, oops.Code("RESET_INVALID_EXPIRY").With("ttl", ttl.String()).Errorf("ticket lifetime must be positive")
	}
	return &ResetTicket{
		ID:        ulid.Make(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// IsValidAt reports whether the ticket can still be redeemed at t.
func (r *ResetTicket) IsValidAt(t time.Time) bool {
	return t.Before(r.ExpiresAt)
}

// GenerateResetToken creates a secure random token and its hash.
func GenerateResetToken() (token, hash string, err error) {
	token, err = randomToken(ResetTokenBytes)
	if err != nil {
		return "", "", oops.Code("RESET_TOKEN_GENERATE_FAILED").Wrap(err)
	}
	return token, HashToken(token), nil
}

// ResetTicketRepository manages reset ticket persistence.
type ResetTicketRepository interface {
	// Replace stores ticket as the only outstanding ticket for its user,
	// discarding any previous one.
	Replace(ctx context.Context, ticket *ResetTicket) error

	// Consume atomically deletes the ticket with tokenHash if it has not
	// expired at now and returns its owner. Returns ErrNotFound otherwise.
	// Of several concurrent calls for the same hash at most one succeeds.
	Consume(ctx context.Context, tokenHash string, now time.Time) (ulid.ULID, error)

	// DeleteByUser removes any ticket for a user.
	DeleteByUser(ctx context.Context, userID ulid.ULID) error

	// DeleteExpired removes tickets whose expiry is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ResetDelivery hands a freshly issued reset token to whatever transport
// reaches the user. The token is only ever available here.
type ResetDelivery interface {
	DeliverReset(ctx context.Context, user *User, token string, expiresAt time.Time) error
}

// ResetDeliveryFunc adapts a plain function to ResetDelivery.
type ResetDeliveryFunc func(ctx context.Context, user *User, token string, expiresAt time.Time) error

// DeliverReset calls f.
func (f ResetDeliveryFunc) DeliverReset(ctx context.Context, user *User, token string, expiresAt time.Time) error {
	return f(ctx, user, token, expiresAt)
}

// ResetManager issues and redeems reset tickets.
type ResetManager struct {
	repo ResetTicketRepository
	ttl  time.Duration
}

// NewResetManager creates a ResetManager. A non-positive ttl falls back to
// ResetTokenExpiry.
func NewResetManager(repo ResetTicketRepository, ttl time.Duration) (*ResetManager, error) {
	if repo == nil {
		return nil, oops.Code("RESET_MANAGER_INVALID").Errorf("reset ticket repository is required")
	}
	if ttl <= 0 {
		ttl = ResetTokenExpiry
	}
	return &ResetManager{repo: repo, ttl: ttl}, nil
}

// Issue replaces any outstanding ticket for userID and returns the new token.
func (m *ResetManager) Issue(ctx context.Context, userID ulid.ULID, now time.Time) (string, *ResetTicket, error) {
	token, tokenHash, err := GenerateResetToken()
	if err != nil {
		return "", nil, err
	}
	ticket, err := NewResetTicket(userID, tokenHash, now, m.ttl)
	if err != nil {
		return "", nil, err
	}
	if err := m.repo.Replace(ctx, ticket); err != nil {
		return "", nil, oops.Code("RESET_ISSUE_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return token, ticket, nil
}

// Redeem consumes the ticket for token and returns its owner. Unknown,
// expired and already redeemed tokens all fail with AUTH_INVALID_OR_EXPIRED_TOKEN.
func (m *ResetManager) Redeem(ctx context.Context, token string, now time.Time) (ulid.ULID, error) {
	if token == "" {
		return ulid.ULID{}, errInvalidOrExpiredToken()
	}
	userID, err := m.repo.Consume(ctx, HashToken(token), now)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ulid.ULID{}, errInvalidOrExpiredToken()
		}
		return ulid.ULID{}, oops.Code("RESET_REDEEM_FAILED").Wrap(err)
	}
	return userID, nil
}

// Sweep deletes tickets that have expired at now.
func (m *ResetManager) Sweep(ctx context.Context, now time.Time) (int64, error) {
	n, err := m.repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, oops.Code("RESET_SWEEP_FAILED").Wrap(err)
	}
	return n, nil
}

// RevokeAll discards any outstanding ticket for userID.
func (m *ResetManager) RevokeAll(ctx context.Context, userID ulid.ULID) error {
	if err := m.repo.DeleteByUser(ctx, userID); err != nil {
		return oops.Code("RESET_REVOKE_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}
