// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session token configuration.
const (
	SessionTokenBytes  = 32             // 32 bytes = 64 hex chars
	SessionTokenExpiry = 24 * time.Hour // fixed lifetime, no sliding renewal
)

// Session represents one authenticated login.
type Session struct {
	ID        ulid.ULID
	UserID    ulid.ULID
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSession creates a validated Session issued at now.
func NewSession(userID ulid.ULID, tokenHash string, now time.Time, ttl time.Duration) (*Session, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}
	if ttl <= 0 {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").With("ttl", ttl.String()).Errorf("session lifetime must be positive")
	}
	return &Session{
		ID:        ulid.Make(),
		UserID:    userID,
		TokenHash: tokenHash,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsValidAt reports whether the session is still usable at t.
// A session expires at the instant ExpiresAt is reached.
func (s *Session) IsValidAt(t time.Time) bool {
	return t.Before(s.ExpiresAt)
}

// GenerateSessionToken creates a secure random token and its hash.
// Returns (plaintext_token, sha256_hash, error).
// The plaintext token is returned to the client; only the hash is stored.
func GenerateSessionToken() (token, hash string, err error) {
	token, err = randomToken(SessionTokenBytes)
	if err != nil {
		return "", "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}
	return token, HashToken(token), nil
}

// HashToken computes the hex SHA-256 hash under which a session or reset
// token is stored.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err //nolint:wrapcheck // callers attach the code
	}
	return hex.EncodeToString(b), nil
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// GetByTokenHash retrieves a session by its token hash.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// DeleteByTokenHash removes a session. Deleting a missing session is not an error.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteByUser removes all sessions for a user and returns the count.
	DeleteByUser(ctx context.Context, userID ulid.ULID) (int64, error)

	// DeleteExpired removes sessions whose expiry is at or before now and
	// returns the count of deleted records.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionManager issues, validates and revokes session tokens.
type SessionManager struct {
	repo SessionRepository
	ttl  time.Duration
}

// NewSessionManager creates a SessionManager. A non-positive ttl falls back
// to SessionTokenExpiry.
func NewSessionManager(repo SessionRepository, ttl time.Duration) (*SessionManager, error) {
	if repo == nil {
		return nil, oops.Code("SESSION_MANAGER_INVALID").Errorf("session repository is required")
	}
	if ttl <= 0 {
		ttl = SessionTokenExpiry
	}
	return &SessionManager{repo: repo, ttl: ttl}, nil
}

// TTL returns the lifetime of newly issued sessions.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a session for userID valid from now and returns the plaintext token.
func (m *SessionManager) Issue(ctx context.Context, userID ulid.ULID, now time.Time) (string, *Session, error) {
	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return "", nil, err
	}
	session, err := NewSession(userID, tokenHash, now, m.ttl)
	if err != nil {
		return "", nil, err
	}
	if err := m.repo.Create(ctx, session); err != nil {
		return "", nil, oops.Code("SESSION_CREATE_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return token, session, nil
}

// Validate returns the owner of token if the session exists and has not
// expired at now. It never extends the session.
func (m *SessionManager) Validate(ctx context.Context, token string, now time.Time) (*Session, error) {
	if token == "" {
		return nil, errInvalidSession()
	}
	session, err := m.repo.GetByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errInvalidSession()
		}
		return nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}
	if !session.IsValidAt(now) {
		return nil, errInvalidSession()
	}
	return session, nil
}

// Revoke removes the session for token, expired or not. Unknown tokens are a no-op.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.repo.DeleteByTokenHash(ctx, HashToken(token)); err != nil && !errors.Is(err, ErrNotFound) {
		return oops.Code("SESSION_REVOKE_FAILED").Wrap(err)
	}
	return nil
}

// RevokeAll removes every session owned by userID.
func (m *SessionManager) RevokeAll(ctx context.Context, userID ulid.ULID) (int64, error) {
	n, err := m.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, oops.Code("SESSION_REVOKE_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return n, nil
}

// Sweep deletes sessions that have expired at now.
func (m *SessionManager) Sweep(ctx context.Context, now time.Time) (int64, error) {
	n, err := m.repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, oops.Code("SESSION_SWEEP_FAILED").Wrap(err)
	}
	return n, nil
}
