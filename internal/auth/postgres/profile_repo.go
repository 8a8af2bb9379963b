// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/moncacao/moncacao/internal/auth"
)

// Starting gamification state for a new account.
const (
	InitialPoints = 0
	InitialLevel  = 1
)

// Points is a user's gamification row.
type Points struct {
	Points int
	Level  int
}

// ProfileRepository implements auth.ProfileInitializer by creating the
// user_points row.
type ProfileRepository struct {
	db DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// InitializeProfile inserts the starting points row. An existing row is kept.
func (r *ProfileRepository) InitializeProfile(ctx context.Context, userID ulid.ULID) error {
	_, err := conn(ctx, r.db).Exec(ctx, `
		INSERT INTO user_points (user_id, points, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, userID.String(), InitialPoints, InitialLevel)
	if isForeignKeyViolation(err) {
		return oops.Code("USER_NOT_FOUND").With("user_id", userID.String()).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return oops.Code("PROFILE_INIT_FAILED").
			With("operation", "insert user points").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// GetPoints returns the gamification row for userID.
func (r *ProfileRepository) GetPoints(ctx context.Context, userID ulid.ULID) (*Points, error) {
	var p Points
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT points, level FROM user_points WHERE user_id = $1`, userID.String()).
		Scan(&p.Points, &p.Level)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PROFILE_NOT_FOUND").With("user_id", userID.String()).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PROFILE_GET_FAILED").
			With("operation", "get user points").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return &p, nil
}

var _ auth.ProfileInitializer = (*ProfileRepository)(nil)
