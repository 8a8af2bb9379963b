// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/moncacao/moncacao/internal/auth"
)

const userColumns = `id, username, email, phone, password_hash, user_type, region, is_active,
	totp_secret, totp_enabled, failed_attempts, last_failed_at, locked_until, last_login_at,
	created_at, updated_at`

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new user.
func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	_, err := conn(ctx, r.db).Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		user.ID.String(),
		user.Username,
		user.Email,
		user.Phone,
		user.PasswordHash,
		string(user.Type),
		user.Region,
		user.Active,
		user.TOTPSecret,
		user.TOTPEnabled,
		user.FailedAttempts,
		user.LastFailedAt,
		user.LockedUntil,
		user.LastLoginAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return oops.Code("USER_DUPLICATE").With("username", user.Username).Wrap(auth.ErrDuplicate)
	}
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.User, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.String())

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user by id").
			With("id", id.String()).
			Wrap(err)
	}
	return user, nil
}

// GetByIdentifier retrieves a user by username or email, compared
// case-insensitively, or by normalized phone number. When several users
// match, the username match wins, then the email match.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	var phone *string
	if normalized, err := auth.NormalizePhone(identifier); err == nil {
		phone = &normalized
	}

	row := conn(ctx, r.db).QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1) OR phone = $2
		ORDER BY CASE
			WHEN LOWER(username) = LOWER($1) THEN 0
			WHEN LOWER(email) = LOWER($1) THEN 1
			ELSE 2
		END
		LIMIT 1
	`, identifier, phone)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user by identifier").
			Wrap(err)
	}
	return user, nil
}

// Update writes the profile columns of an existing user. Credentials and
// login bookkeeping have dedicated statements.
func (r *UserRepository) Update(ctx context.Context, user *auth.User) error {
	result, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE users SET
			username = $2, email = $3, phone = $4, user_type = $5,
			region = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`,
		user.ID.String(),
		user.Username,
		user.Email,
		user.Phone,
		string(user.Type),
		user.Region,
		user.Active,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return oops.Code("USER_DUPLICATE").With("id", user.ID.String()).Wrap(auth.ErrDuplicate)
	}
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user").
			With("id", user.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("id", user.ID.String()).Wrap(auth.ErrNotFound)
	}
	return nil
}

// RecordLoginFailure increments the failure counter in place and locks the
// account once the incremented count reaches failure.LockAfter.
func (r *UserRepository) RecordLoginFailure(ctx context.Context, id ulid.ULID, failure auth.LoginFailure) (*auth.FailureCounters, error) {
	var counters auth.FailureCounters
	err := conn(ctx, r.db).QueryRow(ctx, `
		UPDATE users SET
			failed_attempts = failed_attempts + 1,
			last_failed_at = $2,
			locked_until = CASE WHEN failed_attempts + 1 >= $3 THEN $4 ELSE locked_until END,
			updated_at = $2
		WHERE id = $1
		RETURNING failed_attempts, last_failed_at, locked_until
	`, id.String(), failure.At, failure.LockAfter, failure.LockUntil).
		Scan(&counters.FailedAttempts, &counters.LastFailedAt, &counters.LockedUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_RECORD_FAILURE_FAILED").
			With("operation", "record login failure").
			With("id", id.String()).
			Wrap(err)
	}
	return &counters, nil
}

// RecordLoginSuccess clears the failure bookkeeping and stamps the login,
// replacing the hash when success.UpgradedHash is set. It applies only while
// the stored hash and second-factor flag still match success, and reports
// whether it did.
func (r *UserRepository) RecordLoginSuccess(ctx context.Context, id ulid.ULID, success auth.LoginSuccess) (bool, error) {
	result, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE users SET
			failed_attempts = 0, last_failed_at = NULL, locked_until = NULL,
			last_login_at = $2, updated_at = $2,
			password_hash = COALESCE(NULLIF($5::text, ''), password_hash)
		WHERE id = $1 AND password_hash = $3 AND totp_enabled = $4
	`, id.String(), success.At, success.PasswordHash, success.SecondFactorEnabled, success.UpgradedHash)
	if err != nil {
		return false, oops.Code("USER_RECORD_SUCCESS_FAILED").
			With("operation", "record login success").
			With("id", id.String()).
			Wrap(err)
	}
	return result.RowsAffected() == 1, nil
}

// SetSecondFactor stores secret and enables the second factor, or clears
// both when secret is nil.
func (r *UserRepository) SetSecondFactor(ctx context.Context, id ulid.ULID, secret *string, at time.Time) error {
	result, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE users SET totp_secret = $2, totp_enabled = $3, updated_at = $4 WHERE id = $1
	`, id.String(), secret, secret != nil, at)
	if err != nil {
		return oops.Code("USER_SET_SECOND_FACTOR_FAILED").
			With("operation", "set second factor").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	return nil
}

// UpdatePassword replaces the password hash and lifts any lockout.
func (r *UserRepository) UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string, at time.Time) error {
	result, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE users SET
			password_hash = $2,
			failed_attempts = 0, last_failed_at = NULL, locked_until = NULL,
			updated_at = $3
		WHERE id = $1
	`, id.String(), passwordHash, at)
	if err != nil {
		return oops.Code("USER_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	return nil
}

// Delete removes a user. Sessions, reset tickets and points cascade.
func (r *UserRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("USER_DELETE_FAILED").
			With("operation", "delete user").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var (
		user     auth.User
		idStr    string
		userType string
	)
	err := row.Scan(
		&idStr,
		&user.Username,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&userType,
		&user.Region,
		&user.Active,
		&user.TOTPSecret,
		&user.TOTPEnabled,
		&user.FailedAttempts,
		&user.LastFailedAt,
		&user.LockedUntil,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if user.ID, err = parseULID(idStr, "user_id"); err != nil {
		return nil, err
	}
	user.Type = auth.UserType(userType)
	return &user, nil
}

var _ auth.UserRepository = (*UserRepository)(nil)
