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

// ResetTicketRepository implements auth.ResetTicketRepository using PostgreSQL.
type ResetTicketRepository struct {
	db DB
}

// NewResetTicketRepository creates a new ResetTicketRepository.
func NewResetTicketRepository(db DB) *ResetTicketRepository {
	return &ResetTicketRepository{db: db}
}

// Replace upserts ticket on the user_id unique key, so a user never holds
// more than one ticket.
func (r *ResetTicketRepository) Replace(ctx context.Context, ticket *auth.ResetTicket) error {
	_, err := conn(ctx, r.db).Exec(ctx, `
		INSERT INTO reset_tickets (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			id = EXCLUDED.id,
			token_hash = EXCLUDED.token_hash,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at
	`,
		ticket.ID.String(),
		ticket.UserID.String(),
		ticket.TokenHash,
		ticket.ExpiresAt,
		ticket.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return oops.Code("USER_NOT_FOUND").With("user_id", ticket.UserID.String()).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return oops.Code("RESET_TICKET_REPLACE_FAILED").
			With("operation", "upsert reset ticket").
			With("user_id", ticket.UserID.String()).
			Wrap(err)
	}
	return nil
}

// Consume deletes the unexpired ticket with tokenHash and returns its owner.
// The single DELETE ... RETURNING statement lets at most one concurrent
// caller win.
func (r *ResetTicketRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (ulid.ULID, error) {
	var userIDStr string
	err := conn(ctx, r.db).QueryRow(ctx, `
		DELETE FROM reset_tickets
		WHERE token_hash = $1 AND expires_at > $2
		RETURNING user_id
	`, tokenHash, now).Scan(&userIDStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return ulid.ULID{}, oops.Code("RESET_TICKET_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return ulid.ULID{}, oops.Code("RESET_TICKET_CONSUME_FAILED").
			With("operation", "consume reset ticket").
			Wrap(err)
	}
	return parseULID(userIDStr, "user_id")
}

// DeleteByUser removes any ticket for a user.
func (r *ResetTicketRepository) DeleteByUser(ctx context.Context, userID ulid.ULID) error {
	_, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM reset_tickets WHERE user_id = $1`, userID.String())
	if err != nil {
		return oops.Code("RESET_TICKET_DELETE_FAILED").
			With("operation", "delete reset ticket by user").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// DeleteExpired removes tickets whose expiry is at or before now.
func (r *ResetTicketRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM reset_tickets WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, oops.Code("RESET_TICKET_DELETE_EXPIRED_FAILED").
			With("operation", "delete expired reset tickets").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

var _ auth.ResetTicketRepository = (*ResetTicketRepository)(nil)
