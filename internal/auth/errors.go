// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by a UserRepository when a username, email or
// phone number is already taken.
var ErrDuplicate = errors.New("duplicate identity")

// Error codes reported to callers. Every flow failure carries exactly one of
// these; anything else is a store or internal failure.
const (
	CodeMissingField           = "AUTH_MISSING_FIELD"
	CodeInvalidField           = "AUTH_INVALID_FIELD"
	CodeWeakPassword           = "AUTH_WEAK_PASSWORD"
	CodeDuplicateIdentity      = "AUTH_DUPLICATE_IDENTITY"
	CodeInvalidCredentials     = "AUTH_INVALID_CREDENTIALS"
	CodeAccountLocked          = "AUTH_ACCOUNT_LOCKED"
	CodeRateLimited            = "AUTH_RATE_LIMITED"
	CodeInvalidSecondFactor    = "AUTH_INVALID_SECOND_FACTOR"
	CodeSecondFactorNotEnabled = "AUTH_SECOND_FACTOR_NOT_ENABLED"
	CodeInvalidOrExpiredToken  = "AUTH_INVALID_OR_EXPIRED_TOKEN"
	CodeInvalidSession         = "AUTH_INVALID_SESSION"
)

// ErrorCode returns the oops code attached to err, or "" when err carries none.
func ErrorCode(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	if code, ok := any(oopsErr.Code()).(string); ok {
		return code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}

func errInvalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf("invalid identifier or password")
}

func errInvalidSession() error {
	return oops.Code(CodeInvalidSession).Errorf("invalid session")
}

func errInvalidOrExpiredToken() error {
	return oops.Code(CodeInvalidOrExpiredToken).Errorf("reset token is invalid or expired")
}

func errMissingField(field string) error {
	return oops.Code(CodeMissingField).With("field", field).Errorf("%s is required", field)
}

func errUserNotFound(userID ulid.ULID) error {
	return oops.Code("AUTH_USER_NOT_FOUND").With("user_id", userID.String()).Errorf("user not found")
}

// errThrottled reports a locked or delayed account. retry_after is the
// remaining wait as a duration string.
func errThrottled(state FailureState) error {
	if state.IsLockedOut {
		return oops.Code(CodeAccountLocked).
			With("retry_after", state.LockoutRemaining.String()).
			Errorf("account is temporarily locked")
	}
	return oops.Code(CodeRateLimited).
		With("retry_after", state.RetryAfter.String()).
		Errorf("too many failed attempts, try again later")
}
