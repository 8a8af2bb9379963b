// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// UserType tags what kind of platform user an account belongs to.
type UserType string

// Supported user types.
const (
	UserTypeProducer     UserType = "producer"
	UserTypeProfessional UserType = "professional"
)

// ParseUserType accepts the canonical names and the legacy French spellings.
func ParseUserType(s string) (UserType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", oops.Code(CodeMissingField).With("field", "user_type").Errorf("user type is required")
	case "producer", "producteur":
		return UserTypeProducer, nil
	case "professional", "professionnel":
		return UserTypeProfessional, nil
	default:
		return "", oops.Code(CodeInvalidField).
			With("field", "user_type").
			With("value", s).
			Errorf("user type must be producer or professional")
	}
}

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Phone numbers hold between MinPhoneDigits and MaxPhoneDigits digits.
const (
	MinPhoneDigits = 6
	MaxPhoneDigits = 20
)

var (
	// usernameRegex requires a leading letter followed by letters, digits, '_', '.' or '-'.
	usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.-]*$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// User represents a platform account.
type User struct {
	ID             ulid.ULID
	Username       string
	Email          *string
	Phone          *string
	PasswordHash   string
	Type           UserType
	Region         string
	Active         bool
	TOTPSecret     *string // non-nil iff TOTPEnabled
	TOTPEnabled    bool
	FailedAttempts int
	LastFailedAt   *time.Time
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Registration holds the caller-supplied fields for a new account.
type Registration struct {
	Username string
	Password string
	UserType string
	Email    string
	Phone    string
	Region   string
}

// Profile is the minimal user view returned to callers.
type Profile struct {
	ID                  ulid.ULID
	Username            string
	Email               *string
	Phone               *string
	Type                UserType
	Region              string
	SecondFactorEnabled bool
}

// NewUser creates a validated, active User. The password itself must already
// have passed the PasswordPolicy; only its hash is kept.
func NewUser(reg Registration, passwordHash string, now time.Time) (*User, error) {
	username := strings.TrimSpace(reg.Username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	userType, err := ParseUserType(reg.UserType)
	if err != nil {
		return nil, err
	}

	var email *string
	if e := strings.TrimSpace(reg.Email); e != "" {
		if err := ValidateEmail(e); err != nil {
			return nil, err
		}
		email = &e
	}

	var phone *string
	if p := strings.TrimSpace(reg.Phone); p != "" {
		normalized, err := NormalizePhone(p)
		if err != nil {
			return nil, err
		}
		phone = &normalized
	}

	return &User{
		ID:           ulid.Make(),
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Type:         userType,
		Region:       strings.TrimSpace(reg.Region),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidateUsername validates a username against rules.
// Username requirements:
// - Length: MinUsernameLength to MaxUsernameLength characters
// - Must start with a letter
// - Can contain only letters, numbers, '_', '.' and '-'
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code(CodeMissingField).With("field", "username").Errorf("username is required")
	}
	if len(username) < MinUsernameLength {
		return oops.Code(CodeInvalidField).
			With("field", "username").
			With("min", MinUsernameLength).
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code(CodeInvalidField).
			With("field", "username").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code(CodeInvalidField).
			With("field", "username").
			Errorf("username must start with a letter and contain only letters, numbers, '_', '.' or '-'")
	}
	return nil
}

// ValidateEmail checks the address shape only; deliverability is not tested.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return oops.Code(CodeInvalidField).With("field", "email").Errorf("invalid email format")
	}
	return nil
}

// NormalizePhone strips spaces, dots, dashes and parentheses and checks that
// what remains is an optional leading '+' followed by digits.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", oops.Code(CodeInvalidField).With("field", "phone").Errorf("phone number may only contain digits")
		}
	}
	normalized := b.String()
	digits := len(strings.TrimPrefix(normalized, "+"))
	if digits < MinPhoneDigits || digits > MaxPhoneDigits {
		return "", oops.Code(CodeInvalidField).
			With("field", "phone").
			Errorf("phone number must have between %d and %d digits", MinPhoneDigits, MaxPhoneDigits)
	}
	return normalized, nil
}

// FailureState returns the login throttling state of the user at now.
func (u *User) FailureState(now time.Time) FailureState {
	return CheckFailures(u.FailedAttempts, u.LastFailedAt, u.LockedUntil, now)
}

// RecordFailure counts one more failed attempt at f.At and locks the account
// once the count reaches f.LockAfter.
func (u *User) RecordFailure(f LoginFailure) FailureCounters {
	u.FailedAttempts++
	at := f.At
	u.LastFailedAt = &at
	if u.FailedAttempts >= f.LockAfter {
		until := f.LockUntil
		u.LockedUntil = &until
	}
	u.UpdatedAt = f.At
	return FailureCounters{
		FailedAttempts: u.FailedAttempts,
		LastFailedAt:   u.LastFailedAt,
		LockedUntil:    u.LockedUntil,
	}
}

// ClearFailures resets the failure counter and any lockout.
func (u *User) ClearFailures(now time.Time) {
	u.FailedAttempts = 0
	u.LastFailedAt = nil
	u.LockedUntil = nil
	u.UpdatedAt = now
}

// RecordSuccess clears the failure bookkeeping and stamps the login time.
func (u *User) RecordSuccess(now time.Time) {
	u.ClearFailures(now)
	u.LastLoginAt = &now
}

// EnableSecondFactor stores the TOTP secret and turns the second factor on.
func (u *User) EnableSecondFactor(secret string, now time.Time) {
	u.TOTPSecret = &secret
	u.TOTPEnabled = true
	u.UpdatedAt = now
}

// DisableSecondFactor clears the TOTP secret and turns the second factor off.
func (u *User) DisableSecondFactor(now time.Time) {
	u.TOTPSecret = nil
	u.TOTPEnabled = false
	u.UpdatedAt = now
}

// HasSecondFactor reports whether logins must present a TOTP code.
func (u *User) HasSecondFactor() bool {
	return u.TOTPEnabled && u.TOTPSecret != nil && *u.TOTPSecret != ""
}

// Profile returns the caller-facing view of the user.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		Phone:               u.Phone,
		Type:                u.Type,
		Region:              u.Region,
		SecondFactorEnabled: u.HasSecondFactor(),
	}
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns an error wrapping ErrDuplicate when
	// the username, email or phone is already taken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByIdentifier retrieves a user by username or email (case-insensitive)
	// or phone. A username match wins over an email match, which wins over a
	// phone match.
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)

	// Update overwrites the profile fields of an existing user: username,
	// email, phone, type, region and the active flag. Credentials and login
	// bookkeeping change only through the narrower methods below.
	Update(ctx context.Context, user *User) error

	// RecordLoginFailure atomically counts one failed attempt, locking the
	// account as described by failure, and returns the resulting counters.
	RecordLoginFailure(ctx context.Context, id ulid.ULID, failure LoginFailure) (*FailureCounters, error)

	// RecordLoginSuccess clears the failure bookkeeping, stamps the login
	// time and applies any hash upgrade, but only while the stored
	// credentials still match success. It reports whether the update applied.
	RecordLoginSuccess(ctx context.Context, id ulid.ULID, success LoginSuccess) (bool, error)

	// SetSecondFactor stores secret and enables the second factor, or clears
	// both when secret is nil.
	SetSecondFactor(ctx context.Context, id ulid.ULID, secret *string, at time.Time) error

	// UpdatePassword replaces the password hash and clears the failure
	// counter and any lockout.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string, at time.Time) error

	// Delete removes a user together with its sessions and reset tickets.
	Delete(ctx context.Context, id ulid.ULID) error
}

// ProfileInitializer prepares auxiliary per-user state, such as the
// gamification points row, when an account is registered. It runs inside the
// registration transaction.
type ProfileInitializer interface {
	InitializeProfile(ctx context.Context, userID ulid.ULID) error
}

// Transactor runs fn inside a single store transaction. Repository calls made
// with the context passed to fn take part in that transaction.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
