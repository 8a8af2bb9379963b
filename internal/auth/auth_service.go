// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultTOTPIssuer labels provisioning URIs when no issuer is configured.
const DefaultTOTPIssuer = "Mon Cacao"

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Dependencies are the collaborators a Service is composed from. Users,
// Sessions, ResetTickets and Transactor are required; the rest default.
type Dependencies struct {
	Users        UserRepository
	Sessions     SessionRepository
	ResetTickets ResetTicketRepository
	Transactor   Transactor

	Hasher       PasswordHasher     // defaults to NewArgon2idHasher
	Policy       PasswordPolicy     // defaults to DefaultPasswordPolicy
	SecondFactor SecondFactor       // defaults to NewTOTPEngine
	Profiles     ProfileInitializer // optional
	Delivery     ResetDelivery      // optional; without it tokens are discarded
	Limiter      AttemptLimiter     // optional
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionTTL overrides SessionTokenExpiry.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) { s.sessionTTL = ttl }
}

// WithResetTTL overrides ResetTokenExpiry.
func WithResetTTL(ttl time.Duration) Option {
	return func(s *Service) { s.resetTTL = ttl }
}

// WithIssuer sets the issuer shown by authenticator apps.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// Service orchestrates the authentication flows.
type Service struct {
	users    UserRepository
	sessions *SessionManager
	resets   *ResetManager
	tx       Transactor
	hasher   PasswordHasher
	policy   PasswordPolicy
	totp     SecondFactor
	profiles ProfileInitializer
	delivery ResetDelivery
	limiter  AttemptLimiter

	sessionTTL time.Duration
	resetTTL   time.Duration
	issuer     string
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a Service from deps.
func NewService(deps Dependencies, opts ...Option) (*Service, error) {
	if deps.Users == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("user repository is required")
	}
	if deps.Sessions == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("session repository is required")
	}
	if deps.ResetTickets == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("reset ticket repository is required")
	}
	if deps.Transactor == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("transactor is required")
	}

	s := &Service{
		users:      deps.Users,
		tx:         deps.Transactor,
		hasher:     deps.Hasher,
		policy:     deps.Policy,
		totp:       deps.SecondFactor,
		profiles:   deps.Profiles,
		delivery:   deps.Delivery,
		limiter:    deps.Limiter,
		sessionTTL: SessionTokenExpiry,
		resetTTL:   ResetTokenExpiry,
		issuer:     DefaultTOTPIssuer,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hasher == nil {
		s.hasher = NewArgon2idHasher()
	}
	if s.policy == nil {
		s.policy = DefaultPasswordPolicy()
	}
	if s.totp == nil {
		s.totp = NewTOTPEngine()
	}

	var err error
	if s.sessions, err = NewSessionManager(deps.Sessions, s.sessionTTL); err != nil {
		return nil, err
	}
	if s.resets, err = NewResetManager(deps.ResetTickets, s.resetTTL); err != nil {
		return nil, err
	}
	return s, nil
}

// SessionManager returns the manager backing this service.
func (s *Service) SessionManager() *SessionManager { return s.sessions }

// ResetManager returns the manager backing this service.
func (s *Service) ResetManager() *ResetManager { return s.resets }

// Register creates an account after validating the input and password policy.
// The insert and profile initialization share one transaction; a colliding
// username, email or phone fails with AUTH_DUPLICATE_IDENTITY.
func (s *Service) Register(ctx context.Context, reg Registration) (profile *Profile, err error) {
	defer func() { RecordFlow(FlowRegister, err) }()

	if strings.TrimSpace(reg.Username) == "" {
		return nil, errMissingField("username")
	}
	if reg.Password == "" {
		return nil, errMissingField("password")
	}
	if strings.TrimSpace(reg.UserType) == "" {
		return nil, errMissingField("user_type")
	}
	if err := s.policy.Validate(reg.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").With("operation", "hash password").Wrap(err)
	}
	user, err := NewUser(reg, hash, s.now())
	if err != nil {
		return nil, err
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		if s.profiles == nil {
			return nil
		}
		return s.profiles.InitializeProfile(ctx, user.ID)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, oops.Code(CodeDuplicateIdentity).
				Errorf("username, email or phone is already registered")
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").With("operation", "create user").Wrap(err)
	}

	return user.Profile(), nil
}

// LoginOutcome distinguishes a completed login from one awaiting a code.
type LoginOutcome int

// Login outcomes.
const (
	LoginSucceeded LoginOutcome = iota
	LoginSecondFactorRequired
)

func (o LoginOutcome) String() string {
	switch o {
	case LoginSucceeded:
		return "succeeded"
	case LoginSecondFactorRequired:
		return "second_factor_required"
	default:
		return "unknown"
	}
}

// LoginRequest is the input to Login. SecondFactorCode may be empty.
type LoginRequest struct {
	Identifier       string
	Password         string
	SecondFactorCode string
}

// LoginResult is returned by a Login that did not fail. When Outcome is
// LoginSecondFactorRequired only UserID is set.
type LoginResult struct {
	Outcome      LoginOutcome
	UserID       ulid.ULID
	Username     string
	SessionToken string
	ExpiresAt    time.Time
	Profile      *Profile
}

// Login authenticates by username, email or phone and issues a session.
// Unknown identifiers, inactive accounts and wrong passwords all fail with
// the same AUTH_INVALID_CREDENTIALS error after the same amount of work.
// A locked or delayed account fails with AUTH_ACCOUNT_LOCKED or
// AUTH_RATE_LIMITED whether or not the password was right.
func (s *Service) Login(ctx context.Context, req LoginRequest) (result *LoginResult, err error) {
	defer func() {
		if err == nil && result != nil && result.Outcome == LoginSecondFactorRequired {
			FlowTotal.WithLabelValues(FlowLogin, OutcomeSecondFactorRequired).Inc()
			return
		}
		RecordFlow(FlowLogin, err)
	}()

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		return nil, errMissingField("identifier")
	}
	if req.Password == "" {
		return nil, errMissingField("password")
	}

	now := s.now()
	if s.limiter != nil && !s.limiter.Allow(identifier, now) {
		return nil, oops.Code(CodeRateLimited).Errorf("too many login attempts, try again later")
	}

	user, lookupErr := s.users.GetByIdentifier(ctx, identifier)
	var targetHash string
	userExists := false
	switch {
	case lookupErr == nil && user.Active:
		targetHash = user.PasswordHash
		userExists = true
	case lookupErr == nil, errors.Is(lookupErr, ErrNotFound):
		targetHash = dummyPasswordHash
	default:
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get user by identifier").
			Wrap(lookupErr)
	}

	// Always verify password (constant-time operation for timing attack prevention)
	valid, verifyErr := s.hasher.Verify(req.Password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, errInvalidCredentials()
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			With("user_id", user.ID.String()).
			Wrap(verifyErr)
	}
	if !userExists {
		return nil, errInvalidCredentials()
	}

	// Throttling is decided before the password result is looked at, so a
	// locked or delayed account answers the same for right and wrong guesses.
	if state := user.FailureState(now); state.Throttled() {
		return nil, errThrottled(state)
	}
	if !valid {
		s.recordFailure(ctx, user.ID, now)
		return nil, errInvalidCredentials()
	}

	if user.HasSecondFactor() {
		if strings.TrimSpace(req.SecondFactorCode) == "" {
			return &LoginResult{Outcome: LoginSecondFactorRequired, UserID: user.ID}, nil
		}
		if !s.totp.Verify(*user.TOTPSecret, req.SecondFactorCode, now) {
			s.recordFailure(ctx, user.ID, now)
			return nil, oops.Code(CodeInvalidSecondFactor).Errorf("invalid second factor code")
		}
	}

	success := LoginSuccess{
		At:                  now,
		PasswordHash:        user.PasswordHash,
		SecondFactorEnabled: user.TOTPEnabled,
	}
	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		if newHash, hashErr := s.hasher.Hash(req.Password); hashErr == nil {
			success.UpgradedHash = newHash
		} else {
			s.logger.WarnContext(ctx, "best-effort password rehash failed",
				"operation", "upgrade_hash",
				"user_id", user.ID.String(),
				"error", hashErr.Error())
		}
	}

	// The success stamp only applies while the verified credentials are
	// still current; a reset or second-factor change made meanwhile voids
	// this login. The session is issued under the same guard.
	var (
		token   string
		session *Session
	)
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		applied, err := s.users.RecordLoginSuccess(ctx, user.ID, success)
		if err != nil {
			return oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "record success").
				With("user_id", user.ID.String()).
				Wrap(err)
		}
		if !applied {
			return errInvalidCredentials()
		}
		token, session, err = s.sessions.Issue(ctx, user.ID, now)
		if err != nil {
			return oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "issue session").
				Wrap(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.RecordSuccess(now)
	if success.UpgradedHash != "" {
		user.PasswordHash = success.UpgradedHash
	}
	return &LoginResult{
		Outcome:      LoginSucceeded,
		UserID:       user.ID,
		Username:     user.Username,
		SessionToken: token,
		ExpiresAt:    session.ExpiresAt,
		Profile:      user.Profile(),
	}, nil
}

func (s *Service) recordFailure(ctx context.Context, userID ulid.ULID, now time.Time) {
	if _, err := s.users.RecordLoginFailure(ctx, userID, NewLoginFailure(now)); err != nil {
		s.logger.WarnContext(ctx, "best-effort failure counter update failed",
			"operation", "record_failure",
			"user_id", userID.String(),
			"error", err.Error())
	}
}

// SecondFactorEnrollment is returned when a second factor is enabled.
type SecondFactorEnrollment struct {
	Secret          string
	ProvisioningURI string
}

// EnableSecondFactor generates a new secret for userID, turns the second
// factor on and returns the secret with its provisioning URI. An existing
// secret is replaced.
func (s *Service) EnableSecondFactor(ctx context.Context, userID ulid.ULID) (enrollment *SecondFactorEnrollment, err error) {
	defer func() { RecordFlow(FlowEnableSecondFactor, err) }()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	secret, err := s.totp.GenerateSecret()
	if err != nil {
		return nil, oops.Code("AUTH_SECOND_FACTOR_FAILED").With("operation", "generate secret").Wrap(err)
	}
	uri, err := s.totp.ProvisioningURI(secret, user.Username, s.issuer)
	if err != nil {
		return nil, oops.Code("AUTH_SECOND_FACTOR_FAILED").With("operation", "provisioning uri").Wrap(err)
	}

	if err := s.users.SetSecondFactor(ctx, userID, &secret, s.now()); err != nil {
		return nil, oops.Code("AUTH_SECOND_FACTOR_FAILED").
			With("operation", "persist secret").
			With("user_id", userID.String()).
			Wrap(err)
	}

	return &SecondFactorEnrollment{Secret: secret, ProvisioningURI: uri}, nil
}

// VerifySecondFactor checks code against the stored secret for userID.
func (s *Service) VerifySecondFactor(ctx context.Context, userID ulid.ULID, code string) (err error) {
	defer func() { RecordFlow(FlowVerifySecondFactor, err) }()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.checkSecondFactor(user, code)
}

// DisableSecondFactor turns the second factor off. A valid current code is required.
func (s *Service) DisableSecondFactor(ctx context.Context, userID ulid.ULID, code string) (err error) {
	defer func() { RecordFlow(FlowDisableSecondFactor, err) }()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.checkSecondFactor(user, code); err != nil {
		return err
	}

	if err := s.users.SetSecondFactor(ctx, userID, nil, s.now()); err != nil {
		return oops.Code("AUTH_SECOND_FACTOR_FAILED").
			With("operation", "clear secret").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

func (s *Service) checkSecondFactor(user *User, code string) error {
	if !user.HasSecondFactor() {
		return oops.Code(CodeSecondFactorNotEnabled).Errorf("second factor is not enabled")
	}
	if !s.totp.Verify(*user.TOTPSecret, code, s.now()) {
		return oops.Code(CodeInvalidSecondFactor).Errorf("invalid second factor code")
	}
	return nil
}

// ForgotPassword issues a reset ticket for identifier and hands the token to
// the ResetDelivery. The result does not reveal whether identifier matched
// an account. Only store failures are returned.
func (s *Service) ForgotPassword(ctx context.Context, identifier string) (err error) {
	defer func() { RecordFlow(FlowForgotPassword, err) }()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return oops.Code("AUTH_FORGOT_PASSWORD_FAILED").
			With("operation", "get user by identifier").
			Wrap(err)
	}
	if !user.Active {
		return nil
	}

	token, ticket, err := s.resets.Issue(ctx, user.ID, s.now())
	if err != nil {
		return oops.Code("AUTH_FORGOT_PASSWORD_FAILED").
			With("operation", "issue ticket").
			Wrap(err)
	}

	if s.delivery == nil {
		return nil
	}
	if deliverErr := s.delivery.DeliverReset(ctx, user, token, ticket.ExpiresAt); deliverErr != nil {
		s.logger.ErrorContext(ctx, "reset token delivery failed",
			"operation", "deliver_reset",
			"user_id", user.ID.String(),
			"error", deliverErr.Error())
	}
	return nil
}

// ResetPassword redeems token and sets newPassword. The new password is
// checked against policy before the ticket is consumed, so a rejected
// password leaves the ticket usable. Redemption, the hash update (which also
// lifts any lockout) and the revocation of every session of the user share
// one transaction.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	defer func() { RecordFlow(FlowResetPassword, err) }()

	if strings.TrimSpace(token) == "" {
		return errInvalidOrExpiredToken()
	}
	if newPassword == "" {
		return errMissingField("password")
	}
	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_RESET_PASSWORD_FAILED").With("operation", "hash password").Wrap(err)
	}

	now := s.now()
	return s.tx.InTransaction(ctx, func(ctx context.Context) error {
		userID, err := s.resets.Redeem(ctx, token, now)
		if err != nil {
			return err
		}
		if err := s.users.UpdatePassword(ctx, userID, hash, now); err != nil {
			if errors.Is(err, ErrNotFound) {
				return errInvalidOrExpiredToken()
			}
			return oops.Code("AUTH_RESET_PASSWORD_FAILED").
				With("operation", "update password").
				With("user_id", userID.String()).
				Wrap(err)
		}
		if _, err := s.sessions.RevokeAll(ctx, userID); err != nil {
			return oops.Code("AUTH_RESET_PASSWORD_FAILED").
				With("operation", "revoke sessions").
				Wrap(err)
		}
		return nil
	})
}

// ChangePassword replaces the password of userID after checking the current
// one, then revokes every session and outstanding reset ticket.
func (s *Service) ChangePassword(ctx context.Context, userID ulid.ULID, oldPassword, newPassword string) (err error) {
	defer func() { RecordFlow(FlowChangePassword, err) }()

	if oldPassword == "" {
		return errMissingField("old_password")
	}
	if newPassword == "" {
		return errMissingField("password")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	valid, err := s.hasher.Verify(oldPassword, user.PasswordHash)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").With("operation", "verify password").Wrap(err)
	}
	if !valid {
		return errInvalidCredentials()
	}
	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").With("operation", "hash password").Wrap(err)
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.UpdatePassword(ctx, userID, hash, s.now()); err != nil {
			return err
		}
		if _, err := s.sessions.RevokeAll(ctx, userID); err != nil {
			return err
		}
		return s.resets.RevokeAll(ctx, userID)
	})
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// Logout revokes the session for token. Unknown or expired tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) (err error) {
	defer func() { RecordFlow(FlowLogout, err) }()
	return s.sessions.Revoke(ctx, token)
}

// ValidateSession returns the owner of token if its session is still valid.
func (s *Service) ValidateSession(ctx context.Context, token string) (userID ulid.ULID, err error) {
	defer func() { RecordFlow(FlowValidateSession, err) }()

	session, err := s.sessions.Validate(ctx, token, s.now())
	if err != nil {
		return ulid.ULID{}, err
	}
	return session.UserID, nil
}

// RevokeAllSessions ends every session of userID and returns how many ended.
func (s *Service) RevokeAllSessions(ctx context.Context, userID ulid.ULID) (int64, error) {
	return s.sessions.RevokeAll(ctx, userID)
}

// DeleteAccount removes userID. Its sessions and reset tickets go with it.
func (s *Service) DeleteAccount(ctx context.Context, userID ulid.ULID) (err error) {
	defer func() { RecordFlow(FlowDeleteAccount, err) }()

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errUserNotFound(userID)
		}
		return oops.Code("AUTH_DELETE_ACCOUNT_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// Profile returns the caller-facing view of userID.
func (s *Service) Profile(ctx context.Context, userID ulid.ULID) (*Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

func (s *Service) getUser(ctx context.Context, userID ulid.ULID) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errUserNotFound(userID)
		}
		return nil, oops.Code("AUTH_STORE_FAILED").
			With("operation", "get user by id").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return user, nil
}
