// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/moncacao/moncacao/internal/auth"
	"github.com/moncacao/moncacao/internal/auth/authtest"
	"github.com/moncacao/moncacao/pkg/errutil"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type resetInbox struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (i *resetInbox) DeliverReset(_ context.Context, user *auth.User, token string, _ time.Time) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.tokens[user.Username] = token
	return nil
}

func (i *resetInbox) Token(username string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.tokens[username]
}

type harness struct {
	svc   *auth.Service
	store *authtest.Store
	clock *fakeClock
	inbox *resetInbox
	totp  *auth.TOTPEngine
}

// fastHasher keeps argon2id but with test-sized memory.
func fastHasher() *auth.Argon2idHasher {
	return auth.NewArgon2idHasherWithParams(auth.Argon2Params{Time: 1, Memory: 1024, Threads: 1, SaltLen: 16, KeyLen: 32})
}

func newHarness(t *testing.T, customize ...func(*auth.Dependencies)) *harness {
	t.Helper()
	h := &harness{
		store: authtest.NewStore(),
		clock: &fakeClock{now: stepStart},
		inbox: &resetInbox{tokens: make(map[string]string)},
		totp:  auth.NewTOTPEngine(),
	}
	deps := h.store.Dependencies()
	deps.Hasher = fastHasher()
	deps.SecondFactor = h.totp
	deps.Delivery = h.inbox
	for _, c := range customize {
		c(&deps)
	}

	svc, err := auth.NewService(deps,
		auth.WithClock(h.clock.Now),
		auth.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	h.svc = svc
	return h
}

func (h *harness) register(t *testing.T, username, email, password string) *auth.Profile {
	t.Helper()
	profile, err := h.svc.Register(context.Background(), auth.Registration{
		Username: username,
		Password: password,
		UserType: "producer",
		Email:    email,
	})
	require.NoError(t, err)
	return profile
}

func (h *harness) login(identifier, password, code string) (*auth.LoginResult, error) {
	return h.svc.Login(context.Background(), auth.LoginRequest{
		Identifier:       identifier,
		Password:         password,
		SecondFactorCode: code,
	})
}

func TestNewService_RequiredDependencies(t *testing.T) {
	store := authtest.NewStore()
	full := store.Dependencies()

	tests := []struct {
		name  string
		strip func(*auth.Dependencies)
	}{
		{"users", func(d *auth.Dependencies) { d.Users = nil }},
		{"sessions", func(d *auth.Dependencies) { d.Sessions = nil }},
		{"reset tickets", func(d *auth.Dependencies) { d.ResetTickets = nil }},
		{"transactor", func(d *auth.Dependencies) { d.Transactor = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := full
			tt.strip(&deps)
			_, err := auth.NewService(deps)
			errutil.AssertErrorCode(t, err, "AUTH_SERVICE_INVALID")
		})
	}

	svc, err := auth.NewService(full, auth.WithSessionTTL(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.SessionManager().TTL())
}

func TestScenario_DuplicateEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	alice := h.register(t, "alice", "alice@x.com", "GoodPass1!")
	assert.True(t, h.store.HasProfile(alice.ID), "gamification profile initialized")

	_, err := h.svc.Register(ctx, auth.Registration{
		Username: "alice2",
		Password: "GoodPass1!",
		UserType: "producer",
		Email:    "alice@x.com",
	})
	errutil.AssertErrorCode(t, err, auth.CodeDuplicateIdentity)

	_, err = h.svc.Register(ctx, auth.Registration{Username: "ALICE", Password: "GoodPass1!", UserType: "producer"})
	errutil.AssertErrorCode(t, err, auth.CodeDuplicateIdentity)
}

func TestScenario_LoginAndValidateSession(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice", "alice@x.com", "GoodPass1!")

	result, err := h.login("alice@x.com", "GoodPass1!", "")
	require.NoError(t, err)
	assert.Equal(t, auth.LoginSucceeded, result.Outcome)
	assert.Equal(t, alice.ID, result.UserID)
	assert.Equal(t, "alice", result.Username)
	assert.NotEmpty(t, result.SessionToken)
	assert.Equal(t, stepStart.Add(auth.SessionTokenExpiry), result.ExpiresAt)
	require.NotNil(t, result.Profile)
	assert.Equal(t, alice.Email, result.Profile.Email)

	userID, err := h.svc.ValidateSession(context.Background(), result.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, userID)

	h.clock.Advance(auth.SessionTokenExpiry)
	_, err = h.svc.ValidateSession(context.Background(), result.SessionToken)
	errutil.AssertErrorCode(t, err, auth.CodeInvalidSession)
}

func TestScenario_SecondFactorLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice", "alice@x.com", "GoodPass1!")

	enrollment, err := h.svc.EnableSecondFactor(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)
	assert.Contains(t, enrollment.ProvisioningURI, "otpauth://totp/")

	result, err := h.login("alice@x.com", "GoodPass1!", "")
	require.NoError(t, err)
	assert.Equal(t, auth.LoginSecondFactorRequired, result.Outcome)
	assert.Equal(t, alice.ID, result.UserID)
	assert.Empty(t, result.SessionToken)
	assert.Zero(t, h.store.SessionCount())

	code, err := h.totp.CodeAt(enrollment.Secret, h.clock.Now())
	require.NoError(t, err)
	result, err = h.login("alice@x.com", "GoodPass1!", code)
	require.NoError(t, err)
	assert.Equal(t, auth.LoginSucceeded, result.Outcome)
	assert.NotEmpty(t, result.SessionToken)
	assert.True(t, result.Profile.SecondFactorEnabled)
}

func TestScenario_ResetInvalidatesSessions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice", "alice@x.com", "GoodPass1!")

	first, err := h.login("alice", "GoodPass1!", "")
	require.NoError(t, err)
	second, err := h.login("alice@x.com", "GoodPass1!", "")
	require.NoError(t, err)

	require.NoError(t, h.svc.ForgotPassword(ctx, "alice@x.com"))
	token := h.inbox.Token("alice")
	require.NotEmpty(t, token)

	require.NoError(t, h.svc.ResetPassword(ctx, token, "NewPass1!"))

	for _, session := range []string{first.SessionToken, second.SessionToken} {
		_, err := h.svc.ValidateSession(ctx, session)
		errutil.AssertErrorCode(t, err, auth.CodeInvalidSession)
	}

	err = h.svc.ResetPassword(ctx, token, "Another1!")
	errutil.AssertErrorCode(t, err, auth.CodeInvalidOrExpiredToken)

	_, err = h.login("alice", "GoodPass1!", "")
	errutil.AssertErrorCode(t, err, auth.CodeInvalidCredentials)
	h.clock.Advance(time.Second)
	result, err := h.login("alice", "NewPass1!", "")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, result.UserID)
}

func TestRegister_ConcurrentCollision(t *testing.T) {
	h := newHarness(t)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = h.svc.Register(context.Background(), auth.Registration{
				Username: "user" + string(rune('a'+i)),
				Password: "GoodPass1!",
				UserType: "producer",
				Email:    "same@x.com",
			})
		}()
	}
	wg.Wait()

	successes, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case auth.IsCode(err, auth.CodeDuplicateIdentity):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name string
		reg  auth.Registration
		code string
	}{
		{"missing username", auth.Registration{Password: "GoodPass1!", UserType: "producer"}, auth.CodeMissingField},
		{"missing password", auth.Registration{Username: "alice", UserType: "producer"}, auth.CodeMissingField},
		{"missing user type", auth.Registration{Username: "alice", Password: "GoodPass1!"}, auth.CodeMissingField},
		{"weak password", auth.Registration{Username: "alice", Password: "short", UserType: "producer"}, auth.CodeWeakPassword},
		{"bad email", auth.Registration{Username: "alice", Password: "GoodPass1!", UserType: "producer", Email: "nope"}, auth.CodeInvalidField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Register(ctx, tt.reg)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

type failingProfiles struct{}

func (failingProfiles) InitializeProfile(context.Context, ulid.ULID) error {
	return errors.New("points table unavailable")
}

func TestRegister_ProfileFailureRollsBack(t *testing.T) {
	h := newHarness(t, func(d *auth.Dependencies) { d.Profiles = failingProfiles{} })

	_, err := h.svc.Register(context.Background(), auth.Registration{
		Username: "alice", Password: "GoodPass1!", UserType: "producer",
	})
	errutil.AssertErrorCode(t, err, "AUTH_REGISTER_FAILED")

	_, err = h.store.Users().GetByIdentifier(context.Background(), "alice")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestLogin_UniformCredentialErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	profile := h.register(t, "alice", "alice@x.com", "GoodPass1!")
	h.register(t, "bob", "", "GoodPass1!")

	bob, err := h.store.Users().GetByIdentifier(ctx, "bob")
	require.NoError(t, err)
	bob.Active = false
	require.NoError(t, h.store.Users().Update(ctx, bob))

	for _, tt := range []struct{ name, identifier, password string }{
		{"unknown identifier", "nobody", "GoodPass1!"},
		{"wrong password", "alice", "WrongPass1!"},
		{"inactive account", "bob", "GoodPass1!"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.login(tt.identifier, tt.password, "")
			errutil.AssertErrorCode(t, err, auth.CodeInvalidCredentials)
			errutil.AssertNoSecret(t, err, tt.password)
			assert.Equal(t, "invalid identifier or password", strings.TrimSpace(err.Error()))
		})
	}

	user, err := h.store.Users().GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, user.FailedAttempts)

	_, err = h.login("", "x", "")
	errutil.AssertErrorCode(t, err, auth.CodeMissingField)
	_, err = h.login("alice", "", "")
	errutil.AssertErrorCode(t, err, auth.CodeMissingField)
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	h := newHarness(t)
	h.register(t, "alice", "", "GoodPass1!")

	for range auth.LockoutThreshold {
		_, err := h.login("alice", "WrongPass1!", "")
		errutil.AssertErrorCode(t, err, auth.CodeInvalidCredentials)
		h.clock.Advance(time.Minute)
	}

	// Wrong and right guesses are indistinguishable while locked.
	for _, password := range []string{"WrongPass1!", "GoodPass1!"} {
		_, err := h.login("alice", password, "")
		errutil.AssertErrorCode(t, err, auth.CodeAccountLocked)
		errutil.AssertErrorContext(t, err, "retry_after", (auth.LockoutDuration - time.Minute).String())
		assert.Equal(t, "account is temporarily locked", strings.TrimSpace(err.Error()))
	}

	user, err := h.store.Users().GetByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, auth.LockoutThreshold, user.FailedAttempts, "refused attempts are not counted")

	h.clock.Advance(auth.LockoutDuration)
	result, err := h.login("alice", "GoodPass1!", "")
	require.NoError(t, err)
	assert.Equal(t, auth.LoginSucceeded, result.Outcome)

	user, err = h.store.Users().GetByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	assert.Zero(t, user.FailedAttempts)
	assert.Nil(t, user.LastFailedAt)
	assert.Nil(t, user.LockedUntil)
	require.NotNil(t, user.LastLoginAt)
}

func TestLogin_ProgressiveDelay(t *testing.T) {
	h := newHarness(t)
	h.register(t, "alice", "", "GoodPass1!")

	for range 3 {
		_, err := h.login("alice", "WrongPass1!", "")
		errutil.AssertErrorCode(t, err, auth.CodeInvalidCredentials)
		h.clock.Advance(auth.MaxFailureDelay)
	}
	_, err := h.login("alice", "WrongPass1!", "")
	errutil.AssertErrorCode(t, err, auth.CodeInvalidCredentials)

	// Four failures space attempts 8s apart, for right and wrong guesses alike.
	h.clock.Advance(3 * time.Second)
	for _, password := range []string{"WrongPass1!", "GoodPass1!"} {
		_, err = h.login("alice", password, "")
		errutil.AssertErrorCode(t, err, auth.CodeRateLimited)
		errutil.AssertErrorContext(t, err, "retry_after", (5 * time.Second).String())
	}

	h.clock.Advance(5 * time.Second)
	result, err := h.login("alice", "GoodPass1!", "")
	require.NoError(t, err)
	assert.Equal(t, auth.LoginSucceeded, result.Outcome)
}

func TestResetPassword_LiftsLockout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "alice", "alice@x.com", "GoodPass1!")

	for range auth.LockoutThreshold {
		_, err := h.login("alice", "WrongPass1!", "")
		require.Error(t, err)
		h.clock.Advance(time.Minute)
	}
	_, err := h.login("alice", "GoodPass1!", "")
	errutil.AssertErrorCode(t, err, auth.CodeAccountLocked)

	require.NoError(t, h.svc.ForgotPassword(ctx, "alice@x.com"))
	require.NoError(t, h.svc.ResetPassword(ctx, h.inbox.Token("alice"), "NewPass1!"))

	user, err := h.store.Users().GetByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, user.FailedAttempts)
	assert.Nil(t, user.LastFailedAt)
	assert.Nil(t, user.LockedUntil)
	assert.Equal(t, h.clock.Now(), user.UpdatedAt, "stamped with the service clock")

	result, err := h.login("alice", "NewPass1!", "")
	require.NoError(t, err)
	assert.Equal(t, auth.LoginSucceeded, result.Outcome)
}

func TestLogin_WrongSecondFactorCountsAsFailure(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice", "", "GoodPass1!")
	enrollment, err := h.svc.EnableSecondFactor(context.Background(), alice.ID)
	require.NoError(t, err)

	code, err := h.totp.CodeAt(enrollment.Secret, h.clock.Now().Add(2*time.Minute))
	require.NoError(t, err)
	_, err = h.login("alice", "GoodPass1!", code)
	errutil.AssertErrorCode(t, err, auth.CodeInvalidSecondFactor)

	user, err := h.store.Users().GetByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, user.FailedAttempts)
}

func TestLogin_RateLimited(t *testing.T) {
	h := newHarness(t, func(d *auth.Dependencies) {
		d.Limiter = auth.NewKeyedLimiter(auth.KeyedLimiterConfig{PerMinute: 1, Burst: 2})
	})
	h.register(t, "alice", "", "GoodPass1!")

	for range 2 {
		_, err := h.login("alice", "WrongPass1!", "")
		errutil.AssertErrorCode(t, err, auth.CodeInvalidCredentials)
		h.clock.Advance(2 * time.Second)
	}
	_, err := h.login("Alice", "GoodPass1!", "")
	errutil.AssertErrorCode(t, err, auth.CodeRateLimited)

	h.clock.Advance(time.Minute)
	_, err = h.login("alice", "GoodPass1!", "")
	require.NoError(t, err)
}

func TestLogin_UpgradesLegacyHash(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	legacy, err := bcrypt.GenerateFromPassword([]byte("OldCacao99"), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := auth.NewUser(auth.Registration{Username: "legacy", UserType: "professional"}, string(legacy), time.Now())
	require.NoError(t, err)
	require.NoError(t, h.store.Users().Create(ctx, user))

	_, err = h.login("legacy", "OldCacao99", "")
	require.NoError(t, err)

	stored, err := h.store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))

	_, err = h.login("legacy", "OldCacao99", "")
	require.NoError(t, err, "upgraded hash still verifies")
}

func TestLogin_StoreFailurePropagates(t *testing.T) {
	h := newHarness(t)
	h.store.FailNext(errors.New("connection refused"))

	_, err := h.login("alice", "GoodPass1!", "")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "AUTH_LOGIN_FAILED")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSecondFactor_EnableVerifyDisable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice", "", "GoodPass1!")

	errutil.AssertErrorCode(t, h.svc.VerifySecondFactor(ctx, alice.ID, "123456"), auth.CodeSecondFactorNotEnabled)
	errutil.AssertErrorCode(t, h.svc.DisableSecondFactor(ctx, alice.ID, "123456"), auth.CodeSecondFactorNotEnabled)

	first, err := h.svc.EnableSecondFactor(ctx, alice.ID)
	require.NoError(t, err)
	second, err := h.svc.EnableSecondFactor(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Secret, second.Secret, "re-enabling replaces the secret")

	oldCode, err := h.totp.CodeAt(first.Secret, h.clock.Now())
	require.NoError(t, err)
	code, err := h.totp.CodeAt(second.Secret, h.clock.Now())
	require.NoError(t, err)

	if oldCode != code {
		errutil.AssertErrorCode(t, h.svc.VerifySecondFactor(ctx, alice.ID, oldCode), auth.CodeInvalidSecondFactor)
	}
	require.NoError(t, h.svc.VerifySecondFactor(ctx, alice.ID, code))

	errutil.AssertErrorCode(t, h.svc.DisableSecondFactor(ctx, alice.ID, ""), auth.CodeInvalidSecondFactor)
	require.NoError(t, h.svc.DisableSecondFactor(ctx, alice.ID, code))

	profile, err := h.svc.Profile(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, profile.SecondFactorEnabled)

	result, err := h.login("alice", "GoodPass1!", "")
	require.NoError(t, err)
	assert.Equal(t, auth.LoginSucceeded, result.Outcome)

	_, err = h.svc.EnableSecondFactor(ctx, ulid.Make())
	errutil.AssertErrorCode(t, err, "AUTH_USER_NOT_FOUND")
}

func TestForgotPassword_DoesNotEnumerate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "alice", "alice@x.com", "GoodPass1!")
	h.register(t, "bob", "", "GoodPass1!")

	bob, err := h.store.Users().GetByIdentifier(ctx, "bob")
	require.NoError(t, err)
	bob.Active = false
	require.NoError(t, h.store.Users().Update(ctx, bob))

	for _, identifier := range []string{"", "nobody@x.com", "bob", "alice@x.com"} {
		assert.NoError(t, h.svc.ForgotPassword(ctx, identifier), identifier)
	}
	assert.Equal(t, 1, h.store.TicketCount())
	assert.Empty(t, h.inbox.Token("bob"))
	assert.NotEmpty(t, h.inbox.Token("alice"))
}

func TestForgotPassword_StoreFailureSurfaces(t *testing.T) {
	h := newHarness(t)
	h.store.FailNext(errors.New("connection refused"))
	err := h.svc.ForgotPassword(context.Background(), "alice")
	errutil.AssertErrorCode(t, err, "AUTH_FORGOT_PASSWORD_FAILED")
}

func TestResetPassword_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "alice", "", "GoodPass1!")
	require.NoError(t, h.svc.ForgotPassword(ctx, "alice"))
	token := h.inbox.Token("alice")

	errutil.AssertErrorCode(t, h.svc.ResetPassword(ctx, "", "NewPass1!"), auth.CodeInvalidOrExpiredToken)
	errutil.AssertErrorCode(t, h.svc.ResetPassword(ctx, "unknown", "NewPass1!"), auth.CodeInvalidOrExpiredToken)
	errutil.AssertErrorCode(t, h.svc.ResetPassword(ctx, token, ""), auth.CodeMissingField)
	errutil.AssertErrorCode(t, h.svc.ResetPassword(ctx, token, "short"), auth.CodeWeakPassword)
	errutil.AssertNoSecret(t, h.svc.ResetPassword(ctx, token, "short"), token)

	h.clock.Advance(59 * time.Minute)
	require.NoError(t, h.svc.ResetPassword(ctx, token, "NewPass1!"), "rejected passwords leave the ticket usable")
}

func TestResetPassword_ExpiredTicket(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "alice", "", "GoodPass1!")
	require.NoError(t, h.svc.ForgotPassword(ctx, "alice"))

	h.clock.Advance(auth.ResetTokenExpiry)
	err := h.svc.ResetPassword(ctx, h.inbox.Token("alice"), "NewPass1!")
	errutil.AssertErrorCode(t, err, auth.CodeInvalidOrExpiredToken)
}

func TestChangePassword(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice", "", "GoodPass1!")

	session, err := h.login("alice", "GoodPass1!", "")
	require.NoError(t, err)
	require.NoError(t, h.svc.ForgotPassword(ctx, "alice"))
	resetToken := h.inbox.Token("alice")

	errutil.AssertErrorCode(t, h.svc.ChangePassword(ctx, alice.ID, "WrongPass1!", "NewPass1!"), auth.CodeInvalidCredentials)
	errutil.AssertErrorCode(t, h.svc.ChangePassword(ctx, alice.ID, "GoodPass1!", "short"), auth.CodeWeakPassword)
	errutil.AssertErrorCode(t, h.svc.ChangePassword(ctx, alice.ID, "", "NewPass1!"), auth.CodeMissingField)

	require.NoError(t, h.svc.ChangePassword(ctx, alice.ID, "GoodPass1!", "NewPass1!"))

	_, err = h.svc.ValidateSession(ctx, session.SessionToken)
	errutil.AssertErrorCode(t, err, auth.CodeInvalidSession)
	errutil.AssertErrorCode(t, h.svc.ResetPassword(ctx, resetToken, "Other1234!"), auth.CodeInvalidOrExpiredToken)

	_, err = h.login("alice", "NewPass1!", "")
	require.NoError(t, err)
}

func TestLogoutAndRevokeAll(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice", "", "GoodPass1!")

	first, err := h.login("alice", "GoodPass1!", "")
	require.NoError(t, err)
	_, err = h.login("alice", "GoodPass1!", "")
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, first.SessionToken))
	require.NoError(t, h.svc.Logout(ctx, first.SessionToken), "logout is idempotent")
	require.NoError(t, h.svc.Logout(ctx, "never-issued"))
	_, err = h.svc.ValidateSession(ctx, first.SessionToken)
	errutil.AssertErrorCode(t, err, auth.CodeInvalidSession)

	n, err := h.svc.RevokeAllSessions(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDeleteAccount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice", "alice@x.com", "GoodPass1!")

	session, err := h.login("alice", "GoodPass1!", "")
	require.NoError(t, err)
	require.NoError(t, h.svc.ForgotPassword(ctx, "alice"))

	require.NoError(t, h.svc.DeleteAccount(ctx, alice.ID))
	assert.Zero(t, h.store.SessionCount())
	assert.Zero(t, h.store.TicketCount())
	assert.False(t, h.store.HasProfile(alice.ID))

	_, err = h.svc.ValidateSession(ctx, session.SessionToken)
	errutil.AssertErrorCode(t, err, auth.CodeInvalidSession)
	errutil.AssertErrorCode(t, h.svc.DeleteAccount(ctx, alice.ID), "AUTH_USER_NOT_FOUND")

	h.register(t, "alice", "alice@x.com", "GoodPass1!")
}
