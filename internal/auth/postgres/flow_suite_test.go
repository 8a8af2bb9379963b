// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

//go:build integration

package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/moncacao/moncacao/internal/auth"
	"github.com/moncacao/moncacao/internal/auth/postgres"
)

func TestAuthFlows(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Flow Suite")
}

type capturedReset struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (c *capturedReset) DeliverReset(_ context.Context, user *auth.User, token string, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[user.Username] = token
	return nil
}

func (c *capturedReset) token(username string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens[username]
}

type suiteClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *suiteClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *suiteClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// hookedHasher runs onVerify once, from inside the first Verify that matches.
type hookedHasher struct {
	auth.PasswordHasher
	once     sync.Once
	onVerify func()
}

func (h *hookedHasher) Verify(password, hash string) (bool, error) {
	ok, err := h.PasswordHasher.Verify(password, hash)
	if ok && h.onVerify != nil {
		h.once.Do(h.onVerify)
	}
	return ok, err
}

var _ = Describe("Auth service on PostgreSQL", func() {
	var (
		ctx       context.Context
		svc       *auth.Service
		delivered *capturedReset
		profiles  *postgres.ProfileRepository
		clock     *suiteClock
		hasher    *hookedHasher
	)

	BeforeEach(func() {
		ctx = context.Background()
		Expect(truncate(ctx)).To(Succeed())

		delivered = &capturedReset{tokens: make(map[string]string)}
		profiles = postgres.NewProfileRepository(testPool)

		deps := postgres.Dependencies(testPool)
		deps.Delivery = delivered
		clock = &suiteClock{now: time.Now().UTC().Truncate(time.Microsecond)}
		hasher = &hookedHasher{PasswordHasher: auth.NewArgon2idHasher()}
		deps.Hasher = hasher
		var err error
		svc, err = auth.NewService(deps,
			auth.WithClock(clock.Now),
			auth.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		Expect(err).NotTo(HaveOccurred())
	})

	register := func(username, email string) *auth.Profile {
		profile, err := svc.Register(ctx, auth.Registration{
			Username: username,
			Password: "s3cret-pass",
			UserType: "producteur",
			Email:    email,
		})
		Expect(err).NotTo(HaveOccurred())
		return profile
	}

	It("registers an account with its points row and logs in by email", func() {
		profile := register("alice", "alice@example.com")
		Expect(profile.Type).To(Equal(auth.UserTypeProducer))

		points, err := profiles.GetPoints(ctx, profile.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(points.Points).To(Equal(postgres.InitialPoints))
		Expect(points.Level).To(Equal(postgres.InitialLevel))

		result, err := svc.Login(ctx, auth.LoginRequest{Identifier: "ALICE@example.com", Password: "s3cret-pass"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(auth.LoginSucceeded))

		userID, err := svc.ValidateSession(ctx, result.SessionToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(userID).To(Equal(profile.ID))
	})

	It("rejects a second registration differing only in case", func() {
		register("alice", "")
		_, err := svc.Register(ctx, auth.Registration{Username: "Alice", Password: "s3cret-pass", UserType: "producer"})
		Expect(auth.ErrorCode(err)).To(Equal(auth.CodeDuplicateIdentity))
	})

	It("resets a password once and ends existing sessions", func() {
		register("bob", "bob@example.com")
		login, err := svc.Login(ctx, auth.LoginRequest{Identifier: "bob", Password: "s3cret-pass"})
		Expect(err).NotTo(HaveOccurred())

		Expect(svc.ForgotPassword(ctx, "bob@example.com")).To(Succeed())
		token := delivered.token("bob")
		Expect(token).NotTo(BeEmpty())

		Expect(svc.ResetPassword(ctx, token, "brand-new-pass")).To(Succeed())
		err = svc.ResetPassword(ctx, token, "another-pass")
		Expect(auth.ErrorCode(err)).To(Equal(auth.CodeInvalidOrExpiredToken))

		_, err = svc.ValidateSession(ctx, login.SessionToken)
		Expect(auth.ErrorCode(err)).To(Equal(auth.CodeInvalidSession))

		_, err = svc.Login(ctx, auth.LoginRequest{Identifier: "bob", Password: "s3cret-pass"})
		Expect(auth.ErrorCode(err)).To(Equal(auth.CodeInvalidCredentials))
		clock.Advance(time.Minute)
		_, err = svc.Login(ctx, auth.LoginRequest{Identifier: "bob", Password: "brand-new-pass"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("refuses a login whose password was reset while it was being verified", func() {
		register("bob", "bob@example.com")
		Expect(svc.ForgotPassword(ctx, "bob@example.com")).To(Succeed())
		token := delivered.token("bob")

		var resetErr error
		hasher.onVerify = func() { resetErr = svc.ResetPassword(ctx, token, "brand-new-pass") }

		_, err := svc.Login(ctx, auth.LoginRequest{Identifier: "bob", Password: "s3cret-pass"})
		Expect(resetErr).NotTo(HaveOccurred())
		Expect(auth.ErrorCode(err)).To(Equal(auth.CodeInvalidCredentials))

		var sessions int
		Expect(testPool.QueryRow(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&sessions)).To(Succeed())
		Expect(sessions).To(BeZero())

		_, err = svc.Login(ctx, auth.LoginRequest{Identifier: "bob", Password: "brand-new-pass"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("deletes an account together with its sessions", func() {
		profile := register("carol", "")
		login, err := svc.Login(ctx, auth.LoginRequest{Identifier: "carol", Password: "s3cret-pass"})
		Expect(err).NotTo(HaveOccurred())

		Expect(svc.DeleteAccount(ctx, profile.ID)).To(Succeed())

		_, err = svc.ValidateSession(ctx, login.SessionToken)
		Expect(auth.ErrorCode(err)).To(Equal(auth.CodeInvalidSession))
		_, err = profiles.GetPoints(ctx, profile.ID)
		Expect(err).To(MatchError(auth.ErrNotFound))
	})
})
