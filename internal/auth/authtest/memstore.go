// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

// Package authtest provides an in-memory Credential Store for tests.
package authtest

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/moncacao/moncacao/internal/auth"
)

type txKey struct{ store *Store }

// Store is an in-memory implementation of every auth repository interface,
// the Transactor and the ProfileInitializer. All access is serialized;
// InTransaction holds the lock for the whole callback and rolls every map
// back if the callback fails.
type Store struct {
	mu       sync.Mutex
	users    map[ulid.ULID]auth.User
	sessions map[string]auth.Session
	tickets  map[string]auth.ResetTicket
	points   map[ulid.ULID]int

	// failNext is returned, and cleared, by the next repository call.
	failNext error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:    make(map[ulid.ULID]auth.User),
		sessions: make(map[string]auth.Session),
		tickets:  make(map[string]auth.ResetTicket),
		points:   make(map[ulid.ULID]int),
	}
}

// FailNext makes the next repository call return err.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{s}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

// InTransaction runs fn with exclusive access to the store.
func (s *Store) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{s}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := maps.Clone(s.users)
	sessions := maps.Clone(s.sessions)
	tickets := maps.Clone(s.tickets)
	points := maps.Clone(s.points)

	if err := fn(context.WithValue(ctx, txKey{s}, true)); err != nil {
		s.users, s.sessions, s.tickets, s.points = users, sessions, tickets, points
		return err
	}
	return nil
}

// Users returns the UserRepository view of the store.
func (s *Store) Users() auth.UserRepository { return (*userRepo)(s) }

// Sessions returns the SessionRepository view of the store.
func (s *Store) Sessions() auth.SessionRepository { return (*sessionRepo)(s) }

// ResetTickets returns the ResetTicketRepository view of the store.
func (s *Store) ResetTickets() auth.ResetTicketRepository { return (*ticketRepo)(s) }

// InitializeProfile creates the gamification points row for userID.
func (s *Store) InitializeProfile(ctx context.Context, userID ulid.ULID) error {
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.points[userID] = 0
	return nil
}

// HasProfile reports whether InitializeProfile ran for userID.
func (s *Store) HasProfile(userID ulid.ULID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.points[userID]
	return ok
}

// SessionCount returns the number of stored sessions, expired or not.
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// TicketCount returns the number of stored reset tickets, expired or not.
func (s *Store) TicketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

// Dependencies returns auth.Dependencies backed by s.
func (s *Store) Dependencies() auth.Dependencies {
	return auth.Dependencies{
		Users:        s.Users(),
		Sessions:     s.Sessions(),
		ResetTickets: s.ResetTickets(),
		Transactor:   s,
		Profiles:     s,
	}
}

type userRepo Store

func (r *userRepo) store() *Store { return (*Store)(r) }

func (r *userRepo) Create(ctx context.Context, user *auth.User) error {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return err
	}
	for _, existing := range s.users {
		if conflicts(&existing, user) {
			return auth.ErrDuplicate
		}
	}
	s.users[user.ID] = *user
	return nil
}

func conflicts(a, b *auth.User) bool {
	if strings.EqualFold(a.Username, b.Username) {
		return true
	}
	if a.Email != nil && b.Email != nil && strings.EqualFold(*a.Email, *b.Email) {
		return true
	}
	return a.Phone != nil && b.Phone != nil && *a.Phone == *b.Phone
}

func (r *userRepo) GetByID(ctx context.Context, id ulid.ULID) (*auth.User, error) {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) GetByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	phone, phoneErr := auth.NormalizePhone(identifier)
	var byEmail, byPhone *auth.User
	for _, u := range s.users {
		if strings.EqualFold(u.Username, identifier) {
			return &u, nil
		}
		if byEmail == nil && u.Email != nil && strings.EqualFold(*u.Email, identifier) {
			byEmail = &u
		}
		if byPhone == nil && phoneErr == nil && u.Phone != nil && *u.Phone == phone {
			byPhone = &u
		}
	}
	switch {
	case byEmail != nil:
		return byEmail, nil
	case byPhone != nil:
		return byPhone, nil
	default:
		return nil, auth.ErrNotFound
	}
}

func (r *userRepo) Update(ctx context.Context, user *auth.User) error {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return err
	}
	stored, ok := s.users[user.ID]
	if !ok {
		return auth.ErrNotFound
	}
	for id, existing := range s.users {
		if id != user.ID && conflicts(&existing, user) {
			return auth.ErrDuplicate
		}
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.Phone = user.Phone
	stored.Type = user.Type
	stored.Region = user.Region
	stored.Active = user.Active
	stored.UpdatedAt = user.UpdatedAt
	s.users[user.ID] = stored
	return nil
}

func (r *userRepo) RecordLoginFailure(ctx context.Context, id ulid.ULID, failure auth.LoginFailure) (*auth.FailureCounters, error) {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	counters := user.RecordFailure(failure)
	s.users[id] = user
	return &counters, nil
}

func (r *userRepo) RecordLoginSuccess(ctx context.Context, id ulid.ULID, success auth.LoginSuccess) (bool, error) {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return false, err
	}
	user, ok := s.users[id]
	if !ok || user.PasswordHash != success.PasswordHash || user.TOTPEnabled != success.SecondFactorEnabled {
		return false, nil
	}
	user.RecordSuccess(success.At)
	if success.UpgradedHash != "" {
		user.PasswordHash = success.UpgradedHash
	}
	s.users[id] = user
	return true, nil
}

func (r *userRepo) SetSecondFactor(ctx context.Context, id ulid.ULID, secret *string, at time.Time) error {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return err
	}
	user, ok := s.users[id]
	if !ok {
		return auth.ErrNotFound
	}
	if secret != nil {
		user.EnableSecondFactor(*secret, at)
	} else {
		user.DisableSecondFactor(at)
	}
	s.users[id] = user
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string, at time.Time) error {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return err
	}
	user, ok := s.users[id]
	if !ok {
		return auth.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.ClearFailures(at)
	s.users[id] = user
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id ulid.ULID) error {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return err
	}
	if _, ok := s.users[id]; !ok {
		return auth.ErrNotFound
	}
	delete(s.users, id)
	delete(s.points, id)
	maps.DeleteFunc(s.sessions, func(_ string, sess auth.Session) bool { return sess.UserID == id })
	maps.DeleteFunc(s.tickets, func(_ string, t auth.ResetTicket) bool { return t.UserID == id })
	return nil
}

type sessionRepo Store

func (r *sessionRepo) store() *Store { return (*Store)(r) }

func (r *sessionRepo) Create(ctx context.Context, session *auth.Session) error {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return err
	}
	if _, ok := s.users[session.UserID]; !ok {
		return auth.ErrNotFound
	}
	s.sessions[session.TokenHash] = *session
	return nil
}

func (r *sessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*auth.Session, error) {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	session, ok := s.sessions[tokenHash]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &session, nil
}

func (r *sessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return err
	}
	delete(s.sessions, tokenHash)
	return nil
}

func (r *sessionRepo) DeleteByUser(ctx context.Context, userID ulid.ULID) (int64, error) {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return 0, err
	}
	before := len(s.sessions)
	maps.DeleteFunc(s.sessions, func(_ string, sess auth.Session) bool { return sess.UserID == userID })
	return int64(before - len(s.sessions)), nil
}

func (r *sessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return 0, err
	}
	before := len(s.sessions)
	maps.DeleteFunc(s.sessions, func(_ string, sess auth.Session) bool { return !sess.IsValidAt(now) })
	return int64(before - len(s.sessions)), nil
}

type ticketRepo Store

func (r *ticketRepo) store() *Store { return (*Store)(r) }

func (r *ticketRepo) Replace(ctx context.Context, ticket *auth.ResetTicket) error {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return err
	}
	if _, ok := s.users[ticket.UserID]; !ok {
		return auth.ErrNotFound
	}
	maps.DeleteFunc(s.tickets, func(_ string, t auth.ResetTicket) bool { return t.UserID == ticket.UserID })
	s.tickets[ticket.TokenHash] = *ticket
	return nil
}

func (r *ticketRepo) Consume(ctx context.Context, tokenHash string, now time.Time) (ulid.ULID, error) {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return ulid.ULID{}, err
	}
	ticket, ok := s.tickets[tokenHash]
	if !ok || !ticket.IsValidAt(now) {
		return ulid.ULID{}, auth.ErrNotFound
	}
	delete(s.tickets, tokenHash)
	return ticket.UserID, nil
}

func (r *ticketRepo) DeleteByUser(ctx context.Context, userID ulid.ULID) error {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return err
	}
	maps.DeleteFunc(s.tickets, func(_ string, t auth.ResetTicket) bool { return t.UserID == userID })
	return nil
}

func (r *ticketRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s := r.store()
	defer s.lock(ctx)()
	if err := s.takeFailure(); err != nil {
		return 0, err
	}
	before := len(s.tickets)
	maps.DeleteFunc(s.tickets, func(_ string, t auth.ResetTicket) bool { return !t.IsValidAt(now) })
	return int64(before - len(s.tickets)), nil
}

var (
	_ auth.Transactor         = (*Store)(nil)
	_ auth.ProfileInitializer = (*Store)(nil)
)
