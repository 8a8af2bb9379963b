// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

// Package auth authenticates Mon Cacao users and manages their credentials.
//
// The Service composes a Credential Store (UserRepository, SessionRepository,
// ResetTicketRepository and a Transactor), a PasswordPolicy, a
// PasswordHasher, a SecondFactor engine, a SessionManager and a
// ResetManager into the register, login, second factor, forgot-password and
// reset-password flows. Every flow failure carries one of the Code*
// constants; store failures carry other codes and should be surfaced.
//
// Session and reset tokens are opaque 256-bit random values. Only their
// SHA-256 hashes are persisted.
package auth
