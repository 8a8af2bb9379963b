// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package postgres

import "github.com/moncacao/moncacao/internal/auth"

// Dependencies returns the store half of auth.Dependencies backed by db.
func Dependencies(db DB) auth.Dependencies {
	return auth.Dependencies{
		Users:        NewUserRepository(db),
		Sessions:     NewSessionRepository(db),
		ResetTickets: NewResetTicketRepository(db),
		Transactor:   NewTransactor(db),
		Profiles:     NewProfileRepository(db),
	}
}
