// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/samber/oops"

	"github.com/moncacao/moncacao/internal/auth"
)

// writerDelivery hands reset tokens to the operator running the CLI.
type writerDelivery struct {
	w io.Writer
}

func (d *writerDelivery) DeliverReset(_ context.Context, user *auth.User, token string, expiresAt time.Time) error {
	_, err := fmt.Fprintf(d.w, "Reset token for %s (expires %s):\n%s\n",
		user.Username, expiresAt.UTC().Format(time.RFC3339), token)
	if err != nil {
		return oops.Code("RESET_DELIVERY_FAILED").With("user_id", user.ID.String()).Wrap(err)
	}
	return nil
}

var _ auth.ResetDelivery = (*writerDelivery)(nil)
