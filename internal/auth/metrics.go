// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Flow names used as the flow label.
const (
	FlowRegister            = "register"
	FlowLogin               = "login"
	FlowEnableSecondFactor  = "enable_second_factor"
	FlowVerifySecondFactor  = "verify_second_factor"
	FlowDisableSecondFactor = "disable_second_factor"
	FlowForgotPassword      = "forgot_password"
	FlowResetPassword       = "reset_password"
	FlowChangePassword      = "change_password"
	FlowLogout              = "logout"
	FlowValidateSession     = "validate_session"
	FlowDeleteAccount       = "delete_account"
)

// Outcome label values besides error codes.
const (
	OutcomeSuccess              = "success"
	OutcomeSecondFactorRequired = "second_factor_required"
	OutcomeInternalError        = "internal_error"
)

// Sweep kinds.
const (
	SweepKindSessions     = "sessions"
	SweepKindResetTickets = "reset_tickets"
	SweepKindLimiterKeys  = "limiter_keys"
)

// FlowTotal counts completed auth flows by outcome. Failed flows use the
// lowercased error code as outcome, or internal_error for store failures.
// Use RegisterMetrics to register this with a Prometheus registry.
var FlowTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "moncacao_auth_flow_total",
		Help: "Total number of authentication flows by outcome",
	},
	[]string{"flow", "outcome"},
)

// SweptTotal counts records removed by the sweeper.
// Use RegisterMetrics to register this with a Prometheus registry.
var SweptTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "moncacao_auth_swept_total",
		Help: "Total number of expired records removed by the sweeper",
	},
	[]string{"kind"},
)

// RegisterMetrics registers auth package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(FlowTotal)
	reg.MustRegister(SweptTotal)
}

// RecordFlow increments FlowTotal for flow based on err.
func RecordFlow(flow string, err error) {
	FlowTotal.WithLabelValues(flow, outcomeOf(err)).Inc()
}

// RecordSwept adds n to SweptTotal for kind.
func RecordSwept(kind string, n int64) {
	if n > 0 {
		SweptTotal.WithLabelValues(kind).Add(float64(n))
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	if code := ErrorCode(err); isTaxonomyCode(code) {
		return taxonomyOutcome[code]
	}
	return OutcomeInternalError
}

var taxonomyOutcome = map[string]string{
	CodeMissingField:           "missing_field",
	CodeInvalidField:           "invalid_field",
	CodeWeakPassword:           "weak_password",
	CodeDuplicateIdentity:      "duplicate_identity",
	CodeInvalidCredentials:     "invalid_credentials",
	CodeAccountLocked:          "account_locked",
	CodeRateLimited:            "rate_limited",
	CodeInvalidSecondFactor:    "invalid_second_factor",
	CodeSecondFactorNotEnabled: "second_factor_not_enabled",
	CodeInvalidOrExpiredToken:  "invalid_or_expired_token",
	CodeInvalidSession:         "invalid_session",
}

func isTaxonomyCode(code string) bool {
	_, ok := taxonomyOutcome[code]
	return ok
}
