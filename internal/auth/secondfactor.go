// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/samber/oops"
)

// TOTP parameters shared with standard authenticator apps.
const (
	TOTPPeriod      = 30 // seconds per step
	TOTPSkew        = 1  // steps of drift accepted on either side
	TOTPSecretBytes = 20 // 160-bit secret
)

var secretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// SecondFactor generates and verifies time-based one-time codes.
// Verify is a pure function of its arguments.
type SecondFactor interface {
	GenerateSecret() (string, error)
	ProvisioningURI(secret, accountLabel, issuer string) (string, error)
	Verify(secret, code string, at time.Time) bool
}

// TOTPEngine implements SecondFactor with RFC 6238 six-digit SHA-1 codes.
type TOTPEngine struct{}

// NewTOTPEngine creates a TOTPEngine.
func NewTOTPEngine() *TOTPEngine {
	return &TOTPEngine{}
}

func validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    TOTPPeriod,
		Skew:      TOTPSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// GenerateSecret returns a fresh random secret, base32 encoded without padding.
func (e *TOTPEngine) GenerateSecret() (string, error) {
	raw := make([]byte, TOTPSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", oops.Code("TOTP_SECRET_GENERATE_FAILED").
			With("requested_bytes", TOTPSecretBytes).
			Wrap(err)
	}
	return secretEncoding.EncodeToString(raw), nil
}

// ProvisioningURI returns the otpauth:// URI for secret. The same inputs
// always produce the same URI.
func (e *TOTPEngine) ProvisioningURI(secret, accountLabel, issuer string) (string, error) {
	raw, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountLabel,
		Period:      TOTPPeriod,
		Secret:      raw,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", oops.Code("TOTP_URI_FAILED").
			With("issuer", issuer).
			Wrap(err)
	}
	return key.URL(), nil
}

// Verify reports whether code is valid for secret at the given time,
// allowing one step of drift either way. Malformed input is simply invalid.
func (e *TOTPEngine) Verify(secret, code string, at time.Time) bool {
	code = strings.ReplaceAll(strings.TrimSpace(code), " ", "")
	if secret == "" || code == "" {
		return false
	}
	valid, err := totp.ValidateCustom(code, secret, at.UTC(), validateOpts())
	return err == nil && valid
}

// CodeAt returns the code for secret at the given time.
func (e *TOTPEngine) CodeAt(secret string, at time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, at.UTC(), validateOpts())
	if err != nil {
		return "", oops.Code("TOTP_CODE_FAILED").Wrap(err)
	}
	return code, nil
}

func decodeSecret(secret string) ([]byte, error) {
	normalized := strings.ToUpper(strings.TrimRight(strings.TrimSpace(secret), "="))
	raw, err := secretEncoding.DecodeString(normalized)
	if err != nil || len(raw) == 0 {
		return nil, oops.Code("TOTP_INVALID_SECRET").Errorf("secret is not valid base32")
	}
	return raw, nil
}

var _ SecondFactor = (*TOTPEngine)(nil)
