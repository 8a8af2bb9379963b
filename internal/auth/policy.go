// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"unicode"
	"unicode/utf8"

	"github.com/samber/oops"
)

// DefaultMinPasswordLength is the minimum password length, counted in runes.
const DefaultMinPasswordLength = 8

// PasswordPolicy decides whether a password may be used for an account.
// Validate returns an AUTH_WEAK_PASSWORD error when it may not.
type PasswordPolicy interface {
	Validate(password string) error
}

// PasswordPolicyFunc adapts a plain function to PasswordPolicy.
type PasswordPolicyFunc func(password string) error

// Validate calls f(password).
func (f PasswordPolicyFunc) Validate(password string) error {
	return f(password)
}

// StrengthPolicy enforces a minimum length and, optionally, a mix of
// lowercase, uppercase, digit and symbol characters.
type StrengthPolicy struct {
	MinLength    int
	RequireMixed bool
}

// DefaultPasswordPolicy returns the baseline policy: at least 8 characters.
func DefaultPasswordPolicy() StrengthPolicy {
	return StrengthPolicy{MinLength: DefaultMinPasswordLength}
}

// Validate checks password against the policy.
func (p StrengthPolicy) Validate(password string) error {
	minLength := p.MinLength
	if minLength < DefaultMinPasswordLength {
		minLength = DefaultMinPasswordLength
	}
	if utf8.RuneCountInString(password) < minLength {
		return oops.Code(CodeWeakPassword).
			With("min_length", minLength).
			Errorf("password must be at least %d characters", minLength)
	}
	if !p.RequireMixed {
		return nil
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		return oops.Code(CodeWeakPassword).
			Errorf("password must mix lowercase, uppercase, digit and symbol characters")
	}
	return nil
}

var _ PasswordPolicy = StrengthPolicy{}
