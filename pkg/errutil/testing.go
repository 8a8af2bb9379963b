// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package errutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode asserts that err is an oops error with the given code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	assert.Equal(t, code, oopsErr.Code(), "error: %v", err)
}

// AssertErrorContext asserts that err is an oops error with the given context key/value.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	ctx := oopsErr.Context()
	assert.Contains(t, ctx, key)
	assert.Equal(t, value, ctx[key])
}

// AssertNoErrorContext asserts that err carries no context value under key.
func AssertNoErrorContext(t *testing.T, err error, key string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	assert.NotContains(t, oopsErr.Context(), key)
}

// AssertNoSecret asserts that secret appears neither in err's message nor in
// any of its oops context values.
func AssertNoSecret(t *testing.T, err error, secret string) {
	t.Helper()
	require.Error(t, err)
	require.NotEmpty(t, secret)
	assert.NotContains(t, err.Error(), secret)
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return
	}
	for key, value := range oopsErr.Context() {
		assert.False(t, strings.Contains(fmt.Sprint(value), secret), "context %q leaks secret", key)
	}
}
