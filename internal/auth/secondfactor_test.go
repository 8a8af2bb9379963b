// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moncacao/moncacao/internal/auth"
	"github.com/moncacao/moncacao/pkg/errutil"
)

// stepStart is aligned to a 30 second TOTP step.
var stepStart = time.Unix(1_800_000_000, 0).UTC()

func TestTOTPEngine_GenerateSecret(t *testing.T) {
	engine := auth.NewTOTPEngine()

	secret, err := engine.GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 32, "160 bits in unpadded base32")
	assert.Regexp(t, `^[A-Z2-7]+$`, secret)

	other, err := engine.GenerateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestTOTPEngine_Verify(t *testing.T) {
	engine := auth.NewTOTPEngine()
	secret, err := engine.GenerateSecret()
	require.NoError(t, err)

	code, err := engine.CodeAt(secret, stepStart)
	require.NoError(t, err)
	require.Len(t, code, 6)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"same step", stepStart.Add(29 * time.Second), true},
		{"next step", stepStart.Add(30 * time.Second), true},
		{"previous step", stepStart.Add(-30 * time.Second), true},
		{"two steps later", stepStart.Add(60 * time.Second), false},
		{"two steps earlier", stepStart.Add(-31 * time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Verify(secret, code, tt.at))
		})
	}

	t.Run("spaces inside the code are ignored", func(t *testing.T) {
		assert.True(t, engine.Verify(secret, code[:3]+" "+code[3:], stepStart))
	})

	t.Run("malformed input is invalid", func(t *testing.T) {
		assert.False(t, engine.Verify(secret, "", stepStart))
		assert.False(t, engine.Verify(secret, "12ab56", stepStart))
		assert.False(t, engine.Verify("", code, stepStart))
		assert.False(t, engine.Verify("not base32!", code, stepStart))
	})

	t.Run("verification is a pure function", func(t *testing.T) {
		for range 3 {
			assert.True(t, engine.Verify(secret, code, stepStart))
		}
	})
}

func TestTOTPEngine_ProvisioningURI(t *testing.T) {
	engine := auth.NewTOTPEngine()
	secret, err := engine.GenerateSecret()
	require.NoError(t, err)

	uri, err := engine.ProvisioningURI(secret, "alice", auth.DefaultTOTPIssuer)
	require.NoError(t, err)

	again, err := engine.ProvisioningURI(secret, "alice", auth.DefaultTOTPIssuer)
	require.NoError(t, err)
	assert.Equal(t, uri, again)

	parsed, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", parsed.Scheme)
	assert.Equal(t, "totp", parsed.Host)
	assert.Contains(t, parsed.Path, "alice")

	query := parsed.Query()
	assert.Equal(t, secret, query.Get("secret"))
	assert.Equal(t, auth.DefaultTOTPIssuer, query.Get("issuer"))
	assert.Equal(t, "30", query.Get("period"))
	assert.Equal(t, "6", query.Get("digits"))
	assert.Equal(t, "SHA1", query.Get("algorithm"))

	t.Run("invalid secret", func(t *testing.T) {
		_, err := engine.ProvisioningURI("not base32!", "alice", auth.DefaultTOTPIssuer)
		errutil.AssertErrorCode(t, err, "TOTP_INVALID_SECRET")
	})
}
