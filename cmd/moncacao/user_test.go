// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moncacao/moncacao/internal/auth"
	"github.com/moncacao/moncacao/pkg/errutil"
)

// resetTokenFrom extracts the token printed by writerDelivery.
func resetTokenFrom(t *testing.T, out string) string {
	t.Helper()
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "Reset token for") && i+1 < len(lines) {
			return strings.TrimSpace(lines[i+1])
		}
	}
	t.Fatalf("no reset token in output:\n%s", out)
	return ""
}

func TestUserCommands_RecoveryFlow(t *testing.T) {
	deps, mem := testDeps(t)

	out, err := execute(t, deps, "GoodPass1!\n",
		"user", "register", "--username", "alice", "--type", "producteur",
		"--email", "alice@x.com", "--region", "Centre", "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered alice (")
	assert.Contains(t, out, "as producer")

	out, err = execute(t, deps, "GoodPass1!\n", "user", "login", "alice@x.com", "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "Session for alice")
	assert.Equal(t, 1, mem.SessionCount())

	out, err = execute(t, deps, "", "user", "forgot-password", "alice@x.com")
	require.NoError(t, err)
	token := resetTokenFrom(t, out)
	assert.Contains(t, out, "a reset token was issued")

	out, err = execute(t, deps, "NewPass1!\n", "user", "reset-password", token, "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "Password updated")
	assert.Zero(t, mem.SessionCount(), "reset signs out every session")

	_, err = execute(t, deps, "Another1!\n", "user", "reset-password", token, "--password-stdin")
	errutil.AssertErrorCode(t, err, auth.CodeInvalidOrExpiredToken)

	_, err = execute(t, deps, "NewPass1!\n", "user", "login", "alice", "--password-stdin")
	require.NoError(t, err)
	_, err = execute(t, deps, "GoodPass1!\n", "user", "login", "alice", "--password-stdin")
	errutil.AssertErrorCode(t, err, auth.CodeInvalidCredentials)
}

func TestUserForgotPassword_UnknownIdentifier(t *testing.T) {
	deps, mem := testDeps(t)

	out, err := execute(t, deps, "", "user", "forgot-password", "nobody@x.com")
	require.NoError(t, err)
	assert.NotContains(t, out, "Reset token for")
	assert.Zero(t, mem.TicketCount())
}

func TestUserRegister_Validation(t *testing.T) {
	deps, _ := testDeps(t)

	_, err := execute(t, deps, "short\n",
		"user", "register", "--username", "alice", "--type", "producer", "--password-stdin")
	errutil.AssertErrorCode(t, err, auth.CodeWeakPassword)

	_, err = execute(t, deps, "GoodPass1!\n", "user", "register", "--type", "producer", "--password-stdin")
	errutil.AssertErrorCode(t, err, auth.CodeMissingField)

	_, err = execute(t, deps, "GoodPass1!\n",
		"user", "register", "--username", "alice", "--type", "farmer", "--password-stdin")
	errutil.AssertErrorCode(t, err, auth.CodeInvalidField)
}

func TestUserRegister_TerminalPassword(t *testing.T) {
	deps, _ := testDeps(t)

	answers := []string{"GoodPass1!", "GoodPass2!"}
	var prompts []string
	deps.PasswordReader = func(prompt string, _ io.Writer) (string, error) {
		prompts = append(prompts, prompt)
		answer := answers[0]
		answers = answers[1:]
		return answer, nil
	}

	_, err := execute(t, deps, "", "user", "register", "--username", "alice", "--type", "producer")
	errutil.AssertErrorCode(t, err, "CLI_PASSWORD_MISMATCH")
	assert.Equal(t, []string{"New password: ", "Confirm password: "}, prompts)

	answers = []string{"GoodPass1!", "GoodPass1!"}
	out, err := execute(t, deps, "", "user", "register", "--username", "alice", "--type", "producer")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered alice")
}

func TestUserLogin_SecondFactorRequired(t *testing.T) {
	deps, mem := testDeps(t)
	_, err := execute(t, deps, "GoodPass1!\n",
		"user", "register", "--username", "alice", "--type", "producer", "--password-stdin")
	require.NoError(t, err)

	user, err := mem.Users().GetByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	engine := auth.NewTOTPEngine()
	secret, err := engine.GenerateSecret()
	require.NoError(t, err)
	require.NoError(t, mem.Users().SetSecondFactor(context.Background(), user.ID, &secret, time.Now()))

	out, err := execute(t, deps, "GoodPass1!\n", "user", "login", "alice", "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "Second factor required")
	assert.Zero(t, mem.SessionCount())

	code, err := engine.CodeAt(secret, time.Now())
	require.NoError(t, err)
	out, err = execute(t, deps, "GoodPass1!\n", "user", "login", "alice", "--password-stdin", "--code", code)
	require.NoError(t, err)
	assert.Contains(t, out, "Session for alice")
}

func TestUserCommands_DatabaseFailure(t *testing.T) {
	deps, _ := testDeps(t)
	deps.DatabaseFactory = nil
	deps = deps.withDefaults()

	_, err := execute(t, deps, "", "user", "forgot-password", "alice", "--database-url", "postgres://u:p@localhost:notaport/db")
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriterDelivery(t *testing.T) {
	user, err := auth.NewUser(auth.Registration{Username: "alice", UserType: "producer"}, "hash", time.Now())
	require.NoError(t, err)
	expires := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, (&writerDelivery{w: &buf}).DeliverReset(context.Background(), user, "tok3n", expires))
	assert.Equal(t, "Reset token for alice (expires 2026-10-14T09:30:00Z):\ntok3n\n", buf.String())

	err = (&writerDelivery{w: failingWriter{}}).DeliverReset(context.Background(), user, "tok3n", expires)
	errutil.AssertErrorCode(t, err, "RESET_DELIVERY_FAILED")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestReadPasswordLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unix newline", "GoodPass1!\nignored\n", "GoodPass1!"},
		{"windows newline", "GoodPass1!\r\n", "GoodPass1!"},
		{"no newline", "GoodPass1!", "GoodPass1!"},
		{"spaces kept", " Good Pass 1! \n", " Good Pass 1! "},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPasswordLine(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := readPasswordLine(failingReader{})
	errutil.AssertErrorCode(t, err, "CLI_PASSWORD_READ_FAILED")
}
