// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readTerminalPassword prompts on out and reads a line from the terminal without echo.
func readTerminalPassword(prompt string, out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return "", oops.Code("CLI_NO_TERMINAL").Errorf("stdin is not a terminal; use --password-stdin")
	}
	fmt.Fprint(out, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", oops.Code("CLI_PASSWORD_READ_FAILED").Wrap(err)
	}
	return string(password), nil
}

// readPasswordLine reads the first line of in, without its line ending.
func readPasswordLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", oops.Code("CLI_PASSWORD_READ_FAILED").With("source", "stdin").Wrap(err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword reads an existing password.
func readPassword(cmd *cobra.Command, deps *Deps, fromStdin bool) (string, error) {
	if fromStdin {
		return readPasswordLine(cmd.InOrStdin())
	}
	return deps.PasswordReader("Password: ", cmd.ErrOrStderr())
}

// readNewPassword reads a new password, asking twice on a terminal.
func readNewPassword(cmd *cobra.Command, deps *Deps, fromStdin bool) (string, error) {
	if fromStdin {
		return readPasswordLine(cmd.InOrStdin())
	}
	first, err := deps.PasswordReader("New password: ", cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	second, err := deps.PasswordReader("Confirm password: ", cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	if first != second {
		return "", oops.Code("CLI_PASSWORD_MISMATCH").Errorf("passwords do not match")
	}
	return first, nil
}
