// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/moncacao/moncacao/internal/auth"
)

// NewUserCmd creates the user subcommand.
func NewUserCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Register and recover accounts",
	}

	cmd.AddCommand(newUserRegisterCmd(deps))
	cmd.AddCommand(newUserLoginCmd(deps))
	cmd.AddCommand(newUserForgotPasswordCmd(deps))
	cmd.AddCommand(newUserResetPasswordCmd(deps))

	return cmd
}

// withService runs fn with an auth Service over the configured database.
func withService(cmd *cobra.Command, deps *Deps, fn func(*auth.Service) error) error {
	cfg, logger, err := loadConfig(cmd, deps)
	if err != nil {
		return err
	}
	db, err := openDatabase(cmd.Context(), cfg, deps, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := newService(cmd, cfg, deps, db, logger)
	if err != nil {
		return err
	}
	return fn(svc)
}

func newUserRegisterCmd(deps *Deps) *cobra.Command {
	var (
		reg       auth.Registration
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account. The password is read from the terminal, or from the
first line of stdin with --password-stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readNewPassword(cmd, deps, fromStdin)
			if err != nil {
				return err
			}
			reg.Password = password

			return withService(cmd, deps, func(svc *auth.Service) error {
				profile, err := svc.Register(cmd.Context(), reg)
				if err != nil {
					return err
				}
				cmd.Printf("Registered %s (%s) as %s\n", profile.Username, profile.ID, profile.Type)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reg.Username, "username", "", "username (required)")
	cmd.Flags().StringVar(&reg.UserType, "type", "", "user type: producer or professional (required)")
	cmd.Flags().StringVar(&reg.Email, "email", "", "email address")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&reg.Region, "region", "", "region")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from stdin")

	return cmd
}

func newUserLoginCmd(deps *Deps) *cobra.Command {
	var (
		code      string
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login <identifier>",
		Short: "Check credentials and issue a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, deps, fromStdin)
			if err != nil {
				return err
			}

			return withService(cmd, deps, func(svc *auth.Service) error {
				result, err := svc.Login(cmd.Context(), auth.LoginRequest{
					Identifier:       args[0],
					Password:         password,
					SecondFactorCode: code,
				})
				if err != nil {
					return err
				}
				if result.Outcome == auth.LoginSecondFactorRequired {
					cmd.Println("Second factor required; rerun with --code")
					return nil
				}
				cmd.Printf("Session for %s (expires %s):\n%s\n",
					result.Username, result.ExpiresAt.UTC().Format(time.RFC3339), result.SessionToken)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "current second factor code")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from stdin")

	return cmd
}

func newUserForgotPasswordCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <identifier>",
		Short: "Issue a password reset token",
		Long: `Issue a password reset token for the account matching the username,
email or phone number. The token is printed; unknown identifiers print nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, deps, func(svc *auth.Service) error {
				if err := svc.ForgotPassword(cmd.Context(), args[0]); err != nil {
					return err
				}
				cmd.Println("If the account exists and is active, a reset token was issued.")
				return nil
			})
		},
	}
}

func newUserResetPasswordCmd(deps *Deps) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password with a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readNewPassword(cmd, deps, fromStdin)
			if err != nil {
				return err
			}

			return withService(cmd, deps, func(svc *auth.Service) error {
				if err := svc.ResetPassword(cmd.Context(), args[0], password); err != nil {
					return err
				}
				cmd.Println("Password updated; every session of the account was signed out.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from stdin")

	return cmd
}
