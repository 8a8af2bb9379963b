// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

// Package config loads Mon Cacao configuration from defaults, a YAML file,
// command-line flags and the environment, in increasing order of precedence
// (the environment only supplies the database URL when nothing else did).
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/moncacao/moncacao/internal/auth"
	"github.com/moncacao/moncacao/internal/store"
	"github.com/moncacao/moncacao/internal/xdg"
)

// DatabaseURLEnv is consulted when no database_url was configured.
const DatabaseURLEnv = "DATABASE_URL"

// Config is the runtime configuration.
type Config struct {
	DatabaseURL          string        `koanf:"database_url"`
	LogFormat            string        `koanf:"log_format"`
	MetricsAddr          string        `koanf:"metrics_addr"`
	SessionTTL           time.Duration `koanf:"session_ttl"`
	ResetTTL             time.Duration `koanf:"reset_ttl"`
	TOTPIssuer           string        `koanf:"totp_issuer"`
	PasswordMinLength    int           `koanf:"password_min_length"`
	PasswordRequireMixed bool          `koanf:"password_require_mixed"`
	LoginRatePerMinute   int           `koanf:"login_rate_per_minute"`
	LoginBurst           int           `koanf:"login_burst"`
	SweepInterval        time.Duration `koanf:"sweep_interval"`
	DBConnectAttempts    int           `koanf:"db_connect_attempts"`
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	return map[string]any{
		"database_url":           "",
		"log_format":             "json",
		"metrics_addr":           "127.0.0.1:9100",
		"session_ttl":            auth.SessionTokenExpiry,
		"reset_ttl":              auth.ResetTokenExpiry,
		"totp_issuer":            auth.DefaultTOTPIssuer,
		"password_min_length":    auth.DefaultMinPasswordLength,
		"password_require_mixed": false,
		"login_rate_per_minute":  auth.DefaultAttemptsPerMinute,
		"login_burst":            auth.DefaultAttemptBurst,
		"sweep_interval":         auth.DefaultSweepInterval,
		"db_connect_attempts":    store.DefaultConnectAttempts,
	}
}

// LoadOptions select the sources Load reads.
type LoadOptions struct {
	// File is an explicit config file. It must exist. When empty the XDG
	// default is read if present.
	File string

	// Flags are applied over the file. Flag names map to keys by replacing
	// '-' with '_'; flags that match no key are ignored.
	Flags *pflag.FlagSet

	// Getenv defaults to a function returning "".
	Getenv func(string) string
}

// Load builds a Config and validates it.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")
	defaults := Defaults()
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("key", key).Wrap(err)
		}
	}

	path := opts.File
	if path == "" {
		// Without a resolvable home there is simply no default file.
		path, _ = xdg.ExistingConfigFile() //nolint:errcheck // path is "" on error
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, known := defaults[key]; !known {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("operation", "decode").Wrap(err)
	}

	if cfg.DatabaseURL == "" && opts.Getenv != nil {
		cfg.DatabaseURL = opts.Getenv(DatabaseURLEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case c.LogFormat != "json" && c.LogFormat != "text":
		return invalid("log_format", c.LogFormat, "must be 'json' or 'text'")
	case c.SessionTTL <= 0:
		return invalid("session_ttl", c.SessionTTL, "must be positive")
	case c.ResetTTL <= 0:
		return invalid("reset_ttl", c.ResetTTL, "must be positive")
	case strings.TrimSpace(c.TOTPIssuer) == "":
		return invalid("totp_issuer", c.TOTPIssuer, "is required")
	case c.PasswordMinLength < auth.DefaultMinPasswordLength:
		return invalid("password_min_length", c.PasswordMinLength, "must be at least 8")
	case c.LoginRatePerMinute <= 0:
		return invalid("login_rate_per_minute", c.LoginRatePerMinute, "must be positive")
	case c.LoginBurst <= 0:
		return invalid("login_burst", c.LoginBurst, "must be positive")
	case c.SweepInterval <= 0:
		return invalid("sweep_interval", c.SweepInterval, "must be positive")
	case c.DBConnectAttempts <= 0:
		return invalid("db_connect_attempts", c.DBConnectAttempts, "must be positive")
	}
	return nil
}

// RequireDatabase fails when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			With("key", "database_url").
			Errorf("database_url is required (set it in the config file, with --database-url or via %s)", DatabaseURLEnv)
	}
	return nil
}

// PasswordPolicy returns the configured policy.
func (c *Config) PasswordPolicy() auth.StrengthPolicy {
	return auth.StrengthPolicy{MinLength: c.PasswordMinLength, RequireMixed: c.PasswordRequireMixed}
}

// LimiterConfig returns the login attempt limiter settings.
func (c *Config) LimiterConfig() auth.KeyedLimiterConfig {
	return auth.KeyedLimiterConfig{PerMinute: c.LoginRatePerMinute, Burst: c.LoginBurst}
}

func invalid(key string, value any, reason string) error {
	return oops.Code("CONFIG_INVALID").With("key", key).With("value", value).Errorf("%s %s", key, reason)
}
