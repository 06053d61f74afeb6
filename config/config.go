// Package config resolves rentdesk settings with priority flag > env > default.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds resolved settings for one invocation.
type Config struct {
	BaseURL        string        `env:"BASE_URL"        envDefault:"http://localhost:8080"`
	CredentialFile string        `env:"CREDENTIAL_FILE" envDefault:".rentdesk-credentials.json"`
	RefreshCookie  string        `env:"REFRESH_COOKIE"  envDefault:"refresh_token"`
	LogLevel       string        `env:"LOG_LEVEL"       envDefault:"warn"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Flags are the global command-line overrides. Empty values fall through to env.
type Flags struct {
	BaseURL        *string
	CredentialFile *string
	LogLevel       *string
}

// RegisterFlags defines the global flags on fs.
func RegisterFlags(fs *flag.FlagSet) Flags {
	return Flags{
		BaseURL: fs.String(
			"base-url",
			"",
			"API base URL (default: http://localhost:8080 or BASE_URL env)",
		),
		CredentialFile: fs.String(
			"credential-file",
			"",
			"Credential storage file (default: .rentdesk-credentials.json or CREDENTIAL_FILE env)",
		),
		LogLevel: fs.String("log-level", "", "Log level: debug, info, warn, error (or LOG_LEVEL env)"),
	}
}

// Load reads .env (if present) and the process environment, then applies flags.
func Load(f Flags) (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return resolve(&cfg, f)
}

// LoadFrom is Load with an explicit environment instead of the process one.
func LoadFrom(environ map[string]string, f Flags) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return resolve(&cfg, f)
}

func resolve(cfg *Config, f Flags) (*Config, error) {
	cfg.BaseURL = strings.TrimRight(getConfig(f.BaseURL, cfg.BaseURL), "/")
	cfg.CredentialFile = getConfig(f.CredentialFile, cfg.CredentialFile)
	cfg.LogLevel = getConfig(f.LogLevel, cfg.LogLevel)

	if err := ValidateBaseURL(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid BASE_URL: %w", err)
	}
	if cfg.RefreshCookie == "" {
		return nil, errors.New("REFRESH_COOKIE cannot be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got: %s", cfg.RequestTimeout)
	}
	return cfg, nil
}

// Insecure reports whether the base URL uses plain HTTP.
func (c *Config) Insecure() bool {
	return strings.HasPrefix(strings.ToLower(c.BaseURL), "http://")
}

// getConfig returns the flag value when set, otherwise the env-or-default value.
func getConfig(flagValue *string, envValue string) string {
	if flagValue != nil && *flagValue != "" {
		return *flagValue
	}
	return envValue
}

// ValidateBaseURL validates that the API base URL is properly formatted
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("base URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got: %s", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("URL must include a host")
	}

	return nil
}
