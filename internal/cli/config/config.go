package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL = "http://localhost:3000/api/v1"

	configDirName       = "storefront"
	credentialsFileName = "credentials.json"
)

// Credential backends
const (
	BackendKeyring = "keyring"
	BackendFile    = "file"
	BackendMemory  = "memory"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for the CLI
type Config struct {
	API         APIConfig
	Credentials CredentialsConfig
	Session     SessionConfig
	Logging     LoggingConfig
}

// APIConfig holds the storefront backend settings
type APIConfig struct {
	URL     string        `env:"STOREFRONT_API_URL" envDefault:"http://localhost:3000/api/v1"`
	Timeout time.Duration `env:"STOREFRONT_HTTP_TIMEOUT" envDefault:"0s"` // zero keeps the transport default
}

// CredentialsConfig selects where the session token and user are persisted
type CredentialsConfig struct {
	Backend string `env:"STOREFRONT_CREDENTIALS" envDefault:"keyring"`
	File    string `env:"STOREFRONT_CREDENTIALS_FILE"`
}

// SessionConfig holds session reconciliation settings
type SessionConfig struct {
	CheckInterval time.Duration `env:"STOREFRONT_SESSION_CHECK_INTERVAL" envDefault:"5s"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"warn"`
	Format string `env:"LOG_FORMAT" envDefault:"console"` // json, console
}

// Load loads configuration from environment variables. It does not
// validate; callers apply overrides first and then call Validate.
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Credentials.File == "" {
		path, err := DefaultCredentialsPath()
		if err != nil {
			return nil, err
		}
		cfg.Credentials.File = path
	}

	return &cfg, nil
}

// Validate checks values that env parsing cannot
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: API URL %q must be absolute (e.g. %s)", ErrInvalidConfig, c.API.URL, DefaultAPIURL)
	}

	switch c.Credentials.Backend {
	case BackendKeyring, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("%w: credentials backend %q, must be one of: keyring, file, memory", ErrInvalidConfig, c.Credentials.Backend)
	}

	if c.Session.CheckInterval <= 0 {
		return fmt.Errorf("%w: session check interval must be positive", ErrInvalidConfig)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("%w: HTTP timeout cannot be negative", ErrInvalidConfig)
	}

	return nil
}

// APIHost returns the host[:port] of the configured API URL
func (c *Config) APIHost() string {
	u, err := url.Parse(c.API.URL)
	if err != nil {
		return c.API.URL
	}
	return u.Host
}

// DefaultCredentialsPath returns ~/.config/storefront/credentials.json
func DefaultCredentialsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, credentialsFileName), nil
}
