// Package config loads settings from defaults, a .env file, the environment and flags,
// and locates the XDG configuration directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskdemo"

	// GoogleClientFile holds the Google OAuth client credentials used by import.
	GoogleClientFile = "google_client.json"

	// GoogleTokenFile is the stored Google OAuth token.
	GoogleTokenFile = "google_token.json"

	// MaxPageSize is the largest page the backend accepts.
	MaxPageSize = 100
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIBaseURL is the backend address, e.g. http://localhost:5000.
	APIBaseURL string `env:"TASKDEMO_API_URL" env-default:"http://localhost:5000"`

	// PageSize is the number of tasks requested per page.
	PageSize int `env:"TASKDEMO_PAGE_SIZE" env-default:"10"`

	// Timeout bounds each backend call. Zero disables it.
	Timeout time.Duration `env:"TASKDEMO_TIMEOUT" env-default:"10s"`

	// Client selects the client commands act on when --client is not given:
	// an ID, a 1-based position or a name. Empty means the first client.
	Client string `env:"TASKDEMO_CLIENT"`

	// APIToken is sent as a bearer token when set.
	APIToken string `env:"TASKDEMO_API_TOKEN"`

	OAuth OAuthConfig

	// LogFormat is "text" or "json".
	LogFormat string `env:"TASKDEMO_LOG_FORMAT" env-default:"text"`

	// Debug enables debug logging.
	Debug bool `env:"TASKDEMO_DEBUG"`

	// Quiet suppresses informational output.
	Quiet bool
}

// OAuthConfig enables the client-credentials flow against the backend.
// It is used only when ClientID and TokenURL are both set.
type OAuthConfig struct {
	ClientID     string   `env:"TASKDEMO_OAUTH_CLIENT_ID"`
	ClientSecret string   `env:"TASKDEMO_OAUTH_CLIENT_SECRET"`
	TokenURL     string   `env:"TASKDEMO_OAUTH_TOKEN_URL"`
	Scopes       []string `env:"TASKDEMO_OAUTH_SCOPES" env-separator:","`
}

// Enabled reports whether client credentials are configured.
func (o OAuthConfig) Enabled() bool {
	return o.ClientID != "" && o.TokenURL != ""
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// Dir overrides the configuration directory.
	Dir string

	// EnvFile is an explicit .env file. It must exist when set.
	// When empty, ".env" in the working directory and in Dir are tried.
	EnvFile string
}

// Load reads the configuration. Precedence, lowest first: defaults, .env file,
// process environment. Flags are applied by the caller afterwards.
func Load(opts LoadOptions) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	if err := loadEnvFiles(opts.EnvFile, dir); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles feeds .env files into the process environment.
// godotenv never overrides variables that are already set.
func loadEnvFiles(explicit, dir string) error {
	if explicit != "" {
		if err := godotenv.Load(explicit); err != nil {
			return fmt.Errorf("load env file %s: %w", explicit, err)
		}
		return nil
	}
	for _, path := range []string{".env", filepath.Join(dir, ".env")} {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks the values that have to be usable before any request is made.
func (c *Config) Validate() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.APIBaseURL)
	}
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return fmt.Errorf("invalid page size: %d (want 1-%d)", c.PageSize, MaxPageSize)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q (want text or json)", c.LogFormat)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// GoogleClientPath returns the path to the Google OAuth client credentials.
func (c *Config) GoogleClientPath() string {
	return filepath.Join(c.Dir, GoogleClientFile)
}

// GoogleTokenPath returns the path to the stored Google token.
func (c *Config) GoogleTokenPath() string {
	return filepath.Join(c.Dir, GoogleTokenFile)
}

// EnsureDir creates the config directory with mode 0700 if it doesn't exist.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasGoogleClient checks if the Google client credentials file exists.
func (c *Config) HasGoogleClient() bool {
	_, err := os.Stat(c.GoogleClientPath())
	return err == nil
}

// HasGoogleToken checks if a Google token is stored.
func (c *Config) HasGoogleToken() bool {
	_, err := os.Stat(c.GoogleTokenPath())
	return err == nil
}

// RemoveGoogleToken deletes the stored Google token.
func (c *Config) RemoveGoogleToken() error {
	return os.Remove(c.GoogleTokenPath())
}
