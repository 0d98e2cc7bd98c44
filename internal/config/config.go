// Package config handles the configuration directory, the optional
// config.yaml file and the settings shared by every command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"k8s.io/client-go/util/homedir"

	"todo/internal/log"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename (googletasks backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (googletasks backend).
	TokenFile = "token.json"

	// DefaultBaseURL is where the task collection lives when nothing else is set.
	DefaultBaseURL = "http://localhost:3001"
)

// Backend names.
const (
	BackendREST        = "rest"
	BackendGoogleTasks = "googletasks"
)

// Logger types.
const (
	LoggerTypeDefault = "default"
	LoggerTypeJSON    = "json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend selects the remote collection implementation.
	Backend string

	// BaseURL is the base address of the REST collection.
	BaseURL string

	// Timeout bounds each remote call. Zero means no timeout.
	Timeout time.Duration

	// LoggerType is the log output format.
	LoggerType string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger is the application logger, never nil after New.
	Logger log.Logger
}

// fileConfig is the YAML structure of config.yaml.
type fileConfig struct {
	BaseURL string `yaml:"base_url"`
	Backend string `yaml:"backend"`
	Timeout string `yaml:"timeout"`
	Logger  string `yaml:"logger"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
// Settings from config.yaml are applied when the file exists.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		Dir:        dir,
		Backend:    BackendREST,
		BaseURL:    DefaultBaseURL,
		LoggerType: LoggerTypeDefault,
		Logger:     log.Noop,
	}

	if err := cfg.load(os.DirFS(dir)); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) load(fsys fs.FS) error {
	data, err := fs.ReadFile(fsys, ConfigFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", ConfigFile, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", ConfigFile, err)
	}

	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.Backend != "" {
		c.Backend = fc.Backend
	}
	if fc.Logger != "" {
		c.LoggerType = fc.Logger
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in %s: %w", fc.Timeout, ConfigFile, err)
		}
		c.Timeout = d
	}

	return c.Validate()
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendREST, BackendGoogleTasks:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}

	switch c.LoggerType {
	case LoggerTypeDefault, LoggerTypeJSON:
	default:
		return fmt.Errorf("unknown logger type: %s", c.LoggerType)
	}

	if c.Backend == BackendREST {
		if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
			return fmt.Errorf("invalid base url: %s", c.BaseURL)
		}
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative")
	}

	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home := homedir.HomeDir()
	if home == "" {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultDBPath returns the default SQLite path for the development server.
func DefaultDBPath() string {
	home := homedir.HomeDir()
	if home == "" {
		return filepath.Join(AppName, "todos.db")
	}
	return filepath.Join(home, ".local", "share", AppName, "todos.db")
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
