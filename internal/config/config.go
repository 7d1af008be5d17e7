// ABOUTME: carlog configuration management with backend selection
// ABOUTME: Handles the config file, .env and environment overrides, and the storage backend factory

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/carlog/internal/charm"
	"github.com/harper/carlog/internal/storage"
	"github.com/joho/godotenv"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// Backends lists every supported backend.
var Backends = []string{BackendSQLite, BackendFile, BackendBadger, BackendCharm, BackendMemory}

// Environment variables that override the config file.
const (
	EnvBackend  = "CARLOG_BACKEND"
	EnvDataDir  = "CARLOG_DATA_DIR"
	EnvLogLevel = "CARLOG_LOG_LEVEL"
	EnvCharm    = "CHARM_HOST"
)

// File and directory names inside the data directory.
const (
	sqliteFilename = "carlog.db"
	fileDirname    = "slots"
	badgerDirname  = "badger"
)

// Config stores carlog configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "file", "badger", "charm" or "memory".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/carlog.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`

	// CharmHost is the charm server used by the charm backend.
	CharmHost string `json:"charm_host,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// GetCharmHost returns the configured charm host, defaulting to the public one.
func (c *Config) GetCharmHost() string {
	if c.CharmHost == "" {
		return charm.DefaultCharmHost
	}
	return c.CharmHost
}

// defaultDataDir returns the default XDG data directory for carlog.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "carlog")
}

// defaultFirstRunConfig returns the appropriate default config for first-time runs.
// If a badger directory already holds data, badger stays the backend.
// Otherwise, it defaults to sqlite.
func defaultFirstRunConfig() *Config {
	nonEmpty, err := storage.IsDirNonEmpty(filepath.Join(defaultDataDir(), badgerDirname))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not check for existing data: %v\n", err)
	}
	if nonEmpty {
		return &Config{Backend: BackendBadger}
	}
	return &Config{Backend: BackendSQLite}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(Backends, c.GetBackend()) {
		errs = append(errs, fmt.Errorf("unknown backend %q (use %s)", c.Backend, strings.Join(Backends, ", ")))
	}
	if _, err := log.ParseLevel(strings.ToLower(c.GetLogLevel())); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}
	if c.DataDir != "" && !filepath.IsAbs(c.GetDataDir()) {
		errs = append(errs, fmt.Errorf("data_dir must be absolute, got %q", c.DataDir))
	}
	return errors.Join(errs...)
}

// BackendLocation describes where the named backend keeps its data.
func (c *Config) BackendLocation(backend string) string {
	dataDir := c.GetDataDir()
	switch backend {
	case BackendSQLite:
		return filepath.Join(dataDir, sqliteFilename)
	case BackendFile:
		return filepath.Join(dataDir, fileDirname)
	case BackendBadger:
		return filepath.Join(dataDir, badgerDirname)
	case BackendCharm:
		return "charm://" + c.GetCharmHost() + "/" + charm.DBName
	case BackendMemory:
		return "(in memory)"
	}
	return ""
}

// OpenBackend creates the configured storage backend.
func (c *Config) OpenBackend() (storage.Backend, error) {
	return c.OpenNamedBackend(c.GetBackend())
}

// OpenNamedBackend creates a storage backend by name using this config's locations.
func (c *Config) OpenNamedBackend(backend string) (storage.Backend, error) {
	var (
		b   storage.Backend
		err error
	)
	switch backend {
	case BackendSQLite:
		b, err = storage.NewSQLiteBackend(c.BackendLocation(backend))
	case BackendFile:
		b, err = storage.NewFileBackend(c.BackendLocation(backend))
	case BackendBadger:
		b, err = storage.NewBadgerBackend(c.BackendLocation(backend))
	case BackendCharm:
		b, err = charm.NewClient(&charm.Config{CharmHost: c.GetCharmHost(), AutoSync: true})
	case BackendMemory:
		b = storage.NewMemory()
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", backend, err)
	}
	return b, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "carlog", "config.json")
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// applyEnv lets environment variables override file settings.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvCharm); v != "" {
		c.CharmHost = v
	}
}

// Load reads config from disk and applies environment overrides.
// A missing file is created with first-run defaults.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path) //nolint:gosec // path derives from XDG_CONFIG_HOME
	if err != nil {
		if os.IsNotExist(err) {
			cfg := defaultFirstRunConfig()
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyEnv()
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return storage.AtomicWriteFile(path, data)
}
