// Package config resolves the settings of the usersdb command.
//
// Sources, lowest to highest precedence: built-in defaults, usersdb.yml (or
// usersdb.yaml) in the config directory, a .env file in that directory, the
// process environment, then command line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvDatabase   = "USERSDB_DATABASE"
	EnvDriver     = "USERSDB_DRIVER"
	EnvLogLevel   = "USERSDB_LOG_LEVEL"
	EnvLogQueries = "USERSDB_LOG_QUERIES"
	EnvSlowQuery  = "USERSDB_SLOW_QUERY"
)

// Config holds the usersdb settings.
type Config struct {
	Database           string        `yaml:"database,omitempty"`
	Driver             string        `yaml:"driver,omitempty"`
	LogLevel           string        `yaml:"logLevel,omitempty"`
	LogQueries         bool          `yaml:"logQueries,omitempty"`
	SlowQueryThreshold time.Duration `yaml:"slowQueryThreshold,omitempty"`
}

// Default returns the built-in settings: a data.db file next to the
// working directory, opened with the cgo driver.
func Default() *Config {
	return &Config{
		Database:           "data.db",
		Driver:             "sqlite3",
		LogLevel:           "info",
		SlowQueryThreshold: 200 * time.Millisecond,
	}
}

// Load resolves defaults, the yaml file, .env and the process environment
// for dir. Missing files are not an error.
func Load(dir string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(dir); err != nil {
		return nil, err
	}
	env, err := readDotEnv(filepath.Join(dir, ".env"))
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(dir string) error {
	for _, name := range []string{"usersdb.yml", "usersdb.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	}
	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}

// ApplyEnv overrides fields from the USERSDB_* variables returned by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDatabase); ok && v != "" {
		c.Database = v
	}
	if v, ok := lookup(EnvDriver); ok && v != "" {
		c.Driver = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogQueries); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogQueries, err)
		}
		c.LogQueries = b
	}
	if v, ok := lookup(EnvSlowQuery); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSlowQuery, err)
		}
		c.SlowQueryThreshold = d
	}
	return nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return errors.New("config: database path is empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.SlowQueryThreshold < 0 {
		return fmt.Errorf("config: negative slow query threshold %s", c.SlowQueryThreshold)
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", s)
	}
	return l, nil
}
