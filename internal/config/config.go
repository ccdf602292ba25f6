// Package config loads the server settings and the seed books.
//
// Settings come from three layers, later ones winning:
//  1. DefaultConfig
//  2. a YAML file passed with -config
//  3. command-line flags the operator set explicitly
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aoideee/bookdemo/internal/data"
	"github.com/aoideee/bookdemo/internal/validator"
)

// Config is the full set of runtime settings.
type Config struct {
	Port        int           `yaml:"port"`
	Environment string        `yaml:"environment"`
	Store       StoreConfig   `yaml:"store"`
	Limiter     LimiterConfig `yaml:"limiter"`

	// LegacyNotFound serves not-found fragments with 200 instead of 404.
	LegacyNotFound bool `yaml:"legacy_not_found"`

	// Books seeds the store at startup. Empty means DefaultBooks.
	Books []data.Book `yaml:"books"`
}

// StoreConfig tunes access to the book store.
type StoreConfig struct {
	Timeout time.Duration `yaml:"timeout"` // Upper bound on a single store access
}

// LimiterConfig configures the per-IP token bucket.
type LimiterConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// Environments lists the accepted values of Environment.
var Environments = []string{"development", "staging", "production"}

// DefaultBooks is the seed used when the config names none.
func DefaultBooks() []data.Book {
	return []data.Book{
		{ID: 1, Title: "Antigone", Author: "Sophocles"},
		{ID: 2, Title: "Beloved", Author: "Toni Morrison"},
		{ID: 3, Title: "Candide", Author: "Voltaire"},
	}
}

// DefaultConfig returns the settings used when nothing else is given.
func DefaultConfig() *Config {
	return &Config{
		Port:        3001,
		Environment: "development",
		Store:       StoreConfig{Timeout: 2 * time.Second},
		Limiter:     LimiterConfig{Enabled: true, RPS: 2, Burst: 4},
		Books:       DefaultBooks(),
	}
}

// LoadFromPath reads a YAML file on top of DefaultConfig.
func LoadFromPath(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Books = nil
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills in values a partial file left empty.
func (c *Config) applyDefaults() {
	if len(c.Books) == 0 {
		c.Books = DefaultBooks()
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	v := validator.New()
	v.Check(c.Port >= 1 && c.Port <= 65535, "port", fmt.Sprintf("%d out of range", c.Port))
	v.Check(validator.OneOf(c.Environment, Environments...), "environment", fmt.Sprintf("%q is unknown", c.Environment))
	v.Check(c.Store.Timeout > 0, "store.timeout", "must be positive")
	if c.Limiter.Enabled {
		v.Check(c.Limiter.RPS > 0, "limiter.rps", "must be positive")
		v.Check(c.Limiter.Burst >= 1, "limiter.burst", "must be positive")
	}
	if err := v.Err(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
