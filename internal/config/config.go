// Package config provides configuration management for Nasab.
// Settings load from environment variables with the NASAB_ prefix, with
// sensible defaults for every option. An optional YAML file can be layered
// underneath the environment: env vars always win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the relationship graph.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Traversal TraversalConfig `yaml:"traversal"`
	Bulk      BulkConfig      `yaml:"bulk"`
	Watch     WatchConfig     `yaml:"watch"`
}

// StorageConfig contains database and storage configuration.
type StorageConfig struct {
	// Engine selects the storage backend: sqlite or postgres.
	Engine string `yaml:"engine"`

	// DSN is the backend connection string. For sqlite this is a file path
	// or file: URI; for postgres a postgres:// URL.
	DSN string `yaml:"dsn"`

	// BreakerEnabled wraps the store in a circuit breaker.
	BreakerEnabled bool `yaml:"breaker_enabled"`

	// PersonCacheSize bounds the person directory LRU cache.
	PersonCacheSize int `yaml:"person_cache_size"`
}

// TraversalConfig contains traversal and degree defaults.
type TraversalConfig struct {
	// MaxGenerations is the default bound for ancestor/descendant walks.
	MaxGenerations int `yaml:"max_generations"`

	// DegreeBound is the ancestor depth used for degree computation.
	DegreeBound int `yaml:"degree_bound"`
}

// BulkConfig contains bulk operation throttling.
type BulkConfig struct {
	// RateLimit is the sustained item writes per second for bulk
	// operations. Zero disables throttling.
	RateLimit float64 `yaml:"rate_limit"`

	// Burst is the rate limiter burst size.
	Burst int `yaml:"burst"`
}

// WatchConfig contains the import drop-directory watcher settings.
type WatchConfig struct {
	// Enabled starts the drop-directory watcher.
	Enabled bool `yaml:"enabled"`

	// Dir is the directory scanned for import files.
	Dir string `yaml:"dir"`
}

// LoadConfig loads configuration from environment variables with defaults.
// It never requires a config file.
func LoadConfig() (*Config, error) {
	return buildBaseConfig(), nil
}

// LoadConfigFromFile reads a YAML config file and then applies environment
// overrides on top.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := buildBaseConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	// Environment variables win over file values.
	applyEnv(cfg)
	return cfg, nil
}

// buildBaseConfig constructs a Config with values from environment
// variables and defaults.
func buildBaseConfig() *Config {
	cfg := &Config{
		Storage: StorageConfig{
			Engine:          "sqlite",
			DSN:             "./data/nasab.db",
			BreakerEnabled:  false,
			PersonCacheSize: 512,
		},
		Traversal: TraversalConfig{
			MaxGenerations: 10,
			DegreeBound:    10,
		},
		Bulk: BulkConfig{
			RateLimit: 0,
			Burst:     1,
		},
		Watch: WatchConfig{
			Enabled: false,
			Dir:     "./data/import",
		},
	}
	applyEnv(cfg)
	return cfg
}

// applyEnv overwrites cfg fields that have NASAB_ environment variables set.
func applyEnv(cfg *Config) {
	cfg.Storage.Engine = getEnv("NASAB_STORAGE_ENGINE", cfg.Storage.Engine)
	cfg.Storage.DSN = getEnv("NASAB_STORAGE_DSN", cfg.Storage.DSN)
	cfg.Storage.BreakerEnabled = getEnvBool("NASAB_STORAGE_BREAKER", cfg.Storage.BreakerEnabled)
	cfg.Storage.PersonCacheSize = getEnvInt("NASAB_PERSON_CACHE_SIZE", cfg.Storage.PersonCacheSize)

	cfg.Traversal.MaxGenerations = getEnvInt("NASAB_MAX_GENERATIONS", cfg.Traversal.MaxGenerations)
	cfg.Traversal.DegreeBound = getEnvInt("NASAB_DEGREE_BOUND", cfg.Traversal.DegreeBound)

	cfg.Bulk.RateLimit = getEnvFloat("NASAB_BULK_RATE_LIMIT", cfg.Bulk.RateLimit)
	cfg.Bulk.Burst = getEnvInt("NASAB_BULK_BURST", cfg.Bulk.Burst)

	cfg.Watch.Enabled = getEnvBool("NASAB_WATCH_ENABLED", cfg.Watch.Enabled)
	cfg.Watch.Dir = getEnv("NASAB_WATCH_DIR", cfg.Watch.Dir)
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value when unset or unparseable.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default
// value when unset or unparseable.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default
// value. It recognizes "true", "1", "yes" and "false", "0", "no"
// (case-insensitive).
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultValue
}
