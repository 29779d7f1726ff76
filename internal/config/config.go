// Package config provides configuration loading and structs for the BuscaPro server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	Search   SearchConfig   `yaml:"search"`
	Ranking  RankingConfig  `yaml:"ranking"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds the Postgres connection settings.
// URL may be overridden by the DATABASE_URL environment variable.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds the fast cache tier settings.
// URL may be overridden by the REDIS_URL environment variable.
type RedisConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// CacheConfig holds TTLs and the fallback tier bound.
type CacheConfig struct {
	SearchTTLSeconds      int `yaml:"search_ttl_seconds"`
	SuggestionTTLSeconds  int `yaml:"suggestion_ttl_seconds"`
	FallbackMaxEntries    int `yaml:"fallback_max_entries"`
}

// SearchConfig holds query defaulting bounds.
type SearchConfig struct {
	DefaultLimit int     `yaml:"default_limit"`
	MaxLimit     int     `yaml:"max_limit"`
	MaxRadiusKm  float64 `yaml:"max_radius_km"`
}

// RankingConfig holds tie-break settings.
type RankingConfig struct {
	Locale string `yaml:"locale"`
}

// MetricsConfig holds the sample ring bound.
type MetricsConfig struct {
	RingSize int `yaml:"ring_size"`
}

// Load reads and parses the config file at path, applies defaults, and
// applies environment overrides for the external connection URLs.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// applyEnvOverrides lets deployment environments inject connection URLs
// without editing the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
}
