// Package config provides configuration management for the exposure engine.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Features  FeaturesConfig  `yaml:"features"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RedisConfig holds Redis connection settings. When disabled, the service
// falls back to the in-memory store.
type RedisConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Addr        string        `yaml:"addr"`
	PasswordEnv string        `yaml:"password_env"`
	DB          int           `yaml:"db"`
	PoolSize    int           `yaml:"pool_size"`
	ScanTTL     time.Duration `yaml:"scan_ttl"`
}

// AuthConfig holds API authentication settings. The key itself lives in the
// environment, never in the config file.
type AuthConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
}

// FeaturesConfig holds per-platform feature flags. Platforms absent from the
// map are disabled entirely.
type FeaturesConfig struct {
	Platforms map[string]PlatformFlags `yaml:"platforms"`
}

// PlatformFlags gates one platform adapter: basic is the hard on/off gate,
// experimental enables the unverified probe builders.
type PlatformFlags struct {
	Basic        bool `yaml:"basic"`
	Experimental bool `yaml:"experimental"`
}

// RateLimitConfig holds tier-based API rate limits.
type RateLimitConfig struct {
	Enabled bool                 `yaml:"enabled"`
	Tiers   map[string]TierLimit `yaml:"tiers"`
}

// TierLimit defines the request budget for one subscription tier.
type TierLimit struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Load reads configuration from a YAML file, layered over defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  true,
			Addr:     "localhost:6379",
			DB:       0,
			PoolSize: 10,
			ScanTTL:  720 * time.Hour, // scans stay queryable for 30 days
		},
		Auth: AuthConfig{
			APIKeyEnv: "EXPOSURE_API_KEY",
		},
		Features: FeaturesConfig{
			Platforms: map[string]PlatformFlags{
				"whatsapp": {Basic: true, Experimental: false},
				"telegram": {Basic: true, Experimental: false},
			},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Tiers: map[string]TierLimit{
				"free": {RequestsPerMinute: 30},
				"pro":  {RequestsPerMinute: 300},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// PlatformFlags returns the flag snapshot for a platform. Unknown platforms
// come back fully disabled, which the adapter treats as a hard gate.
func (c *Config) PlatformFlags(platform string) PlatformFlags {
	if flags, ok := c.Features.Platforms[platform]; ok {
		return flags
	}
	return PlatformFlags{}
}

// TierLimit returns the rate limit for a tier, falling back to the free
// tier for unknown values.
func (c *Config) TierLimit(tier string) TierLimit {
	if limit, ok := c.RateLimit.Tiers[tier]; ok {
		return limit
	}
	return c.RateLimit.Tiers["free"]
}
