package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingCredentials is returned when a networked store is selected without a DSN.
var ErrMissingCredentials = errors.New("database dsn is required for this driver")

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Listing   ListingConfig   `mapstructure:"listing"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Notice    NoticeConfig    `mapstructure:"notice"`
	Seed      SeedConfig      `mapstructure:"seed"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite, mysql or postgres
	Path         string `mapstructure:"path"`   // sqlite only
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// Target returns the connection string for the configured driver.
func (d DatabaseConfig) Target() string {
	if d.Driver == "sqlite" && d.DSN == "" {
		return d.Path
	}
	return d.DSN
}

// ListingConfig describes the external paginated listing.
type ListingConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	PaginationSuffix  string        `mapstructure:"pagination_suffix"`
	PageSize          int           `mapstructure:"page_size"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// IngestConfig holds ingestion options
type IngestConfig struct {
	CodesFile     string   `mapstructure:"codes_file"`
	Unsplittable  []string `mapstructure:"unsplittable"`
	CacheEntities bool     `mapstructure:"cache_entities"`
}

// NoticeConfig points at the notification log consumed by the site.
type NoticeConfig struct {
	Path    string `mapstructure:"path"`
	Limit   int    `mapstructure:"limit"`
	EndText string `mapstructure:"end_text"`
}

// SeedConfig holds seed compiler paths
type SeedConfig struct {
	Input     string `mapstructure:"input"`
	Output    string `mapstructure:"output"`
	BatchSize int    `mapstructure:"batch_size"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Load loads configuration from .env files, the config file and environment variables
func Load(configPath string) (*Config, error) {
	// Missing env files are fine: CI passes credentials through the real environment.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "songbook.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("listing.base_url", "https://www.ymm.co.jp/p/detail.php?code=")
	v.SetDefault("listing.pagination_suffix", "&dm=d&o=")
	v.SetDefault("listing.page_size", 10)
	v.SetDefault("listing.user_agent", "songbook-catalog/1.0")
	v.SetDefault("listing.timeout", 30*time.Second)
	v.SetDefault("listing.requests_per_second", 1.0)
	v.SetDefault("listing.burst", 1)
	v.SetDefault("ingest.codes_file", "data.txt")
	v.SetDefault("ingest.unsplittable", []string{"DISH//"})
	v.SetDefault("ingest.cache_entities", true)
	v.SetDefault("notice.path", "app/_component/notice.json")
	v.SetDefault("notice.limit", 3)
	v.SetDefault("notice.end_text", "追加されました")
	v.SetDefault("seed.input", ".gemini/output.json")
	v.SetDefault("seed.output", "supabase/seed.sql")
	v.SetDefault("seed.batch_size", 1000)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
}

func bindEnvVars(v *viper.Viper) {
	// Server
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("server.port", p)
		}
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		v.Set("server.mode", mode)
	}

	// Database
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		v.Set("database.driver", driver)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		v.Set("database.dsn", dsn)
	}
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		v.Set("database.path", path)
	}

	// Listing
	if base := os.Getenv("LISTING_BASE_URL"); base != "" {
		v.Set("listing.base_url", base)
	}

	// Rate Limit
	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		v.Set("rate_limit.enabled", enabled == "true")
	}
	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			v.Set("rate_limit.requests_per_second", r)
		}
	}
	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if b, err := strconv.Atoi(burst); err == nil {
			v.Set("rate_limit.burst", b)
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.Mode != "debug" && c.Server.Mode != "release" && c.Server.Mode != "test" {
		return fmt.Errorf("invalid server mode: %s (must be 'debug', 'release', or 'test')", c.Server.Mode)
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Target() == "" {
			return fmt.Errorf("database path cannot be empty")
		}
	case "mysql", "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("%s: %w", c.Database.Driver, ErrMissingCredentials)
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be 'sqlite', 'mysql', or 'postgres')", c.Database.Driver)
	}

	if c.Listing.BaseURL == "" {
		return fmt.Errorf("listing base_url cannot be empty")
	}

	if c.Listing.PageSize <= 0 {
		return fmt.Errorf("listing page_size must be positive")
	}

	if c.Listing.RequestsPerSecond <= 0 {
		return fmt.Errorf("listing requests_per_second must be positive")
	}

	if c.Notice.Limit <= 0 {
		return fmt.Errorf("notice limit must be positive")
	}

	if c.Seed.BatchSize <= 0 {
		return fmt.Errorf("seed batch_size must be positive")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests_per_second must be positive")
	}

	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return nil
}
