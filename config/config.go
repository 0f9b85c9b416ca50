package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	API     APIConfig
	Cache   CacheConfig
	Store   StoreConfig
	Logging LoggingConfig
	AppEnv  string
}

type APIConfig struct {
	BaseURL            string
	TimeoutSeconds     int
	RateLimitPerSecond float64
	RateLimitBurst     int
	CatalogPageSize    int
}

type CacheConfig struct {
	CatalogTTLSeconds int // 0 disables the catalog cache
}

type StoreConfig struct {
	Path string // JSON state file holding tokens, favourite IDs and lesson-plan snapshots
}

type LoggingConfig struct {
	Level string
	Dir   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("LEARN_API_BASE_URL", "https://api.learn-app.dev")
	v.SetDefault("LEARN_API_TIMEOUT_SECONDS", 30)
	v.SetDefault("LEARN_API_RATE_LIMIT", 10.0)
	v.SetDefault("LEARN_API_RATE_BURST", 20)
	v.SetDefault("LEARN_CATALOG_PAGE_SIZE", 100)
	v.SetDefault("LEARN_CATALOG_CACHE_TTL", 300) // 5 minutes in seconds
	v.SetDefault("LEARN_STORE_PATH", "learn-client-state.json")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("APP_ENV", "production")

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		API: APIConfig{
			BaseURL:            v.GetString("LEARN_API_BASE_URL"),
			TimeoutSeconds:     v.GetInt("LEARN_API_TIMEOUT_SECONDS"),
			RateLimitPerSecond: v.GetFloat64("LEARN_API_RATE_LIMIT"),
			RateLimitBurst:     v.GetInt("LEARN_API_RATE_BURST"),
			CatalogPageSize:    v.GetInt("LEARN_CATALOG_PAGE_SIZE"),
		},
		Cache: CacheConfig{
			CatalogTTLSeconds: v.GetInt("LEARN_CATALOG_CACHE_TTL"),
		},
		Store: StoreConfig{
			Path: v.GetString("LEARN_STORE_PATH"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		AppEnv: v.GetString("APP_ENV"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("LEARN_API_BASE_URL is required")
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("LEARN_API_BASE_URL must be an absolute URL")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("LEARN_API_TIMEOUT_SECONDS must be positive")
	}
	if c.API.CatalogPageSize <= 0 {
		return fmt.Errorf("LEARN_CATALOG_PAGE_SIZE must be positive")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("LEARN_STORE_PATH is required")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
