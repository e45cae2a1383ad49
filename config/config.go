// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/wanderplan/wanderplan-backend/logger"
)

// Environment represents the application's running environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// DataSourceMode selects the backing data source for all stores.
type DataSourceMode string

const (
	// DataSourceFixture serves deterministic canned data so every read/write
	// path runs without a backend.
	DataSourceFixture DataSourceMode = "fixture"
	// DataSourceLive serves data from the Supabase row store.
	DataSourceLive DataSourceMode = "live"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	Port           string      `mapstructure:"PORT"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS"`
	Version        string      `mapstructure:"VERSION"`
}

// SupabaseConfig holds credentials for the Supabase project backing the app.
type SupabaseConfig struct {
	URL        string `mapstructure:"URL"`
	AnonKey    string `mapstructure:"ANON_KEY"`
	ServiceKey string `mapstructure:"SERVICE_KEY"`
	JWTSecret  string `mapstructure:"JWT_SECRET"`
}

// QueryCacheConfig holds tuning knobs for the read-through query cache.
type QueryCacheConfig struct {
	// StaleAfterSeconds is how long a live-source result stays fresh before
	// the next read triggers a background refetch. Fixture results never go
	// stale.
	StaleAfterSeconds int `mapstructure:"STALE_AFTER_SECONDS"`
}

// SessionConfig holds retry behavior for authentication session lookup.
type SessionConfig struct {
	MaxRetries      int `mapstructure:"MAX_RETRIES"`
	RetryDelayMilli int `mapstructure:"RETRY_DELAY_MS"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server     ServerConfig     `mapstructure:"SERVER"`
	Supabase   SupabaseConfig   `mapstructure:"SUPABASE"`
	DataSource DataSourceMode   `mapstructure:"DATA_SOURCE"`
	QueryCache QueryCacheConfig `mapstructure:"QUERY_CACHE"`
	Session    SessionConfig    `mapstructure:"SESSION"`
}

// IsDevelopment returns true when running in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true when running in the production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// UseFixtures returns true when the fixture data source is selected.
func (c *Config) UseFixtures() bool {
	return c.DataSource == DataSourceFixture
}

// StaleAfter returns the query cache staleness window as a duration.
func (c *Config) StaleAfter() time.Duration {
	return time.Duration(c.QueryCache.StaleAfterSeconds) * time.Second
}

// SessionRetryDelay returns the fixed delay between session lookup attempts.
func (c *Config) SessionRetryDelay() time.Duration {
	return time.Duration(c.Session.RetryDelayMilli) * time.Millisecond
}

func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// applies defaults, unmarshals and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("DATA_SOURCE", DataSourceFixture)
	v.SetDefault("QUERY_CACHE.STALE_AFTER_SECONDS", 300)
	v.SetDefault("SESSION.MAX_RETRIES", 2)
	v.SetDefault("SESSION.RETRY_DELAY_MS", 500)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SUPABASE.URL", "SUPABASE_URL"},
		{"SUPABASE.ANON_KEY", "SUPABASE_ANON_KEY"},
		{"SUPABASE.SERVICE_KEY", "SUPABASE_SERVICE_KEY"},
		{"SUPABASE.JWT_SECRET", "SUPABASE_JWT_SECRET"},
		{"DATA_SOURCE", "DATA_SOURCE"},
		{"QUERY_CACHE.STALE_AFTER_SECONDS", "QUERY_CACHE_STALE_AFTER_SECONDS"},
		{"SESSION.MAX_RETRIES", "SESSION_MAX_RETRIES"},
		{"SESSION.RETRY_DELAY_MS", "SESSION_RETRY_DELAY_MS"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"dataSource", cfg.DataSource,
		"port", cfg.Server.Port,
	)
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DataSource {
	case DataSourceFixture, DataSourceLive:
	default:
		return fmt.Errorf("invalid DATA_SOURCE %q: must be %q or %q",
			c.DataSource, DataSourceFixture, DataSourceLive)
	}

	if c.DataSource == DataSourceLive {
		if c.Supabase.URL == "" {
			return fmt.Errorf("SUPABASE_URL is required when DATA_SOURCE is live")
		}
		if c.Supabase.AnonKey == "" {
			return fmt.Errorf("SUPABASE_ANON_KEY is required when DATA_SOURCE is live")
		}
	}

	if c.IsProduction() && c.DataSource == DataSourceLive && c.Supabase.JWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required in production")
	}

	if c.QueryCache.StaleAfterSeconds <= 0 {
		return fmt.Errorf("QUERY_CACHE_STALE_AFTER_SECONDS must be positive")
	}
	if c.Session.MaxRetries < 0 {
		return fmt.Errorf("SESSION_MAX_RETRIES cannot be negative")
	}
	return nil
}
