package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	defaultRecoveryWindowDays   = 14
	defaultCatalogCacheSizeMB   = 8
	defaultCatalogCacheTTLSec   = 300
	defaultLoginRateLimitPerMin = 10
	defaultApiRateLimitPerMin   = 120
	maxRecoveryWindowDays       = 60
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost    string `toml:"postgres_host"`
	PostgresPort    string `toml:"postgres_port"`
	PostgresDBName  string `toml:"postgres_db_name"`
	PostgresUser    string `toml:"postgres_user"`
	PostgresSSLMode string `toml:"postgres_ssl_mode"`
	MigrationsPath  string `toml:"migrations_path"`
	RunMigrations   bool   `toml:"run_migrations"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// rate limiting
	LoginRateLimitAllowedPerMin int `toml:"login_rate_limit_allowed_per_min"`
	ApiRateLimitAllowedPerMin   int `toml:"api_rate_limit_allowed_per_min"`
	// exercise catalog cache
	CatalogCacheSizeMB     int `toml:"catalog_cache_size_mb"`
	CatalogCacheTTLSeconds int `toml:"catalog_cache_ttl_seconds"`
	// recovery
	RecoveryWindowDays int `toml:"recovery_window_days"`
	// mcp
	MCPEnabled bool `toml:"mcp_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config of the given env,
// with defaults applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config: %w", err)
	}
	return fromToml(&t, env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode toml config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.applyDefaults(env)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.MigrationsPath == "" {
		c.MigrationsPath = "./migrations"
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = defaultLoginRateLimitPerMin
	}
	if c.ApiRateLimitAllowedPerMin == 0 {
		c.ApiRateLimitAllowedPerMin = defaultApiRateLimitPerMin
	}
	if c.CatalogCacheSizeMB == 0 {
		c.CatalogCacheSizeMB = defaultCatalogCacheSizeMB
	}
	if c.CatalogCacheTTLSeconds == 0 {
		c.CatalogCacheTTLSeconds = defaultCatalogCacheTTLSec
	}
	if c.RecoveryWindowDays == 0 {
		c.RecoveryWindowDays = defaultRecoveryWindowDays
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
		errs = append(errs, errors.New("postgres host, port and db name are required"))
	}
	if c.RedisHost == "" || c.RedisPort == "" {
		errs = append(errs, errors.New("redis host and port are required"))
	}
	if c.RecoveryWindowDays < 1 || c.RecoveryWindowDays > maxRecoveryWindowDays {
		errs = append(errs, fmt.Errorf("recovery window days must be within [1, %d]", maxRecoveryWindowDays))
	}
	if c.CatalogCacheSizeMB < 0 || c.CatalogCacheTTLSeconds < 0 {
		errs = append(errs, errors.New("catalog cache size and ttl must not be negative"))
	}
	return errors.Join(errs...)
}

// MaxRecoveryWindowDays is the largest window accepted from clients.
func MaxRecoveryWindowDays() int {
	return maxRecoveryWindowDays
}
