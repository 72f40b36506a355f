package config

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
	Forecast ForecastConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	LogLevel         string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
	CORSAllowOrigins []string
}

// DatabaseConfig selects postgres (default) or a local sqlite file.
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MigrationsPath  string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessTokenDuration time.Duration
	PrivateKey          *rsa.PrivateKey
	PublicKey           *rsa.PublicKey
	Issuer              string
}

type SecurityConfig struct {
	BCryptCost         int
	RateLimitPerSecond int
	RateLimitBurst     int
}

// ForecastConfig bounds the dashboard horizon and sizes the dashboard memo.
type ForecastConfig struct {
	DefaultHorizonMonths int
	MaxHorizonMonths     int
	CacheSize            int
	CacheTTL             time.Duration
	CleanupInterval      time.Duration
	SampleSeed           uint64
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Load reads the configuration from the environment. Unparseable numbers and
// durations fall back to their defaults; an unusable combination of settings
// is an error.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:             env("SERVER_PORT", "8080", str),
			Host:             env("SERVER_HOST", "localhost", str),
			Environment:      env("APP_ENV", "development", str),
			LogLevel:         env("LOG_LEVEL", "info", str),
			ReadTimeout:      env("SERVER_READ_TIMEOUT", 15*time.Second, time.ParseDuration),
			WriteTimeout:     env("SERVER_WRITE_TIMEOUT", 15*time.Second, time.ParseDuration),
			RequestTimeout:   env("SERVER_REQUEST_TIMEOUT", 10*time.Second, time.ParseDuration),
			ShutdownTimeout:  env("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second, time.ParseDuration),
			CORSAllowOrigins: env("CORS_ALLOW_ORIGINS", []string{"*"}, commaList),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(env("DB_DRIVER", DriverPostgres, str)),
			Host:            env("DB_HOST", "localhost", str),
			Port:            env("DB_PORT", "5432", str),
			User:            env("DB_USER", "contas", str),
			Password:        env("DB_PASSWORD", "contas", str),
			Name:            env("DB_NAME", "contas", str),
			SSLMode:         env("DB_SSL_MODE", "disable", str),
			SQLitePath:      env("DB_SQLITE_PATH", "contas.db", str),
			MigrationsPath:  env("DB_MIGRATIONS_PATH", "db/migrations", str),
			MaxConnections:  env("DB_MAX_CONNECTIONS", 25, strconv.Atoi),
			MaxIdleConns:    env("DB_MAX_IDLE_CONNS", 5, strconv.Atoi),
			ConnMaxLifetime: env("DB_CONN_MAX_LIFETIME", time.Hour, time.ParseDuration),
		},
		Security: SecurityConfig{
			BCryptCost:         env("BCRYPT_COST", 12, strconv.Atoi),
			RateLimitPerSecond: env("RATE_LIMIT_PER_SECOND", 5, strconv.Atoi),
			RateLimitBurst:     env("RATE_LIMIT_BURST", 10, strconv.Atoi),
		},
		JWT: JWTConfig{
			AccessTokenDuration: env("JWT_ACCESS_TOKEN_DURATION", 24*time.Hour, time.ParseDuration),
			Issuer:              env("JWT_ISSUER", "contas-api", str),
		},
		Forecast: ForecastConfig{
			DefaultHorizonMonths: env("FORECAST_DEFAULT_MONTHS", 3, strconv.Atoi),
			MaxHorizonMonths:     env("FORECAST_MAX_MONTHS", 24, strconv.Atoi),
			CacheSize:            env("FORECAST_CACHE_SIZE", 1000, strconv.Atoi),
			CacheTTL:             env("FORECAST_CACHE_TTL", 5*time.Minute, time.ParseDuration),
			CleanupInterval:      env("FORECAST_CACHE_CLEANUP_INTERVAL", time.Minute, time.ParseDuration),
			SampleSeed:           env("SAMPLE_DATA_SEED", uint64(0), parseSeed),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.IsProduction() && len(cfg.Server.CORSAllowOrigins) == 1 && cfg.Server.CORSAllowOrigins[0] == "*" {
		slog.Warn("CORS_ALLOW_ORIGINS is not set in production, every origin is allowed")
	}

	var err error
	cfg.JWT.PrivateKey, cfg.JWT.PublicKey, err = cfg.loadJWTKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to load RSA keys: %w", err)
	}

	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Forecast.MaxHorizonMonths < 1 {
		return errors.New("FORECAST_MAX_MONTHS must be at least 1")
	}
	if c.Forecast.DefaultHorizonMonths < 1 || c.Forecast.DefaultHorizonMonths > c.Forecast.MaxHorizonMonths {
		return fmt.Errorf("FORECAST_DEFAULT_MONTHS must be between 1 and %d", c.Forecast.MaxHorizonMonths)
	}
	if c.Forecast.CacheSize < 1 {
		return errors.New("FORECAST_CACHE_SIZE must be at least 1")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// MigrationURL is the postgres URL used by the migration runner.
func (c *DatabaseConfig) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool { return c.Server.Environment == "development" }
func (c *Config) IsProduction() bool  { return c.Server.Environment == "production" }
func (c *Config) IsTesting() bool     { return c.Server.Environment == "testing" }

// env returns the parsed value of key, or def when the variable is unset or
// does not parse.
func env[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("Ignoring unparseable environment variable", "key", key, "error", err)
		return def
	}
	return v
}

func str(s string) (string, error) { return s, nil }

func parseSeed(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) }

func commaList(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("empty list")
	}
	return out, nil
}
