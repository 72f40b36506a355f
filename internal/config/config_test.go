package config

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "testing")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Forecast.DefaultHorizonMonths)
	assert.Equal(t, 24, cfg.Forecast.MaxHorizonMonths)
	assert.Equal(t, 5*time.Minute, cfg.Forecast.CacheTTL)
	assert.Equal(t, "contas-api", cfg.JWT.Issuer)
	assert.NotNil(t, cfg.JWT.PrivateKey)
	assert.NotNil(t, cfg.JWT.PublicKey)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	assert.True(t, cfg.IsTesting())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/contas-test.db")
	t.Setenv("FORECAST_DEFAULT_MONTHS", "6")
	t.Setenv("FORECAST_CACHE_TTL", "30s")
	t.Setenv("SAMPLE_DATA_SEED", "42")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:3000, https://contas.example.com")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/contas-test.db", cfg.Database.DSN())
	assert.Equal(t, 6, cfg.Forecast.DefaultHorizonMonths)
	assert.Equal(t, 30*time.Second, cfg.Forecast.CacheTTL)
	assert.Equal(t, uint64(42), cfg.Forecast.SampleSeed)
	assert.Equal(t, 12, cfg.Security.BCryptCost)
	assert.Equal(t, []string{"http://localhost:3000", "https://contas.example.com"}, cfg.Server.CORSAllowOrigins)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_KeysFromEnvironment(t *testing.T) {
	private, public, err := GenerateRSAKeyPair()
	require.NoError(t, err)

	publicDER, err := x509.MarshalPKIXPublicKey(public)
	require.NoError(t, err)
	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(private)})
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_PRIVATE_KEY", base64.StdEncoding.EncodeToString(privatePEM))
	t.Setenv("JWT_PUBLIC_KEY", base64.StdEncoding.EncodeToString(publicPEM))

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.JWT.PrivateKey.Equal(private))
	assert.True(t, cfg.JWT.PublicKey.Equal(public))
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: DriverPostgres},
			Forecast: ForecastConfig{DefaultHorizonMonths: 3, MaxHorizonMonths: 24, CacheSize: 10},
		}
	}

	assert.NoError(t, valid().Validate())

	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"zero max horizon", func(c *Config) { c.Forecast.MaxHorizonMonths = 0 }},
		{"default above max", func(c *Config) { c.Forecast.DefaultHorizonMonths = 30 }},
		{"default below one", func(c *Config) { c.Forecast.DefaultHorizonMonths = 0 }},
		{"empty cache", func(c *Config) { c.Forecast.CacheSize = 0 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestDatabaseConfig_URLs(t *testing.T) {
	c := DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     "db",
		Port:     "5432",
		User:     "contas",
		Password: "p@ss word",
		Name:     "contas",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=contas password=p@ss word dbname=contas sslmode=disable", c.DSN())
	assert.Equal(t, "postgres://contas:p%40ss+word@db:5432/contas?sslmode=disable", c.MigrationURL())
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"production without keys", map[string]string{"APP_ENV": "production"}, "JWT_PRIVATE_KEY"},
		{"unsupported driver", map[string]string{"APP_ENV": "testing", "DB_DRIVER": "mysql"}, "DB_DRIVER"},
		{"horizon above max", map[string]string{"APP_ENV": "testing", "FORECAST_DEFAULT_MONTHS": "36"}, "FORECAST_DEFAULT_MONTHS"},
		{"garbage key", map[string]string{"APP_ENV": "testing", "JWT_PRIVATE_KEY": "bm90IGEga2V5", "JWT_PUBLIC_KEY": "bm90IGEga2V5"}, "no PEM block"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParsePrivateKey_PKCS8(t *testing.T) {
	private, _, err := GenerateRSAKeyPair()
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(private)
	require.NoError(t, err)

	parsed, err := parsePrivateKey(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(private))
}

func TestCommaList(t *testing.T) {
	got, err := commaList(" a.example.com ,, b.example.com ")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, got)

	_, err = commaList(" , ")
	assert.Error(t, err)
}
