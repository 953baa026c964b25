package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "5001", cfg.GatewayPort)
	assert.Equal(t, "http://localhost:5001", cfg.EmailServiceURL)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Second, cfg.EmailMinDelay)
	assert.Equal(t, 100, cfg.EmailQueueSize)
	assert.Equal(t, "log", cfg.Mailer)
	assert.Equal(t, time.Second, cfg.SimulatedSendDelay)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", DriverPostgres)
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/reg")
	t.Setenv("EMAIL_MIN_DELAY", "0s")
	t.Setenv("EMAIL_SIMULATED_DELAY", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres://u:p@localhost:5432/reg", cfg.DatabaseDSN)
	assert.Equal(t, time.Duration(0), cfg.EmailMinDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.SimulatedSendDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{StoreDriver: DriverMemory, Mailer: "log", EmailQueueSize: 1, SQLitePath: "x.db"}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "memory ok", mutate: func(c *Config) {}},
		{name: "sqlite ok", mutate: func(c *Config) { c.StoreDriver = DriverSQLite }},
		{name: "sqlite without path", mutate: func(c *Config) { c.StoreDriver = DriverSQLite; c.SQLitePath = " " }, wantErr: "SQLITE_PATH"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.StoreDriver = DriverPostgres }, wantErr: "DATABASE_DSN"},
		{name: "airtable without key", mutate: func(c *Config) { c.StoreDriver = DriverAirtable }, wantErr: "AIRTABLE_API_KEY"},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "mongo" }, wantErr: "unknown STORE_DRIVER"},
		{name: "unknown mailer", mutate: func(c *Config) { c.Mailer = "sendgrid" }, wantErr: "unknown MAILER"},
		{name: "negative simulated delay", mutate: func(c *Config) { c.SimulatedSendDelay = -time.Second }, wantErr: "EMAIL_SIMULATED_DELAY"},
		{name: "zero queue", mutate: func(c *Config) { c.EmailQueueSize = 0 }, wantErr: "EMAIL_QUEUE_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("REGISTRATION_TEST_VALUE=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("REGISTRATION_TEST_VALUE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("REGISTRATION_TEST_VALUE"))
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
