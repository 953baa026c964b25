package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverAirtable = "airtable"
)

// Config holds all application configuration values
type Config struct {
	Port        string `env:"PORT" envDefault:"3000"`
	GatewayPort string `env:"GATEWAY_PORT" envDefault:"5001"`
	GinMode     string `env:"GIN_MODE" envDefault:"debug"`

	// Notification gateway base URL; the client appends /api/send-email
	EmailServiceURL string `env:"EMAIL_SERVICE_URL" envDefault:"http://localhost:5001"`

	StoreDriver     string `env:"STORE_DRIVER" envDefault:"memory"`
	SQLitePath      string `env:"SQLITE_PATH" envDefault:"registration.db"`
	DatabaseDSN     string `env:"DATABASE_DSN"`
	AirtableAPIKey  string `env:"AIRTABLE_API_KEY"`
	AirtableBaseID  string `env:"AIRTABLE_BASE_ID"`
	AirtableBaseURL string `env:"AIRTABLE_BASE_URL" envDefault:"https://api.airtable.com/v0"`

	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	EmailMinDelay  time.Duration `env:"EMAIL_MIN_DELAY" envDefault:"1s"`
	EmailQueueSize int           `env:"EMAIL_QUEUE_SIZE" envDefault:"100"`
	Mailer         string        `env:"MAILER" envDefault:"log"`
	// Send latency simulated by the log mailer
	SimulatedSendDelay time.Duration `env:"EMAIL_SIMULATED_DELAY" envDefault:"1s"`
	SMTPAddr           string        `env:"SMTP_ADDR" envDefault:"localhost:25"`
	SMTPFrom           string        `env:"SMTP_FROM" envDefault:"noreply@yourapp.com"`
	SMTPUsername       string        `env:"SMTP_USERNAME"`
	SMTPPassword       string        `env:"SMTP_PASSWORD"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !isNotExist(err) {
			return fmt.Errorf("error loading %s: %w", f, err)
		}
	}
	return nil
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseDSN) == "" {
			return fmt.Errorf("DATABASE_DSN is required for the postgres store")
		}
	case DriverAirtable:
		if c.AirtableAPIKey == "" || c.AirtableBaseID == "" {
			return fmt.Errorf("AIRTABLE_API_KEY and AIRTABLE_BASE_ID are required for the airtable store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.Mailer {
	case "log", "smtp":
	default:
		return fmt.Errorf("unknown MAILER %q", c.Mailer)
	}

	if c.SimulatedSendDelay < 0 {
		return fmt.Errorf("EMAIL_SIMULATED_DELAY must not be negative")
	}

	if c.EmailQueueSize <= 0 {
		return fmt.Errorf("EMAIL_QUEUE_SIZE must be greater than zero")
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
