// Package config reads the service settings from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const Prefix = "MEDICARE"

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":9091"`
	DataDir         string        `envconfig:"DATA_DIR" default:"data"`
	Store           string        `envconfig:"STORE" default:"file"`
	SQLitePath      string        `envconfig:"SQLITE_PATH" default:"data/medicare.db"`
	CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	PageSize        int           `envconfig:"PAGE_SIZE" default:"20"`
	SessionSecret   string        `envconfig:"SESSION_SECRET"`
	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	AnonSessionTTL  time.Duration `envconfig:"ANON_SESSION_TTL" default:"30m"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"text"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"10"`
}

// Load reads .env files (when present) and then the environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.Wrapf(err, "load %s", f)
		}
	}

	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return errors.Errorf("unknown store %q, want %s or %s", c.Store, StoreFile, StoreSQLite)
	}
	if c.PageSize <= 0 {
		return errors.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.CacheTTL < 0 || c.SessionTTL < 0 || c.AnonSessionTTL < 0 || c.ShutdownTimeout <= 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// Usage prints the supported variables.
func Usage() error {
	return envconfig.Usage(Prefix, &Config{})
}
