// Package config reads the api server configuration from the environment.
// Call dotenv.LoadDotEnvs first so that .env files are taken into account.
package config

import (
	"fmt"
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

const (
	defaultPort       = 8080
	defaultSQLitePath = "hackernews.db"
)

// Config is the api server configuration.
type Config struct {
	Port      int
	AppSecret string
	DB        DBConfig
	Datadog   DatadogConfig
}

// DBConfig selects and locates the storage backend.
type DBConfig struct {
	Backend    string
	Host       string
	Port       string
	User       string
	Pass       string
	Name       string
	SQLitePath string
}

// DatadogConfig controls tracing and profiling.
type DatadogConfig struct {
	Enabled bool
	Env     string
}

// Load builds a Config from environment variables, applying defaults for
// unset ones. The result is not validated.
func Load() (*Config, error) {
	port := defaultPort
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrapf(err, "parse PORT %q", v)
		}
		port = p
	}

	datadogEnabled := false
	if v := os.Getenv("DATADOG_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(err, "parse DATADOG_ENABLED %q", v)
		}
		datadogEnabled = b
	}

	return &Config{
		Port:      port,
		AppSecret: os.Getenv("APP_SECRET"),
		DB: DBConfig{
			Backend:    getenvDefault("DB_BACKEND", BackendMemory),
			Host:       os.Getenv("DB_HOST"),
			Port:       getenvDefault("DB_PORT", "5432"),
			User:       os.Getenv("DB_USER"),
			Pass:       os.Getenv("DB_PASS"),
			Name:       os.Getenv("DB_NAME"),
			SQLitePath: getenvDefault("SQLITE_PATH", defaultSQLitePath),
		},
		Datadog: DatadogConfig{
			Enabled: datadogEnabled,
			Env:     getenvDefault("DATADOG_ENV", "development"),
		},
	}, nil
}

func getenvDefault(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Address returns the HTTP listen address.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.AppSecret, validation.Required),
	); err != nil {
		return err
	}
	return c.DB.Validate()
}

// Validate validates the storage configuration.
func (c *DBConfig) Validate() error {
	isPostgres := c.Backend == BackendPostgres
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendMemory, BackendPostgres, BackendSQLite)),
		validation.Field(&c.Host, validation.When(isPostgres, validation.Required)),
		validation.Field(&c.Port, validation.When(isPostgres, validation.Required)),
		validation.Field(&c.User, validation.When(isPostgres, validation.Required)),
		validation.Field(&c.Name, validation.When(isPostgres, validation.Required)),
		validation.Field(&c.SQLitePath, validation.When(c.Backend == BackendSQLite, validation.Required)),
	)
}

// DSN returns the postgres connection string for database dbName.
func (c *DBConfig) DSN(dbName string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", c.Host, c.User, c.Pass, dbName, c.Port)
}
