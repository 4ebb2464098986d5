// Package config provides centralized configuration management for the loader.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Loader   LoaderConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings.
//
// URL takes precedence. Without it the connection is assembled from the
// discrete DB_* settings.
type DatabaseConfig struct {
	// URL is a PostgreSQL connection string
	URL string `env:"DATABASE_URL"`

	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"f1db"`

	// SSLMode is passed through to libpq-style connection strings (default: prefer)
	SSLMode string `env:"DB_SSLMODE" envDefault:"prefer"`

	// ConnectTimeout bounds connection establishment only, never a load (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
}

// LoaderConfig holds input settings.
type LoaderConfig struct {
	// CSVFolder is the directory holding the race's CSV files (default: csv)
	CSVFolder string `env:"F1_SQL_UPDATER_CSV_FOLDER" envDefault:"csv"`

	// MetricsTextfile, when set, receives run metrics in the node exporter
	// textfile format after every run
	MetricsTextfile string `env:"F1_METRICS_TEXTFILE"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// ConnString returns the connection string handed to pgxpool.
func (c *DatabaseConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}

	parts := []string{
		"host=" + quoteValue(c.Host),
		fmt.Sprintf("port=%d", c.Port),
		"user=" + quoteValue(c.User),
		"dbname=" + quoteValue(c.Name),
		"sslmode=" + quoteValue(c.SSLMode),
	}
	if c.Password != "" {
		parts = append(parts, "password="+quoteValue(c.Password))
	}
	if secs := int(c.ConnectTimeout / time.Second); secs > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", secs))
	}
	return strings.Join(parts, " ")
}

// quoteValue quotes a keyword/value connection setting when needed.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
