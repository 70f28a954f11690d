package config

import (
	"fmt"
	"os"
	"time"
)

// Table names used by the MySQL store when database_table is empty.
const (
	DefaultTable = "messages"
	LegacyTable  = "test"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds server and client configuration values.
type Config struct {
	// Service
	Addr               string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout  time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel           string        `mapstructure:"log_level" yaml:"log_level"`
	DatabaseDriver     string        `mapstructure:"database_driver" yaml:"database_driver"`
	DatabasePath       string        `mapstructure:"database_path" yaml:"database_path"`
	DatabaseDSN        string        `mapstructure:"database_dsn" yaml:"database_dsn"`
	DatabaseTable      string        `mapstructure:"database_table" yaml:"database_table"`
	CORSOrigin         string        `mapstructure:"cors_origin" yaml:"cors_origin"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`

	// Client
	APIURL         string        `mapstructure:"api_url" yaml:"api_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	ToastDuration  time.Duration `mapstructure:"toast_duration" yaml:"toast_duration"`
	InputDebounce  time.Duration `mapstructure:"input_debounce" yaml:"input_debounce"`
	ServerIDs      bool          `mapstructure:"server_ids" yaml:"server_ids"`
	SingleFlight   bool          `mapstructure:"single_flight" yaml:"single_flight"`
	DesktopNotify  bool          `mapstructure:"desktop_notify" yaml:"desktop_notify"`
	LogFile        string        `mapstructure:"log_file" yaml:"log_file"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabaseDriver:    DriverSQLite,
		DatabasePath:      "msgboard.db",
		CORSOrigin:        "*",

		APIURL:         "http://localhost:8080/api/messages",
		RequestTimeout: 10 * time.Second,
		ToastDuration:  5 * time.Second,
		InputDebounce:  300 * time.Millisecond,
		LogFile:        "msgboard.log",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.DatabaseDriver != "" {
		c.DatabaseDriver = other.DatabaseDriver
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.DatabaseDSN != "" {
		c.DatabaseDSN = other.DatabaseDSN
	}
	if other.DatabaseTable != "" {
		c.DatabaseTable = other.DatabaseTable
	}
	if other.APIURL != "" {
		c.APIURL = other.APIURL
	}
}

// MySQLDSN returns the configured DSN, falling back to the DB_* variables
// used by the legacy deployment.
func (c *Config) MySQLDSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s",
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_DATABASE"),
	)
}

// MySQLTable returns the table holding messages. Deployments configured only
// through the DB_* variables keep the legacy table.
func (c *Config) MySQLTable() string {
	switch {
	case c.DatabaseTable != "":
		return c.DatabaseTable
	case c.DatabaseDSN == "":
		return LegacyTable
	default:
		return DefaultTable
	}
}
