// Package config загружает конфигурацию сервера objsync.
//
// Приоритет источников: значения по умолчанию < YAML файл < переменные
// окружения (префикс OBJSYNC_) < явно заданные флаги командной строки.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "OBJSYNC_"

// Supported storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains server configuration parameters.
type Config struct {
	Address         string        `yaml:"address" env:"ADDRESS"`
	Database        Database      `yaml:"database" envPrefix:"DATABASE_"`
	Auth            Auth          `yaml:"auth" envPrefix:"AUTH_"`
	Reaper          Reaper        `yaml:"reaper" envPrefix:"REAPER_"`
	RateLimit       RateLimit     `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"`
	CORS            CORS          `yaml:"cors" envPrefix:"CORS_"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`
	Log             Log           `yaml:"log" envPrefix:"LOG_"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Database contains storage backend parameters.
type Database struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	DSN    string `yaml:"dsn" env:"DSN"`
}

// Auth contains credential parameters.
type Auth struct {
	TokenTTL         time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
	PBKDF2Iterations int           `yaml:"pbkdf2_iterations" env:"PBKDF2_ITERATIONS"`
}

// Reaper contains expired token cleanup parameters. Zero interval disables it.
type Reaper struct {
	Interval time.Duration `yaml:"interval" env:"INTERVAL"`
}

// RateLimit contains per-client request limits. Zero Requests disables limiting.
type RateLimit struct {
	Requests      int           `yaml:"requests" env:"REQUESTS"`
	Window        time.Duration `yaml:"window" env:"WINDOW"`
	TokenRequests int           `yaml:"token_requests" env:"TOKEN_REQUESTS"`
}

// CORS contains cross-origin parameters.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Log contains logger parameters.
type Log struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Default returns configuration with built-in defaults
func Default() *Config {
	return &Config{
		Address: "127.0.0.1:8000",
		Database: Database{
			Driver: DriverSQLite,
			DSN:    "db.sqlite",
		},
		Auth: Auth{
			TokenTTL:         720 * time.Hour,
			PBKDF2Iterations: 10000,
		},
		Reaper: Reaper{
			Interval: 10 * time.Minute,
		},
		RateLimit: RateLimit{
			Requests:      100,
			Window:        time.Minute,
			TokenRequests: 10,
		},
		CORS: CORS{
			AllowedOrigins: []string{"*"},
		},
		MaxBodyBytes:    4 << 20,
		Log:             Log{Level: "info", Format: "text"},
		ShutdownTimeout: 10 * time.Second,
	}
}

// flagValues хранит значения флагов до того, как станет известно,
// какие из них были заданы явно.
type flagValues struct {
	configPath string
	address    string
	driver     string
	dsn        string
	logLevel   string
	logFormat  string
}

// registerFlags adds the shared server flags to fs
func registerFlags(fs *flag.FlagSet, cfg *Config) *flagValues {
	fv := &flagValues{}
	fs.StringVar(&fv.configPath, "config", "", "Path to YAML config file")
	fs.StringVar(&fv.address, "address", cfg.Address, "HTTP listen address")
	fs.StringVar(&fv.driver, "database-driver", cfg.Database.Driver, "Storage driver (sqlite or postgres)")
	fs.StringVar(&fv.dsn, "database-dsn", cfg.Database.DSN, "Database file path or connection string")
	fs.StringVar(&fv.logLevel, "log-level", cfg.Log.Level, "Log level (debug, info, warn, error)")
	fs.StringVar(&fv.logFormat, "log-format", cfg.Log.Format, "Log format (text or json)")
	return fv
}

// Load parses args with fs and returns validated configuration.
// Flags already registered on fs by the caller are parsed as well.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()
	fv := registerFlags(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fv.configPath != "" {
		if err := loadFile(fv.configPath, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	// флаги перекрывают всё, но только если заданы явно
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "address":
			cfg.Address = fv.address
		case "database-driver":
			cfg.Database.Driver = fv.driver
		case "database-dsn":
			cfg.Database.DSN = fv.dsn
		case "log-level":
			cfg.Log.Level = fv.logLevel
		case "log-format":
			cfg.Log.Format = fv.logFormat
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// Validate checks that configuration values are usable.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return errors.New("address is required")
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}

	if c.Auth.PBKDF2Iterations <= 0 {
		return errors.New("auth.pbkdf2_iterations must be positive")
	}

	if c.Reaper.Interval < 0 {
		return errors.New("reaper.interval must not be negative")
	}

	if c.RateLimit.Requests < 0 || c.RateLimit.TokenRequests < 0 {
		return errors.New("rate_limit requests must not be negative")
	}

	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		return errors.New("rate_limit.window must be positive when limiting is enabled")
	}

	if c.MaxBodyBytes <= 0 {
		return errors.New("max_body_bytes must be positive")
	}

	return nil
}
