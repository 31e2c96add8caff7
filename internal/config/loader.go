package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime configuration for the booking service.
type Config struct {
	HTTPPort         int
	SQLiteDSN        string
	LogLevel         string
	AdvisoryCacheTTL time.Duration
	ShutdownTimeout  time.Duration
}

// fileConfig is the YAML shape. Durations are Go duration strings.
type fileConfig struct {
	HTTPPort         *int    `yaml:"http_port"`
	SQLiteDSN        *string `yaml:"sqlite_dsn"`
	LogLevel         *string `yaml:"log_level"`
	AdvisoryCacheTTL *string `yaml:"advisory_cache_ttl"`
	ShutdownTimeout  *string `yaml:"shutdown_timeout"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTPPort:         8080,
		SQLiteDSN:        "file:bookings.db?_foreign_keys=on",
		LogLevel:         "info",
		AdvisoryCacheTTL: 30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Load layers configuration sources: defaults, then an optional YAML file,
// then BOOKING_* environment variables. Later sources win.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if err := fc.merge(&cfg); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (f fileConfig) merge(cfg *Config) error {
	if f.HTTPPort != nil {
		cfg.HTTPPort = *f.HTTPPort
	}
	if f.SQLiteDSN != nil {
		cfg.SQLiteDSN = *f.SQLiteDSN
	}
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
	if f.AdvisoryCacheTTL != nil {
		ttl, err := time.ParseDuration(*f.AdvisoryCacheTTL)
		if err != nil || ttl <= 0 {
			return fmt.Errorf("invalid advisory_cache_ttl %q", *f.AdvisoryCacheTTL)
		}
		cfg.AdvisoryCacheTTL = ttl
	}
	if f.ShutdownTimeout != nil {
		timeout, err := time.ParseDuration(*f.ShutdownTimeout)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("invalid shutdown_timeout %q", *f.ShutdownTimeout)
		}
		cfg.ShutdownTimeout = timeout
	}
	return nil
}

func applyEnv(cfg *Config) error {
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("BOOKING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "BOOKING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("BOOKING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if level := strings.TrimSpace(os.Getenv("BOOKING_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if ttlValue := strings.TrimSpace(os.Getenv("BOOKING_ADVISORY_CACHE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "BOOKING_ADVISORY_CACHE_TTL")
		} else {
			cfg.AdvisoryCacheTTL = ttl
		}
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("BOOKING_SHUTDOWN_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "BOOKING_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}
	return nil
}

func (c Config) validate() error {
	invalid := make([]string, 0, 2)
	if c.HTTPPort <= 0 {
		invalid = append(invalid, "http_port")
	}
	if strings.TrimSpace(c.SQLiteDSN) == "" {
		invalid = append(invalid, "sqlite_dsn")
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}
	return nil
}
