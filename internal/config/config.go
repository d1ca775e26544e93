package config

import (
	"strings"
	"time"

	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/errors"
)

// Config holds the application's configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	KeyGen  KeyGenConfig  `mapstructure:"keygen"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type KeyGenConfig struct {
	// Timeout bounds a single key generation; 0 means no limit
	Timeout          time.Duration `mapstructure:"timeout"`
	BatchConcurrency int           `mapstructure:"batch_concurrency"`
	MaxBatchSize     int           `mapstructure:"max_batch_size"`
}

type StoreConfig struct {
	// DSN is the SQLite database path; ":memory:" keeps keys in process
	DSN          string        `mapstructure:"dsn"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	CacheCleanup time.Duration `mapstructure:"cache_cleanup"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	EnablePprof    bool     `mapstructure:"enable_pprof"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case string(constants.LogLevelDebug), string(constants.LogLevelInfo),
		string(constants.LogLevelWarn), string(constants.LogLevelError):
	default:
		return errors.ErrInvalidConfig("log.level", "must be one of debug, info, warn, error")
	}
	if c.KeyGen.Timeout < 0 {
		return errors.ErrInvalidConfig("keygen.timeout", "must not be negative")
	}
	if c.KeyGen.BatchConcurrency < 1 {
		return errors.ErrInvalidConfig("keygen.batch_concurrency", "must be at least 1")
	}
	if c.KeyGen.MaxBatchSize < 1 {
		return errors.ErrInvalidConfig("keygen.max_batch_size", "must be at least 1")
	}
	if c.Store.DSN == "" {
		return errors.ErrInvalidConfig("store.dsn", "must not be empty")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.ErrInvalidConfig("server.port", "must be between 0 and 65535")
	}
	return nil
}
