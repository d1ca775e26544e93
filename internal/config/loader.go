package config

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/logger"
)

// EnvPrefix is prepended to every environment override, e.g. MRSA_LOG_LEVEL.
const EnvPrefix = "MRSA"

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", string(constants.LogLevelInfo))
	v.SetDefault("log.format", "json")

	v.SetDefault("keygen.timeout", 0)
	v.SetDefault("keygen.batch_concurrency", constants.DefaultBatchConcurrency)
	v.SetDefault("keygen.max_batch_size", constants.MaxBatchSize)

	v.SetDefault("store.dsn", "mrsa.db")
	v.SetDefault("store.cache_ttl", constants.DefaultCacheTTL)
	v.SetDefault("store.cache_cleanup", constants.DefaultCacheCleanupInterval)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.enable_pprof", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// NewViper builds the viper instance behind LoadConfig. An empty path searches
// for mrsa.yaml in the working directory and /etc/mrsa/.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mrsa")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/mrsa/")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.WrapError(err, constants.ErrCodeInvalidConfig, "failed to read config file")
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Decode unmarshals and validates the current state of v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapError(err, constants.ErrCodeInvalidConfig, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads the configuration from defaults, an optional file and
// MRSA_* environment variables, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// Watch re-decodes the config whenever its file changes and hands valid
// results to onChange. Invalid edits are logged and ignored.
func Watch(v *viper.Viper, log logger.Logger, onChange func(*Config)) {
	v.OnConfigChange(func(ev fsnotify.Event) {
		if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
			return
		}
		cfg, err := Decode(v)
		if err != nil {
			log.Error(context.Background(), "Ignoring invalid config change", err, logger.Fields{"file": ev.Name})
			return
		}
		log.Info(context.Background(), "Config reloaded", logger.Fields{"file": ev.Name})
		onChange(cfg)
	})
	v.WatchConfig()
}
