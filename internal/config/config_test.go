package config_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/mrsa/internal/config"
	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/logger"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mrsa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "mrsa.db", cfg.Store.DSN)
	assert.Equal(t, constants.DefaultCacheTTL, cfg.Store.CacheTTL)
	assert.Equal(t, constants.DefaultBatchConcurrency, cfg.KeyGen.BatchConcurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
log:
  level: warn
keygen:
  timeout: 2s
  batch_concurrency: 2
store:
  dsn: ":memory:"
  cache_ttl: 1m
server:
  port: 9090
`)
	t.Setenv("MRSA_SERVER_PORT", "9191")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 2*time.Second, cfg.KeyGen.Timeout)
	assert.Equal(t, 2, cfg.KeyGen.BatchConcurrency)
	assert.Equal(t, ":memory:", cfg.Store.DSN)
	assert.Equal(t, time.Minute, cfg.Store.CacheTTL)
	assert.Equal(t, 9191, cfg.Server.Port, "environment overrides file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, "log:\n  level: verbose\n")
	_, err := config.LoadConfig(path)
	assert.True(t, errors.HasCode(err, constants.ErrCodeInvalidConfig))

	_, err = config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.HasCode(err, constants.ErrCodeInvalidConfig))
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Log:    config.LogConfig{Level: "info"},
			KeyGen: config.KeyGenConfig{BatchConcurrency: 1, MaxBatchSize: 1},
			Store:  config.StoreConfig{DSN: ":memory:"},
		}
	}
	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.KeyGen.BatchConcurrency = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Store.DSN = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.KeyGen.Timeout = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestWatch_ReloadsAndIgnoresInvalid(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")
	v, err := config.NewViper(path)
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen = map[string]bool{}
	)
	sawLevel := func(level string) func() bool {
		return func() bool {
			mu.Lock()
			defer mu.Unlock()
			return seen[level]
		}
	}
	config.Watch(v, logger.NewNoopLogger(), func(cfg *config.Config) {
		mu.Lock()
		defer mu.Unlock()
		seen[cfg.Log.Level] = true
	})

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))
	assert.Eventually(t, sawLevel("debug"), 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: verbose\n"), 0o600))
	assert.Never(t, sawLevel("verbose"), 500*time.Millisecond, 20*time.Millisecond)

	// the watcher survives an invalid edit
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))
	assert.Eventually(t, sawLevel("error"), 3*time.Second, 20*time.Millisecond)
}
