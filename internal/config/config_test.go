package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  host: 127.0.0.1
  port: 9090
  mode: release
database:
  host: db.internal
  port: 5432
  user: app
  password: pw
  dbname: hedge_analytics
  sslmode: disable
jwt:
  secret: yaml-secret
  expire_hours: 12
market:
  cache_minutes: 15
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "yaml-secret", cfg.JWT.Secret)
	assert.Equal(t, 12, cfg.JWT.ExpireHours)
	assert.Equal(t, 15, cfg.Market.CacheMinutes)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)

	// Unset sections fall back to defaults
	assert.Equal(t, 15, cfg.Market.RefreshMinutes, "refresh defaults to the cache TTL")
	assert.Equal(t, []string{"lithium_carbonate"}, cfg.Market.Symbols)
	assert.Equal(t, 60, cfg.Cleanup.IntervalMinutes)
	assert.Equal(t, "logs", cfg.Log.Dir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8088")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("CLEANUP_INTERVAL_MINUTES", "5")

	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 5, cfg.Cleanup.IntervalMinutes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)

	dsn := cfg.Database.DSN()
	assert.Equal(t, "host=db.internal port=5432 user=app password=pw dbname=hedge_analytics sslmode=disable", dsn)
}
