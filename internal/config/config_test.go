package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  mode: release

database:
  mysql:
    dsn: "user:pass@tcp(db:3306)/applink"
  redis:
    addr: "redis:6379"
    db: 2

bloom:
  capacity: 5000
  error_rate: 0.001

rocketmq:
  nameserver: "mq:9876"

redirect:
  in_app_fallback_ms: 800
  countdown_seconds: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "user:pass@tcp(db:3306)/applink", cfg.Database.MySQL.DSN)
	assert.Equal(t, "redis:6379", cfg.Database.Redis.Addr)
	assert.Equal(t, 2, cfg.Database.Redis.DB)
	assert.Equal(t, int64(5000), cfg.Bloom.Capacity)
	assert.Equal(t, 0.001, cfg.Bloom.ErrorRate)
	assert.Equal(t, "mq:9876", cfg.RocketMQ.NameServer)
	assert.Equal(t, 800, cfg.Redirect.InAppFallbackMS)
	assert.Equal(t, 5, cfg.Redirect.CountdownSeconds)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  mysql:
    dsn: "root@tcp(localhost:3306)/applink"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, int64(100000000), cfg.Bloom.Capacity)
	assert.Equal(t, "click_events", cfg.RocketMQ.Topic)
	assert.Equal(t, "applink_click_consumer_group", cfg.RocketMQ.Group)
	assert.Equal(t, 1000, cfg.Redirect.InAppFallbackMS)
	assert.Equal(t, 2500, cfg.Redirect.UniversalLinkFallbackMS)
	assert.Equal(t, 2000, cfg.Redirect.CustomSchemeFallbackMS)
	assert.Equal(t, 1500, cfg.Redirect.AndroidFallbackMS)
	assert.Equal(t, 3, cfg.Redirect.CountdownSeconds)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_SetsGlobal(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 7070
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, Get())
}

func TestRedirectConfig_Durations(t *testing.T) {
	rc := RedirectConfig{
		InAppFallbackMS:         1000,
		UniversalLinkFallbackMS: 2500,
		CustomSchemeFallbackMS:  2000,
		AndroidFallbackMS:       1500,
		CountdownSeconds:        3,
	}

	assert.Equal(t, time.Second, rc.InAppFallback())
	assert.Equal(t, 2500*time.Millisecond, rc.UniversalLinkFallback())
	assert.Equal(t, 2*time.Second, rc.CustomSchemeFallback())
	assert.Equal(t, 1500*time.Millisecond, rc.AndroidFallback())
	assert.Equal(t, 3*time.Second, rc.Countdown())
}
