package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
environment = "development"
host = "localhost"
port = 9000
log_level = "trace"
log_to_stdout = true
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
secure_cookies = false

[production]
environment = "production"
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/admingate/service.log"
sentry_enabled = true
redis_host = "redis"
redis_port = "6379"
prometheus_metrics_host = ""
prometheus_metrics_port = "2112"
secure_cookies = true
`

func TestLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfigContent), 0o600))

	devCfg, err := Load("development", configPath)
	require.NoError(t, err)
	assert.Equal(t, "localhost", devCfg.Host)
	assert.Equal(t, 9000, devCfg.Port)
	assert.Equal(t, "trace", devCfg.LogLevel)
	assert.False(t, devCfg.SecureCookies)

	prodCfg, err := Load("prod", configPath)
	require.NoError(t, err)
	assert.Equal(t, "production", prodCfg.Environment)
	assert.True(t, prodCfg.SecureCookies)
	assert.True(t, prodCfg.SentryEnabled)
	assert.Equal(t, "redis", prodCfg.RedisHost)
}

func TestLoad_unknownEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfigContent), 0o600))

	_, err := Load("staging", configPath)
	assert.ErrorContains(t, err, "unknown env")
}

func TestLoad_missingFile(t *testing.T) {
	_, err := Load("dev", filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
