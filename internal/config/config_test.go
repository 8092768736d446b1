package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://api.census.gov/data", cfg.CensusBaseURL)
	assert.Equal(t, "https://api.bls.gov/publicAPI/v2/timeseries/data/", cfg.BLSBaseURL)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Empty(t, cfg.CensusAPIKey)
	assert.Empty(t, cfg.BLSAPIKey)
	assert.False(t, cfg.PublishEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CENSUS_API_KEY", "census-key")
	t.Setenv("BLS_API_KEY", "bls-key")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "city-analyses")
	t.Setenv("PUBLISH_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "census-key", cfg.CensusAPIKey)
	assert.Equal(t, "bls-key", cfg.BLSAPIKey)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "city-analyses", cfg.KafkaSinkTopic)
	assert.True(t, cfg.PublishEnabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cityscout.yaml")
	content := []byte(`
http_addr: ":7070"
log_format: text
census_api_key: file-census-key
upstream_timeout: 15s
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("CITYSCOUT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "file-census-key", cfg.CensusAPIKey)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	// Untouched keys keep defaults.
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cityscout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":7070\"\n"), 0o600))
	t.Setenv("CITYSCOUT_CONFIG", path)
	t.Setenv("HTTP_ADDR", ":9191")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9191", cfg.HTTPAddr)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad upstream timeout", func(t *testing.T) {
		t.Setenv("UPSTREAM_TIMEOUT", "soon")
		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidUpstreamTimeout)
	})

	t.Run("negative shutdown timeout", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "-5s")
		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidShutdownTimeout)
	})

	t.Run("publish without brokers", func(t *testing.T) {
		t.Setenv("PUBLISH_ENABLED", "true")
		t.Setenv("KAFKA_SINK_TOPIC", "city-analyses")
		_, err := Load()
		assert.ErrorIs(t, err, ErrPublishWithoutBrokers)
	})

	t.Run("publish without topic", func(t *testing.T) {
		t.Setenv("PUBLISH_ENABLED", "true")
		t.Setenv("KAFKA_BROKERS", "localhost:9092")
		_, err := Load()
		assert.ErrorIs(t, err, ErrPublishWithoutTopic)
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Setenv("CITYSCOUT_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load()
		assert.Error(t, err)
	})
}
