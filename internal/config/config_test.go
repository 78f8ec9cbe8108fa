package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", cfg.MinioEndpoint)
	assert.Equal(t, "minioadmin", cfg.MinioAccessKey)
	assert.Equal(t, "weather-raw", cfg.SinkBucket)
	assert.False(t, cfg.MinioUseSSL)

	assert.Equal(t, "https://api.open-meteo.com", cfg.OpenMeteoBaseURL)
	assert.Equal(t, "https://api.openweathermap.org", cfg.OpenWeatherBaseURL)
	assert.Equal(t, "OpenWeatherApiKey", cfg.OpenWeatherSecretName)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 5, cfg.RetryMaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.RetryInitialDelay)

	assert.Equal(t, time.Hour, cfg.IngestInterval)
	assert.Equal(t, 10*time.Minute, cfg.RunTimeout)
	assert.True(t, cfg.BatchedEnabled)
	assert.True(t, cfg.PerCallEnabled)
	assert.Equal(t, 4, cfg.PerCallWorkers)
	assert.Empty(t, cfg.PerCallLocations)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "minio.internal:9000")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("SINK_BUCKET", "weather-staging")
	t.Setenv("OPENMETEO_BASE_URL", "http://localhost:8081")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("RETRY_MAX_ATTEMPTS", "3")
	t.Setenv("RETRY_INITIAL_DELAY", "50ms")
	t.Setenv("INGEST_INTERVAL", "2h")
	t.Setenv("RUN_TIMEOUT", "5m")
	t.Setenv("PERCALL_WORKERS", "8")
	t.Setenv("PERCALL_LOCATIONS", "casablanca, tanger,dakhla")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "minio.internal:9000", cfg.MinioEndpoint)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, "weather-staging", cfg.SinkBucket)
	assert.Equal(t, "http://localhost:8081", cfg.OpenMeteoBaseURL)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.RetryInitialDelay)
	assert.Equal(t, 2*time.Hour, cfg.IngestInterval)
	assert.Equal(t, 5*time.Minute, cfg.RunTimeout)
	assert.Equal(t, 8, cfg.PerCallWorkers)
	assert.Equal(t, []string{"casablanca", "tanger", "dakhla"}, cfg.PerCallLocations)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
}

func TestLoad_NegativeInterval(t *testing.T) {
	t.Setenv("INGEST_INTERVAL", "-1h")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INGEST_INTERVAL")
}

func TestLoad_InvalidWorkers(t *testing.T) {
	t.Setenv("PERCALL_WORKERS", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PERCALL_WORKERS")
}

func TestLoad_BothPipelinesDisabled(t *testing.T) {
	t.Setenv("BATCHED_ENABLED", "false")
	t.Setenv("PERCALL_ENABLED", "false")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RunTimeoutExceedsInterval(t *testing.T) {
	t.Setenv("INGEST_INTERVAL", "5m")
	t.Setenv("RUN_TIMEOUT", "10m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUN_TIMEOUT")
}
