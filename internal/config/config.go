package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Object storage sink.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	SinkBucket     string

	// Upstream providers.
	OpenMeteoBaseURL      string
	OpenWeatherBaseURL    string
	OpenWeatherSecretName string
	FetchTimeout          time.Duration
	CacheTTL              time.Duration
	RetryMaxAttempts      int
	RetryInitialDelay     time.Duration

	// Scheduling.
	IngestInterval time.Duration
	RunTimeout     time.Duration

	// Pipeline selection.
	BatchedEnabled   bool
	PerCallEnabled   bool
	PerCallWorkers   int
	PerCallLocations []string // location ids; empty means the full registry

	// HTTP and process settings.
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		MinioEndpoint:  envOrDefault("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: envOrDefault("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: envOrDefault("MINIO_SECRET_KEY", "minioadmin"),
		SinkBucket:     envOrDefault("SINK_BUCKET", "weather-raw"),

		OpenMeteoBaseURL:      envOrDefault("OPENMETEO_BASE_URL", "https://api.open-meteo.com"),
		OpenWeatherBaseURL:    envOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),
		OpenWeatherSecretName: envOrDefault("OPENWEATHER_SECRET_NAME", "OpenWeatherApiKey"),

		HTTPAddr:  envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.MinioUseSSL, err = parseBool("MINIO_USE_SSL", false); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = parseDuration("FETCH_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RetryMaxAttempts, err = parseInt("RETRY_MAX_ATTEMPTS", 5); err != nil {
		return nil, err
	}
	if cfg.RetryInitialDelay, err = parseDuration("RETRY_INITIAL_DELAY", 200*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.IngestInterval, err = parseDuration("INGEST_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RunTimeout, err = parseDuration("RUN_TIMEOUT", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.BatchedEnabled, err = parseBool("BATCHED_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.PerCallEnabled, err = parseBool("PERCALL_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.PerCallWorkers, err = parseInt("PERCALL_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if v := os.Getenv("PERCALL_LOCATIONS"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.PerCallLocations = append(cfg.PerCallLocations, id)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MinioEndpoint == "" {
		return fmt.Errorf("MINIO_ENDPOINT is required")
	}
	if c.SinkBucket == "" {
		return fmt.Errorf("SINK_BUCKET is required")
	}
	if c.OpenWeatherSecretName == "" {
		return fmt.Errorf("OPENWEATHER_SECRET_NAME is required")
	}
	if !c.BatchedEnabled && !c.PerCallEnabled {
		return fmt.Errorf("at least one of BATCHED_ENABLED and PERCALL_ENABLED must be true")
	}
	if c.RunTimeout > c.IngestInterval {
		return fmt.Errorf("RUN_TIMEOUT must not exceed INGEST_INTERVAL")
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return b, nil
}
