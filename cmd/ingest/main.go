// Command ingest runs the weather ingestion service: an hourly scheduler
// driving the batched Open-Meteo pipeline and the per-location OpenWeather
// pipeline, writing raw artifacts to object storage.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/maghrebwx/weather-ingest/internal/adapter/blob"
	httpadapter "github.com/maghrebwx/weather-ingest/internal/adapter/http"
	"github.com/maghrebwx/weather-ingest/internal/adapter/httpcache"
	"github.com/maghrebwx/weather-ingest/internal/adapter/openmeteo"
	"github.com/maghrebwx/weather-ingest/internal/adapter/openweather"
	"github.com/maghrebwx/weather-ingest/internal/adapter/secrets"
	"github.com/maghrebwx/weather-ingest/internal/adapter/upstream"
	"github.com/maghrebwx/weather-ingest/internal/config"
	"github.com/maghrebwx/weather-ingest/internal/observability"
	"github.com/maghrebwx/weather-ingest/internal/pipeline"
	"github.com/maghrebwx/weather-ingest/internal/registry"
	"github.com/maghrebwx/weather-ingest/internal/scheduler"
)

func main() {
	once := flag.Bool("once", false, "trigger one ingestion run and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if err := registry.Validate(); err != nil {
		logger.Error("location registry is invalid", "error", err)
		os.Exit(1)
	}

	sink, err := blob.NewWriter(cfg, logger)
	if err != nil {
		logger.Error("failed to create sink", "error", err)
		os.Exit(1)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = sink.EnsureBucket(startupCtx)
	startupCancel()
	if err != nil {
		logger.Error("failed to ensure sink bucket", "error", err)
		os.Exit(1)
	}

	pipelines, err := buildPipelines(cfg, sink, logger, metrics)
	if err != nil {
		logger.Error("failed to build pipelines", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(pipelines, cfg.IngestInterval, cfg.RunTimeout,
		clockwork.NewRealClock(), logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		sched.RunOnce(ctx)
		return
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, sched, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := sched.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// buildPipelines wires the enabled pipelines. Both providers share one
// response cache and the same retry policy; only the provider label and
// base URL differ.
func buildPipelines(cfg *config.Config, sink *blob.Writer, logger *slog.Logger, metrics *observability.Metrics) ([]scheduler.Pipeline, error) {
	cache := httpcache.New(cfg.CacheTTL)
	httpClient := &http.Client{Timeout: cfg.FetchTimeout}

	newGetter := func(provider string) *upstream.Getter {
		return &upstream.Getter{
			Provider:     provider,
			Client:       httpClient,
			Cache:        cache,
			MaxAttempts:  cfg.RetryMaxAttempts,
			InitialDelay: cfg.RetryInitialDelay,
			Metrics:      metrics,
			Logger:       logger,
		}
	}

	var pipelines []scheduler.Pipeline

	if cfg.BatchedEnabled {
		client := openmeteo.NewClient(cfg.OpenMeteoBaseURL, newGetter("openmeteo"), logger)
		batched := pipeline.NewBatched(client, sink, registry.All(), logger, metrics)
		pipelines = append(pipelines, batched)
		logger.Info("batched pipeline enabled", "locations", len(registry.All()))
	}

	if cfg.PerCallEnabled {
		locs, err := registry.Select(cfg.PerCallLocations)
		if err != nil {
			return nil, err
		}
		client := openweather.NewClient(cfg.OpenWeatherBaseURL, newGetter("openweather"), logger)
		percall := pipeline.NewPerCall(client, sink, secrets.NewEnvStore(), cfg.OpenWeatherSecretName,
			locs, cfg.PerCallWorkers, logger, metrics)
		pipelines = append(pipelines, percall)
		logger.Info("per-call pipeline enabled",
			"locations", len(locs), "workers", cfg.PerCallWorkers,
			"secret_env", secrets.EnvName(cfg.OpenWeatherSecretName))
	}

	return pipelines, nil
}
