// Package scheduler drives the ingestion pipelines on a fixed interval.
// A run fires immediately on startup and then on every tick; pipeline
// failures and panics are absorbed into run results so the loop itself
// never dies.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/maghrebwx/weather-ingest/internal/domain"
	"github.com/maghrebwx/weather-ingest/internal/observability"
)

// Pipeline is one ingestion variant the scheduler triggers each interval.
type Pipeline interface {
	Name() string
	Run(ctx context.Context) domain.RunResult
}

// Scheduler runs all registered pipelines once per interval.
type Scheduler struct {
	pipelines  []Pipeline
	interval   time.Duration
	runTimeout time.Duration
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
}

// New creates a scheduler over the given pipelines.
func New(pipelines []Pipeline, interval, runTimeout time.Duration, clock clockwork.Clock,
	logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		pipelines:  pipelines,
		interval:   interval,
		runTimeout: runTimeout,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run executes the schedule until the context is cancelled. The first
// trigger happens immediately, not after the first interval.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"interval", s.interval, "run_timeout", s.runTimeout, "pipelines", len(s.pipelines))
	s.metrics.SchedulerRunning.Set(1)
	defer s.metrics.SchedulerRunning.Set(0)

	s.RunOnce(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			s.RunOnce(ctx)
		}
	}
}

// RunOnce triggers every pipeline once, sequentially, each under the run
// timeout. Used by the scheduler loop and by one-shot invocations.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	for _, p := range s.pipelines {
		res := s.runPipeline(ctx, p)
		s.observe(res)
	}
	s.ready.Store(true)
}

// CheckReadiness returns nil once the first trigger has completed.
func (s *Scheduler) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no ingestion run has completed yet")
	}
	return nil
}

// runPipeline executes one pipeline under the run timeout, converting a
// panic into a total-failure result.
func (s *Scheduler) runPipeline(ctx context.Context, p Pipeline) (res domain.RunResult) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			res = domain.RunResult{
				Pipeline: p.Name(),
				Outcome:  domain.OutcomeTotalFailure,
				Err:      fmt.Errorf("pipeline panic: %v", r),
			}
		}
	}()

	return p.Run(runCtx)
}

func (s *Scheduler) observe(res domain.RunResult) {
	s.metrics.RunsTotal.WithLabelValues(res.Pipeline, string(res.Outcome)).Inc()
	s.metrics.RunDuration.WithLabelValues(res.Pipeline).Observe(res.Duration.Seconds())

	attrs := []any{
		"pipeline", res.Pipeline,
		"outcome", string(res.Outcome),
		"records", res.Records,
		"artifacts", len(res.Keys),
		"duration", res.Duration,
	}
	switch res.Outcome {
	case domain.OutcomeSuccess:
		s.logger.Info("ingestion run completed", attrs...)
	case domain.OutcomePartialFailure:
		s.logger.Warn("ingestion run partially failed", attrs...)
	default:
		s.logger.Error("ingestion run failed", append(attrs, "error", res.Err)...)
	}
}
