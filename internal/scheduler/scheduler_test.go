package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maghrebwx/weather-ingest/internal/domain"
	"github.com/maghrebwx/weather-ingest/internal/observability"
)

// countingPipeline records triggers and returns a canned outcome.
type countingPipeline struct {
	name    string
	runs    atomic.Int32
	outcome domain.Outcome
	panics  bool
}

func (p *countingPipeline) Name() string { return p.name }

func (p *countingPipeline) Run(_ context.Context) domain.RunResult {
	p.runs.Add(1)
	if p.panics {
		panic("index out of range")
	}
	return domain.RunResult{Pipeline: p.name, Outcome: p.outcome}
}

func newScheduler(clock clockwork.Clock, pipelines ...Pipeline) *Scheduler {
	return New(pipelines, time.Hour, 10*time.Minute, clock,
		slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

func TestRun_TriggersOnStartAndEveryInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := &countingPipeline{name: "batched", outcome: domain.OutcomeSuccess}
	s := newScheduler(clock, p)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Startup trigger.
	require.Eventually(t, func() bool { return p.runs.Load() == 1 },
		time.Second, time.Millisecond)

	// One more trigger per elapsed interval.
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Hour)
	require.Eventually(t, func() bool { return p.runs.Load() == 2 },
		time.Second, time.Millisecond)

	clock.Advance(time.Hour)
	require.Eventually(t, func() bool { return p.runs.Load() == 3 },
		time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRun_AllPipelinesTriggered(t *testing.T) {
	clock := clockwork.NewFakeClock()
	batched := &countingPipeline{name: "batched", outcome: domain.OutcomeSuccess}
	percall := &countingPipeline{name: "percall", outcome: domain.OutcomeSuccess}
	s := newScheduler(clock, batched, percall)

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), batched.runs.Load())
	assert.Equal(t, int32(1), percall.runs.Load())
}

func TestRun_SurvivesFailingPipeline(t *testing.T) {
	clock := clockwork.NewFakeClock()
	failing := &countingPipeline{name: "batched", outcome: domain.OutcomeTotalFailure}
	healthy := &countingPipeline{name: "percall", outcome: domain.OutcomeSuccess}
	s := newScheduler(clock, failing, healthy)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Hour)
	require.Eventually(t, func() bool { return healthy.runs.Load() == 2 },
		time.Second, time.Millisecond)
	assert.Equal(t, int32(2), failing.runs.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestRun_SurvivesPanickingPipeline(t *testing.T) {
	clock := clockwork.NewFakeClock()
	panicking := &countingPipeline{name: "batched", panics: true}
	healthy := &countingPipeline{name: "percall", outcome: domain.OutcomeSuccess}
	s := newScheduler(clock, panicking, healthy)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Hour)
	// The panicking pipeline never blocks the next one or the next tick.
	require.Eventually(t, func() bool { return healthy.runs.Load() == 2 },
		time.Second, time.Millisecond)
	assert.Equal(t, int32(2), panicking.runs.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestCheckReadiness(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := &countingPipeline{name: "batched", outcome: domain.OutcomeSuccess}
	s := newScheduler(clock, p)

	require.Error(t, s.CheckReadiness(context.Background()))

	s.RunOnce(context.Background())
	assert.NoError(t, s.CheckReadiness(context.Background()))
}

func TestRunOnce_SkipsWhenCancelled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := &countingPipeline{name: "batched", outcome: domain.OutcomeSuccess}
	s := newScheduler(clock, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunOnce(ctx)

	assert.Zero(t, p.runs.Load())
	assert.Error(t, s.CheckReadiness(context.Background()))
}
