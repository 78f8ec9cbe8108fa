package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maghrebwx/weather-ingest/internal/domain"
	"github.com/maghrebwx/weather-ingest/internal/observability"
)

// SnapshotFetcher fetches one location's current conditions.
type SnapshotFetcher interface {
	FetchCurrent(ctx context.Context, loc domain.Location, apiKey string) ([]byte, error)
}

// SecretResolver resolves a named secret at run time. The key is resolved
// every run so a rotated secret takes effect without a restart.
type SecretResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// PerCall is the per-location pipeline: one provider call and one JSON
// artifact per location, fanned out over a bounded worker pool. A failed
// location never blocks the others; only secret resolution is fatal to
// the whole run.
type PerCall struct {
	fetcher    SnapshotFetcher
	sink       SinkWriter
	secrets    SecretResolver
	secretName string
	locations  []domain.Location
	workers    int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewPerCall creates the per-location pipeline over the given locations.
func NewPerCall(fetcher SnapshotFetcher, sink SinkWriter, secrets SecretResolver, secretName string,
	locations []domain.Location, workers int, logger *slog.Logger, metrics *observability.Metrics) *PerCall {
	if workers < 1 {
		workers = 1
	}
	return &PerCall{
		fetcher:    fetcher,
		sink:       sink,
		secrets:    secrets,
		secretName: secretName,
		locations:  locations,
		workers:    workers,
		logger:     logger,
		metrics:    metrics,
	}
}

// Name identifies the pipeline in results, logs, and metric labels.
func (p *PerCall) Name() string { return "percall" }

// Run executes one per-location cycle. All artifact keys share the run's
// start instant, so the run forms one consistent hour partition.
func (p *PerCall) Run(ctx context.Context) (res domain.RunResult) {
	started := domain.Now()
	res.Pipeline = p.Name()
	defer func() { res.Duration = domain.Now().Sub(started) }()

	apiKey, err := p.secrets.Resolve(ctx, p.secretName)
	if err != nil {
		res.Outcome = domain.OutcomeTotalFailure
		res.Err = err
		return res
	}

	type job struct {
		idx int
		loc domain.Location
	}

	jobs := make(chan job)
	units := make([]domain.UnitResult, len(p.locations))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				units[j.idx] = p.processLocation(ctx, j.loc, apiKey, started)
			}
		}()
	}

	for i, loc := range p.locations {
		jobs <- job{idx: i, loc: loc}
	}
	close(jobs)
	wg.Wait()

	for _, u := range units {
		if u.OK() {
			res.Records++
			res.Keys = append(res.Keys, u.Key)
			continue
		}
		p.metrics.LocationFailures.WithLabelValues(p.Name()).Inc()
		p.logger.Warn("location ingestion failed",
			"pipeline", p.Name(), "location", u.LocationID, "error", u.Err)
	}

	res.Units = units
	res.Outcome = domain.OutcomeForUnits(units)
	p.metrics.ArtifactsWritten.WithLabelValues(p.Name()).Add(float64(res.Records))
	return res
}

// processLocation fetches and stores one location's snapshot. A cancelled
// run fails remaining locations without touching the provider.
func (p *PerCall) processLocation(ctx context.Context, loc domain.Location, apiKey string, started time.Time) domain.UnitResult {
	unit := domain.UnitResult{LocationID: loc.ID}

	if err := ctx.Err(); err != nil {
		unit.Err = err
		return unit
	}

	body, err := p.fetcher.FetchCurrent(ctx, loc, apiKey)
	if err != nil {
		unit.Err = err
		return unit
	}

	key := domain.SnapshotObjectKey(started, loc.Label)
	if err := p.sink.Write(ctx, key, body, "application/json"); err != nil {
		unit.Err = err
		return unit
	}

	unit.Key = key
	return unit
}
