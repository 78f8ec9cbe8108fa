// Package upstream implements the HTTP fetch policy shared by the provider
// clients: TTL response caching, bounded exponential-backoff retry, and
// per-provider request metrics.
package upstream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/maghrebwx/weather-ingest/internal/observability"
)

// Cache is the response cache consulted before any network request.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, body []byte)
}

// Getter performs GET requests against one upstream provider.
type Getter struct {
	Provider     string // metric label, e.g. "openmeteo"
	Client       *http.Client
	Cache        Cache // optional; nil disables caching
	MaxAttempts  int
	InitialDelay time.Duration
	Metrics      *observability.Metrics
	Logger       *slog.Logger
}

// Get fetches fullURL, returning the response body. Cached bodies are
// served without touching the network. Network errors, 5xx, and 429
// responses are retried with exponential backoff up to MaxAttempts total
// attempts; any other non-2xx status fails immediately.
func (g *Getter) Get(ctx context.Context, fullURL string) ([]byte, error) {
	if g.Cache != nil {
		if body, ok := g.Cache.Get(fullURL); ok {
			g.Metrics.CacheLookups.WithLabelValues(g.Provider, "hit").Inc()
			return body, nil
		}
		g.Metrics.CacheLookups.WithLabelValues(g.Provider, "miss").Inc()
	}

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		b, err := g.doRequest(ctx, fullURL)
		if err != nil {
			if attempt < g.MaxAttempts {
				g.Logger.Warn("upstream request failed, retrying",
					"provider", g.Provider, "attempt", attempt, "error", err)
			}
			return err
		}
		body = b
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.InitialDelay

	policy := backoff.WithMaxRetries(backoff.WithContext(bo, ctx), uint64(g.MaxAttempts-1))
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	if g.Cache != nil {
		g.Cache.Put(fullURL, body)
	}
	return body, nil
}

// doRequest performs a single attempt. Non-retryable failures come back
// wrapped in backoff.Permanent so the retry loop stops immediately.
func (g *Getter) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	start := time.Now()
	resp, err := g.Client.Do(req)
	g.Metrics.UpstreamRequestDuration.WithLabelValues(g.Provider).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", g.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := fmt.Errorf("%s API error: status %d: %s", g.Provider, resp.StatusCode, snippet)
		if retryableStatus(resp.StatusCode) {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", g.Provider, err)
	}
	return body, nil
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}
