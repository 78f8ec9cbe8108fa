package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maghrebwx/weather-ingest/internal/adapter/upstream"
	"github.com/maghrebwx/weather-ingest/internal/domain"
	"github.com/maghrebwx/weather-ingest/internal/observability"
)

var tanger = domain.Location{ID: "tanger", Label: "Tanger", Lat: 35.7595, Lon: -5.8340}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	getter := &upstream.Getter{
		Provider:     "openweather",
		Client:       &http.Client{Timeout: 5 * time.Second},
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		Metrics:      observability.NewMetricsForTesting(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return NewClient(srv.URL, getter, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchCurrent(t *testing.T) {
	const payload = `{"weather":[{"main":"Clear"}],"main":{"temp":21.4},"name":"Tangier"}`

	var gotPath string
	var gotQuery url.Values
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(payload))
	})

	body, err := c.FetchCurrent(context.Background(), tanger, "sk-test")
	require.NoError(t, err)

	// The provider body is preserved verbatim.
	assert.Equal(t, payload, string(body))

	assert.Equal(t, "/data/2.5/weather", gotPath)
	assert.Equal(t, "35.7595", gotQuery.Get("lat"))
	assert.Equal(t, "-5.8340", gotQuery.Get("lon"))
	assert.Equal(t, "sk-test", gotQuery.Get("appid"))
	assert.Equal(t, "metric", gotQuery.Get("units"))
}

func TestFetchCurrent_InvalidJSON(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	})

	_, err := c.FetchCurrent(context.Background(), tanger, "sk-test")
	require.Error(t, err)

	var ferr *domain.FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "openweather", ferr.Provider)
	assert.Equal(t, "tanger", ferr.LocationID)
}

func TestFetchCurrent_UpstreamFailure(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.FetchCurrent(context.Background(), tanger, "bad-key")
	require.Error(t, err)

	var ferr *domain.FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "tanger", ferr.LocationID)
	assert.Contains(t, err.Error(), "status 401")
}
