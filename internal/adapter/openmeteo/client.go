// Package openmeteo implements the batched forecast client. One request
// carries every registry location; the provider answers with one forecast
// block per location, in request order.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/maghrebwx/weather-ingest/internal/adapter/upstream"
	"github.com/maghrebwx/weather-ingest/internal/domain"
)

const providerName = "openmeteo"

// Client fetches batched forecasts from the Open-Meteo API.
type Client struct {
	baseURL string
	getter  *upstream.Getter
	logger  *slog.Logger
}

// NewClient creates an Open-Meteo client on top of the shared fetch policy.
func NewClient(baseURL string, getter *upstream.Getter, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		getter:  getter,
		logger:  logger,
	}
}

// FetchForecast requests one day of hourly and daily data for all locs in
// a single call. The returned series are ordered like locs; a response
// covering a different number of locations fails the whole batch.
func (c *Client) FetchForecast(ctx context.Context, locs []domain.Location) ([]domain.LocationSeries, error) {
	if len(locs) == 0 {
		return nil, &domain.FetchError{Provider: providerName, Err: fmt.Errorf("no locations requested")}
	}

	body, err := c.getter.Get(ctx, c.forecastURL(locs))
	if err != nil {
		return nil, &domain.FetchError{Provider: providerName, Err: err}
	}

	blocks, err := decodeBlocks(body)
	if err != nil {
		return nil, &domain.FetchError{Provider: providerName, Err: err}
	}
	if len(blocks) != len(locs) {
		return nil, &domain.FetchError{
			Provider: providerName,
			Err:      fmt.Errorf("response has %d forecast blocks, requested %d locations", len(blocks), len(locs)),
		}
	}

	series := make([]domain.LocationSeries, len(blocks))
	for i, block := range blocks {
		s, err := block.toSeries()
		if err != nil {
			return nil, &domain.FetchError{Provider: providerName, LocationID: locs[i].ID, Err: err}
		}
		series[i] = s
	}

	c.logger.Debug("batched forecast fetched", "locations", len(locs), "bytes", len(body))
	return series, nil
}

func (c *Client) forecastURL(locs []domain.Location) string {
	lats := make([]string, len(locs))
	lons := make([]string, len(locs))
	for i, loc := range locs {
		lats[i] = strconv.FormatFloat(loc.Lat, 'f', 4, 64)
		lons[i] = strconv.FormatFloat(loc.Lon, 'f', 4, 64)
	}

	params := url.Values{
		"latitude":      {strings.Join(lats, ",")},
		"longitude":     {strings.Join(lons, ",")},
		"hourly":        {strings.Join(domain.HourlyVariables, ",")},
		"daily":         {strings.Join(domain.DailyVariables, ",")},
		"timezone":      {"auto"},
		"forecast_days": {"1"},
		"timeformat":    {"unixtime"},
	}
	return c.baseURL + "/v1/forecast?" + params.Encode()
}

// forecastBlock is one location's slice of the wire response. Hourly values
// arrive as named arrays aligned with the time array; null samples decode
// to NaN and flow through to the artifact unchanged.
type forecastBlock struct {
	Hourly map[string]json.RawMessage `json:"hourly"`
	Daily  struct {
		Sunrise            []int64   `json:"sunrise"`
		Sunset             []int64   `json:"sunset"`
		PrecipitationHours []float64 `json:"precipitation_hours"`
	} `json:"daily"`
}

// decodeBlocks handles the provider's response shape: a JSON array for
// multi-location requests, a bare object for a single location.
func decodeBlocks(body []byte) ([]forecastBlock, error) {
	trimmed := strings.TrimLeft(string(body), " \t\r\n")
	if strings.HasPrefix(trimmed, "[") {
		var blocks []forecastBlock
		if err := json.Unmarshal(body, &blocks); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return blocks, nil
	}

	var single forecastBlock
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return []forecastBlock{single}, nil
}

func (b forecastBlock) toSeries() (domain.LocationSeries, error) {
	if b.Hourly == nil {
		return domain.LocationSeries{}, fmt.Errorf("response has no hourly block")
	}

	var times []int64
	raw, ok := b.Hourly["time"]
	if !ok {
		return domain.LocationSeries{}, fmt.Errorf("hourly block has no time array")
	}
	if err := json.Unmarshal(raw, &times); err != nil {
		return domain.LocationSeries{}, fmt.Errorf("decode hourly time array: %w", err)
	}
	if len(times) == 0 {
		return domain.LocationSeries{}, fmt.Errorf("hourly time array is empty")
	}

	interval := time.Hour
	if len(times) > 1 {
		interval = time.Duration(times[1]-times[0]) * time.Second
	}
	if interval <= 0 {
		return domain.LocationSeries{}, fmt.Errorf("non-increasing hourly time array")
	}

	start := time.Unix(times[0], 0).UTC()
	end := time.Unix(times[len(times)-1], 0).UTC().Add(interval)

	values := make(map[string][]float64, len(domain.HourlyVariables))
	for _, name := range domain.HourlyVariables {
		raw, ok := b.Hourly[name]
		if !ok {
			// Leave the variable out; the normalizer reports it
			// against the right location.
			continue
		}
		var samples []*float64
		if err := json.Unmarshal(raw, &samples); err != nil {
			return domain.LocationSeries{}, fmt.Errorf("decode hourly %s: %w", name, err)
		}
		vals := make([]float64, len(samples))
		for i, s := range samples {
			if s == nil {
				vals[i] = math.NaN()
				continue
			}
			vals[i] = *s
		}
		values[name] = vals
	}

	series := domain.LocationSeries{
		Hourly: domain.HourlySeries{
			Start:    start,
			End:      end,
			Interval: interval,
			Values:   values,
		},
		Daily: domain.DailySummary{
			Sunrise:            unixTimes(b.Daily.Sunrise),
			Sunset:             unixTimes(b.Daily.Sunset),
			PrecipitationHours: b.Daily.PrecipitationHours,
		},
	}
	return series, nil
}

func unixTimes(ts []int64) []time.Time {
	if len(ts) == 0 {
		return nil
	}
	out := make([]time.Time, len(ts))
	for i, t := range ts {
		out[i] = time.Unix(t, 0).UTC()
	}
	return out
}
