// Package openweather implements the per-location snapshot client. Each
// location is fetched in its own call and the raw provider body is kept
// verbatim for the JSON artifact.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/maghrebwx/weather-ingest/internal/adapter/upstream"
	"github.com/maghrebwx/weather-ingest/internal/domain"
)

const providerName = "openweather"

// Client fetches current-conditions snapshots from the OpenWeather API.
type Client struct {
	baseURL string
	getter  *upstream.Getter
	logger  *slog.Logger
}

// NewClient creates an OpenWeather client on top of the shared fetch policy.
func NewClient(baseURL string, getter *upstream.Getter, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		getter:  getter,
		logger:  logger,
	}
}

// FetchCurrent returns the raw response body for one location's current
// conditions. The body is validated as JSON but not decoded; the artifact
// preserves the provider payload byte for byte.
func (c *Client) FetchCurrent(ctx context.Context, loc domain.Location, apiKey string) ([]byte, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(loc.Lat, 'f', 4, 64)},
		"lon":   {strconv.FormatFloat(loc.Lon, 'f', 4, 64)},
		"appid": {apiKey},
		"units": {"metric"},
	}

	body, err := c.getter.Get(ctx, c.baseURL+"/data/2.5/weather?"+params.Encode())
	if err != nil {
		return nil, &domain.FetchError{Provider: providerName, LocationID: loc.ID, Err: err}
	}
	if !json.Valid(body) {
		return nil, &domain.FetchError{
			Provider:   providerName,
			LocationID: loc.ID,
			Err:        fmt.Errorf("response is not valid JSON"),
		}
	}

	c.logger.Debug("snapshot fetched", "location", loc.ID, "bytes", len(body))
	return body, nil
}
