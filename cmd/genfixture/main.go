// Command genfixture generates a synthetic Open-Meteo wire response for
// the full location registry, plus the CSV artifact the batched pipeline
// would produce from it. It runs the actual normalizer and encoder so the
// fixtures always match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfixture \
//	  -wire-out data/fixtures/openmeteo_response.json \
//	  -csv-out data/fixtures/expected_artifact.csv
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/maghrebwx/weather-ingest/internal/domain"
	"github.com/maghrebwx/weather-ingest/internal/pipeline"
	"github.com/maghrebwx/weather-ingest/internal/registry"
)

var baseDate = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

const samplesPerDay = 24

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	wireOut := flag.String("wire-out", "", "output path for the synthetic wire response")
	csvOut := flag.String("csv-out", "", "output path for the expected CSV artifact")
	flag.Parse()

	if *wireOut == "" || *csvOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -wire-out, -csv-out")
	}

	// Fixed clock so reruns produce byte-identical fixtures.
	domain.SetClock(clockwork.NewFakeClockAt(baseDate.Add(14 * time.Hour)))
	defer domain.SetClock(nil)

	locs := registry.All()

	blocks := make([]map[string]any, len(locs))
	series := make([]domain.LocationSeries, len(locs))
	for i, loc := range locs {
		blocks[i], series[i] = synthesize(i, loc)
	}

	if err := writeJSON(*wireOut, blocks); err != nil {
		return fmt.Errorf("writing wire fixture: %w", err)
	}
	log.Printf("wrote wire fixture: %s (%d locations)", *wireOut, len(blocks))

	records, err := domain.NormalizeBatched(series, locs)
	if err != nil {
		return fmt.Errorf("normalizing synthetic series: %w", err)
	}

	payload, err := pipeline.EncodeCSV(records)
	if err != nil {
		return fmt.Errorf("encoding expected artifact: %w", err)
	}
	if err := writeFile(*csvOut, payload); err != nil {
		return fmt.Errorf("writing csv fixture: %w", err)
	}
	log.Printf("wrote csv fixture: %s (%d records)", *csvOut, len(records))
	log.Printf("artifact key for this window: %s", domain.BatchedObjectKey(domain.Now()))

	return nil
}

// synthesize builds one location's wire block and its decoded series. The
// values are a smooth deterministic function of location and hour so a
// diff against the expected artifact pinpoints misplaced samples.
func synthesize(locIdx int, loc domain.Location) (map[string]any, domain.LocationSeries) {
	times := make([]int64, samplesPerDay)
	for h := range times {
		times[h] = baseDate.Add(time.Duration(h) * time.Hour).Unix()
	}

	hourly := map[string]any{"time": times}
	values := make(map[string][]float64, len(domain.HourlyVariables))
	for vi, name := range domain.HourlyVariables {
		vals := make([]float64, samplesPerDay)
		for h := range vals {
			base := float64(vi*10) + loc.Lat/10
			vals[h] = math.Round((base+5*math.Sin(float64(h)/24*2*math.Pi))*100) / 100
		}
		hourly[name] = vals
		values[name] = vals
	}

	sunrise := baseDate.Add(7 * time.Hour).Add(time.Duration(locIdx) * time.Minute)
	sunset := baseDate.Add(18 * time.Hour).Add(time.Duration(locIdx) * time.Minute)

	block := map[string]any{
		"latitude":  loc.Lat,
		"longitude": loc.Lon,
		"hourly":    hourly,
		"daily": map[string]any{
			"time":                []int64{baseDate.Unix()},
			"sunrise":             []int64{sunrise.Unix()},
			"sunset":              []int64{sunset.Unix()},
			"precipitation_hours": []float64{float64(locIdx % 5)},
		},
	}

	series := domain.LocationSeries{
		Hourly: domain.HourlySeries{
			Start:    baseDate,
			End:      baseDate.Add(samplesPerDay * time.Hour),
			Interval: time.Hour,
			Values:   values,
		},
		Daily: domain.DailySummary{
			Sunrise:            []time.Time{sunrise},
			Sunset:             []time.Time{sunset},
			PrecipitationHours: []float64{float64(locIdx % 5)},
		},
	}
	return block, series
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
