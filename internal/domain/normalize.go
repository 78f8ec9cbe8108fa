package domain

import (
	"fmt"
	"time"
)

// NormalizeBatched flattens a batched forecast response into observation
// records. series must be ordered identically to locs; the provider
// guarantees response order matches request order and the client verifies
// the counts agree before normalization runs.
func NormalizeBatched(series []LocationSeries, locs []Location) ([]ObservationRecord, error) {
	if len(series) != len(locs) {
		return nil, &NormalizationError{
			Reason: fmt.Sprintf("response covers %d locations, requested %d", len(series), len(locs)),
		}
	}

	var records []ObservationRecord
	for i := range series {
		recs, err := normalizeSeries(series[i].Hourly, locs[i])
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// normalizeSeries expands one location's hourly series into records, one
// per timestamp on the half-open [Start, End) axis. Every record covers
// the full HourlyVariables schema; a variable that is absent or shorter
// than the time axis is a provider contract violation.
func normalizeSeries(h HourlySeries, loc Location) ([]ObservationRecord, error) {
	if h.Interval <= 0 {
		return nil, &NormalizationError{LocationID: loc.ID, Reason: "non-positive sampling interval"}
	}
	if h.End.Before(h.Start) {
		return nil, &NormalizationError{LocationID: loc.ID, Reason: "time axis end precedes start"}
	}

	n := h.TimestampCount()
	for _, name := range HourlyVariables {
		vals, ok := h.Values[name]
		if !ok {
			return nil, &NormalizationError{LocationID: loc.ID, Variable: name, Reason: "missing from response"}
		}
		if len(vals) < n {
			return nil, &NormalizationError{
				LocationID: loc.ID,
				Variable:   name,
				Reason:     fmt.Sprintf("%d values for %d timestamps", len(vals), n),
			}
		}
	}

	records := make([]ObservationRecord, 0, n)
	for i := 0; i < n; i++ {
		values := make(map[string]float64, len(HourlyVariables))
		for _, name := range HourlyVariables {
			values[name] = h.Values[name][i]
		}
		records = append(records, ObservationRecord{
			LocationID: loc.ID,
			City:       loc.Label,
			Timestamp:  h.Start.Add(time.Duration(i) * h.Interval).UTC(),
			Values:     values,
		})
	}
	return records, nil
}
