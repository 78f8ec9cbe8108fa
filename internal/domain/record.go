package domain

import "time"

// HourlyVariables is the fixed hourly schema requested from the forecast
// provider. The order here is the artifact column order; the normalizer
// addresses response arrays by these names, never by position.
var HourlyVariables = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"apparent_temperature",
	"precipitation",
	"rain",
	"snowfall",
	"snow_depth",
	"wind_speed_10m",
	"wind_direction_10m",
	"wind_gusts_10m",
	"is_day",
	"dew_point_2m",
	"pressure_msl",
	"surface_pressure",
	"cloud_cover",
	"cloud_cover_low",
	"cloud_cover_mid",
	"cloud_cover_high",
	"shortwave_radiation",
	"direct_radiation",
}

// DailyVariables is the per-day set requested alongside the hourly schema.
// These are decoded into DailySummary but not joined into hourly records.
var DailyVariables = []string{"sunrise", "sunset", "precipitation_hours"}

// HourlySeries is one location's hourly slice of a batched forecast
// response: a half-open time axis [Start, End) sampled every Interval,
// with one named value array per variable.
type HourlySeries struct {
	Start    time.Time
	End      time.Time
	Interval time.Duration
	Values   map[string][]float64
}

// TimestampCount returns the number of samples on the [Start, End) axis.
func (h HourlySeries) TimestampCount() int {
	if h.Interval <= 0 || h.End.Before(h.Start) {
		return 0
	}
	return int(h.End.Sub(h.Start) / h.Interval)
}

// DailySummary holds the per-day fields fetched with a batched response.
type DailySummary struct {
	Sunrise            []time.Time
	Sunset             []time.Time
	PrecipitationHours []float64
}

// LocationSeries is one location's portion of a batched forecast response.
type LocationSeries struct {
	Hourly HourlySeries
	Daily  DailySummary
}

// ObservationRecord is the normalized unit: one location, one timestamp,
// and a value for every variable in HourlyVariables.
type ObservationRecord struct {
	LocationID string
	City       string // label written to the artifact's city column
	Timestamp  time.Time
	Values     map[string]float64
}
