package domain

import "fmt"

// Location is a named geographic point tracked by the ingestion pipelines.
// Locations are immutable for the lifetime of a run.
type Location struct {
	ID    string  // stable slug used to tag records, e.g. "casablanca"
	Label string  // display name used in per-call artifact paths, e.g. "Casablanca"
	Lat   float64 // WGS-84 latitude in [-90, 90]
	Lon   float64 // WGS-84 longitude in [-180, 180]
}

// Validate checks the coordinate ranges and identifier presence.
func (l Location) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("location %q: empty id", l.Label)
	}
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("location %s: latitude %v out of range", l.ID, l.Lat)
	}
	if l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("location %s: longitude %v out of range", l.ID, l.Lon)
	}
	return nil
}
