package domain

import "fmt"

// FetchError reports a failed upstream call: network failure, timeout,
// non-2xx status, or an undecodable body. LocationID is empty for failures
// of the batched multi-location call.
type FetchError struct {
	Provider   string
	LocationID string
	Err        error
}

func (e *FetchError) Error() string {
	if e.LocationID == "" {
		return fmt.Sprintf("fetch %s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("fetch %s location %s: %v", e.Provider, e.LocationID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NormalizationError reports a batched response that violates the fixed
// hourly schema contract. It is run-fatal: one malformed location would
// corrupt the shared tabular artifact.
type NormalizationError struct {
	LocationID string
	Variable   string
	Reason     string
}

func (e *NormalizationError) Error() string {
	switch {
	case e.LocationID == "":
		return fmt.Sprintf("normalize: %s", e.Reason)
	case e.Variable == "":
		return fmt.Sprintf("normalize location %s: %s", e.LocationID, e.Reason)
	default:
		return fmt.Sprintf("normalize location %s variable %s: %s", e.LocationID, e.Variable, e.Reason)
	}
}

// SinkError reports a failed artifact write, scoped to one object key.
type SinkError struct {
	Key string
	Err error
}

func (e *SinkError) Error() string { return fmt.Sprintf("write %s: %v", e.Key, e.Err) }

func (e *SinkError) Unwrap() error { return e.Err }

// SecretResolutionError reports a missing or empty secret. It surfaces
// before any fetch attempt and is fatal to the run.
type SecretResolutionError struct {
	Name   string
	Reason string
}

func (e *SecretResolutionError) Error() string {
	return fmt.Sprintf("resolve secret %s: %s", e.Name, e.Reason)
}
