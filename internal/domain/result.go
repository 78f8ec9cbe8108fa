package domain

import "time"

// Outcome is the terminal state of one ingestion run.
type Outcome string

const (
	// OutcomeSuccess: every attempted unit produced its artifact.
	OutcomeSuccess Outcome = "success"
	// OutcomePartialFailure: some per-call units failed, others succeeded.
	OutcomePartialFailure Outcome = "partial_failure"
	// OutcomeTotalFailure: the run produced no artifacts.
	OutcomeTotalFailure Outcome = "total_failure"
)

// UnitResult is the typed outcome of one location's fetch-and-write unit
// in per-call mode. The orchestrator inspects these to decide the run
// outcome instead of relying on error propagation to abort.
type UnitResult struct {
	LocationID string
	Key        string // object key, set when the write succeeded
	Err        error
}

// OK reports whether the unit produced its artifact.
func (u UnitResult) OK() bool { return u.Err == nil }

// RunResult is the terminal state of one pipeline run. Runs never panic
// and never return bare errors to the scheduler; failures are carried here.
type RunResult struct {
	Pipeline string
	Outcome  Outcome
	Records  int      // normalized records (batched) or stored snapshots (per-call)
	Keys     []string // object keys written
	Units    []UnitResult
	Err      error // run-fatal cause, set for total failures
	Duration time.Duration
}

// OutcomeForUnits derives a run outcome from per-location unit results.
// An empty unit list counts as success: nothing was attempted, nothing
// failed.
func OutcomeForUnits(units []UnitResult) Outcome {
	ok := 0
	for _, u := range units {
		if u.OK() {
			ok++
		}
	}
	switch {
	case ok == len(units):
		return OutcomeSuccess
	case ok == 0:
		return OutcomeTotalFailure
	default:
		return OutcomePartialFailure
	}
}
