package domain

import (
	"fmt"
	"time"
)

// BatchedObjectKey derives the storage path for a batched-mode artifact.
// Keys have minute resolution: a retry at the same wall-clock minute
// derives the same key and overwrites rather than duplicates.
func BatchedObjectKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("ingestion-v2/%04d/%02d/%02d/weather_%02d%02d.csv",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
}

// SnapshotObjectKey derives the storage path for one location's per-call
// artifact. Same minute-resolution idempotency contract as BatchedObjectKey.
func SnapshotObjectKey(t time.Time, label string) string {
	t = t.UTC()
	return fmt.Sprintf("api-ingestion/%s/%04d/%02d/%02d/%02d-%02d_data.json",
		label, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
}
