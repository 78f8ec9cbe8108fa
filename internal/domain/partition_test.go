package domain_test

import (
	"testing"
	"time"

	"github.com/maghrebwx/weather-ingest/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBatchedObjectKey(t *testing.T) {
	ts := time.Date(2024, time.March, 1, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "ingestion-v2/2024/03/01/weather_1400.csv", domain.BatchedObjectKey(ts))
}

func TestBatchedObjectKey_MinuteResolution(t *testing.T) {
	ts := time.Date(2024, time.December, 31, 23, 59, 12, 345, time.UTC)
	assert.Equal(t, "ingestion-v2/2024/12/31/weather_2359.csv", domain.BatchedObjectKey(ts))

	// Seconds and nanoseconds must not influence the key.
	later := ts.Add(40 * time.Second)
	assert.Equal(t, domain.BatchedObjectKey(ts), domain.BatchedObjectKey(later))
}

func TestBatchedObjectKey_ConvertsToUTC(t *testing.T) {
	casablanca := time.FixedZone("WEST", 1*60*60)
	local := time.Date(2024, time.March, 1, 15, 0, 0, 0, casablanca)
	assert.Equal(t, "ingestion-v2/2024/03/01/weather_1400.csv", domain.BatchedObjectKey(local))
}

func TestSnapshotObjectKey(t *testing.T) {
	ts := time.Date(2024, time.March, 1, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "api-ingestion/Tanger/2024/03/01/14-00_data.json", domain.SnapshotObjectKey(ts, "Tanger"))
}

func TestSnapshotObjectKey_Deterministic(t *testing.T) {
	ts := time.Date(2025, time.July, 9, 3, 7, 0, 0, time.UTC)
	first := domain.SnapshotObjectKey(ts, "Laâyoune")
	second := domain.SnapshotObjectKey(ts, "Laâyoune")
	assert.Equal(t, first, second)
	assert.Equal(t, "api-ingestion/Laâyoune/2025/07/09/03-07_data.json", first)
}
