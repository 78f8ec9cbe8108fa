// Package domain models the weather ingestion pipelines' core data.
//
// # Data Sources
//
// Two upstream providers feed two independent pipelines that share one
// object-storage sink:
//
// Open-Meteo (batched): a single forecast request carries every registry
// location's coordinates as parallel latitude/longitude lists, the fixed
// 20-variable hourly schema, the 3-variable daily set, timezone=auto, and
// forecast_days=1. The response is one object per location, ordered the
// same as the request. Hourly values arrive as named arrays sharing one
// time axis.
//
// OpenWeatherMap (per-call): one current-conditions request per location,
// authenticated with an API key resolved from the secret store. The raw
// JSON snapshot is persisted without field-level extraction.
//
// # Hourly Schema
//
// [HourlyVariables] is the fixed record schema. Every normalized record
// covers the full variable set; a response missing a variable, or carrying
// fewer values than timestamps, violates the provider contract and fails
// the whole batched run rather than producing partial records.
//
// Daily fields (sunrise, sunset, precipitation hours) are requested and
// decoded but never joined into the hourly record stream; joining them is
// deferred to downstream processing of the daily arrays.
//
// # Partition Keys
//
// Artifact paths are pure functions of the run timestamp (and, per-call,
// the location label) at minute resolution:
//
//	ingestion-v2/{yyyy}/{mm}/{dd}/weather_{HHMM}.csv
//	api-ingestion/{label}/{yyyy}/{mm}/{dd}/{HH}-{MM}_data.json
//
// A crashed run retried within the same wall-clock minute derives the same
// key and overwrites its own partial output, which makes re-ingestion
// idempotent without any coordination. See [BatchedObjectKey] and
// [SnapshotObjectKey].
package domain
