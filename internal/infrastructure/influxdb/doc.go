// Package influxdb provides an optional audit sink that records
// template lifecycle events as time-series points.
//
// Writes use the non-blocking batched API: a failed write is logged
// and dropped rather than surfaced to the caller, so the audit trail
// never affects template operations.
package influxdb
