// Package template implements the device template lifecycle: reusable
// schemas describing the static configuration and dynamic telemetry
// attributes that devices of a given model expose.
//
// A Template is an aggregate root owning an ordered set of Attributes.
// The Manager orchestrates validation, persistence, and change event
// emission; the Repository abstracts storage; the Notifier publishes
// lifecycle events to the message bus strictly after the database
// commit. All queries and writes are scoped to a tenant — nothing in
// this package can see or mutate another tenant's templates.
package template
