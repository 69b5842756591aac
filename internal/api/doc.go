// Package api exposes the template lifecycle over HTTP and relays
// change events to WebSocket subscribers.
//
// All template routes require a Bearer tenant token; the tenant claim
// scopes every operation. The WebSocket event stream delivers only the
// authenticated tenant's events.
package api
