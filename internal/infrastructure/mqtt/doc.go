// Package mqtt wraps the Eclipse Paho client for publishing template
// lifecycle events and relaying them to connected consumers.
//
// The client reconnects automatically, replays subscriptions on
// reconnect, and announces service availability on a retained status
// topic with a last-will fallback.
package mqtt
