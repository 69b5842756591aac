// Package logging provides structured logging built on log/slog.
//
// Every record carries service and version attributes; subsystems use
// WithComponent to tag their records, so a single log stream can be
// filtered per component.
package logging
