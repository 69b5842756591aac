// Package config handles loading and validating configuration for
// Device Template Core.
//
// Configuration is layered: hardcoded defaults are applied first, then
// values from the YAML config file, then TEMPLATECORE_* environment
// variable overrides. Secrets (JWT signing secret, broker credentials,
// InfluxDB token) should always come from the environment rather than
// the config file.
package config
