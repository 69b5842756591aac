// Package auth verifies tenant tokens. The token is opaque to the rest
// of the system beyond the tenant identifier it carries; every query
// and write is scoped by that tenant.
package auth
