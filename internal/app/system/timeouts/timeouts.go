// Package timeouts provides centralized timeout values for handler
// operations.
//
// These are used with context.WithTimeout for database operations and other
// I/O in HTTP handlers. Note that the session-request workflow deliberately
// does NOT apply a timeout to the provisioning call; it waits on the
// function service's own deadline behavior.
package timeouts

import "time"

const (
	defaultPing   = 2 * time.Second
	defaultShort  = 5 * time.Second
	defaultMedium = 10 * time.Second
	defaultLong   = 30 * time.Second
)

// Ping returns the timeout for health checks and connectivity verification.
func Ping() time.Duration { return defaultPing }

// Short returns the timeout for single-document reads and lookups.
func Short() time.Duration { return defaultShort }

// Medium returns the timeout for list queries and simple writes.
func Medium() time.Duration { return defaultMedium }

// Long returns the timeout for multi-step writes (session creation plus
// related records, blob uploads).
func Long() time.Duration { return defaultLong }
