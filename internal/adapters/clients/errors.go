// Package clients provides the instrumented HTTP client used to reach GoREST.
package clients

import "errors"

// Transport-level failures. Adapters in the acl package translate these into
// domain errors; callers outside this package should not need them.
var (
	// ErrCircuitOpen means the breaker rejected the call without sending it.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrRequestFailed wraps the last transport error or 5xx once every
	// configured attempt has been used.
	ErrRequestFailed = errors.New("request failed")
)
