// Package acl is the anti-corruption layer between the service and the
// GoREST users API.
//
// Remote DTOs never leave this package. Every response is translated into
// domain types, and every failure (HTTP status, transport error, circuit
// breaker, malformed body) is translated into a domain error:
//
//   - 404 Not Found → [domain.ErrNotFound]
//   - 409 Conflict → [domain.ErrConflict]
//   - 400 / 422 → [domain.ErrValidation], field errors kept in order
//   - 401 / 403 / 429 / 5xx / network → [domain.ErrUnavailable]
//
// Client-level errors ([clients.ErrCircuitOpen], [clients.ErrRequestFailed])
// also become [domain.ErrUnavailable].
//
// [GoRESTClient] is the concrete adapter. It implements ports.UserSource and
// ports.HealthChecker on top of the instrumented [clients.Client], which
// supplies tracing, metrics and the circuit breaker.
package acl
