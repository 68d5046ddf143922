// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (store, import, and remove users)
//   - Validate candidate users before they reach storage
//   - Handle cross-cutting concerns (logging, sync metrics)
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - SQL queries (that's repository adapters)
//   - Remote API shapes (that's the anti-corruption layer)
package app
