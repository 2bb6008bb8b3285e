// Package app assembles the donor analytics server: configuration,
// logging, telemetry, storage, services, middleware chain, and routes.
// It owns the HTTP server lifecycle including graceful shutdown.
package app
