// Package server runs the pruner's ops HTTP server.
//
// The server exposes liveness, readiness and version endpoints from the
// health package and, when metrics are enabled, the Prometheus handler:
//
//	GET /health    liveness
//	GET /ready     readiness (store, triggers, scheduler)
//	GET /version   build information
//	GET /metrics   Prometheus exposition (path configurable)
//
// Start blocks until its context is cancelled and then shuts down
// gracefully within the configured shutdown timeout, so it fits directly
// into the run command's actor group.
package server
