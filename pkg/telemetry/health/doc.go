// Package health provides liveness and readiness checks for the pruner's
// ops server.
//
// Readiness runs every registered check concurrently, each under its own
// timeout. The run command registers:
//
//   - store: pings the signups database
//   - triggers: pings the trigger registry (Redis backend only)
//   - scheduler: fails once the scheduler has stopped
//
// Endpoints:
//
//	GET /health   200 while the process is up
//	GET /ready    200 when every check passes, 503 otherwise
//	GET /version  build information
package health
