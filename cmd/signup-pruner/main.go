// signup-pruner deletes unactivated signup records that are older than an
// age threshold, in bounded batches, on a schedule.
//
// Usage:
//
//	# Register the triggers and run the scheduler
//	signup-pruner run --config /etc/signup-pruner.yaml
//
//	# One run right now, printing what would be deleted
//	signup-pruner prune --dry-run
//
//	# Create the signups table in a fresh database
//	signup-pruner migrate
//
//	# Show version information
//	signup-pruner version
package main

import "os"

func main() {
	os.Exit(Execute())
}
