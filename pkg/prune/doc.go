// Package prune deletes signups that were never activated once they are older
// than an age threshold.
//
// # Run
//
// One run fetches up to BatchLimit inactive signups, keeps those registered
// at or before now minus AgeThreshold, and deletes them one login at a time:
//
//	pruner := prune.NewPruner(store, prune.Options{})
//	result, err := pruner.Prune(ctx, prune.TriggerManual, prune.DefaultConfig())
//	if err != nil {
//	    // store unavailable; nothing was deleted
//	}
//	log.Printf("deleted %d of %d", result.Deleted, result.Selected)
//
// A failed delete does not stop the batch. Failures are collected in
// Result.Errors and never turn into a returned error. Rows with an
// unparseable registration time are skipped and counted in Result.Malformed.
//
// Runs hold no lock. Two runs may overlap; the second finds rows already gone
// and counts them as neither deleted nor failed.
//
// # Scheduling
//
// Scheduler fires the recurring trigger on a cron schedule ("@daily" by
// default) and, when the one-shot trigger is registered, runs it once
// immediately. The configuration is read from a ConfigSource before every
// run so reloads take effect on the next tick.
//
// # Lifecycle
//
// Lifecycle registers and clears both triggers in a triggers.Registry.
// CheckRequired reports whether the signups table exists at all.
package prune
