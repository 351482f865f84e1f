// Package triggers records which prune triggers are registered and when each
// is next due.
//
// Two hooks exist. HookSingle is a one-shot run requested at activation and
// consumed once it has run. HookRecurring is the daily run; while it is
// registered the scheduler fires it on every cron tick.
//
// The registry is the only persisted scheduling state. MemoryRegistry keeps
// it in process; RedisRegistry shares it between processes so that a
// deactivate issued from one host stops the recurring run everywhere.
package triggers
