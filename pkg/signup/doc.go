// Package signup defines pending account signups and the rules that decide
// when one has expired.
//
// # Records
//
// A Record is one row of the signups table that has not been activated yet.
// Only three columns are ever read:
//
//   - user_login: unique identifier, used as the delete key
//   - registered: creation time, in whatever text form the store returns it
//   - active: 0 until the user activates the account
//
// Records are never modified. They are fetched, evaluated and then either
// deleted or left for a later run.
//
// # Expiry
//
// SelectOld keeps the records registered at or before a cutoff instant:
//
//	cutoff := now.Add(-14 * 24 * time.Hour)
//	expired := signup.SelectOld(records, cutoff)
//
// Registration times are parsed leniently (MySQL DATETIME text, RFC 3339,
// SQLite driver formats, plain dates). A record whose time cannot be parsed
// is never selected; Partition returns those records separately so callers
// can report them.
//
// # Stores
//
// Store is the persistence boundary. Implementations live in the storage
// subpackage (in-memory and SQL).
package signup
