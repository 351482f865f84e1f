package signup

import (
	"context"
	"time"
)

// Record is a pending, unactivated signup.
type Record struct {
	// UserLogin uniquely identifies the signup and is the delete key.
	UserLogin string `db:"user_login" json:"user_login"`

	// Registered is the creation time as returned by the store.
	Registered string `db:"registered" json:"registered"`

	// Active is false until the signup is activated.
	Active bool `db:"active" json:"active"`
}

// RegisteredAt parses the registration time. It returns a *TimestampError
// when the stored value is empty, zero or not a recognised format.
func (r Record) RegisteredAt() (time.Time, error) {
	t, err := ParseRegistered(r.Registered)
	if err != nil {
		return time.Time{}, NewTimestampError(r.UserLogin, r.Registered, err)
	}
	return t, nil
}

// Store is the signups collection.
type Store interface {
	// FetchInactive returns at most limit records whose active flag is
	// false, in insertion order. No candidates is not an error.
	FetchInactive(ctx context.Context, limit int) ([]Record, error)

	// DeleteByLogin removes the signup with the given login and reports how
	// many rows were removed.
	DeleteByLogin(ctx context.Context, userLogin string) (int64, error)

	// Exists reports whether the signups collection exists at all.
	Exists(ctx context.Context) (bool, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connections.
	Close() error
}
