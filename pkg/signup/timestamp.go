package signup

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// registeredLayouts are tried in order. Layouts without a zone are read as
// UTC, which is how the signups table stores registration times. Fractional
// seconds are accepted after any seconds field.
var registeredLayouts = []string{
	"2006-01-02 15:04:05", // MySQL DATETIME
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00", // go-sqlite3 / Postgres text
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

var errEmptyTimestamp = errors.New("empty timestamp")

// ParseRegistered converts a stored registration time into an instant.
// Zero instants (including the MySQL zero date) are rejected.
func ParseRegistered(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, errEmptyTimestamp
	}

	for _, layout := range registeredLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		if t.IsZero() || t.Year() <= 1 {
			return time.Time{}, fmt.Errorf("zero timestamp %q", s)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognised timestamp format %q", s)
}
