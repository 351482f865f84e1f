package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/VividCortex/mysqlerr"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// pgUndefinedTable is the SQLSTATE for a missing relation.
const pgUndefinedTable = "42P01"

// driverInfo maps a configured driver onto the names each library expects.
type driverInfo struct {
	sqlDriver    string // database/sql driver name
	goquDialect  string
	gooseDialect string
	migrations   string // directory under migrations/
	backend      string // label used in errors and logs
}

var drivers = map[string]driverInfo{
	"mysql": {
		sqlDriver:    "mysql",
		goquDialect:  "mysql",
		gooseDialect: "mysql",
		migrations:   "mysql",
		backend:      "mysql",
	},
	"postgres": {
		sqlDriver:    "pgx",
		goquDialect:  "postgres",
		gooseDialect: "postgres",
		migrations:   "postgres",
		backend:      "postgres",
	},
	"sqlite3": {
		sqlDriver:    "sqlite3",
		goquDialect:  "sqlite3",
		gooseDialect: "sqlite3",
		migrations:   "sqlite",
		backend:      "sqlite",
	},
	"sqlite": {
		sqlDriver:    "sqlite",
		goquDialect:  "sqlite3",
		gooseDialect: "sqlite3",
		migrations:   "sqlite",
		backend:      "sqlite",
	},
}

func init() {
	drivers["pgx"] = drivers["postgres"]
}

// lookupDriver resolves a configured driver name.
func lookupDriver(name string) (driverInfo, error) {
	info, ok := drivers[strings.ToLower(name)]
	if !ok {
		return driverInfo{}, fmt.Errorf("unsupported driver %q (supported: %s)",
			name, strings.Join(SupportedDrivers(), ", "))
	}
	return info, nil
}

// SupportedDrivers returns the accepted values for SQLConfig.Driver.
func SupportedDrivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isMissingTable reports whether err means the signups table does not exist.
func isMissingTable(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlerr.ER_NO_SUCH_TABLE
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}

	return strings.Contains(strings.ToLower(err.Error()), "no such table")
}
