package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"mercator-hq/signup-pruner/pkg/signup"
)

// SQLConfig contains configuration for the SQL storage backend.
type SQLConfig struct {
	// Driver selects the database driver: mysql, postgres, sqlite3 or sqlite.
	Driver string

	// DSN is the driver-specific data source name.
	DSN string

	// Table is the signups table name.
	// Default: "wp_signups"
	Table string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 2
	MaxIdleConns int

	// ConnMaxLifetime bounds how long a connection is reused.
	// Default: 30 minutes
	ConnMaxLifetime time.Duration
}

// DefaultSQLConfig returns the default SQL configuration.
func DefaultSQLConfig() *SQLConfig {
	return &SQLConfig{
		Driver:          "mysql",
		Table:           "wp_signups",
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// SQLStorage implements signup.Store on top of database/sql.
type SQLStorage struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
	info    driverInfo
	table   string
	logger  *slog.Logger
}

// NewSQLStorage opens a connection pool for the configured driver.
// The pool is opened lazily; use Ping to verify connectivity.
func NewSQLStorage(config *SQLConfig) (*SQLStorage, error) {
	if config == nil {
		config = DefaultSQLConfig()
	}

	info, err := lookupDriver(config.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(info.sqlDriver, config.DSN)
	if err != nil {
		return nil, signup.NewStoreError(info.backend, "open", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	s := newSQLStorage(db, info, config.Table)

	s.logger.Info("SQL storage initialized",
		"driver", config.Driver,
		"table", s.table,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// NewSQLStorageFromDB wraps an existing connection pool.
func NewSQLStorageFromDB(db *sql.DB, driver, table string) (*SQLStorage, error) {
	info, err := lookupDriver(driver)
	if err != nil {
		return nil, err
	}
	return newSQLStorage(sqlx.NewDb(db, info.sqlDriver), info, table), nil
}

func newSQLStorage(db *sqlx.DB, info driverInfo, table string) *SQLStorage {
	if table == "" {
		table = DefaultSQLConfig().Table
	}
	return &SQLStorage{
		db:      db,
		dialect: goqu.Dialect(info.goquDialect),
		info:    info,
		table:   table,
		logger:  slog.Default().With("component", "signup.storage."+info.backend),
	}
}

// FetchInactive returns up to limit signups with active = 0, oldest row first.
func (s *SQLStorage) FetchInactive(ctx context.Context, limit int) ([]signup.Record, error) {
	if limit <= 0 {
		return nil, nil
	}

	query, _, err := s.dialect.From(s.table).
		Select("user_login", "registered", "active").
		Where(goqu.C("active").Eq(0)).
		Order(goqu.C("signup_id").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, signup.NewStoreError(s.info.backend, "build_fetch", err)
	}

	var records []signup.Record
	if err := sqlx.SelectContext(ctx, s.db, &records, query); err != nil {
		return nil, signup.NewUnavailableError(s.info.backend, "fetch", err)
	}

	s.logger.Debug("fetched inactive signups",
		"count", len(records),
		"limit", limit,
	)

	return records, nil
}

// DeleteByLogin deletes the signup row keyed by user_login.
func (s *SQLStorage) DeleteByLogin(ctx context.Context, userLogin string) (int64, error) {
	query, args, err := s.dialect.Delete(s.table).
		Prepared(true).
		Where(goqu.C("user_login").Eq(userLogin)).
		ToSQL()
	if err != nil {
		return 0, signup.NewStoreError(s.info.backend, "build_delete", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, signup.NewStoreError(s.info.backend, "delete", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, signup.NewStoreError(s.info.backend, "rows_affected", err)
	}
	return n, nil
}

// Exists reports whether the signups table is present. A missing table is
// not an error; any other failure is reported as unavailable.
func (s *SQLStorage) Exists(ctx context.Context) (bool, error) {
	query, _, err := s.dialect.From(s.table).
		Select(goqu.L("1")).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, signup.NewStoreError(s.info.backend, "build_exists", err)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		if isMissingTable(err) {
			return false, nil
		}
		return false, signup.NewUnavailableError(s.info.backend, "exists", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return false, signup.NewUnavailableError(s.info.backend, "exists", err)
	}
	return true, nil
}

// Ping verifies the database is reachable.
func (s *SQLStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return signup.NewUnavailableError(s.info.backend, "ping", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *SQLStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return signup.NewStoreError(s.info.backend, "close", err)
	}
	return nil
}

// DB returns the underlying connection pool.
func (s *SQLStorage) DB() *sql.DB {
	return s.db.DB
}

// Table returns the signups table name.
func (s *SQLStorage) Table() string {
	return s.table
}

// String describes the backend for logs.
func (s *SQLStorage) String() string {
	return fmt.Sprintf("%s:%s", s.info.backend, s.table)
}
