// Package storage provides signup.Store backends.
//
// # Backends
//
//   - MemoryStorage: in-process, insertion ordered; for tests and dry runs
//   - SQLStorage: any database/sql driver registered below
//
// SQLStorage speaks to the WordPress-style signups table. Queries are built
// per dialect with goqu and executed with sqlx:
//
//	driver    database/sql name   goqu dialect   goose dialect
//	mysql     mysql               mysql          mysql
//	postgres  pgx                 postgres       postgres
//	sqlite3   sqlite3 (cgo)       sqlite3        sqlite3
//	sqlite    sqlite (pure Go)    sqlite3        sqlite3
//
// # Basic Usage
//
//	store, err := storage.NewSQLStorage(&storage.SQLConfig{
//	    Driver: "mysql",
//	    DSN:    "wp:secret@tcp(127.0.0.1:3306)/wordpress",
//	    Table:  "wp_signups",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	records, err := store.FetchInactive(ctx, 200)
//
// # Migrations
//
// Migrate creates the signups table (named wp_signups) with goose. It exists
// for development databases and tests; production tables belong to the host
// application.
package storage
