package storage

import (
	"context"
	"embed"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"

	"mercator-hq/signup-pruner/pkg/signup"
)

// MigrationTable records applied schema versions.
const MigrationTable = "signup_pruner_migrations"

//go:embed migrations
var migrationsFS embed.FS

// goose keeps its dialect and base FS in package state.
var gooseMu sync.Mutex

// Migrate applies the embedded schema migrations for this backend. It creates
// the wp_signups table used by local and test deployments; production
// multisite installs already own that table.
func (s *SQLStorage) Migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return signup.NewStoreError(s.info.backend, "migrate", err)
	}

	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())
	goose.SetTableName(MigrationTable)

	if err := goose.SetDialect(s.info.gooseDialect); err != nil {
		return signup.NewStoreError(s.info.backend, "migrate", err)
	}

	if err := goose.UpContext(ctx, s.db.DB, s.info.migrations); err != nil {
		return signup.NewStoreError(s.info.backend, "migrate", err)
	}

	s.logger.Info("schema migrations applied",
		"dialect", s.info.gooseDialect,
		"table", MigrationTable,
	)
	return nil
}
