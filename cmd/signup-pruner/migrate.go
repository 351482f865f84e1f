package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/signup-pruner/pkg/cli"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the signups table",
	Long: `Apply the embedded schema migrations for the configured SQL driver.
Migrations are idempotent; applied versions are tracked in the
signup_pruner_migrations table.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Driver == "memory" {
		return cli.NewConfigError("store.driver", "migrate requires a SQL driver")
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	store, err := openSQLStore(cfg)
	if err != nil {
		return cli.NewCommandError("migrate", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return cli.NewCommandError("migrate", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Migrations applied (%s)\n", store)
	return nil
}
