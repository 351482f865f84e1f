package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/signup-pruner/pkg/cli"
	"mercator-hq/signup-pruner/pkg/prune"
)

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Register the prune triggers",
	Long: `Register the one-shot and recurring prune triggers in the trigger
registry. Nothing is registered when the recurring trigger already is.

With the memory backend the registration only lives for this process, so
activate and deactivate are mainly useful with the redis backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLifecycle(cmd, true)
	},
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Clear the prune triggers",
	Long: `Clear both prune triggers from the trigger registry. A running
scheduler skips its next recurring tick once the trigger is gone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLifecycle(cmd, false)
	},
}

func init() {
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(deactivateCmd)
}

func runLifecycle(cmd *cobra.Command, activate bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	registry, err := openRegistry(cfg)
	if err != nil {
		return cli.NewCommandError(cmd.Name(), err)
	}
	defer registry.Close()

	lifecycle := prune.NewLifecycle(registry, nil, cfg.Prune.RunOnActivate)

	out := cmd.OutOrStdout()
	if activate {
		registered, err := lifecycle.Activate(cmd.Context())
		if err != nil {
			return cli.NewCommandError("activate", err)
		}
		if registered {
			fmt.Fprintln(out, "✓ Prune triggers registered")
		} else {
			fmt.Fprintln(out, "Prune triggers already registered")
		}
		return nil
	}

	cleared, err := lifecycle.Deactivate(cmd.Context())
	if err != nil {
		return cli.NewCommandError("deactivate", err)
	}
	if cleared {
		fmt.Fprintln(out, "✓ Prune triggers cleared")
	} else {
		fmt.Fprintln(out, "Prune triggers were not registered")
	}
	return nil
}
