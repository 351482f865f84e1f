package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/signup-pruner/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "signup-pruner",
	Short: "Delete stale unactivated signups",
	Long: `signup-pruner removes signup records that were never activated and are
older than a configurable age (14 days by default).

Each run fetches at most one batch of inactive signups (200 by default),
keeps those registered at or before the cutoff, and deletes them one by one.
Runs are triggered once right after activation and then on a recurring
schedule.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and SIGNUP_PRUNER_* variables when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
