package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/signup-pruner/pkg/cli"
	"mercator-hq/signup-pruner/pkg/config"
	"mercator-hq/signup-pruner/pkg/prune"
)

var pruneFlags struct {
	batchLimit   int
	ageThreshold string
	dryRun       bool
	output       string
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Run one prune batch now",
	Long: `Run a single prune batch immediately, outside the scheduler.

Examples:
  # Show which signups would be deleted
  signup-pruner prune --dry-run

  # Delete signups older than 30 days, 500 at most
  signup-pruner prune --age-threshold 30d --batch-limit 500

  # Machine-readable summary
  signup-pruner prune --output json`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().IntVar(&pruneFlags.batchLimit, "batch-limit", 0, "maximum inactive signups fetched (default from config)")
	pruneCmd.Flags().StringVar(&pruneFlags.ageThreshold, "age-threshold", "", `minimum signup age, e.g. "14d" or "336h" (default from config)`)
	pruneCmd.Flags().BoolVar(&pruneFlags.dryRun, "dry-run", false, "fetch and filter only, delete nothing")
	pruneCmd.Flags().StringVarP(&pruneFlags.output, "output", "o", "text", "output format (text, json)")
}

func runPrune(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(cli.OutputFormat(pruneFlags.output))
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	runCfg, err := pruneFlagOverrides(cmd, pruneConfig(cfg))
	if err != nil {
		return err
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return cli.NewCommandError("prune", err)
	}
	defer store.Close()

	required, err := prune.CheckRequired(ctx, store)
	if err != nil {
		return cli.NewCommandError("prune", err)
	}
	if !required {
		logger.Info("Signups table not found, nothing to prune on a single-site install",
			"table", cfg.Store.Table,
		)
		if cli.OutputFormat(pruneFlags.output) == cli.FormatText {
			fmt.Fprintf(cmd.OutOrStdout(), "Signups table %s not found, nothing to prune\n", cfg.Store.Table)
		}
		return nil
	}

	pruner := prune.NewPruner(store, prune.Options{Logger: logger.Logger})

	var result *prune.Result
	if pruneFlags.dryRun {
		result, err = pruner.Preview(ctx, prune.TriggerManual, runCfg)
	} else {
		result, err = pruner.Prune(ctx, prune.TriggerManual, runCfg)
	}
	if err != nil {
		return cli.NewCommandError("prune", err)
	}

	if err := formatter.FormatTo(cmd.OutOrStdout(), newPruneReport(result)); err != nil {
		return err
	}
	if result.Failed > 0 {
		return cli.NewCommandError("prune", fmt.Errorf("%d of %d deletes failed", result.Failed, result.Selected))
	}
	return nil
}

// pruneFlagOverrides applies --batch-limit and --age-threshold when set.
func pruneFlagOverrides(cmd *cobra.Command, cfg prune.Config) (prune.Config, error) {
	if cmd.Flags().Changed("batch-limit") {
		if pruneFlags.batchLimit <= 0 {
			return cfg, cli.NewConfigError("batch-limit", "must be positive")
		}
		cfg.BatchLimit = pruneFlags.batchLimit
	}
	if cmd.Flags().Changed("age-threshold") {
		age, err := config.ParseAge(pruneFlags.ageThreshold)
		if err != nil {
			return cfg, cli.NewConfigError("age-threshold", err.Error())
		}
		if age < 0 {
			return cfg, cli.NewConfigError("age-threshold", "must not be negative")
		}
		cfg.AgeThreshold = age
	}
	return cfg, nil
}

// pruneReport is the printable summary of a run.
type pruneReport struct {
	RunID      string   `json:"run_id"`
	DryRun     bool     `json:"dry_run"`
	Outcome    string   `json:"outcome"`
	Cutoff     string   `json:"cutoff"`
	Fetched    int      `json:"fetched"`
	Selected   int      `json:"selected"`
	Malformed  int      `json:"malformed"`
	Deleted    int      `json:"deleted"`
	Failed     int      `json:"failed"`
	DurationMS int64    `json:"duration_ms"`
	Logins     []string `json:"logins,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

func newPruneReport(r *prune.Result) pruneReport {
	report := pruneReport{
		RunID:      r.RunID,
		DryRun:     r.DryRun,
		Outcome:    r.Outcome(),
		Cutoff:     r.Cutoff.UTC().Format(time.RFC3339),
		Fetched:    r.Fetched,
		Selected:   r.Selected,
		Malformed:  r.Malformed,
		Deleted:    r.Deleted,
		Failed:     r.Failed,
		DurationMS: r.Duration.Milliseconds(),
		Logins:     r.SelectedLogins,
	}
	if r.Errors != nil {
		for _, err := range r.Errors.Errors {
			report.Errors = append(report.Errors, err.Error())
		}
	}
	return report
}

// RenderText writes the human-readable summary.
func (r pruneReport) RenderText(w io.Writer) error {
	var sb strings.Builder
	if r.DryRun {
		fmt.Fprintf(&sb, "Dry run: %d of %d inactive signups registered before %s would be deleted\n",
			r.Selected, r.Fetched, r.Cutoff)
		for _, login := range r.Logins {
			fmt.Fprintf(&sb, "  - %s\n", login)
		}
	} else {
		fmt.Fprintf(&sb, "Deleted %d of %d inactive signups registered before %s\n",
			r.Deleted, r.Fetched, r.Cutoff)
	}
	if r.Malformed > 0 {
		fmt.Fprintf(&sb, "Skipped %d signups with an unreadable registration time\n", r.Malformed)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "✗ %s\n", e)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
