/*
Package cli provides command-line helpers shared by the signup-pruner
commands.

Output Formatting:

Command results are written as text or JSON:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	return formatter.FormatTo(os.Stdout, result)

Values implementing TextRenderer control their own text rendering.

Signal Handling:

One-shot commands stop on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

Exit Codes:

ExitCode maps a command error to the process exit status.
*/
package cli
