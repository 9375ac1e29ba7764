package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/semithue/kbrw/internal/runlog"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewRunsCommand creates the runs command, which lists the run log.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded completion runs",
		Long: `List completion runs recorded with "complete --db", newest first.

Example:
  kbrw runs --db ./runs.db --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite run log (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions)
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("run log not found: %s", opts.Database))
	}

	log, err := runlog.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening run log", err)
	}
	defer log.Close()

	records, err := log.List(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "listing runs", err)
	}

	if out.Format == "json" {
		return out.SuccessJSON(records)
	}
	if len(records) == 0 {
		fmt.Fprintln(out.Writer, "no runs recorded")
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(out.Writer, "%s  %-20s %-9s confluent=%-5v rules=%-4d %s\n",
			rec.StartedAt.Format(time.RFC3339),
			rec.Presentation,
			rec.Policy,
			rec.Confluent,
			rec.ActiveRules,
			rec.Duration,
		)
	}
	return nil
}
