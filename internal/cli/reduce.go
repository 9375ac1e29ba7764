package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ReduceOptions holds flags for the reduce command.
type ReduceOptions struct {
	*RootOptions
	Complete bool
}

// ReduceResult is the payload for one reduced word.
type ReduceResult struct {
	Word       string `json:"word"`
	NormalForm string `json:"normal_form"`
}

// NewReduceCommand creates the reduce command.
func NewReduceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReduceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reduce <presentation> <word>...",
		Short: "Reduce words against a presentation's rules",
		Long: `Reduce one or more words to irreducible form against the
presentation's interreduced rules.

Without --complete the reduction uses the rules as given, which is fast
but only canonical when the presentation happens to be confluent. With
--complete the system is completed first, making equal words reduce to
the same normal form.

Example:
  kbrw reduce example:kb-example abbbabb bba
  kbrw reduce ./hypo.yaml --complete abba`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReduce(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Complete, "complete", false, "run completion before reducing")

	return cmd
}

func runReduce(opts *ReduceOptions, arg string, words []string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions)
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	p, name, err := LoadPresentation(arg)
	if err != nil {
		return err
	}
	s, err := p.Build()
	if err != nil {
		return WrapExitError(ExitCommandError, "building rewriting system", err)
	}

	ctx, stopSignals := signalContext(cmd)
	defer stopSignals()

	if opts.Complete {
		conf, err := s.Run(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "completion interrupted", err)
		}
		out.VerboseLog("completed %s: confluent=%v rules=%d", name, conf, s.NumberOfActiveRules())
	}

	results := make([]ReduceResult, 0, len(words))
	for _, w := range words {
		nf, err := s.Rewrite(w)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("reducing %q", w), err)
		}
		results = append(results, ReduceResult{Word: w, NormalForm: nf})
	}

	if out.Format == "json" {
		return out.SuccessJSON(results)
	}
	for _, r := range results {
		fmt.Fprintf(out.Writer, "%s -> %s\n", r.Word, r.NormalForm)
	}
	return nil
}
