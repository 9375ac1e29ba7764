package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CheckResult is the payload reported by the check command.
type CheckResult struct {
	Presentation string `json:"presentation"`
	Confluent    bool   `json:"confluent"`
	ActiveRules  int    `json:"active_rules"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <presentation>",
		Short: "Check whether a presentation's rules are already confluent",
		Long: `Check whether the presentation's rules, interreduced but not
completed, are already confluent. Exits 0 when they are and 1 when they
are not.

Example:
  kbrw check example:idempotent`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runCheck(rootOpts *RootOptions, arg string, cmd *cobra.Command) error {
	setupLogging(rootOpts)
	out := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	p, name, err := LoadPresentation(arg)
	if err != nil {
		return err
	}
	s, err := p.Build()
	if err != nil {
		return WrapExitError(ExitCommandError, "building rewriting system", err)
	}

	result := CheckResult{
		Presentation: name,
		Confluent:    s.Confluent(),
		ActiveRules:  s.NumberOfActiveRules(),
	}

	if out.Format == "json" {
		if err := out.SuccessJSON(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out.Writer, "presentation: %s\n", result.Presentation)
		fmt.Fprintf(out.Writer, "confluent:    %v (%d rules)\n", result.Confluent, result.ActiveRules)
	}

	if !result.Confluent {
		return NewExitError(ExitFailure, "presentation is not confluent")
	}
	return nil
}
