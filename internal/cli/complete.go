package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/semithue/kbrw/internal/kb"
	"github.com/semithue/kbrw/internal/runlog"
)

// CompleteOptions holds flags for the complete command.
type CompleteOptions struct {
	*RootOptions
	Policy     string
	MaxRules   int
	MaxOverlap int
	ByLength   bool
	Timeout    time.Duration
	Database   string
}

// CompleteResult is the payload reported after a completion run.
type CompleteResult struct {
	Run          string      `json:"run"`
	Presentation string      `json:"presentation"`
	Confluent    bool        `json:"confluent"`
	ActiveRules  int         `json:"active_rules"`
	RulesCreated int         `json:"rules_created"`
	StackPops    int         `json:"stack_pops"`
	Overlaps     int         `json:"overlaps"`
	DurationMS   int64       `json:"duration_ms"`
	Rules        [][2]string `json:"rules"`
}

// NewCompleteCommand creates the complete command.
func NewCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "complete <presentation>",
		Short: "Run Knuth-Bendix completion on a presentation",
		Long: `Run Knuth-Bendix completion on a presentation and print the
resulting rewriting system.

The run may not terminate: some presentations have no finite confluent
system under the shortlex order. Bound it with --max-rules, or press
Ctrl-C to stop; a stopped system is still sound for rewriting, just not
confluent.

Example:
  kbrw complete example:kb-example
  kbrw complete ./presentations/hypo.yaml --policy MAX_AB_BC --max-rules 1000
  kbrw complete example:collapse --db ./runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplete(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Policy, "policy", "ABC", "overlap cost policy (ABC|AB_BC|MAX_AB_BC)")
	cmd.Flags().IntVar(&opts.MaxRules, "max-rules", 0, "stop once this many rules are active (0 = unlimited)")
	cmd.Flags().IntVar(&opts.MaxOverlap, "max-overlap", 0, "skip overlaps above this cost (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.ByLength, "by-length", false, "iterative deepening on the overlap bound")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "stop completion after this long (0 = no timeout)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "append the run to this SQLite run log")

	return cmd
}

func runComplete(opts *CompleteOptions, arg string, cmd *cobra.Command) error {
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

	policy, err := kb.ParseOverlapPolicy(opts.Policy)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid policy", err)
	}

	// One token per invocation, shared by the engine's log lines and
	// the run-log record.
	runToken := uuid.Must(uuid.NewV7()).String()
	kbOpts := []kb.Option{
		kb.WithOverlapPolicy(policy),
		kb.WithTokenGenerator(kb.FixedTokens(runToken)),
	}
	if opts.MaxRules > 0 {
		kbOpts = append(kbOpts, kb.WithMaxRules(opts.MaxRules))
	}
	if opts.MaxOverlap > 0 {
		kbOpts = append(kbOpts, kb.WithMaxOverlap(opts.MaxOverlap))
	}

	s, err := p.Build(kbOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "building rewriting system", err)
	}
	out.VerboseLog("presentation %s loaded: %d relations over %q",
		name, len(p.Relations), p.Alphabet)

	ctx, stopSignals := signalContext(cmd)
	defer stopSignals()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	started := time.Now()
	conf, err := runCompletion(ctx, s, opts.ByLength)
	duration := time.Since(started)
	if err != nil {
		// Interrupted, not broken: report what the run got to.
		out.VerboseLog("completion stopped: %v", err)
	}

	stats := s.Stats()
	result := CompleteResult{
		Run:          runToken,
		Presentation: name,
		Confluent:    conf,
		ActiveRules:  s.NumberOfActiveRules(),
		RulesCreated: stats.RulesCreated,
		StackPops:    stats.StackPops,
		Overlaps:     stats.Overlaps,
		DurationMS:   duration.Milliseconds(),
		Rules:        s.ActiveRules(),
	}

	if opts.Database != "" {
		if logErr := writeRunRecord(ctx, opts.Database, p.Alphabet, policy, started, duration, result); logErr != nil {
			return WrapExitError(ExitCommandError, "writing run log", logErr)
		}
	}

	if renderErr := renderCompleteResult(out, result); renderErr != nil {
		return renderErr
	}
	if !conf {
		return NewExitError(ExitFailure, "system is not confluent")
	}
	return nil
}

func runCompletion(ctx context.Context, s *kb.System, byLength bool) (bool, error) {
	if byLength {
		return s.RunByOverlapLength(ctx)
	}
	return s.Run(ctx)
}

func writeRunRecord(ctx context.Context, path, alphabet string, policy kb.OverlapPolicy, started time.Time, duration time.Duration, result CompleteResult) error {
	// A cancelled run still gets recorded; use a fresh context for the
	// write itself.
	writeCtx := context.WithoutCancel(ctx)
	log, err := runlog.Open(path)
	if err != nil {
		return err
	}
	defer log.Close()
	return log.Write(writeCtx, runlog.Record{
		ID:           result.Run,
		Presentation: result.Presentation,
		Alphabet:     alphabet,
		Policy:       policy.String(),
		Confluent:    result.Confluent,
		ActiveRules:  result.ActiveRules,
		RulesCreated: result.RulesCreated,
		StackPops:    result.StackPops,
		Overlaps:     result.Overlaps,
		StartedAt:    started,
		Duration:     duration,
	})
}

func renderCompleteResult(out *OutputFormatter, result CompleteResult) error {
	if out.Format == "json" {
		return out.SuccessJSON(result)
	}
	fmt.Fprintf(out.Writer, "presentation: %s\n", result.Presentation)
	fmt.Fprintf(out.Writer, "confluent:    %v\n", result.Confluent)
	fmt.Fprintf(out.Writer, "active rules: %d (created %d, pops %d, overlaps %d, %dms)\n",
		result.ActiveRules, result.RulesCreated, result.StackPops,
		result.Overlaps, result.DurationMS)
	for _, r := range result.Rules {
		fmt.Fprintf(out.Writer, "  %s -> %s\n", r[0], r[1])
	}
	return nil
}

// setupLogging configures the default slog logger from the global
// flags. Log lines go to stderr so JSON output stays parseable.
func setupLogging(opts *RootOptions) {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// signalContext derives a context cancelled by SIGINT/SIGTERM from the
// command's context (tests inject their own).
func signalContext(cmd *cobra.Command) (context.Context, func()) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
