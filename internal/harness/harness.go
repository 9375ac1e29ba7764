package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/semithue/kbrw/internal/kb"
)

// NormalForm pairs a scenario word with its reduced form.
type NormalForm struct {
	Word       string
	NormalForm string
}

// Result captures the outcome of running a scenario.
type Result struct {
	Scenario    string
	Confluent   bool
	ActiveRules int
	Rules       [][2]string
	NormalForms []NormalForm

	// Passed is true when the confluence verdict matched the
	// scenario's expectation.
	Passed bool
}

// Run executes a scenario. Each run builds a fresh system with a fixed
// run token and a discarded logger, so repeated runs are byte-for-byte
// reproducible for golden comparison.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	p, err := resolvePresentation(scenario.Presentation)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	policy := kb.PolicyABC
	if scenario.Policy != "" {
		policy, err = kb.ParseOverlapPolicy(scenario.Policy)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	s, err := p.Build(
		kb.WithOverlapPolicy(policy),
		kb.WithTokenGenerator(kb.FixedTokens("scenario-"+scenario.Name)),
		kb.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	if scenario.Complete {
		if _, err := s.Run(ctx); err != nil {
			return nil, fmt.Errorf("scenario %s: completion: %w", scenario.Name, err)
		}
	}

	result := &Result{
		Scenario:    scenario.Name,
		Confluent:   s.Confluent(),
		ActiveRules: s.NumberOfActiveRules(),
		Rules:       s.ActiveRules(),
	}
	for _, w := range scenario.Words {
		nf, err := s.Rewrite(w)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: reducing %q: %w", scenario.Name, w, err)
		}
		result.NormalForms = append(result.NormalForms, NormalForm{Word: w, NormalForm: nf})
	}
	result.Passed = result.Confluent == scenario.ExpectConfluent
	return result, nil
}

// Snapshot renders the result as stable text for golden comparison.
// Rules come pre-sorted by the reduction order, words keep scenario
// order.
func (r *Result) Snapshot() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Scenario)
	fmt.Fprintf(&b, "confluent: %v\n", r.Confluent)
	fmt.Fprintf(&b, "active_rules: %d\n", r.ActiveRules)
	b.WriteString("rules:\n")
	for _, rule := range r.Rules {
		fmt.Fprintf(&b, "  %s -> %s\n", displayWord(rule[0]), displayWord(rule[1]))
	}
	if len(r.NormalForms) > 0 {
		b.WriteString("normal_forms:\n")
		for _, nf := range r.NormalForms {
			fmt.Fprintf(&b, "  %s -> %s\n", displayWord(nf.Word), displayWord(nf.NormalForm))
		}
	}
	return []byte(b.String())
}

// displayWord renders the empty word visibly so snapshot lines never
// end in a bare arrow.
func displayWord(s string) string {
	if s == "" {
		return `""`
	}
	return s
}
