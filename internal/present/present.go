package present

import (
	"fmt"

	"github.com/semithue/kbrw/internal/kb"
	"github.com/semithue/kbrw/internal/word"
)

// Relation is a single defining relation: the two sides are declared
// equal in the presented monoid.
type Relation struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// Presentation is a monoid presentation: an alphabet and a list of
// defining relations over it.
type Presentation struct {
	// Name identifies the presentation in logs, run records and CLI
	// output. Optional for loaded files, required for catalog entries.
	Name string `yaml:"name"`

	// Alphabet lists the generators, one rune per generator. Order
	// matters: it fixes the shortlex reduction order.
	Alphabet string `yaml:"alphabet"`

	// Relations are the defining relations.
	Relations []Relation `yaml:"relations"`
}

// ValidationError reports a presentation that cannot define a
// rewriting system.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid presentation: %s: %s", e.Field, e.Message)
}

// Validate checks the presentation without building a system: the
// alphabet must be well formed, every relation side must spell only
// alphabet letters, and no relation may have two identical sides.
func (p *Presentation) Validate() error {
	a, err := word.NewAlphabet(p.Alphabet)
	if err != nil {
		return &ValidationError{Field: "alphabet", Message: err.Error()}
	}
	if len(p.Relations) == 0 {
		return &ValidationError{Field: "relations", Message: "at least one relation is required"}
	}
	for i, rel := range p.Relations {
		if _, err := a.Encode(rel.Left); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("relations[%d].left", i),
				Message: err.Error(),
			}
		}
		if _, err := a.Encode(rel.Right); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("relations[%d].right", i),
				Message: err.Error(),
			}
		}
		if rel.Left == rel.Right {
			return &ValidationError{
				Field:   fmt.Sprintf("relations[%d]", i),
				Message: fmt.Sprintf("both sides are %q", rel.Left),
			}
		}
	}
	return nil
}

// Build validates the presentation and constructs a rewriting system
// holding its relations, interreduced but not completed.
func (p *Presentation) Build(opts ...kb.Option) (*kb.System, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	a, err := word.NewAlphabet(p.Alphabet)
	if err != nil {
		return nil, err
	}
	s := kb.New(a, opts...)
	for _, rel := range p.Relations {
		if err := s.AddRule(rel.Left, rel.Right); err != nil {
			return nil, fmt.Errorf("relation %q = %q: %w", rel.Left, rel.Right, err)
		}
	}
	return s, nil
}
