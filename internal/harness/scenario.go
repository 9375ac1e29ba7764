package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/semithue/kbrw/internal/present"
)

// Scenario defines a conformance test scenario for completion.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Presentation is either "example:<name>" for a catalog entry or a
	// path to a YAML/CUE presentation file, relative to the scenario
	// file.
	Presentation string `yaml:"presentation"`

	// Policy selects the overlap cost policy; empty means ABC.
	Policy string `yaml:"policy,omitempty"`

	// Complete runs Knuth-Bendix before reducing. When false the
	// scenario exercises the interreduced input rules only.
	Complete bool `yaml:"complete"`

	// Words are reduced to normal form after the (optional) run.
	Words []string `yaml:"words,omitempty"`

	// ExpectConfluent is the expected confluence verdict.
	ExpectConfluent bool `yaml:"expect_confluent"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected, a typo must not silently weaken a scenario. A relative
// presentation path is resolved against the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var scenario Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}

	if !strings.HasPrefix(scenario.Presentation, examplePrefix) &&
		scenario.Presentation != "" && !filepath.IsAbs(scenario.Presentation) {
		scenario.Presentation = filepath.Join(filepath.Dir(path), scenario.Presentation)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Presentation == "" {
		return fmt.Errorf("presentation is required")
	}
	return nil
}

const examplePrefix = "example:"

// resolvePresentation loads the scenario's presentation from the
// catalog or from a file.
func resolvePresentation(ref string) (*present.Presentation, error) {
	if name, ok := strings.CutPrefix(ref, examplePrefix); ok {
		return present.Example(name)
	}
	switch ext := filepath.Ext(ref); ext {
	case ".yaml", ".yml":
		return present.LoadYAML(ref)
	case ".cue":
		return present.LoadCUE(ref)
	default:
		return nil, fmt.Errorf("unsupported presentation format %q", ext)
	}
}
