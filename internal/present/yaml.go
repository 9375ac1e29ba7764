package present

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads and validates a presentation from a YAML file.
// Unknown fields are rejected so a typoed key fails loudly instead of
// silently dropping relations.
func LoadYAML(path string) (*Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presentation file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses a presentation from YAML bytes.
func ParseYAML(data []byte) (*Presentation, error) {
	var p Presentation
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing presentation YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
