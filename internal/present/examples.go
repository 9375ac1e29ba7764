package present

import (
	"fmt"
	"sort"
)

// Built-in presentations, usable from the CLI by name instead of a
// file path. All are small enough to complete in milliseconds.
var examples = map[string]Presentation{
	"kb-example": {
		Name:     "kb-example",
		Alphabet: "ab",
		Relations: []Relation{
			{Left: "aaa", Right: "a"},
			{Left: "bbbbb", Right: "b"},
			{Left: "abbbabb", Right: "bba"},
		},
	},
	"idempotent": {
		Name:     "idempotent",
		Alphabet: "ab",
		Relations: []Relation{
			{Left: "aa", Right: "a"},
			{Left: "bb", Right: "b"},
		},
	},
	"collapse": {
		Name:     "collapse",
		Alphabet: "abc",
		Relations: []Relation{
			{Left: "ab", Right: "ba"},
			{Left: "ac", Right: "ca"},
			{Left: "aa", Right: "a"},
			{Left: "ac", Right: "a"},
			{Left: "ca", Right: "a"},
			{Left: "bc", Right: "cb"},
			{Left: "bbb", Right: "b"},
			{Left: "bc", Right: "b"},
			{Left: "cb", Right: "b"},
			{Left: "a", Right: "b"},
		},
	},
	"free-commutative": {
		Name:     "free-commutative",
		Alphabet: "ab",
		Relations: []Relation{
			{Left: "ba", Right: "ab"},
		},
	},
	"cyclic-5": {
		Name:     "cyclic-5",
		Alphabet: "a",
		Relations: []Relation{
			{Left: "aaaaa", Right: ""},
		},
	},
}

// Example returns a copy of the named built-in presentation.
func Example(name string) (*Presentation, error) {
	p, ok := examples[name]
	if !ok {
		return nil, fmt.Errorf("unknown example presentation %q (known: %v)", name, ExampleNames())
	}
	p.Relations = append([]Relation(nil), p.Relations...)
	return &p, nil
}

// ExampleNames lists the built-in presentations in sorted order.
func ExampleNames() []string {
	names := make([]string, 0, len(examples))
	for name := range examples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
