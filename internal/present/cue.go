package present

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// LoadError reports a CUE presentation file that failed to load, with
// source position when CUE provides one.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadCUE reads and validates a presentation from a CUE file. The file
// either declares a top-level "presentation" struct or is the struct
// itself:
//
//	presentation: {
//		name:     "kb-example"
//		alphabet: "ab"
//		relations: [{left: "aaa", right: "a"}]
//	}
func LoadCUE(path string) (*Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presentation file: %w", err)
	}
	return ParseCUE(data, path)
}

// ParseCUE parses a presentation from CUE source. filename is used in
// error positions only.
func ParseCUE(data []byte, filename string) (*Presentation, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, wrapCUEError(err)
	}

	if nested := v.LookupPath(cue.ParsePath("presentation")); nested.Exists() {
		v = nested
	}

	p := &Presentation{}

	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, wrapCUEError(err)
		}
		p.Name = name
	}

	alphaVal := v.LookupPath(cue.ParsePath("alphabet"))
	if !alphaVal.Exists() {
		return nil, &LoadError{Field: "alphabet", Message: "alphabet is required", Pos: v.Pos()}
	}
	alphabet, err := alphaVal.String()
	if err != nil {
		return nil, wrapCUEError(err)
	}
	p.Alphabet = alphabet

	relsVal := v.LookupPath(cue.ParsePath("relations"))
	if !relsVal.Exists() {
		return nil, &LoadError{Field: "relations", Message: "relations are required", Pos: v.Pos()}
	}
	iter, err := relsVal.List()
	if err != nil {
		return nil, wrapCUEError(err)
	}
	for iter.Next() {
		rel, err := parseRelation(iter.Value())
		if err != nil {
			return nil, err
		}
		p.Relations = append(p.Relations, rel)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseRelation(v cue.Value) (Relation, error) {
	var rel Relation

	leftVal := v.LookupPath(cue.ParsePath("left"))
	if !leftVal.Exists() {
		return rel, &LoadError{Field: "relations", Message: "relation needs a left field", Pos: v.Pos()}
	}
	left, err := leftVal.String()
	if err != nil {
		return rel, wrapCUEError(err)
	}
	rel.Left = left

	rightVal := v.LookupPath(cue.ParsePath("right"))
	if !rightVal.Exists() {
		return rel, &LoadError{Field: "relations", Message: "relation needs a right field", Pos: v.Pos()}
	}
	right, err := rightVal.String()
	if err != nil {
		return rel, wrapCUEError(err)
	}
	rel.Right = right

	return rel, nil
}

// wrapCUEError pulls position info out of a CUE error list; CUE errors
// can bundle several positions, the first one is the most useful.
func wrapCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &LoadError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}
