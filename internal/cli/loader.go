package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/semithue/kbrw/internal/present"
)

// ExamplePrefix marks a presentation argument that names a built-in
// catalog entry instead of a file.
const ExamplePrefix = "example:"

// LoadPresentation resolves a CLI presentation argument: either an
// "example:<name>" catalog reference or a path to a .yaml/.yml/.cue
// file. The returned name is the catalog name or the file path, for
// use in output and the run log.
func LoadPresentation(arg string) (*present.Presentation, string, error) {
	if name, ok := strings.CutPrefix(arg, ExamplePrefix); ok {
		p, err := present.Example(name)
		if err != nil {
			return nil, "", WrapExitError(ExitCommandError, "unknown example", err)
		}
		return p, name, nil
	}

	if _, err := os.Stat(arg); os.IsNotExist(err) {
		return nil, "", NewExitError(ExitCommandError,
			fmt.Sprintf("presentation file not found: %s", arg))
	}

	var p *present.Presentation
	var err error
	switch ext := filepath.Ext(arg); ext {
	case ".yaml", ".yml":
		p, err = present.LoadYAML(arg)
	case ".cue":
		p, err = present.LoadCUE(arg)
	default:
		return nil, "", NewExitError(ExitCommandError,
			fmt.Sprintf("unsupported presentation format %q (want .yaml, .yml or .cue)", ext))
	}
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "loading presentation", err)
	}
	return p, arg, nil
}
