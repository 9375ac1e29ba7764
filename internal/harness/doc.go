// Package harness provides a conformance harness for completion runs.
//
// A scenario is a YAML file naming a presentation, whether to complete
// it, and words to reduce afterwards. The harness runs the scenario
// with deterministic tokens and renders the outcome as a stable text
// snapshot, which golden tests compare against files under
// testdata/golden.
package harness
