// Package present defines monoid presentations - an alphabet plus a
// list of defining relations - and loaders for the YAML and CUE file
// formats the CLI accepts. A loaded presentation is turned into a
// rewriting system with Build.
package present
