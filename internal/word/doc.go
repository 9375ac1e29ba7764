// Package word defines the internal word representation used by the
// rewriting engine: dense byte letters, the shortlex reduction order,
// and the alphabet codec that maps caller-facing runes onto the
// internal letter space.
package word
