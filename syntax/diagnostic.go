// Package syntax turns source text into the flat node sequences
// github.com/user/barb's reducer walks. It is deliberately thin: almost
// every binary operator is emitted as a flat, unassociated sequence and
// left for the reducer's own Pairwise/Triple rules to fold — the parser
// only builds real nested structure where the grammar itself nests
// (let/if/fun/groups/arrays/sets/generators, and the two short-circuit
// operators && and ||, which the reducer models as a tree, not a list).
package syntax

// DiagnosticLevel indicates severity.
type DiagnosticLevel int

const (
	DiagError DiagnosticLevel = iota
	DiagWarning
)

// Diagnostic is a parse-time message with a source location.
type Diagnostic struct {
	Level   DiagnosticLevel
	Offset  uint32
	Length  uint32
	Message string
	Code    string
}
