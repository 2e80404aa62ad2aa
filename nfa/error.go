// Package nfa holds the compiled form of a tinyre pattern and the
// backtracking matcher that executes it.
//
// A pattern compiles into an arena of nodes (Program). Each node refers to
// its continuation by index; branch nodes additionally refer to a sub chain.
// The Backtracker walks that graph in continuation-passing style: a node
// only succeeds if everything after it succeeds too, so later nodes can force
// earlier choice points to try their next option.
package nfa

import (
	"errors"
	"fmt"
)

// ErrTooComplex indicates the pattern is too complex to compile
var ErrTooComplex = errors.New("pattern too complex")

// CompileError wraps compilation errors with the offending pattern.
// Parse failures unwrap to a *syntax.Error.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("compiling pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("compiling pattern: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents an inconsistency found while assembling a Program
// through the Builder API.
type BuildError struct {
	Message string
	NodeID  NodeID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.NodeID != InvalidNode {
		return fmt.Sprintf("program build error at node %d: %s", e.NodeID, e.Message)
	}
	return fmt.Sprintf("program build error: %s", e.Message)
}
