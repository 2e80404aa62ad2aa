// Package prefilter provides the quick-reject check consulted before a
// pattern is run against a text.
//
// A quick reject never decides that a text matches. It only rules texts out
// when they lack something every match must contain:
//   - ByteMask: the set of ASCII bytes present on every successful path
//   - LiteralFilter: the multi-byte literals present on every successful
//     path, checked in one pass with an Aho-Corasick automaton
//
// Both are conservative. A text they accept may still fail to match, but a
// text they reject can never match.
//
// Example usage:
//
//	prog, _ := nfa.NewDefaultCompiler().Compile("hello.*world")
//	qr := prefilter.New(prog, literal.New(literal.DefaultConfig()))
//	qr.MayMatch("say hello")       // false: "world" is missing
//	qr.MayMatch("hello big world") // true: run the matcher
package prefilter

import (
	"github.com/coregx/tinyre/literal"
	"github.com/coregx/tinyre/nfa"
)

// Filter is a necessary condition for a match.
//
// MayMatch must return true for every text that contains a match. It may
// also return true for texts that do not.
type Filter interface {
	// MayMatch reports whether text could contain a match.
	MayMatch(text string) bool

	// IsEmpty reports whether the filter accepts every text, in which case
	// calling it is wasted work.
	IsEmpty() bool
}

// QuickReject combines the byte presence mask with the required literal
// filter. Stages that would accept every text are left out.
type QuickReject struct {
	mask     ByteMask
	literals *LiteralFilter
	stages   []Filter
}

var (
	_ Filter = ByteMask{}
	_ Filter = (*LiteralFilter)(nil)
	_ Filter = (*QuickReject)(nil)
)

// New builds the quick-reject filter for prog. When extractor is nil the
// literal stage is skipped and only the byte mask is used.
func New(prog *nfa.Program, extractor *literal.Extractor) *QuickReject {
	qr := &QuickReject{
		mask: NewByteMask(prog.RequiredBytes()),
	}
	if extractor != nil {
		qr.literals = NewLiteralFilter(extractor.ExtractRequired(prog))
	}
	// The byte mask is cheaper, so it runs first.
	if !qr.mask.IsEmpty() {
		qr.stages = append(qr.stages, qr.mask)
	}
	if !qr.literals.IsEmpty() {
		qr.stages = append(qr.stages, qr.literals)
	}
	return qr
}

// MayMatch reports whether text passes every stage of the filter.
func (q *QuickReject) MayMatch(text string) bool {
	for _, f := range q.stages {
		if !f.MayMatch(text) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the filter accepts every text.
func (q *QuickReject) IsEmpty() bool {
	return len(q.stages) == 0
}

// Stages returns the active stages in the order they run.
func (q *QuickReject) Stages() []Filter {
	return q.stages
}

// Mask returns the byte presence stage.
func (q *QuickReject) Mask() ByteMask {
	return q.mask
}

// Literals returns the literal stage, or nil if there is none.
func (q *QuickReject) Literals() *LiteralFilter {
	if q.literals.IsEmpty() {
		return nil
	}
	return q.literals
}
