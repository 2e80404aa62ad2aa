// Package literal provides the literal strings a pattern requires, for use
// by the quick-reject prefilter.
//
// Key concepts:
//   - A Literal is a concrete byte sequence that every match contains
//   - A Seq is a set of such literals; a text can only match if it contains
//     all of them
//   - Minimize drops literals implied by longer ones
package literal

import (
	"bytes"
	"slices"
)

// Literal is a byte sequence that occurs in every match of a pattern.
//
// Example:
//   - Pattern /hello.*world/ requires "hello" and "world"
//   - Pattern /(ab|cd)ef/ requires only "ef"
type Literal struct {
	// Bytes contains the literal byte sequence.
	Bytes []byte
}

// NewLiteral creates a Literal from b.
func NewLiteral(b []byte) Literal {
	return Literal{Bytes: b}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
func (l Literal) String() string {
	return "literal{" + string(l.Bytes) + "}"
}

// Seq is a conjunction of required literals.
//
// Unlike an alternation set, every member must be present in a matching
// text, so dropping a member only weakens the filter and never makes it
// wrong. That is what allows Minimize and KeepLongest to prune freely.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo")),
//	    literal.NewLiteral([]byte("bar")),
//	)
//	fmt.Println(seq.Len()) // Output: 2
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at index i.
// Panics if i is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// Bytes returns the literal byte slices in sequence order.
func (s *Seq) Bytes() [][]byte {
	if s.IsEmpty() {
		return nil
	}
	out := make([][]byte, len(s.literals))
	for i, lit := range s.literals {
		out[i] = lit.Bytes
	}
	return out
}

// Clone returns a deep copy of the sequence.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	lits := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		lits[i] = NewLiteral(bytes.Clone(lit.Bytes))
	}
	return NewSeq(lits...)
}

// Minimize removes duplicates and every literal that is a substring of
// another member. The result is ordered longest first (ties keep their
// original order).
//
// After Minimize no member occurs inside another, so two members can never
// be reported at the same start offset by a leftmost-first multi-pattern
// search.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("oba")),
//	    literal.NewLiteral([]byte("foobar")),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "foobar" remains)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	slices.SortStableFunc(s.literals, func(a, b Literal) int {
		return len(b.Bytes) - len(a.Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for _, k := range kept {
			if bytes.Contains(k.Bytes, current.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// KeepLongest truncates the sequence to its n longest members.
// The sequence must already be minimized.
func (s *Seq) KeepLongest(n int) {
	if s.IsEmpty() || n < 0 || len(s.literals) <= n {
		return
	}
	s.literals = s.literals[:n]
}

// DropShorterThan removes literals shorter than minLen bytes.
func (s *Seq) DropShorterThan(minLen int) {
	if s.IsEmpty() {
		return
	}
	s.literals = slices.DeleteFunc(s.literals, func(l Literal) bool {
		return len(l.Bytes) < minLen
	})
}

// String returns a debug representation such as ["foo" "bar"].
func (s *Seq) String() string {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, lit := range s.Bytes() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('"')
		b.Write(lit)
		b.WriteByte('"')
	}
	b.WriteByte(']')
	return b.String()
}
