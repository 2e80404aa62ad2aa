package tinyre

import (
	"github.com/coregx/tinyre/nfa"
)

// PatternMatch is the result of Match or Search.
//
// It holds the match flag, the subject text and the capture slots. Slots
// are byte offsets into the text; pair 0 is the whole match and pairs 1 to
// 3 are the explicit groups. A group that the successful path never
// entered has both slots at -1.
type PatternMatch struct {
	text    string
	slots   [nfa.SlotCount]int
	matched bool
	err     error
}

// Matched reports whether the pattern matched.
func (m *PatternMatch) Matched() bool {
	return m.matched
}

// Err returns ErrStepLimit or ErrDepthLimit when a limit stopped the matcher
// before it could decide, nil otherwise. A plain non-match is not an error.
func (m *PatternMatch) Err() error {
	return m.err
}

// Text returns the subject text the match ran against.
func (m *PatternMatch) Text() string {
	return m.text
}

// End returns the end-of-text offset, the length of the subject.
func (m *PatternMatch) End() int {
	return len(m.text)
}

// Span returns the byte offsets of group i, or (-1, -1) when the group is
// unset or i is out of range.
func (m *PatternMatch) Span(i int) (start, end int) {
	if !m.matched || i < 0 || 2*i+1 >= len(m.slots) {
		return -1, -1
	}
	start, end = m.slots[2*i], m.slots[2*i+1]
	if start < 0 || end < start {
		return -1, -1
	}
	return start, end
}

// Group returns the text captured by group i. Unset groups are empty.
func (m *PatternMatch) Group(i int) string {
	start, end := m.Span(i)
	if start < 0 {
		return ""
	}
	return m.text[start:end]
}

// Slots returns a copy of the raw capture slots.
func (m *PatternMatch) Slots() []int {
	out := make([]int, len(m.slots))
	copy(out, m.slots[:])
	return out
}

// Replace builds a new string from template, substituting \0 to \3 with the
// captured text. It returns ErrInvalidState if the pattern did not match.
//
// Example:
//
//	m := tinyre.MustCompile(`(a*)b`).Match("aaaab")
//	s, _ := m.Replace(`\0\1`) // "aaaabaaaa"
func (m *PatternMatch) Replace(template string) (string, error) {
	return CompileTemplate(template).Expand(m)
}
