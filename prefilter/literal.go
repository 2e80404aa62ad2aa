package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/tinyre/literal"
)

// maxTrackedLiterals bounds the number of literals, since presence is
// tracked in a uint64 bitmap.
const maxTrackedLiterals = 64

// LiteralFilter checks that all required literals occur in a text.
//
// The literals are compiled into one Aho-Corasick automaton and the text is
// scanned once, advancing one byte past each reported start. The literal
// set must be minimized (no member inside another) so no two literals can
// start at the same offset and this scan sees every occurrence start.
type LiteralFilter struct {
	auto  *ahocorasick.Automaton
	index map[string]int
	all   uint64
}

// NewLiteralFilter builds a filter over seq. It returns nil when seq is
// empty or the automaton cannot be built; a nil filter accepts everything.
func NewLiteralFilter(seq *literal.Seq) *LiteralFilter {
	if seq.IsEmpty() {
		return nil
	}
	seq = seq.Clone()
	seq.Minimize()
	seq.KeepLongest(maxTrackedLiterals)

	builder := ahocorasick.NewBuilder()
	index := make(map[string]int, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		builder.AddPattern(lit.Bytes)
		index[string(lit.Bytes)] = i
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}

	return &LiteralFilter{
		auto:  auto,
		index: index,
		all:   1<<uint(seq.Len()) - 1,
	}
}

// IsEmpty reports whether the filter accepts every text.
func (f *LiteralFilter) IsEmpty() bool {
	return f == nil
}

// Len returns the number of tracked literals.
func (f *LiteralFilter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.index)
}

// MayMatch reports whether every tracked literal occurs in text.
func (f *LiteralFilter) MayMatch(text string) bool {
	if f == nil {
		return true
	}
	haystack := []byte(text)
	var seen uint64
	at := 0
	for at < len(haystack) {
		m := f.auto.Find(haystack, at)
		if m == nil {
			return false
		}
		if i, ok := f.index[string(haystack[m.Start:m.End])]; ok {
			seen |= 1 << uint(i)
			if seen == f.all {
				return true
			}
		}
		at = m.Start + 1
	}
	return false
}
