package prefilter

import (
	"github.com/coregx/tinyre/syntax"
)

// ByteMask is the set of ASCII bytes every match contains.
//
// The check builds the presence set of the text and succeeds when it is a
// superset of the mask. Non-ASCII bytes never contribute: the pattern mask
// only ever holds ASCII bytes, so they cannot help satisfy it.
type ByteMask struct {
	required syntax.CharClass
}

// NewByteMask creates a mask requiring every member of required.
func NewByteMask(required syntax.CharClass) ByteMask {
	return ByteMask{required: required}
}

// Required returns the bytes the mask requires.
func (m ByteMask) Required() syntax.CharClass {
	return m.required
}

// IsEmpty reports whether the mask requires nothing.
func (m ByteMask) IsEmpty() bool {
	return m.required[0] == 0 && m.required[1] == 0
}

// MayMatch reports whether text contains every required byte.
func (m ByteMask) MayMatch(text string) bool {
	if m.IsEmpty() {
		return true
	}
	missing := m.required
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 0x80 {
			continue
		}
		missing[c>>6] &^= 1 << (c & 63)
		if missing[0] == 0 && missing[1] == 0 {
			return true
		}
	}
	return false
}
