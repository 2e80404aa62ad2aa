// Package syntax parses the restricted pattern language accepted by tinyre
// into a small abstract syntax tree.
//
// The grammar is intentionally narrow:
//
//	alternate: sequence ('|' sequence)*
//	sequence:  quantified*
//	quantified: atom ('*' | '+' | '?')?
//	atom:      literal-run | '.' | '^' | '$' | class | '(' alternate ')'
//	           | '(?:' alternate ')' | '\1' | '\2' | '\3'
//
// All matching is byte oriented. Character classes cover ASCII only: bytes
// at or above 0x80 are never members of a class, negated or not.
package syntax

import (
	"strconv"
	"strings"
)

// MaxGroups is the number of explicit capture groups a pattern may declare.
// Group 0 (the whole match) is implicit and not counted.
const MaxGroups = 3

// Op identifies the kind of a Regexp node.
type Op uint8

const (
	// OpEmpty matches the empty string.
	OpEmpty Op = iota + 1

	// OpLiteral matches the bytes in Lit exactly.
	OpLiteral

	// OpAnyChar matches any single byte.
	OpAnyChar

	// OpDotStar is the fused form of '.*' (Min == 0) and '.+' (Min == 1).
	OpDotStar

	// OpCharClass matches one byte that is a member of Class.
	OpCharClass

	// OpBeginText matches at the absolute start of the subject.
	OpBeginText

	// OpEndText matches at the end of the subject.
	OpEndText

	// OpCapture is a capturing group; Cap is its 1-based index.
	OpCapture

	// OpBackref matches the text previously captured by group Cap.
	OpBackref

	// OpStar, OpPlus and OpQuest are greedy quantifiers over Sub[0].
	OpStar
	OpPlus
	OpQuest

	// OpConcat matches Sub in sequence.
	OpConcat

	// OpAlternate tries Sub in order; the first alternative that leads to
	// an overall match wins.
	OpAlternate
)

var opNames = [...]string{
	OpEmpty:     "Empty",
	OpLiteral:   "Literal",
	OpAnyChar:   "AnyChar",
	OpDotStar:   "DotStar",
	OpCharClass: "CharClass",
	OpBeginText: "BeginText",
	OpEndText:   "EndText",
	OpCapture:   "Capture",
	OpBackref:   "Backref",
	OpStar:      "Star",
	OpPlus:      "Plus",
	OpQuest:     "Quest",
	OpConcat:    "Concat",
	OpAlternate: "Alternate",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// Regexp is a node of the parsed syntax tree.
type Regexp struct {
	Op    Op
	Sub   []*Regexp
	Lit   []byte    // OpLiteral
	Class CharClass // OpCharClass
	Cap   int       // OpCapture, OpBackref
	Min   int       // OpDotStar
}

// String renders the tree back into pattern syntax. Group structure and
// fused forms are preserved, so the result re-parses to an equivalent tree.
func (re *Regexp) String() string {
	var b strings.Builder
	re.write(&b)
	return b.String()
}

func (re *Regexp) write(b *strings.Builder) {
	switch re.Op {
	case OpEmpty:
	case OpLiteral:
		for _, c := range re.Lit {
			if isMeta(c) {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
	case OpAnyChar:
		b.WriteByte('.')
	case OpDotStar:
		if re.Min == 0 {
			b.WriteString(".*")
		} else {
			b.WriteString(".+")
		}
	case OpCharClass:
		b.WriteString(re.Class.String())
	case OpBeginText:
		b.WriteByte('^')
	case OpEndText:
		b.WriteByte('$')
	case OpCapture:
		b.WriteByte('(')
		re.Sub[0].write(b)
		b.WriteByte(')')
	case OpBackref:
		b.WriteByte('\\')
		b.WriteString(strconv.Itoa(re.Cap))
	case OpStar, OpPlus, OpQuest:
		sub := re.Sub[0]
		if sub.needsGroup() {
			b.WriteString("(?:")
			sub.write(b)
			b.WriteByte(')')
		} else {
			sub.write(b)
		}
		switch re.Op {
		case OpStar:
			b.WriteByte('*')
		case OpPlus:
			b.WriteByte('+')
		default:
			b.WriteByte('?')
		}
	case OpConcat:
		for _, sub := range re.Sub {
			if sub.Op == OpAlternate {
				b.WriteString("(?:")
				sub.write(b)
				b.WriteByte(')')
				continue
			}
			sub.write(b)
		}
	case OpAlternate:
		for i, sub := range re.Sub {
			if i > 0 {
				b.WriteByte('|')
			}
			sub.write(b)
		}
	}
}

// needsGroup reports whether re must be wrapped before a postfix operator
// can bind to it as a single atom.
func (re *Regexp) needsGroup() bool {
	switch re.Op {
	case OpLiteral:
		return len(re.Lit) != 1
	case OpEmpty, OpConcat, OpAlternate, OpDotStar, OpStar, OpPlus, OpQuest:
		return true
	}
	return false
}

// CharClass is a 128-entry membership bitmap over ASCII bytes.
type CharClass [2]uint64

// Add inserts c. Bytes >= 0x80 are ignored.
func (cc *CharClass) Add(c byte) {
	if c < 0x80 {
		cc[c>>6] |= 1 << (c & 63)
	}
}

// AddRange inserts every byte in [lo, hi].
func (cc *CharClass) AddRange(lo, hi byte) {
	for c := int(lo); c <= int(hi) && c < 0x80; c++ {
		cc.Add(byte(c))
	}
}

// Negate complements the class within the ASCII range.
func (cc *CharClass) Negate() {
	cc[0] = ^cc[0]
	cc[1] = ^cc[1]
}

// Contains reports whether c is a member.
func (cc *CharClass) Contains(c byte) bool {
	return c < 0x80 && cc[c>>6]&(1<<(c&63)) != 0
}

// Len returns the number of member bytes.
func (cc *CharClass) Len() int {
	n := 0
	for c := 0; c < 0x80; c++ {
		if cc.Contains(byte(c)) {
			n++
		}
	}
	return n
}

// Single returns the only member of a one-byte class.
func (cc *CharClass) Single() (byte, bool) {
	if cc.Len() != 1 {
		return 0, false
	}
	for c := 0; c < 0x80; c++ {
		if cc.Contains(byte(c)) {
			return byte(c), true
		}
	}
	return 0, false
}

// String renders the class as a bracket expression of ranges.
func (cc *CharClass) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for c := 0; c < 0x80; c++ {
		if !cc.Contains(byte(c)) {
			continue
		}
		lo := c
		for c+1 < 0x80 && cc.Contains(byte(c+1)) {
			c++
		}
		writeClassByte(&b, byte(lo))
		if c > lo {
			b.WriteByte('-')
			writeClassByte(&b, byte(c))
		}
	}
	b.WriteByte(']')
	return b.String()
}

func writeClassByte(b *strings.Builder, c byte) {
	switch c {
	case ']', '\\', '-', '^':
		b.WriteByte('\\')
	}
	b.WriteByte(c)
}

func isMeta(c byte) bool {
	return strings.IndexByte(`\.+*?()|[^$`, c) >= 0
}

func isQuantifier(c byte) bool {
	return c == '*' || c == '+' || c == '?'
}
