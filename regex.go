// Package tinyre provides a small backtracking pattern engine for rewriting
// short words and phrases.
//
// A pattern compiles into a chain of matcher nodes that is executed by a
// continuation-passing backtracker. Matching is anchored: Match succeeds
// only if the pattern matches at the start of the text, and Search slides
// that anchored match across the text. A successful match can be turned
// into a new string with a template containing \0 to \3.
//
// Basic usage:
//
//	p := tinyre.MustCompile(`^(.+)i$`)
//	m := p.Match("worthi")
//	if m.Matched() {
//	    out, _ := m.Replace(`\1y`)
//	    fmt.Println(out) // "worthy"
//	}
//
// Syntax:
//
//	xy          concatenation
//	x|y         ordered alternation (first alternative that leads to a match wins)
//	(x)         capture group, at most 3
//	(?:x)       non-capturing group
//	x* x+ x?    greedy repetition, exactly one per atom
//	.           any byte; .* and .+ are matched longest first
//	[a-z] [^0-9] ASCII character class
//	^ $         start of the attempt, end of the text
//	\1 \2 \3    backreference to an earlier, closed group
//	\x          literal x
//
// Limitations:
//   - Single-byte ASCII semantics; bytes >= 0x80 never match a class
//   - No lazy quantifiers, counted repetition or flags
//   - Alternation is ordered choice, not leftmost-longest
package tinyre

import (
	"errors"

	"github.com/coregx/tinyre/meta"
	"github.com/coregx/tinyre/nfa"
	"github.com/coregx/tinyre/syntax"
)

// Unbounded is returned by MaximumLength when a repetition makes the match
// length unlimited.
const Unbounded = nfa.Unbounded

// MaxGroups is the number of explicit capture groups a pattern may declare.
const MaxGroups = syntax.MaxGroups

var (
	// ErrInvalidState is returned by Replace on a match result that did
	// not match.
	ErrInvalidState = errors.New("tinyre: replace on failed match")

	// ErrStepLimit is carried by a PatternMatch when Config.StepLimit
	// stopped the matcher.
	ErrStepLimit = meta.ErrStepLimit

	// ErrDepthLimit is carried by a PatternMatch when the text needed more
	// open choice points than Config.MaxMatchDepth allows.
	ErrDepthLimit = meta.ErrDepthLimit
)

// CompileError reports a malformed pattern. It wraps a *syntax.Error for
// syntax problems, so errors.As can recover the offending offset.
type CompileError = nfa.CompileError

// Config controls compilation and matching. See meta.Config.
type Config = meta.Config

// Pattern is a compiled pattern.
//
// A Pattern is immutable and safe to use concurrently from multiple
// goroutines; every call uses its own scratch state.
//
// Example:
//
//	p := tinyre.MustCompile(`a(b|c)d`)
//	m := p.Match("abd")
//	fmt.Println(m.Group(1)) // "b"
type Pattern struct {
	engine  *meta.Engine
	pattern string
}

// Compile compiles a pattern.
//
// Example:
//
//	p, err := tinyre.Compile(`(.+(.))\2ed`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Pattern, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic("tinyre: Compile(`" + pattern + "`): " + err.Error())
	}
	return p
}

// CompileWithConfig compiles a pattern with a custom configuration.
//
// Example:
//
//	config := tinyre.DefaultConfig()
//	config.StepLimit = 10_000
//	p, err := tinyre.CompileWithConfig(`(a|aa)*b`, config)
func CompileWithConfig(pattern string, config Config) (*Pattern, error) {
	engine, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		return nil, err
	}
	return &Pattern{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// DefaultConfig returns the default configuration for compilation.
func DefaultConfig() Config {
	return meta.DefaultConfig()
}

// QuoteMeta returns a pattern that matches s literally.
//
// Example:
//
//	tinyre.QuoteMeta("a.b") // `a\.b`
func QuoteMeta(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i]) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

func isSpecial(c byte) bool {
	const special = `\.+*?()|[]^$`
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

// Match matches the pattern at the start of text.
// The quick-reject filter is consulted before the matcher runs.
func (p *Pattern) Match(text string) *PatternMatch {
	return p.result(text, p.engine.Match(text, true))
}

// MatchN is Match restricted to the first n bytes of text. n is clamped to
// [0, len(text)].
func (p *Pattern) MatchN(text string, n int) *PatternMatch {
	return p.Match(clamp(text, n))
}

// MatchBypassingQuickReject is Match without the quick-reject pre-check,
// for callers that already filtered the text.
func (p *Pattern) MatchBypassingQuickReject(text string) *PatternMatch {
	return p.result(text, p.engine.Match(text, false))
}

// Search returns the leftmost anchored match starting at any offset of text.
func (p *Pattern) Search(text string) *PatternMatch {
	return p.result(text, p.engine.Search(text))
}

// SearchN is Search restricted to the first n bytes of text.
func (p *Pattern) SearchN(text string, n int) *PatternMatch {
	return p.Search(clamp(text, n))
}

// IsMatch reports whether the pattern matches at the start of text.
func (p *Pattern) IsMatch(text string) bool {
	return p.engine.Match(text, true).Matched
}

// MayMatch reports whether text passes the quick-reject filter. A false
// result means neither Match nor Search can succeed on text.
func (p *Pattern) MayMatch(text string) bool {
	return p.engine.MayMatch(text)
}

func (p *Pattern) result(text string, r meta.Result) *PatternMatch {
	return &PatternMatch{
		text:    text,
		slots:   r.Slots,
		matched: r.Matched,
		err:     r.Err,
	}
}

func clamp(text string, n int) string {
	switch {
	case n < 0:
		return ""
	case n > len(text):
		return text
	}
	return text[:n]
}

// HasEndAnchor reports whether every match ends at the end of the text.
func (p *Pattern) HasEndAnchor() bool {
	return p.engine.Program().HasEndAnchor()
}

// MinimumLength returns a lower bound on the length of any match.
func (p *Pattern) MinimumLength() int {
	return p.engine.Program().MinLength()
}

// MaximumLength returns an upper bound on the length of any match, or
// Unbounded.
func (p *Pattern) MaximumLength() int {
	return p.engine.Program().MaxLength()
}

// NumGroups returns the number of explicit capture groups.
func (p *Pattern) NumGroups() int {
	return p.engine.Program().NumGroups()
}

// GroupAlwaysSet reports whether group i is set by every successful match.
// Group 0 is always set.
func (p *Pattern) GroupAlwaysSet(i int) bool {
	return p.engine.Program().GroupAlwaysSet(i)
}

// Program returns the compiled node chain, for inspection.
func (p *Pattern) Program() *nfa.Program {
	return p.engine.Program()
}

// Stats returns the matching statistics of this pattern.
func (p *Pattern) Stats() meta.Stats {
	return p.engine.Stats()
}

// String returns the source text used to compile the pattern.
func (p *Pattern) String() string {
	return p.pattern
}
