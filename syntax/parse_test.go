package syntax

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTree(t *testing.T) {
	tests := []struct {
		pattern string
		op      Op
		nsub    int
	}{
		{"", OpEmpty, 0},
		{"abc", OpLiteral, 0},
		{".", OpAnyChar, 0},
		{".*", OpDotStar, 0},
		{"[ab]", OpCharClass, 0},
		{"^", OpBeginText, 0},
		{"$", OpEndText, 0},
		{"(a)", OpCapture, 1},
		{"(?:ab)", OpLiteral, 0},
		{"a*", OpStar, 1},
		{"a+", OpPlus, 1},
		{"a?", OpQuest, 1},
		{"ab|cd|", OpAlternate, 3},
		{"(a)\\1", OpConcat, 2},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.pattern, err)
			}
			if re.Op != tt.op {
				t.Errorf("Op = %v, want %v", re.Op, tt.op)
			}
			if len(re.Sub) != tt.nsub {
				t.Errorf("len(Sub) = %d, want %d", len(re.Sub), tt.nsub)
			}
		})
	}
}

func TestParseLiteralSplitBeforeQuantifier(t *testing.T) {
	re, err := Parse("abc*")
	if err != nil {
		t.Fatal(err)
	}
	if re.Op != OpConcat || len(re.Sub) != 2 {
		t.Fatalf("got %v with %d subs, want concat of 2", re.Op, len(re.Sub))
	}
	if string(re.Sub[0].Lit) != "ab" {
		t.Errorf("first literal = %q, want ab", re.Sub[0].Lit)
	}
	star := re.Sub[1]
	if star.Op != OpStar || string(star.Sub[0].Lit) != "c" {
		t.Errorf("quantifier bound to %v %q, want c", star.Sub[0].Op, star.Sub[0].Lit)
	}
}

func TestParseDotStarFusion(t *testing.T) {
	re, err := Parse(".+")
	if err != nil {
		t.Fatal(err)
	}
	if re.Op != OpDotStar || re.Min != 1 {
		t.Errorf("Parse(.+) = %v min %d, want OpDotStar min 1", re.Op, re.Min)
	}
	re, err = Parse(".?")
	if err != nil {
		t.Fatal(err)
	}
	if re.Op != OpQuest || re.Sub[0].Op != OpAnyChar {
		t.Errorf("Parse(.?) = %v", re.Op)
	}
}

func TestParseEscapes(t *testing.T) {
	re, err := Parse(`a\.\*\\b`)
	if err != nil {
		t.Fatal(err)
	}
	if re.Op != OpLiteral || string(re.Lit) != `a.*\b` {
		t.Errorf("got %v %q", re.Op, re.Lit)
	}
}

func TestParseCharClass(t *testing.T) {
	tests := []struct {
		pattern string
		in      string
		out     string
	}{
		{"[abc]", "abc", "dA-"},
		{"[a-c]", "abc", "d"},
		{"[^a-c]", "dxZ-", "abc"},
		{"[]a]", "]a", "b"},
		{"[a-]", "a-", "b"},
		{`[\]\\]`, `]\`, "a"},
		{"[-a]", "-a", "b"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if re.Op != OpCharClass {
				t.Fatalf("Op = %v", re.Op)
			}
			for i := 0; i < len(tt.in); i++ {
				if !re.Class.Contains(tt.in[i]) {
					t.Errorf("class should contain %q", tt.in[i])
				}
			}
			for i := 0; i < len(tt.out); i++ {
				if re.Class.Contains(tt.out[i]) {
					t.Errorf("class should not contain %q", tt.out[i])
				}
			}
		})
	}
}

func TestNegatedClassExcludesHighBytes(t *testing.T) {
	re, err := Parse("[^a]")
	if err != nil {
		t.Fatal(err)
	}
	if re.Class.Contains(0xe9) {
		t.Error("bytes >= 0x80 must never be class members")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		code    ErrorCode
		pos     int
	}{
		{"(ab", ErrMissingParen, 0},
		{"a(b(c)", ErrMissingParen, 1},
		{"ab)", ErrUnexpectedParen, 2},
		{"*", ErrMissingRepeatArgument, 0},
		{"a(*)", ErrMissingRepeatArgument, 2},
		{"a+*", ErrInvalidRepeatOp, 1},
		{"$?", ErrMissingRepeatArgument, 1},
		{`\1`, ErrInvalidBackref, 0},
		{`(a)\2`, ErrInvalidBackref, 3},
		{`(a\1)`, ErrInvalidBackref, 2},
		{`\0`, ErrInvalidBackref, 0},
		{"[ab", ErrMissingBracket, 0},
		{"[a\\", ErrMissingBracket, 0},
		{"[c-a]", ErrInvalidCharRange, 1},
		{"ab\\", ErrTrailingBackslash, 2},
		{"(a)(b)(c)(d)", ErrTooManyGroups, 9},
		{"(?i)", ErrInvalidGroup, 0},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Parse(tt.pattern)
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error = %v, want *Error", tt.pattern, err)
			}
			if perr.Code != tt.code {
				t.Errorf("Code = %q, want %q", perr.Code, tt.code)
			}
			if perr.Pos != tt.pos {
				t.Errorf("Pos = %d, want %d", perr.Pos, tt.pos)
			}
			if !errors.Is(err, tt.code) {
				t.Error("errors.Is should match the code")
			}
			if !strings.Contains(err.Error(), string(tt.code)) {
				t.Errorf("Error() = %q", err.Error())
			}
		})
	}
}

func TestParseNestingDepth(t *testing.T) {
	deep := strings.Repeat("(?:", 5) + "a" + strings.Repeat(")", 5)
	if _, err := ParseWithDepth(deep, 5); err != nil {
		t.Errorf("depth 5 rejected: %v", err)
	}
	_, err := ParseWithDepth(deep, 4)
	if !errors.Is(err, ErrNestingDepth) {
		t.Errorf("err = %v, want ErrNestingDepth", err)
	}
	if _, err := Parse(strings.Repeat("(?:", DefaultMaxDepth+1) + strings.Repeat(")", DefaultMaxDepth+1)); !errors.Is(err, ErrNestingDepth) {
		t.Errorf("default depth not enforced: %v", err)
	}
}

func TestRegexpStringRoundTrip(t *testing.T) {
	patterns := []string{
		"abc", "a(b|c)d", "(a*)b", `(.+(.))\2ed`, "^(.+)i$", "abc|",
		"(?:ab)+c", "[^a-z]x?", `a\.b\*`, ".*x.+", "(a|b)*", `(x)\1\1`,
	}
	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			re, err := Parse(pattern)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			s := re.String()
			re2, err := Parse(s)
			if err != nil {
				t.Fatalf("re-Parse(%q) failed: %v", s, err)
			}
			if s2 := re2.String(); s2 != s {
				t.Errorf("String not stable: %q -> %q", s, s2)
			}
		})
	}
}

func TestCharClassHelpers(t *testing.T) {
	var cc CharClass
	cc.AddRange('a', 'c')
	cc.Add('x')
	cc.Add(0xff)
	if cc.Len() != 4 {
		t.Errorf("Len() = %d, want 4", cc.Len())
	}
	if _, ok := cc.Single(); ok {
		t.Error("Single() on a 4-member class")
	}
	if got := cc.String(); got != "[a-cx]" {
		t.Errorf("String() = %q", got)
	}

	var one CharClass
	one.Add('q')
	if c, ok := one.Single(); !ok || c != 'q' {
		t.Errorf("Single() = %q, %v", c, ok)
	}

	one.Negate()
	if one.Len() != 127 || one.Contains('q') {
		t.Errorf("Negate: Len() = %d", one.Len())
	}
}

func TestOpString(t *testing.T) {
	if OpAlternate.String() == "" || OpLiteral.String() == OpAnyChar.String() {
		t.Error("Op names should be distinct and non-empty")
	}
}
