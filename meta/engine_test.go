package meta

import (
	"errors"
	"strings"
	"testing"

	"github.com/coregx/tinyre/nfa"
)

func mustCompile(t *testing.T, pattern string) *Engine {
	t.Helper()
	e, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", pattern, err)
	}
	return e
}

func TestEngineMatch(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
		slots   []int
	}{
		{"a(b|c)d", "abd", true, []int{0, 3, 1, 2}},
		{"a(b|c)d", "acd", true, []int{0, 3, 1, 2}},
		{"a(b|c)d", "aed", false, nil},
		{"a*d", "aad", true, []int{0, 3}},
		{"a*d", "d", true, []int{0, 1}},
		{"a+bd", "bd", false, nil},
		{"a+bd", "aabd", true, []int{0, 4}},
		{"(a*)b", "aaaab", true, []int{0, 5, 0, 4}},
		{"(.+(.))\\2ed", "planned", true, []int{0, 7, 0, 4, 3, 4}},
		{"^(.+)i$", "worthi", true, []int{0, 6, 0, 5}},
		{"abc|", "", true, []int{0, 0}},
		{"abc", "abcdef", true, []int{0, 3}},
		{"bcd", "abcd", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			e := mustCompile(t, tt.pattern)
			for _, useFilter := range []bool{true, false} {
				r := e.Match(tt.text, useFilter)
				if r.Matched != tt.want {
					t.Fatalf("Match(%q, %v).Matched = %v, want %v", tt.text, useFilter, r.Matched, tt.want)
				}
				if r.Err != nil {
					t.Fatalf("unexpected error: %v", r.Err)
				}
				for i, want := range tt.slots {
					if r.Slots[i] != want {
						t.Errorf("slot %d = %d, want %d (slots %v)", i, r.Slots[i], want, r.Slots)
					}
				}
			}
		})
	}
}

func TestEngineNoMatchSlotsUnset(t *testing.T) {
	r := mustCompile(t, "xyz").Match("abc", true)
	for i, s := range r.Slots {
		if s != -1 {
			t.Errorf("slot %d = %d, want -1", i, s)
		}
	}
}

func TestEngineSearch(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		start   int
		end     int
	}{
		{"bcd", "abcd", 1, 4},
		{"a+", "xxaaay", 2, 5},
		{"b*", "abc", 0, 0},
		{"^b", "ab", 1, 2},
		{"^b$", "abc", -1, -1},
		{"c$", "abcc", 3, 4},
		{"(x)\\1", "axyxxz", 3, 5},
		{"zz", "z", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			r := mustCompile(t, tt.pattern).Search(tt.text)
			if tt.start < 0 {
				if r.Matched {
					t.Fatalf("Search(%q) matched at %v, want no match", tt.text, r.Slots[:2])
				}
				return
			}
			if !r.Matched {
				t.Fatalf("Search(%q) did not match", tt.text)
			}
			if r.Slots[0] != tt.start || r.Slots[1] != tt.end {
				t.Errorf("Search(%q) = [%d,%d], want [%d,%d]", tt.text, r.Slots[0], r.Slots[1], tt.start, tt.end)
			}
		})
	}
}

func TestEngineSearchAgreesWithAnchoredMatcher(t *testing.T) {
	patterns := []string{"a(b|c)d", "a*d", "(a*)b", "x.y", "[^a]c", "(ab)\\1"}
	texts := []string{"", "d", "abd", "xxacd", "baab", "xzy", "bbc", "ababab", "aacabab"}
	for _, pattern := range patterns {
		e := mustCompile(t, pattern)
		bt := nfa.NewBacktracker(e.Program())
		for _, text := range texts {
			want := -1
			for at := 0; at+e.Program().MinLength() <= len(text); at++ {
				st := nfa.NewBacktrackerState()
				if bt.MatchAt(st, text, at) {
					want = at
					break
				}
			}
			r := e.Search(text)
			got := -1
			if r.Matched {
				got = r.Slots[0]
			}
			if got != want {
				t.Errorf("%q on %q: Search offset %d, oracle %d", pattern, text, got, want)
			}
		}
	}
}

func TestEngineQuickRejectStats(t *testing.T) {
	e := mustCompile(t, "hello.*world")
	if e.QuickReject() == nil {
		t.Fatal("expected a quick-reject filter")
	}
	if r := e.Match("hello there", true); r.Matched {
		t.Fatal("unexpected match")
	}
	if r := e.Match("hello there", false); r.Matched {
		t.Fatal("unexpected match")
	}
	s := e.Stats()
	if s.Matches != 2 || s.QuickRejects != 1 {
		t.Errorf("Stats = %+v, want 2 matches and 1 quick reject", s)
	}
	e.ResetStats()
	if s := e.Stats(); s != (Stats{}) {
		t.Errorf("ResetStats left %+v", s)
	}
}

func TestEngineQuickRejectDisabled(t *testing.T) {
	c := DefaultConfig()
	c.EnableQuickReject = false
	e, err := CompileWithConfig("hello", c)
	if err != nil {
		t.Fatal(err)
	}
	if e.QuickReject() != nil {
		t.Error("quick reject should be disabled")
	}
	if !e.MayMatch("") {
		t.Error("MayMatch must accept everything without a filter")
	}
}

func TestEngineStepLimit(t *testing.T) {
	c := DefaultConfig()
	c.StepLimit = 1000
	e, err := CompileWithConfig("(a|aa)*b", c)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("a", 40) + "c"
	// Disable the filter so the matcher actually runs.
	r := e.Match(text, false)
	if r.Matched {
		t.Fatal("unexpected match")
	}
	if !errors.Is(r.Err, ErrStepLimit) {
		t.Fatalf("Err = %v, want ErrStepLimit", r.Err)
	}
	if e.Stats().StepLimitHits != 1 {
		t.Errorf("StepLimitHits = %d, want 1", e.Stats().StepLimitHits)
	}

	// A cheap match stays within budget.
	if r := e.Match("aab", false); !r.Matched || r.Err != nil {
		t.Errorf("Match(aab) = %+v", r)
	}
}

func TestEngineDepthLimit(t *testing.T) {
	c := DefaultConfig()
	c.MaxMatchDepth = 16
	e, err := CompileWithConfig("a*b", c)
	if err != nil {
		t.Fatal(err)
	}
	r := e.Match(strings.Repeat("a", 100)+"b", true)
	if r.Matched {
		t.Fatal("unexpected match")
	}
	if !errors.Is(r.Err, ErrDepthLimit) {
		t.Fatalf("Err = %v, want ErrDepthLimit", r.Err)
	}
	r = e.Search("x" + strings.Repeat("a", 100) + "b")
	if r.Matched || !errors.Is(r.Err, ErrDepthLimit) {
		t.Errorf("Search = %+v, want ErrDepthLimit", r)
	}
	st := e.Stats()
	if st.DepthLimitHits != 2 || st.StepLimitHits != 0 {
		t.Errorf("DepthLimitHits = %d, StepLimitHits = %d, want 2 and 0", st.DepthLimitHits, st.StepLimitHits)
	}

	if r := e.Match("aaab", true); !r.Matched || r.Err != nil {
		t.Errorf("Match(aaab) = %+v", r)
	}
}

func TestEngineCompileErrors(t *testing.T) {
	for _, pattern := range []string{"(ab", "ab)", "*a", "\\2(a)", "[a-", "a\\"} {
		if _, err := Compile(pattern); err == nil {
			t.Errorf("Compile(%q) succeeded, want error", pattern)
		}
	}
}

func TestEngineNestingLimit(t *testing.T) {
	c := DefaultConfig()
	c.MaxRecursionDepth = 3
	if _, err := CompileWithConfig("((((a))))", c); err == nil {
		t.Error("expected nesting depth error")
	}
	if _, err := CompileWithConfig("(?:(?:a))", c); err != nil {
		t.Errorf("shallow nesting rejected: %v", err)
	}
}
