package nfa

import (
	"strings"
	"testing"
)

func matchAt(t *testing.T, pattern, text string, start int) ([SlotCount]int, bool) {
	t.Helper()
	bt := NewBacktracker(compileForTest(t, pattern))
	st := NewBacktrackerState()
	st.Reset(0)
	ok := bt.MatchAt(st, text, start)
	return st.Slots(), ok
}

func TestBacktracker_Match(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
		end     int
	}{
		{"abc", "abcd", true, 3},
		{"abc", "abd", false, 0},
		{"a*", "aaab", true, 3},
		{"a*b", "aaab", true, 4},
		{"a+", "b", false, 0},
		{"a?ab", "ab", true, 2},
		{"a|ab", "ab", true, 1},
		{"(a|ab)c", "abc", true, 3},
		{".*b", "abab", true, 4},
		{".+", "", false, 0},
		{"[a-c]+", "cabd", true, 3},
		{"x$", "x", true, 1},
		{"x$", "xy", false, 0},
		{"^", "", true, 0},
		{"(a*)*b", "aab", true, 3},
		{"(a|)+b", "aab", true, 3},
		{"", "zzz", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			slots, ok := matchAt(t, tt.pattern, tt.text, 0)
			if ok != tt.want {
				t.Fatalf("MatchAt = %v, want %v", ok, tt.want)
			}
			if ok && (slots[0] != 0 || slots[1] != tt.end) {
				t.Errorf("span = [%d,%d], want [0,%d]", slots[0], slots[1], tt.end)
			}
		})
	}
}

func TestBacktracker_Captures(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    [SlotCount]int
	}{
		// Suffix stripping: the greedy stem gives bytes back until the suffix fits.
		{`(.*)(ed|ing)$`, "planned", [SlotCount]int{0, 7, 0, 5, 5, 7, -1, -1}},
		{`(a*)(b)\1`, "aaaabaaaa", [SlotCount]int{0, 9, 0, 4, 4, 5, -1, -1}},
		{`(a)?b`, "b", [SlotCount]int{0, 1, 0, 0, -1, -1, -1, -1}},
		{`(a)|(b)`, "b", [SlotCount]int{0, 1, -1, -1, 0, 1, -1, -1}},
		// The last iteration wins.
		{`(a|b)*`, "abb", [SlotCount]int{0, 3, 2, 3, -1, -1, -1, -1}},
		{`(x)(y)(z)`, "xyz", [SlotCount]int{0, 3, 0, 1, 1, 2, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			slots, ok := matchAt(t, tt.pattern, tt.text, 0)
			if !ok {
				t.Fatal("expected a match")
			}
			if slots != tt.want {
				t.Errorf("slots = %v, want %v", slots, tt.want)
			}
		})
	}
}

func TestBacktracker_BackrefMustRepeat(t *testing.T) {
	if _, ok := matchAt(t, `(ab)\1`, "abac", 0); ok {
		t.Error("backreference should not match different text")
	}
	if _, ok := matchAt(t, `(a)?\1b`, "b", 0); !ok {
		t.Error("a skipped optional group reads as empty")
	}
}

func TestBacktracker_MatchAtOffset(t *testing.T) {
	slots, ok := matchAt(t, "^b$", "ab", 1)
	if !ok {
		t.Fatal("'^' should match where the attempt starts")
	}
	if slots[0] != 1 || slots[1] != 2 {
		t.Errorf("span = [%d,%d], want [1,2]", slots[0], slots[1])
	}
	if _, ok := matchAt(t, "a", "ab", 3); ok {
		t.Error("start past the end should not match")
	}
	if _, ok := matchAt(t, "", "ab", 2); !ok {
		t.Error("empty pattern matches at the end")
	}
}

func TestBacktracker_StepLimit(t *testing.T) {
	bt := NewBacktracker(compileForTest(t, "(a*)*b"))
	st := NewBacktrackerState()
	text := strings.Repeat("a", 30)

	st.Reset(1000)
	if bt.MatchAt(st, text, 0) {
		t.Fatal("unexpected match")
	}
	if !st.Exhausted() {
		t.Fatalf("expected the step limit to be hit after %d steps", st.Steps())
	}
	if bt.MatchAt(st, text, 1) {
		t.Error("an exhausted state must not match again")
	}

	st.Reset(0)
	if bt.MatchAt(st, text+"b", 0) != true || st.Exhausted() {
		t.Error("unlimited state should match")
	}
}

func TestBacktracker_StateReuse(t *testing.T) {
	bt := NewBacktracker(compileForTest(t, "(a)(b)?"))
	st := NewBacktrackerState()
	st.Reset(0)
	if !bt.MatchAt(st, "ab", 0) {
		t.Fatal("expected match")
	}
	if !bt.MatchAt(st, "a", 0) {
		t.Fatal("expected match")
	}
	want := [SlotCount]int{0, 1, 0, 1, 1, 1, -1, -1}
	if st.Slots() != want {
		t.Errorf("slots = %v, want %v", st.Slots(), want)
	}
}

func TestBacktracker_DepthLimit(t *testing.T) {
	bt := NewBacktracker(compileForTest(t, "a*b"))
	st := NewBacktrackerState()
	st.Reset(0)
	text := strings.Repeat("a", 4<<20) + "b"
	if bt.MatchAt(st, text, 0) {
		t.Fatal("a text needing more open loop iterations than the limit must not match")
	}
	if !st.Exhausted() || !st.TooDeep() {
		t.Errorf("Exhausted() = %v, TooDeep() = %v, want both true", st.Exhausted(), st.TooDeep())
	}

	st.Reset(0)
	if st.TooDeep() {
		t.Error("Reset must clear TooDeep")
	}
}

func TestBacktracker_DepthLimitNoShorterFallback(t *testing.T) {
	bt := NewBacktracker(compileForTest(t, "a*"))
	st := NewBacktrackerState()
	text := strings.Repeat("a", 50)

	st.SetDepthLimit(10)
	st.Reset(0)
	if bt.MatchAt(st, text, 0) {
		t.Errorf("stopped loop reported a match ending at %d", st.Slots()[1])
	}

	st.SetDepthLimit(100)
	st.Reset(0)
	if !bt.MatchAt(st, text, 0) {
		t.Fatal("expected match within the depth limit")
	}
	if st.Slots()[1] != 50 {
		t.Errorf("match end = %d, want 50", st.Slots()[1])
	}

	st.SetDepthLimit(0)
	st.Reset(0)
	if !bt.MatchAt(st, text, 0) {
		t.Error("the default depth limit should allow 50 iterations")
	}
}
