package literal

import (
	"testing"
)

func seqOf(lits ...string) *Seq {
	out := make([]Literal, len(lits))
	for i, s := range lits {
		out[i] = NewLiteral([]byte(s))
	}
	return NewSeq(out...)
}

func seqStrings(s *Seq) []string {
	var out []string
	for _, b := range s.Bytes() {
		out = append(out, string(b))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSeqBasics(t *testing.T) {
	var nilSeq *Seq
	if nilSeq.Len() != 0 || !nilSeq.IsEmpty() {
		t.Error("nil Seq should be empty")
	}

	s := seqOf("foo", "bar")
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if got := string(s.Get(1).Bytes); got != "bar" {
		t.Errorf("Get(1) = %q, want %q", got, "bar")
	}
	if got := s.String(); got != `["foo" "bar"]` {
		t.Errorf("String() = %s", got)
	}
	if got := s.Get(0).String(); got != "literal{foo}" {
		t.Errorf("Literal.String() = %s", got)
	}
}

func TestSeqMinimize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, nil},
		{"disjoint", []string{"ab", "cde"}, []string{"cde", "ab"}},
		{"substring", []string{"oba", "foobar"}, []string{"foobar"}},
		{"duplicate", []string{"xy", "xy"}, []string{"xy"}},
		{"prefix and suffix", []string{"he", "hello", "lo"}, []string{"hello"}},
		{"equal length keeps order", []string{"abc", "def", "ghi"}, []string{"abc", "def", "ghi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seqOf(tt.in...)
			s.Minimize()
			if got := seqStrings(s); !equalStrings(got, tt.want) {
				t.Errorf("Minimize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSeqKeepLongestAndDrop(t *testing.T) {
	s := seqOf("a", "abcd", "xyz", "pq")
	s.DropShorterThan(2)
	s.Minimize()
	s.KeepLongest(2)
	want := []string{"abcd", "xyz"}
	if got := seqStrings(s); !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSeqClone(t *testing.T) {
	s := seqOf("abc")
	c := s.Clone()
	c.Get(0).Bytes[0] = 'z'
	if string(s.Get(0).Bytes) != "abc" {
		t.Error("Clone shares literal storage with the original")
	}
}
