package literal

import (
	"github.com/coregx/tinyre/nfa"
)

// ExtractorConfig configures literal extraction limits.
//
// Example:
//
//	config := literal.ExtractorConfig{
//	    MinLiteralLen: 2,
//	    MaxLiterals:   8,
//	}
//	extractor := literal.New(config)
type ExtractorConfig struct {
	// MinLiteralLen drops literals shorter than this. Single bytes are
	// already covered by the byte presence mask. Default: 2.
	MinLiteralLen int

	// MaxLiterals keeps only the longest literals. Default: 16.
	MaxLiterals int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MinLiteralLen: 2,
		MaxLiterals:   16,
	}
}

// Extractor pulls required literals out of compiled programs.
//
// A literal is required when its node lies on every path from the entry to
// Success. Literals inside alternations, optional parts and loops are not
// required and are never reported.
//
// Example:
//
//	prog, _ := nfa.NewDefaultCompiler().Compile("(ab|cd)efg.*xyz")
//	seq := literal.New(literal.DefaultConfig()).ExtractRequired(prog)
//	// seq holds "efg" and "xyz"
type Extractor struct {
	config ExtractorConfig
}

// New creates a new literal extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractRequired returns the minimized set of literals every match of prog
// contains. The result may be empty but is never nil.
func (e *Extractor) ExtractRequired(prog *nfa.Program) *Seq {
	found := prog.RequiredLiterals()
	lits := make([]Literal, 0, len(found))
	for _, s := range found {
		lits = append(lits, NewLiteral([]byte(s)))
	}

	seq := NewSeq(lits...)
	seq.DropShorterThan(e.config.MinLiteralLen)
	seq.Minimize()
	if e.config.MaxLiterals > 0 {
		seq.KeepLongest(e.config.MaxLiterals)
	}
	return seq
}
