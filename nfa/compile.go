package nfa

import (
	"fmt"

	"github.com/coregx/tinyre/syntax"
)

// treeLevelsPerGroup is the deepest syntax tree one group nesting level can
// produce: the group, an alternation, a concatenation and a repetition.
const treeLevelsPerGroup = 4

// CompilerConfig configures compilation behavior
type CompilerConfig struct {
	// MaxRecursionDepth limits group nesting in the pattern. Emitting nodes
	// may recurse treeLevelsPerGroup times as deep per nesting level.
	// Default: 100
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRecursionDepth: 100,
	}
}

// Compiler compiles patterns into Programs.
type Compiler struct {
	config  CompilerConfig
	builder *Builder
	depth   int // current recursion depth
	budget  int // maximum emit recursion depth
}

// NewCompiler creates a new compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = 100
	}
	return &Compiler{
		config:  config,
		builder: NewBuilder(),
		budget:  treeLevelsPerGroup * (config.MaxRecursionDepth + 1),
	}
}

// NewDefaultCompiler creates a new compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile parses and compiles pattern. Malformed patterns yield a
// *CompileError wrapping the *syntax.Error; nothing is partially compiled.
func (c *Compiler) Compile(pattern string) (*Program, error) {
	re, err := syntax.ParseWithDepth(pattern, c.config.MaxRecursionDepth)
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     err,
		}
	}

	prog, err := c.CompileRegexp(re)
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     err,
		}
	}
	return prog, nil
}

// CompileRegexp compiles a parsed syntax tree into a Program.
func (c *Compiler) CompileRegexp(re *syntax.Regexp) (*Program, error) {
	c.builder = NewBuilder()
	c.depth = 0

	// Chains are emitted back to front, so the terminal node comes first.
	success := c.builder.AddSuccess()
	start, err := c.emit(re, success)
	if err != nil {
		return nil, err
	}
	c.builder.SetStart(start)

	return c.builder.Build()
}

// emit compiles re so that it continues into next and returns its entry.
func (c *Compiler) emit(re *syntax.Regexp, next NodeID) (NodeID, error) {
	c.depth++
	if c.depth > c.budget {
		return InvalidNode, ErrTooComplex
	}
	defer func() { c.depth-- }()

	b := c.builder
	switch re.Op {
	case syntax.OpEmpty:
		return b.AddEpsilon(next), nil
	case syntax.OpLiteral:
		return b.AddLiteral(re.Lit, next), nil
	case syntax.OpAnyChar:
		return b.AddAny(next), nil
	case syntax.OpDotStar:
		return b.AddDotStar(re.Min, next), nil
	case syntax.OpCharClass:
		if ch, ok := re.Class.Single(); ok {
			return b.AddByte(ch, next), nil
		}
		return b.AddClass(re.Class, next), nil
	case syntax.OpBeginText:
		return b.AddBeginText(next), nil
	case syntax.OpEndText:
		return b.AddEndText(next), nil
	case syntax.OpCapture:
		return c.emitCapture(re, next)
	case syntax.OpBackref:
		return b.AddBackref(re.Cap, next), nil
	case syntax.OpStar:
		return c.emitLoop(re.Sub[0], next, false)
	case syntax.OpPlus:
		return c.emitLoop(re.Sub[0], next, true)
	case syntax.OpQuest:
		return c.emitOptional(re.Sub[0], next)
	case syntax.OpConcat:
		for i := len(re.Sub) - 1; i >= 0; i-- {
			id, err := c.emit(re.Sub[i], next)
			if err != nil {
				return InvalidNode, err
			}
			next = id
		}
		return next, nil
	case syntax.OpAlternate:
		alts := make([]NodeID, len(re.Sub))
		for i, sub := range re.Sub {
			id, err := c.emit(sub, next)
			if err != nil {
				return InvalidNode, err
			}
			alts[i] = id
		}
		return b.AddAlternation(alts), nil
	default:
		return InvalidNode, fmt.Errorf("unsupported syntax operation: %v", re.Op)
	}
}

func (c *Compiler) emitCapture(re *syntax.Regexp, next NodeID) (NodeID, error) {
	closeID := c.builder.AddCapture(2*re.Cap+1, next)
	body, err := c.emit(re.Sub[0], closeID)
	if err != nil {
		return InvalidNode, err
	}
	return c.builder.AddCapture(2*re.Cap, body), nil
}

// emitLoop compiles '*' (entry at the loop) and '+' (entry at the body,
// which then flows into the loop).
func (c *Compiler) emitLoop(sub *syntax.Regexp, next NodeID, atLeastOnce bool) (NodeID, error) {
	loop := c.builder.AddLoop(next)
	body, err := c.emit(sub, loop)
	if err != nil {
		return InvalidNode, err
	}
	if err := c.builder.PatchSub(loop, body); err != nil {
		return InvalidNode, err
	}
	if atLeastOnce {
		return body, nil
	}
	return loop, nil
}

// emitOptional compiles '?'. An optional capture group keeps its boundary
// markers outside the branch: when the branch is skipped both markers land
// on the same position and the group reads as empty instead of unset.
func (c *Compiler) emitOptional(sub *syntax.Regexp, next NodeID) (NodeID, error) {
	if sub.Op == syntax.OpCapture {
		closeID := c.builder.AddCapture(2*sub.Cap+1, next)
		body, err := c.emit(sub.Sub[0], closeID)
		if err != nil {
			return InvalidNode, err
		}
		opt := c.builder.AddOptional(body, closeID)
		return c.builder.AddCapture(2*sub.Cap, opt), nil
	}
	body, err := c.emit(sub, next)
	if err != nil {
		return InvalidNode, err
	}
	return c.builder.AddOptional(body, next), nil
}
