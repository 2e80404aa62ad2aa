package meta

import (
	"errors"
	"sync/atomic"

	"github.com/coregx/tinyre/literal"
	"github.com/coregx/tinyre/nfa"
	"github.com/coregx/tinyre/prefilter"
)

// ErrStepLimit is carried by a Result when Config.StepLimit stopped the
// matcher before it could decide.
var ErrStepLimit = errors.New("step limit exceeded")

// ErrDepthLimit is carried by a Result when Config.MaxMatchDepth stopped
// the matcher before it could decide.
var ErrDepthLimit = errors.New("match depth limit exceeded")

// Result is the outcome of one Match or Search call.
type Result struct {
	// Matched reports whether the pattern matched.
	Matched bool

	// Slots holds the capture boundaries. Pair 0 is the whole match, pairs
	// 1..3 the explicit groups. Unset slots are -1.
	Slots [nfa.SlotCount]int

	// Err is ErrStepLimit or ErrDepthLimit when the search was cut short,
	// nil otherwise.
	Err error
}

func noMatch(err error) Result {
	r := Result{Err: err}
	for i := range r.Slots {
		r.Slots[i] = -1
	}
	return r
}

// Engine executes one compiled pattern.
//
// Thread safety: an Engine is immutable after construction apart from its
// statistics counters, which are updated atomically. Concurrent calls each
// take their own SearchState from the pool.
type Engine struct {
	prog   *nfa.Program
	bt     *nfa.Backtracker
	filter *prefilter.QuickReject
	config Config
	pool   *searchStatePool
	stats  stats
}

type stats struct {
	matches        atomic.Uint64
	searches       atomic.Uint64
	quickRejects   atomic.Uint64
	stepLimitHits  atomic.Uint64
	depthLimitHits atomic.Uint64
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Matches counts anchored Match calls.
	Matches uint64

	// Searches counts Search calls.
	Searches uint64

	// QuickRejects counts calls answered by the quick-reject filter alone.
	QuickRejects uint64

	// StepLimitHits counts calls stopped by Config.StepLimit.
	StepLimitHits uint64

	// DepthLimitHits counts calls stopped by Config.MaxMatchDepth.
	DepthLimitHits uint64
}

// Compile compiles pattern with the default configuration.
//
// Example:
//
//	engine, err := meta.Compile(`a(b|c)d`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := engine.Match("abd", true)
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles pattern with a custom configuration.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	compiler := nfa.NewCompiler(nfa.CompilerConfig{
		MaxRecursionDepth: config.MaxRecursionDepth,
	})
	prog, err := compiler.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return NewEngine(prog, config)
}

// NewEngine wraps an already compiled program.
func NewEngine(prog *nfa.Program, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		prog:   prog,
		bt:     nfa.NewBacktracker(prog),
		config: config,
		pool:   newSearchStatePool(),
	}

	if config.EnableQuickReject {
		var extractor *literal.Extractor
		if config.EnableLiteralFilter {
			extractor = literal.New(literal.ExtractorConfig{
				MinLiteralLen: config.MinLiteralLen,
				MaxLiterals:   config.MaxLiterals,
			})
		}
		qr := prefilter.New(prog, extractor)
		if !qr.IsEmpty() {
			e.filter = qr
		}
	}
	return e, nil
}

// Program returns the compiled program.
func (e *Engine) Program() *nfa.Program {
	return e.prog
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.config
}

// QuickReject returns the quick-reject filter, or nil when it is disabled
// or would accept every text.
func (e *Engine) QuickReject() *prefilter.QuickReject {
	return e.filter
}

// MayMatch reports whether text passes the quick-reject filter.
func (e *Engine) MayMatch(text string) bool {
	return e.filter == nil || e.filter.MayMatch(text)
}

// Match runs the matcher anchored at offset 0 of text. When useFilter is
// true the quick-reject filter is consulted first.
func (e *Engine) Match(text string, useFilter bool) Result {
	e.stats.matches.Add(1)
	if len(text) < e.prog.MinLength() {
		return noMatch(nil)
	}
	if useFilter && !e.MayMatch(text) {
		e.stats.quickRejects.Add(1)
		return noMatch(nil)
	}

	state := e.pool.get(e.config.StepLimit, e.config.MaxMatchDepth)
	defer e.pool.put(state)

	if e.bt.MatchAt(state.backtracker, text, 0) {
		return Result{Matched: true, Slots: state.backtracker.Slots()}
	}
	return e.failure(state)
}

// Search returns the leftmost offset at which the anchored matcher
// succeeds. Offsets range from 0 to len(text)-MinLength(). An attempt at
// offset o behaves like Match on text[o:], but slots stay relative to text.
func (e *Engine) Search(text string) Result {
	e.stats.searches.Add(1)
	last := len(text) - e.prog.MinLength()
	if last < 0 {
		return noMatch(nil)
	}
	if !e.MayMatch(text) {
		e.stats.quickRejects.Add(1)
		return noMatch(nil)
	}
	state := e.pool.get(e.config.StepLimit, e.config.MaxMatchDepth)
	defer e.pool.put(state)

	for at := 0; at <= last; at++ {
		if e.bt.MatchAt(state.backtracker, text, at) {
			return Result{Matched: true, Slots: state.backtracker.Slots()}
		}
		if state.backtracker.Exhausted() {
			break
		}
	}
	return e.failure(state)
}

func (e *Engine) failure(state *SearchState) Result {
	switch {
	case state.backtracker.TooDeep():
		e.stats.depthLimitHits.Add(1)
		return noMatch(ErrDepthLimit)
	case state.backtracker.Exhausted():
		e.stats.stepLimitHits.Add(1)
		return noMatch(ErrStepLimit)
	}
	return noMatch(nil)
}

// Stats returns a snapshot of the execution statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		Matches:        e.stats.matches.Load(),
		Searches:       e.stats.searches.Load(),
		QuickRejects:   e.stats.quickRejects.Load(),
		StepLimitHits:  e.stats.stepLimitHits.Load(),
		DepthLimitHits: e.stats.depthLimitHits.Load(),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	e.stats.matches.Store(0)
	e.stats.searches.Store(0)
	e.stats.quickRejects.Store(0)
	e.stats.stepLimitHits.Store(0)
	e.stats.depthLimitHits.Store(0)
}
