package meta

import (
	"sync"

	"github.com/coregx/tinyre/nfa"
)

// SearchState holds per-call mutable state so one Engine can serve many
// goroutines. It is obtained from a sync.Pool.
//
// Usage pattern:
//
//	state := e.getSearchState()
//	defer e.putSearchState(state)
//
// Thread safety: each goroutine must use its own SearchState. The
// SearchState itself is NOT thread-safe.
type SearchState struct {
	backtracker *nfa.BacktrackerState
}

func newSearchState() *SearchState {
	return &SearchState{
		backtracker: nfa.NewBacktrackerState(),
	}
}

// searchStatePool manages SearchState instances for reuse.
type searchStatePool struct {
	pool sync.Pool
}

func newSearchStatePool() *searchStatePool {
	p := &searchStatePool{}
	p.pool = sync.Pool{
		New: func() any {
			return newSearchState()
		},
	}
	return p
}

// get retrieves a SearchState, armed with the given step and depth limits.
func (p *searchStatePool) get(limit, depth int) *SearchState {
	s := p.pool.Get().(*SearchState)
	s.backtracker.Reset(limit)
	s.backtracker.SetDepthLimit(depth)
	return s
}

// put returns a SearchState to the pool for reuse.
func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	p.pool.Put(state)
}
