package nfa

import "strings"

// DefaultDepthLimit bounds the number of open choice points of a match
// call unless SetDepthLimit says otherwise.
const DefaultDepthLimit = 100_000

// Backtracker executes a Program by continuation-passing backtracking.
//
// Deterministic nodes (literals, classes, anchors, captures) are stepped
// through in a loop; recursion happens only at choice points (Loop,
// Optional, Alternation, DotStar). Recursion depth therefore equals the
// number of open choice points. Every loop iteration keeps one open, so
// depth grows with the text; the state's depth limit caps it.
//
// A Backtracker holds no mutable state and is safe for concurrent use. All
// per-call scratch lives in a BacktrackerState owned by the caller.
type Backtracker struct {
	prog *Program
}

// NewBacktracker creates a matcher for prog.
func NewBacktracker(prog *Program) *Backtracker {
	return &Backtracker{prog: prog}
}

// Program returns the compiled program being executed.
func (b *Backtracker) Program() *Program {
	return b.prog
}

// trailEntry records the previous value of a register so a failed branch
// can be rolled back.
type trailEntry struct {
	reg int
	old int
}

// BacktrackerState holds the mutable state for a match call.
// Each goroutine must use its own BacktrackerState.
type BacktrackerState struct {
	// regs holds the live capture slots followed by one progress register
	// per Loop node (the position where the loop's current iteration began).
	regs []int

	// trail undoes register writes made by abandoned branches.
	trail []trailEntry

	// slots is the capture array of the last successful match.
	slots [SlotCount]int

	// steps counts node visits since the last Reset.
	steps int

	// limit stops matching after that many node visits. 0 means no limit.
	limit int

	// depth is the number of open choice points.
	depth int

	// depthLimit caps depth; see SetDepthLimit.
	depthLimit int

	// exhausted is set once limit or depthLimit has been hit.
	exhausted bool

	// tooDeep is set when depthLimit stopped the match.
	tooDeep bool

	// base is the offset the current attempt started at; '^' matches there.
	base int
}

// NewBacktrackerState creates an empty state. It grows on first use.
func NewBacktrackerState() *BacktrackerState {
	return &BacktrackerState{depthLimit: DefaultDepthLimit}
}

// SetDepthLimit sets the maximum number of open choice points. Values
// below 1 restore DefaultDepthLimit.
func (s *BacktrackerState) SetDepthLimit(n int) {
	if n < 1 {
		n = DefaultDepthLimit
	}
	s.depthLimit = n
}

// Reset prepares the state for a new top-level call. The step budget is
// shared by every MatchAt until the next Reset.
func (s *BacktrackerState) Reset(limit int) {
	s.steps = 0
	s.limit = limit
	s.exhausted = false
	s.tooDeep = false
}

// Slots returns the capture slots of the last successful MatchAt.
// Unset slots are -1.
func (s *BacktrackerState) Slots() [SlotCount]int {
	return s.slots
}

// Exhausted reports whether the step limit or the depth limit stopped the
// search.
func (s *BacktrackerState) Exhausted() bool {
	return s.exhausted
}

// TooDeep reports whether the depth limit stopped the search.
func (s *BacktrackerState) TooDeep() bool {
	return s.tooDeep
}

// Steps returns the number of node visits since the last Reset.
func (s *BacktrackerState) Steps() int {
	return s.steps
}

func (s *BacktrackerState) prepare(numRegs int) {
	if cap(s.regs) >= numRegs {
		s.regs = s.regs[:numRegs]
	} else {
		s.regs = make([]int, numRegs)
	}
	for i := range s.regs {
		s.regs[i] = -1
	}
	s.trail = s.trail[:0]
	s.depth = 0
}

func (s *BacktrackerState) set(reg, v int) {
	s.trail = append(s.trail, trailEntry{reg: reg, old: s.regs[reg]})
	s.regs[reg] = v
}

func (s *BacktrackerState) undo(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		e := s.trail[i]
		s.regs[e.reg] = e.old
	}
	s.trail = s.trail[:mark]
}

// MatchAt reports whether the program matches text starting exactly at
// start. The attempt behaves like a match against text[start:]: '^' matches
// at start and '$' at len(text). Capture offsets stay relative to text.
//
// On success the capture array is available from st.Slots(); slots 0 and 1
// hold the whole match.
func (b *Backtracker) MatchAt(st *BacktrackerState, text string, start int) bool {
	if start < 0 || start > len(text) || st.exhausted {
		return false
	}
	st.prepare(SlotCount + b.prog.NumLoops())
	st.base = start
	if !b.run(st, text, b.prog.start, start) {
		return false
	}
	st.slots[0] = start
	return true
}

// branch runs a choice point's sub chain one level deeper.
func (b *Backtracker) branch(st *BacktrackerState, text string, id NodeID, pos int) bool {
	if st.depth >= st.depthLimit {
		st.exhausted = true
		st.tooDeep = true
		return false
	}
	st.depth++
	ok := b.run(st, text, id, pos)
	st.depth--
	return ok
}

// run executes the chain from id at pos. It returns true only if the
// whole remaining chain matched.
//
//nolint:gocyclo,cyclop // complexity is inherent to node dispatch
func (b *Backtracker) run(st *BacktrackerState, text string, id NodeID, pos int) bool {
	nodes := b.prog.nodes
	for {
		if st.limit > 0 {
			st.steps++
			if st.steps > st.limit {
				st.exhausted = true
				return false
			}
		}

		n := &nodes[id]
		switch n.kind {
		case NodeSuccess:
			copy(st.slots[:], st.regs[:SlotCount])
			st.slots[1] = pos
			return true

		case NodeByte:
			if pos >= len(text) || text[pos] != n.b {
				return false
			}
			pos++

		case NodeLiteral:
			if !strings.HasPrefix(text[pos:], n.lit) {
				return false
			}
			pos += len(n.lit)

		case NodeAny:
			if pos >= len(text) {
				return false
			}
			pos++

		case NodeClass:
			if pos >= len(text) || !n.class.Contains(text[pos]) {
				return false
			}
			pos++

		case NodeDotStar:
			// Greedy: jump to the end, then give back one byte at a time.
			mark := len(st.trail)
			for end := len(text); end >= pos+n.min; end-- {
				if b.branch(st, text, n.next, end) {
					return true
				}
				if st.exhausted {
					return false
				}
				st.undo(mark)
			}
			return false

		case NodeBeginText:
			if pos != st.base {
				return false
			}

		case NodeEndText:
			if pos != len(text) {
				return false
			}

		case NodeCapture:
			st.set(int(n.slot), pos)

		case NodeBackref:
			// A group that was never entered reads as empty.
			from, to := st.regs[2*n.group], st.regs[2*n.group+1]
			if from >= 0 && to >= from {
				ref := text[from:to]
				if !strings.HasPrefix(text[pos:], ref) {
					return false
				}
				pos += len(ref)
			}

		case NodeLoop:
			reg := SlotCount + int(n.loop)
			if st.regs[reg] == pos {
				// The iteration that just finished consumed nothing;
				// another one would not either.
				id = n.next
				continue
			}
			mark := len(st.trail)
			st.set(reg, pos)
			if b.branch(st, text, n.sub, pos) {
				return true
			}
			if st.exhausted {
				return false
			}
			st.undo(mark)
			id = n.next
			continue

		case NodeOptional:
			mark := len(st.trail)
			if b.branch(st, text, n.sub, pos) {
				return true
			}
			if st.exhausted {
				return false
			}
			st.undo(mark)

		case NodeAlternation:
			last := len(n.alts) - 1
			for _, alt := range n.alts[:last] {
				mark := len(st.trail)
				if b.branch(st, text, alt, pos) {
					return true
				}
				if st.exhausted {
					return false
				}
				st.undo(mark)
			}
			id = n.alts[last]
			continue

		case NodeEpsilon:
		}

		id = n.next
	}
}
