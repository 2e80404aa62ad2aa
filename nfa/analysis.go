package nfa

import (
	"slices"

	"github.com/coregx/tinyre/syntax"
)

// PathFold describes a value computed over all paths from a node to
// Success. It is the common shape of every compile-time metric: a property
// that must hold on every successful path is folded with Step along a chain
// and combined with Meet where paths diverge.
//
// Loop nodes contribute only their continuation, since zero further
// iterations is always a valid path. '+' loops are preceded by a copy of
// their body, which is where a mandatory first iteration is accounted for.
// This also keeps the fold acyclic: every cycle in a Program passes through
// a Loop's sub edge.
type PathFold[T any] struct {
	// Success is the value at the terminal node.
	Success T

	// Step folds a non-branching node into the value of its continuation.
	Step func(n *Node, next T) T

	// Meet combines the values of diverging paths.
	Meet func(a, b T) T
}

// Fold evaluates f from the entry node of p.
func Fold[T any](p *Program, f PathFold[T]) T {
	return FoldFrom(p, p.start, f)
}

// FoldFrom evaluates f from node id.
func FoldFrom[T any](p *Program, id NodeID, f PathFold[T]) T {
	memo := make(map[NodeID]T, len(p.nodes))
	var eval func(id NodeID) T
	eval = func(id NodeID) T {
		if v, ok := memo[id]; ok {
			return v
		}
		n := &p.nodes[id]
		var v T
		switch n.kind {
		case NodeSuccess:
			v = f.Success
		case NodeLoop, NodeEpsilon:
			v = eval(n.next)
		case NodeOptional:
			v = f.Meet(eval(n.sub), eval(n.next))
		case NodeAlternation:
			v = eval(n.alts[0])
			for _, alt := range n.alts[1:] {
				v = f.Meet(v, eval(alt))
			}
		default:
			v = f.Step(n, eval(n.next))
		}
		memo[id] = v
		return v
	}
	return eval(id)
}

// analyze computes the per-program metrics once, at build time.
func (p *Program) analyze() {
	p.minLen = Fold(p, PathFold[int]{
		Success: 0,
		Step:    func(n *Node, next int) int { return n.width() + next },
		Meet:    func(a, b int) int { return min(a, b) },
	})

	p.endAnchor = Fold(p, PathFold[bool]{
		Success: false,
		Step: func(n *Node, next bool) bool {
			return n.kind == NodeEndText || next
		},
		Meet: func(a, b bool) bool { return a && b },
	})

	p.required = Fold(p, PathFold[uint8]{
		Success: 0,
		Step: func(n *Node, next uint8) uint8 {
			if n.kind == NodeCapture && n.slot%2 == 1 {
				return next | 1<<(n.slot/2)
			}
			return next
		},
		Meet: func(a, b uint8) uint8 { return a & b },
	})

	p.maxLen = p.maxFrom(p.start, InvalidNode, p.groupMaxLengths())
}

// groupMaxLengths returns the longest span each group can capture.
func (p *Program) groupMaxLengths() [GroupCount]int {
	var spans [GroupCount]int
	for g := 1; g <= p.groups; g++ {
		open, closeID := p.groupOpen[g], p.groupClose[g]
		if open == InvalidNode || closeID == InvalidNode {
			continue
		}
		// Groups only reference earlier groups, so spans[:g] is complete.
		spans[g] = p.maxFrom(p.nodes[open].next, closeID, spans)
	}
	return spans
}

// maxFrom returns the longest text consumed between id and stop (or Success
// when stop is InvalidNode). Any reachable loop or '.*' makes it Unbounded.
func (p *Program) maxFrom(id, stop NodeID, groupMax [GroupCount]int) int {
	memo := make(map[NodeID]int)
	var eval func(id NodeID) int
	eval = func(id NodeID) int {
		if id == stop {
			return 0
		}
		if v, ok := memo[id]; ok {
			return v
		}
		n := &p.nodes[id]
		var v int
		switch n.kind {
		case NodeSuccess:
			v = 0
		case NodeLoop, NodeDotStar:
			v = Unbounded
		case NodeOptional:
			a, b := eval(n.sub), eval(n.next)
			if a == Unbounded || b == Unbounded {
				v = Unbounded
			} else {
				v = max(a, b)
			}
		case NodeAlternation:
			for _, alt := range n.alts {
				a := eval(alt)
				if a == Unbounded {
					v = Unbounded
					break
				}
				v = max(v, a)
			}
		case NodeBackref:
			v = addBounded(groupMax[n.group], eval(n.next))
		default:
			v = addBounded(n.width(), eval(n.next))
		}
		memo[id] = v
		return v
	}
	return eval(id)
}

func addBounded(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return a + b
}

// RequiredBytes returns the set of ASCII bytes that occur in the text
// consumed by every successful path. Only Byte, Literal and single-member
// Class nodes contribute, so the set is a safe under-approximation.
func (p *Program) RequiredBytes() syntax.CharClass {
	return Fold(p, PathFold[syntax.CharClass]{
		Step: func(n *Node, next syntax.CharClass) syntax.CharClass {
			switch n.kind {
			case NodeByte:
				next.Add(n.b)
			case NodeLiteral:
				for i := 0; i < len(n.lit); i++ {
					next.Add(n.lit[i])
				}
			case NodeClass:
				if c, ok := n.class.Single(); ok {
					next.Add(c)
				}
			}
			return next
		},
		Meet: func(a, b syntax.CharClass) syntax.CharClass {
			return syntax.CharClass{a[0] & b[0], a[1] & b[1]}
		},
	})
}

// RequiredLiterals returns the Literal nodes that lie on every successful
// path, in ascending node order.
func (p *Program) RequiredLiterals() []string {
	ids := Fold(p, PathFold[[]NodeID]{
		Step: func(n *Node, next []NodeID) []NodeID {
			if n.kind != NodeLiteral {
				return next
			}
			out := make([]NodeID, 0, len(next)+1)
			out = append(out, next...)
			out = append(out, n.id)
			slices.Sort(out)
			return slices.Compact(out)
		},
		Meet: func(a, b []NodeID) []NodeID {
			var out []NodeID
			for _, id := range a {
				if _, found := slices.BinarySearch(b, id); found {
					out = append(out, id)
				}
			}
			return out
		},
	})
	lits := make([]string, len(ids))
	for i, id := range ids {
		lits[i] = p.nodes[id].lit
	}
	return lits
}
