package nfa

import (
	"fmt"
	"strings"

	"github.com/coregx/tinyre/syntax"
)

// NodeID identifies a node inside a Program's arena.
type NodeID uint32

// InvalidNode marks an absent continuation.
const InvalidNode NodeID = 0xFFFFFFFF

// Capture capacity. Slot pair 0 is the whole match, pairs 1..3 are the
// explicit groups. This is a fixed property of the engine, not a default.
const (
	GroupCount = syntax.MaxGroups + 1
	SlotCount  = GroupCount * 2
)

// Unbounded is reported by MaxLength when no finite bound exists.
const Unbounded = -1

// NodeKind identifies the type of a node and which of its fields are valid.
type NodeKind uint8

const (
	// NodeSuccess terminates the chain; reaching it means the match succeeded.
	NodeSuccess NodeKind = iota

	// NodeByte matches one literal byte.
	NodeByte

	// NodeLiteral matches a run of two or more literal bytes.
	NodeLiteral

	// NodeAny matches any single byte.
	NodeAny

	// NodeDotStar is the fused greedy '.*' / '.+'. It jumps to the end of the
	// text and retries the continuation from the longest span to the shortest.
	NodeDotStar

	// NodeClass matches one byte from a 128-entry ASCII bitmap.
	NodeClass

	// NodeBeginText matches only where the current attempt started.
	NodeBeginText

	// NodeEndText matches only at the end of the subject.
	NodeEndText

	// NodeCapture records the current position in a capture slot.
	NodeCapture

	// NodeBackref matches the text currently bound to a capture group.
	NodeBackref

	// NodeLoop is the greedy repetition branch used by '*' and '+'. Its sub
	// chain flows back into the loop node itself.
	NodeLoop

	// NodeOptional is the '?' branch. Its sub chain flows into next.
	NodeOptional

	// NodeAlternation tries its alternatives in order. Every alternative
	// already flows into the shared continuation, so the node has no next.
	NodeAlternation

	// NodeEpsilon only forwards to next. The compiler strips these after
	// construction; they never appear on a reachable path of a built Program.
	NodeEpsilon
)

// String returns a human-readable representation of the NodeKind
func (k NodeKind) String() string {
	switch k {
	case NodeSuccess:
		return "Success"
	case NodeByte:
		return "Byte"
	case NodeLiteral:
		return "Literal"
	case NodeAny:
		return "Any"
	case NodeDotStar:
		return "DotStar"
	case NodeClass:
		return "Class"
	case NodeBeginText:
		return "BeginText"
	case NodeEndText:
		return "EndText"
	case NodeCapture:
		return "Capture"
	case NodeBackref:
		return "Backref"
	case NodeLoop:
		return "Loop"
	case NodeOptional:
		return "Optional"
	case NodeAlternation:
		return "Alternation"
	case NodeEpsilon:
		return "Epsilon"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Node is one step of a compiled pattern.
// The node's kind determines which fields are valid.
type Node struct {
	id   NodeID
	kind NodeKind
	next NodeID

	b     byte             // Byte
	lit   string           // Literal
	class syntax.CharClass // Class
	min   int              // DotStar: 0 for '.*', 1 for '.+'
	slot  uint8            // Capture
	group uint8            // Backref
	sub   NodeID           // Loop, Optional
	loop  uint32           // Loop: index of its progress register
	alts  []NodeID         // Alternation
}

// ID returns the node's arena index
func (n *Node) ID() NodeID {
	return n.id
}

// Kind returns the node's type
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Next returns the continuation. InvalidNode for Success and Alternation.
func (n *Node) Next() NodeID {
	return n.next
}

// Byte returns the byte matched by a Byte node.
func (n *Node) Byte() byte {
	return n.b
}

// Literal returns the bytes matched by a Literal node.
func (n *Node) Literal() string {
	return n.lit
}

// Class returns the membership bitmap of a Class node.
func (n *Node) Class() *syntax.CharClass {
	return &n.class
}

// MinWidth returns 1 for a fused '.+' and 0 for '.*'.
func (n *Node) MinWidth() int {
	return n.min
}

// Slot returns the capture slot written by a Capture node.
// Even slots open a group, odd slots close it.
func (n *Node) Slot() int {
	return int(n.slot)
}

// Group returns the group referenced by a Backref node.
func (n *Node) Group() int {
	return int(n.group)
}

// Sub returns the repeated or optional sub chain of Loop and Optional nodes.
func (n *Node) Sub() NodeID {
	return n.sub
}

// Alternatives returns the ordered entry points of an Alternation node.
func (n *Node) Alternatives() []NodeID {
	return n.alts
}

// width returns how many bytes the node consumes when it matches, for
// nodes with a fixed width.
func (n *Node) width() int {
	switch n.kind {
	case NodeByte, NodeAny, NodeClass:
		return 1
	case NodeLiteral:
		return len(n.lit)
	case NodeDotStar:
		return n.min
	}
	return 0
}

// String returns a human-readable representation of the node
func (n *Node) String() string {
	switch n.kind {
	case NodeSuccess:
		return fmt.Sprintf("%d: Success", n.id)
	case NodeByte:
		return fmt.Sprintf("%d: Byte %q -> %d", n.id, n.b, n.next)
	case NodeLiteral:
		return fmt.Sprintf("%d: Literal %q -> %d", n.id, n.lit, n.next)
	case NodeDotStar:
		return fmt.Sprintf("%d: DotStar min=%d -> %d", n.id, n.min, n.next)
	case NodeClass:
		return fmt.Sprintf("%d: Class %s -> %d", n.id, n.class.String(), n.next)
	case NodeCapture:
		return fmt.Sprintf("%d: Capture slot=%d -> %d", n.id, n.slot, n.next)
	case NodeBackref:
		return fmt.Sprintf("%d: Backref \\%d -> %d", n.id, n.group, n.next)
	case NodeLoop:
		return fmt.Sprintf("%d: Loop sub=%d -> %d", n.id, n.sub, n.next)
	case NodeOptional:
		return fmt.Sprintf("%d: Optional sub=%d -> %d", n.id, n.sub, n.next)
	case NodeAlternation:
		return fmt.Sprintf("%d: Alternation %v", n.id, n.alts)
	default:
		return fmt.Sprintf("%d: %s -> %d", n.id, n.kind, n.next)
	}
}

// Program is a compiled pattern: an arena of nodes plus the metrics computed
// once at compile time. A Program is immutable after Build and may be shared
// by concurrent matchers as long as each uses its own BacktrackerState.
type Program struct {
	nodes []Node
	start NodeID

	// groups is the number of explicit capture groups (0..3).
	groups int

	// loops is the number of Loop nodes; each owns one progress register.
	loops int

	// groupOpen and groupClose are the capture boundary nodes per group.
	// Index 0 is unused (the whole match has no nodes).
	groupOpen  [GroupCount]NodeID
	groupClose [GroupCount]NodeID

	minLen    int
	maxLen    int
	endAnchor bool
	required  uint8 // bit g set when group g is set on every successful path
}

// Start returns the entry node.
func (p *Program) Start() NodeID {
	return p.start
}

// Node returns the node with the given ID.
// Returns nil if the ID is invalid.
func (p *Program) Node(id NodeID) *Node {
	if id == InvalidNode || int(id) >= len(p.nodes) {
		return nil
	}
	return &p.nodes[id]
}

// Len returns the number of nodes in the arena, including stripped
// epsilon nodes that are no longer reachable.
func (p *Program) Len() int {
	return len(p.nodes)
}

// NumGroups returns the number of explicit capture groups.
func (p *Program) NumGroups() int {
	return p.groups
}

// NumLoops returns the number of loop registers a matcher must provide.
func (p *Program) NumLoops() int {
	return p.loops
}

// MinLength returns a lower bound on the length of any match.
func (p *Program) MinLength() int {
	return p.minLen
}

// MaxLength returns an upper bound on the length of any match,
// or Unbounded.
func (p *Program) MaxLength() int {
	return p.maxLen
}

// HasEndAnchor reports whether every successful path passes a '$'.
func (p *Program) HasEndAnchor() bool {
	return p.endAnchor
}

// GroupAlwaysSet reports whether group g is bound on every successful match.
// Group 0 is always set.
func (p *Program) GroupAlwaysSet(g int) bool {
	if g == 0 {
		return true
	}
	if g < 0 || g > p.groups {
		return false
	}
	return p.required&(1<<g) != 0
}

// Reachable returns the IDs of nodes reachable from the entry, in
// ascending order.
func (p *Program) Reachable() []NodeID {
	seen := make([]bool, len(p.nodes))
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if id == InvalidNode || seen[id] {
			return
		}
		seen[id] = true
		n := &p.nodes[id]
		walk(n.next)
		switch n.kind {
		case NodeLoop, NodeOptional:
			walk(n.sub)
		case NodeAlternation:
			for _, alt := range n.alts {
				walk(alt)
			}
		}
	}
	walk(p.start)
	ids := make([]NodeID, 0, len(p.nodes))
	for i, ok := range seen {
		if ok {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

// String returns a dump of the reachable nodes.
func (p *Program) String() string {
	var b strings.Builder
	maxLen := "unbounded"
	if p.maxLen != Unbounded {
		maxLen = fmt.Sprint(p.maxLen)
	}
	fmt.Fprintf(&b, "Program{start: %d, groups: %d, min: %d, max: %s, endAnchor: %v}\n",
		p.start, p.groups, p.minLen, maxLen, p.endAnchor)
	for _, id := range p.Reachable() {
		b.WriteString("  ")
		b.WriteString(p.nodes[id].String())
		b.WriteByte('\n')
	}
	return b.String()
}
