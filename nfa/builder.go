package nfa

import (
	"github.com/coregx/tinyre/internal/conv"
	"github.com/coregx/tinyre/syntax"
)

// Builder constructs Programs incrementally using a low-level API.
// This provides full control over node layout and is used by the Compiler.
//
// Nodes are appended to a single arena and referenced by index. Because the
// compiler emits chains back to front, every node's continuation already
// exists when the node is added; only Loop sub chains need patching.
type Builder struct {
	nodes      []Node
	start      NodeID
	loops      int
	groups     int
	groupOpen  [GroupCount]NodeID
	groupClose [GroupCount]NodeID
}

// NewBuilder creates a new builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new builder with the given initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	b := &Builder{
		nodes: make([]Node, 0, capacity),
		start: InvalidNode,
	}
	for g := range b.groupOpen {
		b.groupOpen[g] = InvalidNode
		b.groupClose[g] = InvalidNode
	}
	return b
}

func (b *Builder) add(n Node) NodeID {
	id := NodeID(conv.IntToUint32(len(b.nodes)))
	n.id = id
	b.nodes = append(b.nodes, n)
	return id
}

// AddSuccess adds the terminal node.
func (b *Builder) AddSuccess() NodeID {
	return b.add(Node{kind: NodeSuccess, next: InvalidNode, sub: InvalidNode})
}

// AddByte adds a node matching the single byte c.
func (b *Builder) AddByte(c byte, next NodeID) NodeID {
	return b.add(Node{kind: NodeByte, b: c, next: next, sub: InvalidNode})
}

// AddLiteral adds a node matching lit. Single-byte literals get a Byte node.
func (b *Builder) AddLiteral(lit []byte, next NodeID) NodeID {
	if len(lit) == 1 {
		return b.AddByte(lit[0], next)
	}
	return b.add(Node{kind: NodeLiteral, lit: string(lit), next: next, sub: InvalidNode})
}

// AddAny adds a node matching any one byte.
func (b *Builder) AddAny(next NodeID) NodeID {
	return b.add(Node{kind: NodeAny, next: next, sub: InvalidNode})
}

// AddDotStar adds the fused greedy wildcard. minWidth is 0 for '.*' and
// 1 for '.+'.
func (b *Builder) AddDotStar(minWidth int, next NodeID) NodeID {
	return b.add(Node{kind: NodeDotStar, min: minWidth, next: next, sub: InvalidNode})
}

// AddClass adds a character class node.
func (b *Builder) AddClass(cc syntax.CharClass, next NodeID) NodeID {
	return b.add(Node{kind: NodeClass, class: cc, next: next, sub: InvalidNode})
}

// AddBeginText adds a '^' assertion.
func (b *Builder) AddBeginText(next NodeID) NodeID {
	return b.add(Node{kind: NodeBeginText, next: next, sub: InvalidNode})
}

// AddEndText adds a '$' assertion.
func (b *Builder) AddEndText(next NodeID) NodeID {
	return b.add(Node{kind: NodeEndText, next: next, sub: InvalidNode})
}

// AddCapture adds a capture boundary writing slot. The boundary is recorded
// in the capture table so backreferences and analysis can find the group.
func (b *Builder) AddCapture(slot int, next NodeID) NodeID {
	id := b.add(Node{kind: NodeCapture, slot: conv.IntToUint8(slot), next: next, sub: InvalidNode})
	g := slot / 2
	if slot%2 == 0 {
		b.groupOpen[g] = id
	} else {
		b.groupClose[g] = id
	}
	if g > b.groups {
		b.groups = g
	}
	return id
}

// AddBackref adds a node matching the text bound to group.
func (b *Builder) AddBackref(group int, next NodeID) NodeID {
	return b.add(Node{kind: NodeBackref, group: conv.IntToUint8(group), next: next, sub: InvalidNode})
}

// AddLoop adds a greedy repetition branch. The sub chain is not known yet
// (it flows back into the loop) and must be set with PatchSub.
func (b *Builder) AddLoop(next NodeID) NodeID {
	idx := conv.IntToUint32(b.loops)
	b.loops++
	return b.add(Node{kind: NodeLoop, loop: idx, next: next, sub: InvalidNode})
}

// AddOptional adds a '?' branch trying sub before falling through to next.
func (b *Builder) AddOptional(sub, next NodeID) NodeID {
	return b.add(Node{kind: NodeOptional, sub: sub, next: next})
}

// AddAlternation adds an ordered choice over alts.
// The slice is copied to avoid aliasing.
func (b *Builder) AddAlternation(alts []NodeID) NodeID {
	cp := make([]NodeID, len(alts))
	copy(cp, alts)
	return b.add(Node{kind: NodeAlternation, alts: cp, next: InvalidNode, sub: InvalidNode})
}

// AddEpsilon adds a node that only forwards to next.
func (b *Builder) AddEpsilon(next NodeID) NodeID {
	return b.add(Node{kind: NodeEpsilon, next: next, sub: InvalidNode})
}

// PatchSub sets the sub chain of a Loop node.
func (b *Builder) PatchSub(loop, sub NodeID) error {
	if int(loop) >= len(b.nodes) {
		return &BuildError{Message: "node ID out of bounds", NodeID: loop}
	}
	n := &b.nodes[loop]
	if n.kind != NodeLoop {
		return &BuildError{Message: "cannot patch sub chain of " + n.kind.String() + " node", NodeID: loop}
	}
	n.sub = sub
	return nil
}

// SetStart sets the entry node.
func (b *Builder) SetStart(start NodeID) {
	b.start = start
}

// Build validates the arena, strips epsilon nodes, runs the analysis passes
// and returns the finished Program. The builder must not be used afterwards.
func (b *Builder) Build() (*Program, error) {
	if b.start == InvalidNode {
		return nil, &BuildError{Message: "start node not set", NodeID: InvalidNode}
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	b.stripEpsilons()

	p := &Program{
		nodes:      b.nodes,
		start:      b.start,
		groups:     b.groups,
		loops:      b.loops,
		groupOpen:  b.groupOpen,
		groupClose: b.groupClose,
	}
	p.analyze()
	return p, nil
}

func (b *Builder) validate() error {
	valid := func(id NodeID) bool {
		return int(id) < len(b.nodes)
	}
	if !valid(b.start) {
		return &BuildError{Message: "start node out of bounds", NodeID: b.start}
	}
	for i := range b.nodes {
		n := &b.nodes[i]
		switch n.kind {
		case NodeSuccess:
		case NodeAlternation:
			if len(n.alts) == 0 {
				return &BuildError{Message: "alternation without alternatives", NodeID: n.id}
			}
			for _, alt := range n.alts {
				if !valid(alt) {
					return &BuildError{Message: "alternative out of bounds", NodeID: n.id}
				}
			}
		case NodeLoop, NodeOptional:
			if !valid(n.sub) {
				return &BuildError{Message: "unpatched sub chain", NodeID: n.id}
			}
			fallthrough
		default:
			if !valid(n.next) {
				return &BuildError{Message: "dangling continuation", NodeID: n.id}
			}
		}
	}
	return nil
}

// stripEpsilons redirects every reference past epsilon nodes. The epsilon
// nodes stay in the arena but become unreachable.
func (b *Builder) stripEpsilons() {
	resolve := func(id NodeID) NodeID {
		// Epsilon chains are acyclic: every cycle in the arena passes
		// through a Loop node.
		for id != InvalidNode && b.nodes[id].kind == NodeEpsilon {
			id = b.nodes[id].next
		}
		return id
	}
	for i := range b.nodes {
		n := &b.nodes[i]
		n.next = resolve(n.next)
		n.sub = resolve(n.sub)
		for j, alt := range n.alts {
			n.alts[j] = resolve(alt)
		}
	}
	b.start = resolve(b.start)
}
