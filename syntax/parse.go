package syntax

// DefaultMaxDepth is the group nesting limit used by Parse.
const DefaultMaxDepth = 100

type parser struct {
	src      string
	pos      int
	groups   int   // capture groups opened so far
	closed   uint8 // bit i set once group i has been closed
	depth    int
	maxDepth int
}

// Parse parses pattern with the default nesting limit.
func Parse(pattern string) (*Regexp, error) {
	return ParseWithDepth(pattern, DefaultMaxDepth)
}

// ParseWithDepth parses pattern, rejecting group nesting deeper than
// maxDepth. A non-positive maxDepth selects DefaultMaxDepth.
func ParseWithDepth(pattern string, maxDepth int) (*Regexp, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser{src: pattern, maxDepth: maxDepth}
	re, err := p.parseAlternate()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		// parseSequence only stops early on ')'.
		return nil, p.errorf(ErrUnexpectedParen, p.pos, ")")
	}
	return re, nil
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) errorf(code ErrorCode, pos int, expr string) *Error {
	return &Error{Code: code, Pos: pos, Expr: expr}
}

// parseAlternate parses sequence ('|' sequence)*.
func (p *parser) parseAlternate() (*Regexp, error) {
	first, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if p.eof() || p.peek() != '|' {
		return first, nil
	}
	alt := &Regexp{Op: OpAlternate, Sub: []*Regexp{first}}
	for !p.eof() && p.peek() == '|' {
		p.pos++
		next, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		alt.Sub = append(alt.Sub, next)
	}
	return alt, nil
}

// parseSequence parses atoms until '|', ')' or the end of the pattern.
func (p *parser) parseSequence() (*Regexp, error) {
	var subs []*Regexp
	for !p.eof() {
		if c := p.peek(); c == '|' || c == ')' {
			break
		}
		re, err := p.parseQuantifiedAtom()
		if err != nil {
			return nil, err
		}
		subs = append(subs, re)
	}
	switch len(subs) {
	case 0:
		return &Regexp{Op: OpEmpty}, nil
	case 1:
		return subs[0], nil
	}
	return &Regexp{Op: OpConcat, Sub: subs}, nil
}

// parseQuantifiedAtom parses one atom and at most one postfix operator.
func (p *parser) parseQuantifiedAtom() (*Regexp, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.eof() || !isQuantifier(p.peek()) {
		return atom, nil
	}
	opPos := p.pos
	q := p.peek()
	p.pos++
	if !p.eof() && isQuantifier(p.peek()) {
		return nil, p.errorf(ErrInvalidRepeatOp, opPos, p.src[opPos:p.pos+1])
	}
	switch atom.Op {
	case OpBeginText, OpEndText:
		return nil, p.errorf(ErrMissingRepeatArgument, opPos, p.src[opPos-1:p.pos])
	case OpAnyChar:
		switch q {
		case '*':
			return &Regexp{Op: OpDotStar}, nil
		case '+':
			return &Regexp{Op: OpDotStar, Min: 1}, nil
		}
	}
	op := OpQuest
	switch q {
	case '*':
		op = OpStar
	case '+':
		op = OpPlus
	}
	return &Regexp{Op: op, Sub: []*Regexp{atom}}, nil
}

func (p *parser) parseAtom() (*Regexp, error) {
	start := p.pos
	switch c := p.peek(); c {
	case '(':
		return p.parseGroup()
	case '.':
		p.pos++
		return &Regexp{Op: OpAnyChar}, nil
	case '^':
		p.pos++
		return &Regexp{Op: OpBeginText}, nil
	case '$':
		p.pos++
		return &Regexp{Op: OpEndText}, nil
	case '[':
		return p.parseClass()
	case '*', '+', '?':
		return nil, p.errorf(ErrMissingRepeatArgument, start, string(c))
	case '\\':
		if p.pos+1 >= len(p.src) {
			return nil, p.errorf(ErrTrailingBackslash, start, `\`)
		}
		if d := p.src[p.pos+1]; d >= '0' && d <= '9' {
			return p.parseBackref()
		}
	}
	return p.parseLiteral(), nil
}

func (p *parser) parseBackref() (*Regexp, error) {
	start := p.pos
	n := int(p.src[p.pos+1] - '0')
	p.pos += 2
	if n < 1 || n > MaxGroups || p.closed&(1<<n) == 0 {
		return nil, p.errorf(ErrInvalidBackref, start, p.src[start:p.pos])
	}
	return &Regexp{Op: OpBackref, Cap: n}, nil
}

func (p *parser) parseGroup() (*Regexp, error) {
	start := p.pos
	p.depth++
	if p.depth > p.maxDepth {
		return nil, p.errorf(ErrNestingDepth, start, "(")
	}
	defer func() { p.depth-- }()

	p.pos++
	capturing := true
	if !p.eof() && p.peek() == '?' {
		if p.pos+1 >= len(p.src) || p.src[p.pos+1] != ':' {
			end := min(p.pos+2, len(p.src))
			return nil, p.errorf(ErrInvalidGroup, start, p.src[start:end])
		}
		p.pos += 2
		capturing = false
	}

	idx := 0
	if capturing {
		p.groups++
		if p.groups > MaxGroups {
			return nil, p.errorf(ErrTooManyGroups, start, "(")
		}
		idx = p.groups
	}

	sub, err := p.parseAlternate()
	if err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, p.errorf(ErrMissingParen, start, p.src[start:])
	}
	p.pos++ // ')'

	if !capturing {
		return sub, nil
	}
	p.closed |= 1 << idx
	return &Regexp{Op: OpCapture, Cap: idx, Sub: []*Regexp{sub}}, nil
}

func (p *parser) parseClass() (*Regexp, error) {
	start := p.pos
	p.pos++
	negate := false
	if !p.eof() && p.peek() == '^' {
		negate = true
		p.pos++
	}
	var cc CharClass
	first := true
	for {
		if p.eof() {
			return nil, p.errorf(ErrMissingBracket, start, p.src[start:])
		}
		if p.peek() == ']' && !first {
			p.pos++
			break
		}
		first = false
		lo, err := p.classByte(start)
		if err != nil {
			return nil, err
		}
		if p.pos+1 < len(p.src) && p.peek() == '-' && p.src[p.pos+1] != ']' {
			rangeStart := p.pos - 1
			p.pos++
			hi, err := p.classByte(start)
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, p.errorf(ErrInvalidCharRange, rangeStart, p.src[rangeStart:p.pos])
			}
			cc.AddRange(lo, hi)
			continue
		}
		cc.Add(lo)
	}
	if negate {
		cc.Negate()
	}
	return &Regexp{Op: OpCharClass, Class: cc}, nil
}

// classByte reads one possibly escaped byte inside a bracket expression.
func (p *parser) classByte(classStart int) (byte, error) {
	c := p.peek()
	p.pos++
	if c != '\\' {
		return c, nil
	}
	if p.eof() {
		return 0, p.errorf(ErrMissingBracket, classStart, p.src[classStart:])
	}
	c = p.peek()
	p.pos++
	return c, nil
}

// parseLiteral consumes a literal run. When the run is followed by a
// quantifier, the last byte is left for the next atom so the operator binds
// to exactly one byte.
func (p *parser) parseLiteral() *Regexp {
	lit, last, end := p.findLiteralEnd(p.pos)
	if end < len(p.src) && isQuantifier(p.src[end]) && len(lit) > 1 {
		lit = lit[:len(lit)-1]
		end = last
	}
	p.pos = end
	return &Regexp{Op: OpLiteral, Lit: lit}
}

// findLiteralEnd scans the longest literal run starting at start. It
// returns the decoded bytes, the source offset of the last decoded byte and
// the offset just past the run.
func (p *parser) findLiteralEnd(start int) (lit []byte, last, end int) {
	i := start
	for i < len(p.src) {
		c := p.src[i]
		switch {
		case c == '\\':
			if i+1 >= len(p.src) {
				return lit, last, i
			}
			if d := p.src[i+1]; d >= '0' && d <= '9' {
				return lit, last, i
			}
			lit = append(lit, p.src[i+1])
			last = i
			i += 2
		case isMeta(c):
			return lit, last, i
		default:
			lit = append(lit, c)
			last = i
			i++
		}
	}
	return lit, last, i
}
