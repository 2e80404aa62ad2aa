package tinyre

import (
	"strings"
)

// Template is a parsed replacement template.
//
// Template syntax:
//   - \0 is the whole match, \1 to \3 the explicit groups
//   - \\ is a single backslash
//   - any other backslash is copied as is, together with the byte after it
//
// Parsing a template once and expanding it many times avoids re-scanning
// the template text for every word.
type Template struct {
	src   string
	parts []templatePart
}

// templatePart is either literal text (group < 0) or a group reference.
type templatePart struct {
	lit   string
	group int
}

// CompileTemplate parses template. Every string is a valid template.
func CompileTemplate(template string) *Template {
	t := &Template{src: template}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, templatePart{lit: lit.String(), group: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '\\' || i+1 >= len(template) {
			lit.WriteByte(c)
			continue
		}
		next := template[i+1]
		switch {
		case next >= '0' && next <= '0'+MaxGroups:
			flush()
			t.parts = append(t.parts, templatePart{group: int(next - '0')})
		case next == '\\':
			lit.WriteByte('\\')
		default:
			lit.WriteByte(c)
			lit.WriteByte(next)
		}
		i++
	}
	flush()
	return t
}

// Expand substitutes the captures of m into the template. It returns
// ErrInvalidState if m did not match. Unset groups expand to nothing.
func (t *Template) Expand(m *PatternMatch) (string, error) {
	if m == nil || !m.Matched() {
		return "", ErrInvalidState
	}
	var b strings.Builder
	for _, part := range t.parts {
		if part.group < 0 {
			b.WriteString(part.lit)
			continue
		}
		b.WriteString(m.Group(part.group))
	}
	return b.String(), nil
}

// String returns the template source.
func (t *Template) String() string {
	return t.src
}
