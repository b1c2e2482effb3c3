package board

import (
	"math"
	"strconv"
	"strings"
)

// Expr is a node of an S-expression tree. A node is either an atom
// (List == nil) or a list of child nodes. Quoted reports whether the atom
// was written as a double-quoted string in the source.
type Expr struct {
	Atom   string
	Quoted bool
	List   []*Expr
	Line   int
}

// IsList reports whether e is a list node.
func (e *Expr) IsList() bool {
	return e != nil && e.List != nil
}

// Head returns the first atom of a list, e.g. "footprint" for
// (footprint "R_0603" ...). It returns "" for atoms and empty lists.
func (e *Expr) Head() string {
	if !e.IsList() || len(e.List) == 0 || e.List[0].IsList() {
		return ""
	}
	return e.List[0].Atom
}

// Arg returns the i-th argument after the head as a string.
func (e *Expr) Arg(i int) (string, bool) {
	if !e.IsList() || i+1 >= len(e.List) || e.List[i+1].IsList() {
		return "", false
	}
	return e.List[i+1].Atom, true
}

// Args returns every atom argument after the head, skipping nested lists.
func (e *Expr) Args() []string {
	if !e.IsList() {
		return nil
	}
	var out []string
	for _, c := range e.List[1:] {
		if !c.IsList() {
			out = append(out, c.Atom)
		}
	}
	return out
}

// Float parses the i-th argument as a number.
func (e *Expr) Float(i int) (float64, error) {
	s, ok := e.Arg(i)
	if !ok {
		return 0, &ParseError{Line: e.Line, Msg: "(" + e.Head() + ") missing numeric argument " + strconv.Itoa(i+1)}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Line: e.Line, Msg: "(" + e.Head() + ") invalid number " + strconv.Quote(s)}
	}
	return v, nil
}

// Child returns the first child list with the given head.
func (e *Expr) Child(head string) *Expr {
	if !e.IsList() {
		return nil
	}
	for _, c := range e.List[1:] {
		if c.Head() == head {
			return c
		}
	}
	return nil
}

// Children returns every child list with the given head, in order.
func (e *Expr) Children(head string) []*Expr {
	if !e.IsList() {
		return nil
	}
	var out []*Expr
	for _, c := range e.List[1:] {
		if c.Head() == head {
			out = append(out, c)
		}
	}
	return out
}

// ParseExpr reads a single S-expression from text. Anything other than
// whitespace after the closing parenthesis of the root is an error.
func ParseExpr(text string) (*Expr, error) {
	p := &sexprParser{src: text, line: 1}

	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, &ParseError{Line: p.line, Msg: "empty input"}
	}
	if p.src[p.pos] != '(' {
		return nil, &ParseError{Line: p.line, Msg: "expected '(' at start of input"}
	}

	root, err := p.parseList()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, &ParseError{Line: p.line, Msg: "unexpected data after closing ')'"}
	}
	return root, nil
}

type sexprParser struct {
	src  string
	pos  int
	line int
}

func (p *sexprParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\n':
			p.line++
		case ' ', '\t', '\r':
		default:
			return
		}
		p.pos++
	}
}

// parseList expects p.src[p.pos] == '('.
func (p *sexprParser) parseList() (*Expr, error) {
	node := &Expr{Line: p.line, List: []*Expr{}}
	p.pos++ // '('

	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, &ParseError{Line: node.Line, Msg: "unbalanced '(': list is never closed"}
		}

		switch c := p.src[p.pos]; c {
		case ')':
			p.pos++
			return node, nil
		case '(':
			child, err := p.parseList()
			if err != nil {
				return nil, err
			}
			node.List = append(node.List, child)
		case '"':
			child, err := p.parseString()
			if err != nil {
				return nil, err
			}
			node.List = append(node.List, child)
		default:
			node.List = append(node.List, p.parseAtom())
		}
	}
}

func (p *sexprParser) parseString() (*Expr, error) {
	start := p.line
	p.pos++ // opening quote

	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return &Expr{Atom: sb.String(), Quoted: true, Line: start}, nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				return nil, &ParseError{Line: p.line, Msg: "unterminated escape in string"}
			}
			p.pos++
			switch e := p.src[p.pos]; e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(e)
			}
		case '\n':
			p.line++
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
		p.pos++
	}

	return nil, &ParseError{Line: start, Msg: "unterminated string"}
}

func (p *sexprParser) parseAtom() *Expr {
	start := p.pos
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n', '(', ')', '"':
			return &Expr{Atom: p.src[start:p.pos], Line: p.line}
		}
		p.pos++
	}
	return &Expr{Atom: p.src[start:p.pos], Line: p.line}
}
