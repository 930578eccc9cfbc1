package sym

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrParse is wrapped by every error Parse returns.
var ErrParse = errors.New("parse error")

// Parse reads an expression such as "0.5", "theta1", "theta2 + pi/2" or
// "90deg". It understands numbers (a "deg" suffix converts degrees to
// radians), identifiers, the constant pi, the operators + - * / ^, unary
// minus, parentheses and calls to sin, cos, tan and sqrt.
func Parse(s string) (Expr, error) {
	p := &parser{l: lexer{s: s}}
	p.next()
	e, err := p.parseSum()
	if err != nil {
		return nil, fmt.Errorf("%w in '%s': %s", ErrParse, s, err.Error())
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf(
			"%w in '%s': unexpected '%s'", ErrParse, s, p.cur.text,
		)
	}
	return e, nil
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokBad
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

type lexer struct {
	s string
	i int
}

func (l *lexer) peek() (rune, int) {
	if l.i >= len(l.s) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.s[l.i:])
}

func (l *lexer) next() token {
	for {
		r, w := l.peek()
		if w == 0 || !unicode.IsSpace(r) {
			break
		}
		l.i += w
	}

	ch, w := l.peek()
	if w == 0 {
		return token{kind: tokEOF}
	}

	ops := map[rune]tokenKind{
		'+': tokPlus, '-': tokMinus, '*': tokStar, '/': tokSlash,
		'^': tokCaret, '(': tokLParen, ')': tokRParen,
	}
	if kind, ok := ops[ch]; ok {
		l.i += w
		return token{kind: kind, text: string(ch)}
	}

	switch {
	case ch == '_' || unicode.IsLetter(ch):
		start := l.i
		for {
			r, w := l.peek()
			if w == 0 || !isIdent(r) {
				break
			}
			l.i += w
		}
		return token{kind: tokIdent, text: l.s[start:l.i]}
	case ch == '.' || isDigit(ch):
		start := l.i
		l.i = scanNumber(l.s, l.i)
		txt := l.s[start:l.i]
		v, err := strconv.ParseFloat(txt, 64)
		if err != nil {
			return token{kind: tokBad, text: txt}
		}
		if strings.HasPrefix(l.s[l.i:], "deg") {
			r, w := utf8.DecodeRuneInString(l.s[l.i+3:])
			if w == 0 || !isIdent(r) {
				l.i += 3
				v *= math.Pi / 180
				txt += "deg"
			}
		}
		return token{kind: tokNumber, text: txt, num: v}
	}

	l.i += w
	return token{kind: tokBad, text: string(ch)}
}

func isIdent(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isDigit only accepts ASCII digits, which is all strconv parses.
func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func scanNumber(s string, i int) int {
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(rune(s[i])) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(rune(s[k])) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

type parser struct {
	l   lexer
	cur token
}

func (p *parser) next() { p.cur = p.l.next() }

func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := p.cur.kind
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if op == tokPlus {
			left = Plus(left, right)
		} else {
			left = Minus(left, right)
		}
	}
	return left, nil
}

func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokStar || p.cur.kind == tokSlash {
		op := p.cur.kind
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == tokStar {
			left = Times(left, right)
		} else {
			if n, ok := right.(Num); ok && n == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			left = Div(left, right)
		}
	}
	return left, nil
}

// parsePower binds tighter than unary minus, so -x^2 is -(x^2). The exponent
// may carry its own sign, as in 2^-1.
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokCaret {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return Power(base, exp), nil
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.cur.kind {
	case tokMinus:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Neg(x), nil
	case tokPlus:
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.cur.kind {
	case tokNumber:
		v := p.cur.num
		p.next()
		return Num(v), nil
	case tokIdent:
		name := p.cur.text
		p.next()
		if p.cur.kind != tokLParen {
			if name == "pi" {
				return Num(math.Pi), nil
			}
			return Sym(name), nil
		}

		if _, ok := funcs[name]; !ok {
			return nil, fmt.Errorf("unknown function '%s'", name)
		}
		p.next()
		arg, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("expected ')' after argument of %s", name)
		}
		p.next()
		return fold(name, arg), nil
	case tokLParen:
		p.next()
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("expected ')'")
		}
		p.next()
		return e, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of input")
	}
	return nil, fmt.Errorf("unexpected '%s'", p.cur.text)
}
