// Package sym is a small symbolic expression engine. It supports exactly
// what forward kinematics needs: sums, products, powers and trigonometric
// functions over named free symbols, numeric constant folding, free symbol
// discovery and compilation into plain float64 closures.
package sym

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Expr is a symbolic expression. Expressions are immutable once built.
type Expr interface {
	String() string
	// Equal reports structural equality.
	Equal(Expr) bool

	symbols(set map[string]struct{})
	compile(idx map[string]int) (Compiled, error)
}

// Num is a numeric constant.
type Num float64

// Sym is a free symbol identified by its name.
type Sym string

// Add is a sum of terms.
type Add struct{ Terms []Expr }

// Mul is a product of factors.
type Mul struct{ Factors []Expr }

// Pow is Base raised to Exp.
type Pow struct{ Base, Exp Expr }

// Func is a unary function applied to an argument. Name is one of "sin",
// "cos", "tan" and "sqrt".
type Func struct {
	Name string
	Arg  Expr
}

// Zero and One are the constants every folding rule checks against.
var (
	Zero Expr = Num(0)
	One  Expr = Num(1)
)

// N promotes a float64 to an expression.
func N(v float64) Expr { return Num(v) }

// S creates a free symbol.
func S(name string) Expr { return Sym(name) }

// IsNum returns the value of e and true if e is a numeric constant.
func IsNum(e Expr) (float64, bool) {
	n, ok := e.(Num)
	return float64(n), ok
}

/////////////////
// Constructors //
/////////////////

// Plus returns the folded sum of terms. Nested sums are flattened, numeric
// terms are collected into a single trailing constant and zeros vanish.
func Plus(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	c := 0.0
	for _, t := range terms {
		switch v := t.(type) {
		case Num:
			c += float64(v)
		case Add:
			for _, tt := range v.Terms {
				if n, ok := tt.(Num); ok {
					c += float64(n)
				} else {
					flat = append(flat, tt)
				}
			}
		default:
			flat = append(flat, t)
		}
	}

	if c != 0 {
		flat = append(flat, Num(c))
	}
	switch len(flat) {
	case 0:
		return Zero
	case 1:
		return flat[0]
	}
	return Add{Terms: flat}
}

// Times returns the folded product of factors. A zero factor zeroes the whole
// product, ones vanish and numeric factors are collected into a single
// leading coefficient.
func Times(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	c := 1.0
	for _, f := range factors {
		switch v := f.(type) {
		case Num:
			c *= float64(v)
		case Mul:
			for _, ff := range v.Factors {
				if n, ok := ff.(Num); ok {
					c *= float64(n)
				} else {
					flat = append(flat, ff)
				}
			}
		default:
			flat = append(flat, f)
		}
	}

	if c == 0 {
		return Zero
	}
	if c != 1 {
		flat = append([]Expr{Num(c)}, flat...)
	}
	switch len(flat) {
	case 0:
		return Num(c)
	case 1:
		return flat[0]
	}
	return Mul{Factors: flat}
}

// Neg returns -e.
func Neg(e Expr) Expr { return Times(Num(-1), e) }

// Minus returns a - b.
func Minus(a, b Expr) Expr { return Plus(a, Neg(b)) }

// Div returns a / b.
func Div(a, b Expr) Expr {
	if n, ok := b.(Num); ok && n != 0 {
		return Times(Num(1/float64(n)), a)
	}
	return Times(a, Power(b, Num(-1)))
}

// Power returns base^exp.
func Power(base, exp Expr) Expr {
	e, eok := exp.(Num)
	if eok && e == 0 {
		return One
	}
	if eok && e == 1 {
		return base
	}
	if b, ok := base.(Num); ok && eok {
		return Num(math.Pow(float64(b), float64(e)))
	}
	return Pow{Base: base, Exp: exp}
}

// Sin returns sin(e).
func Sin(e Expr) Expr { return fold("sin", e) }

// Cos returns cos(e).
func Cos(e Expr) Expr { return fold("cos", e) }

// Tan returns tan(e).
func Tan(e Expr) Expr { return fold("tan", e) }

// Sqrt returns sqrt(e).
func Sqrt(e Expr) Expr { return fold("sqrt", e) }

var funcs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"sqrt": math.Sqrt,
}

func fold(name string, arg Expr) Expr {
	n, ok := arg.(Num)
	if !ok {
		return Func{Name: name, Arg: arg}
	}
	if v, exact := exactTrig(name, float64(n)); exact {
		return Num(v)
	}
	return Num(funcs[name](float64(n)))
}

// quarterTurnEps is the tolerance, in quarter turns, within which a constant
// angle is treated as an exact multiple of pi/2.
const quarterTurnEps = 1e-12

// exactTrig returns exact values of sin, cos and tan at multiples of pi/2,
// where floating point evaluation would leave residues like 6.1e-17.
func exactTrig(name string, v float64) (float64, bool) {
	if name != "sin" && name != "cos" && name != "tan" {
		return 0, false
	}
	q := v / (math.Pi / 2)
	r := math.Round(q)
	if math.Abs(q-r) > quarterTurnEps || math.Abs(r) > 1<<52 {
		return 0, false
	}
	k := ((int64(r) % 4) + 4) % 4

	sins := [4]float64{0, 1, 0, -1}
	coss := [4]float64{1, 0, -1, 0}
	switch name {
	case "sin":
		return sins[k], true
	case "cos":
		return coss[k], true
	}
	if coss[k] == 0 {
		return 0, false
	}
	return sins[k] / coss[k], true
}

///////////////////
// Free symbols //
///////////////////

// Symbols returns the names of the free symbols in e in ascending order.
func Symbols(e Expr) []string {
	set := map[string]struct{}{}
	e.symbols(set)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n Num) symbols(map[string]struct{})      {}
func (s Sym) symbols(set map[string]struct{})  { set[string(s)] = struct{}{} }
func (f Func) symbols(set map[string]struct{}) { f.Arg.symbols(set) }
func (p Pow) symbols(set map[string]struct{})  { p.Base.symbols(set); p.Exp.symbols(set) }
func (a Add) symbols(set map[string]struct{}) {
	for _, t := range a.Terms {
		t.symbols(set)
	}
}
func (m Mul) symbols(set map[string]struct{}) {
	for _, f := range m.Factors {
		f.symbols(set)
	}
}

//////////////
// Equality //
//////////////

func (n Num) Equal(o Expr) bool { v, ok := o.(Num); return ok && v == n }
func (s Sym) Equal(o Expr) bool { v, ok := o.(Sym); return ok && v == s }
func (f Func) Equal(o Expr) bool {
	v, ok := o.(Func)
	return ok && v.Name == f.Name && v.Arg.Equal(f.Arg)
}
func (p Pow) Equal(o Expr) bool {
	v, ok := o.(Pow)
	return ok && v.Base.Equal(p.Base) && v.Exp.Equal(p.Exp)
}
func (a Add) Equal(o Expr) bool {
	v, ok := o.(Add)
	return ok && equalAll(a.Terms, v.Terms)
}
func (m Mul) Equal(o Expr) bool {
	v, ok := o.(Mul)
	return ok && equalAll(m.Factors, v.Factors)
}

func equalAll(xs, ys []Expr) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !xs[i].Equal(ys[i]) {
			return false
		}
	}
	return true
}

//////////////
// Printing //
//////////////

func (n Num) String() string  { return strconv.FormatFloat(float64(n), 'g', -1, 64) }
func (s Sym) String() string  { return string(s) }
func (f Func) String() string { return f.Name + "(" + f.Arg.String() + ")" }

func (p Pow) String() string {
	return wrap(p.Base, true) + "^" + wrap(p.Exp, true)
}

func (a Add) String() string {
	sb := &strings.Builder{}
	for i, t := range a.Terms {
		s := t.String()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (m Mul) String() string {
	parts := make([]string, 0, len(m.Factors))
	for i, f := range m.Factors {
		if n, ok := f.(Num); ok && i == 0 && n == -1 {
			parts = append(parts, "-")
			continue
		}
		parts = append(parts, wrap(f, false))
	}
	if parts[0] == "-" {
		return "-" + strings.Join(parts[1:], "*")
	}
	return strings.Join(parts, "*")
}

// wrap parenthesizes sums, and also products when tight is set.
func wrap(e Expr, tight bool) string {
	switch e.(type) {
	case Add:
		return "(" + e.String() + ")"
	case Mul, Pow:
		if tight {
			return "(" + e.String() + ")"
		}
	case Num:
		if tight && e.(Num) < 0 {
			return "(" + e.String() + ")"
		}
	}
	return e.String()
}
