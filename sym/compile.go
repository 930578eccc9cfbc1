package sym

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnboundSymbol is returned when an expression references a symbol that
// is missing from the argument list it is compiled against.
var ErrUnboundSymbol = errors.New("unbound symbol")

// Compiled is an expression compiled to a numeric function. args holds the
// symbol values in the order given to Compile.
type Compiled func(args []float64) float64

// Compile turns e into a closure over the given argument names. Every symbol
// in e must appear in args; args may contain names e does not use.
func Compile(e Expr, args []string) (Compiled, error) {
	idx := make(map[string]int, len(args))
	for i, name := range args {
		if _, ok := idx[name]; ok {
			return nil, fmt.Errorf("sym: argument '%s' given twice", name)
		}
		idx[name] = i
	}
	return e.compile(idx)
}

// Eval evaluates e with the given symbol values.
func Eval(e Expr, vals map[string]float64) (float64, error) {
	names := Symbols(e)
	args := make([]float64, len(names))
	for i, name := range names {
		v, ok := vals[name]
		if !ok {
			return 0, fmt.Errorf("%w '%s' in %s", ErrUnboundSymbol, name, e)
		}
		args[i] = v
	}

	f, err := Compile(e, names)
	if err != nil {
		return 0, err
	}
	return f(args), nil
}

func (n Num) compile(map[string]int) (Compiled, error) {
	v := float64(n)
	return func([]float64) float64 { return v }, nil
}

func (s Sym) compile(idx map[string]int) (Compiled, error) {
	i, ok := idx[string(s)]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnboundSymbol, string(s))
	}
	return func(args []float64) float64 { return args[i] }, nil
}

func (f Func) compile(idx map[string]int) (Compiled, error) {
	arg, err := f.Arg.compile(idx)
	if err != nil {
		return nil, err
	}
	fn, ok := funcs[f.Name]
	if !ok {
		return nil, fmt.Errorf("sym: unknown function '%s'", f.Name)
	}
	return func(args []float64) float64 { return fn(arg(args)) }, nil
}

func (p Pow) compile(idx map[string]int) (Compiled, error) {
	base, err := p.Base.compile(idx)
	if err != nil {
		return nil, err
	}

	// The exponents DH chains produce are small integer constants.
	if e, ok := p.Exp.(Num); ok {
		switch e {
		case -1:
			return func(args []float64) float64 { return 1 / base(args) }, nil
		case 2:
			return func(args []float64) float64 {
				b := base(args)
				return b * b
			}, nil
		}
	}

	exp, err := p.Exp.compile(idx)
	if err != nil {
		return nil, err
	}
	return func(args []float64) float64 {
		return math.Pow(base(args), exp(args))
	}, nil
}

func (a Add) compile(idx map[string]int) (Compiled, error) {
	terms, err := compileAll(a.Terms, idx)
	if err != nil {
		return nil, err
	}
	return func(args []float64) float64 {
		sum := 0.0
		for _, t := range terms {
			sum += t(args)
		}
		return sum
	}, nil
}

func (m Mul) compile(idx map[string]int) (Compiled, error) {
	factors, err := compileAll(m.Factors, idx)
	if err != nil {
		return nil, err
	}
	return func(args []float64) float64 {
		prod := 1.0
		for _, f := range factors {
			prod *= f(args)
		}
		return prod
	}, nil
}

func compileAll(es []Expr, idx map[string]int) ([]Compiled, error) {
	out := make([]Compiled, len(es))
	for i, e := range es {
		f, err := e.compile(idx)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
