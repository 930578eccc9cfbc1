package dhreach

import (
	"github.com/phil-mansfield/dhreach/grid"
	"github.com/phil-mansfield/dhreach/sym"
)

// Evaluate computes x, y and z at every combination in g. Each expression is
// compiled against only the symbols it contains, so an axis that does not
// depend on a range ignores that range's column.
func Evaluate(x, y, z sym.Expr, g *grid.Grid) (*Positions, error) {
	p := &Positions{}
	out := []*[]float64{&p.Xs, &p.Ys, &p.Zs}

	for i, e := range []sym.Expr{x, y, z} {
		vals, err := evaluateAxis(e, g)
		if err != nil {
			return nil, err
		}
		*out[i] = vals
	}
	return p, nil
}

func evaluateAxis(e sym.Expr, g *grid.Grid) ([]float64, error) {
	names := sym.Symbols(e)
	cols, err := g.Columns(names...)
	if err != nil {
		return nil, invalidf("%s", err.Error())
	}
	f, err := sym.Compile(e, names)
	if err != nil {
		return nil, err
	}

	vals := make([]float64, g.Size)
	args := make([]float64, len(names))
	for idx := range vals {
		for j := range cols {
			args[j] = cols[j][idx]
		}
		vals[idx] = f(args)
	}
	return vals, nil
}
