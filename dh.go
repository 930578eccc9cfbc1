// Package dhreach computes the reachable workspace of a serial manipulator
// described by Denavit-Hartenberg parameters. Free DH entries are swept over
// discrete ranges, the end effector position is evaluated at every
// combination and the resulting point cloud is handed to a Renderer.
package dhreach

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/phil-mansfield/dhreach/mat"
	"github.com/phil-mansfield/dhreach/sym"
)

// Table is a DH parameter table. Each row describes one link as
// (a, alpha, d, theta), with the link closest to the base first. Entries are
// numeric constants or expressions over free symbols.
type Table [][]sym.Expr

// Columns is the number of entries in each row of a Table.
const Columns = 4

// Row builds a Table row from values which are either sym.Expr, float64,
// int or string. Strings are treated as symbol names.
func Row(a, alpha, d, theta interface{}) []sym.Expr {
	vals := []interface{}{a, alpha, d, theta}
	row := make([]sym.Expr, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case sym.Expr:
			row[i] = x
		case float64:
			row[i] = sym.N(x)
		case int:
			row[i] = sym.N(float64(x))
		case string:
			row[i] = sym.S(x)
		default:
			panic("Row entries must be sym.Expr, float64, int, or string.")
		}
	}
	return row
}

// Symbols returns the names of all free symbols in the table, sorted.
func (dh Table) Symbols() []string {
	terms := []sym.Expr{}
	for _, row := range dh {
		for _, e := range row {
			if e != nil {
				terms = append(terms, e)
			}
		}
	}
	return sym.Symbols(sym.Add{Terms: terms})
}

// TransformFunc builds the homogeneous transform of a single link.
type TransformFunc func(a, alpha, d, theta sym.Expr) *mat.Matrix

// DHTransform returns the standard 4 x 4 DH transform of one link.
func DHTransform(a, alpha, d, theta sym.Expr) *mat.Matrix {
	ct, st := sym.Cos(theta), sym.Sin(theta)
	ca, sa := sym.Cos(alpha), sym.Sin(alpha)

	return mat.NewMatrix([]sym.Expr{
		ct, sym.Neg(sym.Times(st, ca)), sym.Times(st, sa), sym.Times(a, ct),
		st, sym.Times(ct, ca), sym.Neg(sym.Times(ct, sa)), sym.Times(a, st),
		sym.Zero, sa, ca, d,
		sym.Zero, sym.Zero, sym.Zero, sym.One,
	}, 4, 4)
}

// EndEffector chains the transforms of every link, starting from the
// identity, and returns the base to end effector transform. A nil fn selects
// DHTransform.
func EndEffector(dh Table, fn TransformFunc) (*mat.Matrix, error) {
	if fn == nil {
		fn = DHTransform
	}

	T := mat.Identity(4)
	for i, row := range dh {
		if len(row) != Columns {
			return nil, invalidf(
				"link %d has %d DH parameters instead of %d", i+1, len(row), Columns,
			)
		}
		for j := range row {
			if row[j] == nil {
				return nil, invalidf("link %d has an empty DH parameter", i+1)
			}
		}

		L := fn(row[0], row[1], row[2], row[3])
		if L.Width != 4 || L.Height != 4 {
			return nil, invalidf(
				"the transform of link %d is %d x %d instead of 4 x 4",
				i+1, L.Height, L.Width,
			)
		}
		T = T.Mult(L)
	}
	return T, nil
}

// XYZExpressions returns the end effector position as expressions over the
// free symbols of dh. A nil fn selects DHTransform.
func XYZExpressions(
	dh Table, fn TransformFunc, verbose bool,
) (x, y, z sym.Expr, err error) {
	T, err := EndEffector(dh, fn)
	if err != nil {
		return nil, nil, nil, err
	}

	pos := T.Col(3)
	x, y, z = pos[0], pos[1], pos[2]

	logf(verbose, "End effector transform:\n%s", T)
	logf(verbose, "x = %s", x)
	logf(verbose, "y = %s", y)
	logf(verbose, "z = %s", z)

	return x, y, z, nil
}

func tracer() tracing.Trace {
	return tracing.Select("dhreach")
}

// logf writes diagnostics at Info level in verbose mode and at Debug level
// otherwise.
func logf(verbose bool, format string, args ...interface{}) {
	if verbose {
		tracer().Infof(format, args...)
	} else {
		tracer().Debugf(format, args...)
	}
}
