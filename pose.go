package dhreach

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	symmat "github.com/phil-mansfield/dhreach/mat"
	"github.com/phil-mansfield/dhreach/sym"
)

// Pose returns the numeric base to end effector transform for a single
// configuration. values must assign every free symbol of dh; extra entries
// are ignored. A nil fn selects DHTransform.
func Pose(dh Table, fn TransformFunc, values map[string]float64) (*mat.Dense, error) {
	if fn == nil {
		fn = DHTransform
	}

	T := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})

	for i, row := range dh {
		if len(row) != Columns {
			return nil, invalidf(
				"link %d has %d DH parameters instead of %d", i+1, len(row), Columns,
			)
		}

		params := make([]sym.Expr, Columns)
		for j := range row {
			if row[j] == nil {
				return nil, invalidf("link %d has an empty DH parameter", i+1)
			}
			v, err := sym.Eval(row[j], values)
			if errors.Is(err, sym.ErrUnboundSymbol) {
				return nil, invalidf("link %d: %s", i+1, err.Error())
			} else if err != nil {
				return nil, err
			}
			params[j] = sym.N(v)
		}

		L, err := numeric(fn(params[0], params[1], params[2], params[3]))
		if err != nil {
			return nil, invalidf("link %d: %s", i+1, err.Error())
		}

		next := mat.NewDense(4, 4, nil)
		next.Mul(T, L)
		T = next
	}

	return T, nil
}

// numeric converts a constant 4 x 4 transform into a gonum matrix.
func numeric(m *symmat.Matrix) (*mat.Dense, error) {
	if m.Width != 4 || m.Height != 4 {
		return nil, fmt.Errorf("transform is %d x %d instead of 4 x 4", m.Height, m.Width)
	}

	out := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			v, err := sym.Eval(m.At(i, j), nil)
			if err != nil {
				return nil, err
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}
