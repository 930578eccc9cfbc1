package dhreach

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Axis names one of the three Cartesian axes.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// Axes lists the axes in tie-breaking order.
var Axes = [3]Axis{X, Y, Z}

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	}
	return "Axis(?)"
}

// Positions holds the end effector position at every grid combination. The
// three arrays are index-aligned with each other and with the grid.
type Positions struct {
	Xs, Ys, Zs []float64
}

// Len returns the number of positions.
func (p *Positions) Len() int { return len(p.Xs) }

// Axis returns the array for a.
func (p *Positions) Axis(a Axis) []float64 {
	switch a {
	case X:
		return p.Xs
	case Y:
		return p.Ys
	case Z:
		return p.Zs
	}
	panic("Unrecognized axis.")
}

// MaxAbs returns the largest absolute coordinate along each axis.
func (p *Positions) MaxAbs() [3]float64 {
	var out [3]float64
	for i, a := range Axes {
		if xs := p.Axis(a); len(xs) > 0 {
			out[i] = floats.Norm(xs, math.Inf(1))
		}
	}
	return out
}

// UnusedAxis returns the axis whose largest absolute coordinate is smallest,
// along with that magnitude. Ties go to the first axis in X, Y, Z order.
func UnusedAxis(p *Positions) (Axis, float64) {
	maxes := p.MaxAbs()
	best := X
	for _, a := range Axes[1:] {
		if maxes[a] < maxes[best] {
			best = a
		}
	}
	return best, maxes[best]
}
