// Package grid sweeps a discretized parameter space. Given an ordered list of
// named value sequences it builds the full Cartesian product and exposes it as
// index-aligned flat arrays, one per name.
package grid

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Range is the ordered sequence of values one named parameter may take.
type Range struct {
	Name   string
	Values []float64
}

// Ranges is an ordered set of Range values. Its order is the order of the
// grid dimensions: the first Range varies slowest and the last fastest.
type Ranges []Range

// FromMap converts a map to Ranges. Map iteration order is random, so the
// names are sorted to make the dimension order reproducible.
func FromMap(m map[string][]float64) Ranges {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	rs := make(Ranges, len(names))
	for i, name := range names {
		rs[i] = Range{Name: name, Values: m[name]}
	}
	return rs
}

// Names returns the range names in dimension order.
func (rs Ranges) Names() []string {
	names := make([]string, len(rs))
	for i := range rs {
		names[i] = rs[i].Name
	}
	return names
}

// Find returns the position of the named range.
func (rs Ranges) Find(name string) (int, bool) {
	for i := range rs {
		if rs[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

// Count returns the number of combinations the ranges produce without
// allocating anything. It is a float64 so that absurd requests report a
// meaningful magnitude instead of overflowing.
func Count(rs Ranges) float64 {
	lens := make([]float64, len(rs))
	for i := range rs {
		lens[i] = float64(len(rs[i].Values))
	}
	return floats.Prod(lens)
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	} else if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Grid is the Cartesian product of a set of Ranges, stored as one flat,
// index-aligned column per range.
type Grid struct {
	Ranges  Ranges
	Lengths []int
	Size    int
	strides []int
	cols    [][]float64
}

// NewGrid returns a new Grid instance.
func NewGrid(rs Ranges) (*Grid, error) {
	g := &Grid{}
	if err := g.Init(rs); err != nil {
		return nil, err
	}
	return g, nil
}

// Init initializes a Grid instance and materializes its columns.
func (g *Grid) Init(rs Ranges) error {
	count := Count(rs)
	if count > math.MaxInt32 {
		return fmt.Errorf(
			"Parameter grid has %.4g combinations, which is too many to "+
				"allocate.", count,
		)
	}

	g.Ranges = rs
	g.Lengths = make([]int, len(rs))
	g.strides = make([]int, len(rs))
	g.Size = int(count)

	stride := 1
	for i := len(rs) - 1; i >= 0; i-- {
		g.Lengths[i] = len(rs[i].Values)
		g.strides[i] = stride
		stride *= g.Lengths[i]
	}

	g.cols = make([][]float64, len(rs))
	for dim := range rs {
		col := make([]float64, g.Size)
		vals, stride, n := rs[dim].Values, g.strides[dim], g.Lengths[dim]
		for idx := range col {
			col[idx] = vals[(idx/stride)%n]
		}
		g.cols[dim] = col
	}

	return nil
}

// Idx returns the flat index corresponding to a set of per-range coordinates.
func (g *Grid) Idx(coords []int) int {
	idx := 0
	for i := range coords {
		idx += coords[i] * g.strides[i]
	}
	return idx
}

// IdxCheck returns an index and true if the given coordinates are valid and
// false otherwise.
func (g *Grid) IdxCheck(coords []int) (idx int, ok bool) {
	if !g.BoundsCheck(coords) {
		return -1, false
	}
	return g.Idx(coords), true
}

// BoundsCheck returns true if the given coordinates are within the Grid and
// false otherwise.
func (g *Grid) BoundsCheck(coords []int) bool {
	if len(coords) != len(g.Lengths) {
		return false
	}
	for i := range coords {
		if coords[i] < 0 || coords[i] >= g.Lengths[i] {
			return false
		}
	}
	return true
}

// Coords writes the per-range coordinates of a flat index into out, which is
// allocated if it is nil.
func (g *Grid) Coords(idx int, out []int) []int {
	if out == nil {
		out = make([]int, len(g.Lengths))
	}
	for i := range g.Lengths {
		out[i] = (idx / g.strides[i]) % g.Lengths[i]
	}
	return out
}

// Column returns the flat array of values taken by the named range. The
// returned slice is shared with the Grid.
func (g *Grid) Column(name string) ([]float64, bool) {
	i, ok := g.Ranges.Find(name)
	if !ok {
		return nil, false
	}
	return g.cols[i], true
}

// Columns returns the flat arrays of the named ranges in the order given.
func (g *Grid) Columns(names ...string) ([][]float64, error) {
	cols := make([][]float64, len(names))
	for i, name := range names {
		col, ok := g.Column(name)
		if !ok {
			return nil, fmt.Errorf("The grid has no range named '%s'.", name)
		}
		cols[i] = col
	}
	return cols, nil
}
