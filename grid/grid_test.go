package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartesianProduct(t *testing.T) {
	rs := Ranges{
		{"theta1", []float64{0, 90, 180}},
		{"theta2", []float64{0, 45}},
	}
	g, err := NewGrid(rs)
	require.NoError(t, err)
	assert.Equal(t, 6, g.Size)

	t1, ok := g.Column("theta1")
	require.True(t, ok)
	t2, ok := g.Column("theta2")
	require.True(t, ok)

	assert.Equal(t, []float64{0, 0, 90, 90, 180, 180}, t1)
	assert.Equal(t, []float64{0, 45, 0, 45, 0, 45}, t2)

	seen := map[[2]float64]int{}
	for i := 0; i < g.Size; i++ {
		seen[[2]float64{t1[i], t2[i]}]++
	}
	assert.Len(t, seen, 6)
	for pair, n := range seen {
		assert.Equal(t, 1, n, "%v", pair)
	}
}

func TestIdxCoords(t *testing.T) {
	rs := Ranges{
		{"a", []float64{1, 2}},
		{"b", []float64{3, 4, 5}},
		{"c", []float64{6, 7, 8, 9}},
	}
	g, err := NewGrid(rs)
	require.NoError(t, err)
	require.Equal(t, 24, g.Size)

	a, _ := g.Column("a")
	b, _ := g.Column("b")
	c, _ := g.Column("c")

	coords := make([]int, 3)
	for idx := 0; idx < g.Size; idx++ {
		g.Coords(idx, coords)
		assert.Equal(t, idx, g.Idx(coords))
		assert.Equal(t, rs[0].Values[coords[0]], a[idx])
		assert.Equal(t, rs[1].Values[coords[1]], b[idx])
		assert.Equal(t, rs[2].Values[coords[2]], c[idx])
	}

	table := []struct {
		coords []int
		ok     bool
	}{
		{[]int{0, 0, 0}, true},
		{[]int{1, 2, 3}, true},
		{[]int{2, 0, 0}, false},
		{[]int{0, -1, 0}, false},
		{[]int{0, 0}, false},
	}
	for i, test := range table {
		_, ok := g.IdxCheck(test.coords)
		assert.Equal(t, test.ok, ok, "%d) %v", i, test.coords)
	}
}

func TestColumns(t *testing.T) {
	g, err := NewGrid(Ranges{{"x", []float64{1, 2}}, {"y", []float64{3}}})
	require.NoError(t, err)

	cols, err := g.Columns("y", "x")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 3}, {1, 2}}, cols)

	_, err = g.Columns("x", "z")
	assert.Error(t, err)
}

func TestEmptyRanges(t *testing.T) {
	g, err := NewGrid(Ranges{})
	require.NoError(t, err)
	assert.Equal(t, 1, g.Size)
	assert.Equal(t, 1.0, Count(nil))
}

func TestCount(t *testing.T) {
	rs := Ranges{
		{"a", make([]float64, 1000)},
		{"b", make([]float64, 1000)},
		{"c", make([]float64, 1000)},
		{"d", make([]float64, 1000)},
	}
	assert.Equal(t, 1e12, Count(rs))

	_, err := NewGrid(rs)
	assert.Error(t, err)
}

func TestFromMap(t *testing.T) {
	rs := FromMap(map[string][]float64{
		"theta2": {0, 45},
		"d1":     {1},
		"theta1": {0, 90, 180},
	})
	assert.Equal(t, []string{"d1", "theta1", "theta2"}, rs.Names())

	i, ok := rs.Find("theta2")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = rs.Find("theta3")
	assert.False(t, ok)
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{}, Linspace(0, 1, 0))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))

	xs := Linspace(0, math.Pi, 5)
	require.Len(t, xs, 5)
	assert.Equal(t, 0.0, xs[0])
	assert.Equal(t, math.Pi, xs[4])
	assert.InDelta(t, math.Pi/2, xs[2], 1e-15)
}
