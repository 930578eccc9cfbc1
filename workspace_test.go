package dhreach

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/dhreach/grid"
	"github.com/phil-mansfield/dhreach/io"
	"github.com/phil-mansfield/dhreach/sym"
)

type recorder struct {
	xs, ys, zs     []float64
	xLabel, yLabel string
	calls2D        int
	calls3D        int
	err            error
}

func (r *recorder) Scatter2D(xs, ys []float64, xLabel, yLabel string) error {
	r.calls2D++
	r.xs, r.ys, r.xLabel, r.yLabel = xs, ys, xLabel, yLabel
	return r.err
}

func (r *recorder) Scatter3D(xs, ys, zs []float64) error {
	r.calls3D++
	r.xs, r.ys, r.zs = xs, ys, zs
	return r.err
}

func deg(x float64) float64 { return x * math.Pi / 180 }

func planarRobot() (Table, grid.Ranges) {
	dh := Table{Row(1, 0, 0, "theta1"), Row(0.5, 0, 0, "theta2")}
	ranges := grid.Ranges{
		{"theta1", []float64{deg(0), deg(90), deg(180)}},
		{"theta2", []float64{deg(0), deg(45)}},
	}
	return dh, ranges
}

func spatialRobot(q1, q2 []float64) (Table, grid.Ranges) {
	dh := Table{Row(0, sym.N(math.Pi/2), 0, "q1"), Row(1, 0, 0, "q2")}
	return dh, grid.Ranges{{"q1", q1}, {"q2", q2}}
}

func TestPlanarWorkspace2D(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	dh, ranges := planarRobot()
	r := &recorder{}
	p, err := Plot2DWorkspace(dh, ranges, r, nil)
	require.NoError(t, err)

	require.Equal(t, 6, p.Len())
	assert.Equal(t, 1, r.calls2D)
	assert.Equal(t, 0, r.calls3D)
	assert.Equal(t, "X", r.xLabel)
	assert.Equal(t, "Y", r.yLabel)
	assert.Equal(t, p.Xs, r.xs)
	assert.Equal(t, p.Ys, r.ys)

	unused, mag := UnusedAxis(p)
	assert.Equal(t, Z, unused)
	assert.Equal(t, 0.0, mag)

	seen := map[[2]float64]bool{}
	for j := 0; j < p.Len(); j++ {
		t1, t2 := ranges[0].Values[j/2], ranges[1].Values[j%2]
		seen[[2]float64{t1, t2}] = true
		assert.InDelta(t, math.Cos(t1)+0.5*math.Cos(t1+t2), p.Xs[j], 1e-14, "%d", j)
		assert.InDelta(t, math.Sin(t1)+0.5*math.Sin(t1+t2), p.Ys[j], 1e-14, "%d", j)
		assert.Equal(t, 0.0, p.Zs[j])
	}
	assert.Len(t, seen, 6)

	_, err = Plot2DWorkspace(dh, ranges, nil, &Options{Threshold: 0})
	assert.NoError(t, err)
}

func TestSpatialWorkspace2D(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	dh, ranges := spatialRobot(
		[]float64{0, math.Pi / 4}, []float64{0, math.Pi / 6},
	)
	r := &recorder{}
	_, err := Plot2DWorkspace(dh, ranges, r, &Options{Threshold: 0.0001, Verbose: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotTwoDimensional)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, r.calls2D)

	var ntd *NotTwoDimensionalError
	require.True(t, errors.As(err, &ntd))
	assert.Equal(t, Z, ntd.Axis)
	assert.Equal(t, 0.0001, ntd.Threshold)
	assert.InDelta(t, 0.5, ntd.Magnitude, 1e-15)
	assert.Contains(t, err.Error(), "Z")
}

func TestSpatialTieBreak(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	angles := []float64{0, math.Pi / 4, math.Pi / 2}
	dh, ranges := spatialRobot(angles, angles)

	p, err := Compute(dh, ranges, nil)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 1, 1}, p.MaxAbs())

	_, err = Plot2DWorkspace(dh, ranges, nil, nil)
	var ntd *NotTwoDimensionalError
	require.True(t, errors.As(err, &ntd))
	assert.Equal(t, X, ntd.Axis)
	assert.Equal(t, 1.0, ntd.Magnitude)
}

func TestThresholdBoundary(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	dh := Table{Row(1, 0, 0.25, "q")}
	ranges := grid.Ranges{{"q", []float64{0, math.Pi / 2, math.Pi}}}

	r := &recorder{}
	p, err := Plot2DWorkspace(dh, ranges, r, &Options{Threshold: 0.25})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.25, 0.25}, p.Zs)
	assert.Equal(t, "X", r.xLabel)
	assert.Equal(t, "Y", r.yLabel)

	_, err = Plot2DWorkspace(dh, ranges, r, &Options{Threshold: math.Nextafter(0.25, 0)})
	assert.ErrorIs(t, err, ErrNotTwoDimensional)

	_, err = Plot2DWorkspace(dh, ranges, r, &Options{Threshold: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestZeroThreshold(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	dh := Table{Row(1, 0, 1e-6, "q")}
	ranges := grid.Ranges{{"q", []float64{0, math.Pi / 2}}}

	_, err := Plot2DWorkspace(dh, ranges, nil, nil)
	assert.NoError(t, err)

	opt := DefaultOptions()
	opt.Verbose = true
	assert.Equal(t, DefaultThreshold, opt.Threshold)
	_, err = Plot2DWorkspace(dh, ranges, nil, opt)
	assert.NoError(t, err)

	_, err = Plot2DWorkspace(dh, ranges, nil, &Options{Verbose: true})
	var ntd *NotTwoDimensionalError
	require.True(t, errors.As(err, &ntd))
	assert.Equal(t, 0.0, ntd.Threshold)
	assert.Equal(t, Z, ntd.Axis)
	assert.InDelta(t, 1e-6, ntd.Magnitude, 1e-18)
}

func TestDroppedAxisLabels(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	// A quarter turn about the base x axis puts the arm in the XZ plane.
	dh := Table{Row(0, sym.N(math.Pi/2), 0, 0), Row(0, 0, 0, sym.N(math.Pi/2)), Row(1, 0, 0, "q")}
	ranges := grid.Ranges{{"q", []float64{0, 0.5, 1}}}

	r := &recorder{}
	p, err := Plot2DWorkspace(dh, ranges, r, nil)
	require.NoError(t, err)

	unused, mag := UnusedAxis(p)
	assert.Equal(t, Y, unused)
	assert.Equal(t, 0.0, mag)
	assert.Equal(t, "X", r.xLabel)
	assert.Equal(t, "Z", r.yLabel)
	for j := range p.Xs {
		q := ranges[0].Values[j]
		assert.InDelta(t, -math.Sin(q), p.Xs[j], 1e-15)
		assert.InDelta(t, math.Cos(q), p.Zs[j], 1e-15)
	}
}

func TestRendererError(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	dh, ranges := planarRobot()
	r := &recorder{err: fmt.Errorf("no display")}
	_, err := Plot2DWorkspace(dh, ranges, r, nil)
	assert.EqualError(t, err, "no display")

	_, err = Plot3DWorkspace(dh, ranges, r, nil)
	assert.EqualError(t, err, "no display")
}

func TestInvalidInputBeforeComputation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	dh, ranges := planarRobot()
	r := &recorder{}
	_, err := Plot2DWorkspace(dh, ranges[:1], r, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	fname := filepath.Join(t.TempDir(), "positions.dat")
	_, err = Plot3DWorkspace(dh, ranges[1:], r, &Options{SaveToFile: fname})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NoFileExists(t, fname)
	assert.Equal(t, 0, r.calls2D+r.calls3D)
}

func TestWorkspace3DRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	angles := []float64{0, 0.3, 1.1, 2.5}
	dh, ranges := spatialRobot(angles, angles)

	for _, name := range []string{"positions.dat", "positions.txt"} {
		fname := filepath.Join(t.TempDir(), name)
		r := &recorder{}
		p, err := Plot3DWorkspace(dh, ranges, r, &Options{SaveToFile: fname, Verbose: true})
		require.NoError(t, err)
		assert.Equal(t, 1, r.calls3D)
		assert.Equal(t, p.Zs, r.zs)

		ref, err := Compute(dh, ranges, nil)
		require.NoError(t, err)

		xs, ys, zs, err := io.ReadPositions(fname)
		require.NoError(t, err)
		require.Len(t, xs, 16)
		if io.IsText(fname) {
			assert.Equal(t, ref.Xs, xs)
			assert.Equal(t, ref.Ys, ys)
			assert.Equal(t, ref.Zs, zs)
			continue
		}
		for i := range xs {
			assert.Equal(t, math.Float64bits(ref.Xs[i]), math.Float64bits(xs[i]), "x %d", i)
			assert.Equal(t, math.Float64bits(ref.Ys[i]), math.Float64bits(ys[i]), "y %d", i)
			assert.Equal(t, math.Float64bits(ref.Zs[i]), math.Float64bits(zs[i]), "z %d", i)
		}
	}
}

func TestWorkspace3DNoDump(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	dh, ranges := planarRobot()
	p, err := Plot3DWorkspace(dh, ranges, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Len())
}

func TestSymbolSubset(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	dh := Table{Row("a", 0, "d1", "q")}
	ranges := grid.Ranges{
		{"a", []float64{1, 2}},
		{"d1", []float64{0.1, 0.2, 0.3}},
		{"q", []float64{0, 1}},
	}

	g, err := grid.NewGrid(ranges)
	require.NoError(t, err)
	x, y, z, err := XYZExpressions(dh, nil, false)
	require.NoError(t, err)
	p, err := Evaluate(x, y, z, g)
	require.NoError(t, err)

	d1, _ := g.Column("d1")
	assert.Equal(t, d1, p.Zs)

	coords := make([]int, 3)
	for idx := 0; idx < g.Size; idx++ {
		g.Coords(idx, coords)
		for k := range ranges[1].Values {
			other := g.Idx([]int{coords[0], k, coords[2]})
			assert.Equal(t, p.Xs[idx], p.Xs[other])
			assert.Equal(t, p.Ys[idx], p.Ys[other])
		}
	}
}

func TestEvaluateConstant(t *testing.T) {
	g, err := grid.NewGrid(grid.Ranges{{"q", []float64{1, 2, 3}}})
	require.NoError(t, err)

	p, err := Evaluate(sym.N(2), sym.S("q"), sym.Zero, g)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2}, p.Xs)
	assert.Equal(t, []float64{1, 2, 3}, p.Ys)
	assert.Equal(t, []float64{0, 0, 0}, p.Zs)

	_, err = Evaluate(sym.S("r"), sym.Zero, sym.Zero, g)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPose(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	dh, _ := planarRobot()
	T, err := Pose(dh, nil, map[string]float64{"theta1": math.Pi / 2, "theta2": 0})
	require.NoError(t, err)

	assert.InDelta(t, 0, T.At(0, 3), 1e-15)
	assert.InDelta(t, 1.5, T.At(1, 3), 1e-15)
	assert.InDelta(t, 0, T.At(2, 3), 1e-15)
	assert.Equal(t, 1.0, T.At(3, 3))
	assert.InDelta(t, 1, T.At(1, 0), 1e-15)

	_, err = Pose(dh, nil, map[string]float64{"theta1": 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPoseMatchesEvaluate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	angles := []float64{0.2, 0.9}
	dh, ranges := spatialRobot(angles, angles)
	p, err := Compute(dh, ranges, nil)
	require.NoError(t, err)

	g, err := grid.NewGrid(ranges)
	require.NoError(t, err)
	q1, _ := g.Column("q1")
	q2, _ := g.Column("q2")
	for j := 0; j < p.Len(); j++ {
		T, err := Pose(dh, nil, map[string]float64{"q1": q1[j], "q2": q2[j]})
		require.NoError(t, err)
		assert.InDelta(t, p.Xs[j], T.At(0, 3), 1e-14)
		assert.InDelta(t, p.Ys[j], T.At(1, 3), 1e-14)
		assert.InDelta(t, p.Zs[j], T.At(2, 3), 1e-14)
	}
}

func TestAxisString(t *testing.T) {
	assert.Equal(t, "X", X.String())
	assert.Equal(t, "Y", Y.String())
	assert.Equal(t, "Z", Z.String())
	assert.Panics(t, func() { (&Positions{}).Axis(Axis(7)) })
}
