package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
)

// View is an orthographic camera used to draw point clouds on flat plotting
// surfaces. Angles are in degrees. With both angles zero the screen shows
// (x, z); Pitch = 90 looks straight down and shows (x, y).
type View struct {
	Yaw, Pitch float64
}

// DefaultView is the camera used when none is configured.
var DefaultView = View{Yaw: -60, Pitch: 30}

func (v View) rotation() mgl64.Mat3 {
	yaw := mgl64.DegToRad(v.Yaw)
	pitch := mgl64.DegToRad(v.Pitch)
	return mgl64.Rotate3DX(pitch).Mul3(mgl64.Rotate3DZ(yaw))
}

// Project returns the screen coordinates of every point.
func (v View) Project(xs, ys, zs []float64) (us, vs []float64) {
	R := v.rotation()
	us, vs = make([]float64, len(xs)), make([]float64, len(xs))
	for i := range xs {
		p := R.Mul3x1(mgl64.Vec3{xs[i], ys[i], zs[i]})
		us[i], vs[i] = p.X(), p.Z()
	}
	return us, vs
}

// Triad returns the screen coordinates of the tips of the X, Y and Z unit
// axes scaled to length.
func (v View) Triad(length float64) (us, vs [3]float64) {
	R := v.rotation()
	axes := [3]mgl64.Vec3{{length, 0, 0}, {0, length, 0}, {0, 0, length}}
	for i, a := range axes {
		p := R.Mul3x1(a)
		us[i], vs[i] = p.X(), p.Z()
	}
	return us, vs
}

// Extent returns the largest absolute coordinate of any point, or 1 if every
// point is at the origin.
func Extent(xs ...[]float64) float64 {
	ext := 0.0
	for _, x := range xs {
		if len(x) > 0 {
			ext = math.Max(ext, floats.Norm(x, math.Inf(1)))
		}
	}
	if ext == 0 {
		return 1
	}
	return ext
}

// squarePad is the fractional margin added around the data.
const squarePad = 0.05

// SquareLimits returns axis limits which contain every point and which span
// the same distance on both axes, so a square canvas has equal scaling.
func SquareLimits(xs, ys []float64) (xLo, xHi, yLo, yHi float64) {
	lo, hi := equalLimits(xs, ys)
	return lo[0], hi[0], lo[1], hi[1]
}

// CubeLimits is SquareLimits for three axes.
func CubeLimits(xs, ys, zs []float64) (lo, hi [3]float64) {
	l, h := equalLimits(xs, ys, zs)
	copy(lo[:], l)
	copy(hi[:], h)
	return lo, hi
}

func equalLimits(arrays ...[]float64) (lo, hi []float64) {
	lo, hi = make([]float64, len(arrays)), make([]float64, len(arrays))
	for i := range arrays {
		lo[i], hi[i] = -1, 1
	}
	for _, a := range arrays {
		if len(a) == 0 {
			return lo, hi
		}
	}

	mids := make([]float64, len(arrays))
	half, fallback := 0.0, 1.0
	for i, a := range arrays {
		aMin, aMax := floats.Min(a), floats.Max(a)
		mids[i] = (aMin + aMax) / 2
		half = math.Max(half, (aMax-aMin)/2)
		fallback = math.Max(fallback, math.Abs(aMax))
	}
	if half == 0 {
		half = fallback
	}
	half *= 1 + squarePad

	for i := range arrays {
		lo[i], hi[i] = mids[i]-half, mids[i]+half
	}
	return lo, hi
}
