package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"github.com/phil-mansfield/dhreach"
)

// Gonum writes plots with gonum/plot. The image format is taken from the
// extension of PlotFile: .png, .jpg, .tif, .svg or .pdf.
type Gonum struct {
	PlotFile string
	View     View
	// Size is the width and height of the image. Zero selects 8 inches.
	Size vg.Length
}

var _ dhreach.Renderer = &Gonum{}

var (
	pointColor  = color.RGBA{B: 255, A: 255}
	triadColors = [3]color.Color{
		color.RGBA{R: 255, A: 255},
		color.RGBA{G: 160, A: 255},
		color.RGBA{B: 255, A: 255},
	}
)

func (g *Gonum) Scatter2D(xs, ys []float64, xLabel, yLabel string) error {
	if err := checkLengths(xs, ys); err != nil {
		return err
	}

	p := newPlot(xLabel, yLabel)
	if err := addScatter(p, xs, ys); err != nil {
		return err
	}
	setLimits(p, xs, ys)
	return g.save(p)
}

func (g *Gonum) Scatter3D(xs, ys, zs []float64) error {
	if err := checkLengths(xs, ys, zs); err != nil {
		return err
	}

	us, vs := g.View.Project(xs, ys, zs)
	tu, tv := g.View.Triad(Extent(xs, ys, zs))

	p := newPlot(triadLabel, "")
	if err := addScatter(p, us, vs); err != nil {
		return err
	}

	tips := make(plotter.XYs, 3)
	for i := range tips {
		l, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: tu[i], Y: tv[i]}})
		if err != nil {
			return err
		}
		l.LineStyle.Width = vg.Points(2)
		l.LineStyle.Color = triadColors[i]
		p.Add(l)
		tips[i].X, tips[i].Y = tu[i], tv[i]
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: tips, Labels: []string{"X", "Y", "Z"},
	})
	if err != nil {
		return err
	}
	p.Add(labels)

	limUs := append(append([]float64{0}, us...), tu[:]...)
	limVs := append(append([]float64{0}, vs...), tv[:]...)
	setLimits(p, limUs, limVs)
	return g.save(p)
}

func newPlot(xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = dhreach.Title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func addScatter(p *plot.Plot, xs, ys []float64) error {
	pts := make(plotter.XYs, len(xs))
	for i := range pts {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(1.5)
	s.GlyphStyle.Color = pointColor
	p.Add(s)
	return nil
}

func setLimits(p *plot.Plot, xs, ys []float64) {
	p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = SquareLimits(xs, ys)
}

func (g *Gonum) save(p *plot.Plot) error {
	size := g.Size
	if size == 0 {
		size = 8 * vg.Inch
	}
	return p.Save(size, size, g.PlotFile)
}
