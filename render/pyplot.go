package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/dhreach"
)

// Pyplot draws through matplotlib. If PlotFile is empty the figure is shown
// in a window, otherwise it is saved to PlotFile.
type Pyplot struct {
	PlotFile string
	View     View
}

var _ dhreach.Renderer = &Pyplot{}

func (p *Pyplot) Scatter2D(xs, ys []float64, xLabel, yLabel string) error {
	if err := checkLengths(xs, ys); err != nil {
		return err
	}

	p.figure()
	plt.Plot(xs, ys, "ob")
	plt.Title(dhreach.Title)
	plt.XLabel(xLabel, plt.FontSize(16))
	plt.YLabel(yLabel, plt.FontSize(16))

	xLo, xHi, yLo, yHi := SquareLimits(xs, ys)
	plt.XLim(xLo, xHi)
	plt.YLim(yLo, yHi)
	plt.InsertLine("plt.gca().set_aspect('equal')")
	plt.Grid(plt.Axis("y"))
	plt.Grid(plt.Axis("x"))
	p.finish()
	return nil
}

// Scatter3D draws on matplotlib's mplot3d axes, so the figure can be rotated
// when it is shown in a window. View sets the initial camera.
func (p *Pyplot) Scatter3D(xs, ys, zs []float64) error {
	if err := checkLengths(xs, ys, zs); err != nil {
		return err
	}

	p.figure()
	for _, line := range axes3DLines(xs, ys, zs, p.View) {
		plt.InsertLine(line)
	}
	plt.Title(dhreach.Title)
	plt.XLabel("X", plt.FontSize(16))
	plt.YLabel("Y", plt.FontSize(16))
	p.finish()
	return nil
}

func (p *Pyplot) figure() {
	plt.Reset()
	plt.Figure(plt.FigSize(8, 8))
}

func (p *Pyplot) finish() {
	if p.PlotFile == "" {
		plt.Show()
		return
	}
	plt.SaveFig(p.PlotFile)
	plt.Execute()
}

// axes3DLines returns the matplotlib statements which create the 3D axes,
// scatter the points on them and fix an equal-aspect cube around the data.
// matplotlib measures azimuth from the +x axis, so a View yaw of 0, which
// looks along +y, is an azimuth of -90.
func axes3DLines(xs, ys, zs []float64, v View) []string {
	lo, hi := CubeLimits(xs, ys, zs)
	return []string{
		"from mpl_toolkits.mplot3d import Axes3D",
		"ax = plt.gcf().add_subplot(111, projection='3d')",
		fmt.Sprintf(
			"ax.scatter(%s, %s, %s, c='b', marker='o')",
			pyList(xs), pyList(ys), pyList(zs),
		),
		"ax.set_zlabel('Z', fontsize=16)",
		fmt.Sprintf("ax.set_xlim(%s, %s)", pyFloat(lo[0]), pyFloat(hi[0])),
		fmt.Sprintf("ax.set_ylim(%s, %s)", pyFloat(lo[1]), pyFloat(hi[1])),
		fmt.Sprintf("ax.set_zlim(%s, %s)", pyFloat(lo[2]), pyFloat(hi[2])),
		"ax.set_box_aspect((1, 1, 1))",
		fmt.Sprintf(
			"ax.view_init(elev=%s, azim=%s)",
			pyFloat(v.Pitch), pyFloat(-90-v.Yaw),
		),
	}
}

func pyFloat(x float64) string {
	switch {
	case math.IsNaN(x):
		return "np.nan"
	case math.IsInf(x, +1):
		return "np.inf"
	case math.IsInf(x, -1):
		return "-np.inf"
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func pyList(xs []float64) string {
	items := make([]string, len(xs))
	for i, x := range xs {
		items[i] = pyFloat(x)
	}
	return "[" + strings.Join(items, ",") + "]"
}
