package dhreach

import (
	"fmt"

	"github.com/phil-mansfield/dhreach/grid"
	"github.com/phil-mansfield/dhreach/io"
)

// Title is the title of every workspace plot.
const Title = "Reachable Workspace"

// DefaultThreshold is the default magnitude below which an axis is treated
// as unused by Plot2DWorkspace.
const DefaultThreshold = 0.0001

// Renderer draws a computed workspace.
type Renderer interface {
	// Scatter2D draws ys against xs as unconnected points on equally scaled
	// axes.
	Scatter2D(xs, ys []float64, xLabel, yLabel string) error
	// Scatter3D draws a point cloud with axes labeled X, Y and Z.
	Scatter3D(xs, ys, zs []float64) error
}

// Options controls Compute and the workspace plotters. Build Options from
// DefaultOptions and change the fields you need. A literal such as
// &Options{Verbose: true} has a zero Threshold, which only accepts an axis
// that is exactly zero everywhere.
type Options struct {
	// Threshold is the largest magnitude an axis may have and still be
	// dropped by Plot2DWorkspace. Zero is honored as given; it does not
	// select DefaultThreshold.
	Threshold float64
	// Transform builds the per-link transforms. nil selects DHTransform.
	Transform TransformFunc
	// Verbose promotes diagnostics from Debug to Info level.
	Verbose bool
	// SaveToFile is where Plot3DWorkspace writes the computed positions.
	// Nothing is written if it is empty.
	SaveToFile string
}

// DefaultOptions returns the Options used when nil is passed.
func DefaultOptions() *Options {
	return &Options{Threshold: DefaultThreshold}
}

// Compute validates dh and ranges, derives the end effector position
// expressions, sweeps the parameter grid and evaluates the position at every
// combination. Grid dimensions follow the order of ranges.
func Compute(dh Table, ranges grid.Ranges, opt *Options) (*Positions, error) {
	if opt == nil {
		opt = DefaultOptions()
	}

	if err := Validate(dh, ranges); err != nil {
		return nil, err
	}

	x, y, z, err := XYZExpressions(dh, opt.Transform, opt.Verbose)
	if err != nil {
		return nil, err
	}

	logf(opt.Verbose, "Evaluating %.0f parameter combinations.", grid.Count(ranges))

	g, err := grid.NewGrid(ranges)
	if err != nil {
		return nil, invalidf("%s", err.Error())
	}

	return Evaluate(x, y, z, g)
}

// Plot2DWorkspace computes the workspace and plots it on the two axes which
// remain after the axis with the smallest maximum magnitude is dropped. If
// that magnitude is larger than opt.Threshold, a *NotTwoDimensionalError is
// returned and nothing is drawn. A nil r skips drawing.
func Plot2DWorkspace(
	dh Table, ranges grid.Ranges, r Renderer, opt *Options,
) (*Positions, error) {
	if opt == nil {
		opt = DefaultOptions()
	}
	if opt.Threshold < 0 {
		return nil, invalidf("negative unused position threshold, %g", opt.Threshold)
	}

	p, err := Compute(dh, ranges, opt)
	if err != nil {
		return nil, err
	}

	unused, mag := UnusedAxis(p)
	if mag > opt.Threshold {
		return nil, &NotTwoDimensionalError{
			Threshold: opt.Threshold, Axis: unused, Magnitude: mag,
		}
	}
	logf(opt.Verbose, "Dropping the %s axis, maximum magnitude %g.", unused, mag)

	if r == nil {
		return p, nil
	}

	kept := make([]Axis, 0, 2)
	for _, a := range Axes {
		if a != unused {
			kept = append(kept, a)
		}
	}
	err = r.Scatter2D(
		p.Axis(kept[0]), p.Axis(kept[1]), kept[0].String(), kept[1].String(),
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Plot3DWorkspace computes the workspace, writes it to opt.SaveToFile if
// that is set and plots all three axes. A nil r skips drawing.
func Plot3DWorkspace(
	dh Table, ranges grid.Ranges, r Renderer, opt *Options,
) (*Positions, error) {
	if opt == nil {
		opt = DefaultOptions()
	}

	p, err := Compute(dh, ranges, opt)
	if err != nil {
		return nil, err
	}

	if opt.SaveToFile != "" {
		err = io.WritePositions(opt.SaveToFile, p.Xs, p.Ys, p.Zs)
		if err != nil {
			return nil, fmt.Errorf("Could not save positions: %w", err)
		}
		logf(opt.Verbose, "Wrote %d positions to %s.", p.Len(), opt.SaveToFile)
	}

	if r == nil {
		return p, nil
	}
	if err = r.Scatter3D(p.Xs, p.Ys, p.Zs); err != nil {
		return nil, err
	}
	return p, nil
}
