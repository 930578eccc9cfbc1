// Package render draws computed workspaces. Each backend implements
// dhreach.Renderer.
package render

import (
	"fmt"

	"github.com/phil-mansfield/dhreach"
)

// Backend names accepted by New.
const (
	PyplotBackend = "pyplot"
	GonumBackend  = "gonum"
)

// triadLabel explains the axis triad drawn under 3D plots.
const triadLabel = "X (red), Y (green), Z (blue)"

// New returns the named backend. An empty plotFile opens a window, which only
// the pyplot backend supports.
func New(backend, plotFile string, view View) (dhreach.Renderer, error) {
	switch backend {
	case PyplotBackend:
		return &Pyplot{PlotFile: plotFile, View: view}, nil
	case GonumBackend:
		if plotFile == "" {
			return nil, fmt.Errorf("The %s backend can only write to files.", backend)
		}
		return &Gonum{PlotFile: plotFile, View: view}, nil
	}
	return nil, fmt.Errorf("Unrecognized plotting backend '%s'.", backend)
}

func checkLengths(arrays ...[]float64) error {
	for i := range arrays {
		if len(arrays[i]) != len(arrays[0]) {
			return fmt.Errorf(
				"Coordinate arrays have mismatched lengths %d and %d.",
				len(arrays[0]), len(arrays[i]),
			)
		}
	}
	if len(arrays) > 0 && len(arrays[0]) == 0 {
		return fmt.Errorf("No points to plot.")
	}
	return nil
}
