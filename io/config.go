package io

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/phil-mansfield/table"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/dhreach/grid"
	"github.com/phil-mansfield/dhreach/sym"
)

const (
	ExampleWorkspaceFile = `[Workspace]
# Computes the reachable workspace of a serial robot. Every free symbol used
# by a [Link] must have exactly one [Range].

#######################
# Required Parameters #
#######################

# Mode is either 2D or 3D. 2D mode drops the axis that the workspace does not
# extend along and fails if no such axis exists.
Mode = 2D

#######################
# Optional Parameters #
#######################

# An axis is unused in 2D mode if no position is farther than Threshold from
# zero along it. Default is 0.0001.
# Threshold = 0.0001

# Print the end effector transform, the position expressions, and the number
# of parameter combinations.
# Verbose = true

# 3D mode only: write every computed position to this file. Files ending in
# .txt are written as x y z columns, anything else as raw little endian
# float64 arrays.
# SaveToFile = positions.dat

# Write the plot to this file instead of opening a window. Backend selects the
# plotting library and is either pyplot or gonum. gonum can only write files.
# PlotFile = workspace.png
# Backend = pyplot

# 3D mode only: viewing angles in degrees.
# Yaw = -60
# Pitch = 30

# Output files which are useful for profiling and debugging.
# ProfileFile = prof.out
# LogFile = log.out

# Links are numbered from 1, starting at the base. Each entry is an
# expression: numbers, symbols, pi, + - * / ^, sin, cos, tan, sqrt, and
# angles like 90deg.
[Link "1"]
A = 1
Alpha = 0
D = 0
Theta = theta1

[Link "2"]
A = 0.5
Alpha = 0
D = 0
Theta = theta2

# A range is given by exactly one of:
#   repeated Values,
#   Start, Stop, and Steps (inclusive, evenly spaced), or
#   File and Column (a column of a whitespace-separated text table).
# Degrees = true converts the values to radians. Ranges are swept in order of
# increasing Order, then by name.
[Range "theta1"]
Start = -90
Stop = 90
Steps = 61
Degrees = true

[Range "theta2"]
Values = 0
Values = 45
Values = 90
Degrees = true`
)

// Modes and backends accepted by WorkspaceConfig.
const (
	Mode2D = "2D"
	Mode3D = "3D"

	BackendPyplot = "pyplot"
	BackendGonum  = "gonum"
)

type WorkspaceConfig struct {
	// Required
	Mode string

	// Optional
	Threshold            float64
	Verbose              bool
	SaveToFile           string
	PlotFile, Backend    string
	Yaw, Pitch           float64
	LogFile, ProfileFile string
}

func (con *WorkspaceConfig) ValidMode() bool {
	return con.Mode == Mode2D || con.Mode == Mode3D
}
func (con *WorkspaceConfig) ValidThreshold() bool {
	return con.Threshold >= 0
}
func (con *WorkspaceConfig) ValidBackend() bool {
	return con.Backend == BackendPyplot || con.Backend == BackendGonum
}
func (con *WorkspaceConfig) ValidPlotFile() bool {
	return con.PlotFile != "" || con.Backend != BackendGonum
}
func (con *WorkspaceConfig) ValidSaveToFile() bool {
	return con.SaveToFile == "" || con.Mode == Mode3D
}
func (con *WorkspaceConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *WorkspaceConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

// CheckInit returns an error describing the first invalid field.
func (con *WorkspaceConfig) CheckInit() error {
	if !con.ValidMode() {
		return fmt.Errorf(
			"Invalid/non-existent 'Mode' value, '%s'. Must be %s or %s.",
			con.Mode, Mode2D, Mode3D,
		)
	} else if !con.ValidThreshold() {
		return fmt.Errorf("Negative 'Threshold' value, %g.", con.Threshold)
	} else if !con.ValidBackend() {
		return fmt.Errorf(
			"Invalid 'Backend' value, '%s'. Must be %s or %s.",
			con.Backend, BackendPyplot, BackendGonum,
		)
	} else if !con.ValidPlotFile() {
		return fmt.Errorf("The %s backend requires a 'PlotFile'.", BackendGonum)
	} else if !con.ValidSaveToFile() {
		return fmt.Errorf("'SaveToFile' is only supported in %s mode.", Mode3D)
	}
	return nil
}

type LinkConfig struct {
	A, Alpha, D, Theta string
}

// CheckInit checks that every parameter of the link is set.
func (link *LinkConfig) CheckInit(name string) error {
	fields := []struct{ name, val string }{
		{"A", link.A}, {"Alpha", link.Alpha}, {"D", link.D}, {"Theta", link.Theta},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.val) == "" {
			return fmt.Errorf("Need to specify '%s' for Link '%s'.", f.name, name)
		}
	}
	return nil
}

// Row parses the link's parameters in (a, alpha, d, theta) order.
func (link *LinkConfig) Row(name string) ([]sym.Expr, error) {
	fields := []struct{ name, val string }{
		{"A", link.A}, {"Alpha", link.Alpha}, {"D", link.D}, {"Theta", link.Theta},
	}
	row := make([]sym.Expr, len(fields))
	for i, f := range fields {
		e, err := sym.Parse(f.val)
		if err != nil {
			return nil, fmt.Errorf("'%s' of Link '%s': %w", f.name, name, err)
		}
		row[i] = e
	}
	return row, nil
}

type RangeConfig struct {
	// One of
	Values      []float64
	Start, Stop float64
	Steps       int
	File        string
	Column      int

	// Optional
	Degrees bool
	Order   int
}

func (rc *RangeConfig) ValidValues() bool { return len(rc.Values) > 0 }
func (rc *RangeConfig) ValidSteps() bool  { return rc.Steps > 0 }
func (rc *RangeConfig) ValidFile() bool   { return rc.File != "" }
func (rc *RangeConfig) ValidColumn() bool { return rc.Column >= 0 }

// CheckInit checks that exactly one source of values is given.
func (rc *RangeConfig) CheckInit(name string) error {
	sources := 0
	for _, ok := range []bool{rc.ValidValues(), rc.ValidSteps(), rc.ValidFile()} {
		if ok {
			sources++
		}
	}

	if rc.Steps < 0 {
		return fmt.Errorf("Range '%s' given a negative 'Steps', %d.", name, rc.Steps)
	} else if sources == 0 {
		return fmt.Errorf(
			"Need to specify 'Values', 'Steps', or 'File' for Range '%s'.", name,
		)
	} else if sources > 1 {
		return fmt.Errorf(
			"Only one of 'Values', 'Steps', and 'File' may be set for "+
				"Range '%s'.", name,
		)
	} else if rc.ValidFile() && !rc.ValidColumn() {
		return fmt.Errorf("Range '%s' given a negative 'Column', %d.", name, rc.Column)
	}

	return nil
}

// Resolve returns the values of the range, in radians if Degrees is set.
func (rc *RangeConfig) Resolve() ([]float64, error) {
	var vals []float64
	switch {
	case rc.ValidValues():
		vals = append([]float64{}, rc.Values...)
	case rc.ValidSteps():
		vals = grid.Linspace(rc.Start, rc.Stop, rc.Steps)
	case rc.ValidFile():
		cols, err := table.ReadTable(rc.File, []int{rc.Column}, nil)
		if err != nil {
			return nil, err
		}
		vals = cols[0]
	}

	if rc.Degrees {
		for i := range vals {
			vals[i] *= math.Pi / 180
		}
	}
	return vals, nil
}

type WorkspaceWrapper struct {
	Workspace WorkspaceConfig
	Link      map[string]*LinkConfig
	Range     map[string]*RangeConfig
}

// DefaultWorkspaceWrapper returns a wrapper with every optional parameter set
// to its default.
func DefaultWorkspaceWrapper() *WorkspaceWrapper {
	con := WorkspaceConfig{}
	con.Threshold = 0.0001
	con.Backend = BackendPyplot
	con.Yaw = -60
	con.Pitch = 30
	return &WorkspaceWrapper{Workspace: con}
}

// ReadWorkspaceConfig reads and checks a Workspace configuration file.
func ReadWorkspaceConfig(fname string) (*WorkspaceWrapper, error) {
	wrap := DefaultWorkspaceWrapper()
	if err := gcfg.FatalOnly(gcfg.ReadFileInto(wrap, fname)); err != nil {
		return nil, err
	}
	if err := wrap.CheckInit(); err != nil {
		return nil, err
	}
	return wrap, nil
}

// ParseWorkspaceConfig is ReadWorkspaceConfig for configuration text.
func ParseWorkspaceConfig(text string) (*WorkspaceWrapper, error) {
	wrap := DefaultWorkspaceWrapper()
	if err := gcfg.FatalOnly(gcfg.ReadStringInto(wrap, text)); err != nil {
		return nil, err
	}
	if err := wrap.CheckInit(); err != nil {
		return nil, err
	}
	return wrap, nil
}

// CheckInit checks every section of the file.
func (wrap *WorkspaceWrapper) CheckInit() error {
	if err := wrap.Workspace.CheckInit(); err != nil {
		return err
	}

	if len(wrap.Link) == 0 {
		return fmt.Errorf("Need to specify at least one Link.")
	}
	for i := 1; i <= len(wrap.Link); i++ {
		name := strconv.Itoa(i)
		link, ok := wrap.Link[name]
		if !ok {
			return fmt.Errorf(
				"Links must be numbered 1 through %d, but Link '%s' is missing.",
				len(wrap.Link), name,
			)
		}
		if err := link.CheckInit(name); err != nil {
			return err
		}
	}

	for name, rc := range wrap.Range {
		if err := rc.CheckInit(name); err != nil {
			return err
		}
	}
	return nil
}

// Table parses the links in chain order.
func (wrap *WorkspaceWrapper) Table() ([][]sym.Expr, error) {
	rows := make([][]sym.Expr, len(wrap.Link))
	for i := range rows {
		name := strconv.Itoa(i + 1)
		link, ok := wrap.Link[name]
		if !ok {
			return nil, fmt.Errorf("Link '%s' is missing.", name)
		}
		row, err := link.Row(name)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

// Ranges resolves every range, sorted by Order and then by name.
func (wrap *WorkspaceWrapper) Ranges() (grid.Ranges, error) {
	names := make([]string, 0, len(wrap.Range))
	for name := range wrap.Range {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, oj := wrap.Range[names[i]].Order, wrap.Range[names[j]].Order
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})

	rs := make(grid.Ranges, len(names))
	for i, name := range names {
		vals, err := wrap.Range[name].Resolve()
		if err != nil {
			return nil, fmt.Errorf("Range '%s': %w", name, err)
		}
		rs[i] = grid.Range{Name: name, Values: vals}
	}
	return rs, nil
}
