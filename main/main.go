package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/dhreach"
	"github.com/phil-mansfield/dhreach/grid"
	"github.com/phil-mansfield/dhreach/io"
	"github.com/phil-mansfield/dhreach/render"
	"github.com/phil-mansfield/dhreach/sym"
)

type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		workspace, expressions, pose string
		exampleConfig                string
	)
	vars := map[string]*string{
		"Workspace":     &workspace,
		"Expressions":   &expressions,
		"Pose":          &pose,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&workspace, "Workspace", "",
		"Configuration file for [Workspace] mode. Computes and plots the "+
			"reachable workspace.",
	)
	flag.StringVar(
		&expressions, "Expressions", "",
		"Configuration file for [Expressions] mode. Prints the end effector "+
			"transform and position expressions of a Workspace file.",
	)
	flag.StringVar(
		&pose, "Pose", "",
		"Configuration file for [Pose] mode. Prints the numeric end effector "+
			"transform for the symbol values given as trailing name=value "+
			"arguments.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. The only accepted argument is "+
			"'Workspace'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Workspace":
		wrap := readConfig(workspace)
		fg := setupIO(&wrap.Workspace)
		defer fg.Close()
		workspaceMain(wrap)
	case "Expressions":
		wrap := readConfig(expressions)
		fg := setupIO(&wrap.Workspace)
		defer fg.Close()
		expressionsMain(wrap)
	case "Pose":
		wrap := readConfig(pose)
		fg := setupIO(&wrap.Workspace)
		defer fg.Close()
		values, err := parseAssignments(flag.Args())
		if err != nil {
			log.Fatal(err.Error())
		}
		poseMain(wrap, values)
	case "ExampleConfig":
		switch exampleConfig {
		case "Workspace":
			fmt.Println(io.ExampleWorkspaceFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only recognized " +
					"argument is 'Workspace'.",
			)
		}
	default:
		panic("Impossible")
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}
	sort.Strings(setNames)

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but dhreach "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func readConfig(fname string) *io.WorkspaceWrapper {
	wrap, err := io.ReadWorkspaceConfig(fname)
	if err != nil {
		log.Fatal(err.Error())
	}
	return wrap
}

// traceSelector hands out one tracer for every key, so levels and outputs
// set through tracing.Select stick.
type traceSelector struct {
	tracer tracing.Trace
}

func (sel *traceSelector) Select(string) tracing.Trace { return sel.tracer }

// setupIO installs tracing and opens the log and profile files.
func setupIO(con *io.WorkspaceConfig) *FileGroup {
	fg := &FileGroup{}
	var err error

	tracing.SetTraceSelector(&traceSelector{tracer: gologadapter.New()})
	if con.Verbose {
		tracing.Select("dhreach").SetTraceLevel(tracing.LevelInfo)
	}

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
		tracing.Select("dhreach").SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	return fg
}

func readInputs(wrap *io.WorkspaceWrapper) (dhreach.Table, grid.Ranges) {
	rows, err := wrap.Table()
	if err != nil {
		log.Fatal(err.Error())
	}
	ranges, err := wrap.Ranges()
	if err != nil {
		log.Fatal(err.Error())
	}
	return dhreach.Table(rows), ranges
}

func workspaceMain(wrap *io.WorkspaceWrapper) {
	con := &wrap.Workspace
	dh, ranges := readInputs(wrap)

	r, err := render.New(
		con.Backend, con.PlotFile, render.View{Yaw: con.Yaw, Pitch: con.Pitch},
	)
	if err != nil {
		log.Fatal(err.Error())
	}

	opt := &dhreach.Options{
		Threshold:  con.Threshold,
		Verbose:    con.Verbose,
		SaveToFile: con.SaveToFile,
	}

	var p *dhreach.Positions
	switch con.Mode {
	case io.Mode2D:
		p, err = dhreach.Plot2DWorkspace(dh, ranges, r, opt)
	case io.Mode3D:
		p, err = dhreach.Plot3DWorkspace(dh, ranges, r, opt)
	}
	if err != nil {
		log.Fatal(err.Error())
	}

	if con.PlotFile != "" {
		log.Printf("Plotted %d positions to %s.", p.Len(), con.PlotFile)
	}
}

func expressionsMain(wrap *io.WorkspaceWrapper) {
	dh, ranges := readInputs(wrap)
	if err := dhreach.Validate(dh, ranges); err != nil {
		log.Fatal(err.Error())
	}

	T, err := dhreach.EndEffector(dh, nil)
	if err != nil {
		log.Fatal(err.Error())
	}
	fmt.Println(T)
	fmt.Println()
	pos := T.Col(3)
	for i, name := range []string{"x", "y", "z"} {
		fmt.Printf("%s = %s\n", name, pos[i])
	}
	fmt.Printf("\n%.0f parameter combinations.\n", grid.Count(ranges))
}

func poseMain(wrap *io.WorkspaceWrapper, values map[string]float64) {
	dh, _ := readInputs(wrap)

	T, err := dhreach.Pose(dh, nil, values)
	if err != nil {
		log.Fatal(err.Error())
	}
	fmt.Printf("%.6g\n", mat.Formatted(T, mat.Squeeze()))
}

// parseAssignments reads name=value arguments. Values are constant
// expressions, so "theta1=90deg" and "d1=pi/4" are both accepted.
func parseAssignments(args []string) (map[string]float64, error) {
	values := map[string]float64{}
	for _, arg := range args {
		tok := strings.SplitN(arg, "=", 2)
		if len(tok) != 2 || strings.TrimSpace(tok[0]) == "" {
			return nil, fmt.Errorf(
				"Argument '%s' is not of the form name=value.", arg,
			)
		}

		name := strings.TrimSpace(tok[0])
		if _, ok := values[name]; ok {
			return nil, fmt.Errorf("'%s' is assigned twice.", name)
		}

		e, err := sym.Parse(tok[1])
		if err != nil {
			return nil, fmt.Errorf("Value of '%s': %w", name, err)
		}
		v, err := sym.Eval(e, nil)
		if err != nil {
			return nil, fmt.Errorf("Value of '%s' is not a constant: %w", name, err)
		}
		values[name] = v
	}
	return values, nil
}
