package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/memsim/sim"
	"github.com/inference-sim/memsim/sim/render"
	"github.com/inference-sim/memsim/sim/trace"
	"github.com/inference-sim/memsim/sim/workload"
)

var (
	// CLI flags for the simulation
	strategyName  string // Placement strategy (overrides the positional argument)
	quiet         bool   // Run to completion, printing every changed tick
	steps         int    // Advance this many ticks without prompting
	totalCells    int    // Total memory cells (0 = scenario or default)
	reservedCells int    // Reserved OS cells (-1 = scenario or default)
	scenarioPath  string // YAML scenario file
	traceDBPath   string // SQLite file for placement traces
	recordTrace   bool   // Record a trace even without --trace-db
	logLevel      string // Log verbosity level
	rowWidth      int    // Cells per printed row
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "Discrete-event simulator for memory placement strategies",
}

// runOptions carries everything resolved from flags and arguments.
type runOptions struct {
	InputFile     string
	Strategy      string
	Scenario      string
	TotalCells    int
	ReservedCells int
	Quiet         bool
	Steps         int
	Width         int
	TraceDB       string
	RecordTrace   bool
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run [input-file] [noncontig|first|best|next|worst]",
	Short: "Run the memory placement simulation",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		opts := runOptions{
			Strategy:      strategyName,
			Scenario:      scenarioPath,
			TotalCells:    totalCells,
			ReservedCells: reservedCells,
			Quiet:         quiet,
			Steps:         steps,
			Width:         rowWidth,
			TraceDB:       traceDBPath,
			RecordTrace:   recordTrace,
		}
		if len(args) > 0 {
			opts.InputFile = args[0]
		}
		if len(args) > 1 && opts.Strategy == "" {
			opts.Strategy = args[1]
		}

		s, err := buildSimulator(opts)
		if err != nil {
			logrus.Fatalf("%v\nusage: %s", err, cmd.UseLine())
		}
		if err := execute(s, opts, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil &&
			!errors.Is(err, sim.ErrOutOfMemory) && !errors.Is(err, sim.ErrInitialLoad) {
			logrus.Fatalf("simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// buildSimulator loads processes and configuration and constructs the simulator.
// Strategy and input errors surface here, before any engine exists.
func buildSimulator(opts runOptions) (*sim.Simulator, error) {
	var (
		procs []*sim.Process
		mem   = sim.DefaultMemoryConfig()
		name  = opts.Strategy
		err   error
	)

	switch {
	case opts.Scenario != "":
		sc, err := workload.LoadScenario(opts.Scenario)
		if err != nil {
			return nil, err
		}
		if err := sc.Validate(); err != nil {
			return nil, err
		}
		if name == "" {
			name = sc.Strategy
		}
		mem = sc.MemoryConfig()
		if procs, err = sc.Build(); err != nil {
			return nil, err
		}
	case opts.InputFile != "":
		if procs, err = workload.LoadDescriptors(opts.InputFile); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("an input file or --scenario is required")
	}

	if name == "" {
		return nil, fmt.Errorf("%w: no strategy given", sim.ErrUnknownStrategy)
	}
	strategy, err := sim.ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	if opts.TotalCells > 0 {
		mem.TotalCells = opts.TotalCells
	}
	if opts.ReservedCells >= 0 {
		mem.ReservedCells = opts.ReservedCells
	}

	logrus.Infof("Starting simulation with %d processes, strategy=%s, cells=%d, reserved=%d",
		len(procs), strategy, mem.TotalCells, mem.ReservedCells)
	return sim.NewSimulator(sim.SimConfig{Memory: mem, Strategy: strategy}, procs)
}

// execute wires output and runs the simulation in the requested mode.
func execute(s *sim.Simulator, opts runOptions, in io.Reader, out io.Writer) error {
	s.OnSnapshot = func(snap sim.Snapshot) {
		if err := render.Snapshot(out, snap, opts.Width); err != nil {
			logrus.Warnf("rendering snapshot: %v", err)
		}
	}
	s.OnDefragment = func(report sim.DefragReport) {
		if err := render.Defrag(out, report); err != nil {
			logrus.Warnf("rendering defragmentation report: %v", err)
		}
	}
	if opts.RecordTrace || opts.TraceDB != "" {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{
			Level:    trace.TraceLevelDecisions,
			Strategy: s.Engine.Strategy().String(),
		})
	}

	err := s.Load()
	if err != nil {
		fmt.Fprintln(out, "ERROR: Could not fit all initial processes in available memory")
	} else {
		switch {
		case opts.Quiet:
			err = s.RunToCompletion()
		case opts.Steps > 0:
			err = s.Advance(opts.Steps)
		default:
			err = runInteractive(in, out, s)
		}
		if errors.Is(err, sim.ErrOutOfMemory) {
			fmt.Fprintln(out, "ERROR: OUT-OF-MEMORY, ending simulation")
		}
	}

	s.Metrics.Print(out, s.Status(), s.Engine.Memory().Allocatable())
	if s.Trace != nil {
		if werr := writeTrace(s.Trace, opts.TraceDB); werr != nil {
			logrus.Errorf("writing trace: %v", werr)
		}
	}
	return err
}

func writeTrace(st *trace.SimulationTrace, path string) error {
	summary := trace.Summarize(st)
	logrus.Infof("trace %s: %d placements (%d after compaction), %d evictions, %d compactions, halted=%v",
		st.RunID, summary.Placements, summary.RetriedPlacements, summary.Evictions, summary.Defragmentations, summary.Halted)
	if path == "" {
		return nil
	}
	rec, err := trace.OpenSQLiteRecorder(path)
	if err != nil {
		return err
	}
	defer rec.Close()
	return rec.Write(st)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&strategyName, "strategy", "", "Placement strategy (noncontig, first, best, next, worst)")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Run to completion, printing memory on every change")
	runCmd.Flags().IntVar(&steps, "steps", 0, "Advance this many ticks, print memory once, and exit")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Memory geometry
	runCmd.Flags().IntVar(&totalCells, "total-cells", 0, "Total memory cells (default 1600, or the scenario's value)")
	runCmd.Flags().IntVar(&reservedCells, "reserved-cells", -1, "Reserved OS cells (default 80, or the scenario's value)")
	runCmd.Flags().IntVar(&rowWidth, "row-width", render.DefaultWidth, "Cells per printed row")

	// Inputs and outputs
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (replaces the input file)")
	runCmd.Flags().StringVar(&traceDBPath, "trace-db", "", "SQLite file to record placement traces into")
	runCmd.Flags().BoolVar(&recordTrace, "trace", false, "Collect a placement trace and log its summary")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
