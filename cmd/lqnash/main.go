package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/mkrv/lqnash/internal/config"
	"github.com/mkrv/lqnash/internal/export"
	"github.com/mkrv/lqnash/internal/integrators"
	"github.com/mkrv/lqnash/internal/metrics"
	"github.com/mkrv/lqnash/internal/optim"
	"github.com/mkrv/lqnash/internal/problems"
	"github.com/mkrv/lqnash/internal/solver"
	"github.com/mkrv/lqnash/internal/store"
	"github.com/mkrv/lqnash/internal/tui"
	"github.com/mkrv/lqnash/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string

	dt         float64
	horizon    float64
	maxIters   int
	tolerance  float64
	initStep   float64
	minStep    float64
	stepShrink float64
	reg        float64
	acceptance string
	integName  string

	svgPath  string
	jsonPath string

	sweepParams string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lqnash",
		Short: "iterative LQ solver for N-player differential games",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lqnash", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	solveCmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "solve a game to a feedback Nash equilibrium",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	addSolverFlags(solveCmd)
	solveCmd.Flags().StringVar(&svgPath, "svg", "", "write final trajectories to an SVG file")
	solveCmd.Flags().StringVar(&jsonPath, "json", "", "write full solve history as JSON ('-' for stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-iteration costs of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live [problem]",
		Short: "solve with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSolverFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [problem]",
		Short: "grid-search solver parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSolverFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParams, "params",
		"regularization=1e-6,1e-4,1e-2;initial_step=0.5,1.0",
		"semicolon-separated param=v1,v2,... lists")

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list built-in problems",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range problems.Names() {
				fmt.Println(name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [problem]",
		Short: "list available presets for a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for problem: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range names {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(solveCmd, listCmd, plotCmd, exportCmd, liveCmd, sweepCmd, problemsCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "horizon in seconds")
	cmd.Flags().IntVar(&maxIters, "iters", config.DefaultMaxIterations, "max iterations")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "convergence tolerance")
	cmd.Flags().Float64Var(&initStep, "step", config.DefaultInitialStep, "initial line search step")
	cmd.Flags().Float64Var(&minStep, "min-step", config.DefaultMinStep, "minimum line search step")
	cmd.Flags().Float64Var(&stepShrink, "step-shrink", config.DefaultStepShrink, "line search shrink factor")
	cmd.Flags().Float64Var(&reg, "reg", config.DefaultRegularization, "solve regularization")
	cmd.Flags().StringVar(&acceptance, "acceptance", "total", "acceptance rule: total or per_player")
	cmd.Flags().StringVar(&integName, "integrator", "rk4", "integrator: rk4 or euler")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// resolveConfig layers preset, config file and CLI flags, in that
// order of increasing precedence.
func resolveConfig(cmd *cobra.Command, problem string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Problem = problem

	if preset != "" {
		p := config.GetPreset(problem, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(problem))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		loaded.Problem = problem
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = horizon
	}
	if cmd.Flags().Changed("iters") {
		cfg.MaxIterations = maxIters
	}
	if cmd.Flags().Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("step") {
		cfg.InitialStep = initStep
	}
	if cmd.Flags().Changed("min-step") {
		cfg.MinStep = minStep
	}
	if cmd.Flags().Changed("step-shrink") {
		cfg.StepShrink = stepShrink
	}
	if cmd.Flags().Changed("reg") {
		cfg.Regularization = reg
	}
	if cmd.Flags().Changed("acceptance") {
		cfg.Acceptance = acceptance
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integName
	}
	return cfg, nil
}

func buildSolver(cfg *config.Config, opts ...solver.Option) (*solver.Solver, *problems.Problem, error) {
	prob, err := problems.Build(cfg.Problem, cfg.Dt)
	if err != nil {
		return nil, nil, err
	}
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, nil, err
	}
	s, err := solver.New(prob.Dynamics, prob.Costs, integ, cfg.Steps(), cfg.SolverParams(), prob.Bounds, opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, prob, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	logger := newLogger()

	ms := []metrics.Metric{
		metrics.NewCostDecrease(),
		metrics.NewControlEffort(),
		metrics.NewStepAcceptance(),
	}
	opts := []solver.Option{solver.WithLogger(logger)}
	for _, m := range ms {
		opts = append(opts, solver.WithObserver(m))
	}

	s, prob, err := buildSolver(cfg, opts...)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("solving", "problem", prob.Name, "players", prob.Dynamics.NumPlayers(), "steps", cfg.Steps())
	start := time.Now()

	log, err := s.Solve(ctx, prob.X0)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	metricVals := make(map[string]float64, len(ms))
	for _, m := range ms {
		metricVals[m.Name()] = m.Value()
	}

	converged := s.Phase() == solver.PhaseConverged
	runID, err := st.Save(prob.Name, cfg.Dt, cfg.Horizon, converged, log, metricVals)
	if err != nil {
		return err
	}

	last := log.Last()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("status: %s after %d iterations\n", s.Phase(), log.Len())
	for i, c := range last.TotalCosts {
		fmt.Printf("  player %d cost: %.6f\n", i+1, c)
	}
	if verbose {
		for i, bd := range s.CostBreakdowns(last.OperatingPoint) {
			fmt.Printf("  player %d breakdown:\n", i+1)
			names := make([]string, 0, len(bd))
			for name := range bd {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("    %s: %.6f\n", name, bd[name])
			}
		}
	}
	fmt.Println("\nmetrics:")
	for name, val := range metricVals {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	canvas := viz.NewCanvas(64, 18)
	canvas.DrawTrajectories(last.OperatingPoint, prob.PositionDims)
	fmt.Println("\ntrajectories:")
	fmt.Println(canvas.String())

	if svgPath != "" {
		if err := export.WriteTrajectorySVG(svgPath, last.OperatingPoint, prob.PositionDims, export.DefaultSVGOptions()); err != nil {
			return err
		}
		fmt.Printf("svg written to %s\n", svgPath)
	}

	if jsonPath != "" {
		data := store.BuildExport(prob.Name, cfg.Dt, cfg.Horizon, log)
		if jsonPath == "-" {
			return store.ExportJSONStdout(data)
		}
		if err := store.ExportJSON(jsonPath, data); err != nil {
			return err
		}
		fmt.Printf("json written to %s\n", jsonPath)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tTIME\tPLAYERS\tITERS\tCONVERGED\tDT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%v\t%.3f\n",
			run.ID,
			run.Problem,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Players,
			run.Iterations,
			run.Converged,
			run.Dt,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.LoadMetadata(runID)
	if err != nil {
		return err
	}
	iterates, err := st.LoadIterates(runID)
	if err != nil {
		return err
	}
	if len(iterates) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("problem: %s\n", meta.Problem)
	fmt.Printf("iterations: %d, converged: %v\n\n", meta.Iterations, meta.Converged)

	players := meta.Players
	for p := 0; p < players; p++ {
		data := make([]float64, len(iterates))
		for i, it := range iterates {
			if p < len(it.TotalCosts) {
				data[i] = it.TotalCosts[p]
			}
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("player %d cost per iteration", p+1)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	ff := make([]float64, len(iterates))
	for i, it := range iterates {
		ff[i] = it.MaxFeedforward
	}
	graph := asciigraph.Plot(ff,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("max feedforward (convergence measure)"),
	)
	fmt.Println(graph)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.LoadMetadata(args[0])
	if err != nil {
		return err
	}
	return store.PrintJSON(os.Stdout, meta)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	obs := tui.NewObserver()
	s, prob, err := buildSolver(cfg, solver.WithObserver(obs))
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Solve(context.Background(), prob.X0)
		done <- err
	}()

	m := tui.NewLive(prob.Name, prob.PositionDims, obs, done)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	names, ranges, err := parseSweepParams(sweepParams)
	if err != nil {
		return err
	}

	logger := newLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gs := optim.NewGridSearch(names, ranges)
	best, bestCost, err := gs.Search(ctx, func(ctx context.Context, params map[string]float64) (float64, error) {
		trial := *cfg
		for name, v := range params {
			switch name {
			case "regularization":
				trial.Regularization = v
			case "initial_step":
				trial.InitialStep = v
			case "tolerance":
				trial.Tolerance = v
			case "step_shrink":
				trial.StepShrink = v
			default:
				return 0, fmt.Errorf("unknown sweep parameter: %s", name)
			}
		}

		s, prob, err := buildSolver(&trial)
		if err != nil {
			return 0, err
		}
		log, err := s.Solve(ctx, prob.X0)
		if err != nil {
			return 0, err
		}
		total := 0.0
		for _, c := range log.Last().TotalCosts {
			total += c
		}
		logger.Debug("sweep point", "params", params, "cost", total, "status", s.Phase())
		return total, nil
	})
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no sweep point produced a valid solve")
	}

	fmt.Printf("best total cost: %.6f\n", bestCost)
	for name, v := range best {
		fmt.Printf("  %s: %g\n", name, v)
	}
	return nil
}

// parseSweepParams parses "a=1,2;b=3,4" into parallel name and value
// slices for the grid search.
func parseSweepParams(s string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, list, ok := strings.Cut(part, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad sweep spec %q, want name=v1,v2,...", part)
		}
		var vals []float64
		for _, tok := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad sweep value %q: %w", tok, err)
			}
			vals = append(vals, v)
		}
		if len(vals) == 0 {
			return nil, nil, fmt.Errorf("empty value list for %s", name)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("no sweep parameters given")
	}
	return names, ranges, nil
}
