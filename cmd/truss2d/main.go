package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/truss2d/internal/analysis"
	"github.com/san-kum/truss2d/internal/config"
	"github.com/san-kum/truss2d/internal/export"
	"github.com/san-kum/truss2d/internal/metrics"
	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/storage"
	"github.com/san-kum/truss2d/internal/structure"
	"github.com/san-kum/truss2d/internal/tui"
	"github.com/san-kum/truss2d/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

var (
	dataDir   string
	logLevel  string
	logFormat string
	theme     string

	preset         string
	saveRun        bool
	svgPath        string
	jsonOut        bool
	regularization float64
	reactionTol    float64
	conditionLimit float64

	drawWidth  int
	drawHeight int
	highlight  int

	sweepNode    int
	sweepMode    string
	sweepFrom    float64
	sweepTo      float64
	sweepSteps   int
	sweepWorkers int
	sweepMember  int

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "truss2d",
		Short:         "2d truss analysis with the direct stiffness method",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = l
			viz.SetTheme(theme)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".truss2d", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "classic", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	solveCmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "solve a structure file or preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  solveStructure,
	}
	addStructureFlags(solveCmd)
	solveCmd.Flags().BoolVar(&saveRun, "save", false, "save the run to the data directory")
	solveCmd.Flags().StringVar(&svgPath, "svg", "", "write an svg drawing to this path")
	solveCmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as json")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in structures",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tNODES\tMEMBERS\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, len(cfg.Nodes), len(cfg.Members), cfg.Description)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [preset] [file]",
		Short: "write a preset to a structure file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset(args[0])
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
			}
			if err := config.Save(args[1], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s to %s\n", args[0], args[1])
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export member forces of a saved run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := storage.New(dataDir).LoadMembers(args[0])
			if err != nil {
				return err
			}
			return storage.ExportCSVTo(os.Stdout, members)
		},
	}

	drawCmd := &cobra.Command{
		Use:   "draw [file]",
		Short: "draw the solved structure in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  drawStructure,
	}
	addStructureFlags(drawCmd)
	drawCmd.Flags().IntVar(&drawWidth, "width", 60, "canvas width in cells")
	drawCmd.Flags().IntVar(&drawHeight, "height", 16, "canvas height in cells")
	drawCmd.Flags().IntVar(&highlight, "highlight", 0, "member id to highlight")
	drawCmd.Flags().StringVar(&svgPath, "svg", "", "also write the braille drawing as svg")

	sweepCmd := &cobra.Command{
		Use:   "sweep [file]",
		Short: "vary one load and plot member forces",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addStructureFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepNode, "node", 0, "loaded node to vary (default: first loaded node)")
	sweepCmd.Flags().StringVar(&sweepMode, "mode", "angle", "sweep mode (angle, scale)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 360, "last parameter value (scale mode defaults to 2)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 73, "number of cases")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "parallel workers (0: all cpus)")
	sweepCmd.Flags().IntVar(&sweepMember, "member", 0, "member to plot (default: all as sparklines)")

	viewCmd := &cobra.Command{
		Use:   "view [file]",
		Short: "browse the solved structure interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, t, err := loadStructure(args)
			if err != nil {
				return err
			}
			return tui.Run(cfg.Name, t, newSolver(cmd, cfg))
		},
	}
	addStructureFlags(viewCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("truss2d", version)
		},
	}

	rootCmd.AddCommand(solveCmd, presetsCmd, initCmd, listCmd, showCmd, exportJSONCmd, exportCSVCmd, drawCmd, sweepCmd, viewCmd, versionCmd)

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorText.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func addStructureFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in structure instead of a file")
	cmd.Flags().Float64Var(&regularization, "regularization", config.DefaultRegularization, "value added to the stiffness diagonal")
	cmd.Flags().Float64Var(&reactionTol, "reaction-tol", config.DefaultReactionTolerance, "reactions below this read zero")
	cmd.Flags().Float64Var(&conditionLimit, "condition-limit", config.DefaultConditionLimit, "smallest accepted reciprocal condition number")
}

// loadStructure reads the file argument, or the --preset structure when
// given.
func loadStructure(args []string) (*config.Config, *structure.Truss, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	case len(args) == 1:
		var err error
		cfg, err = config.Load(args[0])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load structure: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("need a structure file or --preset")
	}

	t, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("structure loaded",
		zap.String("name", cfg.Name),
		zap.Int("nodes", len(t.Nodes)),
		zap.Int("members", len(t.Members)),
	)
	return cfg, t, nil
}

// newSolver writes any solver flag the user set into cfg, so saved runs
// record the settings they were solved with, and builds the solver.
func newSolver(cmd *cobra.Command, cfg *config.Config) *solver.Solver {
	if cmd.Flags().Changed("regularization") {
		cfg.Solver.Regularization = regularization
	}
	if cmd.Flags().Changed("reaction-tol") {
		cfg.Solver.ReactionTolerance = reactionTol
	}
	if cmd.Flags().Changed("condition-limit") {
		cfg.Solver.ConditionLimit = conditionLimit
	}
	return solver.New(append(cfg.SolverOptions(), solver.WithLogger(logger))...)
}

func units(cfg *config.Config) viz.Units {
	return viz.Units{Length: cfg.Units.Length, Force: cfg.Units.Force}
}

func solveStructure(cmd *cobra.Command, args []string) error {
	cfg, t, err := loadStructure(args)
	if err != nil {
		return err
	}

	s := newSolver(cmd, cfg)
	result, err := s.Solve(t)
	if err != nil {
		return err
	}
	values := metrics.EvaluateAll(t, result)

	if jsonOut {
		return storage.ExportJSONTo(os.Stdout, cfg.Name, t, result, values)
	}

	fmt.Println(viz.Title.Render(cfg.Name) + " " + viz.Subtle.Render(cfg.Description))
	fmt.Print(viz.RenderTruss(t, 60, 16))
	fmt.Println(viz.ResultTables(t, units(cfg)))
	fmt.Println(viz.MetricsTable(values))

	if svgPath != "" {
		opts := export.DefaultOptions()
		opts.Deformation = -1
		if err := os.WriteFile(svgPath, []byte(export.TrussToSVG(t, opts)), 0644); err != nil {
			return err
		}
		fmt.Printf("svg: %s\n", svgPath)
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, t, result, values)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tNODES\tMEMBERS\tFREE\tMAX TENSION\tMAX COMPRESSION")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.2f\t%.2f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.Members,
			run.FreeDOFs,
			run.Metrics["max_tension"],
			run.Metrics["max_compression"],
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	nodes, err := st.LoadNodes(runID)
	if err != nil {
		return err
	}
	members, err := st.LoadMembers(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("time: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("free dofs: %d, restrained: %d, condition: %.3g\n\n", meta.FreeDOFs, meta.RestrainedDOFs, meta.Condition)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tX\tY\tSUPPORT\tUX\tUY\tRX\tRY")
	for _, n := range nodes {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%s\t%.4e\t%.4e\t%.3f\t%.3f\n",
			n.ID, n.X, n.Y, n.Support, n.DisplacementX, n.DisplacementY, n.ReactionX, n.ReactionY)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "MEMBER\tSTART\tEND\tLENGTH\tFORCE\tSTRESS\tSTATE")
	for _, m := range members {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.3f\t%.3f\t%.4e\t%s\n",
			m.ID, m.Start, m.End, m.Length, m.Force, m.Stress, m.State)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(meta.Metrics) > 0 {
		fmt.Println()
		fmt.Println(viz.MetricsTable(meta.Metrics))
	}
	return nil
}

// exportJSON re-solves the stored structure so the export carries full
// result detail.
func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	cfg, err := st.LoadStructure(runID)
	if err != nil {
		return err
	}
	t, err := cfg.Build()
	if err != nil {
		return err
	}
	result, err := solver.New(append(cfg.SolverOptions(), solver.WithLogger(logger))...).Solve(t)
	if err != nil {
		return err
	}
	return storage.ExportJSONTo(os.Stdout, meta.Name, t, result, meta.Metrics)
}

func drawStructure(cmd *cobra.Command, args []string) error {
	cfg, t, err := loadStructure(args)
	if err != nil {
		return err
	}
	if _, err := newSolver(cmd, cfg).Solve(t); err != nil {
		logger.Warn("drawing unsolved structure", zap.Error(err))
		fmt.Println(viz.ErrorText.Render(err.Error()))
	}

	canvas := viz.DrawTruss(viz.NewCanvas(drawWidth, drawHeight), t, highlight)
	fmt.Print(canvas.Render())
	fmt.Println(viz.KeyHint.Render("tension") + " " + viz.Tension.Render("━") + "  " +
		viz.KeyHint.Render("compression") + " " + viz.Compression.Render("━") + "  " +
		viz.KeyHint.Render("zero") + " " + viz.ZeroForce.Render("━"))

	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.CanvasToSVG(canvas, 4)), 0644); err != nil {
			return err
		}
		fmt.Printf("svg: %s\n", svgPath)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, t, err := loadStructure(args)
	if err != nil {
		return err
	}

	node := sweepNode
	if node == 0 {
		loaded := t.Loaded()
		if len(loaded) == 0 {
			return fmt.Errorf("structure has no loaded node to sweep")
		}
		node = loaded[0].ID
	}

	mode := analysis.Mode(sweepMode)
	to := sweepTo
	if mode == analysis.ModeScale && !cmd.Flags().Changed("to") {
		to = 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sw := analysis.Sweep{
		NodeID:  node,
		Mode:    mode,
		From:    sweepFrom,
		To:      to,
		Steps:   sweepSteps,
		Workers: sweepWorkers,
		Logger:  logger,
	}
	res, err := sw.Run(ctx, t, newSolver(cmd, cfg))
	if err != nil {
		return err
	}

	fmt.Printf("sweep %s on node %d: %g to %g, %d cases, %d failed\n\n",
		mode, node, sw.From, sw.To, len(res.Params), len(res.Failures))

	if sweepMember != 0 {
		series, ok := res.Forces[sweepMember]
		if !ok {
			return fmt.Errorf("unknown member: %d", sweepMember)
		}
		graph := asciigraph.Plot(series,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("member %d force vs %s", sweepMember, mode)),
		)
		fmt.Println(graph)
		if p, f, ok := res.Critical(sweepMember); ok {
			fmt.Printf("\npeak |force| %.3f at %s = %g\n", math.Abs(f), mode, p)
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEMBER\tMIN\tMAX\tPEAK AT\tFORCE")
	for _, m := range t.Members {
		lo, hi, ok := res.Envelope(m.ID)
		if !ok {
			fmt.Fprintf(w, "%d\t-\t-\t-\t\n", m.ID)
			continue
		}
		p, _, _ := res.Critical(m.ID)
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%g\t%s\n", m.ID, lo, hi, p, viz.SparklineChart(res.Forces[m.ID], 40))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(res.Failures) < len(res.Params) {
		fmt.Println()
		fmt.Println(asciigraph.Plot(res.MaxDisplacement,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("max displacement"),
		))
	}
	return nil
}
