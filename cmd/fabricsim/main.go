package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fabricsim/internal/automation"
	"github.com/san-kum/fabricsim/internal/config"
	"github.com/san-kum/fabricsim/internal/export"
	"github.com/san-kum/fabricsim/internal/metrics"
	"github.com/san-kum/fabricsim/internal/sim"
	"github.com/san-kum/fabricsim/internal/storage"
	"github.com/san-kum/fabricsim/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	rows        int
	cols        int
	spacing     float64
	placement   string
	form        string
	pinning     string
	interaction string
	seed        int64
	steps       int
	logLevel    string

	sampleEvery int
	noSave      bool
	svgPlot     string
	metricName  string
	outFile     string
	shading     string
	svgWidth    int
	svgHeight   int
	braille     bool
	parallel    int
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fabricsim",
		Short:        "mass-spring cloth simulator",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if preset != "" {
				return liveView(cmd, args)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunInteractive(cfg, newLogger())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".fabricsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "fabric preset")
	pf.IntVar(&rows, "rows", 0, "grid rows")
	pf.IntVar(&cols, "cols", 0, "grid columns")
	pf.Float64Var(&spacing, "spacing", 0, "rest distance between neighbours")
	pf.StringVar(&placement, "placement", "", "placement mode (plane, draped)")
	pf.StringVar(&form, "form", "", "drape form (sphere, cylinder)")
	pf.StringVar(&pinning, "pinning", "", "pinning (top, corners)")
	pf.StringVar(&interaction, "interaction", "", "interaction mode (rotate, drag)")
	pf.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	pf.IntVar(&steps, "steps", config.DefaultSteps, "simulation steps")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&sampleEvery, "sample", 1, "sample metrics every n steps")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&svgPlot, "svg-plot", "", "write the strain series as svg")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "open the live viewer",
		Args:  cobra.NoArgs,
		RunE:  liveView,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "", "plot only this metric")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	compareCmd := &cobra.Command{
		Use:   "compare [preset...]",
		Short: "run several presets side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE:  comparePresets,
	}
	compareCmd.Flags().IntVar(&parallel, "parallel", 0, "max concurrent simulations (default all cpus)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list fabric presets",
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one parameter across a range",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.5, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 5, "number of values")

	svgCmd := &cobra.Command{
		Use:   "svg [out]",
		Short: "render the cloth after --steps steps as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().StringVar(&shading, "shading", "wire", "shading (wire, structure, stress)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	svgCmd.Flags().BoolVar(&braille, "braille", false, "render the terminal viewer frame instead")

	configCmd := &cobra.Command{
		Use:   "config [out]",
		Short: "print or save the effective configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showConfig,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, compareCmd, presetsCmd, scenarioCmd, sweepCmd, svgCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fabricsim",
	})
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", logLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig layers the config file, the preset and then any flag the user
// set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(config.ListPresets(), ", "))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Rows = rows
	}
	if flags.Changed("cols") {
		cfg.Cols = cols
	}
	if flags.Changed("spacing") {
		cfg.Spacing = spacing
	}
	if flags.Changed("placement") {
		cfg.Placement = placement
	}
	if flags.Changed("form") {
		cfg.Form = form
	}
	if flags.Changed("pinning") {
		cfg.Pinning = pinning
	}
	if flags.Changed("interaction") {
		cfg.Interaction = interaction
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.New()
	if err != nil {
		return err
	}
	s.SetLogger(logger)

	runner := sim.New(s)
	for _, m := range metrics.Default() {
		runner.AddMetric(m)
	}

	ctx, cancel := signalContext()
	defer cancel()

	runCfg := sim.Config{Steps: cfg.Steps, ValidateState: true, SampleEvery: sampleEvery}
	fmt.Printf("running %dx%d cloth for %d steps...\n", cfg.Rows, cfg.Cols, cfg.Steps)
	start := time.Now()

	result, err := runner.Run(ctx, runCfg)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted", "steps", result.StepsTaken, "err", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, result.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if strain := result.Series["strain"]; len(strain) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(strain,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("max strain"),
		))
		if svgPlot != "" {
			svg := export.SeriesToSVG(strain, 800, 300, "#e74c3c")
			if err := os.WriteFile(svgPlot, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("strain plot written to %s\n", svgPlot)
		}
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, runCfg, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func liveView(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.New()
	if err != nil {
		return err
	}

	title := "custom"
	if f := config.GetPreset(cfg.Preset); f != nil {
		title = f.Name
	}
	return viz.Run(s, title, logger)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tGRID\tPLACEMENT\tSTEPS\tSTRAIN")

	for _, run := range runs {
		name := run.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%s\t%d\t%.4f\n",
			run.ID,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows, run.Cols,
			run.Placement,
			run.Steps,
			run.Metrics["strain"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(samples))

	names := sortedKeys(series)
	if metricName != "" {
		if _, ok := series[metricName]; !ok {
			return fmt.Errorf("run %s has no metric %q (have: %s)", runID, metricName, strings.Join(names, ", "))
		}
		names = []string{metricName}
	}

	for _, name := range names {
		data := series[name]
		if len(data) < 2 {
			continue
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(strings.ReplaceAll(name, "_", " ")),
		))
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile == "" {
		return st.ExportJSON(os.Stdout, args[0])
	}
	if err := st.ExportJSONFile(outFile, args[0]); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", args[0], outFile)
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	members := make([]sim.Member, 0, len(args))
	for _, name := range args {
		cfg := *base
		cfg.Params = nil
		if err := cfg.ApplyPreset(name); err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(config.ListPresets(), ", "))
		}
		settings, err := cfg.Settings()
		if err != nil {
			return err
		}
		members = append(members, sim.Member{Name: name, Settings: settings})
	}

	e := sim.NewEnsemble(members, metrics.Default)
	e.SetLimit(parallel)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("comparing %d presets (%dx%d, %d steps)\n\n", len(members), base.Rows, base.Cols, base.Steps)
	start := time.Now()
	results, err := e.Run(ctx, sim.Config{Steps: base.Steps, ValidateState: true, SampleEvery: 1})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "preset\tpeak strain\tfinal strain\tenergy\tstress\tstable\t")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.3f\t%.4f\t%.0f\t\n",
			members[i].Name,
			peakOf(r.Series["strain"]),
			r.Metrics["strain"],
			r.Metrics["kinetic_energy"],
			r.Metrics["stress"],
			r.Metrics["stability"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFABRIC\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		f := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, f.Name, f.Description)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.New()
	if err != nil {
		return err
	}
	s.SetLogger(logger)

	ctx, cancel := signalContext()
	defer cancel()

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	reports, err := automation.RunScenario(ctx, sc, s, logger, metrics.Default)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTEP\tADVANCED\tSELECTED\tSTRAIN\tENERGY\tSTRESS")
	for _, r := range reports {
		selected := "-"
		if r.Selected {
			selected = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%.4f\t%.3f\t%.4f\n",
			r.Index, r.Name, r.Steps, selected,
			r.Metrics["strain"], r.Metrics["kinetic_energy"], r.Metrics["stress"])
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      settings,
		ParamName: args[0],
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepPoints,
		Steps:     cfg.Steps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\tpeak strain\tenergy\tstress\tstable\t\n", args[0])
	peaks := make([]float64, len(results))
	for i, r := range results {
		peaks[i] = r.PeakStrain
		fmt.Fprintf(w, "%.4f\t%.4f\t%.3f\t%.4f\t%.0f\t\n",
			r.ParamValue, r.PeakStrain, r.FinalEnergy, r.MeanStress, r.Stability)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(peaks) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(peaks,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("peak strain vs %s", args[0])),
		))
	}
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	sh, err := export.ParseShading(shading)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.New()
	if err != nil {
		return err
	}
	s.SetLogger(newLogger())
	s.Advance(cfg.Steps)

	var svg string
	if braille {
		// one braille cell is 2x4 dots drawn 4 units apart
		svg = export.CanvasToSVG(viz.Snapshot(s, svgWidth/8, svgHeight/16), 4)
	} else {
		cam := viz.FitCamera(svgWidth, svgHeight, viz.SceneExtent)
		svg = export.ClothToSVG(s, cam, svgWidth, svgHeight, sh)
	}

	if len(args) == 0 {
		_, err := fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(args[0], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s after %d steps\n", args[0], s.StepIndex())
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		if err := config.Save(args[0], cfg); err != nil {
			return err
		}
		fmt.Printf("saved config to %s\n", args[0])
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func peakOf(xs []float64) float64 {
	var m float64
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
