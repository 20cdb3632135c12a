package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"breathe/internal/analysis"
	"breathe/internal/config"
	"breathe/internal/metrics"
	"breathe/internal/optim"
	"breathe/internal/scenario"
	"breathe/internal/sim"
	"breathe/internal/storage"
	"breathe/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	curveKind  string
	dt         float64
	duration   float64
	seed       int64
	users      int
	particles  int
	numRuns    int
	svgWidth   int
	svgHeight  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "breathe",
		Short: "collective breathing visualization lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".breathe", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a session offline and store the result",
		RunE:  runSession,
	}
	addSessionFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the live terminal visualization",
		RunE:  runLive,
	}
	addSessionFlags(liveCmd)

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

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run's breath waveform to SVG on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "svg width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 300, "svg height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list breathing patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("%-10s %g-%g-%g-%g\n", name,
					cfg.Breath.Inhale, cfg.Breath.HoldIn, cfg.Breath.Exhale, cfg.Breath.HoldOut)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the same session across consecutive seeds",
		RunE:  runSweep,
	}
	addSessionFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search damping speeds against hidden breathing",
		RunE:  runTune,
	}
	addSessionFlags(tuneCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted clock-override scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSessionFlags(scenarioCmd)

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, sweepCmd, tuneCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "session file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "breathing pattern preset")
	cmd.Flags().StringVar(&curveKind, "curve", "", "curve kind (phases, wave)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&users, "users", 0, "connected users")
	cmd.Flags().IntVar(&particles, "particles", 0, "swarm size")
}

// buildConfig resolves precedence: preset, then config file, then flags the
// user actually set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("curve") {
		cfg.Breath.Curve = curveKind
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("users") {
		cfg.Users = users
	}
	if cmd.Flags().Changed("particles") {
		cfg.Swarm.Count = particles
	}

	return cfg, cfg.Validate()
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner, err := sim.NewRunner(cfg)
	if err != nil {
		return err
	}
	runner.AddMetric(metrics.NewStability(cfg.Breath.MaxRadius*3, 50))
	runner.AddMetric(metrics.NewContainment(cfg.Swarm.RepulsionOffset, 0.05))
	runner.AddMetric(metrics.NewStillness(0.5))

	fmt.Println("running session...")
	start := time.Now()

	result, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	runID, err := st.Save(storage.RunMetadata{
		Curve:     cfg.Breath.Curve,
		Preset:    preset,
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Users:     cfg.Users,
		Particles: cfg.Swarm.Count,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
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
	fmt.Fprintln(w, "ID\tCURVE\tPRESET\tTIME\tDURATION\tUSERS\tPARTICLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1fs\t%d\t%d\n",
			run.ID,
			run.Curve,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Users,
			run.Particles,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("curve: %s\n", meta.Curve)
	fmt.Printf("samples: %d\n\n", len(frames))

	series := []struct {
		name  string
		value func(sim.Frame) float64
	}{
		{"eased breath level", func(f sim.Frame) float64 { return f.EasedProgress }},
		{"crystallization", func(f sim.Frame) float64 { return f.Crystallization }},
		{"orbit radius (damped)", func(f sim.Frame) float64 { return f.OrbitRadius }},
		{"swarm mean radius", func(f sim.Frame) float64 { return f.MeanRadius }},
	}
	for _, s := range series {
		data := make([]float64, len(frames))
		for i, f := range frames {
			data[i] = s.value(f)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(s.name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	data := make([]float64, len(frames))
	for i, f := range frames {
		data[i] = f.EasedProgress
	}

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 4 {
		graph := asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (eased level)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	period := analysis.DominantPeriod(data, meta.Dt)
	if period > 0 {
		fmt.Printf("dominant period: %.2f s\n", period)
	} else {
		fmt.Println("no dominant period found")
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	svg := storage.WaveformSVG(frames, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("not enough data to render")
	}
	fmt.Println(svg)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ens := sim.NewEnsemble(cfg, numRuns, cfg.Seed)
	ens.AddMetric(func() sim.Metric { return metrics.NewStability(cfg.Breath.MaxRadius*3, 50) })
	ens.AddMetric(func() sim.Metric { return metrics.NewContainment(cfg.Swarm.RepulsionOffset, 0.05) })

	fmt.Printf("sweeping %d seeds from %d...\n\n", numRuns, cfg.Seed)
	results, err := ens.Run(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTABILITY\tCONTAINMENT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\n",
			cfg.Seed+int64(i), r.Metrics["stability"], r.Metrics["containment"])
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	gs := optim.NewGridSearch(
		[]string{"phase_speed", "radius_speed"},
		[][]float64{
			{1.0, 2.2, 4.0},
			{1.5, 3.0, 5.0},
		},
		func(c *config.Config, p map[string]float64) {
			c.Damping.Phase = p["phase_speed"]
			c.Damping.Radius = p["radius_speed"]
		},
	)

	fmt.Println("searching damping grid...")
	best, score, err := gs.Search(context.Background(), cfg, optim.HiddenBreathing)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no grid cell produced a usable run")
	}

	fmt.Printf("\nbest score: %.4f\n", score)
	for name, val := range best {
		fmt.Printf("  %s: %.2f\n", name, val)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("running scenario: %s\n", sc.Name)
	result, err := sc.Run(context.Background(), cfg)
	if err != nil {
		return err
	}
	fmt.Printf("frames: %d\n", result.StepsTaken)

	if len(result.Frames) > 1 {
		data := make([]float64, len(result.Frames))
		for i, f := range result.Frames {
			data[i] = f.EasedProgress
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("eased breath level"),
		)
		fmt.Println(graph)
	}
	return nil
}
