package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/climsim/internal/accuracy"
	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/config"
	"github.com/san-kum/climsim/internal/export"
	"github.com/san-kum/climsim/internal/ingest"
	"github.com/san-kum/climsim/internal/model"
	"github.com/san-kum/climsim/internal/optim"
	"github.com/san-kum/climsim/internal/scenario"
	"github.com/san-kum/climsim/internal/storage"
	"github.com/san-kum/climsim/internal/tui"
	"github.com/san-kum/climsim/internal/viz"
)

var (
	dataDir    string
	tablesDir  string
	configFile string
	verbose    bool

	granularity string
	sensitivity float64
	emissions   float64
	years       int
	preset      string
	from        string
	count       int

	save      bool
	plot      bool
	sweepStep float64
	output    string
	width     int
	height    int

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "climsim",
		Short: "carbon dioxide driven temperature model",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE:          runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "run storage directory")
	pf.StringVar(&tablesDir, "tables", "", "directory holding the input tables")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "replay the model over recorded history",
		RunE:  runReplay,
	}
	addRunFlags(replayCmd)
	addWindowFlags(replayCmd)
	replayCmd.Flags().BoolVar(&save, "save", false, "save the run")
	replayCmd.Flags().BoolVar(&plot, "plot", false, "plot recorded and modeled anomalies")

	extrapolateCmd := &cobra.Command{
		Use:   "extrapolate",
		Short: "project temperature forward from the baseline year",
		RunE:  runExtrapolate,
	}
	addRunFlags(extrapolateCmd)
	extrapolateCmd.Flags().Float64Var(&emissions, "emissions", config.DefaultEmissions, "yearly carbon release (GtC)")
	extrapolateCmd.Flags().IntVar(&years, "years", config.DefaultYears, "years to project")
	extrapolateCmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	extrapolateCmd.Flags().BoolVar(&save, "save", false, "save the run")
	extrapolateCmd.Flags().BoolVar(&plot, "plot", false, "plot projected temperature")

	accuracyCmd := &cobra.Command{
		Use:   "accuracy",
		Short: "per-period and average error of a replay",
		RunE:  runAccuracy,
	}
	addRunFlags(accuracyCmd)
	addWindowFlags(accuracyCmd)
	accuracyCmd.Flags().BoolVar(&plot, "plot", false, "plot per-period error")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "find the sensitivity that best fits recorded history",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&granularity, "granularity", config.GranularityYearly, "yearly or monthly")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.1, "sensitivity step")
	addWindowFlags(sweepCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run records to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render run results to an SVG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "chart width")
	exportSVGCmd.Flags().IntVar(&height, "height", 400, "chart height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list extrapolation presets",
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive control surface",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&granularity, "granularity", config.GranularityYearly, "yearly or monthly")

	rootCmd.AddCommand(replayCmd, extrapolateCmd, accuracyCmd, sweepCmd, listCmd, plotCmd,
		exportCmd, exportCSVCmd, exportSVGCmd, presetsCmd, scenarioCmd, initConfigCmd, tuiCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&granularity, "granularity", config.GranularityYearly, "yearly or monthly")
	cmd.Flags().Float64Var(&sensitivity, "sensitivity", config.DefaultSensitivity, "climate sensitivity (°C per doubling)")
}

func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&from, "from", "", "first period of the window (YYYY or YYYY-MM)")
	cmd.Flags().IntVar(&count, "count", 0, "periods in the window (0 for all)")
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// loadConfig layers the config file, a preset, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Lookup("preset") != nil && preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.ApplyPreset(p)
	}

	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("tables") {
		cfg.Data.Dir = tablesDir
	}
	if flags.Changed("granularity") {
		cfg.Run.Granularity = granularity
	}
	if flags.Changed("sensitivity") {
		cfg.Run.Sensitivity = sensitivity
	}
	if flags.Changed("emissions") {
		cfg.Run.Emissions = emissions
	}
	if flags.Changed("years") {
		cfg.Run.Years = years
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// historyLoader reads and assembles the tables for either granularity.
func historyLoader(cfg *config.Config) func(monthly bool) ([]climate.Record, error) {
	reader := ingest.NewReader(logger)
	return func(monthly bool) ([]climate.Record, error) {
		c := *cfg
		c.Run.Granularity = config.GranularityYearly
		if monthly {
			c.Run.Granularity = config.GranularityMonthly
		}
		return reader.Load(c.Source(), c.Assembler(), monthly)
	}
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	st := storage.New(cfg.DataDir, logger)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

// loadWindow returns the configured history, narrowed by --from/--count.
func loadWindow(cfg *config.Config) ([]climate.Record, error) {
	records, err := historyLoader(cfg)(cfg.Monthly())
	if err != nil {
		return nil, err
	}
	if from == "" {
		return records, nil
	}
	start, err := climate.ParsePeriod(from)
	if err != nil {
		return nil, err
	}
	n := count
	if n == 0 {
		n = len(records)
	}
	return climate.Window(records, start, n)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	records, err := loadWindow(cfg)
	if err != nil {
		return err
	}

	engine := model.New(cfg.ModelParams())
	if err := engine.Replay(records, cfg.Run.Sensitivity); err != nil {
		return err
	}

	fmt.Printf("replayed %d %s periods at sensitivity %.2f\n\n", len(records), cfg.Run.Granularity, cfg.Run.Sensitivity)
	if err := viz.WriteRecordTable(os.Stdout, records); err != nil {
		return err
	}

	_, summary, err := accuracy.Summarize(records)
	if err != nil && !errors.Is(err, climate.ErrNoData) {
		return err
	}
	if summary != nil {
		fmt.Println()
		if err := viz.WriteSummary(os.Stdout, summary); err != nil {
			return err
		}
	}

	if plot {
		if out := viz.AnomalyPlot(records, viz.DefaultPlotOptions()); out != "" {
			fmt.Printf("\n%s\n", out)
		}
	}

	if save {
		return saveRun(cfg, storage.Run{
			Kind:        storage.KindReplay,
			Sensitivity: cfg.Run.Sensitivity,
			Records:     records,
			Summary:     summary,
		})
	}
	return nil
}

func runExtrapolate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	engine := model.New(cfg.ModelParams())
	records, err := engine.Extrapolate(cfg.Run.Years, cfg.Run.Sensitivity, cfg.Run.Emissions)
	if err != nil {
		return err
	}

	fmt.Printf("projected %d years at sensitivity %.2f, emissions %.1f GtC/yr\n\n",
		cfg.Run.Years, cfg.Run.Sensitivity, cfg.Run.Emissions)
	if err := viz.WriteRecordTable(os.Stdout, records); err != nil {
		return err
	}

	if plot {
		if out := viz.TemperaturePlot(records, viz.DefaultPlotOptions()); out != "" {
			fmt.Printf("\n%s\n", out)
		}
	}

	if save {
		return saveRun(cfg, storage.Run{
			Kind:        storage.KindExtrapolate,
			Scenario:    preset,
			Sensitivity: cfg.Run.Sensitivity,
			Emissions:   cfg.Run.Emissions,
			Records:     records,
		})
	}
	return nil
}

func saveRun(cfg *config.Config, run storage.Run) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	id, err := st.Save(run)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", id)
	return nil
}

func runAccuracy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	records, err := loadWindow(cfg)
	if err != nil {
		return err
	}

	engine := model.New(cfg.ModelParams())
	if err := engine.Replay(records, cfg.Run.Sensitivity); err != nil {
		return err
	}
	report, summary, err := accuracy.Summarize(records)
	if err != nil {
		return err
	}

	if err := viz.WriteErrorTable(os.Stdout, report, summary); err != nil {
		return err
	}
	if plot {
		if out := viz.ErrorPlot(report.Labels(), report.Values(), viz.DefaultPlotOptions()); out != "" {
			fmt.Printf("\n%s\n", out)
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	records, err := loadWindow(cfg)
	if err != nil {
		return err
	}

	engine := model.New(cfg.ModelParams())
	res, err := optim.SweepSensitivity(cmd.Context(), engine, records, optim.SensitivityGrid(engine, sweepStep))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SENSITIVITY\tAVG ERROR")
	for _, p := range res.Points {
		if p.Err != nil {
			fmt.Fprintf(w, "%.2f\t%v\n", p.Params[optim.ParamSensitivity], p.Err)
			continue
		}
		fmt.Fprintf(w, "%.2f\t%s\n", p.Params[optim.ParamSensitivity], accuracy.FormatPercent(p.Score))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest fit: %.2f °C per doubling (%s)\n",
		res.Best[optim.ParamSensitivity], accuracy.FormatPercent(res.BestScore))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir, logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tSCENARIO\tSENS\tEMIS\tPERIODS\tAVG ERROR")

	for _, run := range runs {
		scen := run.Scenario
		if scen == "" {
			scen = "-"
		}
		avg := run.Average
		if avg == "" {
			avg = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.1f\t%s..%s\t%s\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			scen,
			run.Sensitivity,
			run.Emissions,
			run.First,
			run.Last,
			avg,
		)
	}

	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, []climate.Record, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st := storage.New(cfg.DataDir, logger)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	records, err := st.LoadRecords(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, records, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("periods: %d (%s to %s)\n\n", meta.Records, meta.First, meta.Last)

	opts := viz.DefaultPlotOptions()
	var charts []string
	if meta.Kind == storage.KindExtrapolate {
		charts = append(charts, viz.TemperaturePlot(records, opts))
	} else {
		charts = append(charts, viz.AnomalyPlot(records, opts))
	}
	charts = append(charts, viz.ConcentrationPlot(records, opts))

	for _, c := range charts {
		if c != "" {
			fmt.Printf("%s\n\n", c)
		}
	}
	if meta.Average != "" {
		fmt.Printf("average error: %s\n", meta.Average)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, records)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return storage.WriteRecordsCSV(os.Stdout, records)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	chart := export.AnomalyChart(records, width, height)
	if meta.Kind == storage.KindExtrapolate {
		chart = export.TemperatureChart(records, width, height)
	}

	if output == "" {
		return export.WriteSVG(os.Stdout, chart)
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteSVG(f, chart); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSENS\tEMIS\tYEARS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%d\t%s\n", name, p.Sensitivity, p.Emissions, p.Years, p.Description)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := scenario.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	runner := scenario.NewRunner(model.New(cfg.ModelParams()), historyLoader(cfg), cfg.Run,
		scenario.WithStore(st), scenario.WithLogger(logger))

	outcomes, runErr := runner.Run(cmd.Context(), sc)
	for _, out := range outcomes {
		printOutcome(out)
	}
	return runErr
}

func printOutcome(out scenario.Outcome) {
	var line strings.Builder
	fmt.Fprintf(&line, "%-16s %-12s", out.Name, out.Step.Action)

	switch {
	case out.Summary != nil:
		fmt.Fprintf(&line, " %d periods, average error %s", out.Summary.Periods, out.Summary.Average)
	case out.Sweep != nil:
		fmt.Fprintf(&line, " best sensitivity %.2f (%s)",
			out.Sweep.Best[optim.ParamSensitivity], accuracy.FormatPercent(out.Sweep.BestScore))
	case out.Ensemble != nil:
		e := out.Ensemble
		fmt.Fprintf(&line, " %d trials, %d temperature %.2f [%.2f, %.2f]",
			len(e.FinalTemps), e.FinalYear, e.Mean, e.Min, e.Max)
	case len(out.Records) > 0:
		last := out.Records[len(out.Records)-1]
		if last.ModeledTemp != nil {
			fmt.Fprintf(&line, " %s temperature %.2f", last.Label(), *last.ModeledTemp)
		}
	}
	if out.RunID != "" {
		fmt.Fprintf(&line, " (run %s)", out.RunID)
	}
	fmt.Println(line.String())
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "climsim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return tui.RunInteractive(model.New(cfg.ModelParams()), historyLoader(cfg), cfg.Run)
}
