package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/convox/logger"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/input"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/viz"
)

var (
	dataDir    string
	configFile string
	speed      int
	values     string
	preset     string
	random     int
	seed       int64
	instant    bool
	live       bool
	trace      bool
	noSave     bool
	frameRate  int
	theme      string
	gifPath    string
	sizes      []int
	benchRuns  int
	addr       string
	outFile    string
	curve      bool
)

// main registers the commands and flags. With no subcommand it opens the
// interactive algorithm menu.
func main() {
	rootCmd := &cobra.Command{
		Use:   "sortviz",
		Short: "sorting algorithm animations",
		RunE:  runInteractive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	rootCmd.Flags().IntVar(&speed, "speed", 5, "animation speed (1-10)")

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "run a sort and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSort,
	}
	addDatasetFlags(runCmd)
	runCmd.Flags().BoolVar(&instant, "instant", false, "skip frame pacing")
	runCmd.Flags().BoolVar(&live, "live", false, "redraw bars in the terminal")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print one line per frame")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")
	runCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate for --live")

	liveCmd := &cobra.Command{
		Use:   "live [algorithm]",
		Short: "animate a sort in the interactive viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addDatasetFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	liveCmd.Flags().StringVar(&gifPath, "gif", "sortviz.gif", "gif recording path")

	traceCmd := &cobra.Command{
		Use:   "trace [algorithm]",
		Short: "print every frame of a sort",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace = true
			return runSort(cmd, args)
		},
	}
	addDatasetFlags(traceCmd)
	traceCmd.Flags().BoolVar(&instant, "instant", false, "skip frame pacing")
	traceCmd.Flags().BoolVar(&noSave, "no-save", true, "do not record the run")

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

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final bars, or the compare curve, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().BoolVar(&curve, "curve", false, "draw cumulative compares instead of bars")

	benchCmd := &cobra.Command{
		Use:   "bench [algorithm...]",
		Short: "count operations over random datasets",
		RunE:  benchAlgorithms,
	}
	benchCmd.Flags().IntSliceVar(&sizes, "sizes", []int{8, 16, 32, 64}, "dataset sizes")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 10, "datasets per size")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	compareCmd := &cobra.Command{
		Use:   "compare [algorithm...]",
		Short: "run algorithms on the same dataset",
		RunE:  compareAlgorithms,
	}
	addDatasetFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [algorithm]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	algorithmsCmd := &cobra.Command{
		Use:   "algorithms",
		Short: "list algorithms",
		RunE:  listAlgorithms,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve runs to browsers over websockets",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&speed, "speed", 5, "initial speed for new sessions")

	rootCmd.AddCommand(runCmd, liveCmd, traceCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		benchCmd, compareCmd, presetsCmd, algorithmsCmd, scriptCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&speed, "speed", 5, "animation speed (1-10)")
	cmd.Flags().StringVar(&values, "values", "", "comma separated values")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named dataset")
	cmd.Flags().IntVar(&random, "random", 0, "random values (count, 0 for the configured range)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
}

// loadConfig layers defaults, the config file, SORTVIZ_* variables and then
// any flag the user set.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("data") {
		cfg.DataDir = dataDir
	}
	if f := cmd.Flags().Lookup("speed"); f != nil && f.Changed {
		cfg.Speed = speed
	}
	if f := cmd.Flags().Lookup("theme"); f != nil && f.Changed {
		cfg.Theme = theme
	}
	if f := cmd.Flags().Lookup("fps"); f != nil && f.Changed {
		cfg.FPS = frameRate
	}
	if len(args) > 0 {
		cfg.Algorithm = args[0]
		if !flagChanged(cmd, "preset") && cfg.Preset != "" && config.GetPreset(cfg.Algorithm, cfg.Preset) == nil {
			cfg.Preset = ""
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// resolveDataset picks the run's values: --values, --preset, --random, then
// the config file's values or preset, then the algorithm's default.
func resolveDataset(cmd *cobra.Command, cfg *config.Config, algorithm string) (dataset.Dataset, error) {
	switch {
	case flagChanged(cmd, "values"):
		return input.Parse(values)
	case flagChanged(cmd, "preset"):
		return presetValues(algorithm, preset)
	case flagChanged(cmd, "random"):
		rng := rand.New(rand.NewSource(seed))
		if random > 0 {
			return input.RandomRange(rng, random, random, cfg.RandomLimit()), nil
		}
		return input.RandomRange(rng, cfg.Random.MinCount, cfg.Random.MaxCount, cfg.RandomLimit()), nil
	case cfg.Values != nil:
		return dataset.Dataset(cfg.Values).Clone(), nil
	case cfg.Preset != "":
		return presetValues(algorithm, cfg.Preset)
	}
	return input.Default(algorithm), nil
}

func presetValues(algorithm, name string) (dataset.Dataset, error) {
	p := config.GetPreset(algorithm, name)
	if p == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(algorithm))
	}
	return dataset.Dataset(p.Values).Clone(), nil
}

// tuiLog routes log lines away from the terminal the viewer draws on.
func tuiLog(cfg *config.Config) (func(), error) {
	if cfg.LogFile == "" {
		logger.Output = io.Discard
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	logger.Output = f
	return func() { f.Close() }, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	closeLog, err := tuiLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := []session.Option{session.WithSpeed(cfg.Speed)}
	if cfg.Values != nil {
		opts = append(opts, session.WithDataset(cfg.Values))
	}
	return viz.RunInteractive(viz.Options{Theme: cfg.Theme}, opts...)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func algorithmTitle(name string) string {
	alg, err := algorithms.Lookup(name)
	if err != nil {
		return name
	}
	return alg.Title
}
