package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/storage"
	"github.com/san-kum/sortviz/internal/tui"
	"github.com/san-kum/sortviz/internal/viz"
)

// runSort plays one run headless. Without --live or --trace there is
// nothing to watch, so frames are not paced.
func runSort(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	data, err := resolveDataset(cmd, cfg, cfg.Algorithm)
	if err != nil {
		return err
	}

	rec := storage.NewRecorder()
	observers := []driver.Observer{rec}

	var tracer *tui.TraceRenderer
	if trace {
		tracer = tui.NewTraceRenderer(os.Stdout)
		observers = append(observers, tracer)
	}
	if live {
		lr := tui.NewLiveRenderer(algorithmTitle(cfg.Algorithm), data, cfg.FPS)
		lr.Start()
		defer lr.Stop()
		observers = append(observers, lr)
	}

	opts := []session.Option{
		session.WithAlgorithm(cfg.Algorithm),
		session.WithDataset(data),
		session.WithSpeed(cfg.Speed),
	}
	if instant || (!live && !trace) {
		opts = append(opts, session.WithDriverOptions(driver.Instant()))
	}

	ctx, stop := signalContext()
	defer stop()

	if !trace {
		fmt.Printf("sorting %d values with %s...\n", data.Len(), algorithmTitle(cfg.Algorithm))
	}

	result, started, err := session.New(opts...).Start(ctx, cfg.Algorithm, observers...)
	if err != nil && !errors.Is(err, driver.ErrCanceled) {
		return err
	}
	if !started {
		fmt.Println("nothing to sort")
		return nil
	}
	if tracer != nil {
		tracer.Summary(result)
	}

	if !noSave {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Algorithm, cfg.Speed, data, result, rec.Frames)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if trace {
		return nil
	}
	if result.Canceled {
		fmt.Printf("canceled after %s frames\n", humanize.Comma(int64(result.Frames)))
	} else {
		fmt.Printf("completed in %v\n", result.Elapsed)
	}
	fmt.Printf("frames: %s\n", humanize.Comma(int64(result.Frames)))
	fmt.Printf("result: [%s]\n", result.Final)
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %s\n", name, humanize.Ftoa(metrics[name]))
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	data, err := resolveDataset(cmd, cfg, cfg.Algorithm)
	if err != nil {
		return err
	}

	closeLog, err := tuiLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	s := session.New(
		session.WithAlgorithm(cfg.Algorithm),
		session.WithDataset(data),
		session.WithSpeed(cfg.Speed),
	)
	return viz.Run(s, viz.Options{Theme: cfg.Theme, Seed: seed, GIFPath: gifPath, AutoStart: true})
}
