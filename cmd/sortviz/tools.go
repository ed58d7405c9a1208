package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/automation"
	"github.com/san-kum/sortviz/internal/bench"
	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/input"
	"github.com/san-kum/sortviz/internal/server"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/storage"
)

func benchAlgorithms(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	e := bench.NewEnsemble(bench.Config{Algorithms: args, Sizes: sizes, Runs: benchRuns, Seed: seed})
	samples, err := e.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s samples\n\n", humanize.Comma(int64(len(samples))))
	return bench.WriteTable(os.Stdout, bench.Summarize(samples))
}

// compareAlgorithms runs each algorithm once over the same dataset.
func compareAlgorithms(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = algorithms.Names()
	}
	for _, name := range names {
		if _, err := algorithms.Lookup(name); err != nil {
			return err
		}
	}
	data, err := resolveDataset(cmd, cfg, names[0])
	if err != nil {
		return err
	}

	fmt.Printf("comparing %d algorithms on [%s]\n\n", len(names), data)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tCOMPARES\tSWAPS\tOVERWRITES\tWRITES\tFRAMES\tPACED")
	for _, name := range names {
		if err := input.Validate(data, name); err != nil {
			fmt.Fprintf(w, "%s\tskipped: %v\n", name, err)
			continue
		}
		s := session.New(
			session.WithAlgorithm(name),
			session.WithDataset(data),
			session.WithDriverOptions(driver.Instant()),
		)
		res, _, err := s.Start(context.Background(), name)
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Fprintf(w, "%s\t0\t0\t0\t0\t0\t0s\n", name)
			continue
		}
		m := res.Metrics
		paced := driver.BaseInterval(cfg.Speed).Seconds() * m["delay_units"]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.1fs\n",
			name,
			humanize.Comma(int64(m["compares"])),
			humanize.Comma(int64(m["swaps"])),
			humanize.Comma(int64(m["overwrites"])),
			humanize.Comma(int64(m["writes"])),
			humanize.Comma(int64(res.Frames)),
			paced,
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := algorithms.Names()
	if len(args) > 0 {
		names = args
	}
	for _, name := range names {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			fmt.Printf("no presets for algorithm: %s\n", name)
			continue
		}
		fmt.Printf("presets for %s:\n", name)
		for _, p := range presets {
			fmt.Printf("  %-11s [%s]\n", p, dataset.Dataset(config.GetPreset(name, p).Values))
		}
	}
	return nil
}

func listAlgorithms(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tINPUT")
	for _, name := range algorithms.Names() {
		alg, _ := algorithms.Lookup(name)
		accepts := "any finite numbers"
		if alg.Validate != nil {
			accepts = "non-negative integers"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", alg.Name, alg.Title, accepts)
	}
	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	results, err := automation.NewRunner(st).RunScenario(ctx, scenario)
	for _, r := range results {
		saved := "-"
		if r.RunID != "" {
			saved = r.RunID
		}
		fmt.Printf("step %d: %s n=%d frames=%s compares=%s run=%s\n",
			r.Step, r.Algorithm, r.Input.Len(),
			humanize.Comma(int64(r.Result.Frames)),
			humanize.Comma(int64(r.Result.Metrics["compares"])),
			saved)
	}
	return err
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	s := server.New(server.WithConnOptions(server.ConnOptions{
		Session: []session.Option{session.WithSpeed(cfg.Speed)},
	}))
	fmt.Printf("listening on %s\n", addr)
	return s.ListenAndServe(ctx, addr)
}
