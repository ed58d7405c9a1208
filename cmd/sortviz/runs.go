package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/export"
	"github.com/san-kum/sortviz/internal/storage"
)

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tALGORITHM\tWHEN\tN\tSPEED\tFRAMES\tCOMPARES\tSTATUS")

	for _, run := range runs {
		status := "sorted"
		if run.Canceled {
			status = "canceled"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			run.ID,
			run.Algorithm,
			humanize.Time(run.Timestamp),
			len(run.Input),
			run.Speed,
			humanize.Comma(int64(run.Frames)),
			humanize.Comma(int64(run.Metrics["compares"])),
			status,
		)
	}

	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, []driver.Frame, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(meta.Input) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("algorithm: %s\n", algorithmTitle(meta.Algorithm))
	fmt.Printf("frames: %s\n\n", humanize.Comma(int64(len(frames))))

	plots := []struct {
		data    []float64
		caption string
	}{
		{meta.Input, "values before"},
		{meta.Output, "values after"},
		{export.CumulativeCompares(frames), "cumulative compares"},
	}
	for _, p := range plots {
		if len(p.data) == 0 {
			continue
		}
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// output returns the --out file, or stdout when none was given.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return export.FramesToJSON(w, meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.WriteFramesCSV(w, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	var svg string
	if curve {
		svg = export.CurveToSVG(export.CumulativeCompares(frames), 800, 300)
		if svg == "" {
			return fmt.Errorf("run %s has too few frames for a curve", meta.ID)
		}
	} else {
		svg = export.BarsToSVG(meta.Output, export.FinalSorted(len(meta.Output), frames), 800, 400)
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = fmt.Fprintln(w, svg)
	return err
}
