package bench

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/convox/logger"

	"github.com/san-kum/sortviz/internal/driver"
)

func TestMain(m *testing.M) {
	logger.Output = io.Discard
	os.Exit(m.Run())
}

func TestEnsembleRun(t *testing.T) {
	e := NewEnsemble(Config{Algorithms: []string{"bubble", "merge"}, Sizes: []int{5, 12}, Runs: 3, Seed: 7, Workers: 4})

	samples, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(samples) != 12 {
		t.Fatalf("expected 12 samples, got %d", len(samples))
	}
	if samples[0].Algorithm != "bubble" || samples[0].Size != 5 {
		t.Errorf("samples out of task order: %+v", samples[0])
	}
	// run 0 at size 5 sees the same dataset for both algorithms
	if samples[0].Seed != samples[6].Seed {
		t.Errorf("seeds differ across algorithms: %d vs %d", samples[0].Seed, samples[6].Seed)
	}

	again, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for i := range samples {
		if samples[i].Metrics["compares"] != again[i].Metrics["compares"] {
			t.Errorf("sample %d not deterministic", i)
		}
	}
}

func TestEnsembleUnknownAlgorithm(t *testing.T) {
	_, err := NewEnsemble(Config{Algorithms: []string{"bogo"}, Sizes: []int{5}}).Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestEnsembleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEnsemble(Config{Algorithms: []string{"quick"}, Sizes: []int{8}, Runs: 2}).Run(ctx)
	if !errors.Is(err, driver.ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	samples := []Sample{
		{Algorithm: "bubble", Size: 5, Metrics: map[string]float64{"compares": 4}, Frames: 10},
		{Algorithm: "bubble", Size: 5, Metrics: map[string]float64{"compares": 10}, Frames: 20},
		{Algorithm: "quick", Size: 5, Metrics: map[string]float64{"compares": 7}, Frames: 12},
	}

	got := Summarize(samples)
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	b := got[0]
	if b.Runs != 2 || b.Compares.Mean != 7 || b.Compares.Min != 4 || b.Compares.Max != 10 {
		t.Errorf("unexpected bubble summary %+v", b)
	}
	if b.Frames.Mean != 15 {
		t.Errorf("frames mean = %v", b.Frames.Mean)
	}

	var buf bytes.Buffer
	if err := WriteTable(&buf, got); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "7 (4-10)") {
		t.Errorf("table missing range:\n%s", buf.String())
	}
}

func TestParallelFor(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 50} {
		var sum atomic.Int64
		ParallelFor(20, workers, func(i int) { sum.Add(int64(i)) })
		if sum.Load() != 190 {
			t.Errorf("workers=%d: sum = %d", workers, sum.Load())
		}
	}
}
