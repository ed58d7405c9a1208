package tui

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/convox/logger"
	"github.com/fatih/color"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/ops"
)

func TestMain(m *testing.M) {
	logger.Output = io.Discard
	color.NoColor = true
	os.Exit(m.Run())
}

func TestTraceRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewTraceRenderer(&buf)

	r.OnFrame(driver.Frame{Seq: 3, Op: ops.Swap(0, 2), Indices: []int{0, 2}, Values: []float64{1, 5}})
	r.OnFrame(driver.Frame{Seq: 4, Op: ops.MarkSorted(1), Indices: []int{1}, Values: []float64{2.5}, Synthetic: true})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "swap") || !strings.Contains(lines[0], "[1 5]") {
		t.Errorf("swap line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "sorted*") || !strings.Contains(lines[1], "[2.5]") {
		t.Errorf("closing line = %q", lines[1])
	}

	buf.Reset()
	r.Summary(&driver.Result{Frames: 5, Final: dataset.Dataset{1, 2}})
	if !strings.Contains(buf.String(), "sorted in 5 frames: [1, 2]") {
		t.Errorf("summary = %q", buf.String())
	}
}

func TestLiveRendererDrawsFinalState(t *testing.T) {
	input := dataset.Dataset{3, 1, 2}
	var buf bytes.Buffer
	r := NewLiveRenderer("Bubble Sort", input, 1)
	r.SetOutput(&buf)

	d := driver.New(driver.Instant())
	d.AddObserver(r)
	if _, err := d.Run(context.Background(), algorithms.Bubble(input), input, 5); err != nil {
		t.Fatal(err)
	}

	// throttled to one frame per second: the first frame and the closing
	// frame at most
	if n := strings.Count(buf.String(), clearScreen); n < 1 || n > 2 {
		t.Errorf("drew %d frames", n)
	}
	if r.bars.SortedCount() != 3 {
		t.Errorf("sorted = %d", r.bars.SortedCount())
	}
	if !strings.Contains(buf.String(), "Bubble Sort") {
		t.Error("missing title")
	}
}

func TestLiveRendererGlyphs(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer("x", dataset.Dataset{4, 2}, 0)
	r.SetOutput(&buf)

	r.OnFrame(driver.Frame{Op: ops.Compare(0, 1), Indices: []int{0, 1}, Values: []float64{4, 2}})
	if r.canvas[height-1][0] != '?' {
		t.Errorf("compared bar glyph = %q", r.canvas[height-1][0])
	}
	if r.canvas[0][0] != '?' || r.canvas[0][width/2] != ' ' {
		t.Error("tallest bar must reach the top row and the half bar must not")
	}

	r.OnFrame(driver.Frame{Op: ops.MarkRegion([]int{1}, ops.BucketTag(7)), Indices: []int{1}, Values: []float64{2}})
	if r.canvas[height-1][width/2] != '7' {
		t.Errorf("bucket glyph = %q", r.canvas[height-1][width/2])
	}
}
