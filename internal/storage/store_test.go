package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/convox/logger"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/ops"
)

func TestMain(m *testing.M) {
	logger.Output = io.Discard
	os.Exit(m.Run())
}

func record(t *testing.T, algorithm string, input dataset.Dataset) (*driver.Result, []driver.Frame) {
	t.Helper()
	alg, err := algorithms.Lookup(algorithm)
	if err != nil {
		t.Fatal(err)
	}
	d := driver.New(driver.Instant())
	rec := NewRecorder()
	d.AddObserver(rec)
	for _, m := range metrics.Default() {
		d.AddMetric(m)
	}
	result, err := d.Run(context.Background(), alg.Generate(input), input, 5)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result, rec.Frames
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	input := dataset.Dataset{170, 45, 75, 90, 802, 24, 2, 66}
	result, frames := record(t, "radix", input)

	runID, err := st.Save("radix", 7, input, result, frames)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !regexp.MustCompile(`^radix_\d+_[0-9a-f]{8}$`).MatchString(runID) {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Algorithm != "radix" || meta.Speed != 7 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if !dataset.Dataset(meta.Output).Equal(dataset.Dataset{2, 24, 45, 66, 75, 90, 170, 802}) {
		t.Errorf("unexpected output %v", meta.Output)
	}
	if meta.Metrics["overwrites"] != 24 {
		t.Errorf("expected 24 overwrites, got %v", meta.Metrics["overwrites"])
	}
	if meta.Frames != len(frames) {
		t.Errorf("expected %d frames in metadata, got %d", len(frames), meta.Frames)
	}

	loaded, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(loaded) != len(frames) {
		t.Fatalf("expected %d frames, got %d", len(frames), len(loaded))
	}
	for i := range frames {
		if loaded[i].Op.String() != frames[i].Op.String() || loaded[i].Op.Weight != frames[i].Op.Weight {
			t.Fatalf("frame %d: expected %s, got %s", i, frames[i].Op, loaded[i].Op)
		}
	}
}

func TestLoadedFramesReplay(t *testing.T) {
	st := New(t.TempDir())
	input := dataset.Dataset{5, -3.5, 8, 1, 0.25}
	result, frames := record(t, "merge", input)

	runID, err := st.Save("merge", 5, input, result, frames)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}

	work := input.Clone()
	for _, f := range loaded {
		if err := f.Op.Apply(work); err != nil {
			t.Fatalf("replay failed: %v", err)
		}
	}
	if !work.Equal(dataset.Dataset{-3.5, 0.25, 1, 5, 8}) {
		t.Errorf("replay produced %v", work)
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	st := New(t.TempDir())
	input := dataset.Dataset{2, 1}
	result, frames := record(t, "bubble", input)

	first, err := st.Save("bubble", 5, input, result, frames)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := st.Save("quick", 5, input, result, frames)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(st.Dir(), "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("expected newest first, got %s then %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreLoadNotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadFrames("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestDecodeFrameRejectsGarbage(t *testing.T) {
	tests := []struct {
		name   string
		record []string
	}{
		{"short", []string{"0", "swap"}},
		{"bad seq", []string{"x", "swap", "", "0 1", "1 2", "half", "false"}},
		{"bad kind", []string{"0", "shuffle", "", "0 1", "1 2", "half", "false"}},
		{"bad indices", []string{"0", "swap", "", "a b", "1 2", "half", "false"}},
		{"overwrite without value", []string{"0", "overwrite", "", "3", "", "half", "false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeFrame(tt.record); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}

func TestDecodeFrameMarks(t *testing.T) {
	f, err := decodeFrame([]string{"4", "mark", "bucket-3", "0 2", "3 13", "half", "true"})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if f.Op.Kind != ops.KindMarkRegion || f.Op.Tag != ops.BucketTag(3) || !f.Synthetic {
		t.Errorf("unexpected frame %+v", f)
	}
	if f.Op.Weight != ops.Half {
		t.Errorf("expected half weight, got %s", f.Op.Weight)
	}
}
