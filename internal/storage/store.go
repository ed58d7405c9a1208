package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/ops"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return errors.WithStack(os.MkdirAll(s.baseDir, 0755))
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Algorithm string             `json:"algorithm"`
	Timestamp time.Time          `json:"timestamp"`
	Speed     int                `json:"speed"`
	Input     []float64          `json:"input"`
	Output    []float64          `json:"output"`
	Metrics   map[string]float64 `json:"metrics"`
	Frames    int                `json:"frames"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Canceled  bool               `json:"canceled,omitempty"`
}

func newRunID(algorithm string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", algorithm, now.Unix(), uuid.NewString()[:8])
}

// Save writes a run directory holding metadata.json and frames.csv.
func (s *Store) Save(algorithm string, speed int, input dataset.Dataset, result *driver.Result, frames []driver.Frame) (string, error) {
	now := time.Now()
	runID := newRunID(algorithm, now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrap(err, "create run dir")
	}

	meta := RunMetadata{
		ID:        runID,
		Algorithm: algorithm,
		Timestamp: now,
		Speed:     speed,
		Input:     input.Clone(),
		Output:    result.Final.Clone(),
		Metrics:   result.Metrics,
		Frames:    result.Frames,
		Elapsed:   result.Elapsed,
		Canceled:  result.Canceled,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", errors.Wrap(err, "create metadata")
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", errors.Wrap(err, "encode metadata")
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", errors.Wrap(err, "create frames")
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, frames); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.WithStack(err)
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), metadataFile))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrRunNotFound, runID)
		}
		return nil, errors.WithStack(err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "decode metadata for %s", runID)
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]driver.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrRunNotFound, runID)
		}
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read frames for %s", runID)
	}

	if len(records) < 2 {
		return []driver.Frame{}, nil
	}

	frames := make([]driver.Frame, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		f, err := decodeFrame(records[i])
		if err != nil {
			return nil, errors.Wrapf(err, "frames.csv line %d", i+1)
		}
		frames = append(frames, f)
	}

	return frames, nil
}

var frameHeader = []string{"seq", "kind", "tag", "indices", "values", "weight", "synthetic"}

// WriteFramesCSV writes frames in the frames.csv layout.
func WriteFramesCSV(out io.Writer, frames []driver.Frame) error {
	w := csv.NewWriter(out)

	if err := w.Write(frameHeader); err != nil {
		return errors.WithStack(err)
	}
	for _, fr := range frames {
		if err := w.Write(encodeFrame(fr)); err != nil {
			return errors.WithStack(err)
		}
	}

	w.Flush()
	return errors.WithStack(w.Error())
}

func encodeFrame(f driver.Frame) []string {
	values := make([]string, len(f.Values))
	for i, v := range f.Values {
		values[i] = dataset.FormatValue(v)
	}
	return []string{
		strconv.Itoa(f.Seq),
		f.Op.Kind.String(),
		string(f.Op.Tag),
		ops.FormatIndices(f.Indices),
		strings.Join(values, " "),
		f.Op.Weight.String(),
		strconv.FormatBool(f.Synthetic),
	}
}

// decodeFrame rebuilds the operation from its recorded indices and
// post-effect values.
func decodeFrame(record []string) (driver.Frame, error) {
	if len(record) < len(frameHeader) {
		return driver.Frame{}, errors.Errorf("expected %d fields, got %d", len(frameHeader), len(record))
	}

	seq, err := strconv.Atoi(record[0])
	if err != nil {
		return driver.Frame{}, errors.Wrap(err, "seq")
	}
	kind, err := ops.ParseKind(record[1])
	if err != nil {
		return driver.Frame{}, err
	}
	indices, err := ops.ParseIndices(record[3])
	if err != nil {
		return driver.Frame{}, errors.Wrap(err, "indices")
	}
	values, err := parseValues(record[4])
	if err != nil {
		return driver.Frame{}, errors.Wrap(err, "values")
	}
	synthetic, _ := strconv.ParseBool(record[6])

	op := ops.Operation{Kind: kind, Tag: ops.Tag(record[2]), Weight: ops.ParseWeight(record[5])}
	switch kind {
	case ops.KindCompare, ops.KindSwap:
		if len(indices) == 0 {
			return driver.Frame{}, errors.Errorf("%s without indices", kind)
		}
		op.I, op.J = indices[0], indices[len(indices)-1]
	case ops.KindOverwrite:
		if len(indices) != 1 || len(values) != 1 {
			return driver.Frame{}, errors.New("overwrite needs one index and one value")
		}
		op.I, op.Value = indices[0], values[0]
	default:
		op.Indices = indices
	}

	return driver.Frame{
		Seq:       seq,
		Op:        op,
		Indices:   indices,
		Values:    values,
		Synthetic: synthetic,
	}, nil
}

func parseValues(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
