package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/ops"
	"github.com/san-kum/sortviz/internal/storage"
)

type ExportData struct {
	ID        string             `json:"id"`
	Algorithm string             `json:"algorithm"`
	Timestamp time.Time          `json:"timestamp"`
	Speed     int                `json:"speed"`
	Input     []float64          `json:"input"`
	Output    []float64          `json:"output"`
	Metrics   map[string]float64 `json:"metrics"`
	Steps     int                `json:"steps"`
	Frames    []FrameData        `json:"frames"`
}

type FrameData struct {
	Seq       int       `json:"seq"`
	Kind      string    `json:"kind"`
	Tag       string    `json:"tag,omitempty"`
	Weight    string    `json:"weight"`
	Indices   []int     `json:"indices"`
	Values    []float64 `json:"values"`
	Synthetic bool      `json:"synthetic,omitempty"`
}

func NewFrameData(f driver.Frame) FrameData {
	return FrameData{
		Seq:       f.Seq,
		Kind:      f.Op.Kind.String(),
		Tag:       string(f.Op.Tag),
		Weight:    f.Op.Weight.String(),
		Indices:   f.Indices,
		Values:    f.Values,
		Synthetic: f.Synthetic,
	}
}

// FramesToJSON writes a run and its frames as indented JSON.
func FramesToJSON(w io.Writer, meta *storage.RunMetadata, frames []driver.Frame) error {
	data := ExportData{
		ID:        meta.ID,
		Algorithm: meta.Algorithm,
		Timestamp: meta.Timestamp,
		Speed:     meta.Speed,
		Input:     meta.Input,
		Output:    meta.Output,
		Metrics:   meta.Metrics,
		Steps:     len(frames),
		Frames:    make([]FrameData, len(frames)),
	}
	for i, f := range frames {
		data.Frames[i] = NewFrameData(f)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// CumulativeCompares is the running compare count after each frame.
func CumulativeCompares(frames []driver.Frame) []float64 {
	out := make([]float64, len(frames))
	n := 0.0
	for i, f := range frames {
		if f.Op.Kind == ops.KindCompare {
			n++
		}
		out[i] = n
	}
	return out
}

// FinalSorted returns the per-index sorted flags left by frames.
func FinalSorted(n int, frames []driver.Frame) []bool {
	sorted := make([]bool, n)
	for _, f := range frames {
		switch {
		case f.Op.Kind == ops.KindMarkSorted:
			for _, i := range f.Indices {
				if i < n {
					sorted[i] = true
				}
			}
		case f.Op.Kind == ops.KindUnmark && f.Op.Tag == ops.TagSorted:
			for _, i := range f.Indices {
				if i < n {
					sorted[i] = false
				}
			}
		}
	}
	return sorted
}
