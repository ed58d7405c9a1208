package metrics

import (
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/ops"
)

// DelayUnits sums frame weights in base intervals: 1 per full frame, 0.5 per
// half, 0.25 per quarter. Multiplied by driver.BaseInterval it gives the
// paced wall time of a run.
type DelayUnits struct {
	name  string
	units float64
}

func NewDelayUnits() *DelayUnits {
	return &DelayUnits{name: "delay_units"}
}

func (d *DelayUnits) Name() string { return d.name }

func (d *DelayUnits) Observe(f driver.Frame) {
	d.units += 1 / float64(f.Op.Weight.Divisor())
}

func (d *DelayUnits) Value() float64 { return d.units }

func (d *DelayUnits) Reset() {
	d.units = 0
}

// SortedCoverage reports how many distinct indices are currently marked
// sorted. Unmarking a sorted index removes it again.
type SortedCoverage struct {
	name   string
	marked map[int]bool
}

func NewSortedCoverage() *SortedCoverage {
	return &SortedCoverage{
		name:   "sorted_indices",
		marked: make(map[int]bool),
	}
}

func (s *SortedCoverage) Name() string { return s.name }

func (s *SortedCoverage) Observe(f driver.Frame) {
	switch {
	case f.Op.Kind == ops.KindMarkSorted:
		for _, i := range f.Indices {
			s.marked[i] = true
		}
	case f.Op.Kind == ops.KindUnmark && f.Op.Tag == ops.TagSorted:
		for _, i := range f.Indices {
			delete(s.marked, i)
		}
	}
}

func (s *SortedCoverage) Value() float64 { return float64(len(s.marked)) }

func (s *SortedCoverage) Reset() {
	clear(s.marked)
}

// Default returns a fresh set of the standard run metrics.
func Default() []driver.Metric {
	return []driver.Metric{
		NewCompares(),
		NewSwaps(),
		NewOverwrites(),
		NewWrites(),
		NewDelayUnits(),
		NewSortedCoverage(),
	}
}
