package viz

import (
	"math"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/ops"
)

// Class is the visual state of one bar, in increasing display priority.
type Class int

const (
	ClassDefault Class = iota
	ClassSorted
	ClassLeft
	ClassRight
	ClassPartition
	ClassBucket
	ClassDigit
	ClassMerge
	ClassMin
	ClassKey
	ClassPivot
	ClassCompare
	ClassSwap
	ClassWrite
)

var tagClasses = []struct {
	tag   ops.Tag
	class Class
}{
	{ops.TagPivot, ClassPivot},
	{ops.TagKey, ClassKey},
	{ops.TagMin, ClassMin},
	{ops.TagMerge, ClassMerge},
	{ops.TagDigit, ClassDigit},
	{ops.TagPartition, ClassPartition},
	{ops.TagLeft, ClassLeft},
	{ops.TagRight, ClassRight},
}

// Bars mirrors what a renderer shows: values, region tags, sorted flags and
// the indices highlighted by the latest compare, swap or overwrite.
type Bars struct {
	Values []float64
	Tags   []map[ops.Tag]bool
	Sorted []bool
	Active []int
	Kind   ops.Kind

	max float64
}

func NewBars(values dataset.Dataset) *Bars {
	b := &Bars{}
	b.Reset(values)
	return b
}

// Reset shows values with no marks. The height scale is fixed to their max.
func (b *Bars) Reset(values dataset.Dataset) {
	b.Values = values.Clone()
	b.Tags = make([]map[ops.Tag]bool, len(values))
	for i := range b.Tags {
		b.Tags[i] = make(map[ops.Tag]bool)
	}
	b.Sorted = make([]bool, len(values))
	b.Active = nil
	b.max = values.Max()
}

func (b *Bars) Len() int { return len(b.Values) }

func (b *Bars) OnFrame(f driver.Frame) { b.Apply(f) }

// Apply mirrors one frame. Compare, swap and overwrite highlights last until
// the next frame.
func (b *Bars) Apply(f driver.Frame) {
	b.Active = nil
	for k, i := range f.Indices {
		if i < 0 || i >= len(b.Values) {
			return
		}
		if k < len(f.Values) {
			b.Values[i] = f.Values[k]
		}
	}

	switch f.Op.Kind {
	case ops.KindCompare, ops.KindSwap, ops.KindOverwrite:
		b.Active = f.Indices
		b.Kind = f.Op.Kind
	case ops.KindMarkRegion:
		for _, i := range f.Indices {
			b.Tags[i][f.Op.Tag] = true
		}
	case ops.KindUnmark:
		for _, i := range f.Indices {
			delete(b.Tags[i], f.Op.Tag)
			if f.Op.Tag == ops.TagSorted {
				b.Sorted[i] = false
			}
		}
	case ops.KindMarkSorted:
		for _, i := range f.Indices {
			b.Sorted[i] = true
		}
	}
}

// MarkAllSorted flags every bar sorted and clears transient marks.
func (b *Bars) MarkAllSorted() {
	b.Active = nil
	for i := range b.Sorted {
		b.Sorted[i] = true
		clear(b.Tags[i])
	}
}

// Class returns the bar's display class. For ClassBucket the digit is also
// returned.
func (b *Bars) Class(i int) (Class, int) {
	for _, a := range b.Active {
		if a == i {
			switch b.Kind {
			case ops.KindSwap:
				return ClassSwap, 0
			case ops.KindOverwrite:
				return ClassWrite, 0
			default:
				return ClassCompare, 0
			}
		}
	}
	tags := b.Tags[i]
	for _, tc := range tagClasses {
		if tags[tc.tag] {
			return tc.class, 0
		}
	}
	for tag := range tags {
		if d, ok := tag.Bucket(); ok {
			return ClassBucket, d
		}
	}
	if b.Sorted[i] {
		return ClassSorted, 0
	}
	return ClassDefault, 0
}

// Height is the bar height in rows: the value as a share of the run's max.
// Non-positive values, and every value when the max is not positive, get a
// one-row stub.
func (b *Bars) Height(i, rows int) int {
	if rows < 1 {
		return 0
	}
	v := b.Values[i]
	if v <= 0 || b.max <= 0 {
		return 1
	}
	h := int(math.Round(v / b.max * float64(rows)))
	if h < 1 {
		h = 1
	}
	if h > rows {
		h = rows
	}
	return h
}

// SortedCount is the number of bars currently marked sorted.
func (b *Bars) SortedCount() int {
	n := 0
	for _, s := range b.Sorted {
		if s {
			n++
		}
	}
	return n
}
