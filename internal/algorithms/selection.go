package algorithms

import (
	"iter"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/ops"
)

// Selection scans the unsorted suffix for its minimum and swaps it into
// place. It always emits exactly n(n-1)/2 compares.
func Selection(input dataset.Dataset) iter.Seq[ops.Operation] {
	return sequence(input, func(e *emitter) {
		n := len(e.values)
		for i := 0; i < n-1; i++ {
			minIdx := i
			if !e.emit(ops.MarkRegion([]int{minIdx}, ops.TagMin)) {
				return
			}

			for j := i + 1; j < n; j++ {
				if !e.emit(ops.Compare(j, minIdx)) {
					return
				}
				if e.values[j] < e.values[minIdx] {
					if !e.emit(ops.Unmark([]int{minIdx}, ops.TagMin)) {
						return
					}
					minIdx = j
					if !e.emit(ops.MarkRegion([]int{minIdx}, ops.TagMin).WithWeight(ops.Quarter)) {
						return
					}
				}
			}

			if minIdx != i {
				if !e.emit(ops.Swap(i, minIdx).WithWeight(ops.Full)) {
					return
				}
			}
			if !e.emit(ops.Unmark([]int{minIdx}, ops.TagMin)) {
				return
			}
			if !e.emit(ops.MarkSorted(i).WithWeight(ops.Full)) {
				return
			}
		}

		e.emit(ops.MarkSorted(n - 1))
	})
}
