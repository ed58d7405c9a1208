package algorithms

import (
	"iter"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/ops"
)

// Bubble repeats adjacent compare/swap passes until a pass makes no swap.
// Each pass settles the largest remaining value at the unsorted boundary.
func Bubble(input dataset.Dataset) iter.Seq[ops.Operation] {
	return sequence(input, func(e *emitter) {
		end := len(e.values)
		for {
			swapped := false
			for i := 0; i < end-1; i++ {
				if !e.emit(ops.Compare(i, i+1)) {
					return
				}
				if e.values[i] > e.values[i+1] {
					if !e.emit(ops.Swap(i, i+1)) {
						return
					}
					swapped = true
				}
			}

			if !swapped {
				e.emit(ops.MarkSorted(ops.Range(0, end-1)...).WithWeight(ops.Full))
				return
			}

			end--
			if !e.emit(ops.MarkSorted(end)) {
				return
			}
		}
	})
}
