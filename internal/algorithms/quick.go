package algorithms

import (
	"iter"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/ops"
)

// Quick is quicksort with a Lomuto partition around the rightmost element.
// A placed pivot is marked sorted and excluded from both recursive calls.
func Quick(input dataset.Dataset) iter.Seq[ops.Operation] {
	return sequence(input, func(e *emitter) {
		quickSort(e, 0, len(e.values)-1)
	})
}

func quickSort(e *emitter, low, high int) bool {
	if low == high {
		return e.emit(ops.MarkSorted(low))
	}
	if low > high {
		return true
	}

	p, ok := partition(e, low, high)
	if !ok {
		return false
	}
	return quickSort(e, low, p-1) && quickSort(e, p+1, high)
}

func partition(e *emitter, low, high int) (int, bool) {
	pivot := e.values[high]
	if !e.emit(ops.MarkRegion([]int{high}, ops.TagPivot)) {
		return 0, false
	}
	span := ops.Range(low, high)
	if !e.emit(ops.MarkRegion(span, ops.TagPartition).WithWeight(ops.Quarter)) {
		return 0, false
	}

	i := low - 1
	for j := low; j < high; j++ {
		if !e.emit(ops.Compare(j, high)) {
			return 0, false
		}
		if e.values[j] < pivot {
			i++
			if i != j {
				if !e.emit(ops.Swap(i, j)) {
					return 0, false
				}
			}
		}
	}

	p := i + 1
	if p != high {
		if !e.emit(ops.Swap(p, high).WithWeight(ops.Full)) {
			return 0, false
		}
	}
	if !e.emit(ops.Unmark([]int{high}, ops.TagPivot)) {
		return 0, false
	}
	if !e.emit(ops.Unmark(span, ops.TagPartition)) {
		return 0, false
	}
	if !e.emit(ops.MarkSorted(p).WithWeight(ops.Full)) {
		return 0, false
	}
	return p, true
}
