package algorithms

import (
	"iter"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/ops"
)

// Merge is top-down merge sort. Values are copied back with Overwrite rather
// than exchanged, and every merged range is marked sorted as soon as it is
// complete.
func Merge(input dataset.Dataset) iter.Seq[ops.Operation] {
	return sequence(input, func(e *emitter) {
		mergeSort(e, 0, len(e.values)-1)
	})
}

func mergeSort(e *emitter, l, r int) bool {
	if l >= r {
		return true
	}
	m := l + (r-l)/2

	if !e.emit(ops.MarkRegion(ops.Range(l, m), ops.TagLeft)) {
		return false
	}
	if !e.emit(ops.MarkRegion(ops.Range(m+1, r), ops.TagRight).WithWeight(ops.Half)) {
		return false
	}

	if !mergeSort(e, l, m) || !mergeSort(e, m+1, r) {
		return false
	}
	if !mergeHalves(e, l, m, r) {
		return false
	}

	if !e.emit(ops.Unmark(ops.Range(l, m), ops.TagLeft)) {
		return false
	}
	return e.emit(ops.Unmark(ops.Range(m+1, r), ops.TagRight))
}

func mergeHalves(e *emitter, l, m, r int) bool {
	left := e.values[l : m+1].Clone()
	right := e.values[m+1 : r+1].Clone()

	i, j, k := 0, 0, l
	for i < len(left) && j < len(right) {
		if !e.emit(ops.Compare(l+i, m+1+j)) {
			return false
		}
		// <= keeps equal values in their original relative order
		var v float64
		if left[i] <= right[j] {
			v = left[i]
			i++
		} else {
			v = right[j]
			j++
		}
		if !e.emit(ops.Overwrite(k, v)) {
			return false
		}
		k++
	}

	for ; i < len(left); i++ {
		if !e.emit(ops.Overwrite(k, left[i])) {
			return false
		}
		k++
	}
	for ; j < len(right); j++ {
		if !e.emit(ops.Overwrite(k, right[j])) {
			return false
		}
		k++
	}

	return e.emit(ops.MarkSorted(ops.Range(l, r)...))
}
