package algorithms

import (
	"iter"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/ops"
)

// Insertion holds each key and shifts larger predecessors one slot right
// until a smaller-or-equal value or the left edge is reached. Shifted slots
// drop their sorted mark until the prefix is re-marked.
func Insertion(input dataset.Dataset) iter.Seq[ops.Operation] {
	return sequence(input, func(e *emitter) {
		if !e.emit(ops.MarkSorted(0)) {
			return
		}

		for i := 1; i < len(e.values); i++ {
			key := e.values[i]
			if !e.emit(ops.MarkRegion([]int{i}, ops.TagKey)) {
				return
			}

			j := i - 1
			for j >= 0 {
				if !e.emit(ops.Compare(j, j+1)) {
					return
				}
				if e.values[j] <= key {
					break
				}
				if !e.emit(ops.Overwrite(j+1, e.values[j])) {
					return
				}
				if !e.emit(ops.Unmark([]int{j + 1}, ops.TagSorted)) {
					return
				}
				j--
			}

			if !e.emit(ops.Overwrite(j+1, key)) {
				return
			}
			if !e.emit(ops.Unmark([]int{i}, ops.TagKey)) {
				return
			}
			if !e.emit(ops.MarkSorted(ops.Range(0, i)...).WithWeight(ops.Full)) {
				return
			}
		}
	})
}
