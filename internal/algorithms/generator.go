package algorithms

import (
	"fmt"
	"iter"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/ops"
)

// Generator produces the narrated operation sequence that sorts the input.
type Generator func(input dataset.Dataset) iter.Seq[ops.Operation]

// emitter forwards operations to the consumer while keeping a shadow copy of
// the data so generators can branch on post-effect values.
type emitter struct {
	values  dataset.Dataset
	yield   func(ops.Operation) bool
	stopped bool
}

func (e *emitter) emit(op ops.Operation) bool {
	if e.stopped {
		return false
	}
	// generators only emit indices of their own input
	if err := op.Apply(e.values); err != nil {
		panic(fmt.Sprintf("algorithms: generator emitted %s: %v", op, err))
	}
	if !e.yield(op) {
		e.stopped = true
		return false
	}
	return true
}

// sequence snapshots the input and runs body once per iteration. Empty input
// emits nothing and a single element emits only MarkSorted(0), so bodies can
// assume at least two elements.
func sequence(input dataset.Dataset, body func(e *emitter)) iter.Seq[ops.Operation] {
	snapshot := input.Clone()
	return func(yield func(ops.Operation) bool) {
		switch len(snapshot) {
		case 0:
			return
		case 1:
			yield(ops.MarkSorted(0))
			return
		}
		body(&emitter{values: snapshot.Clone(), yield: yield})
	}
}

// Collect drains a sequence into a slice.
func Collect(seq iter.Seq[ops.Operation]) []ops.Operation {
	out := make([]ops.Operation, 0)
	for op := range seq {
		out = append(out, op)
	}
	return out
}

// Replay applies every operation's data effect to a copy of input in order.
func Replay(input dataset.Dataset, seq iter.Seq[ops.Operation]) (dataset.Dataset, error) {
	work := input.Clone()
	for op := range seq {
		if err := op.Apply(work); err != nil {
			return work, err
		}
	}
	return work, nil
}
