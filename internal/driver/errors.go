package driver

import (
	"errors"

	"github.com/san-kum/sortviz/internal/ops"
)

// Domain errors for playback.
var (
	// ErrInvalidDataset indicates a dataset with NaN or Inf values.
	ErrInvalidDataset = errors.New("driver: invalid dataset (NaN or Inf detected)")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("driver: run canceled by context")
)

// OperationError wraps a failure to apply an operation with its position in
// the stream.
type OperationError struct {
	Seq     int
	Op      ops.Operation
	Wrapped error
}

func (e *OperationError) Error() string {
	return "driver: frame " + itoa(e.Seq) + " " + e.Op.String() + ": " + e.Wrapped.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Wrapped
}
