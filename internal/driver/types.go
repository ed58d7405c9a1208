package driver

import (
	"context"
	"strconv"
	"time"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/ops"
)

const (
	MinSpeed     = 1
	MaxSpeed     = 10
	DefaultSpeed = 5
)

// Frame is what renderers see for one operation: the operation itself and
// the post-effect values at the indices it touched.
type Frame struct {
	Seq     int
	Op      ops.Operation
	Indices []int
	Values  []float64
	// Synthetic is set on the closing MarkSorted the driver adds for indices
	// the generator left uncovered.
	Synthetic bool
}

type Observer interface {
	OnFrame(f Frame)
}

type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Sleeper suspends between frames. It returns early with ctx's error.
type Sleeper func(ctx context.Context, d time.Duration) error

type Result struct {
	Final    dataset.Dataset
	Frames   int
	Metrics  map[string]float64
	Elapsed  time.Duration
	Canceled bool
}

func ClampSpeed(speed int) int {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

// BaseInterval is 1100ms - speed*100ms: 1000ms at speed 1, 100ms at speed 10.
func BaseInterval(speed int) time.Duration {
	return time.Duration(1100-ClampSpeed(speed)*100) * time.Millisecond
}

func Delay(w ops.Weight, speed int) time.Duration {
	return BaseInterval(speed) / time.Duration(w.Divisor())
}

func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func itoa(i int) string { return strconv.Itoa(i) }
