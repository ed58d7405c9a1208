package driver

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/convox/logger"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/ops"
)

// Driver consumes an operation stream, applies each operation to a working
// copy of the data, notifies observers and paces the frames.
type Driver struct {
	metrics   []Metric
	observers []Observer
	sleep     Sleeper
	instant   bool
	log       *logger.Logger
}

type Option func(*Driver)

func WithSleeper(s Sleeper) Option { return func(d *Driver) { d.sleep = s } }

// Instant disables pacing. Frames are still delivered in order.
func Instant() Option { return func(d *Driver) { d.instant = true } }

func WithLogger(l *logger.Logger) Option { return func(d *Driver) { d.log = l } }

func New(opts ...Option) *Driver {
	d := &Driver{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		sleep:     SleepContext,
		log:       logger.NewWriter("ns=sortviz cn=driver", os.Stderr),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Play prepares a pull-based playback of seq over a copy of input. The caller
// owns the pacing: each Next returns the delay to wait before the following
// frame.
func (d *Driver) Play(seq iter.Seq[ops.Operation], input dataset.Dataset, speed int) (*Playback, error) {
	if !input.IsValid() {
		return nil, ErrInvalidDataset
	}
	for _, m := range d.metrics {
		m.Reset()
	}
	next, stop := iter.Pull(seq)
	return &Playback{
		driver:  d,
		speed:   ClampSpeed(speed),
		work:    input.Clone(),
		sorted:  make([]bool, len(input)),
		next:    next,
		stop:    stop,
		started: time.Now(),
	}, nil
}

// Run plays seq to completion, sleeping between frames unless the driver is
// instant. Cancellation returns the partial result along with ErrCanceled.
func (d *Driver) Run(ctx context.Context, seq iter.Seq[ops.Operation], input dataset.Dataset, speed int) (*Result, error) {
	log := d.log.At("run").Start()

	p, err := d.Play(seq, input, speed)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	defer p.Close()

	err = d.Drain(ctx, p)
	result := p.Result()
	if err != nil {
		if errors.Is(err, ErrCanceled) {
			log.Logf("canceled=true frames=%d", result.Frames)
		} else {
			log.Error(err)
		}
		return result, err
	}
	log.Successf("frames=%d elapsed=%s", result.Frames, result.Elapsed)
	return result, nil
}

// Drain steps p until it is done, sleeping for each frame's delay unless the
// driver is instant.
func (d *Driver) Drain(ctx context.Context, p *Playback) error {
	for {
		select {
		case <-ctx.Done():
			p.canceled = true
			return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		default:
		}

		_, delay, ok := p.Next()
		if !ok {
			return p.Err()
		}
		if d.instant {
			continue
		}
		if err := d.sleep(ctx, delay); err != nil {
			p.canceled = true
			return fmt.Errorf("%w: %w", ErrCanceled, err)
		}
	}
}

// Playback is a single pass over an operation stream.
type Playback struct {
	driver *Driver
	speed  int
	work   dataset.Dataset
	sorted []bool

	next func() (ops.Operation, bool)
	stop func()

	started   time.Time
	ended     time.Time
	frames    int
	exhausted bool
	done      bool
	canceled  bool
	err       error
}

// Next applies the next operation and returns its frame together with the
// delay that should elapse before the following frame. Once the generator is
// exhausted, indices never left marked sorted are covered by one final
// MarkSorted frame. ok is false when playback is over.
func (p *Playback) Next() (f Frame, delay time.Duration, ok bool) {
	if p.done {
		return Frame{}, 0, false
	}

	var op ops.Operation
	synthetic := false
	if !p.exhausted {
		op, ok = p.next()
		if !ok {
			p.exhausted = true
			p.stop()
		}
	}
	if p.exhausted {
		missing := p.uncovered()
		if len(missing) == 0 {
			p.Close()
			return Frame{}, 0, false
		}
		op = ops.MarkSorted(missing...)
		synthetic = true
	}

	if err := op.Apply(p.work); err != nil {
		p.err = &OperationError{Seq: p.frames, Op: op, Wrapped: err}
		p.Close()
		return Frame{}, 0, false
	}
	p.track(op)

	f = Frame{
		Seq:       p.frames,
		Op:        op,
		Indices:   op.Affected(),
		Synthetic: synthetic,
	}
	f.Values = make([]float64, len(f.Indices))
	for k, i := range f.Indices {
		f.Values[k] = p.work[i]
	}
	p.frames++

	for _, m := range p.driver.metrics {
		m.Observe(f)
	}
	for _, o := range p.driver.observers {
		o.OnFrame(f)
	}
	return f, Delay(op.Weight, p.speed), true
}

func (p *Playback) track(op ops.Operation) {
	switch {
	case op.Kind == ops.KindMarkSorted:
		for _, i := range op.Indices {
			p.sorted[i] = true
		}
	case op.Kind == ops.KindUnmark && op.Tag == ops.TagSorted:
		for _, i := range op.Indices {
			p.sorted[i] = false
		}
	}
}

func (p *Playback) uncovered() []int {
	var missing []int
	for i, ok := range p.sorted {
		if !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// Close releases the generator. It is safe to call more than once.
func (p *Playback) Close() {
	if !p.done {
		p.done = true
		p.ended = time.Now()
	}
	if !p.exhausted {
		p.exhausted = true
		p.stop()
	}
}

// Cancel closes the playback and flags its result as canceled.
func (p *Playback) Cancel() {
	p.canceled = true
	p.Close()
}

// Result summarizes the playback so far.
func (p *Playback) Result() *Result {
	end := p.ended
	if end.IsZero() {
		end = time.Now()
	}
	result := &Result{
		Final:    p.Snapshot(),
		Frames:   p.frames,
		Metrics:  make(map[string]float64),
		Elapsed:  end.Sub(p.started),
		Canceled: p.canceled,
	}
	for _, m := range p.driver.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result
}

func (p *Playback) Snapshot() dataset.Dataset { return p.work.Clone() }
func (p *Playback) Sorted(i int) bool         { return i >= 0 && i < len(p.sorted) && p.sorted[i] }
func (p *Playback) Frames() int               { return p.frames }
func (p *Playback) Speed() int                { return p.speed }
func (p *Playback) Done() bool                { return p.done }
func (p *Playback) Err() error                { return p.err }
