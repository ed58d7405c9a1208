// Package session owns one dataset, its speed and algorithm selection, and
// the Idle/Running/Completed run state machine shared by every front end.
package session

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/convox/logger"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/input"
	"github.com/san-kum/sortviz/internal/metrics"
)

type State int

const (
	Idle State = iota
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// ErrRunning is returned by setters that cannot apply while a run is active.
var ErrRunning = errors.New("session: run in progress")

type Session struct {
	mu        sync.Mutex
	state     State
	data      dataset.Dataset
	speed     int
	algorithm string
	listeners []func(State)

	driverOpts []driver.Option
	log        *logger.Logger
}

type Option func(*Session)

func WithDataset(d dataset.Dataset) Option { return func(s *Session) { s.data = d.Clone() } }
func WithSpeed(speed int) Option           { return func(s *Session) { s.speed = driver.ClampSpeed(speed) } }
func WithAlgorithm(name string) Option     { return func(s *Session) { s.algorithm = name } }
func WithLogger(l *logger.Logger) Option   { return func(s *Session) { s.log = l } }

// WithDriverOptions configures the driver built for every run.
func WithDriverOptions(opts ...driver.Option) Option {
	return func(s *Session) { s.driverOpts = append(s.driverOpts, opts...) }
}

// New returns an Idle session. Without WithDataset it holds the algorithm's
// default dataset.
func New(opts ...Option) *Session {
	s := &Session{
		state:     Idle,
		speed:     driver.DefaultSpeed,
		algorithm: "bubble",
		log:       logger.NewWriter("ns=sortviz cn=session", os.Stderr),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.data == nil {
		s.data = input.Default(s.algorithm)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Dataset() dataset.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

func (s *Session) Speed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

func (s *Session) Algorithm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.algorithm
}

// OnChange registers fn to be called after every state transition.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SetSpeed clamps speed to 1..10. The new value applies from the next start.
func (s *Session) SetSpeed(speed int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = driver.ClampSpeed(speed)
	return s.speed
}

func (s *Session) SetAlgorithm(name string) error {
	if _, err := algorithms.Lookup(name); err != nil {
		return err
	}
	s.mu.Lock()
	if s.state == Running {
		s.mu.Unlock()
		return ErrRunning
	}
	s.algorithm = name
	notify := s.transition(Idle)
	s.mu.Unlock()
	notify()
	return nil
}

// Reseed replaces the dataset and returns to Idle. It is rejected while a run
// is in progress.
func (s *Session) Reseed(d dataset.Dataset) bool {
	s.mu.Lock()
	if s.state == Running {
		s.mu.Unlock()
		return false
	}
	s.data = d.Clone()
	notify := s.transition(Idle)
	s.mu.Unlock()
	notify()
	return true
}

// Reset returns a finished or idle session to Idle. The dataset keeps the
// order the last run left it in.
func (s *Session) Reset() bool {
	s.mu.Lock()
	if s.state == Running {
		s.mu.Unlock()
		return false
	}
	notify := s.transition(Idle)
	s.mu.Unlock()
	notify()
	return true
}

// Begin moves an Idle session to Running and returns the run to step. When
// the session is already Running or Completed the request is ignored and
// started is false. An empty dataset completes immediately without a run.
func (s *Session) Begin(name string, observers ...driver.Observer) (run *Run, started bool, err error) {
	alg, err := algorithms.Lookup(name)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return nil, false, nil
	}
	if s.data.Len() == 0 {
		notify := s.transition(Completed)
		s.mu.Unlock()
		notify()
		return nil, false, nil
	}
	if err := input.Validate(s.data, alg.Name); err != nil {
		s.mu.Unlock()
		return nil, false, err
	}

	d := driver.New(append([]driver.Option{driver.WithLogger(s.log)}, s.driverOpts...)...)
	for _, m := range metrics.Default() {
		d.AddMetric(m)
	}
	for _, o := range observers {
		d.AddObserver(o)
	}

	p, err := d.Play(alg.Generate(s.data), s.data, s.speed)
	if err != nil {
		s.mu.Unlock()
		return nil, false, err
	}

	run = &Run{
		session:   s,
		driver:    d,
		playback:  p,
		algorithm: alg.Name,
		log:       s.log.At("start").Namespace("algorithm=%s n=%d speed=%d", alg.Name, s.data.Len(), s.speed).Start(),
	}
	s.algorithm = alg.Name
	notify := s.transition(Running)
	s.mu.Unlock()
	notify()
	return run, true, nil
}

// Start begins a run and drains it with the driver's pacing. It returns
// started=false for ignored requests.
func (s *Session) Start(ctx context.Context, name string, observers ...driver.Observer) (*driver.Result, bool, error) {
	run, started, err := s.Begin(name, observers...)
	if err != nil || !started {
		return nil, started, err
	}
	err = run.Drain(ctx)
	return run.Result(), true, err
}

func (s *Session) transition(to State) func() {
	s.state = to
	listeners := append([]func(State){}, s.listeners...)
	return func() {
		for _, fn := range listeners {
			fn(to)
		}
	}
}

// finish is called once per run. A completed run publishes its final working
// copy; an interrupted one leaves the dataset as it was and returns to Idle.
func (s *Session) finish(final dataset.Dataset, completed bool) {
	s.mu.Lock()
	to := Idle
	if completed {
		s.data = final
		to = Completed
	}
	notify := s.transition(to)
	s.mu.Unlock()
	notify()
}

// Run is one pass of an algorithm over the session's dataset.
type Run struct {
	session   *Session
	driver    *driver.Driver
	playback  *driver.Playback
	algorithm string
	log       *logger.Logger

	once sync.Once
	err  error
}

func (r *Run) Algorithm() string { return r.algorithm }

// Next steps the run by one frame. When ok is false the run is over and the
// session has moved on to Completed.
func (r *Run) Next() (f driver.Frame, delay time.Duration, ok bool) {
	f, delay, ok = r.playback.Next()
	if !ok {
		r.end(r.playback.Err())
	}
	return f, delay, ok
}

// Drain steps the run to the end, pacing frames through the driver.
func (r *Run) Drain(ctx context.Context) error {
	err := r.driver.Drain(ctx, r.playback)
	r.end(err)
	return err
}

// Cancel abandons the run and returns the session to Idle.
func (r *Run) Cancel() {
	r.end(driver.ErrCanceled)
}

func (r *Run) end(err error) {
	r.once.Do(func() {
		r.err = err
		if errors.Is(err, driver.ErrCanceled) {
			r.playback.Cancel()
		} else {
			r.playback.Close()
		}
		res := r.playback.Result()
		switch {
		case err == nil:
			r.log.Successf("frames=%d compares=%.0f", res.Frames, res.Metrics["compares"])
		case errors.Is(err, driver.ErrCanceled):
			r.log.Logf("canceled=true frames=%d", res.Frames)
		default:
			r.log.Error(err)
		}
		r.session.finish(res.Final, err == nil)
	})
}

func (r *Run) Err() error { return r.err }

func (r *Run) Result() *driver.Result { return r.playback.Result() }

// Sorted reports whether index i is currently marked sorted.
func (r *Run) Sorted(i int) bool { return r.playback.Sorted(i) }

func (r *Run) Snapshot() dataset.Dataset { return r.playback.Snapshot() }

func (r *Run) Speed() int { return r.playback.Speed() }
