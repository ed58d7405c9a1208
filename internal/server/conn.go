package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/convox/logger"
	"github.com/gorilla/websocket"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/export"
	"github.com/san-kum/sortviz/internal/input"
	"github.com/san-kum/sortviz/internal/session"
)

const writeWait = 10 * time.Second

var ErrUnknownMessage = errors.New("server: unknown message type")

// ConnOptions configure the session created for each connection.
type ConnOptions struct {
	Session []session.Option
	// Seed feeds the random dataset generator. Zero uses the clock.
	Seed int64
}

// Message is sent by the client.
type Message struct {
	Type      string    `json:"type"`
	Values    []float64 `json:"values,omitempty"`
	Speed     int       `json:"speed,omitempty"`
	Algorithm string    `json:"algorithm,omitempty"`
}

// Event is sent to the client.
type Event struct {
	Type      string             `json:"type"`
	State     string             `json:"state,omitempty"`
	Algorithm string             `json:"algorithm,omitempty"`
	Speed     int                `json:"speed,omitempty"`
	Dataset   []float64          `json:"dataset,omitempty"`
	Frame     *export.FrameData  `json:"frame,omitempty"`
	DelayMs   int64              `json:"delay_ms,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Canceled  bool               `json:"canceled,omitempty"`
	Error     string             `json:"error,omitempty"`
}

type conn struct {
	ws      *websocket.Conn
	session *session.Session
	rng     *rand.Rand
	log     *logger.Logger

	wmu sync.Mutex
	wg  sync.WaitGroup

	mu   sync.Mutex
	stop context.CancelFunc
}

func newConn(ws *websocket.Conn, o ConnOptions, log *logger.Logger) *conn {
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c := &conn{
		ws:      ws,
		session: session.New(append([]session.Option{session.WithLogger(log)}, o.Session...)...),
		rng:     rand.New(rand.NewSource(seed)),
		log:     log,
	}
	c.session.OnChange(func(session.State) { c.sendState() })
	return c
}

// serve reads client messages until the connection fails. Runs still in
// flight are canceled before it returns.
func (c *conn) serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		c.wg.Wait()
		c.ws.Close()
	}()

	if err := c.sendState(); err != nil {
		return err
	}
	for {
		var msg Message
		if err := c.ws.ReadJSON(&msg); err != nil {
			return err
		}
		if err := c.handle(ctx, msg); err != nil {
			return err
		}
	}
}

func (c *conn) handle(ctx context.Context, msg Message) error {
	switch msg.Type {
	case "start":
		return c.start(ctx, msg.Algorithm)
	case "stop":
		c.mu.Lock()
		if c.stop != nil {
			c.stop()
		}
		c.mu.Unlock()
	case "reset":
		c.session.Reset()
	case "seed":
		return c.seed(dataset.Dataset(msg.Values))
	case "random":
		c.session.Reseed(input.Random(c.rng, c.session.Algorithm()))
	case "default":
		c.session.Reseed(input.Default(c.session.Algorithm()))
	case "speed":
		c.session.SetSpeed(msg.Speed)
		return c.sendState()
	case "algorithm":
		err := c.session.SetAlgorithm(msg.Algorithm)
		if err != nil && !errors.Is(err, session.ErrRunning) {
			return c.sendError(err)
		}
	default:
		return c.sendError(fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type))
	}
	return nil
}

// start begins a run and streams it from a goroutine. A start while a run
// is active, or before a completed run is reset, is dropped.
func (c *conn) start(ctx context.Context, name string) error {
	if name == "" {
		name = c.session.Algorithm()
	}
	speed := c.session.Speed()

	run, started, err := c.session.Begin(name, driver.ObserverFunc(func(f driver.Frame) {
		fd := export.NewFrameData(f)
		c.send(Event{Type: "frame", Frame: &fd, DelayMs: driver.Delay(f.Op.Weight, speed).Milliseconds()})
	}))
	if err != nil {
		return c.sendError(err)
	}
	if !started {
		return nil
	}

	runCtx, stop := context.WithCancel(ctx)
	c.mu.Lock()
	c.stop = stop
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer stop()

		err := run.Drain(runCtx)
		res := run.Result()
		ev := Event{Type: "result", Algorithm: run.Algorithm(), Dataset: res.Final, Metrics: res.Metrics, Canceled: res.Canceled}
		if err != nil && !errors.Is(err, driver.ErrCanceled) {
			ev.Error = err.Error()
		}
		c.send(ev)
	}()
	return nil
}

// seed applies the same checks the text input does before reseeding.
func (c *conn) seed(values dataset.Dataset) error {
	if values.Len() == 0 {
		return c.sendError(input.ErrEmptyInput)
	}
	if err := input.Validate(values, c.session.Algorithm()); err != nil {
		return c.sendError(err)
	}
	c.session.Reseed(values)
	return nil
}

func (c *conn) sendState() error {
	return c.send(Event{
		Type:      "state",
		State:     c.session.State().String(),
		Algorithm: c.session.Algorithm(),
		Speed:     c.session.Speed(),
		Dataset:   c.session.Dataset(),
	})
}

func (c *conn) sendError(err error) error {
	c.log.Error(err)
	return c.send(Event{Type: "error", Error: err.Error()})
}

func (c *conn) send(ev Event) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(ev)
}
