package metrics

import (
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/ops"
)

// Counter counts frames of a single operation kind.
type Counter struct {
	name  string
	kind  ops.Kind
	count int
}

func NewCounter(name string, kind ops.Kind) *Counter {
	return &Counter{
		name: name,
		kind: kind,
	}
}

func NewCompares() *Counter   { return NewCounter("compares", ops.KindCompare) }
func NewSwaps() *Counter      { return NewCounter("swaps", ops.KindSwap) }
func NewOverwrites() *Counter { return NewCounter("overwrites", ops.KindOverwrite) }

func (c *Counter) Name() string {
	return c.name
}

func (c *Counter) Observe(f driver.Frame) {
	if f.Op.Kind == c.kind {
		c.count++
	}
}

func (c *Counter) Value() float64 { return float64(c.count) }

func (c *Counter) Reset() {
	c.count = 0
}

// Writes counts element writes: two per swap, one per overwrite.
type Writes struct {
	name   string
	writes int
}

func NewWrites() *Writes {
	return &Writes{name: "writes"}
}

func (w *Writes) Name() string { return w.name }

func (w *Writes) Observe(f driver.Frame) {
	switch f.Op.Kind {
	case ops.KindSwap:
		if f.Op.I != f.Op.J {
			w.writes += 2
		}
	case ops.KindOverwrite:
		w.writes++
	}
}

func (w *Writes) Value() float64 { return float64(w.writes) }

func (w *Writes) Reset() {
	w.writes = 0
}
