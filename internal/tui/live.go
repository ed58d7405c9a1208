package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/viz"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

var classGlyphs = map[viz.Class]rune{
	viz.ClassDefault:   '#',
	viz.ClassSorted:    '=',
	viz.ClassLeft:      'L',
	viz.ClassRight:     'R',
	viz.ClassPartition: ':',
	viz.ClassDigit:     'd',
	viz.ClassMerge:     'M',
	viz.ClassMin:       'm',
	viz.ClassKey:       'K',
	viz.ClassPivot:     'P',
	viz.ClassCompare:   '?',
	viz.ClassSwap:      '%',
	viz.ClassWrite:     '+',
}

// LiveRenderer redraws the whole bar chart with ANSI escapes, at most
// frameRate times per second. A frameRate of 0 draws every frame.
type LiveRenderer struct {
	out       io.Writer
	title     string
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	bars      *viz.Bars
	last      driver.Frame
}

func NewLiveRenderer(title string, input dataset.Dataset, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       os.Stdout,
		title:     title,
		frameRate: frameRate,
		canvas:    canvas,
		bars:      viz.NewBars(input),
	}
}

// SetOutput redirects rendering, mainly for tests.
func (r *LiveRenderer) SetOutput(w io.Writer) { r.out = w }

func (r *LiveRenderer) OnFrame(f driver.Frame) {
	r.bars.Apply(f)
	r.last = f

	if r.frameRate > 0 && !f.Synthetic {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
	}
	r.lastFrame = time.Now()
	r.draw()
	r.render()
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) draw() {
	r.clear()
	n := r.bars.Len()
	if n == 0 {
		return
	}
	bw := width / n
	if bw < 1 {
		bw = 1
	}
	gap := 0
	if bw > 2 {
		gap = 1
	}
	for i := 0; i < n; i++ {
		class, digit := r.bars.Class(i)
		glyph := classGlyphs[class]
		if class == viz.ClassBucket {
			glyph = rune('0' + digit)
		}
		h := r.bars.Height(i, height)
		for y := height - h; y < height; y++ {
			for x := i * bw; x < (i+1)*bw-gap; x++ {
				r.set(x, y, glyph)
			}
		}
	}
}

func (r *LiveRenderer) render() {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  frame=%d\n", r.title, r.last.Seq))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  %s  sorted=%d/%d\n", r.last.Op, r.bars.SortedCount(), r.bars.Len()))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
