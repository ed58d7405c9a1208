package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/ops"
)

var kindColors = map[ops.Kind]*color.Color{
	ops.KindCompare:    color.New(color.FgYellow),
	ops.KindSwap:       color.New(color.FgRed, color.Bold),
	ops.KindOverwrite:  color.New(color.FgMagenta),
	ops.KindMarkRegion: color.New(color.FgCyan),
	ops.KindUnmark:     color.New(color.Faint),
	ops.KindMarkSorted: color.New(color.FgGreen),
}

// TraceRenderer prints one line per frame.
type TraceRenderer struct {
	out io.Writer
}

func NewTraceRenderer(w io.Writer) *TraceRenderer {
	if w == nil {
		w = os.Stdout
	}
	return &TraceRenderer{out: w}
}

func (r *TraceRenderer) OnFrame(f driver.Frame) {
	c, ok := kindColors[f.Op.Kind]
	if !ok {
		c = color.New(color.Reset)
	}

	label := f.Op.Kind.String()
	if f.Op.Tag != "" {
		label += "(" + string(f.Op.Tag) + ")"
	}
	if f.Synthetic {
		label += "*"
	}

	values := make([]string, len(f.Values))
	for i, v := range f.Values {
		values[i] = dataset.FormatValue(v)
	}

	c.Fprintf(r.out, "%5d  %-18s %-7s [%s] -> [%s]\n",
		f.Seq, label, f.Op.Weight, ops.FormatIndices(f.Indices), strings.Join(values, " "))
}

// Summary prints the closing line of a trace.
func (r *TraceRenderer) Summary(res *driver.Result) {
	status := color.GreenString("sorted")
	if res.Canceled {
		status = color.YellowString("canceled")
	}
	fmt.Fprintf(r.out, "%s %s in %d frames: [%s]\n", color.New(color.Bold).Sprint("=>"), status, res.Frames, res.Final)
}
