package viz

import (
	"fmt"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/ops"
)

const completeText = "Sorting complete!"

// Narrator keeps the one-line description of what the run is doing.
type Narrator struct {
	algorithm string
	digits    int
	pass      int
	inPass    bool
	pivot     float64
	placing   bool
	text      string
}

func NewNarrator(algorithm string, input dataset.Dataset) *Narrator {
	n := &Narrator{algorithm: algorithm}
	if algorithm == "radix" && input.IsNonNegativeIntegers() {
		n.digits = algorithms.MaxDigits(input)
	}
	return n
}

func (n *Narrator) Text() string { return n.text }

func (n *Narrator) Complete() { n.text = completeText }

func (n *Narrator) OnFrame(f driver.Frame) {
	op := f.Op
	switch op.Kind {
	case ops.KindMarkRegion:
		switch {
		case op.Tag == ops.TagPivot && len(f.Values) > 0:
			n.pivot = f.Values[0]
		case op.Tag == ops.TagPartition && len(f.Indices) > 0:
			n.text = fmt.Sprintf("Partitioning from index %d to %d with pivot %s",
				f.Indices[0], f.Indices[len(f.Indices)-1], dataset.FormatValue(n.pivot))
		case op.Tag.IsBucket() && !n.inPass:
			n.pass++
			n.inPass = true
			n.text = fmt.Sprintf("Current Digit: %d (%d total digits)", n.pass, n.digits)
		}
	case ops.KindUnmark:
		switch {
		case op.Tag == ops.TagPivot:
			n.placing = true
		case op.Tag.IsBucket():
			n.inPass = false
		}
	case ops.KindMarkSorted:
		if n.placing && len(f.Indices) == 1 && !f.Synthetic {
			n.text = fmt.Sprintf("Pivot %s correctly placed at index %d", dataset.FormatValue(n.pivot), f.Indices[0])
			n.placing = false
		}
	case ops.KindCompare:
		if n.algorithm != "quick" && len(f.Values) == 2 {
			n.text = fmt.Sprintf("Comparing %s and %s", dataset.FormatValue(f.Values[0]), dataset.FormatValue(f.Values[1]))
		}
	case ops.KindSwap:
		if len(f.Values) == 2 {
			n.text = fmt.Sprintf("Swapping %s and %s", dataset.FormatValue(f.Values[1]), dataset.FormatValue(f.Values[0]))
		}
	case ops.KindOverwrite:
		if n.algorithm != "radix" && len(f.Values) == 1 {
			n.text = fmt.Sprintf("Placing %s at index %d", dataset.FormatValue(f.Values[0]), f.Indices[0])
		}
	}
}
