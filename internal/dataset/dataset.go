package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Dataset is the ordered sequence being sorted. Its length is fixed for the
// duration of a run; only index-addressed writes and swaps change it.
type Dataset []float64

func (d Dataset) Clone() Dataset {
	c := make(Dataset, len(d))
	copy(c, d)
	return c
}

func (d Dataset) Len() int { return len(d) }

func (d Dataset) IsValid() bool {
	for _, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Max returns the largest value, or 0 for an empty dataset.
func (d Dataset) Max() float64 {
	if len(d) == 0 {
		return 0
	}
	m := d[0]
	for _, v := range d[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func (d Dataset) IsSorted() bool {
	for i := 1; i < len(d); i++ {
		if d[i-1] > d[i] {
			return false
		}
	}
	return true
}

func (d Dataset) IsNonNegativeIntegers() bool {
	for _, v := range d {
		if v < 0 || v != math.Trunc(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (d Dataset) InRange(i int) bool { return i >= 0 && i < len(d) }

func (d Dataset) Swap(i, j int) { d[i], d[j] = d[j], d[i] }

func (d Dataset) Set(i int, v float64) { d[i] = v }

func (d Dataset) Equal(other Dataset) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the dataset the way the input box echoes it: "3, 1, 2".
func (d Dataset) String() string {
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, ", ")
}

// FormatValue prints integral values without a fractional part.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
