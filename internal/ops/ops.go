package ops

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/sortviz/internal/dataset"
)

var (
	ErrIndexOutOfRange = errors.New("ops: index out of range")
	ErrUnknownKind     = errors.New("ops: unknown operation kind")
)

type Kind int

const (
	KindCompare Kind = iota
	KindSwap
	KindOverwrite
	KindMarkRegion
	KindUnmark
	KindMarkSorted
)

var kindNames = [...]string{
	KindCompare:    "compare",
	KindSwap:       "swap",
	KindOverwrite:  "overwrite",
	KindMarkRegion: "mark",
	KindUnmark:     "unmark",
	KindMarkSorted: "sorted",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MutatesData reports whether operations of this kind change the dataset.
func (k Kind) MutatesData() bool { return k == KindSwap || k == KindOverwrite }

// Weight is the pacing class of an operation, interpreted by the driver.
type Weight int

const (
	Full Weight = iota
	Half
	Quarter
)

func (w Weight) String() string {
	switch w {
	case Half:
		return "half"
	case Quarter:
		return "quarter"
	default:
		return "full"
	}
}

// Divisor is the fraction of the base interval this weight waits for.
func (w Weight) Divisor() int {
	switch w {
	case Half:
		return 2
	case Quarter:
		return 4
	default:
		return 1
	}
}

func ParseWeight(s string) Weight {
	switch s {
	case "half":
		return Half
	case "quarter":
		return Quarter
	default:
		return Full
	}
}

// Tag names a cosmetic grouping carried by MarkRegion and Unmark.
type Tag string

const (
	TagLeft      Tag = "left"
	TagRight     Tag = "right"
	TagPivot     Tag = "pivot"
	TagPartition Tag = "partition"
	TagKey       Tag = "key"
	TagMin       Tag = "min"
	TagMerge     Tag = "merge"
	TagDigit     Tag = "digit"
	TagSorted    Tag = "sorted"
)

func BucketTag(digit int) Tag { return Tag("bucket-" + strconv.Itoa(digit)) }

// IsBucket reports whether t is one of the radix bucket tags.
func (t Tag) IsBucket() bool { return strings.HasPrefix(string(t), "bucket-") }

// Bucket returns the digit of a bucket tag.
func (t Tag) Bucket() (int, bool) {
	if !t.IsBucket() {
		return 0, false
	}
	d, err := strconv.Atoi(strings.TrimPrefix(string(t), "bucket-"))
	return d, err == nil
}

// Operation is one atomic, narrated sort event. Only the fields relevant to
// Kind are set: I/J for Compare and Swap, I/Value for Overwrite, Indices/Tag
// for the marking kinds.
type Operation struct {
	Kind    Kind
	I, J    int
	Value   float64
	Indices []int
	Tag     Tag
	Weight  Weight
}

func Compare(i, j int) Operation {
	return Operation{Kind: KindCompare, I: i, J: j, Weight: Half}
}

func Swap(i, j int) Operation {
	return Operation{Kind: KindSwap, I: i, J: j, Weight: Half}
}

func Overwrite(i int, v float64) Operation {
	return Operation{Kind: KindOverwrite, I: i, Value: v, Weight: Half}
}

func MarkRegion(indices []int, tag Tag) Operation {
	return Operation{Kind: KindMarkRegion, Indices: indices, Tag: tag, Weight: Full}
}

func Unmark(indices []int, tag Tag) Operation {
	return Operation{Kind: KindUnmark, Indices: indices, Tag: tag, Weight: Quarter}
}

func MarkSorted(indices ...int) Operation {
	return Operation{Kind: KindMarkSorted, Indices: indices, Weight: Half}
}

func (o Operation) WithWeight(w Weight) Operation {
	o.Weight = w
	return o
}

// Affected returns the indices touched by the operation, in emission order, without duplicates.
func (o Operation) Affected() []int {
	switch o.Kind {
	case KindCompare, KindSwap:
		if o.I == o.J {
			return []int{o.I}
		}
		return []int{o.I, o.J}
	case KindOverwrite:
		return []int{o.I}
	default:
		out := make([]int, len(o.Indices))
		copy(out, o.Indices)
		return out
	}
}

// Apply performs the operation's data effect on d. Non-mutating kinds only
// have their indices checked.
func (o Operation) Apply(d dataset.Dataset) error {
	for _, i := range o.Affected() {
		if !d.InRange(i) {
			return fmt.Errorf("%w: %s on index %d (len %d)", ErrIndexOutOfRange, o.Kind, i, len(d))
		}
	}
	switch o.Kind {
	case KindSwap:
		d.Swap(o.I, o.J)
	case KindOverwrite:
		d.Set(o.I, o.Value)
	}
	return nil
}

func (o Operation) String() string {
	switch o.Kind {
	case KindCompare, KindSwap:
		return fmt.Sprintf("%s(%d,%d)", o.Kind, o.I, o.J)
	case KindOverwrite:
		return fmt.Sprintf("overwrite(%d=%s)", o.I, dataset.FormatValue(o.Value))
	case KindMarkSorted:
		return fmt.Sprintf("sorted(%s)", FormatIndices(o.Indices))
	default:
		return fmt.Sprintf("%s(%s:%s)", o.Kind, o.Tag, FormatIndices(o.Indices))
	}
}

// Range returns the indices [lo, hi] inclusive.
func Range(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func FormatIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, v := range indices {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func ParseIndices(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
