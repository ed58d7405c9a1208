package algorithms

import (
	"errors"
	"iter"
	"math"
	"slices"
	"strconv"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/ops"
)

const radixBase = 10

// MaxRadixValue is the largest value radix accepts: above it float64 no
// longer holds every integer, so digits stop being exact.
const MaxRadixValue = 1 << 53

var ErrNonNegativeIntegers = errors.New("algorithms: radix sort requires non-negative integers")

// Radix is LSD radix sort in base 10. Each digit pass is a stable counting
// sort: histogram, prefix sums, then placement scanning the input in reverse
// so equal digits keep their relative order. Input must be non-negative
// integers; see ValidateRadix.
func Radix(input dataset.Dataset) iter.Seq[ops.Operation] {
	return sequence(input, func(e *emitter) {
		n := len(e.values)
		passes := MaxDigits(e.values)
		exp := 1.0

		for pass := 0; pass < passes; pass++ {
			if !radixPass(e, exp) {
				return
			}
			exp *= radixBase
		}

		e.emit(ops.MarkSorted(ops.Range(0, n-1)...))
	})
}

func radixPass(e *emitter, exp float64) bool {
	n := len(e.values)

	var buckets [radixBase][]int
	for i, v := range e.values {
		d := digitAt(v, exp)
		buckets[d] = append(buckets[d], i)
	}
	for d, idx := range buckets {
		if len(idx) == 0 {
			continue
		}
		if !e.emit(ops.MarkRegion(slices.Clone(idx), ops.BucketTag(d)).WithWeight(ops.Half)) {
			return false
		}
	}

	var count [radixBase]int
	for i, v := range e.values {
		count[digitAt(v, exp)]++
		if !e.emit(ops.MarkRegion([]int{i}, ops.TagDigit).WithWeight(ops.Quarter)) {
			return false
		}
	}

	for d := 1; d < radixBase; d++ {
		count[d] += count[d-1]
	}

	output := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		d := digitAt(e.values[i], exp)
		output[count[d]-1] = e.values[i]
		count[d]--
		if !e.emit(ops.Unmark([]int{i}, ops.TagDigit)) {
			return false
		}
	}

	for i, v := range output {
		if !e.emit(ops.Overwrite(i, v)) {
			return false
		}
	}

	for d, idx := range buckets {
		if len(idx) == 0 {
			continue
		}
		if !e.emit(ops.Unmark(slices.Clone(idx), ops.BucketTag(d))) {
			return false
		}
	}
	return true
}

func digitAt(v, exp float64) int {
	return int(math.Mod(math.Floor(v/exp), radixBase))
}

// MaxDigits is the decimal digit count of the largest value, at least 1.
func MaxDigits(values dataset.Dataset) int {
	if len(values) == 0 {
		return 0
	}
	return len(strconv.FormatFloat(math.Floor(values.Max()), 'f', 0, 64))
}

func ValidateRadix(values dataset.Dataset) error {
	if !values.IsNonNegativeIntegers() || values.Max() > MaxRadixValue {
		return ErrNonNegativeIntegers
	}
	return nil
}
