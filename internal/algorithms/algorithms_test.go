package algorithms

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/ops"
)

func fixtures(integersOnly bool) map[string]dataset.Dataset {
	f := map[string]dataset.Dataset{
		"empty":      {},
		"single":     {7},
		"pair":       {2, 1},
		"sorted":     {1, 2, 3, 4, 5, 6},
		"reversed":   {9, 8, 7, 6, 5, 4, 3, 2, 1},
		"all equal":  {4, 4, 4, 4, 4},
		"duplicates": {45, 27, 0, 0, 10, 20, 30, 40, 50, 60, 70},
		"merge page": {38, 27, 43, 3, 9, 82, 10},
		"radix page": {170, 45, 75, 90, 802, 24, 2, 66},
	}
	if !integersOnly {
		f["negative"] = dataset.Dataset{3, -1, 0, -7, 2}
		f["fractional"] = dataset.Dataset{0.5, 2.25, -1.75, 0.5, 1e-3}
	}

	rng := rand.New(rand.NewSource(42))
	for n := 2; n <= 40; n += 7 {
		d := make(dataset.Dataset, n)
		for i := range d {
			if integersOnly {
				d[i] = float64(rng.Intn(1000))
			} else {
				d[i] = math.Round((rng.Float64()*200-100)*100) / 100
			}
		}
		f["random-"+string(rune('a'+n))] = d
	}
	return f
}

func sortedCopy(d dataset.Dataset) dataset.Dataset {
	c := d.Clone()
	slices.Sort(c)
	return c
}

func sortedCoverage(seq []ops.Operation, n int) []bool {
	covered := make([]bool, n)
	for _, op := range seq {
		if op.Kind == ops.KindMarkSorted {
			for _, i := range op.Indices {
				covered[i] = true
			}
		}
	}
	return covered
}

func countKind(seq []ops.Operation, k ops.Kind) int {
	c := 0
	for _, op := range seq {
		if op.Kind == k {
			c++
		}
	}
	return c
}

func TestGeneratorsSortAndCover(t *testing.T) {
	for _, name := range Names() {
		alg, err := Lookup(name)
		require.NoError(t, err)

		for fname, input := range fixtures(name == "radix") {
			t.Run(name+"/"+fname, func(t *testing.T) {
				original := input.Clone()
				seq := Collect(alg.Generate(input))

				final, err := Replay(input, slices.Values(seq))
				require.NoError(t, err)
				assert.Equal(t, sortedCopy(input), final, "replay must sort the input")
				assert.Equal(t, original, input, "generator must not mutate its argument")

				for i, ok := range sortedCoverage(seq, len(input)) {
					assert.True(t, ok, "index %d never marked sorted", i)
				}
			})
		}
	}
}

func TestGeneratorsDeterministic(t *testing.T) {
	input := dataset.Dataset{170, 45, 75, 90, 802, 24, 2, 66, 45}
	for _, name := range Names() {
		alg, err := Lookup(name)
		require.NoError(t, err)

		seq := alg.Generate(input)
		first := Collect(seq)
		again := Collect(seq)
		fresh := Collect(alg.Generate(input.Clone()))

		assert.Equal(t, first, again, "%s: re-iterating must replay identically", name)
		assert.Equal(t, first, fresh, "%s: regenerating must replay identically", name)
	}
}

func TestGeneratorsEdgeCases(t *testing.T) {
	for _, name := range Names() {
		alg, err := Lookup(name)
		require.NoError(t, err)

		assert.Empty(t, Collect(alg.Generate(dataset.Dataset{})), "%s: empty input", name)

		single := Collect(alg.Generate(dataset.Dataset{7}))
		require.Len(t, single, 1, "%s: single input", name)
		assert.Equal(t, ops.MarkSorted(0), single[0])

		equal := Collect(alg.Generate(dataset.Dataset{3, 3, 3, 3}))
		assert.Zero(t, countKind(equal, ops.KindSwap), "%s: all-equal input must not swap", name)
		if name != "radix" {
			assert.NotZero(t, countKind(equal, ops.KindCompare), "%s: all-equal input still compares", name)
		}
	}
}

func TestGeneratorsStopEarly(t *testing.T) {
	input := dataset.Dataset{9, 3, 7, 1, 8, 2, 6, 4, 5}
	for _, name := range Names() {
		alg, err := Lookup(name)
		require.NoError(t, err)

		for limit := 1; limit < 12; limit++ {
			seen := 0
			for range alg.Generate(input) {
				seen++
				if seen == limit {
					break
				}
			}
			assert.Equal(t, limit, seen, "%s stopped at wrong point", name)
		}
	}
}

func TestSelectionCompareCount(t *testing.T) {
	for n := 2; n <= 12; n++ {
		input := make(dataset.Dataset, n)
		for i := range input {
			input[i] = float64((i * 7) % 5)
		}
		seq := Collect(Selection(input))
		assert.Equal(t, n*(n-1)/2, countKind(seq, ops.KindCompare), "n=%d", n)
	}
}

func TestCompareBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 2; n <= 64; n *= 2 {
		input := make(dataset.Dataset, n)
		for i := range input {
			input[i] = float64(rng.Intn(100))
		}
		quadratic := n * (n - 1) / 2
		logn := int(math.Ceil(math.Log2(float64(n))))

		assert.LessOrEqual(t, countKind(Collect(Bubble(input)), ops.KindCompare), quadratic)
		assert.LessOrEqual(t, countKind(Collect(Insertion(input)), ops.KindCompare), quadratic)
		assert.LessOrEqual(t, countKind(Collect(Quick(input)), ops.KindCompare), quadratic)
		assert.LessOrEqual(t, countKind(Collect(Merge(input)), ops.KindCompare), n*logn)
		assert.Zero(t, countKind(Collect(Radix(input)), ops.KindCompare))
	}
}

func TestSelectionScenario(t *testing.T) {
	input := dataset.Dataset{5, 3, 8, 1}
	seq := Collect(Selection(input))

	final, err := Replay(input, slices.Values(seq))
	require.NoError(t, err)
	assert.Equal(t, dataset.Dataset{1, 3, 5, 8}, final)
	assert.Equal(t, []bool{true, true, true, true}, sortedCoverage(seq, 4))
	assert.Equal(t, ops.MarkSorted(3), seq[len(seq)-1])
}

func TestSelectionSkipsSelfSwap(t *testing.T) {
	seq := Collect(Selection(dataset.Dataset{1, 2, 3}))
	assert.Zero(t, countKind(seq, ops.KindSwap))
}

func TestBubbleMarksBoundaryEachPass(t *testing.T) {
	seq := Collect(Bubble(dataset.Dataset{3, 2, 1}))
	var marks []ops.Operation
	for _, op := range seq {
		if op.Kind == ops.KindMarkSorted {
			marks = append(marks, op)
		}
	}
	require.Len(t, marks, 3)
	assert.Equal(t, []int{2}, marks[0].Indices)
	assert.Equal(t, []int{1}, marks[1].Indices)
	assert.Equal(t, []int{0}, marks[2].Indices)
}

func TestInsertionFlicker(t *testing.T) {
	seq := Collect(Insertion(dataset.Dataset{2, 1}))
	require.NotEmpty(t, seq)
	assert.Equal(t, ops.MarkSorted(0), seq[0])

	var unmarked bool
	for _, op := range seq {
		if op.Kind == ops.KindUnmark && op.Tag == ops.TagSorted {
			unmarked = true
		}
	}
	assert.True(t, unmarked, "shift must drop the sorted mark on the shifted slot")
	last := seq[len(seq)-1]
	assert.Equal(t, ops.KindMarkSorted, last.Kind)
	assert.Equal(t, []int{0, 1}, last.Indices)
}

func TestQuickPivotNeverRevisited(t *testing.T) {
	input := dataset.Dataset{45, 27, 0, 0, 10, 20, 30, 40, 50, 60, 70}
	work := input.Clone()
	settled := make(map[int]float64)

	for op := range Quick(input) {
		for _, i := range op.Affected() {
			if v, ok := settled[i]; ok && op.Kind.MutatesData() {
				t.Fatalf("%s touches settled pivot index %d (value %v)", op, i, v)
			}
		}
		require.NoError(t, op.Apply(work))
		if op.Kind == ops.KindMarkSorted {
			for _, i := range op.Indices {
				settled[i] = work[i]
			}
		}
	}
	assert.Equal(t, sortedCopy(input), work)
}

func TestMergeMarksRangesAfterMerge(t *testing.T) {
	seq := Collect(Merge(dataset.Dataset{38, 27, 43, 3}))
	var ranges [][]int
	for _, op := range seq {
		if op.Kind == ops.KindMarkSorted {
			ranges = append(ranges, op.Indices)
		}
	}
	assert.Equal(t, [][]int{{0, 1}, {2, 3}, {0, 1, 2, 3}}, ranges)
}

func TestRadixScenario(t *testing.T) {
	input := dataset.Dataset{170, 45, 75, 90, 802, 24, 2, 66}
	assert.Equal(t, 3, MaxDigits(input))

	seq := Collect(Radix(input))
	assert.Equal(t, 3*len(input), countKind(seq, ops.KindOverwrite), "one copy-back per element per digit pass")

	final, err := Replay(input, slices.Values(seq))
	require.NoError(t, err)
	assert.Equal(t, dataset.Dataset{2, 24, 45, 66, 75, 90, 170, 802}, final)
}

func TestRadixStableEachPass(t *testing.T) {
	input := dataset.Dataset{21, 11, 31, 12, 22, 2, 11, 101}
	n := len(input)
	work := input.Clone()
	prev := input.Clone()
	exp := 1.0
	writes := 0

	for op := range Radix(input) {
		require.NoError(t, op.Apply(work))
		if op.Kind != ops.KindOverwrite {
			continue
		}
		writes++
		if writes%n != 0 {
			continue
		}

		want := prev.Clone()
		slices.SortStableFunc(want, func(a, b float64) int {
			return digitAt(a, exp) - digitAt(b, exp)
		})
		assert.Equal(t, want, work, "pass with exp=%g must be a stable digit sort", exp)

		prev = work.Clone()
		exp *= radixBase
	}
	assert.Equal(t, 3*n, writes)
}

func TestRadixLargeValues(t *testing.T) {
	input := dataset.Dataset{MaxRadixValue, 5, 1e15, 0, 123456789012}
	assert.Equal(t, 16, MaxDigits(input))

	final, err := Replay(input, Radix(input))
	require.NoError(t, err)
	assert.Equal(t, dataset.Dataset{0, 5, 123456789012, 1e15, MaxRadixValue}, final)

	for _, v := range []float64{0, 7, 1e19, MaxRadixValue} {
		for exp := 1.0; exp <= 1e20; exp *= radixBase {
			d := digitAt(v, exp)
			assert.True(t, d >= 0 && d < radixBase, "digitAt(%g, %g) = %d", v, exp, d)
		}
	}
	assert.Equal(t, 20, MaxDigits(dataset.Dataset{1e19}))
}

func TestRadixBucketIndicesNotShared(t *testing.T) {
	var marks, unmarks []ops.Operation
	for op := range Radix(dataset.Dataset{12, 5, 22}) {
		if !op.Tag.IsBucket() {
			continue
		}
		switch op.Kind {
		case ops.KindMarkRegion:
			marks = append(marks, op)
		case ops.KindUnmark:
			unmarks = append(unmarks, op)
		}
	}
	require.NotEmpty(t, marks)
	require.Len(t, unmarks, len(marks))

	want := slices.Clone(unmarks[0].Indices)
	for i := range marks[0].Indices {
		marks[0].Indices[i] = -1
	}
	assert.Equal(t, want, unmarks[0].Indices, "a consumer editing a mark must not change its unmark")
}

func TestGeneratorPanicsOnBadIndex(t *testing.T) {
	seq := sequence(dataset.Dataset{1, 2}, func(e *emitter) {
		e.emit(ops.Swap(0, 9))
	})
	assert.Panics(t, func() { Collect(seq) })
}

func TestValidateRadix(t *testing.T) {
	alg, err := Lookup("radix")
	require.NoError(t, err)
	assert.NoError(t, alg.Accepts(dataset.Dataset{0, 5, 802}))
	assert.ErrorIs(t, alg.Accepts(dataset.Dataset{3, -1}), ErrNonNegativeIntegers)
	assert.ErrorIs(t, alg.Accepts(dataset.Dataset{1.5}), ErrNonNegativeIntegers)
	assert.NoError(t, alg.Accepts(dataset.Dataset{MaxRadixValue, 5}))
	assert.ErrorIs(t, alg.Accepts(dataset.Dataset{1e19, 5}), ErrNonNegativeIntegers)

	bubble, err := Lookup("bubble")
	require.NoError(t, err)
	assert.NoError(t, bubble.Accepts(dataset.Dataset{-1.5}))
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"bubble", "insertion", "selection", "merge", "quick", "radix"}, Names())

	_, err := Lookup("bogo")
	assert.EqualError(t, err, "unknown algorithm: bogo")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	assert.Equal(t, "insertion", Next("bubble"))
	assert.Equal(t, "bubble", Next("radix"))
	assert.Equal(t, "bubble", Next("unknown"))
}
