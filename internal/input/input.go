// Package input turns user text, seeds and presets into datasets.
package input

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/dataset"
)

// ErrInput matches every error returned by this package.
var ErrInput = errors.New("input: invalid input")

var (
	ErrEmptyInput = &InputError{Reason: "please enter some numbers"}
	ErrNoNumbers  = &InputError{Reason: "no valid numbers entered"}
)

// InputError describes rejected input: either a single bad token or a
// dataset-level reason.
type InputError struct {
	Token  string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Token != "" {
		return strconv.Quote(e.Token) + " is not a valid number"
	}
	return e.Reason
}

func (e *InputError) Is(target error) bool { return target == ErrInput }

func (e *InputError) Unwrap() error { return e.Err }

const (
	MinRandomCount = 5
	MaxRandomCount = 14
	RandomMax      = 100
	RadixRandomMax = 1000
)

// Parse reads a comma separated list of numbers. Blank tokens are skipped.
func Parse(text string) (dataset.Dataset, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	values := make(dataset.Dataset, 0)
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &InputError{Token: tok}
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, ErrNoNumbers
	}
	return values, nil
}

// Random draws 5 to 14 integers in [0,100), or [0,1000) for radix.
func Random(rng *rand.Rand, algorithm string) dataset.Dataset {
	return RandomRange(rng, MinRandomCount, MaxRandomCount, RandomLimit(algorithm))
}

// RandomRange draws between minCount and maxCount integers in [0,limit).
func RandomRange(rng *rand.Rand, minCount, maxCount, limit int) dataset.Dataset {
	if maxCount < minCount {
		maxCount = minCount
	}
	if limit < 1 {
		limit = 1
	}
	n := minCount + rng.Intn(maxCount-minCount+1)
	values := make(dataset.Dataset, n)
	for i := range values {
		values[i] = float64(rng.Intn(limit))
	}
	return values
}

func RandomLimit(algorithm string) int {
	if algorithm == "radix" {
		return RadixRandomMax
	}
	return RandomMax
}

var defaults = map[string]dataset.Dataset{
	"merge": {38, 27, 43, 3, 9, 82, 10},
	"radix": {170, 45, 75, 90, 802, 24, 2, 66},
}

var fallbackDefault = dataset.Dataset{45, 27, 0, 0, 10, 20, 30, 40, 50, 60, 70}

// Default returns the stock dataset shown for algorithm.
func Default(algorithm string) dataset.Dataset {
	if d, ok := defaults[algorithm]; ok {
		return d.Clone()
	}
	return fallbackDefault.Clone()
}

// Validate applies the algorithm's input predicate.
func Validate(values dataset.Dataset, algorithm string) error {
	if !values.IsValid() {
		return &InputError{Reason: "values must be finite"}
	}
	alg, err := algorithms.Lookup(algorithm)
	if err != nil {
		return err
	}
	if err := alg.Accepts(values); err != nil {
		return &InputError{Reason: alg.Title + " only supports non-negative integers", Err: err}
	}
	return nil
}
