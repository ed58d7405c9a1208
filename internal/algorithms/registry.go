package algorithms

import (
	"errors"
	"fmt"

	"github.com/san-kum/sortviz/internal/dataset"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

type Algorithm struct {
	Name     string
	Title    string
	Generate Generator
	// Validate rejects inputs the generator is not defined for. Nil means
	// every finite dataset is accepted.
	Validate func(dataset.Dataset) error
}

// Accepts runs the algorithm's input predicate, if any.
func (a Algorithm) Accepts(values dataset.Dataset) error {
	if a.Validate == nil {
		return nil
	}
	return a.Validate(values)
}

type Registry struct {
	algorithms map[string]Algorithm
	order      []string
}

func NewRegistry() *Registry {
	r := &Registry{algorithms: make(map[string]Algorithm)}

	r.Register(Algorithm{Name: "bubble", Title: "Bubble Sort", Generate: Bubble})
	r.Register(Algorithm{Name: "insertion", Title: "Insertion Sort", Generate: Insertion})
	r.Register(Algorithm{Name: "selection", Title: "Selection Sort", Generate: Selection})
	r.Register(Algorithm{Name: "merge", Title: "Merge Sort", Generate: Merge})
	r.Register(Algorithm{Name: "quick", Title: "Quick Sort", Generate: Quick})
	r.Register(Algorithm{Name: "radix", Title: "Radix Sort", Generate: Radix, Validate: ValidateRadix})

	return r
}

func (r *Registry) Register(a Algorithm) {
	if _, ok := r.algorithms[a.Name]; !ok {
		r.order = append(r.order, a.Name)
	}
	r.algorithms[a.Name] = a
}

func (r *Registry) Get(name string) (Algorithm, error) {
	a, ok := r.algorithms[name]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return a, nil
}

// Names lists algorithms in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Next returns the algorithm after name, wrapping around.
func (r *Registry) Next(name string) string {
	for i, n := range r.order {
		if n == name {
			return r.order[(i+1)%len(r.order)]
		}
	}
	return r.order[0]
}

var defaultRegistry = NewRegistry()

func Lookup(name string) (Algorithm, error) { return defaultRegistry.Get(name) }

func Names() []string { return defaultRegistry.Names() }

func Next(name string) string { return defaultRegistry.Next(name) }
