// Package bench runs algorithms over batches of random datasets and
// aggregates their operation counts.
package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/convox/logger"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/input"
	"github.com/san-kum/sortviz/internal/metrics"
)

var ErrUnsorted = errors.New("bench: run finished with unsorted output")

type Config struct {
	Algorithms []string
	Sizes      []int
	Runs       int
	Seed       int64
	// Max bounds generated values. Zero uses each algorithm's stock range.
	Max     int
	Workers int
}

// Sample is one algorithm over one dataset.
type Sample struct {
	Algorithm string
	Size      int
	Seed      int64
	Metrics   map[string]float64
	Frames    int
	Elapsed   time.Duration
}

// Ensemble runs every (algorithm, size, run) combination. Run i of a size
// uses the same dataset for every algorithm.
type Ensemble struct {
	cfg Config
	log *logger.Logger
}

func NewEnsemble(cfg Config) *Ensemble {
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = algorithms.Names()
	}
	if cfg.Runs < 1 {
		cfg.Runs = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Ensemble{cfg: cfg, log: logger.NewWriter("ns=sortviz cn=bench", os.Stderr)}
}

func (e *Ensemble) WithLogger(l *logger.Logger) *Ensemble {
	e.log = l
	return e
}

type task struct {
	alg  algorithms.Algorithm
	size int
	seed int64
}

func (e *Ensemble) tasks() ([]task, error) {
	var tasks []task
	for _, name := range e.cfg.Algorithms {
		alg, err := algorithms.Lookup(name)
		if err != nil {
			return nil, err
		}
		for _, size := range e.cfg.Sizes {
			for run := 0; run < e.cfg.Runs; run++ {
				tasks = append(tasks, task{alg: alg, size: size, seed: e.cfg.Seed + int64(size)*1000 + int64(run)})
			}
		}
	}
	return tasks, nil
}

// Run executes all samples on the worker pool and returns them in task
// order.
func (e *Ensemble) Run(ctx context.Context) ([]Sample, error) {
	log := e.log.At("run").Namespace("algorithms=%d sizes=%d runs=%d", len(e.cfg.Algorithms), len(e.cfg.Sizes), e.cfg.Runs).Start()

	tasks, err := e.tasks()
	if err != nil {
		log.Error(err)
		return nil, err
	}

	samples := make([]Sample, len(tasks))
	errs := make([]error, len(tasks))
	ParallelFor(len(tasks), e.cfg.Workers, func(i int) {
		samples[i], errs[i] = e.sample(ctx, tasks[i])
	})

	for _, err := range errs {
		if err != nil {
			log.Error(err)
			return nil, err
		}
	}
	log.Successf("samples=%d", len(samples))
	return samples, nil
}

func (e *Ensemble) sample(ctx context.Context, t task) (Sample, error) {
	limit := e.cfg.Max
	if limit <= 0 {
		limit = input.RandomLimit(t.alg.Name)
	}
	data := input.RandomRange(rand.New(rand.NewSource(t.seed)), t.size, t.size, limit)

	d := driver.New(driver.Instant(), driver.WithLogger(e.log))
	for _, m := range metrics.Default() {
		d.AddMetric(m)
	}

	res, err := d.Run(ctx, t.alg.Generate(data), data, driver.MaxSpeed)
	if err != nil {
		return Sample{}, fmt.Errorf("%s n=%d: %w", t.alg.Name, t.size, err)
	}
	if !res.Final.IsSorted() {
		return Sample{}, fmt.Errorf("%w: %s n=%d seed=%d", ErrUnsorted, t.alg.Name, t.size, t.seed)
	}

	return Sample{
		Algorithm: t.alg.Name,
		Size:      t.size,
		Seed:      t.seed,
		Metrics:   res.Metrics,
		Frames:    res.Frames,
		Elapsed:   res.Elapsed,
	}, nil
}

// ParallelFor calls fn for every i in [0, n) on at most workers goroutines.
func ParallelFor(n, workers int, fn func(i int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	next := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range next {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}
