package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/driver"
	"github.com/san-kum/sortviz/internal/input"
	"github.com/san-kum/sortviz/internal/ops"
	"github.com/san-kum/sortviz/internal/session"
)

func drain(run *session.Run) []driver.Frame {
	var frames []driver.Frame
	for {
		f, _, ok := run.Next()
		if !ok {
			return frames
		}
		frames = append(frames, f)
	}
}

var _ = Describe("Session", func() {
	var s *session.Session

	BeforeEach(func() {
		s = session.New(
			session.WithDataset(dataset.Dataset{5, 3, 8, 1}),
			session.WithAlgorithm("selection"),
			session.WithDriverOptions(driver.Instant()),
		)
	})

	It("starts Idle with the given configuration", func() {
		Expect(s.State()).To(Equal(session.Idle))
		Expect(s.Algorithm()).To(Equal("selection"))
		Expect(s.Speed()).To(Equal(driver.DefaultSpeed))
		Expect(s.Dataset()).To(Equal(dataset.Dataset{5, 3, 8, 1}))
	})

	It("falls back to the algorithm default dataset", func() {
		Expect(session.New(session.WithAlgorithm("radix")).Dataset()).To(Equal(input.Default("radix")))
	})

	Describe("Begin", func() {
		It("moves Idle to Running and then Completed", func() {
			run, started, err := s.Begin("selection")
			Expect(err).NotTo(HaveOccurred())
			Expect(started).To(BeTrue())
			Expect(s.State()).To(Equal(session.Running))

			frames := drain(run)
			Expect(frames).NotTo(BeEmpty())
			Expect(s.State()).To(Equal(session.Completed))
			Expect(s.Dataset()).To(Equal(dataset.Dataset{1, 3, 5, 8}))
			Expect(run.Err()).NotTo(HaveOccurred())
		})

		It("silently ignores a start while Running", func() {
			run, started, err := s.Begin("selection")
			Expect(err).NotTo(HaveOccurred())
			Expect(started).To(BeTrue())

			again, started, err := s.Begin("selection")
			Expect(err).NotTo(HaveOccurred())
			Expect(started).To(BeFalse())
			Expect(again).To(BeNil())

			drain(run)
			Expect(s.State()).To(Equal(session.Completed))
		})

		It("ignores a start once Completed until reset", func() {
			run, _, _ := s.Begin("selection")
			drain(run)

			_, started, err := s.Begin("selection")
			Expect(err).NotTo(HaveOccurred())
			Expect(started).To(BeFalse())

			Expect(s.Reset()).To(BeTrue())
			Expect(s.State()).To(Equal(session.Idle))
			_, started, _ = s.Begin("selection")
			Expect(started).To(BeTrue())
		})

		It("completes immediately on an empty dataset", func() {
			Expect(s.Reseed(dataset.Dataset{})).To(BeTrue())
			run, started, err := s.Begin("quick")
			Expect(err).NotTo(HaveOccurred())
			Expect(started).To(BeFalse())
			Expect(run).To(BeNil())
			Expect(s.State()).To(Equal(session.Completed))
		})

		It("rejects input the algorithm cannot sort", func() {
			s.Reseed(dataset.Dataset{3, -1, 2})
			_, started, err := s.Begin("radix")
			Expect(started).To(BeFalse())
			Expect(errors.Is(err, input.ErrInput)).To(BeTrue())
			Expect(s.State()).To(Equal(session.Idle))
		})

		It("rejects unknown algorithms", func() {
			_, _, err := s.Begin("bogo")
			Expect(err).To(MatchError("unknown algorithm: bogo"))
		})

		It("adds the closing MarkSorted only for uncovered indices", func() {
			run, _, _ := s.Begin("quick")
			for _, f := range drain(run) {
				Expect(f.Synthetic).To(BeFalse())
			}
		})

		It("reports counters in the result", func() {
			run, _, _ := s.Begin("selection")
			drain(run)
			res := run.Result()
			Expect(res.Metrics).To(HaveKeyWithValue("compares", 6.0))
			Expect(res.Final).To(Equal(dataset.Dataset{1, 3, 5, 8}))
		})
	})

	Describe("Start", func() {
		It("runs exactly once when started twice concurrently", func() {
			paced := session.New(
				session.WithDataset(dataset.Dataset{9, 8, 7, 6, 5, 4, 3, 2, 1}),
				session.WithDriverOptions(driver.WithSleeper(func(ctx context.Context, d time.Duration) error {
					time.Sleep(time.Millisecond)
					return nil
				})),
			)

			var runs atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, started, err := paced.Start(context.Background(), "bubble")
					Expect(err).NotTo(HaveOccurred())
					if started {
						runs.Add(1)
					}
				}()
			}
			wg.Wait()

			Expect(runs.Load()).To(Equal(int32(1)))
			Expect(paced.State()).To(Equal(session.Completed))
			Expect(paced.Dataset().IsSorted()).To(BeTrue())
		})

		It("returns to Idle with the original data on cancel", func() {
			ctx, cancel := context.WithCancel(context.Background())
			frames := 0
			observer := driver.ObserverFunc(func(f driver.Frame) {
				frames++
				if frames == 3 {
					cancel()
				}
			})

			paced := session.New(
				session.WithDataset(dataset.Dataset{4, 3, 2, 1}),
				session.WithDriverOptions(driver.WithSleeper(func(ctx context.Context, d time.Duration) error {
					return ctx.Err()
				})),
			)
			res, started, err := paced.Start(ctx, "bubble", observer)
			Expect(started).To(BeTrue())
			Expect(errors.Is(err, driver.ErrCanceled)).To(BeTrue())
			Expect(res.Canceled).To(BeTrue())
			Expect(paced.State()).To(Equal(session.Idle))
			Expect(paced.Dataset()).To(Equal(dataset.Dataset{4, 3, 2, 1}))
		})
	})

	Describe("controls", func() {
		It("rejects reseed, reset and algorithm changes while Running", func() {
			run, _, _ := s.Begin("selection")

			Expect(s.Reseed(dataset.Dataset{1, 2})).To(BeFalse())
			Expect(s.Reset()).To(BeFalse())
			Expect(s.SetAlgorithm("merge")).To(MatchError(session.ErrRunning))
			Expect(s.Dataset()).To(Equal(dataset.Dataset{5, 3, 8, 1}))

			run.Cancel()
			Expect(s.State()).To(Equal(session.Idle))
			Expect(s.Reseed(dataset.Dataset{1, 2})).To(BeTrue())
		})

		It("clamps speed and applies it at the next start", func() {
			Expect(s.SetSpeed(0)).To(Equal(1))
			Expect(s.SetSpeed(11)).To(Equal(10))

			run, _, _ := s.Begin("selection")
			s.SetSpeed(3)
			Expect(run.Speed()).To(Equal(10))

			f, delay, ok := run.Next()
			Expect(ok).To(BeTrue())
			Expect(f.Op.Kind).To(Equal(ops.KindMarkRegion))
			Expect(delay).To(Equal(100 * time.Millisecond))
		})

		It("notifies listeners on every transition", func() {
			var seen []session.State
			s.OnChange(func(st session.State) { seen = append(seen, st) })

			run, _, _ := s.Begin("insertion")
			drain(run)
			s.Reset()

			Expect(seen).To(Equal([]session.State{session.Running, session.Completed, session.Idle}))
		})

		It("switches algorithms when not running", func() {
			Expect(s.SetAlgorithm("merge")).To(Succeed())
			Expect(s.Algorithm()).To(Equal("merge"))
			Expect(s.SetAlgorithm("bogo")).To(HaveOccurred())
		})
	})
})
