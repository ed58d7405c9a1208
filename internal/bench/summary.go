package bench

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

type Stat struct {
	Mean, Min, Max float64
}

func (s *Stat) add(v float64, n int) {
	if n == 0 || v < s.Min {
		s.Min = v
	}
	if n == 0 || v > s.Max {
		s.Max = v
	}
	s.Mean += (v - s.Mean) / float64(n+1)
}

// Summary aggregates the samples of one algorithm at one size.
type Summary struct {
	Algorithm  string
	Size       int
	Runs       int
	Compares   Stat
	Swaps      Stat
	Overwrites Stat
	Frames     Stat
	Elapsed    time.Duration
}

// Summarize groups samples by algorithm and size, keeping first-seen order.
func Summarize(samples []Sample) []Summary {
	type key struct {
		alg  string
		size int
	}
	index := make(map[key]int)
	var out []Summary
	var elapsed []time.Duration

	for _, s := range samples {
		k := key{s.Algorithm, s.Size}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Summary{Algorithm: s.Algorithm, Size: s.Size})
			elapsed = append(elapsed, 0)
		}
		sum := &out[i]
		sum.Compares.add(s.Metrics["compares"], sum.Runs)
		sum.Swaps.add(s.Metrics["swaps"], sum.Runs)
		sum.Overwrites.add(s.Metrics["overwrites"], sum.Runs)
		sum.Frames.add(float64(s.Frames), sum.Runs)
		elapsed[i] += s.Elapsed
		sum.Runs++
	}
	for i := range out {
		out[i].Elapsed = elapsed[i] / time.Duration(out[i].Runs)
	}
	return out
}

// WriteTable prints summaries as an aligned table.
func WriteTable(w io.Writer, summaries []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tN\tRUNS\tCOMPARES\tSWAPS\tOVERWRITES\tFRAMES\tTIME")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			s.Algorithm, s.Size, s.Runs,
			formatStat(s.Compares), formatStat(s.Swaps), formatStat(s.Overwrites),
			humanize.Comma(int64(math.Round(s.Frames.Mean))),
			s.Elapsed.Round(time.Microsecond))
	}
	return tw.Flush()
}

func formatStat(s Stat) string {
	mean := humanize.CommafWithDigits(s.Mean, 1)
	if s.Min == s.Max {
		return mean
	}
	return fmt.Sprintf("%s (%s-%s)", mean, humanize.Comma(int64(s.Min)), humanize.Comma(int64(s.Max)))
}
