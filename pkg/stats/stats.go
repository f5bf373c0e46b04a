// Package stats accumulates per-tick accounting for a pipeline worker:
// reads and samples moved per tick, bytes touched, and how often the tick
// overran its real-time budget. Workers use the per-tick Result to choose
// between a progress line and a lag warning; the running totals and
// averages are not reported in the progress lines or the exit summary.
package stats

import "github.com/ja7ad/slowion/pkg/types"

// Tick is one worker iteration's accounting.
type Tick struct {
	Reads   int64       // reads moved this tick
	Samples int64       // samples moved this tick
	Bytes   types.Bytes // raw signal bytes moved this tick
	Elapsed float64     // measured tick duration, seconds
	Budget  float64     // nominal tick duration (ct), seconds
}

// Result is the instantaneous view of one applied tick.
type Result struct {
	Lagged      bool    // Elapsed exceeded Budget
	ReadsPerS   float64 // reads/second over this tick's budget
	SamplesPerS float64
}

// Accumulator keeps running totals and averages.
type Accumulator struct {
	ticks   int
	lagged  int
	reads   int64
	samples int64
	bytes   types.Bytes
	elapsed float64
}

// New creates an empty accumulator.
func New() *Accumulator { return &Accumulator{} }

// Apply folds one tick into the running totals and returns its
// instantaneous view.
func (a *Accumulator) Apply(t Tick) Result {
	a.ticks++
	a.reads += t.Reads
	a.samples += t.Samples
	a.bytes += t.Bytes
	a.elapsed += t.Elapsed

	res := Result{Lagged: t.Elapsed > t.Budget}
	if res.Lagged {
		a.lagged++
	}
	if t.Budget > 0 {
		res.ReadsPerS = float64(t.Reads) / t.Budget
		res.SamplesPerS = float64(t.Samples) / t.Budget
	}
	return res
}

// Ticks returns the number of applied ticks.
func (a *Accumulator) Ticks() int { return a.ticks }

// Reads returns the cumulative read count.
func (a *Accumulator) Reads() int64 { return a.reads }

// Samples returns the cumulative sample count.
func (a *Accumulator) Samples() int64 { return a.samples }

// Bytes returns the cumulative raw signal bytes moved.
func (a *Accumulator) Bytes() types.Bytes { return a.bytes }

// LagFraction returns the fraction of ticks that overran their budget.
func (a *Accumulator) LagFraction() float64 {
	if a.ticks == 0 {
		return 0
	}
	return float64(a.lagged) / float64(a.ticks)
}

// Averages returns per-tick means over all applied ticks.
func (a *Accumulator) Averages() (reads, samples, elapsed float64) {
	if a.ticks == 0 {
		return 0, 0, 0
	}
	n := float64(a.ticks)
	return float64(a.reads) / n, float64(a.samples) / n, a.elapsed / n
}
