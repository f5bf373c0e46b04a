package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ja7ad/slowion/pkg/islow5"
	"github.com/ja7ad/slowion/pkg/slow5"
	"github.com/ja7ad/slowion/pkg/stats"
	"github.com/ja7ad/slowion/pkg/types"
)

// acquirer simulates continuous signal generation on every channel of one
// position at real-time pace. Short reads that fit in a single chunk go
// straight to the direct container; long reads are chunk-streamed to one
// spill file per read.
type acquirer struct {
	opt   *Opt
	mypos int
	pos   *position

	uni     *rand.Rand
	lengths distuv.Gamma
	direct  *slow5.Writer
	acc     *stats.Accumulator

	completed  int64 // reads fully acquired
	directDone int64 // reads written to the direct container
	spillDone  int64 // spill files published to the consolidator
}

// acquire runs the acquisition worker for one position.
func acquire(opt *Opt, mypos int, pos *position) error {
	slog.Info("starting acquisition", "pos", mypos)

	direct, err := createContainer(opt, mypos, 0)
	if err != nil {
		return err
	}

	a := &acquirer{
		opt:     opt,
		mypos:   mypos,
		pos:     pos,
		uni:     newUniform(opt.Seed),
		lengths: newLengths(opt.Seed, opt.MeanSlen),
		direct:  direct,
		acc:     stats.New(),
	}

	for range opt.Iterations {
		t0 := time.Now()
		completed0, samples0 := a.completed, pos.totalSamples.Load()

		for i, ch := range pos.chans {
			if err := a.stepChannel(i, ch); err != nil {
				return err
			}
		}
		if err := a.direct.Flush(); err != nil {
			return fmt.Errorf("flushing direct container: %w", err)
		}

		elapsed := time.Since(t0)
		dSamples := pos.totalSamples.Load() - samples0
		res := a.acc.Apply(stats.Tick{
			Reads:   a.completed - completed0,
			Samples: dSamples,
			Bytes:   types.SamplesBytes(uint64(dSamples)),
			Elapsed: elapsed.Seconds(),
			Budget:  float64(opt.CT),
		})
		if res.Lagged {
			slog.Warn("acquisition is lagging", "pos", mypos, "elapsed", elapsed.Seconds(), "ct", opt.CT)
		} else {
			slog.Info("acquisition tick", "pos", mypos,
				"reads", a.completed, "direct", a.directDone, "spilled", a.spillDone)
			time.Sleep(time.Duration(opt.CT)*time.Second - elapsed)
		}
		pos.cDirect.Store(a.directDone)
	}

	if err := a.finish(); err != nil {
		return err
	}
	if err := a.direct.Close(); err != nil {
		return err
	}
	pos.aqDone.Store(true)
	return nil
}

// stepChannel advances one channel by at most one chunk.
func (a *acquirer) stepChannel(i int, ch *channel) error {
	if ch.lenRawSignal == 0 {
		ch.lenRawSignal = uint64(math.Round(a.lengths.Rand()))
		ch.aq = 0
		ch.chunkNumber = 0
		slog.Debug("read started", "pos", a.mypos, "chan", i,
			"read", ch.readNumber, "samples", ch.lenRawSignal)
	}

	if ch.aq < ch.lenRawSignal {
		n := min(uint64(a.opt.CZ), ch.lenRawSignal-ch.aq)
		buf := ch.rawSignal[:n]
		for j := range buf {
			buf[j] = int16(500 + math.Round(a.uni.Float64()*1000-500))
		}
		ch.chunkNumber++

		switch {
		case ch.chunkNumber == 1 && ch.aq+n == ch.lenRawSignal:
			// short read, fits in one chunk
			rec := newRecord(a.opt, a.mypos, i, ch.readNumber, buf)
			if err := a.direct.WriteRecord(rec); err != nil {
				return fmt.Errorf("writing direct record: %w", err)
			}
			a.directDone++
		case ch.chunkNumber == 1:
			w, err := islow5.Create(spillPath(a.opt.Dir, a.mypos, i, ch.cISlow5.Load()), ch.readNumber)
			if err != nil {
				return err
			}
			ch.spill = w
			if err := w.WriteChunk(buf); err != nil {
				return err
			}
		default:
			if err := ch.spill.WriteChunk(buf); err != nil {
				return err
			}
		}
		ch.aq += n
	}

	if ch.aq == ch.lenRawSignal {
		if ch.chunkNumber > 1 {
			if err := ch.spill.Close(); err != nil {
				return err
			}
			ch.spill = nil
			ch.cISlow5.Add(1) // published: the consolidator may pick it up now
			a.spillDone++
		}
		a.pos.totalSamples.Add(int64(ch.lenRawSignal))
		ch.lenRawSignal = 0
		ch.readNumber++
		a.completed++
	}
	return nil
}

// finish deletes half-acquired spill files (they were never published) and
// checks read conservation before the worker exits.
func (a *acquirer) finish() error {
	var halfDone, sumReadNumber int64
	for i, ch := range a.pos.chans {
		if ch.aq > 0 && ch.aq < ch.lenRawSignal {
			if err := ch.spill.Close(); err != nil {
				return err
			}
			ch.spill = nil
			path := spillPath(a.opt.Dir, a.mypos, i, ch.cISlow5.Load())
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("deleting half done spill file: %w", err)
			}
			halfDone++
		}
		sumReadNumber += int64(ch.readNumber)
	}
	slog.Debug("half done spill files deleted", "pos", a.mypos, "count", halfDone)

	if a.completed != a.directDone+a.spillDone {
		return fmt.Errorf("%w: %d reads acquired but %d direct + %d spilled",
			ErrInvariant, a.completed, a.directDone, a.spillDone)
	}
	if a.completed != sumReadNumber {
		return fmt.Errorf("%w: %d reads acquired but read numbers sum to %d",
			ErrInvariant, a.completed, sumReadNumber)
	}
	return nil
}
