package sim

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ja7ad/slowion/pkg/islow5"
	"github.com/ja7ad/slowion/pkg/slow5"
	"github.com/ja7ad/slowion/pkg/stats"
	"github.com/ja7ad/slowion/pkg/types"
)

// consolidate runs the consolidator worker for one position: it turns each
// published spill file into a single record in the streamed container and
// deletes the spill. After acquisition finishes it runs two further ticks,
// which is enough to drain counts published in acquisition's final tick.
func consolidate(opt *Opt, mypos int, pos *position) error {
	slog.Info("starting consolidator", "pos", mypos)

	streamed, err := createContainer(opt, mypos, 1)
	if err != nil {
		return err
	}

	acc := stats.New()
	var done int64

	// let acquisition accumulate a first round of spill files
	time.Sleep(time.Duration(opt.CT+1) * time.Second)

	for cont := 2; cont > 0; {
		t0 := time.Now()
		var dReads, dSamples int64

		for i, ch := range pos.chans {
			aqN := ch.cISlow5.Load()
			for j := ch.cS; j < aqN; j++ {
				samples, err := consolidateOne(opt, streamed, mypos, i, j)
				if err != nil {
					return err
				}
				done++
				dReads++
				dSamples += samples
			}
			if ch.cS < aqN {
				ch.cS = aqN
			}
		}

		if err := streamed.Flush(); err != nil {
			return fmt.Errorf("flushing streamed container: %w", err)
		}

		elapsed := time.Since(t0)
		res := acc.Apply(stats.Tick{
			Reads:   dReads,
			Samples: dSamples,
			Bytes:   types.SamplesBytes(uint64(dSamples)),
			Elapsed: elapsed.Seconds(),
			Budget:  float64(opt.CT),
		})
		if res.Lagged {
			slog.Warn("consolidation is lagging", "pos", mypos, "elapsed", elapsed.Seconds(), "ct", opt.CT)
		} else {
			slog.Info("consolidation tick", "pos", mypos, "reads", done)
			time.Sleep(time.Duration(opt.CT)*time.Second - elapsed)
		}

		if pos.aqDone.Load() {
			cont--
		}
		pos.cS.Store(done)
	}

	if err := streamed.Close(); err != nil {
		return err
	}
	pos.sDone.Store(true)

	// best effort: the spill directory should be empty by now
	if err := os.Remove(posDir(opt.Dir, mypos)); err != nil {
		slog.Warn("could not remove spill directory", "pos", mypos, "err", err)
	}
	return nil
}

// consolidateOne materialises spill file index of one channel as a record
// in the streamed container, then deletes the spill. Failing to delete an
// already-consumed spill is only warned: the final output is intact.
func consolidateOne(opt *Opt, streamed *slow5.Writer, mypos, chanIdx int, index int32) (int64, error) {
	path := spillPath(opt.Dir, mypos, chanIdx, index)
	readNumber, signal, err := islow5.ReadAll(path)
	if err != nil {
		return 0, err
	}
	rec := newRecord(opt, mypos, chanIdx, readNumber, signal)
	if err := streamed.WriteRecord(rec); err != nil {
		return 0, fmt.Errorf("writing streamed record: %w", err)
	}
	if err := os.Remove(path); err != nil {
		slog.Warn("could not delete spill file", "path", path, "err", err)
	}
	return int64(len(signal)), nil
}
