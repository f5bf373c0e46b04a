package sim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ja7ad/slowion/pkg/slow5"
	"github.com/ja7ad/slowion/pkg/stats"
	"github.com/ja7ad/slowion/pkg/types"
)

// basecall runs the pseudo-basecaller for one position. It reads both
// final containers sequentially as the writers advertise new records,
// exercising the read-side I/O workload without doing any actual
// basecalling, and validates sample conservation at the end.
func basecall(opt *Opt, mypos int, pos *position) error {
	slog.Info("starting pseudo-basecaller", "pos", mypos)

	// let both writers get ahead
	time.Sleep(time.Duration(2*opt.CT+1) * time.Second)

	direct, err := slow5.Open(containerPath(opt.Dir, mypos, 0))
	if err != nil {
		return err
	}
	defer direct.Close()
	streamed, err := slow5.Open(containerPath(opt.Dir, mypos, 1))
	if err != nil {
		return err
	}
	defer streamed.Close()

	acc := stats.New()
	var samples, doneBD, doneBS int64

	for cont := 2; cont > 0; {
		t0 := time.Now()
		var dReads, dSamples int64

		sN, bN := pos.cDirect.Load(), pos.cBD
		for j := bN; j < sN; j++ {
			rec, err := direct.Next()
			if err != nil {
				return fmt.Errorf("reading direct container: %w", err)
			}
			samples += int64(rec.LenRawSignal)
			dSamples += int64(rec.LenRawSignal)
			doneBD++
			dReads++
		}
		if bN < sN {
			pos.cBD = sN
		}

		sN, bN = pos.cS.Load(), pos.cBS
		for j := bN; j < sN; j++ {
			rec, err := streamed.Next()
			if err != nil {
				return fmt.Errorf("reading streamed container: %w", err)
			}
			samples += int64(rec.LenRawSignal)
			dSamples += int64(rec.LenRawSignal)
			doneBS++
			dReads++
		}
		if bN < sN {
			pos.cBS = sN
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
			slog.Warn("pseudo-basecalling is lagging", "pos", mypos, "elapsed", elapsed.Seconds(), "ct", opt.CT)
		} else {
			slog.Info("pseudo-basecalled", "pos", mypos,
				"reads", doneBD+doneBS, "direct", doneBD, "streamed", doneBS, "samples", samples)
			time.Sleep(time.Duration(opt.CT)*time.Second - elapsed)
		}

		if pos.aqDone.Load() && pos.sDone.Load() {
			cont--
		}
	}

	// both containers must be fully drained
	if _, err := direct.Next(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: direct container not at clean EOF: %v", ErrInvariant, err)
	}
	if _, err := streamed.Next(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: streamed container not at clean EOF: %v", ErrInvariant, err)
	}

	total := pos.totalSamples.Load()
	slog.Info("pseudo-basecaller done", "pos", mypos, "total_samples", total, "basecalled_samples", samples)
	if samples != total {
		return fmt.Errorf("%w: basecalled %d samples, acquisition produced %d",
			ErrInvariant, samples, total)
	}
	return nil
}
