// Package sim implements a simulated nanopore sequencing instrument used
// to benchmark downstream storage and analysis pipelines. Per position it
// drives three cooperating workers under real-time deadlines: acquisition
// (per-channel chunked signal generation), consolidation (spill files into
// the streamed container), and a pseudo-basecaller consuming both final
// containers as records are advertised.
//
// Positions are fully independent. Within a position all cross-worker
// handoff happens over single-writer monotonic counters: the writer
// flushes its container, then stores the new count, so a reader observing
// count N may safely consume the first N records. There are no locks on
// the data path.
package sim

import (
	"fmt"
	"sync"
)

// Run builds the fleet and drives all 3*npos workers to completion. The
// first worker error aborts the run; there is no graceful shutdown path.
func Run(opt *Opt) error {
	fl, err := newFleet(opt)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	errc := make(chan error, 3*opt.NPos)
	spawn := func(name string, mypos int, fn func(*Opt, int, *position) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(opt, mypos, fl.pos[mypos]); err != nil {
				errc <- fmt.Errorf("%s pos %d: %w", name, mypos, err)
			}
		}()
	}

	for p := range fl.pos {
		spawn("acquisition", p, acquire)
		spawn("consolidator", p, consolidate)
		spawn("pseudo-basecaller", p, basecall)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// a failed worker never sets its done flag, so its downstream peers
	// would spin forever; report the first error instead of joining
	select {
	case err := <-errc:
		return err
	case <-done:
		select {
		case err := <-errc:
			return err
		default:
			return nil
		}
	}
}
