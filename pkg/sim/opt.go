package sim

import "fmt"

// Opt holds the simulation options. Derived fields are filled once by
// Derive; workers treat the whole value as immutable after that.
type Opt struct {
	BPS      int    // translocation speed, bases/second
	MeanRlen int    // mean read length, bases
	SimTime  int    // total simulated wall seconds
	NPos     int    // number of positions
	NChan    int    // channels per position
	Freq     int    // sampling frequency, Hz
	Dir      string // output directory, must not pre-exist
	Seed     int64  // base seed for the random generators

	// derived
	MeanSlen   int // mean read length, samples
	CZ         int // chunk size, samples
	CT         int // chunk duration, whole seconds
	Iterations int // acquisition ticks
}

// Default returns the stock options. Derive must still be called after
// any overrides.
func Default() *Opt {
	return &Opt{
		BPS:      400,
		MeanRlen: 10000,
		SimTime:  300,
		NPos:     1,
		NChan:    512,
		Freq:     4000,
		Dir:      "./output/",
		Seed:     5,
	}
}

// Derive computes the chunking parameters and checks their invariants:
// a chunk must span more than a second of signal, fit inside the
// simulation time, and leave at least one tick to run.
func (o *Opt) Derive() error {
	o.MeanSlen = o.MeanRlen * o.Freq / o.BPS
	if 2*o.MeanSlen <= o.Freq {
		return fmt.Errorf("%w: 2*mean_slen (%d) must exceed freq (%d)", ErrBadOptions, 2*o.MeanSlen, o.Freq)
	}
	o.CZ = 2 * o.MeanSlen
	o.CT = o.CZ / o.Freq
	if o.CT < 1 {
		return fmt.Errorf("%w: chunk duration %d must be at least a second", ErrBadOptions, o.CT)
	}
	if o.SimTime <= o.CT {
		return fmt.Errorf("%w: sim time %d must exceed chunk duration %d", ErrBadOptions, o.SimTime, o.CT)
	}
	o.Iterations = o.SimTime / o.CT
	if o.Iterations < 1 {
		return fmt.Errorf("%w: no full tick fits in %d seconds", ErrBadOptions, o.SimTime)
	}
	return nil
}
