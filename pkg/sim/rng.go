package sim

import (
	"math/rand/v2"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// newUniform returns the U(0,1) sample-noise source for a position.
func newUniform(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// newLengths returns the read-length source for a position: gamma with
// shape 2.0 and scale meanSlen/2, so the mean draw is meanSlen samples.
// Seeded with seed+1 to keep the two streams independent. distuv draws
// from an x/exp/rand source, so the two generators run on different
// PRNG stacks.
func newLengths(seed int64, meanSlen int) distuv.Gamma {
	return distuv.Gamma{
		Alpha: 2.0,
		Beta:  2.0 / float64(meanSlen),
		Src:   xrand.NewSource(uint64(seed + 1)),
	}
}
