package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniform_RangeAndDeterminism(t *testing.T) {
	a := newUniform(5)
	b := newUniform(5)
	c := newUniform(6)

	var diverged bool
	for range 1000 {
		ua, ub, uc := a.Float64(), b.Float64(), c.Float64()
		require.GreaterOrEqual(t, ua, 0.0)
		require.Less(t, ua, 1.0)
		require.Equal(t, ua, ub)
		if ua != uc {
			diverged = true
		}
	}
	assert.True(t, diverged, "different seeds should give different streams")
}

func TestLengths_MeanAndDeterminism(t *testing.T) {
	const meanSlen = 30000

	a := newLengths(5, meanSlen)
	b := newLengths(5, meanSlen)

	var sum float64
	const n = 20000
	for range n {
		va := a.Rand()
		require.Equal(t, va, b.Rand())
		require.GreaterOrEqual(t, va, 0.0)
		sum += va
	}
	// gamma(shape 2, scale mean/2) has mean meanSlen and sd meanSlen/sqrt(2);
	// the sample mean over 20k draws stays well within 2%
	assert.InEpsilon(t, float64(meanSlen), sum/n, 0.02)
}
