package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/slowion/pkg/types"
)

func TestAccumulator_Sequence(t *testing.T) {
	acc := New()

	ticks := []Tick{
		{Reads: 10, Samples: 100_000, Bytes: 200_000, Elapsed: 1.2, Budget: 15},
		{Reads: 0, Samples: 0, Bytes: 0, Elapsed: 0.1, Budget: 15},
		{Reads: 25, Samples: 300_000, Bytes: 600_000, Elapsed: 16.0, Budget: 15},
		{Reads: 5, Samples: 40_000, Bytes: 80_000, Elapsed: 2.0, Budget: 15},
	}

	var lagged int
	for i, tk := range ticks {
		res := acc.Apply(tk)
		if res.Lagged {
			lagged++
		}
		require.InDelta(t, float64(tk.Reads)/tk.Budget, res.ReadsPerS, 1e-12, "tick %d", i)
		require.InDelta(t, float64(tk.Samples)/tk.Budget, res.SamplesPerS, 1e-12, "tick %d", i)
	}

	assert.Equal(t, 4, acc.Ticks())
	assert.Equal(t, int64(40), acc.Reads())
	assert.Equal(t, int64(440_000), acc.Samples())
	assert.Equal(t, types.Bytes(880_000), acc.Bytes())
	assert.Equal(t, 1, lagged)
	assert.InDelta(t, 0.25, acc.LagFraction(), 1e-12)

	reads, samples, elapsed := acc.Averages()
	assert.InDelta(t, 10.0, reads, 1e-12)
	assert.InDelta(t, 110_000.0, samples, 1e-12)
	assert.InDelta(t, (1.2+0.1+16.0+2.0)/4, elapsed, 1e-12)
}

func TestAccumulator_Empty(t *testing.T) {
	acc := New()
	assert.Zero(t, acc.LagFraction())
	reads, samples, elapsed := acc.Averages()
	assert.Zero(t, reads)
	assert.Zero(t, samples)
	assert.Zero(t, elapsed)
}

func TestApply_ZeroBudget(t *testing.T) {
	acc := New()
	res := acc.Apply(Tick{Reads: 3, Samples: 30, Elapsed: 0.5})
	assert.True(t, res.Lagged) // elapsed > 0 budget
	assert.Zero(t, res.ReadsPerS)
}
