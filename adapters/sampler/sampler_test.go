package sampler

import (
	"context"
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simrng/adapters/rng"
	"simrng/domain/dist"
)

// fixed replays a list of uniforms.
type fixed struct {
	values []float64
	calls  int
}

func (f *fixed) Next() float64 {
	v := f.values[f.calls%len(f.values)]
	f.calls++
	return v
}

func TestNormalStateCachesPair(t *testing.T) {
	src := &fixed{values: []float64{0.3, 0.2}}
	var state NormalState

	state, first := state.Next(src, 10, 2)
	assert.True(t, state.Pending())
	assert.Equal(t, 2, src.calls)

	state, second := state.Next(src, 10, 2)
	assert.False(t, state.Pending())
	assert.Equal(t, 2, src.calls, "cached variate must not consume the source")

	z1, z2 := BoxMuller(&fixed{values: []float64{0.3, 0.2}})
	assert.InDelta(t, z1*2+10, first, 1e-12)
	assert.InDelta(t, z2*2+10, second, 1e-12)
}

func TestBoxMullerKnownValue(t *testing.T) {
	z1, z2 := BoxMuller(&fixed{values: []float64{1 - math.Exp(-0.5), 0}})
	assert.InDelta(t, 1.0, z1, 1e-12)
	assert.InDelta(t, 0.0, z2, 1e-12)
}

func TestSampleOddNormalCount(t *testing.T) {
	samples := Sample(rng.NewLCG(1), dist.Normal(0, 1, dist.AlgorithmBoxMuller), 7)
	assert.Len(t, samples, 7)
}

func TestSampleMoments(t *testing.T) {
	const n = 50000
	cases := []struct {
		d        dist.Descriptor
		mean, sd float64
	}{
		{dist.Uniform(2, 6), 4, 4 / math.Sqrt(12)},
		{dist.Normal(10, 2, dist.AlgorithmBoxMuller), 10, 2},
		{dist.Normal(10, 2, dist.AlgorithmConvolution), 10, 2},
		{dist.Exponential(0.5), 2, 2},
		{dist.Poisson(4), 4, 2},
	}
	for _, tc := range cases {
		t.Run(tc.d.String(), func(t *testing.T) {
			samples := Sample(rng.NewSystem(2024), tc.d, n)
			mean, err := stats.Mean(samples)
			require.NoError(t, err)
			sd, err := stats.StandardDeviation(samples)
			require.NoError(t, err)

			assert.InDelta(t, tc.mean, mean, 0.05*tc.sd*4, "mean")
			assert.InDelta(t, tc.sd, sd, 0.05*tc.sd, "sd")
		})
	}
}

func TestSampleSupport(t *testing.T) {
	for _, v := range Sample(rng.NewLCG(3), dist.Uniform(-1, 1), 1000) {
		require.True(t, v >= -1 && v < 1, "uniform out of support: %v", v)
	}
	for _, v := range Sample(rng.NewLCG(3), dist.Exponential(3), 1000) {
		require.True(t, v >= 0, "exponential out of support: %v", v)
	}
	for _, v := range Sample(rng.NewLCG(3), dist.Poisson(2), 1000) {
		require.True(t, v >= 0 && v == math.Trunc(v), "poisson not a count: %v", v)
	}
}

func TestPoissonLargeLambda(t *testing.T) {
	samples := Sample(rng.NewSystem(5), dist.Poisson(1200), 2000)
	mean, err := stats.Mean(samples)
	require.NoError(t, err)
	assert.InDelta(t, 1200, mean, 5)
}

func TestSampleDeterministicPerSeed(t *testing.T) {
	d := dist.Normal(0, 1, dist.AlgorithmBoxMuller)
	assert.Equal(t, Sample(rng.NewLCG(11), d, 64), Sample(rng.NewLCG(11), d, 64))
}

func TestSampleContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SampleContext(ctx, rng.NewLCG(1), dist.Uniform(0, 1), 10)
	assert.ErrorIs(t, err, context.Canceled)
}
