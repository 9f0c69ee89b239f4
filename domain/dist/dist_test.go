package dist

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simrng/domain/core"
	"simrng/domain/stats"
)

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func truncate(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Trunc(x*scale) / scale
}

func TestUniformProbabilitiesFullOverlap(t *testing.T) {
	d := Uniform(0, 5)
	probs := d.Probabilities(stats.Partition{Lower: 0, Upper: 5, Intervals: 5})

	assert.Equal(t, []float64{0.2, 0.2, 0.2, 0.2, 0.2}, probs)
	assert.InDelta(t, 1.0, sum(probs), 1e-9)
}

func TestUniformProbabilitiesPartialOverlap(t *testing.T) {
	d := Uniform(0, 0.5)
	probs := d.Probabilities(stats.Partition{Lower: 0, Upper: 1, Intervals: 4})

	assert.Equal(t, []float64{0.5, 0.5, 0, 0}, probs)
}

func TestUniformProbabilitiesStraddlingBin(t *testing.T) {
	d := Uniform(0.5, 2.5)
	probs := d.Probabilities(stats.Partition{Lower: 0, Upper: 3, Intervals: 3})

	assert.InDeltaSlice(t, []float64{0.25, 0.5, 0.25}, probs, 1e-12)
}

func TestNormalProbabilitiesMidpointRule(t *testing.T) {
	d := Normal(10, 2, AlgorithmBoxMuller)
	probs := d.Probabilities(stats.Partition{Lower: 6, Upper: 14, Intervals: 8})

	want := []float64{0.043138, 0.091324, 0.150568, 0.193334, 0.193334, 0.150568, 0.091324, 0.043138}
	require.Len(t, probs, len(want))
	for i := range want {
		assert.Equal(t, want[i], truncate(probs[i], 6), "bin %d", i)
		assert.InDelta(t, probs[i], probs[len(probs)-1-i], 1e-15, "symmetry at bin %d", i)
	}
	assert.InDelta(t, 1.0, sum(probs), 0.05)
}

func TestExponentialProbabilitiesUseCDFDifference(t *testing.T) {
	d := Exponential(0.5)
	p := stats.Partition{Lower: 0, Upper: 4, Intervals: 2}
	probs := d.Probabilities(p)

	assert.InDelta(t, 1-math.Exp(-1), probs[0], 1e-12)
	assert.InDelta(t, math.Exp(-1)-math.Exp(-2), probs[1], 1e-12)
}

func TestPoissonPartitionAndProbabilities(t *testing.T) {
	d := Poisson(2.5)
	p := d.Partition(stats.Partition{Lower: 0, Upper: 9, Intervals: 4})

	assert.Equal(t, stats.Partition{Lower: 0, Upper: 10, Intervals: 10}, p)
	assert.Equal(t, 1.0, p.Width())

	probs := d.Probabilities(p)
	require.Len(t, probs, 10)
	assert.InDelta(t, 8.208499862389880e-02, probs[0], 1e-10)
	assert.InDelta(t, 2.565156206996838e-01, probs[2], 1e-10)
	assert.InDelta(t, 8.629007379834082e-04, probs[9], 1e-10)
	assert.InDelta(t, 1.0, sum(probs), 1e-3)
}

func TestPoissonLargeCountsStayFinite(t *testing.T) {
	d := Poisson(150)
	probs := d.Probabilities(d.Partition(stats.Partition{Lower: 100, Upper: 200, Intervals: 1}))

	for i, p := range probs {
		assert.False(t, math.IsNaN(p) || math.IsInf(p, 0), "bin %d not finite: %v", i, p)
	}
	assert.InDelta(t, 1.0, sum(probs), 1e-3)
}

func TestUniformPartitionSnapsToSupport(t *testing.T) {
	d := Uniform(2, 7)
	p := d.Partition(stats.Partition{Lower: 2, Upper: 7, Intervals: 10})
	assert.Equal(t, stats.Partition{Lower: 2, Upper: 7, Intervals: 10}, p)

	p = d.Partition(stats.Partition{Lower: 1, Upper: 8, Intervals: 5})
	assert.Equal(t, stats.Partition{Lower: 2, Upper: 7, Intervals: 5}, p)
}

func TestContinuousPartitionUnchanged(t *testing.T) {
	p := stats.Partition{Lower: -3, Upper: 4, Intervals: 7}
	assert.Equal(t, p, Normal(0, 1, AlgorithmConvolution).Partition(p))
	assert.Equal(t, p, Exponential(1).Partition(p))
}

func TestDegrees(t *testing.T) {
	cases := []struct {
		d    Descriptor
		k    int
		want int
	}{
		{Uniform(0, 1), 10, 9},
		{Normal(0, 1, AlgorithmBoxMuller), 10, 7},
		{Exponential(1), 10, 8},
		{Poisson(3), 10, 8},
		{Normal(0, 1, AlgorithmBoxMuller), 3, 1},
		{Exponential(1), 1, 1},
		{Uniform(0, 1), 1, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.d.Degrees(tc.k), "%s with k=%d", tc.d, tc.k)
	}
}

func TestValidate(t *testing.T) {
	valid := []Descriptor{
		Uniform(0, 1),
		Normal(0, 1, AlgorithmBoxMuller),
		Normal(0, 1, AlgorithmConvolution),
		Exponential(2),
		Poisson(4),
	}
	for _, d := range valid {
		assert.NoError(t, d.Validate(), d.String())
	}

	invalid := []Descriptor{
		Uniform(1, 1),
		Uniform(math.NaN(), 1),
		Normal(0, 0, AlgorithmBoxMuller),
		Normal(0, 1, "polar"),
		Exponential(0),
		Poisson(-1),
		{Kind: "gamma"},
	}
	for _, d := range invalid {
		err := d.Validate()
		assert.True(t, errors.Is(err, core.ErrInvalidDistribution), "%s: %v", d, err)
	}
}

func TestParseKindAndNormalize(t *testing.T) {
	k, err := ParseKind(" Normal ")
	require.NoError(t, err)
	assert.Equal(t, KindNormal, k)

	_, err = ParseKind("cauchy")
	assert.ErrorIs(t, err, core.ErrInvalidDistribution)

	d := Descriptor{Kind: "NORMAL", Mean: 1, SD: 1}.Normalize()
	assert.Equal(t, KindNormal, d.Kind)
	assert.Equal(t, AlgorithmBoxMuller, d.Algorithm)
	assert.Equal(t, "Normal(mean=1, sd=1, box-muller)", d.String())
}
