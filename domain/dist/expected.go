package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"simrng/domain/stats"
)

// Partition adjusts a sample-derived partition to the one this distribution is
// tested on. Uniform snaps to its own support keeping the bin count; Poisson
// uses one unit-width bin per integer in [floor(lower), ceil(upper)]; the
// continuous unbounded families keep the partition unchanged.
func (d Descriptor) Partition(p stats.Partition) stats.Partition {
	switch d.Kind {
	case KindUniform:
		return stats.Partition{Lower: d.Lower, Upper: d.Upper, Intervals: p.Intervals}
	case KindPoisson:
		lower := math.Floor(p.Lower)
		upper := math.Ceil(p.Upper)
		n := int(upper-lower) + 1
		return stats.Partition{Lower: lower, Upper: lower + float64(n), Intervals: n}
	default:
		return p
	}
}

// Probabilities returns the theoretical mass of every bin of p. The sum is at
// most 1; it falls short when the support extends past the partition.
func (d Descriptor) Probabilities(p stats.Partition) []float64 {
	probs := make([]float64, p.Intervals)
	size := p.Width()

	switch d.Kind {
	case KindUniform:
		span := d.Upper - d.Lower
		for i := range probs {
			lo, hi := p.Bounds(i)
			overlap := math.Min(hi, d.Upper) - math.Max(lo, d.Lower)
			if overlap > 0 {
				probs[i] = overlap / span
			}
		}
	case KindNormal:
		// Midpoint rule: density at the class mark times the bin width.
		normal := distuv.Normal{Mu: d.Mean, Sigma: d.SD}
		for i := range probs {
			probs[i] = normal.Prob(p.Midpoint(i)) * size
		}
	case KindExponential:
		exp := distuv.Exponential{Rate: d.Lambda}
		for i := range probs {
			lo, hi := p.Bounds(i)
			probs[i] = exp.CDF(hi) - exp.CDF(lo)
		}
	case KindPoisson:
		poisson := distuv.Poisson{Lambda: d.Lambda}
		for i := range probs {
			lo, _ := p.Bounds(i)
			n := math.Floor(lo)
			if n >= 0 {
				probs[i] = poisson.Prob(n)
			}
		}
	}
	return probs
}

// Degrees returns the chi-squared degrees of freedom for k merged intervals,
// never less than 1. Normal subtracts three: the total count constraint plus
// the estimated mean and standard deviation.
func (d Descriptor) Degrees(k int) int {
	var df int
	switch d.Kind {
	case KindUniform:
		df = k - 1
	case KindNormal:
		df = k - 3
	case KindExponential, KindPoisson:
		df = k - 2
	default:
		df = k - 1
	}
	if df < 1 {
		return 1
	}
	return df
}
