package goodness

import (
	"gonum.org/v1/gonum/stat/distuv"

	"simrng/domain/core"
	"simrng/domain/dist"
	domainstats "simrng/domain/stats"
)

// DefaultAlpha is the significance level used when none is given.
const DefaultAlpha = 0.05

// Statistic returns the Pearson statistic, skipping intervals with no
// expected frequency.
func Statistic(intervals []domainstats.Interval) float64 {
	var sum float64
	for _, iv := range intervals {
		if iv.Expected > 0 {
			diff := iv.Observed - iv.Expected
			sum += diff * diff / iv.Expected
		}
	}
	return sum
}

// Evaluator runs the goodness-of-fit test of a histogram against a
// distribution.
type Evaluator struct {
	Threshold float64
	Alpha     float64
	Resolver  Resolver
}

// NewEvaluator returns an evaluator with the default threshold, alpha and
// a Newton-Raphson resolver.
func NewEvaluator() Evaluator {
	return Evaluator{Threshold: DefaultThreshold, Alpha: DefaultAlpha, Resolver: NewNewtonResolver()}
}

// Evaluate computes expected frequencies over h's partition, merges sparse
// intervals and compares the statistic against the critical value.
func (e Evaluator) Evaluate(d dist.Descriptor, h domainstats.Histogram) (domainstats.TestResult, error) {
	if err := d.Validate(); err != nil {
		return domainstats.TestResult{}, err
	}
	n := h.Total()
	if n == 0 {
		return domainstats.TestResult{}, core.ErrEmptySample
	}
	alpha := e.Alpha
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	if !(alpha > 0 && alpha < 1) {
		return domainstats.TestResult{}, core.ErrInvalidSignificance
	}
	threshold := e.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	resolver := e.Resolver
	if resolver == nil {
		resolver = NewNewtonResolver()
	}

	expected := Expected(d, h.Partition, int(n))
	merged := Merge(Intervals(h, expected), threshold)
	calculated := Statistic(merged)
	df := d.Degrees(len(merged))

	critical, err := resolver.Critical(df, alpha)
	if err != nil {
		return domainstats.TestResult{}, err
	}

	return domainstats.TestResult{
		Calculated:       calculated,
		Critical:         critical,
		PValue:           distuv.ChiSquared{K: float64(df)}.Survival(calculated),
		Alpha:            alpha,
		DegreesOfFreedom: df,
		Reject:           calculated > critical,
		Intervals:        merged,
	}, nil
}
