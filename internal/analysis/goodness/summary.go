package goodness

import (
	"github.com/montanaflynn/stats"

	"simrng/domain/core"
	domainstats "simrng/domain/stats"
)

// Summarize computes descriptive statistics of samples.
func Summarize(samples []float64) (domainstats.Summary, error) {
	if len(samples) == 0 {
		return domainstats.Summary{}, core.ErrEmptySample
	}
	data := stats.Float64Data(samples)

	lo, err := data.Min()
	if err != nil {
		return domainstats.Summary{}, err
	}
	hi, err := data.Max()
	if err != nil {
		return domainstats.Summary{}, err
	}
	mean, err := data.Mean()
	if err != nil {
		return domainstats.Summary{}, err
	}
	sd, err := data.StandardDeviationSample()
	if err != nil {
		return domainstats.Summary{}, err
	}
	median, err := data.Median()
	if err != nil {
		return domainstats.Summary{}, err
	}

	return domainstats.Summary{
		Count:  len(samples),
		Min:    lo,
		Max:    hi,
		Mean:   mean,
		StdDev: sd,
		Median: median,
	}, nil
}
