package goodness

import (
	"simrng/domain/dist"
	domainstats "simrng/domain/stats"
)

// DefaultThreshold is the minimum expected frequency of a merged interval.
const DefaultThreshold = 5.0

// Expected returns the theoretical frequency of every bin of p for n samples.
func Expected(d dist.Descriptor, p domainstats.Partition, n int) []float64 {
	probs := d.Probabilities(p)
	for i := range probs {
		probs[i] *= float64(n)
	}
	return probs
}

// Intervals zips a histogram with expected frequencies.
func Intervals(h domainstats.Histogram, expected []float64) []domainstats.Interval {
	out := make([]domainstats.Interval, len(h.Counts))
	for i, c := range h.Counts {
		lo, hi := h.Bounds(i)
		out[i] = domainstats.Interval{Lower: lo, Upper: hi, Observed: float64(c)}
		if i < len(expected) {
			out[i].Expected = expected[i]
		}
	}
	return out
}

// Merge combines adjacent intervals left to right until each reaches
// threshold expected frequency. A trailing remainder below threshold is
// folded into the last emitted interval. Sums of observed and expected
// frequencies are preserved; in is not modified.
func Merge(in []domainstats.Interval, threshold float64) []domainstats.Interval {
	if len(in) == 0 {
		return nil
	}

	out := make([]domainstats.Interval, 0, len(in))
	var pending domainstats.Interval
	open := false

	for _, iv := range in {
		if !open {
			pending = iv
			open = true
		} else {
			pending.Upper = iv.Upper
			pending.Observed += iv.Observed
			pending.Expected += iv.Expected
		}
		if pending.Expected >= threshold {
			out = append(out, pending)
			open = false
		}
	}

	if open {
		if len(out) == 0 {
			return append(out, pending)
		}
		last := &out[len(out)-1]
		last.Upper = pending.Upper
		last.Observed += pending.Observed
		last.Expected += pending.Expected
	}
	return out
}
