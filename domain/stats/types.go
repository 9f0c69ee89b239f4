package stats

import (
	"math"
)

// ============================================================================
// PARTITION
// ============================================================================

// Partition splits [Lower, Upper) into Intervals equal-width half-open bins.
// The last bin also holds values equal to Upper.
type Partition struct {
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Intervals int     `json:"intervals"`
}

// Width returns the bin width.
func (p Partition) Width() float64 {
	return (p.Upper - p.Lower) / float64(p.Intervals)
}

// Bounds returns the edges of bin i.
func (p Partition) Bounds(i int) (lower, upper float64) {
	size := p.Width()
	lower = p.Lower + float64(i)*size
	if i == p.Intervals-1 {
		return lower, p.Upper
	}
	return lower, lower + size
}

// Midpoint returns the class mark of bin i.
func (p Partition) Midpoint(i int) float64 {
	lower, upper := p.Bounds(i)
	return (lower + upper) / 2
}

// Midpoints returns every class mark in bin order.
func (p Partition) Midpoints() []float64 {
	out := make([]float64, p.Intervals)
	for i := range out {
		out[i] = p.Midpoint(i)
	}
	return out
}

// Index returns the bin holding v, clamped to [0, Intervals-1].
func (p Partition) Index(v float64) int {
	idx := int(math.Floor((v - p.Lower) / p.Width()))
	if idx < 0 {
		return 0
	}
	if idx > p.Intervals-1 {
		return p.Intervals - 1
	}
	return idx
}

// ============================================================================
// HISTOGRAM & TEST RESULTS
// ============================================================================

// Histogram is the observed frequency vector over a partition.
type Histogram struct {
	Partition
	BinWidth  float64   `json:"bin_width"`
	Midpoints []float64 `json:"bin_midpoints"`
	Counts    []uint64  `json:"bin_counts"`
}

// Total returns the number of counted samples.
func (h Histogram) Total() uint64 {
	var n uint64
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// Interval is a possibly merged run of adjacent bins.
type Interval struct {
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
	Observed float64 `json:"fo"` // Observed frequency
	Expected float64 `json:"fe"` // Expected frequency
}

// TestResult is the outcome of one Pearson chi-squared evaluation.
type TestResult struct {
	Calculated       float64    `json:"calculated"`
	Critical         float64    `json:"critical"`
	PValue           float64    `json:"p_value"`
	Alpha            float64    `json:"alpha"`
	DegreesOfFreedom int        `json:"degrees_of_freedom"`
	Reject           bool       `json:"reject"` // Calculated > Critical
	Intervals        []Interval `json:"merged_intervals,omitempty"`
}

// Summary holds descriptive statistics of a sample set.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
}
