// Package goodness implements the Pearson chi-squared goodness-of-fit
// pipeline: binning, expected frequencies, interval merging and the
// critical value lookup.
package goodness

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"simrng/domain/core"
	"simrng/domain/dist"
	domainstats "simrng/domain/stats"
)

// minChunk is the smallest slice a worker is handed.
const minChunk = 4096

// Bounds returns floor(min) and ceil(max) of samples.
func Bounds(samples []float64) (lower, upper float64, err error) {
	if len(samples) == 0 {
		return 0, 0, core.ErrEmptySample
	}
	lo, err := stats.Min(samples)
	if err != nil {
		return 0, 0, core.ErrEmptySample
	}
	hi, err := stats.Max(samples)
	if err != nil {
		return 0, 0, core.ErrEmptySample
	}
	return math.Floor(lo), math.Ceil(hi), nil
}

// NewPartition builds a k-bin partition of [lower, upper).
func NewPartition(lower, upper float64, k int) (domainstats.Partition, error) {
	if k < 1 {
		return domainstats.Partition{}, fmt.Errorf("%w: %d intervals", core.ErrInvalidIntervalCount, k)
	}
	if !(upper > lower) {
		return domainstats.Partition{}, core.ErrDegenerateRange
	}
	return domainstats.Partition{Lower: lower, Upper: upper, Intervals: k}, nil
}

// PartitionFor derives the partition samples are tested on for d. A sample
// whose floor and ceiling coincide is widened to a single unit bin.
func PartitionFor(samples []float64, k int, d dist.Descriptor) (domainstats.Partition, error) {
	lower, upper, err := Bounds(samples)
	if err != nil {
		return domainstats.Partition{}, err
	}
	if k < 1 || k > len(samples) {
		return domainstats.Partition{}, core.NewIntervalCountError(k, len(samples))
	}
	if upper <= lower {
		upper = lower + 1
		k = 1
	}
	p, err := NewPartition(lower, upper, k)
	if err != nil {
		return domainstats.Partition{}, err
	}
	return d.Partition(p), nil
}

// Bin counts samples into the bins of p. Samples are split into contiguous
// chunks counted concurrently into private vectors and summed afterwards.
func Bin(ctx context.Context, samples []float64, p domainstats.Partition, workers int) (domainstats.Histogram, error) {
	if len(samples) == 0 {
		return domainstats.Histogram{}, core.ErrEmptySample
	}
	if p.Intervals < 1 {
		return domainstats.Histogram{}, core.NewIntervalCountError(p.Intervals, len(samples))
	}

	workers = clampWorkers(workers)
	if chunks := (len(samples) + minChunk - 1) / minChunk; workers > chunks {
		workers = chunks
	}
	chunk := (len(samples) + workers - 1) / workers

	partial := make([][]uint64, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(samples))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			counts := make([]uint64, p.Intervals)
			for _, v := range samples[start:end] {
				counts[p.Index(v)]++
			}
			partial[w] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domainstats.Histogram{}, err
	}

	counts := make([]uint64, p.Intervals)
	for _, vec := range partial {
		for i, c := range vec {
			counts[i] += c
		}
	}
	return domainstats.Histogram{
		Partition: p,
		BinWidth:  p.Width(),
		Midpoints: p.Midpoints(),
		Counts:    counts,
	}, nil
}

// Histogram partitions samples for d and counts them.
func Histogram(ctx context.Context, samples []float64, k int, d dist.Descriptor, workers int) (domainstats.Histogram, error) {
	p, err := PartitionFor(samples, k, d)
	if err != nil {
		return domainstats.Histogram{}, err
	}
	return Bin(ctx, samples, p, workers)
}

func clampWorkers(n int) int {
	if n < 1 {
		return 1
	}
	if procs := runtime.GOMAXPROCS(0); n > procs {
		return procs
	}
	return n
}
