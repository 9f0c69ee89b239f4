package app

import (
	"context"

	"golang.org/x/sync/semaphore"

	apperrors "simrng/internal/errors"
	"simrng/internal/metrics"
)

// Jobs bounds the number of generation and evaluation jobs running at once.
// Both services share one instance.
type Jobs struct {
	sem     *semaphore.Weighted
	metrics *metrics.Metrics
}

// NewJobs allows up to n concurrent jobs; n below 1 allows one.
func NewJobs(n int, m *metrics.Metrics) *Jobs {
	if n < 1 {
		n = 1
	}
	return &Jobs{sem: semaphore.NewWeighted(int64(n)), metrics: m}
}

// acquire waits for a slot. The returned func releases it.
func (j *Jobs) acquire(ctx context.Context) (func(), error) {
	if err := j.sem.Acquire(ctx, 1); err != nil {
		return nil, apperrors.Unavailable("no worker slot available", err)
	}
	if j.metrics != nil {
		j.metrics.InFlightJobs.Inc()
	}
	return func() {
		if j.metrics != nil {
			j.metrics.InFlightJobs.Dec()
		}
		j.sem.Release(1)
	}, nil
}
