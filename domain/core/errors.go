package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Sample errors
	ErrEmptySample    = errors.New("sample set is empty")
	ErrNoGeneration   = fmt.Errorf("%w: no sample set has been generated", ErrEmptySample)
	ErrSampleTooLarge = errors.New("sample count exceeds configured maximum")

	// Partition errors
	ErrInvalidIntervalCount = errors.New("invalid interval count")
	ErrDegenerateRange      = errors.New("degenerate sample range")

	// Distribution errors
	ErrInvalidDistribution = errors.New("invalid distribution")
	ErrInvalidSignificance = errors.New("significance level must be in (0, 1)")

	// Numerical errors
	ErrNonConvergentInversion = errors.New("critical value inversion did not converge")
)

// NewIntervalCountError reports an interval count that cannot partition n samples.
func NewIntervalCountError(k, n int) error {
	return fmt.Errorf("%w: %d intervals for %d samples", ErrInvalidIntervalCount, k, n)
}

// NewDistributionError reports an invalid distribution parameter.
func NewDistributionError(kind, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDistribution, kind, reason)
}

// NewNonConvergenceError reports a root find that ran out of iterations.
func NewNonConvergenceError(df, alpha float64, iterations int) error {
	return fmt.Errorf("%w: df=%g alpha=%g after %d iterations", ErrNonConvergentInversion, df, alpha, iterations)
}

// IsSampleError reports whether err is caused by missing or empty sample data.
func IsSampleError(err error) bool {
	return errors.Is(err, ErrEmptySample) ||
		errors.Is(err, ErrNoGeneration)
}

// IsInputError reports whether err is caused by invalid request parameters.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidIntervalCount) ||
		errors.Is(err, ErrDegenerateRange) ||
		errors.Is(err, ErrInvalidDistribution) ||
		errors.Is(err, ErrInvalidSignificance) ||
		errors.Is(err, ErrSampleTooLarge)
}
