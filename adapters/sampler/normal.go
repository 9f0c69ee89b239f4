package sampler

import (
	"math"

	"simrng/ports"
)

// NormalState is the Box-Muller generator state. Each transform yields two
// variates; the second is carried in the state and returned by the next call
// without consuming the random source.
type NormalState struct {
	pending    float64
	hasPending bool
}

// Pending reports whether the next call will return a cached variate.
func (s NormalState) Pending() bool {
	return s.hasPending
}

// Next returns the successor state and a Normal(mean, sd) variate.
func (s NormalState) Next(r ports.Random, mean, sd float64) (NormalState, float64) {
	if s.hasPending {
		return NormalState{}, s.pending
	}
	z1, z2 := BoxMuller(r)
	return NormalState{pending: z2*sd + mean, hasPending: true}, z1*sd + mean
}

// BoxMuller returns a pair of independent standard normal variates.
func BoxMuller(r ports.Random) (float64, float64) {
	u1 := r.Next()
	u2 := r.Next()
	radius := math.Sqrt(-2 * math.Log(1-u1))
	theta := 2 * math.Pi * u2
	return radius * math.Cos(theta), radius * math.Sin(theta)
}
