// Package sampler turns uniform variates into samples of a distribution.
package sampler

import (
	"context"
	"math"

	"simrng/domain/dist"
	"simrng/ports"
)

// checkEvery is how many samples are drawn between context checks.
const checkEvery = 1 << 16

// poissonChunk bounds the lambda handed to Knuth's method, whose threshold
// e^-lambda underflows for large lambda. Poisson variates add, so larger
// lambdas are drawn as a sum of chunks.
const poissonChunk = 500.0

// Sample draws n samples of d from r.
func Sample(r ports.Random, d dist.Descriptor, n int) []float64 {
	out, _ := SampleContext(context.Background(), r, d, n)
	return out
}

// SampleContext draws n samples of d from r, returning early with the
// context's error if it is cancelled.
func SampleContext(ctx context.Context, r ports.Random, d dist.Descriptor, n int) ([]float64, error) {
	out := make([]float64, n)
	var state NormalState
	for i := range out {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		switch d.Kind {
		case dist.KindUniform:
			out[i] = Uniform(r, d.Lower, d.Upper)
		case dist.KindExponential:
			out[i] = Exponential(r, d.Lambda)
		case dist.KindPoisson:
			out[i] = Poisson(r, d.Lambda)
		case dist.KindNormal:
			if d.Algorithm == dist.AlgorithmConvolution {
				out[i] = Convolution(r, d.Mean, d.SD)
			} else {
				state, out[i] = state.Next(r, d.Mean, d.SD)
			}
		}
	}
	return out, nil
}

// Uniform returns a + u(b-a).
func Uniform(r ports.Random, a, b float64) float64 {
	return a + r.Next()*(b-a)
}

// Exponential returns -ln(1-u)/lambda.
func Exponential(r ports.Random, lambda float64) float64 {
	return -math.Log(1-r.Next()) / lambda
}

// Poisson returns a Poisson(lambda) count using Knuth's product method.
func Poisson(r ports.Random, lambda float64) float64 {
	var total float64
	for lambda > poissonChunk {
		total += knuth(r, poissonChunk)
		lambda -= poissonChunk
	}
	return total + knuth(r, lambda)
}

func knuth(r ports.Random, lambda float64) float64 {
	threshold := math.Exp(-lambda)
	p := 1.0
	x := -1
	for {
		p *= r.Next()
		x++
		if p < threshold {
			return float64(x)
		}
	}
}

// Convolution approximates a normal variate by the sum of twelve uniforms.
func Convolution(r ports.Random, mean, sd float64) float64 {
	var sum float64
	for i := 0; i < 12; i++ {
		sum += r.Next()
	}
	return mean + sd*(sum-6)
}
