// Package dist describes the four supported parametric distributions as a
// closed set. Every operation switches over Kind, and an unknown kind is a
// programming error caught by Validate before any other method runs.
package dist

import (
	"fmt"
	"math"
	"strings"

	"simrng/domain/core"
)

// Kind identifies a distribution family
type Kind string

const (
	KindUniform     Kind = "uniform"
	KindNormal      Kind = "normal"
	KindExponential Kind = "exponential"
	KindPoisson     Kind = "poisson"
)

// Kinds lists every supported distribution family.
var Kinds = []Kind{KindUniform, KindNormal, KindExponential, KindPoisson}

// Algorithm selects how normal variates are produced
type Algorithm string

const (
	AlgorithmBoxMuller   Algorithm = "box-muller"
	AlgorithmConvolution Algorithm = "convolution"
)

// Descriptor is a tagged union over the supported distributions. Only the
// fields belonging to Kind are meaningful:
//
//	uniform:     Lower, Upper
//	normal:      Mean, SD, Algorithm
//	exponential: Lambda
//	poisson:     Lambda
type Descriptor struct {
	Kind      Kind      `json:"kind" yaml:"kind"`
	Lower     float64   `json:"lower,omitempty" yaml:"lower,omitempty"`
	Upper     float64   `json:"upper,omitempty" yaml:"upper,omitempty"`
	Mean      float64   `json:"mean,omitempty" yaml:"mean,omitempty"`
	SD        float64   `json:"sd,omitempty" yaml:"sd,omitempty"`
	Algorithm Algorithm `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Lambda    float64   `json:"lambda,omitempty" yaml:"lambda,omitempty"`
}

// Uniform returns a Uniform(lower, upper) descriptor.
func Uniform(lower, upper float64) Descriptor {
	return Descriptor{Kind: KindUniform, Lower: lower, Upper: upper}
}

// Normal returns a Normal(mean, sd) descriptor sampled with alg.
func Normal(mean, sd float64, alg Algorithm) Descriptor {
	return Descriptor{Kind: KindNormal, Mean: mean, SD: sd, Algorithm: alg}
}

// Exponential returns an Exponential(lambda) descriptor.
func Exponential(lambda float64) Descriptor {
	return Descriptor{Kind: KindExponential, Lambda: lambda}
}

// Poisson returns a Poisson(lambda) descriptor.
func Poisson(lambda float64) Descriptor {
	return Descriptor{Kind: KindPoisson, Lambda: lambda}
}

// ParseKind parses a case-insensitive distribution name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", core.NewDistributionError(s, "unknown distribution")
}

// Normalize fills defaults, currently the Box-Muller algorithm for normals.
func (d Descriptor) Normalize() Descriptor {
	d.Kind = Kind(strings.ToLower(string(d.Kind)))
	if d.Kind == KindNormal && d.Algorithm == "" {
		d.Algorithm = AlgorithmBoxMuller
	}
	return d
}

// Validate checks the parameters of the selected variant.
func (d Descriptor) Validate() error {
	switch d.Kind {
	case KindUniform:
		if !finite(d.Lower) || !finite(d.Upper) {
			return core.NewDistributionError(string(d.Kind), "bounds must be finite")
		}
		if d.Upper <= d.Lower {
			return core.NewDistributionError(string(d.Kind), "upper must be greater than lower")
		}
	case KindNormal:
		if !finite(d.Mean) || !finite(d.SD) || d.SD <= 0 {
			return core.NewDistributionError(string(d.Kind), "sd must be positive and parameters finite")
		}
		if d.Algorithm != AlgorithmBoxMuller && d.Algorithm != AlgorithmConvolution {
			return core.NewDistributionError(string(d.Kind), fmt.Sprintf("unknown algorithm %q", d.Algorithm))
		}
	case KindExponential, KindPoisson:
		if !finite(d.Lambda) || d.Lambda <= 0 {
			return core.NewDistributionError(string(d.Kind), "lambda must be positive")
		}
	default:
		return core.NewDistributionError(string(d.Kind), "unknown distribution")
	}
	return nil
}

// String renders the descriptor for logs and reports.
func (d Descriptor) String() string {
	switch d.Kind {
	case KindUniform:
		return fmt.Sprintf("Uniform(lower=%g, upper=%g)", d.Lower, d.Upper)
	case KindNormal:
		return fmt.Sprintf("Normal(mean=%g, sd=%g, %s)", d.Mean, d.SD, d.Algorithm)
	case KindExponential:
		return fmt.Sprintf("Exponential(lambda=%g)", d.Lambda)
	case KindPoisson:
		return fmt.Sprintf("Poisson(lambda=%g)", d.Lambda)
	default:
		return fmt.Sprintf("Unknown(%s)", d.Kind)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
