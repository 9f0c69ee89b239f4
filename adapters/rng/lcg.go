// Package rng provides the uniform random sources samples are drawn from.
package rng

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"simrng/ports"
)

// Default linear congruential parameters: x' = (a*x + c) mod m.
const (
	DefaultModulus    uint64 = 4294967296
	DefaultMultiplier uint64 = 1 + 4*712300
	DefaultIncrement  uint64 = 1013904223
)

// LCG is a linear congruential generator. Arithmetic is done modulo 2^64
// before reducing by m, which is exact for the default parameters.
type LCG struct {
	x, m, a, c uint64
}

var _ ports.Random = (*LCG)(nil)

// NewLCG seeds an LCG with the default parameters.
func NewLCG(seed uint64) *LCG {
	return NewLCGWith(seed, DefaultModulus, DefaultMultiplier, DefaultIncrement)
}

// NewLCGWith builds an LCG with explicit parameters. m must be positive.
func NewLCGWith(x0, m, a, c uint64) *LCG {
	if m == 0 {
		m = DefaultModulus
	}
	return &LCG{x: x0 % m, m: m, a: a, c: c}
}

// Next advances the generator and returns x/m.
func (g *LCG) Next() float64 {
	g.x = (g.a*g.x + g.c) % g.m
	return float64(g.x) / float64(g.m)
}

// System wraps the runtime's PCG generator seeded deterministically.
type System struct {
	r *rand.Rand
}

var _ ports.Random = (*System)(nil)

// NewSystem seeds a PCG source from seed.
func NewSystem(seed uint64) *System {
	return &System{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Next returns a float in [0, 1).
func (s *System) Next() float64 {
	return s.r.Float64()
}

// Source names
const (
	SourceLCG    = "lcg"
	SourceSystem = "system"
)

// New builds the named source seeded with seed. An empty name selects the LCG.
func New(source string, seed uint64) (ports.Random, error) {
	switch strings.ToLower(source) {
	case SourceLCG, "":
		return NewLCG(seed), nil
	case SourceSystem:
		return NewSystem(seed), nil
	default:
		return nil, fmt.Errorf("unknown random source %q", source)
	}
}
