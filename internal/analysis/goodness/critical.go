package goodness

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"simrng/domain/core"
)

// Resolver returns the chi-squared critical value for df degrees of freedom
// at significance alpha, the point with upper tail probability alpha.
type Resolver interface {
	Critical(df int, alpha float64) (float64, error)
}

// Resolver methods accepted by ResolverFor.
const (
	MethodNewton = "newton"
	MethodTable  = "table"
)

// ResolverFor returns the resolver selected by method. An empty method
// selects Newton-Raphson.
func ResolverFor(method string) (Resolver, error) {
	switch strings.ToLower(method) {
	case MethodNewton, "":
		return NewNewtonResolver(), nil
	case MethodTable:
		return NewTableResolver(), nil
	default:
		return nil, fmt.Errorf("unknown critical value method %q", method)
	}
}

// ============================================================================
// NEWTON-RAPHSON
// ============================================================================

const (
	seriesTol      = 1e-8
	seriesMaxTerms = 100000
)

// NewtonResolver inverts the regularized lower incomplete gamma function
// P(df/2, x) = 1-alpha by Newton-Raphson; the critical value is 2x.
type NewtonResolver struct {
	MaxIter int
	Tol     float64
}

// NewNewtonResolver returns a resolver with 100 iterations and 1e-8 tolerance.
func NewNewtonResolver() NewtonResolver {
	return NewtonResolver{MaxIter: 100, Tol: 1e-8}
}

// Critical implements Resolver.
func (r NewtonResolver) Critical(df int, alpha float64) (float64, error) {
	if err := checkArgs(df, alpha); err != nil {
		return 0, err
	}
	maxIter, tol := r.MaxIter, r.Tol
	if maxIter <= 0 {
		maxIter = 100
	}
	if tol <= 0 {
		tol = 1e-8
	}

	a := float64(df) / 2
	target := 1 - alpha
	x := a + 1
	for i := 0; i < maxIter; i++ {
		f := lowerGammaP(a, x) - target
		slope := gammaDensity(a, x)
		if slope <= 0 || math.IsNaN(slope) {
			break
		}
		step := f / slope
		next := x - step
		if next <= 0 {
			next = x / 2
		}
		if math.Abs(next-x) < tol*math.Max(1, x) {
			return 2 * next, nil
		}
		x = next
	}
	return 0, core.NewNonConvergenceError(float64(df), alpha, maxIter)
}

// lowerGammaP is the regularized lower incomplete gamma function by its
// power series, evaluated with a log-space prefix. Terms grow until k passes
// x-a and are summed until they fall below seriesTol.
func lowerGammaP(a, x float64) float64 {
	if x <= 0 {
		return 0
	}
	sum, term := 1.0, 1.0
	for k := 1; k < seriesMaxTerms; k++ {
		term *= x / (a + float64(k))
		sum += term
		if term < seriesTol*sum && a+float64(k) > x {
			break
		}
	}
	p := math.Exp(a*math.Log(x)-x-lgamma(a+1)) * sum
	return math.Min(p, 1)
}

// gammaDensity is the derivative of lowerGammaP in x.
func gammaDensity(a, x float64) float64 {
	return math.Exp((a-1)*math.Log(x) - x - lgamma(a))
}

func lgamma(v float64) float64 {
	lg, _ := math.Lgamma(v)
	return lg
}

func checkArgs(df int, alpha float64) error {
	if df < 1 {
		return fmt.Errorf("%w: %d degrees of freedom", core.ErrInvalidIntervalCount, df)
	}
	if !(alpha > 0 && alpha < 1) {
		return core.ErrInvalidSignificance
	}
	return nil
}

// ============================================================================
// TABLE
// ============================================================================

// TableAlphas are the significance levels the table holds.
var TableAlphas = []float64{0.10, 0.05, 0.025, 0.01}

// TableMaxDF is the largest tabulated degree of freedom; larger df use it.
const TableMaxDF = 100

var (
	tableOnce sync.Once
	table     map[float64][]float64
)

func buildTable() {
	table = make(map[float64][]float64, len(TableAlphas))
	for _, alpha := range TableAlphas {
		row := make([]float64, TableMaxDF+1)
		for df := 1; df <= TableMaxDF; df++ {
			row[df] = distuv.ChiSquared{K: float64(df)}.Quantile(1 - alpha)
		}
		table[alpha] = row
	}
}

// TableResolver looks critical values up in a precomputed table and
// falls back to Newton-Raphson for significance levels it does not hold.
type TableResolver struct {
	Fallback Resolver
}

// NewTableResolver returns a table resolver falling back to Newton-Raphson.
func NewTableResolver() TableResolver {
	return TableResolver{Fallback: NewNewtonResolver()}
}

// Critical implements Resolver.
func (r TableResolver) Critical(df int, alpha float64) (float64, error) {
	if err := checkArgs(df, alpha); err != nil {
		return 0, err
	}
	tableOnce.Do(buildTable)

	row, ok := table[alpha]
	if !ok {
		fallback := r.Fallback
		if fallback == nil {
			fallback = NewNewtonResolver()
		}
		return fallback.Critical(df, alpha)
	}
	return row[min(df, TableMaxDF)], nil
}
