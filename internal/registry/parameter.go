// Package registry holds every named numeric input of the model: point
// estimates, valid ranges, uncertainty distributions, and the static
// reference tables (baseline wages, regional adjustments, counterfactual
// schooling distribution).
//
// A Registry is a value-like configuration object. Sweeps and Monte-Carlo
// trials never mutate a shared instance: they Clone() the baseline and
// mutate the copy.
package registry

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Sampling errors.
var (
	// ErrUnknownMethod is returned for a sampling-method tag outside the
	// enumerated set.
	ErrUnknownMethod = errors.New("unknown sampling method")
)

// SamplingMethod tags the uncertainty distribution of a parameter.
type SamplingMethod string

// Sampling method constants.
const (
	MethodFixed      SamplingMethod = "fixed"
	MethodUniform    SamplingMethod = "uniform"
	MethodTriangular SamplingMethod = "triangular"
	MethodNormal     SamplingMethod = "normal"
	MethodBeta       SamplingMethod = "beta"
)

// Parameter is a named scalar with its valid range and uncertainty
// distribution. The point estimate must lie within [Min, Max]; Validate
// rejects violations rather than auto-correcting them.
type Parameter struct {
	Name  string
	Value float64
	Min   float64
	Max   float64

	// Tier ranks input uncertainty: 1 = highest (prioritized for Monte
	// Carlo), 3 = most reliable.
	Tier int

	Method SamplingMethod

	// Alpha and Beta are the shape arguments for MethodBeta; ignored for
	// other methods.
	Alpha float64
	Beta  float64
}

// Validate checks the point estimate against the declared range and the
// method tag against the enumerated set.
func (p Parameter) Validate() error {
	if p.Min > p.Max {
		return fmt.Errorf("parameter %s: min %v > max %v", p.Name, p.Min, p.Max)
	}
	if p.Value < p.Min || p.Value > p.Max {
		return fmt.Errorf("parameter %s: value %v outside [%v, %v]", p.Name, p.Value, p.Min, p.Max)
	}
	switch p.Method {
	case MethodFixed, MethodUniform, MethodTriangular, MethodNormal, MethodBeta:
	default:
		return fmt.Errorf("parameter %s: %w %q", p.Name, ErrUnknownMethod, p.Method)
	}
	if p.Method == MethodBeta && (p.Alpha <= 0 || p.Beta <= 0) {
		return fmt.Errorf("parameter %s: beta shape (%v, %v) must be positive", p.Name, p.Alpha, p.Beta)
	}
	return nil
}

// Sample draws one value from the parameter's declared distribution.
//
//   - uniform:    U(min, max)
//   - triangular: Triangular(min, mode=value, max) via inverse CDF
//   - normal:     N(value, (max-min)/4), clipped to [min, max]
//   - beta:       Beta(alpha, beta) rescaled into [min, max]
//   - fixed:      the point estimate
func (p Parameter) Sample(rng *rand.Rand) (float64, error) {
	switch p.Method {
	case MethodFixed:
		return p.Value, nil
	case MethodUniform:
		return p.Min + rng.Float64()*(p.Max-p.Min), nil
	case MethodTriangular:
		return sampleTriangular(rng, p.Min, p.Value, p.Max), nil
	case MethodNormal:
		std := (p.Max - p.Min) / 4 // 95% of mass inside the range before clipping
		return clip(p.Value+rng.NormFloat64()*std, p.Min, p.Max), nil
	case MethodBeta:
		return p.Min + sampleBeta(rng, p.Alpha, p.Beta)*(p.Max-p.Min), nil
	default:
		return 0, fmt.Errorf("parameter %s: %w %q", p.Name, ErrUnknownMethod, p.Method)
	}
}

// sampleTriangular draws from Triangular(a, mode c, b) by inverting the CDF.
func sampleTriangular(rng *rand.Rand, a, c, b float64) float64 {
	if b == a {
		return a
	}
	u := rng.Float64()
	fc := (c - a) / (b - a)
	if u < fc {
		return a + math.Sqrt(u*(b-a)*(c-a))
	}
	return b - math.Sqrt((1-u)*(b-a)*(b-c))
}

// sampleBeta draws X ~ Beta(alpha, beta) as Ga/(Ga+Gb) from two gamma draws.
func sampleBeta(rng *rand.Rand, alpha, beta float64) float64 {
	ga := sampleGamma(rng, alpha)
	gb := sampleGamma(rng, beta)
	if ga+gb == 0 {
		return 0.5
	}
	return ga / (ga + gb)
}

// sampleGamma draws from Gamma(shape, 1) using Marsaglia-Tsang, with the
// usual boost for shape < 1.
func sampleGamma(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		return sampleGamma(rng, shape+1) * math.Pow(rng.Float64(), 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
