package sampling

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNumericalInstability is returned when a truncated-normal quantile cannot
// be located. Callers abort the run rather than keep a biased draw.
var ErrNumericalInstability = errors.New("numerical instability")

const (
	// Below this upper-tail mass the closed-form quantile loses the draw and
	// the log-space bisection takes over.
	minTailMass = 1e-300

	// Past this point log Q(x) comes from the Mills ratio instead of erfc.
	millsCutoff = 5.0
	millsTerms  = 60

	maxBracketDoublings = 64
)

var logSqrt2Pi = 0.5 * math.Log(2*math.Pi)

// TruncatedNormal draws from N(0,1) restricted to [lo, ∞) by inverse CDF.
type TruncatedNormal struct {
	Tol     float64 // absolute tolerance of the bisection fallback
	MaxIter int     // bisection iteration budget
}

var DefaultTruncatedNormal = TruncatedNormal{Tol: 1e-10, MaxIter: 100}

// Sample draws one value >= lo.
func (t TruncatedNormal) Sample(src RandomSource, lo float64) (float64, error) {
	return t.InverseCDF(lo, src.Uniform())
}

// UpperTail returns Q(x) = 1 − Φ(x). It goes through Φ(−x), which gonum
// evaluates with erfc; Normal.Survival uses 1 − erf and is zero past x ≈ 8.3.
func UpperTail(x float64) float64 {
	return distuv.UnitNormal.CDF(-x)
}

// InverseCDF returns Φ^{-1}(Φ(lo) + u·(1 − Φ(lo))) for u in [0, 1).
//
// The quantile is taken from whichever tail holds the smaller mass so the
// argument handed to the normal quantile keeps its relative precision. If
// the upper-tail mass underflows, the quantile is found by bisection on
// log Q(x) instead.
func (t TruncatedNormal) InverseCDF(lo, u float64) (float64, error) {
	switch {
	case math.IsNaN(lo) || math.IsNaN(u):
		return 0, errors.Wrapf(ErrNumericalInstability, "truncated normal: NaN input (lo=%v, u=%v)", lo, u)
	case math.IsInf(lo, 1):
		return 0, errors.Wrap(ErrNumericalInstability, "truncated normal: lower bound is +Inf")
	case math.IsInf(lo, -1):
		lo = -math.MaxFloat64
	}
	if u < 0 || u >= 1 {
		u = math.Max(0, math.Min(u, math.Nextafter(1, 0)))
	}

	v := 1 - u
	q := UpperTail(lo)
	upper := v * q
	if upper >= minTailMass {
		var x float64
		if upper <= 0.5 {
			x = -distuv.UnitNormal.Quantile(upper)
		} else {
			x = distuv.UnitNormal.Quantile(distuv.UnitNormal.CDF(lo) + u*q)
		}
		return math.Max(x, lo), nil
	}
	return t.bisect(lo, math.Log(v)+logSurvival(lo))
}

// bisect finds x >= lo with log Q(x) = target.
func (t TruncatedNormal) bisect(lo, target float64) (float64, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return 0, errors.Wrapf(ErrNumericalInstability, "bisection target %v at lower bound %g", target, lo)
	}

	// For large lo, Q(lo+d)/Q(lo) ≈ exp(-lo·d), which sizes the first bracket.
	step := 1.0
	if lo > 1 {
		step = (1 + logSurvival(lo) - target) / lo
	}
	a, b := lo, lo+step
	for i := 0; logSurvival(b) > target; i++ {
		if i >= maxBracketDoublings {
			return 0, errors.Wrapf(ErrNumericalInstability, "no bisection bracket above %g", lo)
		}
		a = b
		step *= 2
		b = lo + step
	}

	for i := 0; i < t.MaxIter; i++ {
		mid := a + (b-a)/2
		if b-a <= t.Tol || mid == a || mid == b {
			return mid, nil
		}
		if logSurvival(mid) > target {
			a = mid
		} else {
			b = mid
		}
	}
	return 0, errors.Wrapf(ErrNumericalInstability,
		"bisection above %g did not converge to %g in %d iterations", lo, t.Tol, t.MaxIter)
}

// logSurvival returns log(1 − Φ(x)) without underflow.
func logSurvival(x float64) float64 {
	if x < millsCutoff {
		return math.Log(UpperTail(x))
	}
	return -x*x/2 - logSqrt2Pi + math.Log(millsRatio(x))
}

// millsRatio evaluates Q(x)/φ(x) = 1/(x+1/(x+2/(x+3/(x+...)))) backwards.
func millsRatio(x float64) float64 {
	f := x
	for k := millsTerms; k >= 1; k-- {
		f = x + float64(k)/f
	}
	return 1 / f
}
