package bench

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/nested"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/sampling"
)

func TestGaussianTailExact(t *testing.T) {
	assert.InDelta(t, 1.3498980316e-3, GaussianTailExact(3, 1), 1e-12)
	assert.InDelta(t, 0.5, GaussianTailExact(0, 7), 1e-15)
	// mean of 4 >= 1 is a standard normal >= 2
	assert.InDelta(t, GaussianTailExact(2, 1), GaussianTailExact(1, 4), 1e-15)
}

func TestGaussianTailExactFarTail(t *testing.T) {
	assert.InEpsilon(t, 1.1285884e-19, GaussianTailExact(9, 1), 1e-6)

	// a·√n ≈ 9.487: φ(z)·z/(z²+1) < Q(z) < φ(z)/z
	exact := GaussianTailExact(3, 10)
	z := 3 * math.Sqrt(10)
	assert.Greater(t, exact, MillsApproximation(3, 10)*z*z/(z*z+1))
	assert.Less(t, exact, MillsApproximation(3, 10))
	assert.InEpsilon(t, 1.19e-21, exact, 0.01)

	c := Compare(&nested.Result{Probability: 1.2e-21, Target: 3, Dim: 10})
	assert.False(t, math.IsInf(c.RelErr, 0))
	assert.InDelta(t, 69.5, c.ExpectedK, 0.1)
}

func TestMillsApproximation(t *testing.T) {
	// φ(z)/z overshoots Q(z) by roughly 1/z².
	for _, z := range []float64{3, 5, 8} {
		exact := GaussianTailExact(z, 1)
		mills := MillsApproximation(z, 1)
		assert.Greater(t, mills, exact)
		assert.InEpsilon(t, exact, mills, 1.5/(z*z))
	}
}

func TestCompare(t *testing.T) {
	res := &nested.Result{Probability: 2e-3, Target: 3, Dim: 1}
	c := Compare(res)
	assert.InDelta(t, (2e-3-c.Exact)/c.Exact, c.RelErr, 1e-12)
	assert.InDelta(t, -math.Log2(c.Exact), c.ExpectedK, 1e-12)
	assert.InDelta(t, 9.53, c.ExpectedK, 0.01)
}

func TestRepeat(t *testing.T) {
	rep, err := Repeat(context.Background(), 2, 1.0, 1024, 3, 100, nested.WithSweeps(3))
	require.NoError(t, err)
	require.Len(t, rep.Estimates, 3)
	require.Len(t, rep.Ks, 3)
	assert.Greater(t, rep.StdDev, 0.0)
	assert.InEpsilon(t, rep.Exact, rep.Mean, 0.3)

	_, err = Repeat(context.Background(), 2, 1.0, 1024, 0, 1)
	assert.True(t, errors.Is(err, nested.ErrInvalidParameter))

	_, err = Repeat(context.Background(), 2, 1.0, 1023, 2, 1)
	assert.True(t, errors.Is(err, nested.ErrInvalidParameter))
}

func TestMedianCLT(t *testing.T) {
	rep, err := MedianCLT(sampling.NewStream(5), 800, 1001)
	require.NoError(t, err)
	// sd of medians ≈ sqrt(π/2/1001) ≈ 0.0396
	assert.InDelta(t, math.Sqrt(math.Pi/2/1001), rep.TheoreticalStd, 1e-12)
	assert.InDelta(t, 0, rep.EmpiricalMean, 0.01)
	assert.InDelta(t, 1, rep.StdRatio, 0.1)

	assert.GreaterOrEqual(t, rep.KSStat, 0.0)
	assert.Less(t, rep.KSStat, 0.1)
	assert.GreaterOrEqual(t, rep.KSPValue, 0.0)
	assert.LessOrEqual(t, rep.KSPValue, 1.0)

	_, err = MedianCLT(sampling.NewStream(5), 1, 10)
	assert.Error(t, err)
}

func TestKSStatistic(t *testing.T) {
	// Midpoint quantiles of U(0,1) sit 1/(2n) from the diagonal.
	const n = 50
	x := make([]float64, n)
	for i := range x {
		x[i] = (float64(i) + 0.5) / n
	}
	identity := func(v float64) float64 { return v }
	assert.InDelta(t, 0.5/n, KSStatistic(x, identity), 1e-12)

	shifted := make([]float64, n)
	for i := range x {
		shifted[i] = x[i] + 0.2
	}
	assert.InDelta(t, 0.2+0.5/n, KSStatistic(shifted, func(v float64) float64 { return min(v, 1) }), 1e-12)
}

func TestKSPValue(t *testing.T) {
	assert.Equal(t, 1.0, KSPValue(0, 100))
	// λ ≈ 1.36 is the 5% critical value.
	n := 10000
	d := 1.358 / (math.Sqrt(float64(n)) + 0.12 + 0.11/math.Sqrt(float64(n)))
	assert.InDelta(t, 0.05, KSPValue(d, n), 1e-3)
	assert.Less(t, KSPValue(0.5, n), 1e-12)
	assert.Greater(t, KSPValue(0.01, n), KSPValue(0.02, n))
}
