// Package bench compares nested-sampling estimates with closed-form Gaussian
// tails and checks the asymptotics the median variance relies on.
package bench

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/nested"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/sampling"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/utils"
)

// GaussianTailExact is P(mean(X_1..X_n) >= a) = Q(a·√n).
func GaussianTailExact(a float64, n int) float64 {
	return sampling.UpperTail(a * math.Sqrt(float64(n)))
}

// MillsApproximation is the leading tail term φ(z)/z at z = a·√n. Only
// meaningful for a > 0.
func MillsApproximation(a float64, n int) float64 {
	z := a * math.Sqrt(float64(n))
	return distuv.UnitNormal.Prob(z) / z
}

type Comparison struct {
	Estimate float64 `json:"estimate" yaml:"estimate"`
	Exact    float64 `json:"exact" yaml:"exact"`
	Mills    float64 `json:"mills" yaml:"mills"`
	RelErr   float64 `json:"rel_err" yaml:"rel_err"`
	// ExpectedK is log2(1/Exact), the number of halvings an ideal run needs.
	ExpectedK float64 `json:"expected_k" yaml:"expected_k"`
}

func Compare(res *nested.Result) Comparison {
	exact := GaussianTailExact(res.Target, res.Dim)
	return Comparison{
		Estimate:  res.Probability,
		Exact:     exact,
		Mills:     MillsApproximation(res.Target, res.Dim),
		RelErr:    (res.Probability - exact) / exact,
		ExpectedK: -math.Log2(exact),
	}
}

// RepeatReport summarises independent runs that differ only in seed.
type RepeatReport struct {
	Estimates []float64 `json:"estimates" yaml:"estimates"`
	Ks        []int     `json:"ks" yaml:"ks"`
	Mean      float64   `json:"mean" yaml:"mean"`
	StdDev    float64   `json:"std_dev" yaml:"std_dev"`
	RelStd    float64   `json:"rel_std" yaml:"rel_std"`
	Exact     float64   `json:"exact" yaml:"exact"`
	RelErr    float64   `json:"rel_err" yaml:"rel_err"`
}

// Repeat runs NestedSampling reps times with seeds seed, seed+1, ... Any
// run error aborts the batch.
func Repeat(ctx context.Context, n int, a float64, N, reps int, seed uint64, opts ...nested.Option) (*RepeatReport, error) {
	if reps < 1 {
		return nil, errors.Wrapf(nested.ErrInvalidParameter, "reps=%d must be at least 1", reps)
	}
	rep := &RepeatReport{Exact: GaussianTailExact(a, n)}
	for r := 0; r < reps; r++ {
		runOpts := append(append([]nested.Option{}, opts...), nested.WithSeed(seed+uint64(r)))
		res, err := nested.NestedSampling(ctx, n, a, N, runOpts...)
		if err != nil {
			return nil, errors.WithMessagef(err, "repetition %d", r)
		}
		rep.Estimates = append(rep.Estimates, res.Probability)
		rep.Ks = append(rep.Ks, res.K)
	}
	if reps > 1 {
		rep.Mean, rep.StdDev = stat.MeanStdDev(rep.Estimates, nil)
	} else {
		rep.Mean = rep.Estimates[0]
	}
	rep.RelStd = rep.StdDev / rep.Mean
	rep.RelErr = (rep.Mean - rep.Exact) / rep.Exact
	return rep, nil
}

// MedianCLTReport compares the spread of sample medians of N(0,1) draws
// with the asymptotic sqrt(1/(4·size·φ(0)²)).
type MedianCLTReport struct {
	Reps           int     `json:"reps" yaml:"reps"`
	Size           int     `json:"size" yaml:"size"`
	EmpiricalMean  float64 `json:"empirical_mean" yaml:"empirical_mean"`
	EmpiricalStd   float64 `json:"empirical_std" yaml:"empirical_std"`
	TheoreticalStd float64 `json:"theoretical_std" yaml:"theoretical_std"`
	StdRatio       float64 `json:"std_ratio" yaml:"std_ratio"`
	// KS compares the standardized medians with N(0, 1).
	KSStat   float64 `json:"ks_stat" yaml:"ks_stat"`
	KSPValue float64 `json:"ks_p_value" yaml:"ks_p_value"`
}

func MedianCLT(src sampling.RandomSource, reps, size int) (*MedianCLTReport, error) {
	if reps < 2 || size < 1 {
		return nil, errors.Wrapf(nested.ErrInvalidParameter, "need reps >= 2 and size >= 1, got %d and %d", reps, size)
	}
	medians := make([]float64, reps)
	buf := make([]float64, size)
	for r := range medians {
		for i := range buf {
			buf[i] = src.StdNormal()
		}
		medians[r] = utils.Median(utils.Sorted(buf))
	}

	rep := &MedianCLTReport{
		Reps:           reps,
		Size:           size,
		TheoreticalStd: math.Sqrt(utils.MedianVariance(distuv.UnitNormal.Prob(0), size)),
	}
	rep.EmpiricalMean, rep.EmpiricalStd = stat.MeanStdDev(medians, nil)
	rep.StdRatio = rep.EmpiricalStd / rep.TheoreticalStd

	z := make([]float64, reps)
	for i, m := range medians {
		z[i] = m / rep.TheoreticalStd
	}
	rep.KSStat = KSStatistic(utils.Sorted(z), distuv.UnitNormal.CDF)
	rep.KSPValue = KSPValue(rep.KSStat, reps)
	return rep, nil
}

// KSStatistic is the one-sample Kolmogorov-Smirnov distance between the
// empirical distribution of sorted and cdf.
func KSStatistic(sorted []float64, cdf func(float64) float64) float64 {
	n := float64(len(sorted))
	var d float64
	for i, x := range sorted {
		f := cdf(x)
		d = max(d, float64(i+1)/n-f, f-float64(i)/n)
	}
	return d
}

// KSPValue is the asymptotic P(D > d) for a sample of size n, using the
// Kolmogorov series with the Stephens small-sample correction.
func KSPValue(d float64, n int) float64 {
	sn := math.Sqrt(float64(n))
	lambda := (sn + 0.12 + 0.11/sn) * d
	if lambda < 0.2 {
		return 1
	}
	var sum float64
	sign := 1.0
	for j := 1; j <= 100; j++ {
		term := sign * math.Exp(-2*float64(j*j)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-12*math.Abs(sum) {
			break
		}
		sign = -sign
	}
	return min(1, max(0, 2*sum))
}
