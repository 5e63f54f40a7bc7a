package utils

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Population helpers. A population is an N x n dense matrix, one particle per row.

// RowMeans returns the coordinate mean of every row of m.
func RowMeans(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = floats.Sum(m.RawRowView(i)) / float64(c)
	}
	return out
}

// Sorted returns a sorted copy of xs.
func Sorted(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	sort.Float64s(out)
	return out
}

// Median of an already sorted slice. Even lengths average the two central
// order statistics.
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1] + (sorted[n/2]-sorted[n/2-1])/2
}

// Quantile of an already sorted slice, using the empirical CDF.
func Quantile(p float64, sorted []float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// CountAtLeast counts entries >= t.
func CountAtLeast(xs []float64, t float64) int {
	c := 0
	for _, x := range xs {
		if x >= t {
			c++
		}
	}
	return c
}

// MeanDensity is the density at u of the mean of n i.i.d. N(0,1) variables,
// which is N(0, 1/n).
func MeanDensity(u float64, n int) float64 {
	return distuv.Normal{Mu: 0, Sigma: 1 / math.Sqrt(float64(n))}.Prob(u)
}

// MedianVariance is the asymptotic variance 1/(4·N·f²) of the median of N
// draws whose density at the median is f. A non-positive f gives +Inf.
func MedianVariance(f float64, N int) float64 {
	if !(f > 0) || math.IsInf(f, 1) {
		return math.Inf(1)
	}
	return 1 / (4 * float64(N) * f * f)
}
