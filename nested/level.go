package nested

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/utils"
)

// VarianceMode picks the density used in Var(median) ≈ 1/(4·N·f²).
type VarianceMode int

const (
	// VarianceConditional uses the density of the mean statistic
	// renormalised by the mass (1/2)^k of the region the level-k population
	// is restricted to.
	VarianceConditional VarianceMode = iota
	// VarianceUnconditional uses the N(0, 1/n) density of the mean as is.
	VarianceUnconditional
	// VarianceEmpirical estimates the density from the population quartiles.
	VarianceEmpirical
)

func (m VarianceMode) String() string {
	switch m {
	case VarianceConditional:
		return "conditional"
	case VarianceUnconditional:
		return "unconditional"
	case VarianceEmpirical:
		return "empirical"
	default:
		return "unknown"
	}
}

// ParseVarianceMode accepts the names printed by String. Empty means conditional.
func ParseVarianceMode(s string) (VarianceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "conditional":
		return VarianceConditional, nil
	case "unconditional":
		return VarianceUnconditional, nil
	case "empirical":
		return VarianceEmpirical, nil
	}
	return 0, errors.Wrapf(ErrInvalidParameter, "unknown variance mode %q", s)
}

// Split is the outcome of one level: the median threshold and the
// partition of the population around it.
type Split struct {
	Level     int
	Threshold float64
	VarMedian float64
	Stats     []float64 // coordinate mean of every particle
	Survivors []int     // rows with Stats >= Threshold
	Dead      []int
}

// LevelStepper computes thresholds and survivor sets.
type LevelStepper struct {
	Variance VarianceMode
}

// Step ranks the population by mean and splits it at the median. Ties at
// the median all survive, so the split may be off N/2 by the tie count.
func (s LevelStepper) Step(pop *mat.Dense, k int) Split {
	N, n := pop.Dims()
	stats := utils.RowMeans(pop)
	sorted := utils.Sorted(stats)
	u := utils.Median(sorted)

	sp := Split{
		Level:     k,
		Threshold: u,
		Stats:     stats,
		Survivors: make([]int, 0, N/2+1),
		Dead:      make([]int, 0, N/2),
	}
	for i, st := range stats {
		if st >= u {
			sp.Survivors = append(sp.Survivors, i)
		} else {
			sp.Dead = append(sp.Dead, i)
		}
	}
	sp.VarMedian = utils.MedianVariance(s.density(sorted, u, n, k), N)
	return sp
}

func (s LevelStepper) density(sorted []float64, u float64, n, k int) float64 {
	switch s.Variance {
	case VarianceUnconditional:
		return utils.MeanDensity(u, n)
	case VarianceEmpirical:
		// Half of the quartile mass lies between the median and Q3.
		q75 := utils.Quantile(0.75, sorted)
		if !(q75 > u) {
			return 0
		}
		return 0.25 / (q75 - u)
	default:
		return math.Ldexp(utils.MeanDensity(u, n), k)
	}
}
