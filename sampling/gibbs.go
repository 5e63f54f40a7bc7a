package sampling

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Gibbs regenerates a vector conditioned on its coordinate mean being at
// least a threshold. Given the other coordinates, x_i is N(0,1) truncated to
// [n·u − Σ_{j≠i} x_j, ∞), so every coordinate move stays inside the region
// and the chain leaves the restricted Gaussian invariant.
type Gibbs struct {
	Sweeps  int
	Sampler TruncatedNormal
	Tol     float64 // slack on mean(x) >= u when counting accepted sweeps
}

var DefaultGibbs = Gibbs{Sweeps: 10, Sampler: DefaultTruncatedNormal, Tol: 1e-9}

// Resample runs g.Sweeps full coordinate sweeps over x in place and returns
// how many of them ended with mean(x) >= u − Tol.
func (g Gibbs) Resample(src RandomSource, x []float64, u float64) (int, error) {
	n := len(x)
	if n == 0 {
		return 0, errors.New("gibbs: empty vector")
	}
	target := float64(n) * u

	accepted := 0
	for s := 0; s < g.Sweeps; s++ {
		sum := floats.Sum(x)
		for i := range x {
			rest := sum - x[i]
			z, err := g.Sampler.Sample(src, target-rest)
			if err != nil {
				return accepted, errors.WithMessagef(err, "sweep %d coordinate %d", s, i)
			}
			sum = rest + z
			x[i] = z
		}
		if floats.Sum(x)/float64(n) >= u-g.Tol {
			accepted++
		}
	}
	return accepted, nil
}
