// Package nested estimates Gaussian tail probabilities of the form
// P(mean(X_1..X_n) >= a), X ~ N(0, I_n), by nested sampling.
//
// Each level ranks the population by coordinate mean, takes the median as
// the next threshold and regenerates the lower half from the Gaussian
// restricted to {mean >= threshold} with a truncated-normal Gibbs sampler.
// After K halvings the estimate is (1/2)^K, scaled by the share of the final
// population that already lies beyond a.
package nested

import (
	"context"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/mat"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/sampling"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/utils"
)

// NestedSampling runs the level loop for dimension n, target mean a and
// population N (even, >= 2).
//
// On ErrNonConvergence the partial Result up to the level cap is returned
// alongside the error. Cancellation seen between levels also returns the
// partial Result with ctx.Err(); cancellation while a level is being
// resampled returns a nil Result, since the population is then only partly
// regenerated. Any other error returns a nil Result.
func NestedSampling(ctx context.Context, n int, a float64, N int, opts ...Option) (res *Result, err error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validate(n, a, N, o); err != nil {
		return nil, err
	}
	if !o.seeded {
		if o.seed, err = sampling.NewSeed(); err != nil {
			return nil, err
		}
	}

	ctx, span := o.tracer.Start(ctx, "NestedSampling", trace.WithAttributes(
		attribute.Int("dim", n),
		attribute.Float64("target", a),
		attribute.Int("population", N),
		attribute.Int("sweeps", o.gibbs.Sweeps),
		attribute.String("seed", strconv.FormatUint(o.seed, 10)), // uint64 does not fit an int attribute
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("k", res.K), attribute.Float64("probability", res.Probability))
		}
		span.End()
	}()

	log := o.log
	if log != nil {
		log.WithFields(logrus.Fields{
			"n": n, "a": a, "N": N, "seed": o.seed, "target_sum": float64(n) * a,
		}).Info("nested sampling started")
	}

	root := sampling.NewStream(o.seed)
	pop := mat.NewDense(N, n, nil)
	if err := initPopulation(ctx, pop, root, o.workers); err != nil {
		return nil, err
	}

	res = &Result{Seed: o.seed, Dim: n, Target: a, Population: N, Samples: pop}
	stepper := LevelStepper{Variance: o.variance}
	sink := multiSink(o.sinks)

	for k := 0; ; k++ {
		if err := ctx.Err(); err != nil {
			res.finish(utils.RowMeans(pop), a, o.overshoot)
			return res, err
		}

		sp := stepper.Step(pop, k)
		rec := LevelRecord{
			K:         k,
			Threshold: sp.Threshold,
			VarMedian: sp.VarMedian,
			Survivors: len(sp.Survivors),
		}

		if sp.Threshold >= a || k >= o.maxLevels {
			res.append(rec)
			sink.Level(rec)
			span.AddEvent("level", trace.WithAttributes(levelAttrs(rec)...))
			res.finish(sp.Stats, a, o.overshoot)
			res.Converged = sp.Threshold >= a
			break
		}

		rate, err := resampleDead(ctx, pop, sp, root, o.gibbs, o.workers)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			return nil, errors.WithMessagef(err, "resample level %d", k)
		}
		rec.AcceptRate = rate
		rec.Resampled = true

		res.append(rec)
		sink.Level(rec)
		span.AddEvent("level", trace.WithAttributes(levelAttrs(rec)...))
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"K":              res.K,
			"raw":            res.RawProbability,
			"final_fraction": res.FinalFraction,
			"probability":    res.Probability,
			"converged":      res.Converged,
		}).Info("nested sampling finished")
	}

	if !res.Converged {
		last := res.Thresholds[len(res.Thresholds)-1]
		return res, errors.Wrapf(ErrNonConvergence,
			"threshold %.6g still below target %.6g after %d levels", last, a, res.K)
	}
	return res, nil
}

// finish computes K and the probability estimates from the final statistics.
func (r *Result) finish(stats []float64, a float64, overshoot bool) {
	r.K = len(r.AcceptRates)
	r.RawProbability = math.Ldexp(1, -r.K)
	r.FinalFraction = float64(utils.CountAtLeast(stats, a)) / float64(len(stats))
	r.Probability = r.RawProbability
	if overshoot {
		r.Probability *= r.FinalFraction
	}
}

func validate(n int, a float64, N int, o options) error {
	switch {
	case n < 1:
		return errors.Wrapf(ErrInvalidParameter, "dimension n=%d must be at least 1", n)
	case N < 2:
		return errors.Wrapf(ErrInvalidParameter, "population N=%d must be at least 2", N)
	case N%2 != 0:
		return errors.Wrapf(ErrInvalidParameter, "population N=%d must be even", N)
	case math.IsNaN(a) || math.IsInf(a, 0):
		return errors.Wrapf(ErrInvalidParameter, "target a=%v must be finite", a)
	case o.gibbs.Sweeps < 1:
		return errors.Wrapf(ErrInvalidParameter, "sweeps=%d must be at least 1", o.gibbs.Sweeps)
	case o.gibbs.Sampler.MaxIter < 1:
		return errors.Wrapf(ErrInvalidParameter, "bisection budget %d must be at least 1", o.gibbs.Sampler.MaxIter)
	case !(o.gibbs.Sampler.Tol >= 0):
		return errors.Wrapf(ErrInvalidParameter, "bisection tolerance %v must be non-negative", o.gibbs.Sampler.Tol)
	case o.maxLevels < 0:
		return errors.Wrapf(ErrInvalidParameter, "max levels %d must be non-negative", o.maxLevels)
	case o.workers < 1:
		return errors.Wrapf(ErrInvalidParameter, "workers=%d must be at least 1", o.workers)
	}
	return nil
}

func levelAttrs(rec LevelRecord) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("k", rec.K),
		attribute.Float64("threshold", rec.Threshold),
		attribute.Float64("var_median", rec.VarMedian),
		attribute.Int("survivors", rec.Survivors),
		attribute.Float64("accept_rate", rec.AcceptRate),
	}
}
