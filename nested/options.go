package nested

import (
	"runtime"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/params"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/sampling"
)

const tracerName = "github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/nested"

type options struct {
	seed      uint64
	seeded    bool
	gibbs     sampling.Gibbs
	maxLevels int
	workers   int
	variance  VarianceMode
	overshoot bool
	sinks     []Sink
	log       logrus.FieldLogger
	tracer    trace.Tracer
}

func defaultOptions() options {
	return options{
		gibbs:     sampling.DefaultGibbs,
		maxLevels: params.Defaults.MaxLevels,
		workers:   runtime.GOMAXPROCS(0),
		variance:  VarianceConditional,
		overshoot: true,
		tracer:    otel.Tracer(tracerName),
	}
}

// Option configures NestedSampling.
type Option func(*options)

// WithSeed fixes the root seed. Without it a seed is drawn from crypto/rand
// and reported in Result.Seed.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed, o.seeded = seed, true }
}

// WithSweeps sets the Gibbs sweeps per regenerated particle.
func WithSweeps(n int) Option {
	return func(o *options) { o.gibbs.Sweeps = n }
}

// WithTruncatedNormal replaces the per-coordinate sampler, e.g. to change
// the bisection tolerance or iteration budget.
func WithTruncatedNormal(tn sampling.TruncatedNormal) Option {
	return func(o *options) { o.gibbs.Sampler = tn }
}

// WithMaxLevels caps the number of completed levels.
func WithMaxLevels(n int) Option {
	return func(o *options) { o.maxLevels = n }
}

// WithWorkers bounds the goroutines regenerating dead particles. Results do
// not depend on it.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func WithVarianceMode(m VarianceMode) Option {
	return func(o *options) { o.variance = m }
}

// WithOvershootCorrection toggles scaling (1/2)^K by the final fraction of
// the population beyond the target.
func WithOvershootCorrection(on bool) Option {
	return func(o *options) { o.overshoot = on }
}

// WithSink adds a per-level diagnostics sink. May be given more than once.
func WithSink(s Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}

// WithVerbose logs the run header, every level and the summary to log.
func WithVerbose(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log == nil {
			log = logrus.StandardLogger()
		}
		o.log = log
		o.sinks = append(o.sinks, LogSink{Log: log})
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// FromConfig translates the sampler part of cfg into options. The problem
// itself (Dim, Threshold, Population) is passed to NestedSampling directly.
func FromConfig(cfg params.Config) ([]Option, error) {
	mode, err := ParseVarianceMode(cfg.Variance)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithSweeps(cfg.Sweeps),
		WithTruncatedNormal(sampling.TruncatedNormal{Tol: cfg.BisectTol, MaxIter: cfg.BisectMaxIter}),
		WithMaxLevels(cfg.MaxLevels),
		WithVarianceMode(mode),
		WithOvershootCorrection(cfg.Overshoot),
	}
	if cfg.Workers > 0 {
		opts = append(opts, WithWorkers(cfg.Workers))
	}
	if cfg.Seed != 0 {
		opts = append(opts, WithSeed(cfg.Seed))
	}
	return opts, nil
}
