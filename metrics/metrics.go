// Package metrics exposes run diagnostics as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/nested"
)

const namespace = "nested_sampling"

// Collector implements nested.Sink. Register it on a dedicated registry per
// run; the gauges hold the latest level only.
type Collector struct {
	Levels     prometheus.Counter
	Threshold  prometheus.Gauge
	VarMedian  prometheus.Gauge
	Survivors  prometheus.Gauge
	AcceptRate prometheus.Histogram

	Probability prometheus.Gauge
	K           prometheus.Gauge
}

// NewCollector creates the metrics and registers them on reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Levels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "levels_total",
			Help: "Levels evaluated, including the terminal one.",
		}),
		Threshold: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "threshold",
			Help: "Median threshold of the latest level.",
		}),
		VarMedian: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "median_variance",
			Help: "Asymptotic variance of the latest median threshold.",
		}),
		Survivors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "survivors",
			Help: "Particles at or above the latest threshold.",
		}),
		AcceptRate: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "accept_rate",
			Help:    "Share of Gibbs sweeps ending inside the region, per resampled level.",
			Buckets: []float64{0.5, 0.9, 0.99, 0.999, 1},
		}),
		Probability: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "probability",
			Help: "Final probability estimate.",
		}),
		K: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "halvings",
			Help: "Completed levels K.",
		}),
	}
	for _, m := range []prometheus.Collector{
		c.Levels, c.Threshold, c.VarMedian, c.Survivors, c.AcceptRate, c.Probability, c.K,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) Level(rec nested.LevelRecord) {
	c.Levels.Inc()
	c.Threshold.Set(rec.Threshold)
	c.VarMedian.Set(rec.VarMedian)
	c.Survivors.Set(float64(rec.Survivors))
	if rec.Resampled {
		c.AcceptRate.Observe(rec.AcceptRate)
	}
}

// Finish records the summary of a (possibly partial) result.
func (c *Collector) Finish(res *nested.Result) {
	if res == nil {
		return
	}
	c.Probability.Set(res.Probability)
	c.K.Set(float64(res.K))
}
