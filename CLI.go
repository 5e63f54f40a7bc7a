package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/IO"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/bench"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/metrics"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/nested"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/params"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/sampling"
)

var (
	runFlags    problemFlags
	repeatFlags problemFlags

	format      string
	outPath     string
	metricsFile string
	repeatReps  int
	medianReps  int
	sampleSize  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Estimate the tail probability once",
	Example: `  nestsample run -n 1 -a 3 -N 2^14
  nestsample run -n 10 -a 2 -N 2^16 --seed 2024 --format json --out result.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config
		if err := runFlags.apply(cmd, &cfg); err != nil {
			return err
		}
		f, err := IO.ParseFormat(format)
		if err != nil {
			return err
		}
		opts, entry, err := samplerOptions(cfg, "run")
		if err != nil {
			return err
		}

		var (
			reg  *prometheus.Registry
			coll *metrics.Collector
		)
		if metricsFile != "" {
			reg = prometheus.NewRegistry()
			if coll, err = metrics.NewCollector(reg); err != nil {
				return err
			}
			opts = append(opts, nested.WithSink(coll))
		}

		res, runErr := nested.NestedSampling(cmd.Context(), cfg.Dim, cfg.Threshold, cfg.Population, opts...)
		if res == nil {
			return runErr
		}
		if runErr != nil {
			entry.WithError(runErr).Warn("reporting partial result")
		}

		if coll != nil {
			coll.Finish(res)
			if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
				return errors.Wrapf(err, "write metrics %s", metricsFile)
			}
		}

		switch {
		case f == IO.FormatTable:
			err = withOutput(cmd, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, renderRun(res, bench.Compare(res)))
				return err
			})
		case outPath != "":
			err = IO.ExportResultFile(outPath, res, f)
		default:
			err = IO.ExportResult(cmd.OutOrStdout(), res, f)
		}
		if err != nil {
			return err
		}

		entry.WithFields(logrus.Fields{
			"probability": res.Probability,
			"K":           res.K,
			"seed":        res.Seed,
		}).Info("run complete")
		return runErr
	},
}

var repeatCmd = &cobra.Command{
	Use:   "repeat",
	Short: "Run several seeds and compare the mean estimate with the exact tail",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config
		if err := repeatFlags.apply(cmd, &cfg); err != nil {
			return err
		}
		f, err := IO.ParseFormat(format)
		if err != nil {
			return err
		}
		if f == IO.FormatCSV {
			return errors.Wrap(IO.ErrUnknownFormat, "repeat reports table, json or yaml")
		}
		base, err := seedFor(cfg)
		if err != nil {
			return err
		}
		opts, entry, err := samplerOptions(cfg, "repeat")
		if err != nil {
			return err
		}
		entry.WithFields(logrus.Fields{"reps": repeatReps, "base_seed": base}).Info("repeating runs")

		rep, err := bench.Repeat(cmd.Context(), cfg.Dim, cfg.Threshold, cfg.Population, repeatReps, base, opts...)
		if err != nil {
			return err
		}
		return withOutput(cmd, func(w io.Writer) error {
			if f == IO.FormatTable {
				_, err := fmt.Fprintln(w, renderRepeat(rep))
				return err
			}
			return IO.Encode(w, rep, f)
		})
	},
}

var medianCheckCmd = &cobra.Command{
	Use:   "median-check",
	Short: "Check the asymptotic normality of the sample median used for threshold variances",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := IO.ParseFormat(format)
		if err != nil {
			return err
		}
		if f == IO.FormatCSV {
			return errors.Wrap(IO.ErrUnknownFormat, "median-check reports table, json or yaml")
		}
		seed, err := seedFor(config)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"run_id": uuid.New().String(), "reps": medianReps, "size": sampleSize, "seed": seed,
		}).Info("sampling medians")

		rep, err := bench.MedianCLT(sampling.NewStream(seed), medianReps, sampleSize)
		if err != nil {
			return err
		}
		return withOutput(cmd, func(w io.Writer) error {
			if f == IO.FormatTable {
				_, err := fmt.Fprintln(w, renderMedianCheck(rep))
				return err
			}
			return IO.Encode(w, rep, f)
		})
	},
}

func init() {
	runFlags.register(runCmd)
	repeatFlags.register(repeatCmd)
	repeatCmd.Flags().IntVar(&repeatReps, "reps", 10, "number of independent runs")

	medianCheckCmd.Flags().IntVar(&medianReps, "reps", 10000, "number of medians")
	medianCheckCmd.Flags().IntVar(&sampleSize, "size", 10000, "draws per median")

	for _, c := range []*cobra.Command{runCmd, repeatCmd, medianCheckCmd} {
		c.Flags().StringVar(&format, "format", string(IO.FormatTable), "table, json, yaml or csv")
		c.Flags().StringVarP(&outPath, "out", "o", "", "write the report to this file instead of stdout")
	}
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics for the run to this file")
}

// samplerOptions turns cfg into sampler options and returns the log entry
// tagged with a fresh run id.
func samplerOptions(cfg params.Config, command string) ([]nested.Option, *logrus.Entry, error) {
	opts, err := nested.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	entry := log.WithFields(logrus.Fields{
		"run_id":  uuid.New().String(),
		"command": command,
	})
	if cfg.Verbose {
		opts = append(opts, nested.WithVerbose(entry))
	}
	return opts, entry, nil
}

func withOutput(cmd *cobra.Command, write func(w io.Writer) error) error {
	if outPath == "" {
		return write(cmd.OutOrStdout())
	}
	return IO.WriteFile(outPath, write)
}
