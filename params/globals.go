package params

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/logger"
)

// EnvPrefix is prepended to every environment override, e.g. NS_POPULATION.
const EnvPrefix = "NS_"

type Config struct {
	// Problem: P(mean(X_1..X_Dim) >= Threshold)
	Dim        int     `yaml:"dim" env:"DIM"`
	Threshold  float64 `yaml:"threshold" env:"THRESHOLD"`
	Population int     `yaml:"population" env:"POPULATION"` // N, even

	// Corrector
	Sweeps        int     `yaml:"sweeps" env:"SWEEPS"` // Gibbs sweeps per regenerated particle
	BisectTol     float64 `yaml:"bisect_tol" env:"BISECT_TOL"`
	BisectMaxIter int     `yaml:"bisect_max_iter" env:"BISECT_MAX_ITER"`

	// Run control
	MaxLevels int    `yaml:"max_levels" env:"MAX_LEVELS"`
	Workers   int    `yaml:"workers" env:"WORKERS"` // 0 = GOMAXPROCS
	Seed      uint64 `yaml:"seed" env:"SEED"`       // 0 = fresh seed from crypto/rand

	// Reporting
	Variance  string `yaml:"variance" env:"VARIANCE"` // conditional | unconditional | empirical
	Overshoot bool   `yaml:"overshoot" env:"OVERSHOOT"`
	Verbose   bool   `yaml:"verbose" env:"VERBOSE"`

	Log logger.Config `yaml:"log" envPrefix:"LOG_"`
}

// Defaults reproduce the n=10, a=2 example at a population that runs in
// seconds. Bump Population to 1<<18 for the published numbers.
var Defaults = Config{
	Dim:        10,
	Threshold:  2.0,
	Population: 1 << 16,

	Sweeps:        10,
	BisectTol:     1e-10,
	BisectMaxIter: 100,

	MaxLevels: 200,
	Workers:   0,
	Seed:      0,

	Variance:  "conditional",
	Overshoot: true,
	Verbose:   false,

	Log: logger.Config{
		Level:      "info",
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     14,
	},
}

// Load layers Defaults, then the YAML file at path (skipped when path is
// empty), then NS_* environment variables.
func Load(path string) (Config, error) {
	cfg := Defaults
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}
