package nested

import "gonum.org/v1/gonum/mat"

// LevelRecord describes one evaluated level.
type LevelRecord struct {
	K          int     `json:"k" yaml:"k"`
	Threshold  float64 `json:"threshold" yaml:"threshold"`
	VarMedian  float64 `json:"var_median" yaml:"var_median"`
	Survivors  int     `json:"survivors" yaml:"survivors"`
	AcceptRate float64 `json:"accept_rate" yaml:"accept_rate"`
	// Resampled is false for the terminal level, where the threshold already
	// reached the target and no particle was regenerated.
	Resampled bool `json:"resampled" yaml:"resampled"`
}

// Result is the summary of one run. Callers own it; the sampler keeps no
// reference after returning.
type Result struct {
	// Probability is RawProbability scaled by FinalFraction when the
	// overshoot correction is on, and equal to RawProbability otherwise.
	Probability    float64 `json:"probability" yaml:"probability"`
	RawProbability float64 `json:"raw_probability" yaml:"raw_probability"`
	K              int     `json:"k" yaml:"k"`
	// FinalFraction is the share of the final population whose mean is >= the target.
	FinalFraction float64 `json:"final_fraction" yaml:"final_fraction"`

	Thresholds     []float64     `json:"thresholds" yaml:"thresholds"`
	VarsMedian     []float64     `json:"vars_median" yaml:"vars_median"`
	AcceptRates    []float64     `json:"accept_rates" yaml:"accept_rates"`
	SurvivorCounts []int         `json:"survivor_counts" yaml:"survivor_counts"`
	Levels         []LevelRecord `json:"levels" yaml:"levels"`

	Converged  bool    `json:"converged" yaml:"converged"`
	Seed       uint64  `json:"seed" yaml:"seed"`
	Dim        int     `json:"dim" yaml:"dim"`
	Target     float64 `json:"target" yaml:"target"`
	Population int     `json:"population" yaml:"population"`

	// Samples is the final N x n population.
	Samples *mat.Dense `json:"-" yaml:"-"`
}

func (r *Result) append(rec LevelRecord) {
	r.Levels = append(r.Levels, rec)
	r.Thresholds = append(r.Thresholds, rec.Threshold)
	r.VarsMedian = append(r.VarsMedian, rec.VarMedian)
	r.SurvivorCounts = append(r.SurvivorCounts, rec.Survivors)
	if rec.Resampled {
		r.AcceptRates = append(r.AcceptRates, rec.AcceptRate)
	}
}
