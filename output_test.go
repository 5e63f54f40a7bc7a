package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/bench"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/nested"
)

func TestThresholdPlot(t *testing.T) {
	out := thresholdPlot([]float64{0, 0.5, 1}, 1)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "  █", lines[0]) // only the level at the target reaches the top
	assert.Equal(t, " ██", lines[4]) // half height
	assert.Equal(t, "───", lines[8])
	assert.Equal(t, "0  ", lines[9])

	assert.Equal(t, "no levels to plot", thresholdPlot(nil, 1))
}

func TestRenderRun(t *testing.T) {
	res := &nested.Result{
		Probability: 0.1, RawProbability: 0.125, K: 3, FinalFraction: 0.8,
		Thresholds: []float64{0.2, 0.5, 0.9, 1.1},
		Levels: []nested.LevelRecord{
			{K: 0, Threshold: 0.2, Survivors: 8, AcceptRate: 1, Resampled: true},
			{K: 1, Threshold: 0.5, Survivors: 8, AcceptRate: 1, Resampled: true},
			{K: 2, Threshold: 0.9, Survivors: 8, AcceptRate: 1, Resampled: true},
			{K: 3, Threshold: 1.1, Survivors: 8},
		},
		Converged: true, Seed: 11, Dim: 1, Target: 1, Population: 16,
	}
	out := renderRun(res, bench.Compare(res))
	assert.Contains(t, out, "P(mean of 1 N(0,1) >= 1)")
	assert.Contains(t, out, "K = 3")
	assert.Contains(t, out, "seed = 11")
	assert.Contains(t, out, "converged")
	assert.Contains(t, out, "1.000")
}

func TestRenderMedianCheck(t *testing.T) {
	out := renderMedianCheck(&bench.MedianCLTReport{Reps: 10, Size: 5, TheoreticalStd: 0.5, EmpiricalStd: 0.5, StdRatio: 1, KSPValue: 0.01})
	assert.Contains(t, out, "normality rejected")
}
