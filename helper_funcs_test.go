package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/params"
)

func TestParsePopulation(t *testing.T) {
	for in, want := range map[string]int{
		"1024":   1024,
		"2^14":   1 << 14,
		" 2^16 ": 1 << 16,
		"4^3":    64,
		"2^0":    1,
	} {
		got, err := parsePopulation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "abc", "2^x", "0^3", "2^-1", "2^40"} {
		_, err := parsePopulation(in)
		assert.Error(t, err, in)
	}
}

func TestProblemFlagsOverrideOnlyWhenSet(t *testing.T) {
	var p problemFlags
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	p.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"-n", "3", "-N", "2^10", "--no-overshoot", "--variance", "empirical"}))

	cfg := params.Defaults
	cfg.Threshold = 4.5
	cfg.Sweeps = 7
	require.NoError(t, p.apply(cmd, &cfg))

	assert.Equal(t, 3, cfg.Dim)
	assert.Equal(t, 1024, cfg.Population)
	assert.False(t, cfg.Overshoot)
	assert.Equal(t, "empirical", cfg.Variance)
	// untouched flags keep the config values
	assert.Equal(t, 4.5, cfg.Threshold)
	assert.Equal(t, 7, cfg.Sweeps)
}

func TestProblemFlagsBadPopulation(t *testing.T) {
	var p problemFlags
	cmd := &cobra.Command{Use: "x"}
	p.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"-N", "lots"}))
	cfg := params.Defaults
	assert.Error(t, p.apply(cmd, &cfg))
}

func TestSeedFor(t *testing.T) {
	cfg := params.Defaults
	cfg.Seed = 42
	s, err := seedFor(cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), s)

	cfg.Seed = 0
	a, err := seedFor(cfg)
	require.NoError(t, err)
	b, err := seedFor(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
