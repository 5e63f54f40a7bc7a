package main

import (
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/params"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/sampling"
)

// seedFor returns the configured seed, or a fresh one when it is 0 so that
// commands needing a base seed can still report it.
func seedFor(cfg params.Config) (uint64, error) {
	if cfg.Seed != 0 {
		return cfg.Seed, nil
	}
	return sampling.NewSeed()
}
