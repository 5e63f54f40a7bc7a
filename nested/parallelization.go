package nested

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/sampling"
)

// Every particle draws from its own stream root.Derive(level, row), so the
// population after a level is the same whatever the worker count. Workers
// write only the rows they own; survivor rows are read-only for the level.

// forChunks splits [0, total) into contiguous chunks and runs fn on them
// with at most workers goroutines. The first error cancels the others.
func forChunks(ctx context.Context, total, workers int, fn func(ctx context.Context, lo, hi int) error) error {
	if total == 0 {
		return nil
	}
	workers = max(1, min(workers, total))
	size := (total + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < total; lo += size {
		hi := min(lo+size, total)
		g.Go(func() error { return fn(ctx, lo, hi) })
	}
	return g.Wait()
}

// initPopulation fills pop with i.i.d. N(0,1) entries.
func initPopulation(ctx context.Context, pop *mat.Dense, root *sampling.Stream, workers int) error {
	N, _ := pop.Dims()
	return forChunks(ctx, N, workers, func(ctx context.Context, lo, hi int) error {
		for i := lo; i < hi; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			src := root.Derive(0, i)
			row := pop.RawRowView(i)
			for j := range row {
				row[j] = src.StdNormal()
			}
		}
		return nil
	})
}

// resampleDead overwrites every dead row with a clone of a uniformly chosen
// survivor and moves it with the Gibbs corrector at the split threshold. It
// returns the fraction of accepted sweeps.
func resampleDead(ctx context.Context, pop *mat.Dense, sp Split, root *sampling.Stream, g sampling.Gibbs, workers int) (float64, error) {
	if len(sp.Dead) == 0 {
		return 1, nil
	}
	if len(sp.Survivors) == 0 {
		return 0, errors.Errorf("level %d has no survivors", sp.Level)
	}

	accepted := make([]int, len(sp.Dead))
	err := forChunks(ctx, len(sp.Dead), workers, func(ctx context.Context, lo, hi int) error {
		for j := lo; j < hi; j++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			idx := sp.Dead[j]
			src := root.Derive(sp.Level+1, idx)
			row := pop.RawRowView(idx)
			copy(row, pop.RawRowView(sp.Survivors[src.IntN(len(sp.Survivors))]))

			acc, err := g.Resample(src, row, sp.Threshold)
			if err != nil {
				return errors.WithMessagef(err, "level %d particle %d", sp.Level, idx)
			}
			accepted[j] = acc
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	total := 0
	for _, a := range accepted {
		total += a
	}
	return float64(total) / float64(len(sp.Dead)*g.Sweeps), nil
}
