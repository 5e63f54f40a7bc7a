package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamReplaysForSameSeed(t *testing.T) {
	a, b := NewStream(42), NewStream(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uniform(), b.Uniform())
		require.Equal(t, a.StdNormal(), b.StdNormal())
	}
	assert.NotEqual(t, NewStream(1).Uniform(), NewStream(2).Uniform())
}

func TestUniformRange(t *testing.T) {
	s := NewStream(7)
	for i := 0; i < 10000; i++ {
		u := s.Uniform()
		require.GreaterOrEqual(t, u, 0.0)
		require.Less(t, u, 1.0)
	}
}

func TestDeriveIgnoresParentPosition(t *testing.T) {
	root := NewStream(99)
	first := root.Derive(3, 17).Uniform()

	for i := 0; i < 50; i++ {
		root.Uniform()
	}
	assert.Equal(t, first, root.Derive(3, 17).Uniform())
	assert.Equal(t, root.Derive(3, 17).Seed(), NewStream(99).Derive(3, 17).Seed())
}

func TestDeriveSeparatesStreams(t *testing.T) {
	root := NewStream(5)
	seen := map[uint64]struct{}{}
	for level := 0; level < 8; level++ {
		for idx := 0; idx < 64; idx++ {
			s := root.Derive(level, idx).Seed()
			_, dup := seen[s]
			require.False(t, dup, "level %d index %d reuses a seed", level, idx)
			seen[s] = struct{}{}
		}
	}
}

func TestStdNormalMoments(t *testing.T) {
	s := NewStream(2024)
	const n = 200000
	var sum, sq float64
	for i := 0; i < n; i++ {
		z := s.StdNormal()
		sum += z
		sq += z * z
	}
	mean := sum / n
	assert.InDelta(t, 0, mean, 0.01)
	assert.InDelta(t, 1, sq/n-mean*mean, 0.02)
}

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
