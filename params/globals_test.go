package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults, cfg)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dim: 1
threshold: 3.0
population: 16384
sweeps: 5
variance: empirical
log:
  level: debug
`), 0o644))

	t.Setenv("NS_POPULATION", "4096")
	t.Setenv("NS_SEED", "12345")
	t.Setenv("NS_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Dim)
	assert.Equal(t, 3.0, cfg.Threshold)
	assert.Equal(t, 5, cfg.Sweeps)
	assert.Equal(t, "empirical", cfg.Variance)
	// env wins over the file
	assert.Equal(t, 4096, cfg.Population)
	assert.Equal(t, uint64(12345), cfg.Seed)
	assert.Equal(t, "warn", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, Defaults.MaxLevels, cfg.MaxLevels)
	assert.True(t, cfg.Overshoot)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dim: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	t.Setenv("NS_DIM", "ten")
	_, err = Load("")
	assert.Error(t, err)
}
