package IO

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/nested"
)

func sampleResult() *nested.Result {
	return &nested.Result{
		Probability:    0.1875,
		RawProbability: 0.25,
		K:              2,
		FinalFraction:  0.75,
		Thresholds:     []float64{0.1, 0.6, 1.2},
		VarsMedian:     []float64{1e-3, math.Inf(1), 2e-3},
		AcceptRates:    []float64{1, 1},
		SurvivorCounts: []int{8, 8, 8},
		Levels: []nested.LevelRecord{
			{K: 0, Threshold: 0.1, VarMedian: 1e-3, Survivors: 8, AcceptRate: 1, Resampled: true},
			{K: 1, Threshold: 0.6, VarMedian: math.Inf(1), Survivors: 8, AcceptRate: 1, Resampled: true},
			{K: 2, Threshold: 1.2, VarMedian: 2e-3, Survivors: 8},
		},
		Converged:  true,
		Seed:       7,
		Dim:        2,
		Target:     1,
		Population: 16,
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"table": FormatTable, "JSON": FormatJSON, " yaml ": FormatYAML, "yml": FormatYAML, "csv": FormatCSV,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestExportJSONNullsNonFinite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportResult(&buf, sampleResult(), FormatJSON))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 0.1875, got["probability"])
	assert.Equal(t, float64(2), got["k"])
	vars := got["vars_median"].([]any)
	require.Len(t, vars, 3)
	assert.Nil(t, vars[1])
	assert.Equal(t, 2e-3, vars[2])
	levels := got["levels"].([]any)
	assert.Nil(t, levels[1].(map[string]any)["var_median"])
	assert.Equal(t, false, levels[2].(map[string]any)["resampled"])
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportResult(&buf, sampleResult(), FormatYAML))

	var got nested.Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got.K)
	assert.True(t, math.IsInf(got.VarsMedian[1], 1))
	assert.Equal(t, uint64(7), got.Seed)
	assert.Len(t, got.Levels, 3)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportResult(&buf, sampleResult(), FormatCSV))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, levelHeader, rows[0])
	assert.Equal(t, []string{"1", "0.6", "+Inf", "8", "1", "true"}, rows[2])
	assert.Equal(t, "false", rows[3][5])
}

func TestEncodeRejectsTable(t *testing.T) {
	err := Encode(&bytes.Buffer{}, sampleResult(), FormatTable)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestExportResultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.csv")
	require.NoError(t, ExportResultFile(path, sampleResult(), FormatCSV))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "k,threshold,var_median")

	err = ExportResultFile(filepath.Join(t.TempDir(), "missing", "x.json"), sampleResult(), FormatJSON)
	assert.Error(t, err)
}

func TestWriteFileReturnsWriterError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	boom := errors.New("boom")
	err := WriteFile(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	require.NoError(t, WriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "ok")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}
