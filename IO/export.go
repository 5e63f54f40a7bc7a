package IO

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/nested"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

var ErrUnknownFormat = errors.New("unknown output format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// Encode writes v as indented JSON or YAML. Non-finite floats in v make the
// JSON encoder fail; results should go through ExportResult instead.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encode json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return errors.Wrap(enc.Close(), "encode yaml")
	}
	return errors.Wrapf(ErrUnknownFormat, "%q cannot encode arbitrary values", f)
}

// ExportResult writes res in the given format. CSV holds one row per level.
func ExportResult(w io.Writer, res *nested.Result, f Format) error {
	switch f {
	case FormatCSV:
		return writeLevelsCSV(w, res.Levels)
	case FormatJSON:
		return Encode(w, toJSONResult(res), f)
	}
	return Encode(w, res, f)
}

// ExportResultFile creates path and writes res into it.
func ExportResultFile(path string, res *nested.Result, f Format) error {
	return WriteFile(path, func(w io.Writer) error { return ExportResult(w, res, f) })
}

// WriteFile creates path, hands it to write and reports the first error of
// write or Close.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return write(out)
}

var levelHeader = []string{"k", "threshold", "var_median", "survivors", "accept_rate", "resampled"}

func writeLevelsCSV(w io.Writer, levels []nested.LevelRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(levelHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, l := range levels {
		row := []string{
			strconv.Itoa(l.K),
			formatFloat(l.Threshold),
			formatFloat(l.VarMedian),
			strconv.Itoa(l.Survivors),
			formatFloat(l.AcceptRate),
			strconv.FormatBool(l.Resampled),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write csv level %d", l.K)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// JSON has no Inf or NaN; such values are written as null.

type jsonLevel struct {
	K          int      `json:"k"`
	Threshold  float64  `json:"threshold"`
	VarMedian  *float64 `json:"var_median"`
	Survivors  int      `json:"survivors"`
	AcceptRate float64  `json:"accept_rate"`
	Resampled  bool     `json:"resampled"`
}

type jsonResult struct {
	Probability    float64     `json:"probability"`
	RawProbability float64     `json:"raw_probability"`
	K              int         `json:"k"`
	FinalFraction  float64     `json:"final_fraction"`
	Thresholds     []float64   `json:"thresholds"`
	VarsMedian     []*float64  `json:"vars_median"`
	AcceptRates    []float64   `json:"accept_rates"`
	SurvivorCounts []int       `json:"survivor_counts"`
	Levels         []jsonLevel `json:"levels"`
	Converged      bool        `json:"converged"`
	Seed           uint64      `json:"seed"`
	Dim            int         `json:"dim"`
	Target         float64     `json:"target"`
	Population     int         `json:"population"`
}

func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func toJSONResult(res *nested.Result) jsonResult {
	out := jsonResult{
		Probability:    res.Probability,
		RawProbability: res.RawProbability,
		K:              res.K,
		FinalFraction:  res.FinalFraction,
		Thresholds:     res.Thresholds,
		AcceptRates:    res.AcceptRates,
		SurvivorCounts: res.SurvivorCounts,
		Converged:      res.Converged,
		Seed:           res.Seed,
		Dim:            res.Dim,
		Target:         res.Target,
		Population:     res.Population,
	}
	for _, v := range res.VarsMedian {
		out.VarsMedian = append(out.VarsMedian, finite(v))
	}
	for _, l := range res.Levels {
		out.Levels = append(out.Levels, jsonLevel{
			K:          l.K,
			Threshold:  l.Threshold,
			VarMedian:  finite(l.VarMedian),
			Survivors:  l.Survivors,
			AcceptRate: l.AcceptRate,
			Resampled:  l.Resampled,
		})
	}
	return out
}
