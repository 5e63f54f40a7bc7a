package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/bench"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/nested"
	"github.com/GUJ258/Rare-Event-Estimation-via-Gibbs-Sampling-and-Bifurcation-Method/utils"
)

var (
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func box(title string, lines ...string) string {
	return borderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), strings.Join(lines, "\n")))
}

// relErrStyle colours a relative error green under 10%, yellow otherwise.
func relErrStyle(e float64) lipgloss.Style {
	if e < 0 {
		e = -e
	}
	if e < 0.1 {
		return goodStyle
	}
	return warnStyle
}

func renderRun(res *nested.Result, cmp bench.Comparison) string {
	status := goodStyle.Render("converged")
	if !res.Converged {
		status = warnStyle.Render("level cap reached")
	}
	summary := box(fmt.Sprintf("P(mean of %d N(0,1) >= %g)", res.Dim, res.Target),
		fmt.Sprintf("estimate        %.6e", res.Probability),
		fmt.Sprintf("(1/2)^K         %.6e   K = %d", res.RawProbability, res.K),
		fmt.Sprintf("final fraction  %.4f", res.FinalFraction),
		fmt.Sprintf("exact           %.6e   log2(1/p) = %.2f", cmp.Exact, cmp.ExpectedK),
		fmt.Sprintf("mills approx    %.6e", cmp.Mills),
		"relative error  "+relErrStyle(cmp.RelErr).Render(fmt.Sprintf("%+.2f%%", 100*cmp.RelErr)),
		fmt.Sprintf("N = %d   seed = %d   %s", res.Population, res.Seed, status),
	)

	levels := []string{dimStyle.Render(fmt.Sprintf("%4s  %12s  %12s  %9s  %7s", "k", "threshold", "var(median)", "survivors", "accept"))}
	for _, l := range res.Levels {
		accept := "-"
		if l.Resampled {
			accept = strconv.FormatFloat(l.AcceptRate, 'f', 3, 64)
		}
		levels = append(levels, fmt.Sprintf("%4d  %12.6f  %12.3e  %9d  %7s", l.K, l.Threshold, l.VarMedian, l.Survivors, accept))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		summary,
		box("Levels", levels...),
		box("Threshold path", thresholdPlot(res.Thresholds, res.Target)),
	)
}

func renderRepeat(rep *bench.RepeatReport) string {
	sorted := utils.Sorted(rep.Estimates)
	ks := make([]string, len(rep.Ks))
	for i, k := range rep.Ks {
		ks[i] = strconv.Itoa(k)
	}
	return box(fmt.Sprintf("%d repetitions", len(rep.Estimates)),
		fmt.Sprintf("mean estimate   %.6e", rep.Mean),
		fmt.Sprintf("std dev         %.6e   relative %.2f%%", rep.StdDev, 100*rep.RelStd),
		fmt.Sprintf("exact           %.6e", rep.Exact),
		"relative error  "+relErrStyle(rep.RelErr).Render(fmt.Sprintf("%+.2f%%", 100*rep.RelErr)),
		fmt.Sprintf("K per run       %s", strings.Join(ks, " ")),
		fmt.Sprintf("range           [%.4e, %.4e]", sorted[0], sorted[len(sorted)-1]),
	)
}

func renderMedianCheck(rep *bench.MedianCLTReport) string {
	verdict := goodStyle.Render("cannot reject normality")
	if rep.KSPValue <= 0.05 {
		verdict = warnStyle.Render("normality rejected at 5%")
	}
	return box(fmt.Sprintf("Median of %d N(0,1) draws, %d replications", rep.Size, rep.Reps),
		fmt.Sprintf("mean    theoretical %.8f   empirical %.8f", 0.0, rep.EmpiricalMean),
		fmt.Sprintf("std     theoretical %.8f   empirical %.8f", rep.TheoreticalStd, rep.EmpiricalStd),
		"ratio   "+relErrStyle(rep.StdRatio-1).Render(fmt.Sprintf("%.4f", rep.StdRatio)),
		fmt.Sprintf("KS      D = %.6f   p = %.4f   %s", rep.KSStat, rep.KSPValue, verdict),
	)
}

// thresholdPlot draws a vertical bar per level, scaled so the target fills
// the full height. Levels at or below zero render empty.
func thresholdPlot(thresholds []float64, target float64) string {
	const height = 8
	n := len(thresholds)
	if n == 0 {
		return "no levels to plot"
	}
	lo := min(0, thresholds[0])
	span := target - lo
	if span <= 0 {
		span = 1
	}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		cut := float64(row) / height
		for _, u := range thresholds {
			if (u-lo)/span >= cut {
				b.WriteString("█")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", n))
	b.WriteString("\n")
	for i := range thresholds {
		if i%5 == 0 {
			b.WriteString(strconv.Itoa(i % 10))
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}
