package torsion

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteReport writes the ranked result table.
func WriteReport(w io.Writer, ranked []FitResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n--- Results Sorted by RMSE (Lowest to Highest) ---\n\n")
	fmt.Fprintf(bw, "%-14s %-20s %-20s %s %s\n",
		"Original Run", "RMSE (kcal/mol)", "MAE/RMSE", "Terms Used (Indices)", "Coefficients")
	fmt.Fprintln(bw, strings.Repeat("-", 54))
	for _, r := range ranked {
		fmt.Fprintf(bw, "%-14d %.6f %.6f %s %s\n",
			r.Run, r.RMSE, r.Ratio, formatInts(r.Indices), formatFloats(r.Coefficients, "%.6f"))
	}
	return bw.Flush()
}

// WriteSummary writes the human readable description of the chosen model.
// The "Indices" line lists the multiplicities of the chosen terms.
func WriteSummary(w io.Writer, sel Selection) error {
	var (
		r          = sel.Chosen
		lines      []string
		ratioLabel = "RMSE/MAE - 1"
	)
	if sel.Adequate {
		lines = append(lines, "", "--- Smallest Function Below Minimal Error Threshold ---")
	} else {
		ratioLabel = "RMSE/MAE"
		lines = append(lines, "", "No function found with RMSE below threshold.",
			"", "--- Best possible parameters ---")
	}
	lines = append(lines,
		fmt.Sprintf("Original Run: %d", r.Run),
		fmt.Sprintf("RMSE (kcal/mol): %.6f", r.RMSE),
		fmt.Sprintf("%s: %.6f", ratioLabel, r.Ratio),
		fmt.Sprintf("Terms Used (Indices): %s", formatInts(r.Multiplicities())),
		fmt.Sprintf("Shift Values: %s", formatFloats(r.Phases, "%g")),
		fmt.Sprintf("Coefficients (kcal/mol): %s", formatFloats(r.Coefficients, "%.6f")),
	)
	if r.Capped {
		lines = append(lines, fmt.Sprintf("Warning: phase search stopped at the iteration cap (%d)", r.Iterations))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// WriteCurve writes angle, reference, baseline and fitted energy columns of
// one result.
func WriteCurve(w io.Writer, p *Profile, r FitResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# run %d, terms %s, phases %s\n", r.Run, formatInts(r.Indices), formatFloats(r.Phases, "%g"))
	fmt.Fprintf(bw, "# %12s %14s %14s %14s\n", "angle", "reference", "baseline", "fitted")
	for k := range p.Phis {
		fmt.Fprintf(bw, "%14.4f %14.6f %14.6f %14.6f\n", p.Phis[k], p.Reference[k], p.Baseline[k], r.Fitted[k])
	}
	return bw.Flush()
}

func formatInts(v []int) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = fmt.Sprint(x)
	}
	return "[" + strings.Join(s, ", ") + "]"
}

func formatFloats(v []float64, format string) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = fmt.Sprintf(format, x)
	}
	return "[" + strings.Join(s, " ") + "]"
}
