package analysis

import (
	"fmt"
	"io"
	"strings"
)

const ruleWidth = 80

// PrintSummary writes the validation summary tables in the fixed-width console layout.
func PrintSummary(w io.Writer, s Summary) {
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	fmt.Fprintln(w, "\n"+heavy)
	fmt.Fprintln(w, "ALGORITHM 1 VALIDATION SUMMARY")
	fmt.Fprintln(w, heavy)

	fmt.Fprintln(w, "\n[TABLE 1] Circuit Statistics")
	fmt.Fprintln(w, light)
	fmt.Fprintf(w, "%-12s %-15s %-15s %-15s\n", "Circuit", "Total Nodes", "Rare @ 20%", "Rare %")
	fmt.Fprintln(w, light)
	for _, r := range s.CircuitStats {
		fmt.Fprintf(w, "%-12s %-15d %-15d %-15.2f\n", r.Circuit, r.TotalNodes, r.RareNodes, r.RarePercentage)
	}

	fmt.Fprintln(w, "\n[TABLE 2] Rare Node Stability (Figure 3 Analysis)")
	fmt.Fprintln(w, light)
	fmt.Fprintf(w, "%-12s %-12s %-12s %-15s %-10s\n", "Circuit", "Min Rare", "Max Rare", "Variation", "Stable?")
	fmt.Fprintln(w, light)
	for _, r := range s.Stability {
		fmt.Fprintf(w, "%-12s %-12d %-12d %-15d %-10s\n", r.Circuit, r.MinRare, r.MaxRare, r.Variation, r.StableLabel())
	}

	fmt.Fprintln(w, "\n[TABLE 3] Anomaly Detection")
	fmt.Fprintln(w, light)
	fmt.Fprintf(w, "%-12s %-50s\n", "Circuit", "Issue Detected")
	fmt.Fprintln(w, light)
	for _, a := range s.Anomalies {
		fmt.Fprintf(w, "%-12s %-50s\n", a.Circuit, a.Issue)
	}

	fmt.Fprintln(w, heavy)
}
