package sweep

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/netlist"
)

// DefaultTransitionRatios are the thresholds of the single-circuit transition check.
var DefaultTransitionRatios = []float64{0.05, 0.10, 0.15, 0.20, 0.25}

// TransitionRow summarizes one threshold of the transition check.
type TransitionRow struct {
	Ratio float64 `json:"ratio"`
	// Limit is floor(vectors*ratio); a node qualifies when its rarer value occurs strictly fewer times.
	Limit          int     `json:"limit"`
	RareNodes      int     `json:"rare_nodes"`
	AvgOccurrences float64 `json:"avg_occurrences"`
}

// TransitionReport is the outcome of TransitionCounts for one circuit.
type TransitionReport struct {
	Circuit    string          `json:"circuit"`
	NumVectors int             `json:"num_vectors"`
	Rows       []TransitionRow `json:"rows"`
}

// TransitionCounts simulates one benchmark once and, for each ratio, counts candidate nodes whose
// rarer value occurred strictly fewer than the limit times and the mean occurrence of that value.
// It shows how close a circuit's nodes sit to the rarity cut-off.
func TransitionCounts(ctx context.Context, path string, numVectors int, ratios []float64, seed int64) (*TransitionReport, error) {
	nl, err := netlist.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	sim := netlist.NewSimulator(nl, seed)
	ones, err := sim.OnesCounts(ctx, numVectors)
	if err != nil {
		return nil, err
	}
	rep := &TransitionReport{Circuit: nl.Name, NumVectors: numVectors}
	for _, ratio := range ratios {
		row := TransitionRow{Ratio: ratio, Limit: int(float64(numVectors) * ratio)}
		var occurrences int64
		for _, nd := range nl.Nodes() {
			if !netlist.IsCandidate(nd.Type) {
				continue
			}
			c1 := ones[nd.ID]
			c0 := numVectors - c1
			switch {
			case c1 < row.Limit:
				occurrences += int64(c1)
				row.RareNodes++
			case c0 < row.Limit:
				occurrences += int64(c0)
				row.RareNodes++
			}
		}
		if row.RareNodes > 0 {
			row.AvgOccurrences = float64(occurrences) / float64(row.RareNodes)
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep, nil
}

// Print writes the report as a fixed-width table.
func (t *TransitionReport) Print(w io.Writer) {
	fmt.Fprintf(w, "\nThreshold Analysis for %s (%d vectors):\n", t.Circuit, t.NumVectors)
	fmt.Fprintln(w, "Theta | Thresh Count | Nodes Found | Avg Occurrences")
	fmt.Fprintln(w, "------+--------------+-------------+----------------")
	for _, r := range t.Rows {
		fmt.Fprintf(w, "%.2f  | %12d | %11d | %11.2f\n", r.Ratio, r.Limit, r.RareNodes, r.AvgOccurrences)
	}
	fmt.Fprintln(w, strings.Repeat("=", 56))
}
