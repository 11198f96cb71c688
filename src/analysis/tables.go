package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/types"
)

// CircuitStat is a row of the circuit statistics table (threshold dataset at the reference threshold).
type CircuitStat struct {
	Circuit        string  `json:"circuit"`
	TotalNodes     int     `json:"total_nodes"`
	RareNodes      int     `json:"rare_nodes"`
	RarePercentage float64 `json:"rare_pct"`
}

// StabilityRow is a row of the rare node stability table (vector dataset).
type StabilityRow struct {
	Circuit   string `json:"circuit"`
	MinRare   int    `json:"min_rare"`
	MaxRare   int    `json:"max_rare"`
	Variation int    `json:"variation"`
	Stable    bool   `json:"stable"`
}

// Anomaly is a row of the anomaly detection table.
type Anomaly struct {
	Circuit string `json:"circuit"`
	Issue   string `json:"issue"`
}

// Summary holds the three report tables.
type Summary struct {
	CircuitStats []CircuitStat  `json:"circuit_stats"`
	Stability    []StabilityRow `json:"stability"`
	Anomalies    []Anomaly      `json:"anomalies"`
}

// Options controls the table computations.
type Options struct {
	// ReferenceThreshold selects the threshold rows for the circuit statistics table (percent).
	ReferenceThreshold float64
	// StabilityTolerance: a circuit is stable when max-min < tolerance*max.
	StabilityTolerance float64
	// AnomalyCircuit is the circuit checked by the anomaly rules.
	AnomalyCircuit string
}

// DefaultOptions mirrors the published report.
func DefaultOptions() Options {
	return Options{ReferenceThreshold: 20.0, StabilityTolerance: 0.1, AnomalyCircuit: "s35932"}
}

const (
	issueZeroRare   = "0% rare nodes for thresholds 5%-20%, jumps at 25%"
	issueNearlyZero = "Nearly 0% rare nodes across all vector counts"
	thresholdEps    = 1e-9
)

// Summarize computes all three tables.
func Summarize(th []types.ThresholdRecord, vec []types.VectorRecord, opts Options) Summary {
	return Summary{
		CircuitStats: CircuitStats(th, opts.ReferenceThreshold),
		Stability:    Stability(vec, opts.StabilityTolerance),
		Anomalies:    Anomalies(th, vec, opts.AnomalyCircuit),
	}
}

// CircuitStats returns, per circuit in first-appearance order, the first row at the reference
// threshold. Circuits without such a row are left out.
func CircuitStats(th []types.ThresholdRecord, reference float64) []CircuitStat {
	var out []CircuitStat
	groups := GroupByCircuit(th, ThresholdCircuit)
	for _, c := range Circuits(th, ThresholdCircuit) {
		for _, r := range groups[c] {
			if math.Abs(r.Threshold-reference) < thresholdEps {
				out = append(out, CircuitStat{Circuit: c, TotalNodes: r.TotalNodes, RareNodes: r.RareNodes, RarePercentage: r.RarePercentage})
				break
			}
		}
	}
	return out
}

// Stability returns min/max rare node counts per circuit across vector counts.
func Stability(vec []types.VectorRecord, tolerance float64) []StabilityRow {
	var out []StabilityRow
	groups := GroupByCircuit(vec, VectorCircuit)
	for _, c := range Circuits(vec, VectorCircuit) {
		rare := make([]float64, len(groups[c]))
		for i, r := range groups[c] {
			rare[i] = float64(r.RareNodes)
		}
		minRare, maxRare := int(floats.Min(rare)), int(floats.Max(rare))
		variation := maxRare - minRare
		out = append(out, StabilityRow{
			Circuit:   c,
			MinRare:   minRare,
			MaxRare:   maxRare,
			Variation: variation,
			Stable:    float64(variation) < float64(maxRare)*tolerance,
		})
	}
	return out
}

// Anomalies applies the two anomaly rules to circuit:
// any zero-rare row in the threshold dataset, and a maximum of at most one rare node in the vector dataset.
func Anomalies(th []types.ThresholdRecord, vec []types.VectorRecord, circuit string) []Anomaly {
	var out []Anomaly
	if rows := GroupByCircuit(th, ThresholdCircuit)[circuit]; len(rows) > 0 {
		for _, r := range rows {
			if r.RareNodes == 0 {
				out = append(out, Anomaly{Circuit: circuit, Issue: issueZeroRare})
				break
			}
		}
	}
	if rows := GroupByCircuit(vec, VectorCircuit)[circuit]; len(rows) > 0 {
		maxRare := rows[0].RareNodes
		for _, r := range rows[1:] {
			if r.RareNodes > maxRare {
				maxRare = r.RareNodes
			}
		}
		if maxRare <= 1 {
			out = append(out, Anomaly{Circuit: circuit, Issue: issueNearlyZero})
		}
	}
	return out
}

// StableLabel renders the stability flag as printed in the report.
func (s StabilityRow) StableLabel() string {
	if s.Stable {
		return "Yes"
	}
	return "No"
}
