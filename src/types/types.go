// Package types holds the record shapes shared between the sweep (which writes the
// rare-node datasets) and the analysis/report side (which reads them back).
package types

// Default dataset and chart file names, relative to the working directory.
const (
	DefaultThresholdCSV = "validation_fig2.csv"
	DefaultVectorCSV    = "validation_fig3.csv"
	DefaultThresholdPNG = "validation_fig2_plot.png"
	DefaultVectorPNG    = "validation_fig3_plot.png"
)

// Column headers, in file order.
var (
	ThresholdHeader = []string{"Circuit", "Threshold", "TotalNodes", "RareNodes", "RarePercentage"}
	VectorHeader    = []string{"Circuit", "NumVectors", "TotalNodes", "RareNodes", "RarePercentage"}
)

// ThresholdRecord is one row of the threshold sweep: rare node statistics for a circuit
// at a fixed vector count and a varying rarity threshold (percent of vectors).
type ThresholdRecord struct {
	Circuit        string  `json:"circuit"`
	Threshold      float64 `json:"threshold_pct"`
	TotalNodes     int     `json:"total_nodes"`
	RareNodes      int     `json:"rare_nodes"`
	RarePercentage float64 `json:"rare_pct"`
}

// VectorRecord is one row of the vector-count sweep: rare node statistics for a circuit
// at a fixed threshold and a varying number of random test vectors.
type VectorRecord struct {
	Circuit        string  `json:"circuit"`
	NumVectors     int     `json:"num_vectors"`
	TotalNodes     int     `json:"total_nodes"`
	RareNodes      int     `json:"rare_nodes"`
	RarePercentage float64 `json:"rare_pct"`
}

// RarePercent returns rare*100/total, or 0 for an empty circuit.
func RarePercent(rare, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(rare) * 100.0 / float64(total)
}
