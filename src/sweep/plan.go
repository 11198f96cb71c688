package sweep

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/types"
)

// Plan describes both sweeps: which benchmarks to simulate and at which operating points.
type Plan struct {
	// Benchmarks are .bench paths; relative paths resolve against the plan file's directory.
	Benchmarks []string `yaml:"benchmarks"`

	// Threshold sweep: fixed vector count, varying rarity threshold (ratios, e.g. 0.05).
	Thresholds       []float64 `yaml:"thresholds"`
	ThresholdVectors int       `yaml:"threshold_vectors"`
	ThresholdCSV     string    `yaml:"threshold_csv"`

	// Vector sweep: fixed threshold ratio, varying vector count.
	VectorCounts    []int   `yaml:"vector_counts"`
	VectorThreshold float64 `yaml:"vector_threshold"`
	VectorCSV       string  `yaml:"vector_csv"`

	// Seed for the random vectors; 0 picks a time-based seed per simulation.
	Seed int64 `yaml:"seed"`
}

// DefaultPlan returns the published benchmark set and operating points.
func DefaultPlan() Plan {
	return Plan{
		Benchmarks: []string{
			"inputs/combinational/c2670.bench",
			"inputs/combinational/c3540.bench",
			"inputs/combinational/c5315.bench",
			"inputs/combinational/c6288.bench",
			"inputs/sequential/s1423.bench",
			"inputs/sequential/s13207.bench",
			"inputs/sequential/s15850.bench",
			"inputs/sequential/s35932.bench",
		},
		Thresholds:       []float64{0.05, 0.10, 0.15, 0.20, 0.25, 0.30},
		ThresholdVectors: 10000,
		ThresholdCSV:     types.DefaultThresholdCSV,
		VectorCounts:     []int{1000, 2500, 5000, 7500, 10000, 15000, 20000},
		VectorThreshold:  0.20,
		VectorCSV:        types.DefaultVectorCSV,
	}
}

// LoadPlan reads a YAML plan. Fields left out keep their DefaultPlan values.
func LoadPlan(path string) (Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, err
	}
	p := DefaultPlan()
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Plan{}, fmt.Errorf("parse plan %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, bp := range p.Benchmarks {
		if !filepath.IsAbs(bp) {
			p.Benchmarks[i] = filepath.Join(dir, bp)
		}
	}
	return p, p.Validate()
}

// Validate rejects plans that cannot produce a meaningful sweep.
func (p Plan) Validate() error {
	if len(p.Benchmarks) == 0 {
		return fmt.Errorf("plan: no benchmarks")
	}
	for _, t := range p.Thresholds {
		if t <= 0 || t >= 1 {
			return fmt.Errorf("plan: threshold %v outside (0,1)", t)
		}
	}
	if p.VectorThreshold <= 0 || p.VectorThreshold >= 1 {
		return fmt.Errorf("plan: vector_threshold %v outside (0,1)", p.VectorThreshold)
	}
	if len(p.Thresholds) > 0 && p.ThresholdVectors <= 0 {
		return fmt.Errorf("plan: threshold_vectors must be > 0")
	}
	for _, n := range p.VectorCounts {
		if n <= 0 {
			return fmt.Errorf("plan: vector count %d must be > 0", n)
		}
	}
	return nil
}
