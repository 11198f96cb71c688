// Package analysis reads the rare-node datasets written by the sweep and derives the summary
// tables printed after the charts: per-circuit statistics at the reference threshold, rare node
// stability across vector counts, and anomaly checks.
package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/types"
)

// ErrInputMissing is returned when a dataset file does not exist.
var ErrInputMissing = errors.New("input file not found")

// CheckInputs returns ErrInputMissing (wrapped with the missing path) for the first path that does not exist.
func CheckInputs(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%s: %w", p, ErrInputMissing)
			}
			return err
		}
	}
	return nil
}

// table is a parsed CSV with header-based column lookup.
type table struct {
	name string
	cols map[string]int
	rows [][]string
}

func readTable(name string, r io.Reader, required []string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("read %s: empty file", name)
	}
	t := &table{name: name, cols: map[string]int{}}
	for i, h := range recs[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.cols[h] = i
	}
	for _, c := range required {
		if _, ok := t.cols[c]; !ok {
			return nil, fmt.Errorf("read %s: missing column %q", name, c)
		}
	}
	for _, rec := range recs[1:] {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func (t *table) str(row int, col string) (string, error) {
	rec := t.rows[row]
	i := t.cols[col]
	if i >= len(rec) {
		return "", fmt.Errorf("%s row %d: missing %s", t.name, row+2, col)
	}
	return strings.TrimSpace(rec[i]), nil
}

func (t *table) float(row int, col string) (float64, error) {
	s, err := t.str(row, col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s row %d: %s: %w", t.name, row+2, col, err)
	}
	return v, nil
}

// integer accepts integral floats ("412.0") as well as plain integers.
func (t *table) integer(row int, col string) (int, error) {
	s, err := t.str(row, col)
	if err != nil {
		return 0, err
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s row %d: %s: not an integer: %q", t.name, row+2, col, s)
	}
	return int(f), nil
}

// ReadThresholdCSV parses a threshold sweep dataset. Rows keep file order.
func ReadThresholdCSV(name string, r io.Reader) ([]types.ThresholdRecord, error) {
	t, err := readTable(name, r, types.ThresholdHeader)
	if err != nil {
		return nil, err
	}
	out := make([]types.ThresholdRecord, 0, len(t.rows))
	for i := range t.rows {
		var rec types.ThresholdRecord
		if rec.Circuit, err = t.str(i, "Circuit"); err != nil {
			return nil, err
		}
		if rec.Threshold, err = t.float(i, "Threshold"); err != nil {
			return nil, err
		}
		if rec.TotalNodes, err = t.integer(i, "TotalNodes"); err != nil {
			return nil, err
		}
		if rec.RareNodes, err = t.integer(i, "RareNodes"); err != nil {
			return nil, err
		}
		if rec.RarePercentage, err = t.float(i, "RarePercentage"); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadVectorCSV parses a vector sweep dataset. Rows keep file order.
func ReadVectorCSV(name string, r io.Reader) ([]types.VectorRecord, error) {
	t, err := readTable(name, r, types.VectorHeader)
	if err != nil {
		return nil, err
	}
	out := make([]types.VectorRecord, 0, len(t.rows))
	for i := range t.rows {
		var rec types.VectorRecord
		if rec.Circuit, err = t.str(i, "Circuit"); err != nil {
			return nil, err
		}
		if rec.NumVectors, err = t.integer(i, "NumVectors"); err != nil {
			return nil, err
		}
		if rec.TotalNodes, err = t.integer(i, "TotalNodes"); err != nil {
			return nil, err
		}
		if rec.RareNodes, err = t.integer(i, "RareNodes"); err != nil {
			return nil, err
		}
		if rec.RarePercentage, err = t.float(i, "RarePercentage"); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadThresholdCSV opens and parses a threshold sweep file.
func LoadThresholdCSV(path string) ([]types.ThresholdRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadThresholdCSV(path, f)
}

// LoadVectorCSV opens and parses a vector sweep file.
func LoadVectorCSV(path string) ([]types.VectorRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadVectorCSV(path, f)
}

// Circuits returns the distinct circuit names of rows in order of first appearance.
func Circuits[T any](rows []T, circuit func(T) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		c := circuit(r)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// GroupByCircuit splits rows per circuit, preserving row order within each group.
func GroupByCircuit[T any](rows []T, circuit func(T) string) map[string][]T {
	out := map[string][]T{}
	for _, r := range rows {
		c := circuit(r)
		out[c] = append(out[c], r)
	}
	return out
}

// ThresholdCircuit and VectorCircuit are key functions for Circuits/GroupByCircuit.
func ThresholdCircuit(r types.ThresholdRecord) string { return r.Circuit }
func VectorCircuit(r types.VectorRecord) string       { return r.Circuit }
