package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/types"
)

// WriteThresholdCSV writes the threshold sweep dataset (header first, rows in the given order).
func WriteThresholdCSV(path string, rows []types.ThresholdRecord) error {
	return writeCSVFile(path, func(w io.Writer) error { return EncodeThresholdCSV(w, rows) })
}

// WriteVectorCSV writes the vector sweep dataset.
func WriteVectorCSV(path string, rows []types.VectorRecord) error {
	return writeCSVFile(path, func(w io.Writer) error { return EncodeVectorCSV(w, rows) })
}

// EncodeThresholdCSV encodes rows with thresholds and percentages at two decimals.
func EncodeThresholdCSV(w io.Writer, rows []types.ThresholdRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.ThresholdHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Circuit,
			strconv.FormatFloat(r.Threshold, 'f', 2, 64),
			strconv.Itoa(r.TotalNodes),
			strconv.Itoa(r.RareNodes),
			strconv.FormatFloat(r.RarePercentage, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeVectorCSV encodes rows with percentages at two decimals.
func EncodeVectorCSV(w io.Writer, rows []types.VectorRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.VectorHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Circuit,
			strconv.Itoa(r.NumVectors),
			strconv.Itoa(r.TotalNodes),
			strconv.Itoa(r.RareNodes),
			strconv.FormatFloat(r.RarePercentage, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeCSVFile writes through a temp file in the target directory and renames it into place.
// On error an existing file at path is left untouched.
func writeCSVFile(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
