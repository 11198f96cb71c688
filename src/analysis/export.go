package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/types"
)

// Sheet names of the exported workbook.
const (
	SheetCircuitStats = "Circuit Statistics"
	SheetStability    = "Stability"
	SheetAnomalies    = "Anomalies"
	SheetThreshold    = "Threshold Sweep"
	SheetVectors      = "Vector Sweep"
)

// WriteWorkbook exports the three summary tables and both raw datasets to an .xlsx file, one sheet each.
func WriteWorkbook(path string, th []types.ThresholdRecord, vec []types.VectorRecord, s Summary) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetCircuitStats); err != nil {
		return err
	}

	stats := make([][]interface{}, 0, len(s.CircuitStats))
	for _, r := range s.CircuitStats {
		stats = append(stats, []interface{}{r.Circuit, r.TotalNodes, r.RareNodes, r.RarePercentage})
	}
	stab := make([][]interface{}, 0, len(s.Stability))
	for _, r := range s.Stability {
		stab = append(stab, []interface{}{r.Circuit, r.MinRare, r.MaxRare, r.Variation, r.StableLabel()})
	}
	anom := make([][]interface{}, 0, len(s.Anomalies))
	for _, a := range s.Anomalies {
		anom = append(anom, []interface{}{a.Circuit, a.Issue})
	}
	thRows := make([][]interface{}, 0, len(th))
	for _, r := range th {
		thRows = append(thRows, []interface{}{r.Circuit, r.Threshold, r.TotalNodes, r.RareNodes, r.RarePercentage})
	}
	vecRows := make([][]interface{}, 0, len(vec))
	for _, r := range vec {
		vecRows = append(vecRows, []interface{}{r.Circuit, r.NumVectors, r.TotalNodes, r.RareNodes, r.RarePercentage})
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]interface{}
	}{
		{SheetCircuitStats, []string{"Circuit", "Total Nodes", "Rare @ 20%", "Rare %"}, stats},
		{SheetStability, []string{"Circuit", "Min Rare", "Max Rare", "Variation", "Stable?"}, stab},
		{SheetAnomalies, []string{"Circuit", "Issue Detected"}, anom},
		{SheetThreshold, types.ThresholdHeader, thRows},
		{SheetVectors, types.VectorHeader, vecRows},
	}
	for i, sh := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(sh.name); err != nil {
				return fmt.Errorf("sheet %s: %w", sh.name, err)
			}
		}
		if err := writeSheet(f, sh.name, sh.header, sh.rows); err != nil {
			return fmt.Errorf("sheet %s: %w", sh.name, err)
		}
	}
	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return err
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Report is the JSON document written next to the charts.
type Report struct {
	GeneratedAt  string   `json:"generated_at"`
	ThresholdCSV string   `json:"threshold_csv"`
	VectorCSV    string   `json:"vector_csv"`
	Charts       []string `json:"charts,omitempty"`
	Summary
}

// WriteJSONReport writes r as indented JSON, stamping GeneratedAt when empty.
func WriteJSONReport(path string, r Report) error {
	if r.GeneratedAt == "" {
		r.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
