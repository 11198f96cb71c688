package analysis

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/types"
)

const thresholdCSV = `Circuit,Threshold,TotalNodes,RareNodes,RarePercentage
c2670,5.00,1426,120,8.42
c2670,20.00,1426,412,28.89
c2670,30.00,1426,600,42.08
s35932,5.00,17828,0,0.00
s35932,20.00,17828,0,0.00
s35932,25.00,17828,3200,17.95
s1423,10.00,748,90,12.03
`

const vectorCSV = `Circuit,NumVectors,TotalNodes,RareNodes,RarePercentage
c2670,1000,1426,420,29.45
c2670,10000,1426,412,28.89
c2670,20000,1426,410,28.75
s1423,1000,748,300,40.11
s1423,20000,748,200,26.74
s35932,1000,17828,1,0.01
s35932,20000,17828,0,0.00
`

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

func loadFixtures(t *testing.T) ([]types.ThresholdRecord, []types.VectorRecord) {
	t.Helper()
	th, err := ReadThresholdCSV("fig2", strings.NewReader(thresholdCSV))
	require.NoError(t, err)
	vec, err := ReadVectorCSV("fig3", strings.NewReader(vectorCSV))
	require.NoError(t, err)
	return th, vec
}

func TestReadThresholdCSV(t *testing.T) {
	th, _ := loadFixtures(t)
	require.Len(t, th, 7)
	assert.Equal(t, types.ThresholdRecord{Circuit: "c2670", Threshold: 20, TotalNodes: 1426, RareNodes: 412, RarePercentage: 28.89}, th[1])
	assert.Equal(t, []string{"c2670", "s35932", "s1423"}, Circuits(th, ThresholdCircuit))
}

func TestReadCSVColumnsByNameAndIntegralFloats(t *testing.T) {
	src := "RareNodes,Circuit,NumVectors,RarePercentage,TotalNodes\n12.0,c17,500,9.5,11\n"
	vec, err := ReadVectorCSV("reordered", strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, vec, 1)
	assert.Equal(t, types.VectorRecord{Circuit: "c17", NumVectors: 500, TotalNodes: 11, RareNodes: 12, RarePercentage: 9.5}, vec[0])
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadVectorCSV("x", strings.NewReader("Circuit,NumVectors\nc17,5\n"))
	assert.ErrorContains(t, err, "missing column")

	_, err = ReadThresholdCSV("x", strings.NewReader(""))
	assert.ErrorContains(t, err, "empty file")

	_, err = ReadThresholdCSV("x", strings.NewReader("Circuit,Threshold,TotalNodes,RareNodes,RarePercentage\nc17,abc,1,1,1\n"))
	assert.ErrorContains(t, err, "Threshold")

	_, err = ReadThresholdCSV("x", strings.NewReader("Circuit,Threshold,TotalNodes,RareNodes,RarePercentage\nc17,5,1.5,1,1\n"))
	assert.ErrorContains(t, err, "not an integer")
}

func TestCheckInputs(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o644))
	assert.NoError(t, CheckInputs(present))
	err := CheckInputs(present, filepath.Join(dir, "b.csv"))
	require.ErrorIs(t, err, ErrInputMissing)
	assert.Contains(t, err.Error(), "b.csv")
}

func TestCircuitStatsPicksReferenceThreshold(t *testing.T) {
	th, _ := loadFixtures(t)
	stats := CircuitStats(th, 20)
	// s1423 has no 20% row and is skipped
	require.Len(t, stats, 2)
	assert.Equal(t, CircuitStat{Circuit: "c2670", TotalNodes: 1426, RareNodes: 412, RarePercentage: 28.89}, stats[0])
	assert.Equal(t, "s35932", stats[1].Circuit)
}

func TestStability(t *testing.T) {
	_, vec := loadFixtures(t)
	rows := Stability(vec, 0.1)
	require.Len(t, rows, 3)
	assert.Equal(t, StabilityRow{Circuit: "c2670", MinRare: 410, MaxRare: 420, Variation: 10, Stable: true}, rows[0])
	assert.Equal(t, StabilityRow{Circuit: "s1423", MinRare: 200, MaxRare: 300, Variation: 100, Stable: false}, rows[1])
	// 1 < 0.1*1 is false
	assert.Equal(t, StabilityRow{Circuit: "s35932", MinRare: 0, MaxRare: 1, Variation: 1, Stable: false}, rows[2])
}

func TestAnomalies(t *testing.T) {
	th, vec := loadFixtures(t)
	got := Anomalies(th, vec, "s35932")
	assert.Equal(t, []Anomaly{
		{Circuit: "s35932", Issue: issueZeroRare},
		{Circuit: "s35932", Issue: issueNearlyZero},
	}, got)

	assert.Empty(t, Anomalies(th, vec, "c2670"))
	assert.Empty(t, Anomalies(th, vec, "absent"))
}

func TestPrintSummaryLayout(t *testing.T) {
	th, vec := loadFixtures(t)
	s := Summarize(th, vec, DefaultOptions())
	var buf bytes.Buffer
	PrintSummary(&buf, s)
	out := buf.String()

	lines := strings.Split(out, "\n")
	assert.Equal(t, "", lines[0])
	assert.Equal(t, strings.Repeat("=", 80), lines[1])
	assert.Equal(t, "ALGORITHM 1 VALIDATION SUMMARY", lines[2])

	assert.Contains(t, out, "\n[TABLE 1] Circuit Statistics\n")
	assert.Contains(t, out, pad("Circuit", 12)+" "+pad("Total Nodes", 15)+" "+pad("Rare @ 20%", 15)+" "+pad("Rare %", 15)+"\n")
	assert.Contains(t, out, pad("c2670", 12)+" "+pad("1426", 15)+" "+pad("412", 15)+" "+pad("28.89", 15)+"\n")

	assert.Contains(t, out, "\n[TABLE 2] Rare Node Stability (Figure 3 Analysis)\n")
	assert.Contains(t, out, pad("s1423", 12)+" "+pad("200", 12)+" "+pad("300", 12)+" "+pad("100", 15)+" "+pad("No", 10)+"\n")
	assert.Contains(t, out, pad("c2670", 12)+" "+pad("410", 12)+" "+pad("420", 12)+" "+pad("10", 15)+" "+pad("Yes", 10)+"\n")

	assert.Contains(t, out, "\n[TABLE 3] Anomaly Detection\n")
	assert.Contains(t, out, pad("s35932", 12)+" "+pad(issueZeroRare, 50)+"\n")
	assert.True(t, strings.HasSuffix(out, strings.Repeat("=", 80)+"\n"))
}

func TestWriteWorkbook(t *testing.T) {
	th, vec := loadFixtures(t)
	s := Summarize(th, vec, DefaultOptions())
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, WriteWorkbook(path, th, vec, s))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetCircuitStats, SheetStability, SheetAnomalies, SheetThreshold, SheetVectors}, f.GetSheetList())

	rows, err := f.GetRows(SheetStability)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Circuit", "Min Rare", "Max Rare", "Variation", "Stable?"}, rows[0])
	assert.Equal(t, []string{"c2670", "410", "420", "10", "Yes"}, rows[1])

	rows, err = f.GetRows(SheetThreshold)
	require.NoError(t, err)
	assert.Len(t, rows, 8)
}

func TestWriteJSONReport(t *testing.T) {
	th, vec := loadFixtures(t)
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSONReport(path, Report{ThresholdCSV: "fig2.csv", VectorCSV: "fig3.csv", Summary: Summarize(th, vec, DefaultOptions())}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Report
	require.NoError(t, json.Unmarshal(b, &back))
	assert.NotEmpty(t, back.GeneratedAt)
	assert.Len(t, back.CircuitStats, 2)
	assert.Len(t, back.Anomalies, 2)
	assert.Contains(t, string(b), `"stable": true`)
}
