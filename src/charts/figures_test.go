package charts

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/types"
)

func thresholdRows() []types.ThresholdRecord {
	return []types.ThresholdRecord{
		{Circuit: "c2670", Threshold: 5, TotalNodes: 1426, RareNodes: 120, RarePercentage: 8.42},
		{Circuit: "s1423", Threshold: 5, TotalNodes: 748, RareNodes: 40, RarePercentage: 5.35},
		{Circuit: "c2670", Threshold: 30, TotalNodes: 1426, RareNodes: 600, RarePercentage: 42.08},
		{Circuit: "s1423", Threshold: 30, TotalNodes: 748, RareNodes: 200, RarePercentage: 26.74},
	}
}

func vectorRows() []types.VectorRecord {
	return []types.VectorRecord{
		{Circuit: "c2670", NumVectors: 1000, TotalNodes: 1426, RareNodes: 420, RarePercentage: 29.45},
		{Circuit: "c2670", NumVectors: 20000, TotalNodes: 1426, RareNodes: 410, RarePercentage: 28.75},
	}
}

func tickLabels(ticks []chart.Tick) []string {
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = t.Label
	}
	return out
}

func TestThresholdFigure(t *testing.T) {
	fig, err := ThresholdFigure(thresholdRows(), Options{})
	require.NoError(t, err)
	require.Len(t, fig.Chart.Series, 2)
	assert.Equal(t, "c2670", fig.Chart.Series[0].GetName())
	assert.Equal(t, "s1423", fig.Chart.Series[1].GetName())

	cs := fig.Chart.Series[0].(chart.ContinuousSeries)
	assert.Equal(t, []float64{5, 30}, cs.XValues)
	assert.Equal(t, []float64{8.42, 42.08}, cs.YValues)

	assert.Equal(t, 4.0, fig.Chart.XAxis.Range.GetMin())
	assert.Equal(t, 31.0, fig.Chart.XAxis.Range.GetMax())
	assert.Equal(t, 0.0, fig.Chart.YAxis.Range.GetMin())
	assert.InDelta(t, 47.08, fig.Chart.YAxis.Range.GetMax(), 1e-9)
	assert.Equal(t, []string{"", "5", "10", "15", "20", "25", "30", ""}, tickLabels(fig.Chart.XAxis.Ticks))
	assert.Equal(t, "(10,000 test vectors)", fig.Subtitle)
	assert.Equal(t, DefaultWidth, fig.Chart.Width)
	assert.Equal(t, DefaultHeight, fig.Chart.Height)
}

func TestVectorFigure(t *testing.T) {
	fig, err := VectorFigure(vectorRows(), Options{Width: 800})
	require.NoError(t, err)
	require.Len(t, fig.Chart.Series, 1)
	assert.Equal(t, 0.0, fig.Chart.XAxis.Range.GetMin())
	assert.Equal(t, 21000.0, fig.Chart.XAxis.Range.GetMax())
	assert.Equal(t, 0.0, fig.Chart.YAxis.Range.GetMin())
	assert.GreaterOrEqual(t, fig.Chart.YAxis.Range.GetMax(), 420.0)
	assert.Equal(t, "(Threshold = 20%)", fig.Subtitle)
	assert.Equal(t, 800, fig.Chart.Width)
	assert.Equal(t, 533, fig.Chart.Height)
}

func TestRenderedAxesKeepFixedBounds(t *testing.T) {
	rows := append(thresholdRows(), types.ThresholdRecord{Circuit: "s35932", Threshold: 25, TotalNodes: 200, RareNodes: 105, RarePercentage: 52.5})
	fig2, err := ThresholdFigure(rows, Options{Width: 640, Height: 400})
	require.NoError(t, err)
	drawn, _, err := fig2.render()
	require.NoError(t, err)
	assert.Equal(t, 4.0, drawn.XAxis.Range.GetMin())
	assert.Equal(t, 31.0, drawn.XAxis.Range.GetMax())
	assert.Equal(t, 0.0, drawn.YAxis.Range.GetMin())
	assert.InDelta(t, 57.5, drawn.YAxis.Range.GetMax(), 1e-9)
	assert.NotSame(t, fig2.Chart.XAxis.Range, drawn.XAxis.Range)

	fig3, err := VectorFigure(vectorRows(), Options{Width: 640, Height: 400})
	require.NoError(t, err)
	want := fig3.Chart.YAxis.Range.GetMax()
	drawn, _, err = fig3.render()
	require.NoError(t, err)
	assert.Equal(t, 0.0, drawn.XAxis.Range.GetMin())
	assert.Equal(t, 21000.0, drawn.XAxis.Range.GetMax())
	assert.Equal(t, want, drawn.YAxis.Range.GetMax())
	assert.GreaterOrEqual(t, drawn.YAxis.Range.GetMax(), 420.0)
}

func TestLegendCorners(t *testing.T) {
	fig2, err := ThresholdFigure(thresholdRows(), Options{})
	require.NoError(t, err)
	assert.Equal(t, legendUpperLeft, fig2.legend)
	fig3, err := VectorFigure(vectorRows(), Options{})
	require.NoError(t, err)
	assert.Equal(t, legendUpperRight, fig3.legend)

	cb := chart.Box{Top: 80, Left: 60, Right: 1100, Bottom: 700}
	assert.Equal(t, chart.Box{Top: 80, Left: 60, Right: 170, Bottom: 130}, legendBox(cb, 100, 40, legendUpperLeft))
	assert.Equal(t, chart.Box{Top: 80, Left: 990, Right: 1100, Bottom: 130}, legendBox(cb, 100, 40, legendUpperRight))
}

func TestSubtitlesFollowOptions(t *testing.T) {
	o := Options{Vectors: 20000, Threshold: 15}
	assert.Equal(t, "(20,000 test vectors)", o.thresholdSubtitle())
	assert.Equal(t, "(Threshold = 15%)", o.vectorSubtitle())
	assert.Equal(t, "(Threshold = 20%)", Options{}.vectorSubtitle())
}

func TestFiguresRejectEmptyInput(t *testing.T) {
	_, err := ThresholdFigure(nil, Options{})
	assert.ErrorIs(t, err, ErrNoData)
	_, err = VectorFigure(nil, Options{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFigureSaveWritesPNG(t *testing.T) {
	fig, err := ThresholdFigure(thresholdRows(), Options{Width: 640, Height: 400})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "plots", "fig2.png")
	require.NoError(t, fig.Save(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestRenderLeavesFigureUntouched(t *testing.T) {
	fig, err := VectorFigure(vectorRows(), Options{Width: 640})
	require.NoError(t, err)
	_, err = fig.Render()
	require.NoError(t, err)
	assert.Empty(t, fig.Chart.Elements)
}
