// Package charts renders the rare-node comparison figures as PNG line charts, one series per circuit.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/analysis"
	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/types"
)

// ErrNoData is returned when a dataset has no rows to plot.
var ErrNoData = errors.New("no rows to plot")

// Options sizes the rendered figures and fills their subtitles.
type Options struct {
	Width  int
	Height int
	// Vectors is the test vector count behind the threshold sweep (default 10000).
	Vectors int
	// Threshold is the percent threshold behind the vector sweep (default 20).
	Threshold float64
}

var printer = message.NewPrinter(language.English)

func (o Options) thresholdSubtitle() string {
	n := o.Vectors
	if n <= 0 {
		n = 10000
	}
	return printer.Sprintf("(%d test vectors)", n)
}

func (o Options) vectorSubtitle() string {
	th := o.Threshold
	if th <= 0 {
		th = 20
	}
	return printer.Sprintf("(Threshold = %v%%)", th)
}

// Figure is a chart plus the subtitle drawn under its title.
type Figure struct {
	Chart    chart.Chart
	Subtitle string

	legend legendCorner
}

// Threshold-figure axis limits (percent of vectors).
const (
	thresholdXMin = 4
	thresholdXMax = 31
	vectorXMin    = 0
	vectorXMax    = 21000
)

var gridStyle = chart.Style{StrokeColor: drawing.Color{R: 0, G: 0, B: 0, A: 40}, StrokeWidth: 1}

func seriesStyle(i int, dot float64) chart.Style {
	col := chart.GetDefaultColor(i)
	return chart.Style{StrokeColor: col, StrokeWidth: 2, DotColor: col, DotWidth: dot}
}

func baseChart(title string, opts Options) chart.Chart {
	w, h := ChartDimensions(opts.Width, opts.Height)
	return chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 16},
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 72, Left: 20, Right: 32, Bottom: 20}},
	}
}

func axisNameStyle() chart.Style { return chart.Style{FontSize: 12} }

// ThresholdFigure plots rare node percentage against threshold for every circuit.
func ThresholdFigure(rows []types.ThresholdRecord, opts Options) (Figure, error) {
	if len(rows) == 0 {
		return Figure{}, ErrNoData
	}
	groups := analysis.GroupByCircuit(rows, analysis.ThresholdCircuit)
	maxY := 0.0
	var series []chart.Series
	for i, c := range analysis.Circuits(rows, analysis.ThresholdCircuit) {
		g := groups[c]
		xs := make([]float64, len(g))
		ys := make([]float64, len(g))
		for j, r := range g {
			xs[j] = r.Threshold
			ys[j] = r.RarePercentage
			if r.RarePercentage > maxY {
				maxY = r.RarePercentage
			}
		}
		series = append(series, chart.ContinuousSeries{Name: c, XValues: xs, YValues: ys, Style: seriesStyle(i, 4)})
	}
	yMax := maxY + 5
	ch := baseChart("Figure 2: Rare Node Distribution vs. Threshold", opts)
	ch.XAxis = chart.XAxis{
		Name:           "Threshold (% of test vectors)",
		NameStyle:      axisNameStyle(),
		Range:          &chart.ContinuousRange{Min: thresholdXMin, Max: thresholdXMax},
		Ticks:          axisTicks(thresholdXMin, thresholdXMax, 7),
		GridMajorStyle: gridStyle,
	}
	ch.YAxis = chart.YAxis{
		Name:           "Percentage of Rare Nodes (%)",
		NameStyle:      axisNameStyle(),
		Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
		Ticks:          axisTicks(0, yMax, 8),
		GridMajorStyle: gridStyle,
	}
	ch.Series = series
	return Figure{Chart: ch, Subtitle: opts.thresholdSubtitle(), legend: legendUpperLeft}, nil
}

// VectorFigure plots rare node count against the number of test vectors for every circuit.
func VectorFigure(rows []types.VectorRecord, opts Options) (Figure, error) {
	if len(rows) == 0 {
		return Figure{}, ErrNoData
	}
	groups := analysis.GroupByCircuit(rows, analysis.VectorCircuit)
	maxY := 0.0
	var series []chart.Series
	for i, c := range analysis.Circuits(rows, analysis.VectorCircuit) {
		g := groups[c]
		xs := make([]float64, len(g))
		ys := make([]float64, len(g))
		for j, r := range g {
			xs[j] = float64(r.NumVectors)
			ys[j] = float64(r.RareNodes)
			if ys[j] > maxY {
				maxY = ys[j]
			}
		}
		series = append(series, chart.ContinuousSeries{Name: c, XValues: xs, YValues: ys, Style: seriesStyle(i, 5)})
	}
	yMin, yMax := zeroBasedBounds(maxY)
	ch := baseChart("Figure 3: Rare Node Count vs. Test Vector Count", opts)
	ch.XAxis = chart.XAxis{
		Name:           "Number of Test Vectors",
		NameStyle:      axisNameStyle(),
		Range:          &chart.ContinuousRange{Min: vectorXMin, Max: vectorXMax},
		Ticks:          axisTicks(vectorXMin, vectorXMax, 8),
		GridMajorStyle: gridStyle,
	}
	ch.YAxis = chart.YAxis{
		Name:           "Number of Rare Nodes",
		NameStyle:      axisNameStyle(),
		Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
		Ticks:          axisTicks(yMin, yMax, 8),
		GridMajorStyle: gridStyle,
	}
	ch.Series = series
	return Figure{Chart: ch, Subtitle: opts.vectorSubtitle(), legend: legendUpperRight}, nil
}

// Render draws the figure, with its legend, into an image.
func (f Figure) Render() (image.Image, error) {
	_, img, err := f.render()
	return img, err
}

// render returns the chart value that was drawn; its ranges hold the bounds go-chart used.
func (f Figure) render() (chart.Chart, image.Image, error) {
	ch := f.Chart
	// go-chart writes the resolved bounds back into the ranges
	ch.XAxis.Range = copyRange(f.Chart.XAxis.Range)
	ch.YAxis.Range = copyRange(f.Chart.YAxis.Range)
	ch.Elements = append([]chart.Renderable{cornerLegend(&ch, f.legend)}, f.Chart.Elements...)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return ch, nil, fmt.Errorf("render %q: %w", f.Chart.Title, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return ch, nil, fmt.Errorf("decode %q: %w", f.Chart.Title, err)
	}
	return ch, drawSubtitle(img, f.Subtitle, subtitleTop), nil
}

func copyRange(r chart.Range) chart.Range {
	if cr, ok := r.(*chart.ContinuousRange); ok && cr != nil {
		c := *cr
		return &c
	}
	return r
}

// Save renders the figure and writes it as a PNG file, creating the parent directory.
func (f Figure) Save(path string) error {
	img, err := f.Render()
	if err != nil {
		return err
	}
	return SavePNG(path, img)
}

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
