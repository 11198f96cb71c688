package charts

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// niceAxisBounds pads [min,max] by 5% and rounds outward to the span's order of magnitude.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	if pad <= 0 {
		pad = 1
	}
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// zeroBasedBounds anchors the axis at 0 with a rounded max, for count axes.
func zeroBasedBounds(max float64) (float64, float64) {
	if max <= 0 {
		max = 1
	}
	_, b := niceAxisBounds(0, max)
	return 0, b
}

// niceTicks generates about n tick marks with a 1/2/2.5/5/10 step, restricted to [min,max].
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	ticks := []chart.Tick{}
	start := math.Ceil(min/bestStep) * bestStep
	for v := start; v <= max+bestStep*1e-9; v += bestStep {
		// avoid -0 and accumulated float noise in labels
		r := math.Round(v/bestStep) * bestStep
		if r == 0 {
			r = 0
		}
		ticks = append(ticks, chart.Tick{Value: r, Label: formatTick(r)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	default:
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.2f", v)
	}
}

// axisTicks is niceTicks pinned to the exact bounds. go-chart derives an axis range from its
// ticks when any are set, so the first and last tick must sit on min and max; bounds that are
// not already a nice tick get an unlabeled one.
func axisTicks(min, max float64, n int) []chart.Tick {
	ticks := niceTicks(min, max, n)
	if len(ticks) == 0 {
		return []chart.Tick{{Value: min, Label: formatTick(min)}, {Value: max, Label: formatTick(max)}}
	}
	eps := (max - min) * 1e-9
	if math.Abs(ticks[0].Value-min) <= eps {
		ticks[0].Value = min
	} else {
		ticks = append([]chart.Tick{{Value: min}}, ticks...)
	}
	last := len(ticks) - 1
	if math.Abs(ticks[last].Value-max) <= eps {
		ticks[last].Value = max
	} else {
		ticks = append(ticks, chart.Tick{Value: max})
	}
	return ticks
}
