package charts

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type legendCorner int

const (
	legendUpperLeft legendCorner = iota
	legendUpperRight
)

const (
	legendPad     = 5
	legendGap     = 5
	legendLineLen = 25
)

// legendBox places a legend of the given content size in a corner of the canvas box.
func legendBox(cb chart.Box, width, height int, corner legendCorner) chart.Box {
	b := chart.Box{Top: cb.Top, Left: cb.Left}
	if corner == legendUpperRight {
		b.Left = cb.Right - width - 2*legendPad
	}
	b.Right = b.Left + width + 2*legendPad
	b.Bottom = b.Top + height + 2*legendPad
	return b
}

// cornerLegend draws the series names with their line colors, like chart.Legend, anchored at corner.
func cornerLegend(c *chart.Chart, corner legendCorner) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		style := defaults.InheritFrom(chart.Style{
			FillColor:   drawing.ColorWhite,
			FontColor:   chart.DefaultTextColor,
			FontSize:    8.0,
			StrokeColor: chart.DefaultAxisColor,
			StrokeWidth: chart.DefaultAxisLineWidth,
		})
		var labels []string
		var lines []chart.Style
		for _, s := range c.Series {
			if s.GetStyle().Hidden || s.GetName() == "" {
				continue
			}
			labels = append(labels, s.GetName())
			lines = append(lines, s.GetStyle())
		}
		if len(labels) == 0 {
			return
		}

		style.GetTextOptions().WriteToRenderer(r)
		width, height := 0, 0
		for i, l := range labels {
			tb := r.MeasureText(l)
			if i > 0 {
				height += chart.DefaultMinimumTickVerticalSpacing
			}
			height += tb.Height()
			width = max(width, tb.Width()+legendGap+legendLineLen)
		}
		box := legendBox(cb, width, height, corner)
		chart.Draw.Box(r, box, style)

		style.GetTextOptions().WriteToRenderer(r)
		y := box.Top + legendPad
		for i, l := range labels {
			if i > 0 {
				y += chart.DefaultMinimumTickVerticalSpacing
			}
			tb := r.MeasureText(l)
			ty := y + tb.Height()
			r.Text(l, box.Left+legendPad, ty)
			ly := ty - tb.Height()>>1
			r.SetStrokeColor(lines[i].GetStrokeColor())
			r.SetStrokeWidth(lines[i].GetStrokeWidth())
			r.SetStrokeDashArray(nil)
			r.MoveTo(box.Left+legendPad+tb.Width()+legendGap, ly)
			r.LineTo(box.Right-legendPad, ly)
			r.Stroke()
			y += tb.Height()
		}
	}
}
