package charts

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Size limits for rendered figures (pixels).
const (
	DefaultWidth  = 1200
	DefaultHeight = 800
	minWidth      = 640
	minHeight     = 400
	maxEdge       = 4000
)

// ChartDimensions applies the clamp rules used for figures. A non-positive height derives
// from the width at a 3:2 aspect.
func ChartDimensions(w, h int) (int, int) {
	if w <= 0 {
		w = DefaultWidth
	}
	if w < minWidth {
		w = minWidth
	}
	if w > maxEdge {
		w = maxEdge
	}
	if h <= 0 {
		h = w * 2 / 3
	}
	if h < minHeight {
		h = minHeight
	}
	if h > maxEdge {
		h = maxEdge
	}
	return w, h
}

// subtitleTop is the baseline of the subtitle line, just under the chart title.
const subtitleTop = 52

// drawSubtitle writes text centered horizontally at baseline y.
func drawSubtitle(img image.Image, text string, y int) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{R: 51, G: 51, B: 51, A: 255}), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + (b.Dx()-tw)/2
	if x < b.Min.X+4 {
		x = b.Min.X + 4
	}
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(b.Min.Y + y)}
	dr.DrawString(text)
	return rgba
}
