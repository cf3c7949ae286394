package ui

import (
	"image"
	"strconv"
)

// WaterTank shows the tank fill level with percent and volume captions.
type WaterTank struct {
	Rect        image.Rectangle
	FillPercent int
	Gallons     int
}

// NewWaterTank returns an empty tank occupying r.
func NewWaterTank(r image.Rectangle) *WaterTank {
	return &WaterTank{Rect: r.Canon()}
}

// SetLevel updates the level, percent is clamped to 0..100.
func (sf *WaterTank) SetLevel(percent, gallons int) {
	sf.FillPercent = clamp(percent, 0, 100)
	sf.Gallons = gallons
}

// WaterTop returns the first row covered by water.
func (sf *WaterTank) WaterTop() int {
	return sf.Rect.Max.Y - sf.Rect.Dy()*clamp(sf.FillPercent, 0, 100)/100
}

// Draw paints the tank. Water is dark, the empty part light.
func (sf *WaterTank) Draw(c Canvas) {
	r := sf.Rect
	top := sf.WaterTop()

	FillRect(c, image.Rect(r.Min.X, r.Min.Y, r.Max.X, top), true)
	FillRect(c, image.Rect(r.Min.X, top, r.Max.X, r.Max.Y), false)
	StrokeRect(c, r, 2, false)

	cx, cy := r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2
	sf.caption(c, strconv.Itoa(sf.FillPercent)+"%", image.Pt(cx, cy-10), top)
	sf.caption(c, strconv.Itoa(sf.Gallons)+" gal", image.Pt(cx, cy+15), top)
}

// caption inverts text that sits below the water line.
func (sf *WaterTank) caption(c Canvas, s string, at image.Point, waterTop int) {
	DrawText(c, s, at, at.Y > waterTop)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
