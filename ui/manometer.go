package ui

import (
	"image"
	"math"
	"strconv"
)

// gauge sweep, 0 at lower left clockwise to max at lower right
const (
	startAngle = 225.0
	endAngle   = -45.0
	sweep      = startAngle - endAngle

	// DefaultMaxPSI is the full scale of a new Manometer.
	DefaultMaxPSI = 150
)

// Manometer is an analog pressure gauge with a digital readout.
type Manometer struct {
	Center      image.Point
	Radius      int
	PressurePSI int
	MaxPSI      int
}

// NewManometer returns a gauge reading 0 of DefaultMaxPSI.
func NewManometer(center image.Point, radius int) *Manometer {
	return &Manometer{Center: center, Radius: radius, MaxPSI: DefaultMaxPSI}
}

// SetPressure updates the reading, clamped to 0..MaxPSI.
func (sf *Manometer) SetPressure(psi int) {
	sf.PressurePSI = clamp(psi, 0, sf.MaxPSI)
}

// Angle returns the dial angle in degrees for psi, counter clockwise from
// the positive x axis.
func (sf *Manometer) Angle(psi int) float64 {
	if sf.MaxPSI <= 0 {
		return startAngle
	}
	return startAngle - float64(psi)/float64(sf.MaxPSI)*sweep
}

// At returns the point at radius fraction frac along the dial angle of psi.
func (sf *Manometer) At(psi int, frac float64) image.Point {
	rad := sf.Angle(psi) * math.Pi / 180
	r := float64(int(float64(sf.Radius) * frac))
	return image.Pt(
		sf.Center.X+int(math.Cos(rad)*r),
		sf.Center.Y-int(math.Sin(rad)*r),
	)
}

// Draw paints the gauge inside its bounding square.
func (sf *Manometer) Draw(c Canvas) {
	r := sf.Radius
	FillRect(c, image.Rect(sf.Center.X-r, sf.Center.Y-r, sf.Center.X+r, sf.Center.Y+r), true)
	StrokeCircle(c, sf.Center, r, 2, false)

	for psi := 0; psi <= sf.MaxPSI; psi += 10 {
		major := psi%30 == 0
		inner, width := 0.88, 1
		if major {
			inner, width = 0.80, 2
		}
		Line(c, sf.At(psi, inner), sf.At(psi, 0.95), width, false)
		if major {
			DrawText(c, strconv.Itoa(psi), sf.At(psi, 0.65), false)
		}
	}

	Line(c, sf.Center, sf.At(sf.PressurePSI, 0.75), 2, false)
	FillCircle(c, sf.Center, 5, false)
	DrawText(c, strconv.Itoa(sf.PressurePSI)+" PSI", image.Pt(sf.Center.X, sf.Center.Y+35), false)
}
