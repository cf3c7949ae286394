package ui

import (
	"image"
)

// Dashboard is the main screen: tank on the left, pressure gauge on the right.
type Dashboard struct {
	Tank  *WaterTank
	Gauge *Manometer
}

// NewDashboard lays the widgets out on a w x h canvas.
func NewDashboard(w, h int) *Dashboard {
	margin := h / 12
	tankW := w * 2 / 5
	radius := min(w-tankW-2*margin, h-2*margin) / 2
	return &Dashboard{
		Tank:  NewWaterTank(image.Rect(margin, margin, margin+tankW-margin, h-margin)),
		Gauge: NewManometer(image.Pt(tankW+(w-tankW)/2, h/2), radius),
	}
}

// Update sets the values shown by the widgets.
func (sf *Dashboard) Update(percent, gallons, psi int) {
	sf.Tank.SetLevel(percent, gallons)
	sf.Gauge.SetPressure(psi)
}

// Draw paints the whole screen.
func (sf *Dashboard) Draw(c Canvas) {
	FillRect(c, Bounds(c), true)
	sf.Tank.Draw(c)
	sf.Gauge.Draw(c)
}
