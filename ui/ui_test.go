package ui

import (
	"image"
	"testing"
)

// grid is an in-memory canvas, true is light.
type grid struct {
	w, h int
	px   []bool
	sets int
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, px: make([]bool, w*h)}
	for i := range g.px {
		g.px[i] = true
	}
	return g
}

func (g *grid) SetPixel(x, y int, light bool) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.sets++
	g.px[y*g.w+x] = light
}

func (g *grid) Size() (int, int) { return g.w, g.h }

func (g *grid) at(x, y int) bool { return g.px[y*g.w+x] }

func (g *grid) count(r image.Rectangle, light bool) int {
	n := 0
	r = r.Intersect(image.Rect(0, 0, g.w, g.h))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if g.at(x, y) == light {
				n++
			}
		}
	}
	return n
}

func TestFillRect(t *testing.T) {
	g := newGrid(10, 10)
	FillRect(g, image.Rect(8, 8, 20, 20), false)
	if n := g.count(image.Rect(0, 0, 10, 10), false); n != 4 {
		t.Errorf("dark pixels = %v, want 4", n)
	}
	if g.sets != 4 {
		t.Errorf("SetPixel calls = %v, want 4", g.sets)
	}
}

func TestStrokeRect(t *testing.T) {
	g := newGrid(20, 20)
	StrokeRect(g, image.Rect(2, 2, 12, 12), 2, false)
	for _, p := range []image.Point{{2, 2}, {3, 3}, {11, 11}, {10, 5}, {5, 10}} {
		if g.at(p.X, p.Y) {
			t.Errorf("%v should be dark", p)
		}
	}
	for _, p := range []image.Point{{4, 4}, {9, 9}, {12, 12}, {1, 1}} {
		if !g.at(p.X, p.Y) {
			t.Errorf("%v should be light", p)
		}
	}
	if n := g.count(image.Rect(0, 0, 20, 20), false); n != 100-36 {
		t.Errorf("dark pixels = %v, want %v", n, 100-36)
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name   string
		p0, p1 image.Point
		want   int
	}{
		{"point", image.Pt(3, 3), image.Pt(3, 3), 1},
		{"horizontal", image.Pt(0, 5), image.Pt(9, 5), 10},
		{"vertical up", image.Pt(4, 9), image.Pt(4, 0), 10},
		{"diagonal", image.Pt(0, 0), image.Pt(4, 4), 5},
		{"steep", image.Pt(1, 0), image.Pt(3, 8), 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGrid(10, 10)
			Line(g, tt.p0, tt.p1, 1, false)
			if g.at(tt.p0.X, tt.p0.Y) || g.at(tt.p1.X, tt.p1.Y) {
				t.Error("endpoints not painted")
			}
			if n := g.count(image.Rect(0, 0, 10, 10), false); n != tt.want {
				t.Errorf("dark pixels = %v, want %v", n, tt.want)
			}
		})
	}

	g := newGrid(10, 10)
	Line(g, image.Pt(2, 5), image.Pt(7, 5), 2, false)
	if g.at(2, 6) || g.at(7, 6) || !g.at(2, 4) {
		t.Error("2 pixel pen should cover the row below")
	}
}

func TestCircle(t *testing.T) {
	g := newGrid(41, 41)
	c := image.Pt(20, 20)
	StrokeCircle(g, c, 10, 2, false)
	for _, p := range []image.Point{{30, 20}, {10, 20}, {20, 30}, {20, 10}, {29, 20}} {
		if g.at(p.X, p.Y) {
			t.Errorf("%v should be on the ring", p)
		}
	}
	for _, p := range []image.Point{{20, 20}, {28, 20}, {31, 20}, {28, 28}} {
		if !g.at(p.X, p.Y) {
			t.Errorf("%v should be off the ring", p)
		}
	}

	g = newGrid(41, 41)
	FillCircle(g, c, 5, false)
	if g.at(20, 20) || g.at(25, 20) || !g.at(26, 20) || !g.at(25, 25) {
		t.Error("disc has the wrong extent")
	}
}

func TestDrawText(t *testing.T) {
	g := newGrid(60, 30)
	center := image.Pt(30, 15)
	DrawText(g, "88", center, false)

	size := TextSize("88")
	if size.X != 14 || size.Y != 13 {
		t.Fatalf("TextSize = %v, want (14,13)", size)
	}
	box := image.Rectangle{Min: center.Sub(size.Div(2)), Max: center.Sub(size.Div(2)).Add(size)}
	ink := g.count(box, false)
	if ink == 0 {
		t.Fatal("no ink painted")
	}
	if total := g.count(image.Rect(0, 0, 60, 30), false); total != ink {
		t.Errorf("ink outside the text box: %d of %d", total-ink, total)
	}

	g = newGrid(10, 10)
	DrawText(g, "", image.Pt(5, 5), false)
	if g.sets != 0 {
		t.Error("empty string painted")
	}
}

func TestWaterTank(t *testing.T) {
	g := newGrid(120, 220)
	tank := NewWaterTank(image.Rect(10, 10, 110, 210))
	tank.SetLevel(50, 250)
	tank.Draw(g)

	if tank.WaterTop() != 110 {
		t.Fatalf("WaterTop() = %v, want 110", tank.WaterTop())
	}
	if !g.at(15, 50) {
		t.Error("empty part should be light")
	}
	if g.at(15, 180) {
		t.Error("water should be dark")
	}
	if g.at(10, 10) || g.at(11, 60) || g.at(109, 60) {
		t.Error("outline should be dark")
	}
	if !g.at(9, 9) {
		t.Error("painted outside the tank")
	}
	// "50%" above the water line in ink, "250 gal" below it inverted
	if g.count(image.Rect(40, 93, 80, 108), false) == 0 {
		t.Error("percent caption missing")
	}
	if g.count(image.Rect(30, 118, 90, 134), true) == 0 {
		t.Error("gallons caption not inverted on water")
	}
}

func TestWaterTank_SetLevel(t *testing.T) {
	tank := NewWaterTank(image.Rect(0, 0, 10, 100))
	for _, tc := range []struct{ in, want, top int }{{-5, 0, 100}, {0, 0, 100}, {42, 42, 58}, {100, 100, 0}, {180, 100, 0}} {
		tank.SetLevel(tc.in, 0)
		if tank.FillPercent != tc.want || tank.WaterTop() != tc.top {
			t.Errorf("SetLevel(%d): FillPercent = %v, WaterTop = %v", tc.in, tank.FillPercent, tank.WaterTop())
		}
	}
}

func TestManometer(t *testing.T) {
	m := NewManometer(image.Pt(100, 100), 80)
	if got := m.Angle(0); got != 225 {
		t.Errorf("Angle(0) = %v, want 225", got)
	}
	if got := m.Angle(75); got != 90 {
		t.Errorf("Angle(75) = %v, want 90", got)
	}
	if got := m.Angle(150); got != -45 {
		t.Errorf("Angle(150) = %v, want -45", got)
	}
	if got := m.At(75, 0.5); got != image.Pt(100, 60) {
		t.Errorf("At(75, 0.5) = %v, want (100,60)", got)
	}

	m.SetPressure(400)
	if m.PressurePSI != 150 {
		t.Errorf("SetPressure clamps to %v, want 150", m.PressurePSI)
	}
	m.SetPressure(-3)
	if m.PressurePSI != 0 {
		t.Errorf("SetPressure clamps to %v, want 0", m.PressurePSI)
	}

	g := newGrid(200, 200)
	m.SetPressure(60)
	m.Draw(g)
	for name, p := range map[string]image.Point{
		"hub":         m.Center,
		"needle tip":  m.At(60, 0.75),
		"major tick":  m.At(30, 0.95),
		"minor tick":  m.At(10, 0.95),
		"ring bottom": image.Pt(100, 179),
	} {
		if g.at(p.X, p.Y) {
			t.Errorf("%s at %v should be dark", name, p)
		}
	}
	if !g.at(21, 21) {
		t.Error("bounding box corner should be light")
	}
	if g.count(image.Rect(80, 125, 120, 145), false) == 0 {
		t.Error("digital readout missing")
	}
}

func TestDashboard(t *testing.T) {
	d := NewDashboard(400, 240)
	if d.Tank.Rect.Max.X > d.Gauge.Center.X-d.Gauge.Radius {
		t.Errorf("tank %v overlaps gauge at %v r %d", d.Tank.Rect, d.Gauge.Center, d.Gauge.Radius)
	}
	g := newGrid(400, 240)
	if !g.at(0, 0) {
		t.Fatal("grid starts light")
	}
	d.Update(75, 375, 45)
	d.Draw(g)
	if d.Tank.FillPercent != 75 || d.Gauge.PressurePSI != 45 {
		t.Errorf("Update not applied: %+v %+v", d.Tank, d.Gauge)
	}
	if g.at(d.Gauge.Center.X, d.Gauge.Center.Y) {
		t.Error("gauge hub not drawn")
	}
	if g.at(d.Tank.Rect.Min.X+4, d.Tank.Rect.Max.Y-4) {
		t.Error("water not drawn")
	}
}
