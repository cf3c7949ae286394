// Package ui draws the tank and pressure widgets on a 1 bit canvas.
package ui

import (
	"image"
)

// Canvas is a 1 bit drawing surface. light true is the background colour of
// a memory LCD, false is ink. SetPixel ignores points outside the canvas.
type Canvas interface {
	SetPixel(x, y int, light bool)
	Size() (int, int)
}

// Bounds returns the canvas rectangle.
func Bounds(c Canvas) image.Rectangle {
	w, h := c.Size()
	return image.Rect(0, 0, w, h)
}

// FillRect paints r clipped to the canvas.
func FillRect(c Canvas, r image.Rectangle, light bool) {
	r = r.Canon().Intersect(Bounds(c))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.SetPixel(x, y, light)
		}
	}
}

// StrokeRect paints a border of width pixels along the inside of r.
func StrokeRect(c Canvas, r image.Rectangle, width int, light bool) {
	r = r.Canon()
	if width <= 0 {
		return
	}
	if 2*width >= r.Dx() || 2*width >= r.Dy() {
		FillRect(c, r, light)
		return
	}
	FillRect(c, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), light)
	FillRect(c, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), light)
	FillRect(c, image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width), light)
	FillRect(c, image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width), light)
}

// Line paints a Bresenham line from p0 to p1 inclusive with a square pen of
// width pixels.
func Line(c Canvas, p0, p1 image.Point, width int, light bool) {
	if width < 1 {
		width = 1
	}
	off := (width - 1) / 2
	dot := func(x, y int) {
		if width == 1 {
			c.SetPixel(x, y, light)
			return
		}
		FillRect(c, image.Rect(x-off, y-off, x-off+width, y-off+width), light)
	}

	dx, dy := abs(p1.X-p0.X), -abs(p1.Y-p0.Y)
	sx, sy := sign(p1.X-p0.X), sign(p1.Y-p0.Y)
	e := dx + dy
	x, y := p0.X, p0.Y
	for {
		dot(x, y)
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// StrokeCircle paints a ring of width pixels just inside radius r.
func StrokeCircle(c Canvas, center image.Point, r, width int, light bool) {
	inner := r - width
	circle(c, center, r, func(d2 int) bool {
		return inner < 0 || d2 > inner*inner
	}, light)
}

// FillCircle paints a disc of radius r.
func FillCircle(c Canvas, center image.Point, r int, light bool) {
	circle(c, center, r, func(int) bool { return true }, light)
}

func circle(c Canvas, center image.Point, r int, keep func(d2 int) bool, light bool) {
	if r < 0 {
		return
	}
	box := image.Rect(center.X-r, center.Y-r, center.X+r+1, center.Y+r+1).Intersect(Bounds(c))
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			dx, dy := x-center.X, y-center.Y
			if d2 := dx*dx + dy*dy; d2 <= r*r && keep(d2) {
				c.SetPixel(x, y, light)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
