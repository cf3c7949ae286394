package ui

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Face is the font all widgets use.
var Face font.Face = basicfont.Face7x13

// TextSize returns the pixel size of s rendered in Face.
func TextSize(s string) image.Point {
	m := Face.Metrics()
	return image.Pt(font.MeasureString(Face, s).Ceil(), (m.Ascent + m.Descent).Ceil())
}

// DrawText paints s centred on center. Only glyph ink is painted, the
// background is left alone.
func DrawText(c Canvas, s string, center image.Point, light bool) {
	if s == "" {
		return
	}
	size := TextSize(s)
	mask := image.NewAlpha(image.Rectangle{Max: size})
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: Face,
		Dot:  fixed.P(0, Face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	origin := center.Sub(size.Div(2))
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			if mask.AlphaAt(x, y).A >= 0x80 {
				c.SetPixel(origin.X+x, origin.Y+y, light)
			}
		}
	}
}
