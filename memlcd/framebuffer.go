package memlcd

import (
	"bytes"
)

// Panel geometry.
const (
	Width        = 400
	Height       = 240
	BytesPerLine = Width / 8

	bufferSize = BytesPerLine * Height
	bitmapSize = Height / 8
)

// Framebuffer is a packed 1 bit per pixel image of the panel.
// Within a byte the least significant bit is the leftmost pixel,
// a set bit is light and a clear bit is dark.
//
// A line is dirty when its bytes differ from what the panel last received,
// or when a full redraw was forced since the last successful write.
type Framebuffer struct {
	buf    [bufferSize]byte
	shadow [bufferSize]byte
	forced [bitmapSize]byte
	dirty  [bitmapSize]byte
}

// NewFramebuffer returns an all light framebuffer with no dirty lines.
func NewFramebuffer() *Framebuffer {
	fb := &Framebuffer{}
	fill(fb.buf[:], 0xFF)
	fill(fb.shadow[:], 0xFF)
	return fb
}

// Size returns the panel size in pixels.
func (sf *Framebuffer) Size() (int, int) { return Width, Height }

// SetPixel sets the pixel at x, y. Coordinates outside the panel are ignored.
func (sf *Framebuffer) SetPixel(x, y int, light bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	idx := y*BytesPerLine + x/8
	old := sf.buf[idx]
	if light {
		sf.buf[idx] |= 1 << (x % 8)
	} else {
		sf.buf[idx] &^= 1 << (x % 8)
	}
	if sf.buf[idx] != old {
		sf.updateDirty(y)
	}
}

// Pixel reports whether the pixel at x, y is light.
// Coordinates outside the panel read as light.
func (sf *Framebuffer) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return true
	}
	return sf.buf[y*BytesPerLine+x/8]&(1<<(x%8)) != 0
}

// ClearTo fills the whole buffer. With markDirty every line is queued for
// the next write; without it the panel is assumed to already show the
// new content, as after a hardware clear.
func (sf *Framebuffer) ClearTo(light bool, markDirty bool) {
	var v byte
	if light {
		v = 0xFF
	}
	fill(sf.buf[:], v)
	if markDirty {
		fill(sf.forced[:], 0xFF)
		fill(sf.dirty[:], 0xFF)
		return
	}
	copy(sf.shadow[:], sf.buf[:])
	fill(sf.forced[:], 0)
	fill(sf.dirty[:], 0)
}

// MarkAllDirty forces every line out on the next write.
func (sf *Framebuffer) MarkAllDirty() {
	fill(sf.forced[:], 0xFF)
	fill(sf.dirty[:], 0xFF)
}

// IsDirty reports whether line y needs to be sent.
func (sf *Framebuffer) IsDirty(y int) bool {
	if y < 0 || y >= Height {
		return false
	}
	return sf.dirty[y/8]&(1<<(y%8)) != 0
}

// DirtyLines returns the dirty line indexes in ascending order.
func (sf *Framebuffer) DirtyLines() []int {
	var lines []int
	for y := 0; y < Height; y++ {
		if sf.IsDirty(y) {
			lines = append(lines, y)
		}
	}
	return lines
}

// DirtyCount returns the number of dirty lines.
func (sf *Framebuffer) DirtyCount() int {
	n := 0
	for _, b := range sf.dirty {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

// Line returns the packed bytes of line y. The slice aliases the buffer.
func (sf *Framebuffer) Line(y int) []byte {
	return sf.buf[y*BytesPerLine : (y+1)*BytesPerLine]
}

// Bytes returns the whole packed buffer. The slice aliases the buffer.
func (sf *Framebuffer) Bytes() []byte { return sf.buf[:] }

// commit records lines as received by the panel.
func (sf *Framebuffer) commit(lines []int) {
	for _, y := range lines {
		start := y * BytesPerLine
		copy(sf.shadow[start:start+BytesPerLine], sf.buf[start:start+BytesPerLine])
		sf.forced[y/8] &^= 1 << (y % 8)
		sf.dirty[y/8] &^= 1 << (y % 8)
	}
}

func (sf *Framebuffer) updateDirty(y int) {
	start := y * BytesPerLine
	if sf.forced[y/8]&(1<<(y%8)) != 0 ||
		!bytes.Equal(sf.buf[start:start+BytesPerLine], sf.shadow[start:start+BytesPerLine]) {
		sf.dirty[y/8] |= 1 << (y % 8)
	} else {
		sf.dirty[y/8] &^= 1 << (y % 8)
	}
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
