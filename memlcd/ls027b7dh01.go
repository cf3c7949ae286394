/*! Sharp LS027B7DH01 transactions, select line high for the whole exchange

clear:   | 0x04|vcom<<1 | 0x00 |
toggle:  | vcom<<1      | 0x00 |
write:   | 0x01|vcom<<1 | line+1 | 50 bytes | 0x00 | ... | 0x00 |

*/

// Package memlcd drives a Sharp LS027B7DH01 2.7" 400x240 memory LCD over a
// write-only SPI bus (mode 1, LSB first) with a GPIO select line that is
// active high.
//
// The panel keeps its image without refresh but needs the VCOM polarity
// inverted at least once per second. Every successful transaction inverts it.
package memlcd

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// mode bits, LSB first on the wire
const (
	cmdWrite byte = 0x01
	cmdVCOM  byte = 0x02
	cmdClear byte = 0x04
)

const (
	// DefaultMaxTransfer is the default spidev buffer size.
	DefaultMaxTransfer = 4096

	lineFrameSize = 1 + BytesPerLine + 1
	minTransfer   = lineFrameSize + 1
	initSettle    = 10 * time.Millisecond
)

// Bus is a write capable synchronous serial connection.
// periph.io spi.Conn satisfies it.
type Bus interface {
	Tx(w, r []byte) error
}

// Pin is a digital output. periph.io gpio.PinOut satisfies it.
type Pin interface {
	Out(l gpio.Level) error
}

// LogProvider receives transfer failures (Errorf) and flush summaries
// (Debugf). A Display without one is silent.
type LogProvider interface {
	Errorf(format string, v ...interface{})
	Debugf(format string, v ...interface{})
}

// Option configures a Display.
type Option func(*Display)

// WithMaxTransfer limits the bytes handed to the bus in one Tx call.
// Lines are never split across transfers. n <= 0 means no limit.
func WithMaxTransfer(n int) Option {
	return func(d *Display) {
		if n > 0 && n < minTransfer {
			n = minTransfer
		}
		d.maxTransfer = n
	}
}

// WithLogProvider sets the logger for transaction traces.
func WithLogProvider(p LogProvider) Option {
	return func(d *Display) {
		d.logger = p
	}
}

// Display is an LS027B7DH01 panel with its framebuffer.
// It is not safe for concurrent use.
type Display struct {
	bus         Bus
	cs          Pin
	fb          *Framebuffer
	vcom        bool
	maxTransfer int
	logger      LogProvider
	sleep       func(time.Duration)
}

// New creates a display on bus with the select line cs.
// Call Init before the first flush.
func New(bus Bus, cs Pin, opts ...Option) *Display {
	d := &Display{
		bus:         bus,
		cs:          cs,
		fb:          NewFramebuffer(),
		maxTransfer: DefaultMaxTransfer,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Framebuffer returns the image backing the display.
func (sf *Display) Framebuffer() *Framebuffer { return sf.fb }

// VCOM returns the polarity the next transaction will carry.
func (sf *Display) VCOM() bool { return sf.vcom }

// Size returns the panel size in pixels.
func (sf *Display) Size() (int, int) { return Width, Height }

// SetPixel sets one pixel in the framebuffer. Call Flush to show it.
func (sf *Display) SetPixel(x, y int, light bool) { sf.fb.SetPixel(x, y, light) }

// Init deasserts the select line, lets the panel settle and clears it.
func (sf *Display) Init() error {
	if err := sf.cs.Out(gpio.Low); err != nil {
		return err
	}
	sf.sleep(initSettle)
	return sf.Clear()
}

// Clear blanks the panel with the hardware clear command and fills the
// framebuffer light.
func (sf *Display) Clear() error {
	if err := sf.transact([]byte{cmdClear | sf.vcomBit(), 0x00}); err != nil {
		return err
	}
	sf.fb.ClearTo(true, false)
	return nil
}

// ToggleVCOM inverts the panel polarity without touching the image.
func (sf *Display) ToggleVCOM() error {
	return sf.transact([]byte{sf.vcomBit(), 0x00})
}

// Flush sends the dirty lines. Without dirty lines it only toggles VCOM.
// On error nothing is committed and the same flush can be repeated.
func (sf *Display) Flush() error {
	lines := sf.fb.DirtyLines()
	if len(lines) == 0 {
		return sf.ToggleVCOM()
	}
	chunks := sf.splitTransfers(sf.encodeWrite(lines), len(lines))
	if err := sf.transact(chunks...); err != nil {
		return err
	}
	sf.fb.commit(lines)
	if sf.logger != nil {
		sf.logger.Debugf("memlcd: wrote %d lines in %d transfers", len(lines), len(chunks))
	}
	return nil
}

// FillDark paints the whole panel dark.
func (sf *Display) FillDark() error {
	sf.fb.ClearTo(false, true)
	return sf.Flush()
}

func (sf *Display) vcomBit() byte {
	if sf.vcom {
		return cmdVCOM
	}
	return 0
}

// transact runs one select-bracketed exchange. VCOM flips once every chunk
// reached the panel: the panel has latched that polarity even when releasing
// the select line fails afterwards, and the error is still returned.
func (sf *Display) transact(chunks ...[]byte) error {
	if err := sf.cs.Out(gpio.High); err != nil {
		sf.release()
		return err
	}
	for _, chunk := range chunks {
		if err := sf.bus.Tx(chunk, nil); err != nil {
			sf.release()
			if sf.logger != nil {
				sf.logger.Errorf("memlcd: transfer failed: %v", err)
			}
			return err
		}
	}
	sf.vcom = !sf.vcom
	if err := sf.cs.Out(gpio.Low); err != nil {
		if sf.logger != nil {
			sf.logger.Errorf("memlcd: release select: %v", err)
		}
		return err
	}
	return nil
}

func (sf *Display) release() {
	_ = sf.cs.Out(gpio.Low)
}

func (sf *Display) encodeWrite(lines []int) []byte {
	payload := make([]byte, 0, 2+lineFrameSize*len(lines))
	payload = append(payload, cmdWrite|sf.vcomBit())
	for _, y := range lines {
		payload = append(payload, byte(y+1))
		payload = append(payload, sf.fb.Line(y)...)
		payload = append(payload, 0x00)
	}
	return append(payload, 0x00)
}

// splitTransfers cuts a write payload of n lines into transfers of at most
// maxTransfer bytes, only at line boundaries.
func (sf *Display) splitTransfers(payload []byte, n int) [][]byte {
	if sf.maxTransfer <= 0 || len(payload) <= sf.maxTransfer {
		return [][]byte{payload}
	}
	var chunks [][]byte
	start, last := 0, 0
	for i := 0; i <= n+1; i++ {
		end := 1 + i*lineFrameSize
		if i == n+1 {
			end = len(payload)
		}
		if end-start > sf.maxTransfer && last > start {
			chunks = append(chunks, payload[start:last])
			start = last
		}
		last = end
	}
	return append(chunks, payload[start:])
}
