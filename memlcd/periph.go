package memlcd

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultFrequency is the SPI clock used when none is configured.
const DefaultFrequency = 2 * physic.MegaHertz

// HardwareConfig names the host resources the panel is wired to.
type HardwareConfig struct {
	// SPIPort is the spireg port name, "" picks the first one.
	SPIPort string
	// Frequency is the SPI clock, 0 means DefaultFrequency.
	Frequency physic.Frequency
	// CSPin is the gpioreg name of the select line, e.g. "GPIO8".
	CSPin string
	// DispPin optionally names the DISP line, driven high on open.
	DispPin string
}

// OpenPeriph initialises the host drivers and opens the panel described by
// cfg. The caller closes the returned port on shutdown.
func OpenPeriph(cfg HardwareConfig, opts ...Option) (*Display, spi.PortCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("memlcd: host init: %w", err)
	}
	if cfg.CSPin == "" {
		return nil, nil, errors.New("memlcd: select pin required")
	}
	cs := gpioreg.ByName(cfg.CSPin)
	if cs == nil {
		return nil, nil, fmt.Errorf("memlcd: gpio %s not found", cfg.CSPin)
	}
	if err := cs.Out(gpio.Low); err != nil {
		return nil, nil, fmt.Errorf("memlcd: gpio %s: %w", cfg.CSPin, err)
	}
	if cfg.DispPin != "" {
		disp := gpioreg.ByName(cfg.DispPin)
		if disp == nil {
			return nil, nil, fmt.Errorf("memlcd: gpio %s not found", cfg.DispPin)
		}
		if err := disp.Out(gpio.High); err != nil {
			return nil, nil, fmt.Errorf("memlcd: gpio %s: %w", cfg.DispPin, err)
		}
	}

	freq := cfg.Frequency
	if freq == 0 {
		freq = DefaultFrequency
	}
	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, nil, fmt.Errorf("memlcd: open spi %q: %w", cfg.SPIPort, err)
	}
	// the select line is active high, so the controller must not drive CS
	conn, err := port.Connect(freq, spi.Mode1|spi.LSBFirst|spi.NoCS, 8)
	if err != nil {
		_ = port.Close()
		return nil, nil, fmt.Errorf("memlcd: connect spi: %w", err)
	}
	return New(conn, cs, opts...), port, nil
}
