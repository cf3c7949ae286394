package modbus

import (
	"errors"
	"io"
	"time"

	"github.com/goburrow/serial"
)

const (
	// SerialDefaultTimeout Serial Default timeout
	SerialDefaultTimeout = 1 * time.Second
	// SerialDefaultBaudRate Serial Default line speed
	SerialDefaultBaudRate = 115200
)

// SerialConfig is the line configuration of a serial port.
// Zero fields take 8N1 at SerialDefaultBaudRate with SerialDefaultTimeout.
type SerialConfig struct {
	Address  string
	BaudRate int
	DataBits int
	StopBits int
	Parity   string
	Timeout  time.Duration
}

func (sf SerialConfig) serialConfig() (*serial.Config, error) {
	if sf.Address == "" {
		return nil, errors.New("modbus: serial address required")
	}
	if sf.Timeout < 0 {
		return nil, errors.New("modbus: serial read timeout must be finite and positive")
	}
	c := &serial.Config{
		Address:  sf.Address,
		BaudRate: sf.BaudRate,
		DataBits: sf.DataBits,
		StopBits: sf.StopBits,
		Parity:   sf.Parity,
		Timeout:  sf.Timeout,
	}
	if c.BaudRate == 0 {
		c.BaudRate = SerialDefaultBaudRate
	}
	if c.DataBits == 0 {
		c.DataBits = 8
	}
	if c.StopBits == 0 {
		c.StopBits = 1
	}
	if c.Parity == "" {
		c.Parity = "N"
	}
	if c.Timeout == 0 {
		c.Timeout = SerialDefaultTimeout
	}
	return c, nil
}

// OpenSerial opens the serial port described by cfg.
// The returned port always has a finite read timeout.
func OpenSerial(cfg SerialConfig) (io.ReadWriteCloser, error) {
	c, err := cfg.serialConfig()
	if err != nil {
		return nil, err
	}
	return serial.Open(c)
}
