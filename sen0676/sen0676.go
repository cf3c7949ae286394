// Package sen0676 drives the DFRobot SEN0676 80GHz mmWave radar liquid level
// sensor over Modbus-RTU.
//
// Register map:
//
//	| Register | R/W | Name                | Unit     |
//	|----------|-----|---------------------|----------|
//	| 0x0001   | R   | empty_height        | mm       |
//	| 0x0003   | R   | water_level         | mm       |
//	| 0x0005   | R/W | installation_height | cm       |
//	| 0x03F4   | R/W | device_address      | -        |
//	| 0x03F6   | R/W | baud_rate           | baud/100 |
//	| 0x07D4   | R/W | range               | m        |
package sen0676

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/watercontroller/tankmon/modbus"
)

// Default communication parameters.
const (
	DefaultAddress  byte   = 0x01
	DefaultBaudRate uint32 = 115200

	addressMax byte = 0xFD
)

var (
	// ErrInvalidBaudRate the line speed is not supported by the sensor.
	ErrInvalidBaudRate = errors.New("sen0676: unsupported baud rate")
	// ErrInvalidAddress the device address is outside 0x01..0xFD.
	ErrInvalidAddress = errors.New("sen0676: invalid device address")
	// ErrReadOnly the register cannot be written.
	ErrReadOnly = errors.New("sen0676: register is read-only")
)

// Option configures a Sensor.
type Option func(*Sensor)

// WithLogProvider routes frame traces and boot text to p.
func WithLogProvider(p modbus.LogProvider) Option {
	return func(s *Sensor) {
		s.logger = p
		s.clientOpts = append(s.clientOpts, modbus.WithLogProvider(p), modbus.WithEnableLogger())
	}
}

// WithBaudRate tells the client the line speed for inter-frame timing.
func WithBaudRate(baud int) Option {
	return func(s *Sensor) {
		s.clientOpts = append(s.clientOpts, modbus.WithBaudRate(baud))
	}
}

// Sensor is a SEN0676 on a serial port it owns exclusively.
type Sensor struct {
	port       io.ReadWriter
	client     *modbus.RTUClient
	address    byte
	logger     modbus.LogProvider
	clientOpts []modbus.ClientOption
}

// New creates a sensor talking to device address on port.
func New(port io.ReadWriter, address byte, opts ...Option) *Sensor {
	s := &Sensor{port: port, address: address}
	for _, opt := range opts {
		opt(s)
	}
	s.client = modbus.NewRTUClient(port, s.clientOpts...)
	return s
}

// NewDefault creates a sensor at DefaultAddress.
func NewDefault(port io.ReadWriter, opts ...Option) *Sensor {
	return New(port, DefaultAddress, opts...)
}

// Address returns the device address used for requests.
func (s *Sensor) Address() byte { return s.address }

// ReadEmptyHeight reads the distance from the sensor to the liquid surface
// in millimeters.
func (s *Sensor) ReadEmptyHeight() (uint16, error) {
	return s.client.ReadHoldingRegister(s.address, RegEmptyHeight)
}

// ReadWaterLevel reads the liquid level in millimeters.
// It is only meaningful once the installation height is set.
func (s *Sensor) ReadWaterLevel() (uint16, error) {
	return s.client.ReadHoldingRegister(s.address, RegWaterLevel)
}

// ReadInstallationHeight reads the configured installation height in
// centimeters.
func (s *Sensor) ReadInstallationHeight() (uint16, error) {
	return s.client.ReadHoldingRegister(s.address, RegInstallationHeight)
}

// SetInstallationHeight sets the distance from the sensor to the tank bottom
// in centimeters. Water level = installation height - empty height.
func (s *Sensor) SetInstallationHeight(cm uint16) error {
	return s.client.WriteSingleRegister(s.address, RegInstallationHeight, cm)
}

// ReadDeviceAddress reads the device address register.
func (s *Sensor) ReadDeviceAddress() (byte, error) {
	v, err := s.client.ReadHoldingRegister(s.address, RegDeviceAddress)
	return byte(v), err
}

// SetDeviceAddress re-addresses the device. Valid addresses are 0x01..0xFD.
// On success later requests go to the new address.
func (s *Sensor) SetDeviceAddress(addr byte) error {
	if addr == 0 || addr > addressMax {
		return fmt.Errorf("%w: 0x%02X", ErrInvalidAddress, addr)
	}
	if err := s.client.WriteSingleRegister(s.address, RegDeviceAddress, uint16(addr)); err != nil {
		return err
	}
	s.address = addr
	return nil
}

// ReadBaudRate reads the line speed in baud.
func (s *Sensor) ReadBaudRate() (uint32, error) {
	v, err := s.client.ReadHoldingRegister(s.address, RegBaudRate)
	return uint32(v) * 100, err
}

// SetBaudRate changes the line speed of the device. The port has to be
// reopened at the new speed afterwards.
func (s *Sensor) SetBaudRate(baud uint32) error {
	code, ok := baudCodes[baud]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidBaudRate, baud)
	}
	return s.client.WriteSingleRegister(s.address, RegBaudRate, code)
}

// ReadRange reads the maximum measurement range in meters.
func (s *Sensor) ReadRange() (uint16, error) {
	return s.client.ReadHoldingRegister(s.address, RegRange)
}

// SetRange sets the maximum measurement range in meters.
func (s *Sensor) SetRange(meters uint16) error {
	return s.client.WriteSingleRegister(s.address, RegRange, meters)
}

// Read reads the raw value of reg.
func (s *Sensor) Read(reg Register) (uint16, error) {
	return s.client.ReadHoldingRegister(s.address, reg.Address)
}

// Write writes the raw value of reg. The device address and baud rate
// registers go through SetDeviceAddress and SetBaudRate so their checks apply.
func (s *Sensor) Write(reg Register, value uint16) error {
	switch {
	case reg.Access != ReadWrite:
		return fmt.Errorf("%w: %s", ErrReadOnly, reg.Name)
	case reg.Address == RegDeviceAddress:
		if value > 0xFF {
			return fmt.Errorf("%w: 0x%04X", ErrInvalidAddress, value)
		}
		return s.SetDeviceAddress(byte(value))
	case reg.Address == RegBaudRate:
		return s.SetBaudRate(uint32(value) * 100)
	}
	return s.client.WriteSingleRegister(s.address, reg.Address, value)
}

// DrainASCIIMessages reads and logs text the sensor prints on boot.
// Call it before Modbus traffic; it reads single bytes until the port has no
// more data and returns the complete lines. Non-printable bytes are dropped.
func (s *Sensor) DrainASCIIMessages() []string {
	var (
		buf   [1]byte
		line  strings.Builder
		lines []string
	)
	flush := func() {
		if text := strings.TrimSpace(line.String()); text != "" {
			lines = append(lines, text)
			if s.logger != nil {
				s.logger.Debugf("sensor: %s", text)
			}
		}
		line.Reset()
	}

	for {
		n, err := s.port.Read(buf[:])
		if n != 1 || err != nil {
			flush()
			return lines
		}
		switch ch := buf[0]; {
		case ch == '\n':
			flush()
		case ch >= 0x20 && ch < 0x7F:
			line.WriteByte(ch)
		}
	}
}
