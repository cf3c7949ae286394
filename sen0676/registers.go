package sen0676

import (
	"fmt"
)

// Access is the access mode of a register.
type Access uint8

// Access modes.
const (
	ReadOnly Access = iota
	ReadWrite
)

func (a Access) String() string {
	if a == ReadWrite {
		return "RW"
	}
	return "RO"
}

// Register describes one holding register of the sensor.
type Register struct {
	Name    string
	Address uint16
	Access  Access
	Unit    string
}

func (r Register) String() string {
	return fmt.Sprintf("%s(0x%04X %s %s)", r.Name, r.Address, r.Access, r.Unit)
}

// Register addresses.
const (
	RegEmptyHeight        uint16 = 0x0001
	RegWaterLevel         uint16 = 0x0003
	RegInstallationHeight uint16 = 0x0005
	RegDeviceAddress      uint16 = 0x03F4
	RegBaudRate           uint16 = 0x03F6
	RegRange              uint16 = 0x07D4
)

// Registers is the register map of the sensor.
var Registers = []Register{
	{"empty_height", RegEmptyHeight, ReadOnly, "mm"},
	{"water_level", RegWaterLevel, ReadOnly, "mm"},
	{"installation_height", RegInstallationHeight, ReadWrite, "cm"},
	{"device_address", RegDeviceAddress, ReadWrite, "-"},
	{"baud_rate", RegBaudRate, ReadWrite, "baud/100"},
	{"range", RegRange, ReadWrite, "m"},
}

// Lookup finds a register by name.
func Lookup(name string) (Register, bool) {
	for _, r := range Registers {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// baudCodes maps supported line speeds to their register encoding (baud/100).
var baudCodes = map[uint32]uint16{
	4800:   48,
	9600:   96,
	14400:  144,
	19200:  192,
	38400:  384,
	56000:  560,
	57600:  576,
	115200: 1152,
	129000: 1290,
}

// BaudRates returns the supported line speeds in ascending order.
func BaudRates() []uint32 {
	return []uint32{4800, 9600, 14400, 19200, 38400, 56000, 57600, 115200, 129000}
}
