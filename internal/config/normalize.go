// internal/config/normalize.go
package config

const (
	DefaultSensorPort     = "/dev/ttyUSB0"
	DefaultSensorBaudRate = 115200
	DefaultSensorAddress  = 0x01
	DefaultSensorTimeout  = 1000

	DefaultSPIPort      = "/dev/spidev0.0"
	DefaultSPIFrequency = 2_000_000
	DefaultCSPin        = "GPIO8"

	DefaultIIODevice = "/sys/bus/iio/devices/iio:device0"

	DefaultBroker = "mqtt://homeassistant.local:1883"

	DefaultPollInterval = 5000
	DefaultVCOMInterval = 1000
)

// Normalize fills unset fields with defaults and clamps the tank settings
// into their allowed ranges. It runs before Validate.
func Normalize(cfg *Config) {
	s := &cfg.Sensor
	if s.Port == "" {
		s.Port = DefaultSensorPort
	}
	if s.BaudRate == 0 {
		s.BaudRate = DefaultSensorBaudRate
	}
	if s.Address == 0 {
		s.Address = DefaultSensorAddress
	}
	if s.TimeoutMs == 0 {
		s.TimeoutMs = DefaultSensorTimeout
	}

	d := &cfg.Display
	if d.SPIPort == "" {
		d.SPIPort = DefaultSPIPort
	}
	if d.FrequencyHz == 0 {
		d.FrequencyHz = DefaultSPIFrequency
	}
	if d.CSPin == "" {
		d.CSPin = DefaultCSPin
	}

	if cfg.Pressure.IIODevice == "" {
		cfg.Pressure.IIODevice = DefaultIIODevice
	}

	if cfg.MQTT.Broker == "" {
		cfg.MQTT.Broker = DefaultBroker
	}

	m := &cfg.Monitor
	if m.PollIntervalMs == 0 {
		m.PollIntervalMs = DefaultPollInterval
	}
	if m.VCOMIntervalMs == 0 {
		m.VCOMIntervalMs = DefaultVCOMInterval
	}

	cfg.Tank.normalize()
}
