// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"

	"github.com/watercontroller/tankmon/sen0676"
)

func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ---- sensor ----
	s := cfg.Sensor
	if s.Port == "" {
		return fmt.Errorf("sensor: port required")
	}
	if !supportedBaud(s.BaudRate) {
		return fmt.Errorf("sensor: unsupported baud_rate %d", s.BaudRate)
	}
	if s.Address == 0 || s.Address >= 0xFE {
		return fmt.Errorf("sensor: address %d out of range 1..253", s.Address)
	}
	if s.TimeoutMs < 0 {
		return fmt.Errorf("sensor: timeout_ms must be positive")
	}

	// ---- display ----
	if cfg.Display.Enabled {
		d := cfg.Display
		if d.FrequencyHz < 0 {
			return fmt.Errorf("display: frequency_hz must be positive")
		}
		if d.CSPin == "" {
			return fmt.Errorf("display: cs_pin required")
		}
		if d.MaxTransfer < 0 {
			return fmt.Errorf("display: max_transfer must not be negative")
		}
	}

	// ---- pressure ----
	if cfg.Pressure.Enabled && cfg.Pressure.Channel < 0 {
		return fmt.Errorf("pressure: channel %d invalid", cfg.Pressure.Channel)
	}

	// ---- mqtt ----
	if cfg.MQTT.Enabled {
		if cfg.MQTT.Broker == "" {
			return fmt.Errorf("mqtt: broker required")
		}
		if _, err := url.Parse(cfg.MQTT.Broker); err != nil {
			return fmt.Errorf("mqtt: broker %q: %w", cfg.MQTT.Broker, err)
		}
	}

	// ---- loop ----
	m := cfg.Monitor
	if m.PollIntervalMs <= 0 {
		return fmt.Errorf("monitor: poll_interval_ms must be positive")
	}
	if m.VCOMIntervalMs <= 0 || m.VCOMIntervalMs > 1000 {
		return fmt.Errorf("monitor: vcom_interval_ms %d out of range 1..1000", m.VCOMIntervalMs)
	}
	return nil
}

func supportedBaud(baud int) bool {
	for _, b := range sen0676.BaudRates() {
		if int(b) == baud {
			return true
		}
	}
	return false
}
