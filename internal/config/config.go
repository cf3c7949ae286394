// internal/config/config.go
package config

type Config struct {
	Sensor   SensorConfig   `yaml:"sensor"`
	Display  DisplayConfig  `yaml:"display"`
	Pressure PressureConfig `yaml:"pressure"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Tank     TankConfig     `yaml:"tank"`
}

// ---- RADAR LEVEL SENSOR ----

type SensorConfig struct {
	Port      string `yaml:"port"`
	BaudRate  int    `yaml:"baud_rate"`
	Address   uint8  `yaml:"address"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Log boot text the sensor prints before Modbus traffic.
	DrainBootText bool `yaml:"drain_boot_text"`
}

// ---- MEMORY LCD ----

type DisplayConfig struct {
	Enabled     bool   `yaml:"enabled"`
	SPIPort     string `yaml:"spi_port"`
	FrequencyHz int64  `yaml:"frequency_hz"`
	CSPin       string `yaml:"cs_pin"`
	DispPin     string `yaml:"disp_pin"`
	MaxTransfer int    `yaml:"max_transfer"`
}

// ---- PRESSURE TRANSDUCER (IIO ADC) ----

type PressureConfig struct {
	Enabled   bool   `yaml:"enabled"`
	IIODevice string `yaml:"iio_device"`
	Channel   int    `yaml:"channel"`
}

// ---- HOME ASSISTANT ----

type MQTTConfig struct {
	Enabled bool   `yaml:"enabled"`
	Broker  string `yaml:"broker"`
}

// ---- PROMETHEUS ----

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
}

// ---- LOOP ----

type MonitorConfig struct {
	PollIntervalMs int `yaml:"poll_interval_ms"`
	VCOMIntervalMs int `yaml:"vcom_interval_ms"`
}

// ---- TANK (persisted user settings) ----

type TankConfig struct {
	CapacityGallons  int `yaml:"capacity_gallons"`
	SensorHeightFeet int `yaml:"sensor_height_feet"`
	MaxPSI           int `yaml:"max_psi"`
	RadarHeightCm    int `yaml:"radar_height_cm"`
}
