// internal/config/tank.go
package config

import "github.com/golang/glog"

// Tank setting ranges.
const (
	MinCapacityGallons     = 100
	MaxCapacityGallons     = 2000
	DefaultCapacityGallons = 500

	MinSensorHeightFeet     = 0
	MaxSensorHeightFeet     = 50
	DefaultSensorHeightFeet = 11

	MinMaxPSI     = 50
	MaxMaxPSI     = 300
	DefaultMaxPSI = 150

	MinRadarHeightCm     = 10
	MaxRadarHeightCm     = 500
	DefaultRadarHeightCm = 200
)

// DefaultTank returns the factory tank settings.
func DefaultTank() TankConfig {
	return TankConfig{
		CapacityGallons:  DefaultCapacityGallons,
		SensorHeightFeet: DefaultSensorHeightFeet,
		MaxPSI:           DefaultMaxPSI,
		RadarHeightCm:    DefaultRadarHeightCm,
	}
}

// SetCapacityGallons stores v clamped to 100..2000.
func (t *TankConfig) SetCapacityGallons(v int) {
	t.CapacityGallons = clampSetting("tank capacity", v, MinCapacityGallons, MaxCapacityGallons)
}

// SetSensorHeightFeet stores v clamped to 0..50.
func (t *TankConfig) SetSensorHeightFeet(v int) {
	t.SensorHeightFeet = clampSetting("sensor height", v, MinSensorHeightFeet, MaxSensorHeightFeet)
}

// SetMaxPSI stores v clamped to 50..300.
func (t *TankConfig) SetMaxPSI(v int) {
	t.MaxPSI = clampSetting("max psi", v, MinMaxPSI, MaxMaxPSI)
}

// SetRadarHeightCm stores v clamped to 10..500.
func (t *TankConfig) SetRadarHeightCm(v int) {
	t.RadarHeightCm = clampSetting("radar height", v, MinRadarHeightCm, MaxRadarHeightCm)
}

// normalize applies defaults to unset fields and clamps the rest.
// Sensor height 0 is a valid setting and is kept.
func (t *TankConfig) normalize() {
	if t.CapacityGallons == 0 {
		t.CapacityGallons = DefaultCapacityGallons
	}
	if t.MaxPSI == 0 {
		t.MaxPSI = DefaultMaxPSI
	}
	if t.RadarHeightCm == 0 {
		t.RadarHeightCm = DefaultRadarHeightCm
	}
	t.SetCapacityGallons(t.CapacityGallons)
	t.SetSensorHeightFeet(t.SensorHeightFeet)
	t.SetMaxPSI(t.MaxPSI)
	t.SetRadarHeightCm(t.RadarHeightCm)
}

func clampSetting(name string, v, lo, hi int) int {
	switch {
	case v < lo:
		glog.Infof("%s %d below minimum, using %d", name, v, lo)
		return lo
	case v > hi:
		glog.Infof("%s %d above maximum, using %d", name, v, hi)
		return hi
	}
	return v
}
