// Package pressure converts readings of a 0.5-4.5 V, 0-100 PSI pressure
// transducer behind a 10k/12k voltage divider.
//
//	sensor out --[10k]--+-- ADC
//	                    |
//	                  [12k]
//	                    |
//	                   GND
package pressure

import (
	"math"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

const (
	// DividerRatio is R2/(R1+R2) = 12/(10+12).
	DividerRatio = 0.545
	// PSIPerFoot is the hydrostatic pressure of one foot of water.
	PSIPerFoot = 0.433
	// MaxPSI is the transducer full scale.
	MaxPSI = 100.0
	// Samples is the number of ADC readings averaged per measurement.
	Samples = 8

	sensorMinMV = 500.0
	sensorMaxMV = 4500.0
)

// Sampler is an ADC channel. periph.io analog.PinADC satisfies it.
type Sampler interface {
	Read() (analog.Sample, error)
}

// Sensor is a transducer on one ADC channel.
type Sensor struct {
	adc Sampler
}

// New creates a sensor reading from adc.
func New(adc Sampler) *Sensor {
	return &Sensor{adc: adc}
}

// ReadRawMV reads the ADC pin voltage in millivolts, after the divider.
func (sf *Sensor) ReadRawMV() (float64, error) {
	s, err := sf.adc.Read()
	if err != nil {
		return 0, err
	}
	return millivolts(s.V), nil
}

// ReadSensorMV reads the transducer output in millivolts, before the divider.
func (sf *Sensor) ReadSensorMV() (float64, error) {
	mv, err := sf.ReadRawMV()
	if err != nil {
		return 0, err
	}
	return mv / DividerRatio, nil
}

// ReadPSI averages Samples readings and returns the pressure in PSI,
// compensated for a sensor mounted heightFeet above ground and clamped to
// 0..MaxPSI.
func (sf *Sensor) ReadPSI(heightFeet float64) (float64, error) {
	var sum float64
	for i := 0; i < Samples; i++ {
		mv, err := sf.ReadRawMV()
		if err != nil {
			return 0, err
		}
		sum += mv
	}
	return PSI(sum/Samples, heightFeet), nil
}

// ReadPSIRounded is ReadPSI rounded to whole PSI.
func (sf *Sensor) ReadPSIRounded(heightFeet float64) (int, error) {
	psi, err := sf.ReadPSI(heightFeet)
	if err != nil {
		return 0, err
	}
	return int(math.Round(psi)), nil
}

// PSI converts an ADC pin voltage in millivolts to pressure.
func PSI(adcMV, heightFeet float64) float64 {
	sensorMV := adcMV / DividerRatio
	psi := (sensorMV-sensorMinMV)/(sensorMaxMV-sensorMinMV)*MaxPSI + heightFeet*PSIPerFoot
	return math.Max(0, math.Min(MaxPSI, psi))
}

func millivolts(v physic.ElectricPotential) float64 {
	return float64(v) / float64(physic.MilliVolt)
}
