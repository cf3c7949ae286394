package pressure

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

// IIOChannel reads one voltage channel of a Linux industrial I/O ADC
// through sysfs, e.g. an ADS1115 bound to the ti-ads1015 driver.
//
//	<Dir>/in_voltage<N>_raw    counts
//	<Dir>/in_voltage<N>_scale  mV per count, or the shared in_voltage_scale
type IIOChannel struct {
	Dir     string
	Channel int
}

// Read implements Sampler.
func (c IIOChannel) Read() (analog.Sample, error) {
	raw, err := c.readFloat(fmt.Sprintf("in_voltage%d_raw", c.Channel))
	if err != nil {
		return analog.Sample{}, err
	}
	scale, err := c.readFloat(fmt.Sprintf("in_voltage%d_scale", c.Channel))
	if os.IsNotExist(err) {
		scale, err = c.readFloat("in_voltage_scale")
	}
	if err != nil {
		return analog.Sample{}, err
	}
	return analog.Sample{
		V:   physic.ElectricPotential(math.Round(raw * scale * float64(physic.MilliVolt))),
		Raw: int32(raw),
	}, nil
}

func (c IIOChannel) readFloat(name string) (float64, error) {
	b, err := os.ReadFile(filepath.Join(c.Dir, name))
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, fmt.Errorf("pressure: %s: %w", name, err)
	}
	return v, nil
}
