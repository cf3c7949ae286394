// internal/config/load.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file, applies defaults and validates the result.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	glog.Infof("config loaded: tank=%dgal, height=%dft, max_psi=%d, radar=%dcm",
		cfg.Tank.CapacityGallons, cfg.Tank.SensorHeightFeet, cfg.Tank.MaxPSI, cfg.Tank.RadarHeightCm)
	return cfg, nil
}

// Parse decodes YAML, applies defaults and validates the result. Tank
// settings the file omits keep their DefaultTank values; an explicit zero
// sensor height stays zero.
func Parse(raw []byte) (*Config, error) {
	cfg := &Config{Tank: DefaultTank()}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, replacing the file atomically.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	glog.V(1).Infof("config saved to %s", path)
	return nil
}
