package pressure

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

type fakeADC struct {
	mv    []float64
	reads int
	err   error
}

func (f *fakeADC) Read() (analog.Sample, error) {
	if f.err != nil {
		return analog.Sample{}, f.err
	}
	v := f.mv[f.reads%len(f.mv)]
	f.reads++
	return analog.Sample{V: physic.ElectricPotential(v * float64(physic.MilliVolt))}, nil
}

func TestPSI(t *testing.T) {
	tests := []struct {
		name   string
		adcMV  float64
		height float64
		want   float64
	}{
		{"zero", 500 * DividerRatio, 0, 0},
		{"full scale", 4500 * DividerRatio, 0, 100},
		{"half", 2500 * DividerRatio, 0, 50},
		{"below range", 0, 0, 0},
		{"above range", 3000, 0, 100},
		{"height compensation", 2500 * DividerRatio, 10, 54.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PSI(tt.adcMV, tt.height); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PSI(%v, %v) = %v, want %v", tt.adcMV, tt.height, got, tt.want)
			}
		})
	}
}

func TestSensor_ReadPSI(t *testing.T) {
	adc := &fakeADC{mv: []float64{1000, 1180}}
	s := New(adc)
	got, err := s.ReadPSI(0)
	if err != nil {
		t.Fatal(err)
	}
	if adc.reads != Samples {
		t.Errorf("reads = %v, want %v", adc.reads, Samples)
	}
	if want := PSI(1090, 0); math.Abs(got-want) > 1e-9 {
		t.Errorf("ReadPSI() = %v, want %v", got, want)
	}

	rounded, err := s.ReadPSIRounded(0)
	if err != nil {
		t.Fatal(err)
	}
	if want := int(math.Round(PSI(1090, 0))); rounded != want {
		t.Errorf("ReadPSIRounded() = %v, want %v", rounded, want)
	}
}

func TestSensor_ReadSensorMV(t *testing.T) {
	s := New(&fakeADC{mv: []float64{545}})
	mv, err := s.ReadSensorMV()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mv-1000) > 1e-6 {
		t.Errorf("ReadSensorMV() = %v, want 1000", mv)
	}
}

func TestSensor_error(t *testing.T) {
	errADC := errors.New("adc busy")
	s := New(&fakeADC{err: errADC})
	if _, err := s.ReadPSI(0); !errors.Is(err, errADC) {
		t.Errorf("ReadPSI() error = %v, want %v", err, errADC)
	}
	if _, err := s.ReadPSIRounded(0); !errors.Is(err, errADC) {
		t.Errorf("ReadPSIRounded() error = %v, want %v", err, errADC)
	}
}

func writeIIO(t *testing.T, dir, name, value string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIIOChannel(t *testing.T) {
	dir := t.TempDir()
	writeIIO(t, dir, "in_voltage1_raw", "1000")
	writeIIO(t, dir, "in_voltage_scale", "0.125")

	ch := IIOChannel{Dir: dir, Channel: 1}
	s, err := ch.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if s.Raw != 1000 || millivolts(s.V) != 125 {
		t.Fatalf("Read() = %+v", s)
	}

	writeIIO(t, dir, "in_voltage1_scale", "2")
	s, err = ch.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if millivolts(s.V) != 2000 {
		t.Fatalf("per-channel scale ignored: %v mV", millivolts(s.V))
	}

	writeIIO(t, dir, "in_voltage1_raw", "busy")
	if _, err := ch.Read(); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := (IIOChannel{Dir: dir, Channel: 3}).Read(); !os.IsNotExist(err) {
		t.Fatalf("missing channel error = %v", err)
	}
}
