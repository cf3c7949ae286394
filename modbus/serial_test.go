package modbus

import (
	"reflect"
	"testing"
	"time"

	"github.com/goburrow/serial"
)

func TestSerialConfig_serialConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SerialConfig
		want    *serial.Config
		wantErr bool
	}{
		{
			"defaults",
			SerialConfig{Address: "/dev/ttyUSB0"},
			&serial.Config{Address: "/dev/ttyUSB0", BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: "N", Timeout: time.Second},
			false,
		},
		{
			"explicit",
			SerialConfig{Address: "COM3", BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: "E", Timeout: 50 * time.Millisecond},
			&serial.Config{Address: "COM3", BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: "E", Timeout: 50 * time.Millisecond},
			false,
		},
		{"no address", SerialConfig{}, nil, true},
		{"negative timeout", SerialConfig{Address: "/dev/ttyS0", Timeout: -1}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.serialConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("serialConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("serialConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
