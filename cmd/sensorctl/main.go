// Command sensorctl is an interactive shell for commissioning a SEN0676
// radar level sensor and editing the tank settings.
//
//	sensorctl -port /dev/ttyUSB0 read water_level
//	sensorctl -config /etc/watercontroller/config.yaml tank capacity 750
package main

import (
	"flag"
	"log"
	"time"

	"github.com/watercontroller/tankmon/modbus"
	"github.com/watercontroller/tankmon/sen0676"
)

var (
	flagPort    = flag.String("port", "/dev/ttyUSB0", "serial port of the sensor")
	flagBaud    = flag.Int("baud", int(sen0676.DefaultBaudRate), "line speed")
	flagAddress = flag.Uint("address", uint(sen0676.DefaultAddress), "device address")
	flagTimeout = flag.Duration("timeout", time.Second, "response timeout")
	flagConfig  = flag.String("config", "", "YAML configuration edited by the tank command")
	flagTrace   = flag.Bool("trace", false, "log every frame")
)

func main() {
	flag.Parse()

	port, err := modbus.OpenSerial(modbus.SerialConfig{
		Address:  *flagPort,
		BaudRate: *flagBaud,
		Timeout:  *flagTimeout,
	})
	if err != nil {
		log.Fatalf("open %s: %v", *flagPort, err)
	}
	defer port.Close()

	opts := []sen0676.Option{sen0676.WithBaudRate(*flagBaud)}
	if *flagTrace {
		opts = append(opts, sen0676.WithLogProvider(modbus.NewStdLogger("sensorctl: ")))
	}
	sensor := sen0676.New(port, byte(*flagAddress), opts...)

	NewShell(sensor, *flagConfig).Run(flag.Args()...)
}
