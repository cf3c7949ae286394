// Command watercontroller monitors a water tank: it polls the radar level
// sensor and the pressure transducer, draws the readings on a memory LCD,
// publishes them to Home Assistant and exports Prometheus metrics.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/watercontroller/tankmon/homeassistant"
	"github.com/watercontroller/tankmon/internal/config"
	"github.com/watercontroller/tankmon/memlcd"
	"github.com/watercontroller/tankmon/modbus"
	"github.com/watercontroller/tankmon/monitor"
	"github.com/watercontroller/tankmon/pressure"
	"github.com/watercontroller/tankmon/sen0676"
)

var flagConfig = flag.String("config", "/etc/watercontroller/config.yaml", "path of the YAML configuration")

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		glog.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port, err := modbus.OpenSerial(modbus.SerialConfig{
		Address:  cfg.Sensor.Port,
		BaudRate: cfg.Sensor.BaudRate,
		Timeout:  time.Duration(cfg.Sensor.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		glog.Fatalf("open %s: %v", cfg.Sensor.Port, err)
	}
	defer port.Close()

	sensor := sen0676.New(port, cfg.Sensor.Address,
		sen0676.WithBaudRate(cfg.Sensor.BaudRate),
		sen0676.WithLogProvider(monitor.GlogProvider{Prefix: "sen0676: "}))
	if cfg.Sensor.DrainBootText {
		glog.Infof("sensor printed %d boot lines", len(sensor.DrainASCIIMessages()))
	}
	if err := sensor.SetInstallationHeight(uint16(cfg.Tank.RadarHeightCm)); err != nil {
		glog.Warningf("set installation height: %v", err)
	}

	metrics := monitor.NewMetrics(prometheus.DefaultRegisterer)
	opts := []monitor.Option{
		monitor.WithMetrics(metrics),
		monitor.WithPollInterval(time.Duration(cfg.Monitor.PollIntervalMs) * time.Millisecond),
		monitor.WithVCOMInterval(time.Duration(cfg.Monitor.VCOMIntervalMs) * time.Millisecond),
	}

	var lcd *memlcd.Display
	if cfg.Display.Enabled {
		lcdOpts := []memlcd.Option{memlcd.WithLogProvider(monitor.GlogProvider{Prefix: "memlcd: "})}
		if cfg.Display.MaxTransfer > 0 {
			lcdOpts = append(lcdOpts, memlcd.WithMaxTransfer(cfg.Display.MaxTransfer))
		}
		var spiPort spi.PortCloser
		lcd, spiPort, err = memlcd.OpenPeriph(memlcd.HardwareConfig{
			SPIPort:   cfg.Display.SPIPort,
			Frequency: physic.Frequency(cfg.Display.FrequencyHz) * physic.Hertz,
			CSPin:     cfg.Display.CSPin,
			DispPin:   cfg.Display.DispPin,
		}, lcdOpts...)
		if err != nil {
			glog.Fatalf("display: %v", err)
		}
		defer spiPort.Close()
		opts = append(opts, monitor.WithDisplay(lcd))
	}

	if cfg.Pressure.Enabled {
		adc := pressure.IIOChannel{Dir: cfg.Pressure.IIODevice, Channel: cfg.Pressure.Channel}
		opts = append(opts, monitor.WithPressure(pressure.New(adc)))
	}

	if cfg.Metrics.Listen != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			glog.Infof("metrics listening on %s", cfg.Metrics.Listen)
			if err := http.ListenAndServe(cfg.Metrics.Listen, nil); err != nil {
				glog.Errorf("metrics server: %v", err)
			}
		}()
	}

	m := monitor.New(sensor, cfg.Tank, opts...)
	go reloadOnHangup(ctx, m)

	var mqttDone chan struct{}
	if cfg.MQTT.Enabled {
		mqttDone = make(chan struct{})
		go func() {
			defer close(mqttDone)
			dialPublisher(ctx, cfg.MQTT.Broker, m)
		}()
	}

	// the panel holds one polarity from Init until the monitor's first
	// flush, so nothing slow may run in between
	if lcd != nil {
		if err := lcd.Init(); err != nil {
			glog.Fatalf("display init: %v", err)
		}
	}
	glog.Info("watercontroller running")
	_ = m.Run(ctx)
	if mqttDone != nil {
		<-mqttDone
	}
	glog.Info("watercontroller stopped")
}

// dialPublisher connects to the broker while the monitor runs and hands it
// the publisher. The connection is closed when ctx is done.
func dialPublisher(ctx context.Context, brokerURL string, m *monitor.Monitor) {
	ha, client, err := homeassistant.Dial(brokerURL)
	if err != nil {
		glog.Warningf("mqtt disabled: %v", err)
		return
	}
	m.SetPublisher(ha)
	<-ctx.Done()
	client.Disconnect(250)
}

// reloadOnHangup re-reads the tank settings on SIGHUP, so sensorctl edits
// take effect without a restart.
func reloadOnHangup(ctx context.Context, m *monitor.Monitor) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			cfg, err := config.Load(*flagConfig)
			if err != nil {
				glog.Errorf("reload: %v", err)
				continue
			}
			m.SetTank(cfg.Tank)
			glog.Info("tank settings reloaded")
		}
	}
}
