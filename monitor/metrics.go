package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus series exported by the monitor.
type Metrics struct {
	LevelMM         prometheus.Gauge
	CapacityPercent prometheus.Gauge
	Gallons         prometheus.Gauge
	PressurePSI     prometheus.Gauge
	SensorErrors    *prometheus.CounterVec
	DisplayErrors   prometheus.Counter
	PublishErrors   prometheus.Counter
	VCOMToggles     prometheus.Counter
}

// NewMetrics creates the monitor metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LevelMM: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tank_water_level_mm",
			Help: "Water level above the tank bottom (mm)",
		}),
		CapacityPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tank_capacity_percent",
			Help: "Tank fill level (%)",
		}),
		Gallons: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tank_volume_gallons",
			Help: "Water volume in the tank (gal)",
		}),
		PressurePSI: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tank_pressure_psi",
			Help: "Line pressure (psi)",
		}),
		SensorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tank_sensor_errors_total",
			Help: "Failed sensor reads",
		}, []string{"sensor"}),
		DisplayErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tank_display_errors_total",
			Help: "Failed display transactions",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tank_publish_errors_total",
			Help: "Failed Home Assistant publishes",
		}),
		VCOMToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tank_display_vcom_toggles_total",
			Help: "Keep-alive VCOM toggles sent without a frame update",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.LevelMM, m.CapacityPercent, m.Gallons, m.PressurePSI,
			m.SensorErrors, m.DisplayErrors, m.PublishErrors, m.VCOMToggles)
	}
	return m
}
