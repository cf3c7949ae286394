package monitor

import (
	"time"
)

// Option configures a Monitor.
type Option func(*Monitor)

// WithPressure adds a pressure transducer to each poll.
func WithPressure(p PressureSensor) Option {
	return func(m *Monitor) {
		m.pressure = p
	}
}

// WithDisplay draws each poll on d and keeps its VCOM alive.
func WithDisplay(d Display) Option {
	return func(m *Monitor) {
		m.display = d
	}
}

// WithPublisher publishes each poll through p.
func WithPublisher(p Publisher) Option {
	return func(m *Monitor) {
		m.publisher = p
	}
}

// WithMetrics exports readings and error counts to mt.
func WithMetrics(mt *Metrics) Option {
	return func(m *Monitor) {
		if mt != nil {
			m.metrics = mt
		}
	}
}

// WithPollInterval sets the sensor poll period.
func WithPollInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.pollInterval = d
		}
	}
}

// WithVCOMInterval sets the keep-alive period, at most MaxVCOMInterval.
func WithVCOMInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 && d <= MaxVCOMInterval {
			m.vcomInterval = d
		}
	}
}

// WithReadyQueueSize sets the length of the ready queue.
func WithReadyQueueSize(size int) Option {
	return func(m *Monitor) {
		if size > 0 {
			m.readyQueueSize = size
		}
	}
}

// WithPanicHandle is called when a job panics, mainly for debugging.
func WithPanicHandle(f func(interface{})) Option {
	return func(m *Monitor) {
		if f != nil {
			m.panicHandle = f
		}
	}
}
