// Package monitor polls the tank sensors, drives the display and publishes
// readings. Jobs are scheduled on a timing wheel and executed by two lanes:
// the sensor lane polls, draws and publishes, the display lane keeps VCOM
// alternating. Each lane runs its jobs one at a time; the display is shared
// by both lanes under a lock, the serial bus belongs to the sensor lane.
package monitor

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/thinkgos/timing/v4"

	"github.com/watercontroller/tankmon/homeassistant"
	"github.com/watercontroller/tankmon/internal/config"
	"github.com/watercontroller/tankmon/ui"
)

const (
	// DefaultPollInterval is the default sensor poll period.
	DefaultPollInterval = 5 * time.Second
	// MaxVCOMInterval is the longest the panel may hold one VCOM polarity.
	MaxVCOMInterval = time.Second
	// DefaultReadyQueueSize default ready queue length
	DefaultReadyQueueSize = 8
	// retryRandValue bounds the random delay, in ms, before a job whose
	// ready queue was full is offered again.
	retryRandValue = 50
)

// LevelSensor reads the water level in millimeters.
type LevelSensor interface {
	ReadWaterLevel() (uint16, error)
}

// PressureSensor reads the line pressure in whole PSI.
type PressureSensor interface {
	ReadPSIRounded(heightFeet float64) (int, error)
}

// Display is a canvas that can be flushed to the panel.
type Display interface {
	ui.Canvas
	Flush() error
	ToggleVCOM() error
}

// Publisher sends readings to Home Assistant.
type Publisher interface {
	PublishState(homeassistant.State) error
}

// Reading is the result of one poll.
type Reading struct {
	LevelMM     uint16
	Percent     int
	Gallons     int
	PressurePSI int
	Time        time.Time
}

type job struct {
	name     string
	interval time.Duration
	run      func()
	ready    chan *job
	tm       *timing.Timer
}

// Monitor owns the sensors and the display.
type Monitor struct {
	level     LevelSensor
	pressure  PressureSensor
	display   Display
	publisher Publisher
	metrics   *Metrics
	dashboard *ui.Dashboard

	pollInterval   time.Duration
	vcomInterval   time.Duration
	readyQueueSize int
	sensorReady    chan *job
	displayReady   chan *job
	panicHandle    func(interface{})
	now            func() time.Time

	// displayMu serializes drawing, flushes and VCOM toggles.
	displayMu sync.Mutex

	mu        sync.Mutex
	started   bool
	tank      config.TankConfig
	last      Reading
	lastFrame time.Time

	ctx    context.Context
	cancel context.CancelFunc
	lanes  sync.WaitGroup
}

// New creates a monitor for level with the given tank settings.
func New(level LevelSensor, tank config.TankConfig, opts ...Option) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Monitor{
		level:          level,
		metrics:        NewMetrics(nil),
		pollInterval:   DefaultPollInterval,
		vcomInterval:   MaxVCOMInterval,
		readyQueueSize: DefaultReadyQueueSize,
		panicHandle:    func(interface{}) {},
		now:            time.Now,
		tank:           tank,
		ctx:            ctx,
		cancel:         cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.display != nil {
		w, h := m.display.Size()
		m.dashboard = ui.NewDashboard(w, h)
	}
	m.sensorReady = make(chan *job, m.readyQueueSize)
	m.displayReady = make(chan *job, m.readyQueueSize)
	return m
}

// Start schedules the poll and keep-alive jobs. The first poll runs
// immediately; the keep-alive runs every half VCOM interval.
func (sf *Monitor) Start() {
	sf.mu.Lock()
	if sf.started {
		sf.mu.Unlock()
		return
	}
	sf.started = true
	sf.mu.Unlock()

	sf.lanes.Add(2)
	go sf.runJobs("sensor", sf.sensorReady)
	go sf.runJobs("display", sf.displayReady)
	sf.schedule(&job{name: "poll", interval: sf.pollInterval, run: sf.poll, ready: sf.sensorReady}, 0)
	if sf.display != nil {
		half := sf.vcomInterval / 2
		sf.schedule(&job{name: "vcom", interval: half, run: sf.keepAlive, ready: sf.displayReady}, half)
	}
}

// Run starts the monitor and blocks until ctx is done.
func (sf *Monitor) Run(ctx context.Context) error {
	sf.Start()
	select {
	case <-ctx.Done():
	case <-sf.ctx.Done():
	}
	sf.Close()
	return ctx.Err()
}

// Close stops scheduling and waits for the running jobs to finish.
// Pending timers fire once more and are dropped.
func (sf *Monitor) Close() {
	sf.cancel()
	sf.mu.Lock()
	started := sf.started
	sf.mu.Unlock()
	if started {
		sf.lanes.Wait()
	}
}

// SetTank replaces the tank settings used by later polls.
func (sf *Monitor) SetTank(tank config.TankConfig) {
	sf.mu.Lock()
	sf.tank = tank
	sf.mu.Unlock()
}

// SetPublisher installs p for later polls, so a slow broker connection can
// be made while the monitor already runs.
func (sf *Monitor) SetPublisher(p Publisher) {
	sf.mu.Lock()
	sf.publisher = p
	sf.mu.Unlock()
}

// Last returns the most recent successful reading.
func (sf *Monitor) Last() Reading {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.last
}

func (sf *Monitor) schedule(j *job, first time.Duration) {
	j.tm = timing.NewTimer()
	j.tm.WithJobFunc(func() {
		select {
		case <-sf.ctx.Done():
			return
		case j.ready <- j:
		default:
			timing.Add(j.tm, time.Duration(rand.Intn(retryRandValue))*time.Millisecond)
		}
	})
	timing.Add(j.tm, first)
}

func (sf *Monitor) runJobs(lane string, ready chan *job) {
	defer sf.lanes.Done()
	for {
		select {
		case <-sf.ctx.Done():
			glog.V(1).Infof("monitor: %s lane exit", lane)
			return
		case j := <-ready:
			sf.runJob(j)
			if sf.ctx.Err() == nil {
				timing.Add(j.tm, j.interval)
			}
		}
	}
}

func (sf *Monitor) runJob(j *job) {
	defer func() {
		if err := recover(); err != nil {
			glog.Errorf("monitor: %s job panic: %v", j.name, err)
			sf.panicHandle(err)
		}
	}()
	j.run()
}

func (sf *Monitor) poll() {
	if _, err := sf.Poll(); err != nil {
		glog.Warningf("monitor: poll: %v", err)
	}
}

// Poll reads the sensors, redraws the display and publishes the reading.
// Only a level sensor failure is returned; pressure, display and publish
// failures are logged and counted and the poll carries on.
func (sf *Monitor) Poll() (Reading, error) {
	sf.mu.Lock()
	tank := sf.tank
	prev := sf.last
	publisher := sf.publisher
	sf.mu.Unlock()

	levelMM, err := sf.level.ReadWaterLevel()
	if err != nil {
		sf.metrics.SensorErrors.WithLabelValues("level").Inc()
		return Reading{}, err
	}
	r := Reading{
		LevelMM:     levelMM,
		Percent:     Percent(levelMM, tank.RadarHeightCm),
		PressurePSI: prev.PressurePSI,
		Time:        sf.now(),
	}
	r.Gallons = Gallons(r.Percent, tank.CapacityGallons)

	if sf.pressure != nil {
		psi, err := sf.pressure.ReadPSIRounded(float64(tank.SensorHeightFeet))
		if err != nil {
			sf.metrics.SensorErrors.WithLabelValues("pressure").Inc()
			glog.Warningf("monitor: pressure: %v", err)
		} else {
			r.PressurePSI = psi
		}
	}
	if glog.V(2) {
		glog.Infof("monitor: level=%dmm %d%% %dgal %dpsi", r.LevelMM, r.Percent, r.Gallons, r.PressurePSI)
	}

	sf.metrics.LevelMM.Set(float64(r.LevelMM))
	sf.metrics.CapacityPercent.Set(float64(r.Percent))
	sf.metrics.Gallons.Set(float64(r.Gallons))
	sf.metrics.PressurePSI.Set(float64(r.PressurePSI))

	sf.mu.Lock()
	sf.last = r
	sf.mu.Unlock()

	if sf.display != nil {
		sf.draw(r, tank.MaxPSI)
	}

	if publisher != nil {
		err := publisher.PublishState(homeassistant.State{
			CapacityPercent: r.Percent,
			Gallons:         r.Gallons,
			PressurePSI:     r.PressurePSI,
		})
		if err != nil {
			sf.metrics.PublishErrors.Inc()
			glog.Warningf("monitor: publish: %v", err)
		}
	}
	return r, nil
}

func (sf *Monitor) draw(r Reading, maxPSI int) {
	sf.displayMu.Lock()
	defer sf.displayMu.Unlock()
	if maxPSI > 0 {
		sf.dashboard.Gauge.MaxPSI = maxPSI
	}
	sf.dashboard.Update(r.Percent, r.Gallons, r.PressurePSI)
	sf.dashboard.Draw(sf.display)
	if err := sf.display.Flush(); err != nil {
		sf.metrics.DisplayErrors.Inc()
		glog.Errorf("monitor: display flush: %v", err)
		return
	}
	sf.markFrame()
}

func (sf *Monitor) keepAlive() {
	if err := sf.KeepAlive(); err != nil {
		glog.Errorf("monitor: vcom: %v", err)
	}
}

// KeepAlive toggles VCOM when no frame reached the panel for half the
// VCOM interval. Every flush already flips the polarity. Called every half
// interval, it holds one polarity for at most a full interval.
func (sf *Monitor) KeepAlive() error {
	if sf.display == nil {
		return nil
	}
	sf.displayMu.Lock()
	defer sf.displayMu.Unlock()
	sf.mu.Lock()
	idle := sf.now().Sub(sf.lastFrame)
	sf.mu.Unlock()
	if idle < sf.vcomInterval/2 {
		return nil
	}
	if err := sf.display.ToggleVCOM(); err != nil {
		sf.metrics.DisplayErrors.Inc()
		return err
	}
	sf.metrics.VCOMToggles.Inc()
	sf.markFrame()
	return nil
}

func (sf *Monitor) markFrame() {
	sf.mu.Lock()
	sf.lastFrame = sf.now()
	sf.mu.Unlock()
}
