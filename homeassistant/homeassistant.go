// Package homeassistant publishes tank readings to Home Assistant over MQTT
// with auto discovery.
//
// Topics:
//
//	homeassistant/sensor/watercontroller_<name>/config  discovery, retained
//	watercontroller/state                                state
package homeassistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

const (
	// DeviceID identifies the device in Home Assistant.
	DeviceID = "watercontroller"
	// StateTopic carries the State payload.
	StateTopic = DeviceID + "/state"
	// DefaultPublishTimeout bounds the wait for a broker acknowledgement.
	DefaultPublishTimeout = 5 * time.Second

	discoveryPrefix = "homeassistant/sensor/"
)

var (
	// ErrPublishTimeout the broker did not acknowledge in time.
	ErrPublishTimeout = errors.New("homeassistant: publish timed out")
	// ErrConnectTimeout the broker did not accept the connection in time.
	ErrConnectTimeout = errors.New("homeassistant: connect timed out")
)

// Client is the part of paho.Client used for publishing.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// State is one reading of the tank.
type State struct {
	CapacityPercent int `json:"capacity_pct"`
	Gallons         int `json:"gallons"`
	PressurePSI     int `json:"pressure_psi"`
}

type device struct {
	IDs          string `json:"ids"`
	Name         string `json:"name"`
	Manufacturer string `json:"mf"`
	Model        string `json:"mdl"`
}

// sensorConfig is a discovery payload with abbreviated keys.
type sensorConfig struct {
	Name          string `json:"name"`
	UniqueID      string `json:"uniq_id"`
	StateTopic    string `json:"stat_t"`
	ValueTemplate string `json:"val_tpl"`
	Unit          string `json:"unit_of_meas"`
	DeviceClass   string `json:"dev_cla,omitempty"`
	Icon          string `json:"ic,omitempty"`
	StateClass    string `json:"stat_cla"`
	Device        device `json:"dev"`
}

type sensor struct {
	name   string
	config sensorConfig
}

var thisDevice = device{IDs: DeviceID, Name: "Water Controller", Manufacturer: "DIY", Model: "tankmon"}

var sensors = []sensor{
	{"capacity_percent", sensorConfig{
		Name: "Water Capacity", UniqueID: "wc_capacity_pct", ValueTemplate: "{{ value_json.capacity_pct }}",
		Unit: "%", DeviceClass: "battery",
	}},
	{"capacity_gallons", sensorConfig{
		Name: "Water Volume", UniqueID: "wc_capacity_gal", ValueTemplate: "{{ value_json.gallons }}",
		Unit: "gal", Icon: "mdi:water",
	}},
	{"pressure", sensorConfig{
		Name: "Water Pressure", UniqueID: "wc_pressure", ValueTemplate: "{{ value_json.pressure_psi }}",
		Unit: "psi", DeviceClass: "pressure",
	}},
}

// DiscoveryTopic returns the discovery topic of a sensor.
func DiscoveryTopic(name string) string {
	return discoveryPrefix + DeviceID + "_" + name + "/config"
}

// HomeAssistant publishes discovery and state messages.
type HomeAssistant struct {
	// Timeout bounds each publish, 0 waits forever.
	Timeout time.Duration

	client        Client
	discoverySent bool
}

// New creates a publisher on a connected client.
func New(client Client) *HomeAssistant {
	return &HomeAssistant{Timeout: DefaultPublishTimeout, client: client}
}

// DiscoverySent reports whether discovery has been published.
func (h *HomeAssistant) DiscoverySent() bool { return h.discoverySent }

// SendDiscovery publishes the retained sensor configurations once.
func (h *HomeAssistant) SendDiscovery() error {
	if h.discoverySent {
		return nil
	}
	glog.Info("sending Home Assistant discovery")
	for _, s := range sensors {
		cfg := s.config
		cfg.StateTopic = StateTopic
		cfg.StateClass = "measurement"
		cfg.Device = thisDevice
		payload, err := json.Marshal(cfg)
		if err != nil {
			return err
		}
		if err := h.publish(DiscoveryTopic(s.name), 1, true, payload); err != nil {
			return err
		}
	}
	h.discoverySent = true
	return nil
}

// PublishState publishes s, sending discovery first if needed.
func (h *HomeAssistant) PublishState(s State) error {
	if err := h.SendDiscovery(); err != nil {
		return err
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return h.publish(StateTopic, 0, false, payload)
}

func (h *HomeAssistant) publish(topic string, qos byte, retained bool, payload []byte) error {
	if glog.V(2) {
		glog.Infof("PUB %q %s", topic, payload)
	}
	token := h.client.Publish(topic, qos, retained, payload)
	if h.Timeout > 0 {
		if !token.WaitTimeout(h.Timeout) {
			return fmt.Errorf("%w: %s", ErrPublishTimeout, topic)
		}
	} else {
		token.Wait()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("homeassistant: publish %s: %w", topic, err)
	}
	return nil
}
