package model

import (
	"fmt"
	"strings"
	"time"
)

type ApplianceType string

const (
	ApplianceAircon ApplianceType = "AC"
	ApplianceTV     ApplianceType = "TV"
	ApplianceLight  ApplianceType = "LIGHT"
	ApplianceIR     ApplianceType = "IR"
)

// Appliance is a remote-controlled appliance registered to a Remo device
type Appliance struct {
	ID       string          `json:"id"`
	Device   Device          `json:"device"`
	Model    *ApplianceModel `json:"model,omitempty"`
	Nickname string          `json:"nickname"`
	Image    string          `json:"image"`
	Type     ApplianceType   `json:"type"`
	Settings *AirconSettings `json:"settings,omitempty"`
	Aircon   *Aircon         `json:"aircon,omitempty"`
	Signals  []Signal        `json:"signals"`
}

// DisplayName returns the nickname, falling back to the ID for unnamed appliances
func (a Appliance) DisplayName() string {
	if name := strings.TrimSpace(a.Nickname); name != "" {
		return name
	}
	return a.ID
}

type ApplianceModel struct {
	ID           string `json:"id"`
	Manufacturer string `json:"manufacturer"`
	RemoteName   string `json:"remote_name"`
	Name         string `json:"name"`
	Image        string `json:"image"`
}

type AirconSettings struct {
	Temp      string    `json:"temp"`
	Mode      string    `json:"mode"`
	Vol       string    `json:"vol"`
	Dir       string    `json:"dir"`
	Button    string    `json:"button"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type AirconModeValue struct {
	Temp []string `json:"temp"`
	Dir  []string `json:"dir"`
	Vol  []string `json:"vol"`
}

type AirconRange struct {
	Modes        map[string]AirconModeValue `json:"modes"`
	FixedButtons []string                   `json:"fixedButtons"`
}

type Aircon struct {
	Range    AirconRange `json:"range"`
	TempUnit string      `json:"tempUnit"`
}

type Signal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Device is a Remo hardware unit
type Device struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	TemperatureOffset float64   `json:"temperature_offset"`
	HumidityOffset    float64   `json:"humidity_offset"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	FirmwareVersion   string    `json:"firmware_version"`
}

type EventValue struct {
	Val       float64   `json:"val"`
	CreatedAt time.Time `json:"created_at"`
}

// NewestEvents holds the latest sensor readings keyed as the API reports them
type NewestEvents struct {
	Temperature  *EventValue `json:"te,omitempty"`
	Humidity     *EventValue `json:"hu,omitempty"`
	Illumination *EventValue `json:"il,omitempty"`
	Motion       *EventValue `json:"mo,omitempty"`
}

type DeviceWithEvents struct {
	Device
	NewestEvents NewestEvents `json:"newest_events"`
}

type SensorValue struct {
	Temperature  float64
	Humidity     float64
	Illumination float64
}

// Sensor extracts the newest readings; missing events read as zero
func (d DeviceWithEvents) Sensor() SensorValue {
	var v SensorValue
	if e := d.NewestEvents.Temperature; e != nil {
		v.Temperature = e.Val
	}
	if e := d.NewestEvents.Humidity; e != nil {
		v.Humidity = e.Val
	}
	if e := d.NewestEvents.Illumination; e != nil {
		v.Illumination = e.Val
	}
	return v
}

func (v SensorValue) String() string {
	return fmt.Sprintf("%.1f°C %.0f%% %.0flx", v.Temperature, v.Humidity, v.Illumination)
}

type User struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}
