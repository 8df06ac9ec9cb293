package zeversolar

import (
	"context"
	"sync"
)

// TestDevice is an in-memory inverter for exercising consumers without HTTP.
type TestDevice struct {
	mu       sync.Mutex
	online   bool
	readings []Reading
	err      error
	calls    int
}

func NewTestDevice() *TestDevice {
	power := 1234.0
	energy := 5.67
	registry := NewRegistry()
	_, powerMeta := registry.Resolve(string(KIND_POWER))
	_, energyMeta := registry.Resolve(string(KIND_ENERGY_TODAY))
	return &TestDevice{
		online: true,
		readings: []Reading{
			testReading(KIND_POWER, powerMeta, &power),
			testReading(KIND_ENERGY_TODAY, energyMeta, &energy),
		},
	}
}

func testReading(kind Kind, meta *Metadata, value *float64) Reading {
	return Reading{
		Kind:        kind,
		Name:        SENSOR_PREFIX + meta.Label,
		Icon:        meta.Icon,
		Unit:        meta.Unit,
		Value:       value,
		DeviceClass: meta.DeviceClass,
		StateClass:  meta.StateClass,
		Decimals:    meta.Decimals,
	}
}

func (d *TestDevice) Endpoint() Endpoint {
	return Endpoint{Host: "192.0.2.10", Port: DEFAULT_PORT}
}

func (d *TestDevice) Refresh(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return d.err
}

func (d *TestDevice) Readings() []Reading {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Reading, len(d.readings))
	copy(out, d.readings)
	if !d.online {
		for i := range out {
			out[i].Value = nil
		}
	}
	return out
}

func (d *TestDevice) Online() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.online
}

func (d *TestDevice) SetOnline(online bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.online = online
}

func (d *TestDevice) SetError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func (d *TestDevice) RefreshCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}
