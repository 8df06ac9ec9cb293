package domain

import (
	"testing"

	"github.com/berfenger/zeversolar2mqtt/pkg/zeversolar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInverterSensors(t *testing.T) {

	assert := assert.New(t)

	dev := zeversolar.NewTestDevice()
	inverter := InverterDevice(dev.Endpoint())
	sensors := InverterSensors(inverter, dev.Readings())

	require.Len(t, sensors, 3)

	assert.Equal(SENSOR_ID_INVERTER_ONLINE, sensors[0].Id)
	assert.Equal(SENSOR_TYPE_BINARY, sensors[0].SensorType)
	assert.Equal(inverter, sensors[0].Device, "first sensor carries the full device")

	assert.Equal("power", sensors[1].Id)
	assert.Equal("PV Solar Power", sensors[1].Name)
	assert.Equal("W", sensors[1].UnitOfMeasurement)
	assert.Equal("power", sensors[1].DeviceClass)
	assert.Equal(IdDevice(inverter), sensors[1].Device)

	assert.Equal("energy_today", sensors[2].Id)
	assert.Equal("total_increasing", sensors[2].StateClass)
	assert.Equal(uniqueId(inverter.Id, "energy_today"), sensors[2].UniqueId)
}

func TestReadingSensorId(t *testing.T) {

	assert.Equal(t, "energy_today", ReadingSensorId(zeversolar.KIND_ENERGY_TODAY))
	assert.Equal(t, "grid_volt_", ReadingSensorId(zeversolar.Kind("grid volt!")))
}

func TestDevicesAreStable(t *testing.T) {

	ep := zeversolar.Endpoint{Host: "192.168.1.20", Port: 80}
	assert.Equal(t, InverterDevice(ep).Id, InverterDevice(ep).Id)
	assert.NotEqual(t, BridgeDevice("a").Id, BridgeDevice("b").Id)
	assert.Len(t, BridgeSensors(BridgeDevice("zeversolar")), 1)
}
