package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/berfenger/zeversolar2mqtt/pkg/zeversolar"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE    = "bridge"
	SENSOR_ID_INVERTER_ONLINE = "inverter_online"
	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
)

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("zeversolar_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "Zeversolar2MQTT",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Zeversolar2MQTT %s", md5HashShort(baseTopic)),
	}
}

func InverterDevice(endpoint zeversolar.Endpoint) Device {
	return Device{
		Id:           fmt.Sprintf("zev_inverter_%s", md5HashShort(endpoint.String())),
		Manufacturer: "Zeversolar",
		Model:        "Zeverlution",
		Name:         fmt.Sprintf("Zeversolar %s", endpoint.Host),
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

// ReadingSensorId maps a reading kind to its sensor id. Kinds come from user
// configuration so anything outside [a-z0-9_] is replaced.
func ReadingSensorId(kind zeversolar.Kind) string {
	raw := []byte(kind)
	for i, c := range raw {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_') {
			raw[i] = '_'
		}
	}
	return string(raw)
}

func InverterSensors(inverterDevice Device, readings []zeversolar.Reading) []GenericSensor {

	var sensors []GenericSensor

	// Inverter reachability
	sensors = append(sensors, GenericSensor{
		Device:         inverterDevice,
		Id:             SENSOR_ID_INVERTER_ONLINE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Inverter online",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(inverterDevice.Id, SENSOR_ID_INVERTER_ONLINE),
	})

	for _, r := range readings {
		id := ReadingSensorId(r.Kind)
		sensors = append(sensors, GenericSensor{
			Device:            IdDevice(inverterDevice),
			Id:                id,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              r.Name,
			StateClass:        r.StateClass,
			DeviceClass:       r.DeviceClass,
			UnitOfMeasurement: r.Unit,
			Icon:              r.Icon,
			UniqueId:          uniqueId(inverterDevice.Id, id),
		})
	}

	return sensors
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Bridge state
	sensors = append(sensors, GenericSensor{
		Device:           bridgeDevice,
		Id:               SENSOR_ID_BRIDGE_STATE,
		SensorType:       SENSOR_TYPE_BINARY,
		Name:             "Bridge state",
		DeviceClass:      DEVICE_CLASS_CONNECTIVITY,
		EntityCategory:   ENTITY_CLASS_DIAGNOSTIC,
		EnabledByDefault: optionalBool(true),
		UniqueId:         uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}

func optionalBool(value bool) *bool {
	return &value
}
