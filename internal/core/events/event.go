package events

import (
	. "github.com/berfenger/zeversolar2mqtt/internal/core/domain"
	"github.com/berfenger/zeversolar2mqtt/pkg/zeversolar"
)

func ReadingsToUpdateEvents(readings []zeversolar.Reading) []any {
	var events []any

	for _, r := range readings {
		mixIn := SensorUpdateEventMixIn{
			Id: ReadingSensorId(r.Kind),
		}
		if r.Value == nil {
			events = append(events, UnknownSensorUpdateEvent{
				SensorUpdateEventMixIn: mixIn,
			})
			continue
		}
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: mixIn,
			Value:                  *r.Value,
			Decimals:               r.Decimals,
		})
	}

	return events
}

func InverterOnlineUpdateEvent(online bool) any {
	return BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_INVERTER_ONLINE,
		},
		Value: online,
	}
}

func RefreshToUpdateEvents(resp RefreshReadingsResponse) []any {
	events := []any{InverterOnlineUpdateEvent(resp.Online)}
	return append(events, ReadingsToUpdateEvents(resp.Readings)...)
}
