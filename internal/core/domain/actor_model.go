package domain

import "github.com/berfenger/zeversolar2mqtt/pkg/zeversolar"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_INVERTER     = "inverter"
	ACTOR_ID_POLLER       = "poller"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetDeviceInfoRequest struct {
	ActorRequestMixIn
}

type GetDeviceInfoResponse struct {
	ActorResponseMixIn
	Endpoint zeversolar.Endpoint
	Readings []zeversolar.Reading
}

// RefreshReadingsRequest asks the inverter actor to poll the inverter
// (subject to the fetcher throttle) and report the readings.
type RefreshReadingsRequest struct {
	ActorRequestMixIn
}

type RefreshReadingsResponse struct {
	ActorResponseMixIn
	Online   bool
	Readings []zeversolar.Reading
}

// GetReadingsRequest returns the last known readings without polling.
type GetReadingsRequest struct {
	ActorRequestMixIn
}

type GetReadingsResponse struct {
	ActorResponseMixIn
	Online   bool
	Readings []zeversolar.Reading
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
