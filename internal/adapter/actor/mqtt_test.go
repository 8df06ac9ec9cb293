package actor

import (
	"testing"
	"time"

	"github.com/berfenger/zeversolar2mqtt/internal/core/domain"
	"github.com/berfenger/zeversolar2mqtt/internal/core/events"
	"github.com/berfenger/zeversolar2mqtt/internal/mqtt"
	"github.com/berfenger/zeversolar2mqtt/internal/util"
	"github.com/berfenger/zeversolar2mqtt/internal/util/actorutil"
	"github.com/berfenger/zeversolar2mqtt/pkg/zeversolar"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMQTTActor(t *testing.T) {

	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	es := eventstream.EventStream{}

	act := NewTestMQTTActor(&cfg, &es, logger)
	props := actor.PropsFromProducer(func() actor.Actor { return act })
	pid := context.Spawn(props)

	msg := domain.ActorHealthRequest{}
	result, err := context.RequestFuture(pid, msg, 2*time.Second).Result()
	require.NoError(t, err)
	resp, ok := result.(domain.ActorHealthResponse)
	assert.True(t, ok)
	assert.True(t, resp.Healthy)

	dev := zeversolar.NewTestDevice()
	dev.SetOnline(false)
	for _, ev := range events.RefreshToUpdateEvents(domain.RefreshReadingsResponse{
		Online:   dev.Online(),
		Readings: dev.Readings(),
	}) {
		es.Publish(ev)
	}

	assert.Eventually(t, func() bool {
		return len(act.Recorded()) == 3
	}, 2*time.Second, 50*time.Millisecond)

	recorded := act.Recorded()
	assert.Equal(t, RawMessage{Topic: "zeversolar/binary_sensor/inverter_online/state", Message: "off"}, recorded[0])
	assert.Equal(t, RawMessage{Topic: "zeversolar/sensor/power/state", Message: "None"}, recorded[1])
	assert.Equal(t, RawMessage{Topic: "zeversolar/sensor/energy_today/state", Message: "None"}, recorded[2])

	context.Stop(pid)

	as.Shutdown()
}

func TestEventToMQTTMessage(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	client := mqtt.CreateMQTTClient(&cfg, mqtt.OptsFromConfig(&cfg), nil, nil)

	power := EventToMQTTMessage(client, domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: "power"},
		Value:                  1234,
		Decimals:               0,
	})
	require.NotNil(t, power)
	assert.Equal("zeversolar/sensor/power/state", power.Topic)
	assert.Equal("1234", power.Message)

	energy := EventToMQTTMessage(client, domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: "energy_today"},
		Value:                  0.09,
		Decimals:               2,
	})
	require.NotNil(t, energy)
	assert.Equal("0.09", energy.Message)

	absent := EventToMQTTMessage(client, domain.UnknownSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: "power"},
	})
	require.NotNil(t, absent)
	assert.Equal(mqtt.MQTT_PAYLOAD_UNKNOWN, absent.Message)

	online := EventToMQTTMessage(client, domain.BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: domain.SENSOR_ID_INVERTER_ONLINE},
		Value:                  true,
	})
	require.NotNil(t, online)
	assert.Equal("zeversolar/binary_sensor/inverter_online/state", online.Topic)
	assert.Equal(mqtt.MQTT_PAYLOAD_ON, online.Message)

	bridge := EventToMQTTMessage(client, domain.BridgeStateUpdateEvent{Value: false})
	require.NotNil(t, bridge)
	assert.Equal(mqtt.MQTT_PAYLOAD_OFFLINE, bridge.Message)
	assert.True(bridge.Retain)

	assert.Nil(EventToMQTTMessage(client, "not an event"))
}
