package actor

import (
	"testing"
	"time"

	adactor "github.com/berfenger/zeversolar2mqtt/internal/adapter/actor"
	"github.com/berfenger/zeversolar2mqtt/internal/core/domain"
	"github.com/berfenger/zeversolar2mqtt/internal/util"
	"github.com/berfenger/zeversolar2mqtt/pkg/zeversolar"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testBridge struct {
	system *actor.ActorSystem
	master *actor.PID
	device *zeversolar.TestDevice
	mqtt   chan *adactor.MQTTActor
}

func startTestBridge(t *testing.T, haDiscovery bool) *testBridge {
	as := actor.NewActorSystem()

	cfg := util.LoadTestConfig()
	cfg.MQTT.HADiscoveryEnable = haDiscovery
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	b := &testBridge{
		system: as,
		device: zeversolar.NewTestDevice(),
		mqtt:   make(chan *adactor.MQTTActor, 1),
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func() *adactor.InverterActor {
			return adactor.NewInverterActor(b.device, logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			act := adactor.NewTestMQTTActor(&cfg, es, logger)
			b.mqtt <- act
			return act
		}, logger)
	})
	pid, err := as.Root.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	require.NoError(t, err)
	b.master = pid

	t.Cleanup(func() {
		as.Root.Stop(pid)
		as.Shutdown()
	})
	return b
}

func TestMasterActor(t *testing.T) {

	b := startTestBridge(t, false)

	res, err := b.system.Root.RequestFuture(b.master, domain.ActorHealthRequest{}, 10*time.Second).Result()
	require.NoError(t, err)
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	assert.True(t, healthResp.Healthy, "healthy is true")
}

func TestMasterGetReadings(t *testing.T) {

	b := startTestBridge(t, false)

	res, err := b.system.Root.RequestFuture(b.master, domain.GetReadingsRequest{}, 5*time.Second).Result()
	require.NoError(t, err)
	resp, ok := res.(domain.GetReadingsResponse)
	require.True(t, ok)
	assert.True(t, resp.Online)
	require.Len(t, resp.Readings, 2)
	assert.Equal(t, "PV Solar Power", resp.Readings[0].Name)
}

func TestMasterPollsAndPublishes(t *testing.T) {

	b := startTestBridge(t, false)
	mqttActor := <-b.mqtt

	assert.Eventually(t, func() bool {
		return b.device.RefreshCalls() >= 1 && len(mqttActor.Recorded()) >= 3
	}, 5*time.Second, 50*time.Millisecond)

	topics := map[string]string{}
	for _, m := range mqttActor.Recorded() {
		topics[m.Topic] = m.Message
	}
	assert.Equal(t, "on", topics["zeversolar/binary_sensor/inverter_online/state"])
	assert.Equal(t, "1234", topics["zeversolar/sensor/power/state"])
	assert.Equal(t, "5.67", topics["zeversolar/sensor/energy_today/state"])
}

func TestMasterHADiscovery(t *testing.T) {

	b := startTestBridge(t, true)
	mqttActor := <-b.mqtt

	discoveryTopic := func() bool {
		for _, m := range mqttActor.Recorded() {
			if m.Topic == "homeassistant/sensor/"+domain.InverterDevice(b.device.Endpoint()).Id+"/power/config" {
				return m.Retain
			}
		}
		return false
	}
	assert.Eventually(t, discoveryTopic, 5*time.Second, 50*time.Millisecond)
}
