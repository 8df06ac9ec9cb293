package actor

import (
	"errors"
	"fmt"
	"log"
	"time"

	adactor "github.com/berfenger/zeversolar2mqtt/internal/adapter/actor"
	"github.com/berfenger/zeversolar2mqtt/internal/config"
	"github.com/berfenger/zeversolar2mqtt/internal/core/domain"
	. "github.com/berfenger/zeversolar2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type MQTTActorProvider func(*eventstream.EventStream) *adactor.MQTTActor

type InverterActorProvider func() *adactor.InverterActor

type MasterOfPuppetsActor struct {
	config   config.Config
	behavior actor.Behavior
	stash    *Stash

	health                *healthProbe
	healthRespondTo       *actor.PID
	eventStream           *eventstream.EventStream
	inverterActor         *actor.PID
	mqttActor             *actor.PID
	pollerActor           *actor.PID
	inverterActorProvider InverterActorProvider
	mqttActorProvider     MQTTActorProvider
	logger                *zap.Logger
}

func NewMasterOfPuppetsActor(config config.Config, inverterActorProvider InverterActorProvider, mqttActorProvider MQTTActorProvider, logger *zap.Logger) *MasterOfPuppetsActor {
	act := &MasterOfPuppetsActor{
		config:                config,
		behavior:              actor.NewBehavior(),
		stash:                 &Stash{},
		logger:                ActorLogger(domain.ACTOR_ID_MASTER, logger),
		eventStream:           &eventstream.EventStream{},
		inverterActorProvider: inverterActorProvider,
		mqttActorProvider:     mqttActorProvider,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

// EventStream carries the sensor update events of this bridge.
func (state *MasterOfPuppetsActor) EventStream() *eventstream.EventStream {
	return state.eventStream
}

func (state *MasterOfPuppetsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MasterOfPuppetsActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		// start Inverter child
		inverterActorPID, err := state.startInverterActor(ctx)
		if err != nil {
			panic(err)
		}
		state.inverterActor = inverterActorPID

		// start MQTT child
		mqttActorPID, err := state.startMQTTActor(ctx)
		if err != nil {
			panic(err)
		}
		state.mqttActor = mqttActorPID

		// start Poller child
		pollerActorPID, err := state.startPollerActor(ctx)
		if err != nil {
			panic(err)
		}
		state.pollerActor = pollerActorPID

		// start HA Discovery
		if state.config.MQTT.HADiscoveryEnable {
			_, err := state.startHADiscoveryActor(ctx)
			if err != nil {
				panic(err)
			}
		}

		state.health = newHealthProbe(map[string]*actor.PID{
			domain.ACTOR_ID_INVERTER: state.inverterActor,
			domain.ACTOR_ID_MQTT:     state.mqttActor,
			domain.ACTOR_ID_POLLER:   state.pollerActor,
		})

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("master@default ActorHealthRequest")
		state.healthRespondTo = ctx.Sender()
		state.health.start(ctx, 500*time.Millisecond)

		ctx.SetReceiveTimeout(1 * time.Second)

		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case domain.GetReadingsRequest:
		// forward to inverter, keeping the original sender
		state.logger.Debug("master@default GetReadingsRequest")
		ctx.RequestWithCustomSender(state.inverterActor, msg, ctx.Sender())
	case *actor.Terminated:
		// if some actor fails on boot, terminate
		if msg.Who.Id == fmt.Sprintf("%s/%s", domain.ACTOR_ID_MASTER, domain.ACTOR_ID_INVERTER) {
			state.logger.Error("master@default inverter error")
			panic(errors.New("inverter terminated"))
		}
	default:
		state.logger.Debug("master@default stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// if some actor does not respond to healthCheck, assume not healthy
		state.finishHealthCheck(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		if state.health.record(msg) {
			state.finishHealthCheck(ctx)
		} else {
			ctx.SetReceiveTimeout(1 * time.Second)
		}
	default:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) finishHealthCheck(ctx actor.Context) {
	ctx.CancelReceiveTimeout()
	healthy := state.health.allHealthy()
	if !healthy {
		state.logger.Warn("master@healthcheck unhealthy children", zap.Strings("actors", state.health.unhealthy()))
	}
	if state.healthRespondTo != nil {
		ctx.Send(state.healthRespondTo, domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MASTER,
			Healthy: healthy,
		})
		state.healthRespondTo = nil
	}
	state.behavior.UnbecomeStacked()
	state.stash.UnstashAll(ctx)
}

// restartDecider restarts a failing child.
func restartDecider(reason interface{}) actor.Directive {
	log.Printf("handling failure for child. reason: %v", reason)
	return actor.RestartDirective
}

// IO-bound children back off before restarting; the others restart once.
func backoffSupervisor() actor.SupervisorStrategy {
	return actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)
}

func restartOnceSupervisor() actor.SupervisorStrategy {
	return actor.NewOneForOneStrategy(1, 10*time.Second, restartDecider)
}

func spawnChild(ctx actor.Context, name string, supervisor actor.SupervisorStrategy, producer func() actor.Actor) (*actor.PID, error) {
	props := actor.PropsFromProducer(producer, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(props, name)
}

func (state *MasterOfPuppetsActor) startInverterActor(ctx actor.Context) (*actor.PID, error) {
	return spawnChild(ctx, domain.ACTOR_ID_INVERTER, backoffSupervisor(), func() actor.Actor {
		return state.inverterActorProvider()
	})
}

func (state *MasterOfPuppetsActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {
	return spawnChild(ctx, domain.ACTOR_ID_MQTT, backoffSupervisor(), func() actor.Actor {
		return state.mqttActorProvider(state.eventStream)
	})
}

func (state *MasterOfPuppetsActor) startPollerActor(ctx actor.Context) (*actor.PID, error) {
	return spawnChild(ctx, domain.ACTOR_ID_POLLER, restartOnceSupervisor(), func() actor.Actor {
		return NewPollerActor(&state.config, state.inverterActor, state.eventStream, state.logger)
	})
}

func (state *MasterOfPuppetsActor) startHADiscoveryActor(ctx actor.Context) (*actor.PID, error) {
	return spawnChild(ctx, domain.ACTOR_ID_HA_DISCOVERY, restartOnceSupervisor(), func() actor.Actor {
		return NewHADiscoveryActor(&state.config, state.inverterActor, state.mqttActor, state.logger)
	})
}
