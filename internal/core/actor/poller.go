package actor

import (
	"fmt"
	"time"

	adactor "github.com/berfenger/zeversolar2mqtt/internal/adapter/actor"
	"github.com/berfenger/zeversolar2mqtt/internal/config"
	"github.com/berfenger/zeversolar2mqtt/internal/core/domain"
	"github.com/berfenger/zeversolar2mqtt/internal/core/events"
	. "github.com/berfenger/zeversolar2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

type PollerActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	inverterActor *actor.PID
	config        *config.Config
	eventStream   *eventstream.EventStream
	lastOnline    *bool

	logger *zap.Logger
}

type pollTick struct {
}

func NewPollerActor(config *config.Config, inverterActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *PollerActor {
	act := &PollerActor{
		config:        config,
		inverterActor: inverterActor,
		behavior:      actor.NewBehavior(),
		stash:         &Stash{},
		logger:        ActorLogger(domain.ACTOR_ID_POLLER, logger),
		eventStream:   eventStream,
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *PollerActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *PollerActor) pollInterval() time.Duration {
	return time.Duration(state.config.MonitorConfig.PollIntervalMillis) * time.Millisecond
}

func (state *PollerActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("poller@default started", zap.Duration("interval", state.pollInterval()))
		state.scheduler = scheduler.NewTimerScheduler(ctx)
		// first poll right away
		ctx.Send(ctx.Self(), pollTick{})
	case domain.ActorHealthRequest:
		state.logger.Debug("poller@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLLER,
			Healthy: true,
			State:   "idle",
		})
	case pollTick:
		state.logger.Debug("poller@default tick")
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.inverterActor, domain.RefreshReadingsRequest{}, adactor.REFRESH_TASK_TIMEOUT+time.Second), func(err error) any {
			return domain.RefreshReadingsResponse{
				ActorResponseMixIn: domain.ErrorResponse(err),
			}
		})

		// schedule next tick
		state.scheduler.RequestOnce(state.pollInterval(), ctx.Self(), pollTick{})
		state.behavior.BecomeStacked(state.WaitingRefreshReceive)
	default:
		state.logger.Debug("poller@default: ignored", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *PollerActor) WaitingRefreshReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.RefreshReadingsResponse:
		if msg.HasResponseError() {
			state.logger.Error("poller@waiting RefreshReadingsResponse error", zap.Error(msg.GetResponseError()))
		}
		// a malformed reading still carries the others
		if !msg.HasResponseError() || len(msg.Readings) > 0 {
			state.logger.Debug("poller@waiting RefreshReadingsResponse", zap.Bool("online", msg.Online))
			state.logTransition(msg.Online)
			for _, ev := range events.RefreshToUpdateEvents(msg) {
				state.eventStream.Publish(ev)
			}
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLLER,
			Healthy: true,
			State:   "polling",
		})
	case pollTick:
		// previous poll still running, skip this one
		state.logger.Debug("poller@waiting: tick dropped")
		state.scheduler.RequestOnce(state.pollInterval(), ctx.Self(), pollTick{})
	default:
		state.logger.Debug("poller@waiting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) logTransition(online bool) {
	if state.lastOnline != nil && *state.lastOnline == online {
		return
	}
	if online {
		state.logger.Info("inverter is online")
	} else {
		state.logger.Info("inverter is offline")
	}
	state.lastOnline = &online
}
