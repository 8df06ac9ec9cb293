package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/zeversolar2mqtt/internal/core/domain"
	"github.com/berfenger/zeversolar2mqtt/internal/core/port"
	"github.com/berfenger/zeversolar2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const (
	REFRESH_TASK_TIMEOUT = 8 * time.Second
)

type InverterActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	inverter port.InverterReader
	logger   *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewInverterActor(inverter port.InverterReader, logger *zap.Logger) *InverterActor {
	act := &InverterActor{
		inverter: inverter,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger(domain.ACTOR_ID_INVERTER, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *InverterActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *InverterActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("inverter@default started", zap.String("endpoint", state.inverter.Endpoint().String()))
	case domain.ActorHealthRequest:
		state.logger.Debug("inverter@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_INVERTER,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetDeviceInfoRequest:
		state.logger.Debug("inverter@default: GetDeviceInfoRequest")
		actorutil.ForRequest(msg).Respond(ctx, domain.GetDeviceInfoResponse{
			Endpoint: state.inverter.Endpoint(),
			Readings: state.inverter.Readings(),
		})
	case domain.GetReadingsRequest:
		state.logger.Debug("inverter@default: GetReadingsRequest")
		actorutil.ForRequest(msg).Respond(ctx, domain.GetReadingsResponse{
			Online:   state.inverter.Online(),
			Readings: state.inverter.Readings(),
		})
	case domain.RefreshReadingsRequest:
		state.logger.Debug("inverter@default: RefreshReadingsRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTaskNoError(ctx, state.refreshReadings),
			mapTaskResult[domain.RefreshReadingsResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.RefreshReadingsResponse{
					ActorResponseMixIn: domain.ErrorResponse(err),
				},
				replyTo: sender,
			}
		}).WithTimeout(REFRESH_TASK_TIMEOUT).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingInverter)
	default:
		state.logger.Debug("inverter@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// WaitingInverter serializes refreshes: one HTTP poll in flight at a time.
func (state *InverterActor) WaitingInverter(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("inverter@WaitingInverter backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		if msg.replyTo != nil {
			ctx.Send(msg.replyTo, msg.message)
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_INVERTER,
			Healthy: true,
			State:   "polling",
		})
	default:
		state.logger.Debug("inverter@WaitingInverter stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *InverterActor) refreshReadings() *domain.RefreshReadingsResponse {
	ctx, cancel := context.WithTimeout(context.Background(), REFRESH_TASK_TIMEOUT)
	defer cancel()

	err := a.inverter.Refresh(ctx)
	if err != nil {
		a.logger.Error("inverter: malformed readings", zap.Error(err))
	}
	return &domain.RefreshReadingsResponse{
		ActorResponseMixIn: domain.ErrorResponse(err),
		Online:             a.inverter.Online(),
		Readings:           a.inverter.Readings(),
	}
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
