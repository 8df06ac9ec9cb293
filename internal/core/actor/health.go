package actor

import (
	"time"

	"github.com/berfenger/zeversolar2mqtt/internal/core/domain"
	"github.com/berfenger/zeversolar2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
)

// healthProbe tracks one round of health requests sent to a set of actors.
type healthProbe struct {
	targets  map[string]*actor.PID
	healthy  map[string]bool
	received int
}

func newHealthProbe(targets map[string]*actor.PID) *healthProbe {
	return &healthProbe{
		targets: targets,
		healthy: make(map[string]bool, len(targets)),
	}
}

// start asks every target for its health. Responses, including failures
// mapped to unhealthy, come back to ctx.Self() as ActorHealthResponse.
func (p *healthProbe) start(ctx actor.Context, timeout time.Duration) {
	clear(p.healthy)
	p.received = 0
	for id, pid := range p.targets {
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(pid, domain.ActorHealthRequest{}, timeout), func(error) any {
			return domain.ActorHealthResponse{Id: id}
		})
	}
}

// record stores a response and reports whether every target answered.
func (p *healthProbe) record(resp domain.ActorHealthResponse) bool {
	if _, ok := p.targets[resp.Id]; !ok {
		return p.done()
	}
	p.received++
	if resp.Healthy {
		p.healthy[resp.Id] = true
	}
	return p.done()
}

func (p *healthProbe) done() bool {
	return p.received >= len(p.targets)
}

func (p *healthProbe) allHealthy() bool {
	for id := range p.targets {
		if !p.healthy[id] {
			return false
		}
	}
	return true
}

func (p *healthProbe) unhealthy() []string {
	var ids []string
	for id := range p.targets {
		if !p.healthy[id] {
			ids = append(ids, id)
		}
	}
	return ids
}
