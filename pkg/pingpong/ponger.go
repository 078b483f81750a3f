package pingpong

import (
	"math/rand"

	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/actor/plugin"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/subscription"
	"github.com/cuemby/hive/pkg/supervisor"
)

// Ponger answers every Ping with a Pong, dropping the reply with
// probability DropRate, the knob the request-timeout and spawner
// scenarios turn up to force failures.
type Ponger struct {
	actor.Base
	pipeline *plugin.Pipeline

	dropRate   float64
	registerAs string

	Received int
}

// NewPonger returns a factory constructing a ponger that drops replies with
// probability dropRate. When registerAs is non-empty, the ponger registers
// under that name with its supervisor's registry during init.
func NewPonger(dropRate float64, registerAs string) func(sup *supervisor.Supervisor) *actor.Base {
	return func(sup *supervisor.Supervisor) *actor.Base {
		p := &Ponger{
			dropRate:   dropRate,
			registerAs: registerAs,
		}
		p.pipeline = plugin.NewPipeline()
		p.Base = *actor.NewBase("ponger", sup, actor.Config{}, p.pipeline.Plugins()...)
		p.SetOnActivated(p.onActivated)
		return &p.Base
	}
}

func (p *Ponger) onActivated() {
	h := message.NewHandler[Ping](p.Address(), message.KindActor, p.onPing)
	p.pipeline.Lifetime.Subscribe(p.Address(), h, subscription.Plugin)
	rh := message.NewHandler[supervisor.Request[Ping]](p.Address(), message.KindActor, p.onRequest)
	p.pipeline.Lifetime.Subscribe(p.Address(), rh, subscription.Plugin)
	if p.registerAs != "" {
		p.pipeline.Registry.Register(p.registerAs)
	}
}

// onPing answers a direct (uncorrelated) ping with a direct pong, sent
// straight to ReplyTo.
func (p *Ponger) onPing(ping *Ping) {
	p.Received++
	if p.dropRate > 0 && rand.Float64() < p.dropRate {
		return
	}
	actor.Send(&p.Base, ping.ReplyTo, Pong{Seq: ping.Seq})
}

// onRequest answers a correlated ping sent through supervisor.Send,
// replying with a Response[Pong] rather than a bare Pong. Dropping the
// reply here is what lets the request-timeout and spawner scenarios force
// the requester's correlator timer to fire.
func (p *Ponger) onRequest(req *supervisor.Request[Ping]) {
	p.Received++
	if p.dropRate > 0 && rand.Float64() < p.dropRate {
		return
	}
	supervisor.Reply[Ping, Pong](&p.Base, *req, Pong{Seq: req.Payload.Seq})
}
