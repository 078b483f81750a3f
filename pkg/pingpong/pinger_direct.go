package pingpong

import (
	"fmt"

	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/actor/plugin"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/subscription"
	"github.com/cuemby/hive/pkg/supervisor"
)

// DirectPinger sends Total pings straight at a known ponger address (no
// discovery, no correlator), one round-trip at a time, and asks its
// supervisor to shut down once the last pong lands.
type DirectPinger struct {
	actor.Base
	pipeline *plugin.Pipeline

	sup    *supervisor.Supervisor
	ponger *address.Address
	Total  int

	pingsLeft int
	seq       int
}

// NewDirectPinger returns a factory constructing a pinger that exchanges
// total pings with ponger before triggering a normal supervisor shutdown.
func NewDirectPinger(ponger *address.Address, total int) func(sup *supervisor.Supervisor) *actor.Base {
	return func(sup *supervisor.Supervisor) *actor.Base {
		p := &DirectPinger{sup: sup, ponger: ponger, Total: total, pingsLeft: total}
		p.pipeline = plugin.NewPipeline()
		p.Base = *actor.NewBase("pinger", sup, actor.Config{}, p.pipeline.Plugins()...)
		p.SetOnActivated(p.onActivated)
		p.SetOnStart(p.sendNext)
		return &p.Base
	}
}

func (p *DirectPinger) onActivated() {
	h := message.NewHandler[Pong](p.Address(), message.KindActor, p.onPong)
	p.pipeline.Lifetime.Subscribe(p.Address(), h, subscription.Plugin)
}

func (p *DirectPinger) sendNext() {
	if p.pingsLeft == 0 {
		return
	}
	p.seq++
	actor.Send(&p.Base, p.ponger, Ping{Seq: p.seq, ReplyTo: p.Address()})
}

func (p *DirectPinger) onPong(pong *Pong) {
	p.pingsLeft--
	if p.pingsLeft == 0 {
		reason := fmt.Sprintf("pinger done, pings_left=%d", p.pingsLeft)
		p.sup.BeginShutdown(rerror.New(reason, rerror.NormalShutdown, nil, nil), nil)
		return
	}
	p.sendNext()
}

// PingsLeft reports the number of outstanding round-trips, zero once the
// scenario has fully completed.
func (p *DirectPinger) PingsLeft() int { return p.pingsLeft }
