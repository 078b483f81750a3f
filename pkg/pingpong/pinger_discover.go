package pingpong

import (
	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/actor/plugin"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/proto"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/subscription"
	"github.com/cuemby/hive/pkg/supervisor"
)

// addressable is satisfied by any supervisor reachable from an address's
// Owner(); used to notify a ponger's own supervisor once a cross-locality
// scenario is done, without DiscoverPinger depending on package supervisor
// for anything beyond the one it itself runs on.
type addressable interface {
	Address() *address.Address
}

// DiscoverPinger resolves a ponger by name through its supervisor's
// registry and links to it before exchanging any pings. With total 0,
// discovery is fail-fast: if the name is not yet registered when the
// request runs, the pinger shuts down having never linked; the
// registration/discovery race scenario is legal either way. With a
// positive total, discovery waits for the name to be registered.
type DiscoverPinger struct {
	actor.Base
	pipeline *plugin.Pipeline

	sup        *supervisor.Supervisor
	pongerName string
	total      int

	pongerAddr *address.Address
	Linked     bool

	pingsLeft int
	seq       int
}

// NewDiscoverPinger returns a factory constructing a pinger that discovers
// pongerName, links to it, and exchanges total pings before shutting its
// supervisor down. total may be 0 to only exercise the discover+link race;
// a positive total additionally drives a full ping/pong round-trip count
// once linked, including across a supervisor boundary.
func NewDiscoverPinger(pongerName string, total int) func(sup *supervisor.Supervisor) *actor.Base {
	return func(sup *supervisor.Supervisor) *actor.Base {
		p := &DiscoverPinger{sup: sup, pongerName: pongerName, total: total, pingsLeft: total}
		p.pipeline = plugin.NewPipeline()
		p.Base = *actor.NewBase("pinger", sup, actor.Config{}, p.pipeline.Plugins()...)
		p.SetOnActivated(p.onActivated)
		p.SetOnStart(p.onStart)
		return &p.Base
	}
}

func (p *DiscoverPinger) onActivated() {
	h := message.NewHandler[Pong](p.Address(), message.KindActor, p.onPong)
	p.pipeline.Lifetime.Subscribe(p.Address(), h, subscription.Plugin)
	// The race scenario (total == 0) wants fail-fast discovery so losing the
	// race is observable; the cross-locality round-trip scenario (total > 0)
	// must actually complete, so it waits for the name via the promise/
	// future path instead of racing it.
	p.pipeline.Registry.Discover(p.pongerName, p.total > 0, p.onDiscovered)
}

func (p *DiscoverPinger) onDiscovered(addr *address.Address) {
	p.pongerAddr = addr
	p.pipeline.LinkClient.LinkTo(addr)
}

func (p *DiscoverPinger) onStart() {
	p.Linked = p.pongerAddr != nil
	if !p.Linked || p.pingsLeft == 0 {
		p.sup.BeginShutdown(rerror.New("discovery scenario complete", rerror.NormalShutdown, nil, nil), nil)
		return
	}
	p.sendNext()
}

func (p *DiscoverPinger) sendNext() {
	p.seq++
	actor.Send(&p.Base, p.pongerAddr, Ping{Seq: p.seq, ReplyTo: p.Address()})
}

func (p *DiscoverPinger) onPong(*Pong) {
	p.pingsLeft--
	if p.pingsLeft == 0 {
		p.notifyPongerSupervisor()
		p.sup.BeginShutdown(rerror.New("pinger done", rerror.NormalShutdown, nil, nil), nil)
		return
	}
	p.sendNext()
}

// notifyPongerSupervisor asks the supervisor hosting the discovered ponger
// to shut down too, for the cross-supervisor scenario where pinger and
// ponger live on independent locality threads.
func (p *DiscoverPinger) notifyPongerSupervisor() {
	if p.pongerAddr == nil {
		return
	}
	if owner, ok := p.pongerAddr.Owner().(addressable); ok && owner.Address() != p.sup.Address() {
		actor.Send(&p.Base, owner.Address(), proto.ShutdownTrigger{})
	}
}

// PingsLeft reports the number of outstanding round-trips.
func (p *DiscoverPinger) PingsLeft() int { return p.pingsLeft }
