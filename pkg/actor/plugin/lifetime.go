package plugin

import (
	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/subscription"
)

// Lifetime owns the actor's subscription set. Other plugins subscribe
// through it rather than calling actor.Base.Subscribe directly, so shutdown
// can unwind every subscription the actor ever made without each plugin
// tracking its own.
type Lifetime struct {
	actor  *actor.Base
	points []*subscription.Info
}

// NewLifetime constructs a lifetime plugin.
func NewLifetime() *Lifetime { return &Lifetime{} }

func (p *Lifetime) Identity() string          { return "lifetime" }
func (p *Lifetime) Reactions() actor.Reaction { return actor.ReactionShutdown }

func (p *Lifetime) Activate(a *actor.Base) { p.actor = a }

// Subscribe materialises addr/handler and records it for teardown.
func (p *Lifetime) Subscribe(addr *address.Address, h message.Handler, ownerTag subscription.OwnerTag) *subscription.Info {
	info := p.actor.Subscribe(addr, h, ownerTag)
	p.points = append(p.points, info)
	return info
}

// Unsubscribe tears down one subscription ahead of shutdown.
func (p *Lifetime) Unsubscribe(info *subscription.Info) {
	for i, pt := range p.points {
		if pt == info {
			p.points = append(p.points[:i], p.points[i+1:]...)
			break
		}
	}
	p.actor.Unsubscribe(info)
}

func (p *Lifetime) Deactivate() {}

func (p *Lifetime) HandleInit() bool { return true }

// HandleShutdown unsubscribes every remaining subscription point.
// Subscription.Forget is synchronous in this runtime, so the set is empty
// when this returns and the plugin never holds shutdown back.
func (p *Lifetime) HandleShutdown() bool {
	for _, info := range p.points {
		p.actor.Unsubscribe(info)
	}
	p.points = nil
	return true
}
