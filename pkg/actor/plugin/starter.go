package plugin

import (
	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/proto"
	"github.com/cuemby/hive/pkg/subscription"
)

// Starter is the final plugin in the pipeline: it subscribes the start
// trigger and moves the actor to OPERATIONAL on arrival. It never gates
// init or shutdown; by the time the supervisor sends the start trigger,
// every other plugin has already cleared its init reaction.
type Starter struct {
	actor    *actor.Base
	lifetime *Lifetime
}

// NewStarter constructs a starter plugin.
func NewStarter(lifetime *Lifetime) *Starter {
	return &Starter{lifetime: lifetime}
}

func (p *Starter) Identity() string          { return "starter" }
func (p *Starter) Reactions() actor.Reaction { return 0 }

func (p *Starter) Activate(a *actor.Base) {
	p.actor = a
	h := message.NewHandler[proto.StartTrigger](a.Address(), message.KindPlugin, p.onStart)
	p.lifetime.Subscribe(a.Address(), h, subscription.Plugin)
}

func (p *Starter) onStart(*proto.StartTrigger) {
	p.actor.MarkOperational()
}

func (p *Starter) Deactivate()          {}
func (p *Starter) HandleInit() bool     { return true }
func (p *Starter) HandleShutdown() bool { return true }
