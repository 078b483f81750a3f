package plugin

import "github.com/cuemby/hive/pkg/actor"

// Resources tracks counted tokens representing arbitrary user-acquired
// resources (open files, in-flight sub-requests, ...). Init and shutdown
// both block while the count is above zero.
type Resources struct {
	actor *actor.Base
	count int
}

// NewResources constructs a resources plugin.
func NewResources() *Resources { return &Resources{} }

func (p *Resources) Identity() string          { return "resources" }
func (p *Resources) Reactions() actor.Reaction { return actor.ReactionInit | actor.ReactionShutdown }

func (p *Resources) Activate(a *actor.Base) { p.actor = a }

// Acquire increments the outstanding resource count.
func (p *Resources) Acquire() { p.count++ }

// Release decrements the outstanding resource count, resuming init or
// shutdown polling if it was blocked on this plugin.
func (p *Resources) Release() {
	if p.count == 0 {
		return
	}
	p.count--
	if p.count == 0 {
		switch p.actor.State() {
		case actor.StateInitializing:
			p.actor.InitContinue()
		case actor.StateShuttingDown:
			p.actor.ShutdownContinue()
		}
	}
}

func (p *Resources) Deactivate() {}

func (p *Resources) HandleInit() bool     { return p.count == 0 }
func (p *Resources) HandleShutdown() bool { return p.count == 0 }
