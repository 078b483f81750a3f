package plugin

import "github.com/cuemby/hive/pkg/actor"

// Pipeline bundles the eight stock plugins for one actor, in activation
// order, and exposes the ones user code commonly drives directly (link,
// registry, resources) after construction.
type Pipeline struct {
	AddressMaker *AddressMaker
	Lifetime     *Lifetime
	InitShutdown *InitShutdown
	LinkServer   *LinkServer
	LinkClient   *LinkClient
	Registry     *Registry
	Resources    *Resources
	Starter      *Starter
}

// NewPipeline builds the default eight-plugin pipeline.
func NewPipeline() *Pipeline {
	lifetime := NewLifetime()
	return &Pipeline{
		AddressMaker: NewAddressMaker(),
		Lifetime:     lifetime,
		InitShutdown: NewInitShutdown(lifetime),
		LinkServer:   NewLinkServer(lifetime),
		LinkClient:   NewLinkClient(lifetime),
		Registry:     NewRegistry(lifetime),
		Resources:    NewResources(),
		Starter:      NewStarter(lifetime),
	}
}

// Plugins returns the pipeline in activation order, ready to pass to
// actor.NewBase.
func (p *Pipeline) Plugins() []actor.Plugin {
	return []actor.Plugin{
		p.AddressMaker,
		p.Lifetime,
		p.InitShutdown,
		p.LinkServer,
		p.LinkClient,
		p.Registry,
		p.Resources,
		p.Starter,
	}
}
