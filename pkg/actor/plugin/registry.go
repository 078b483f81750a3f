package plugin

import (
	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/proto"
	"github.com/cuemby/hive/pkg/subscription"
)

// Registry registers this actor's own name(s) with the supervisor's
// configured registry actor and/or resolves other actors' names, with
// "discover then link" composition via Discover's onFound callback.
type Registry struct {
	actor    *actor.Base
	lifetime *Lifetime

	pendingRegister int
	pendingDiscover int

	onFound map[string][]func(*address.Address)
}

// NewRegistry constructs a registry plugin.
func NewRegistry(lifetime *Lifetime) *Registry {
	return &Registry{lifetime: lifetime, onFound: make(map[string][]func(*address.Address))}
}

func (p *Registry) Identity() string          { return "registry" }
func (p *Registry) Reactions() actor.Reaction { return actor.ReactionInit }

func (p *Registry) Activate(a *actor.Base) {
	p.actor = a
	regHandler := message.NewHandler[proto.RegisterNameResponse](a.Address(), message.KindPlugin, p.onRegisterResponse)
	p.lifetime.Subscribe(a.Address(), regHandler, subscription.Plugin)

	discHandler := message.NewHandler[proto.DiscoveryResponse](a.Address(), message.KindPlugin, p.onDiscoveryResponse)
	p.lifetime.Subscribe(a.Address(), discHandler, subscription.Plugin)

	futureHandler := message.NewHandler[proto.DiscoveryFuture](a.Address(), message.KindPlugin, p.onDiscoveryFuture)
	p.lifetime.Subscribe(a.Address(), futureHandler, subscription.Plugin)
}

// Register binds name to this actor's address in the supervisor's
// registry, blocking init until the registry confirms.
func (p *Registry) Register(name string) {
	reg := p.actor.Supervisor().RegistryAddress()
	if reg == nil {
		return
	}
	p.pendingRegister++
	actor.Send(p.actor, reg, proto.RegisterName{Name: name, Addr: p.actor.Address()})
}

// Discover resolves name to an address, invoking onFound once resolved.
// waitForRegistration uses the promise/future path (waits indefinitely for
// the name to appear) instead of failing fast with unknown_service.
func (p *Registry) Discover(name string, waitForRegistration bool, onFound func(*address.Address)) {
	reg := p.actor.Supervisor().RegistryAddress()
	if reg == nil {
		return
	}
	p.pendingDiscover++
	p.onFound[name] = append(p.onFound[name], onFound)
	if waitForRegistration {
		actor.Send(p.actor, reg, proto.DiscoveryPromise{Name: name, ReplyTo: p.actor.Address()})
		return
	}
	actor.Send(p.actor, reg, proto.DiscoveryRequest{Name: name, ReplyTo: p.actor.Address()})
}

func (p *Registry) onRegisterResponse(resp *proto.RegisterNameResponse) {
	p.pendingRegister--
	if p.pendingRegister <= 0 {
		p.pendingRegister = 0
		p.actor.InitContinue()
	}
}

func (p *Registry) onDiscoveryResponse(resp *proto.DiscoveryResponse) {
	p.pendingDiscover--
	if p.pendingDiscover <= 0 {
		p.pendingDiscover = 0
	}
	if resp.Err == nil {
		p.fulfil(resp.Name, resp.Addr)
	}
	p.actor.InitContinue()
}

func (p *Registry) onDiscoveryFuture(future *proto.DiscoveryFuture) {
	p.pendingDiscover--
	if p.pendingDiscover <= 0 {
		p.pendingDiscover = 0
	}
	p.fulfil(future.Name, future.Addr)
	p.actor.InitContinue()
}

func (p *Registry) fulfil(name string, addr *address.Address) {
	for _, fn := range p.onFound[name] {
		fn(addr)
	}
	delete(p.onFound, name)
}

func (p *Registry) Deactivate() {}

// HandleInit reports ready once every registration and discovery call this
// plugin issued has resolved.
func (p *Registry) HandleInit() bool {
	return p.pendingRegister == 0 && p.pendingDiscover == 0
}

func (p *Registry) HandleShutdown() bool { return true }
