// Package plugin implements the eight stock lifecycle plugins every actor
// activates, in order: address-maker, lifetime, init-shutdown, link-server,
// link-client, registry, resources, starter.
package plugin

import "github.com/cuemby/hive/pkg/actor"

// AddressMaker allocates the actor's main address. It runs entirely during
// Activate and never gates init or shutdown.
type AddressMaker struct{}

// NewAddressMaker constructs an address-maker plugin.
func NewAddressMaker() *AddressMaker { return &AddressMaker{} }

func (p *AddressMaker) Identity() string          { return "address_maker" }
func (p *AddressMaker) Reactions() actor.Reaction { return 0 }

func (p *AddressMaker) Activate(a *actor.Base) {
	a.SetMainAddress(a.Supervisor().MakeAddress())
}

func (p *AddressMaker) Deactivate()          {}
func (p *AddressMaker) HandleInit() bool     { return true }
func (p *AddressMaker) HandleShutdown() bool { return true }
