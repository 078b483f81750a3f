// Package registry implements the name-to-address discovery actor:
// register/deregister, fail-fast discovery, and promise/future discovery
// for callers that must wait for a name to appear instead of racing it.
package registry

import (
	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/actor/plugin"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/proto"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/subscription"
)

// Actor is the registry actor's state: every known name/address binding
// and any outstanding discovery promises.
type Actor struct {
	actor.Base

	pipeline *plugin.Pipeline

	names     map[string]*address.Address
	addrNames map[*address.Address]map[string]struct{}
	promises  map[string][]*address.Address
}

// New constructs a registry actor hosted by sup. Pass the returned
// *actor.Base to Supervisor.Spawn.
func New(sup actor.Supervisor) *actor.Base {
	r := &Actor{
		names:     make(map[string]*address.Address),
		addrNames: make(map[*address.Address]map[string]struct{}),
		promises:  make(map[string][]*address.Address),
	}
	r.pipeline = plugin.NewPipeline()
	r.Base = *actor.NewBase("registry", sup, actor.Config{}, r.pipeline.Plugins()...)
	r.SetOnActivated(r.subscribeHandlers)
	return &r.Base
}

func (r *Actor) subscribeHandlers() {
	lf := r.pipeline.Lifetime
	addr := r.Address()

	lf.Subscribe(addr, message.NewHandler[proto.RegisterName](addr, message.KindActor, r.onRegisterName), subscription.Plugin)
	lf.Subscribe(addr, message.NewHandler[proto.Deregister](addr, message.KindActor, r.onDeregister), subscription.Plugin)
	lf.Subscribe(addr, message.NewHandler[proto.DiscoveryRequest](addr, message.KindActor, r.onDiscoveryRequest), subscription.Plugin)
	lf.Subscribe(addr, message.NewHandler[proto.DiscoveryPromise](addr, message.KindActor, r.onDiscoveryPromise), subscription.Plugin)
	lf.Subscribe(addr, message.NewHandler[proto.CancelDiscovery](addr, message.KindActor, r.onCancelDiscovery), subscription.Plugin)
}

func (r *Actor) onRegisterName(req *proto.RegisterName) {
	if _, exists := r.names[req.Name]; exists {
		actor.Send(&r.Base, req.Addr, proto.RegisterNameResponse{
			Name: req.Name,
			Err:  rerror.New("name already registered: "+req.Name, rerror.AlreadyRegistered, nil, nil),
		})
		return
	}
	r.names[req.Name] = req.Addr
	if r.addrNames[req.Addr] == nil {
		r.addrNames[req.Addr] = make(map[string]struct{})
	}
	r.addrNames[req.Addr][req.Name] = struct{}{}

	actor.Send(&r.Base, req.Addr, proto.RegisterNameResponse{Name: req.Name})

	for _, waiter := range r.promises[req.Name] {
		actor.Send(&r.Base, waiter, proto.DiscoveryFuture{Name: req.Name, Addr: req.Addr})
	}
	delete(r.promises, req.Name)
}

func (r *Actor) onDeregister(req *proto.Deregister) {
	if req.Name != "" {
		r.removeName(req.Name)
		return
	}
	for name := range r.addrNames[req.Addr] {
		r.removeName(name)
	}
	delete(r.addrNames, req.Addr)
}

func (r *Actor) removeName(name string) {
	addr, ok := r.names[name]
	if !ok {
		return
	}
	delete(r.names, name)
	if names := r.addrNames[addr]; names != nil {
		delete(names, name)
	}
}

func (r *Actor) onDiscoveryRequest(req *proto.DiscoveryRequest) {
	addr, ok := r.names[req.Name]
	if !ok {
		actor.Send(&r.Base, req.ReplyTo, proto.DiscoveryResponse{
			Name: req.Name,
			Err:  rerror.New("unknown service: "+req.Name, rerror.UnknownService, nil, nil),
		})
		return
	}
	actor.Send(&r.Base, req.ReplyTo, proto.DiscoveryResponse{Name: req.Name, Addr: addr})
}

func (r *Actor) onDiscoveryPromise(req *proto.DiscoveryPromise) {
	if addr, ok := r.names[req.Name]; ok {
		actor.Send(&r.Base, req.ReplyTo, proto.DiscoveryFuture{Name: req.Name, Addr: addr})
		return
	}
	r.promises[req.Name] = append(r.promises[req.Name], req.ReplyTo)
}

func (r *Actor) onCancelDiscovery(req *proto.CancelDiscovery) {
	waiters := r.promises[req.Name]
	for i, w := range waiters {
		if w == req.ReplyTo {
			r.promises[req.Name] = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}
}
