package plugin

import (
	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/proto"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/subscription"
)

// InitShutdown subscribes the actor's init_request/shutdown_request
// handlers and drives the corresponding state transitions. It does not
// gate init or shutdown itself; it is the entry point that starts them.
type InitShutdown struct {
	actor    *actor.Base
	lifetime *Lifetime

	initReplyTo     *address.Address
	shutdownReplyTo *address.Address
}

// NewInitShutdown constructs an init-shutdown plugin. lifetime is the
// actor's lifetime plugin, used so these subscriptions are torn down with
// every other one.
func NewInitShutdown(lifetime *Lifetime) *InitShutdown {
	return &InitShutdown{lifetime: lifetime}
}

func (p *InitShutdown) Identity() string          { return "init_shutdown" }
func (p *InitShutdown) Reactions() actor.Reaction { return 0 }

func (p *InitShutdown) Activate(a *actor.Base) {
	p.actor = a
	initHandler := message.NewHandler[proto.InitRequest](a.Address(), message.KindPlugin, p.onInitRequest)
	p.lifetime.Subscribe(a.Address(), initHandler, subscription.Plugin)

	shutdownHandler := message.NewHandler[proto.ShutdownRequest](a.Address(), message.KindPlugin, p.onShutdownRequest)
	p.lifetime.Subscribe(a.Address(), shutdownHandler, subscription.Plugin)
}

func (p *InitShutdown) onInitRequest(req *proto.InitRequest) {
	p.initReplyTo = req.ReplyTo
	p.actor.BeginInit(p.onInitDone)
}

func (p *InitShutdown) onInitDone(err *rerror.Error) {
	if p.initReplyTo == nil {
		return
	}
	reply := p.initReplyTo
	p.initReplyTo = nil
	actor.Send(p.actor, reply, proto.InitResponse{Actor: p.actor.Address(), Err: err})
}

func (p *InitShutdown) onShutdownRequest(req *proto.ShutdownRequest) {
	p.shutdownReplyTo = req.ReplyTo
	p.actor.BeginShutdown(req.Reason, p.onShutdownDone)
}

func (p *InitShutdown) onShutdownDone(err *rerror.Error) {
	if p.shutdownReplyTo == nil {
		return
	}
	reply := p.shutdownReplyTo
	p.shutdownReplyTo = nil
	actor.Send(p.actor, reply, proto.ShutdownResponse{Actor: p.actor.Address(), Err: err})
}

func (p *InitShutdown) Deactivate()          {}
func (p *InitShutdown) HandleInit() bool     { return true }
func (p *InitShutdown) HandleShutdown() bool { return true }
