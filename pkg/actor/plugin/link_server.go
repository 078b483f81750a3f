package plugin

import (
	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/proto"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/subscription"
)

// LinkServer accepts incoming link requests, tracks linked clients, and
// notifies them when this actor begins shutting down.
type LinkServer struct {
	actor    *actor.Base
	lifetime *Lifetime

	clients map[*address.Address]struct{}
}

// NewLinkServer constructs a link-server plugin.
func NewLinkServer(lifetime *Lifetime) *LinkServer {
	return &LinkServer{lifetime: lifetime, clients: make(map[*address.Address]struct{})}
}

func (p *LinkServer) Identity() string          { return "link_server" }
func (p *LinkServer) Reactions() actor.Reaction { return actor.ReactionShutdown }

func (p *LinkServer) Activate(a *actor.Base) {
	p.actor = a
	h := message.NewHandler[proto.LinkRequest](a.Address(), message.KindPlugin, p.onLinkRequest)
	p.lifetime.Subscribe(a.Address(), h, subscription.Plugin)
}

func (p *LinkServer) onLinkRequest(req *proto.LinkRequest) {
	if p.actor.State() >= actor.StateShuttingDown {
		actor.Send(p.actor, req.ClientAddr, proto.LinkResponse{
			ServerAddr: p.actor.Address(),
			Err:        rerror.New("link refused", rerror.ActorNotLinkable, nil, nil),
		})
		return
	}
	p.clients[req.ClientAddr] = struct{}{}
	actor.Send(p.actor, req.ClientAddr, proto.LinkResponse{ServerAddr: p.actor.Address()})
}

func (p *LinkServer) Deactivate() {}

func (p *LinkServer) HandleInit() bool { return true }

// HandleShutdown notifies every linked client that this server is going
// down, carrying the shutdown reason so clients can propagate the failure.
func (p *LinkServer) HandleShutdown() bool {
	reason := p.actor.ShutdownReason()
	for client := range p.clients {
		actor.Send(p.actor, client, proto.UnlinkNotify{ServerAddr: p.actor.Address(), Reason: reason})
	}
	p.clients = make(map[*address.Address]struct{})
	return true
}
