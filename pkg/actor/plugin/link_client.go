package plugin

import (
	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/proto"
	"github.com/cuemby/hive/pkg/subscription"
)

// LinkClient issues link requests to servers and, by default, shuts itself
// down when a linked server unlinks. Init blocks until every link requested
// before the plugin's first HandleInit poll has either succeeded or failed.
type LinkClient struct {
	actor    *actor.Base
	lifetime *Lifetime

	pending map[*address.Address]struct{}
	linked  map[*address.Address]struct{}

	// OnUnlink overrides the default unlink reaction (self-shutdown). Tests
	// and advanced actors may set this to react differently.
	OnUnlink func(server *address.Address, reason error)
}

// NewLinkClient constructs a link-client plugin.
func NewLinkClient(lifetime *Lifetime) *LinkClient {
	return &LinkClient{
		lifetime: lifetime,
		pending:  make(map[*address.Address]struct{}),
		linked:   make(map[*address.Address]struct{}),
	}
}

func (p *LinkClient) Identity() string          { return "link_client" }
func (p *LinkClient) Reactions() actor.Reaction { return actor.ReactionInit }

func (p *LinkClient) Activate(a *actor.Base) {
	p.actor = a
	respHandler := message.NewHandler[proto.LinkResponse](a.Address(), message.KindPlugin, p.onLinkResponse)
	p.lifetime.Subscribe(a.Address(), respHandler, subscription.Plugin)

	unlinkHandler := message.NewHandler[proto.UnlinkNotify](a.Address(), message.KindPlugin, p.onUnlinkNotify)
	p.lifetime.Subscribe(a.Address(), unlinkHandler, subscription.Plugin)
}

// LinkTo requests a link to server, blocking init until the response
// arrives.
func (p *LinkClient) LinkTo(server *address.Address) {
	p.pending[server] = struct{}{}
	actor.Send(p.actor, server, proto.LinkRequest{ClientAddr: p.actor.Address(), ServerAddr: server})
}

func (p *LinkClient) onLinkResponse(resp *proto.LinkResponse) {
	delete(p.pending, resp.ServerAddr)
	if resp.Err == nil {
		p.linked[resp.ServerAddr] = struct{}{}
	}
	if len(p.pending) == 0 {
		p.actor.InitContinue()
	}
}

func (p *LinkClient) onUnlinkNotify(notify *proto.UnlinkNotify) {
	delete(p.linked, notify.ServerAddr)
	if p.OnUnlink != nil {
		p.OnUnlink(notify.ServerAddr, notify.Reason)
		return
	}
	if p.actor.State() < actor.StateShuttingDown {
		p.actor.BeginShutdown(notify.Reason, nil)
	}
}

func (p *LinkClient) Deactivate() {}

// HandleInit reports ready once every requested link has resolved.
func (p *LinkClient) HandleInit() bool { return len(p.pending) == 0 }

func (p *LinkClient) HandleShutdown() bool { return true }
