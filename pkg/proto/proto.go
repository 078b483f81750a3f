// Package proto holds the fixed control-plane message payloads that drive
// the actor lifecycle, link protocol, and registry: init/shutdown
// negotiation, linking, and name discovery. These are ordinary message
// payloads dispatched through the same envelope/handler path as any
// user-defined message type.
package proto

import (
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/rerror"
)

// InitRequest is sent by a supervisor to a child it is bringing up.
type InitRequest struct {
	ReplyTo *address.Address
}

// InitResponse carries the outcome of an init attempt. Err is nil on
// success.
type InitResponse struct {
	Actor *address.Address
	Err   *rerror.Error
}

// ShutdownRequest asks an actor to begin shutting down. Reason is nil for a
// voluntary shutdown.
type ShutdownRequest struct {
	ReplyTo *address.Address
	Reason  *rerror.Error
}

// ShutdownResponse carries the outcome of a shutdown.
type ShutdownResponse struct {
	Actor *address.Address
	Err   *rerror.Error
}

// StartTrigger is sent by a supervisor once every child has confirmed init;
// the starter plugin's arrival handler moves the actor to OPERATIONAL.
type StartTrigger struct{}

// ShutdownTrigger asks a supervisor to shut itself down; its children are
// not sent shutdown requests.
// Used for failure escalation (ESCALATE_FAILURE) and AUTOSHUTDOWN_SUPERVISOR.
type ShutdownTrigger struct {
	Reason *rerror.Error
}

// LinkRequest is sent by a link client to a link server.
type LinkRequest struct {
	ClientAddr *address.Address
	ServerAddr *address.Address
}

// LinkResponse answers a LinkRequest. Err is set when the server refuses
// the link because it is already shutting down.
type LinkResponse struct {
	ServerAddr *address.Address
	Err        *rerror.Error
}

// UnlinkNotify is sent by a server to every linked client when the server
// begins shutting down.
type UnlinkNotify struct {
	ServerAddr *address.Address
	Reason     *rerror.Error
}

// UnlinkRequest is a client-initiated unlink.
type UnlinkRequest struct {
	ClientAddr *address.Address
	ServerAddr *address.Address
}

// UnlinkResponse answers an UnlinkRequest.
type UnlinkResponse struct {
	ServerAddr *address.Address
}

// RegisterName asks the registry to bind name to addr.
type RegisterName struct {
	Name string
	Addr *address.Address
}

// RegisterNameResponse answers RegisterName. Err is AlreadyRegistered if
// name was already bound.
type RegisterNameResponse struct {
	Name string
	Err  *rerror.Error
}

// Deregister removes a single name, or (when Name is empty) every name
// bound to Addr.
type Deregister struct {
	Name string
	Addr *address.Address
}

// DiscoveryRequest asks the registry for the address currently bound to
// Name.
type DiscoveryRequest struct {
	Name    string
	ReplyTo *address.Address
}

// DiscoveryResponse answers DiscoveryRequest. Err is UnknownService if
// nothing is bound to Name.
type DiscoveryResponse struct {
	Name string
	Addr *address.Address
	Err  *rerror.Error
}

// DiscoveryPromise asks the registry to deliver a DiscoveryFuture to
// ReplyTo as soon as Name becomes registered, instead of failing fast.
type DiscoveryPromise struct {
	Name    string
	ReplyTo *address.Address
}

// DiscoveryFuture fulfils a DiscoveryPromise once Name is registered.
type DiscoveryFuture struct {
	Name string
	Addr *address.Address
}

// CancelDiscovery withdraws a previously issued DiscoveryPromise.
type CancelDiscovery struct {
	Name    string
	ReplyTo *address.Address
}
