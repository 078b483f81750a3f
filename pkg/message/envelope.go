package message

import (
	"sync/atomic"

	"github.com/cuemby/hive/pkg/address"
)

// Republisher re-publishes a message to a forward address once the last
// holder of that message has released it: the "routed message" /
// post-delivery-cleanup pattern, where a producer stamps NextRoute on a
// batch message and is notified only once every recipient has finished
// with it. The Republisher is whatever the caller passes to NewRouted;
// Supervisor does not implement this interface.
type Republisher interface {
	Republish(env *Envelope, to *address.Address)
}

// Envelope is the wire representation of a message: a destination address,
// an interned payload type id, the payload itself, and an optional
// "next route" used by the routed-message pattern.
//
// Lifetime is reference counted: the queue holds one ref, and every handler
// that is mid-invocation holds a ref for the duration of that call. When the
// last ref is released, if NextRoute is set the envelope is handed back to
// the Republisher together with NextRoute; Destination is left unchanged.
type Envelope struct {
	TypeID      TypeID
	Destination *address.Address
	NextRoute   *address.Address
	Payload     any

	refs int32
	repub Republisher
}

// New constructs an envelope addressed to dest carrying payload, with a
// single implicit ref (the caller's).
func New[T any](dest *address.Address, payload T) *Envelope {
	return &Envelope{
		TypeID:      TypeIDOf[T](),
		Destination: dest,
		Payload:     payload,
		refs:        1,
	}
}

// NewRouted is New plus a next-route stamp: once the last holder releases
// the envelope, repub.Republish is invoked with the envelope and nextRoute.
func NewRouted[T any](dest, nextRoute *address.Address, repub Republisher, payload T) *Envelope {
	e := New[T](dest, payload)
	e.NextRoute = nextRoute
	e.repub = repub
	return e
}

// Retain takes an additional reference, e.g. for the duration of one
// handler invocation.
func (e *Envelope) Retain() {
	atomic.AddInt32(&e.refs, 1)
}

// Release drops a reference. The last Release triggers the routed-message
// republish, if one was stamped.
func (e *Envelope) Release() {
	if atomic.AddInt32(&e.refs, -1) == 0 && e.NextRoute != nil && e.repub != nil {
		e.repub.Republish(e, e.NextRoute)
	}
}

// Payload type-asserts env's payload as T.
func Payload[T any](env *Envelope) (T, bool) {
	v, ok := env.Payload.(T)
	return v, ok
}
