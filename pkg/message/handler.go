package message

import "github.com/cuemby/hive/pkg/address"

// Kind records who owns a handler: an actor method, a plugin method, or a
// bare closure (a "lambda" handler). Behaviorally identical in Go, since
// all three reduce to a bound closure; Kind exists purely for
// debugging/stringification.
type Kind int

const (
	KindActor Kind = iota
	KindPlugin
	KindLambda
)

func (k Kind) String() string {
	switch k {
	case KindActor:
		return "actor"
	case KindPlugin:
		return "plugin"
	case KindLambda:
		return "lambda"
	default:
		return "unknown"
	}
}

// IOTag marks a handler as potentially blocking; backends may choose to run
// IO-tagged handlers off the loop thread or otherwise special-case them.
const IOTag = "io"

// Handler binds one (actor, message type) pair to an invocation closure.
// Two handlers compare equal iff both their actor address and message type
// match; this is the identity subscription tables key on.
type Handler interface {
	ActorAddress() *address.Address
	TypeID() TypeID
	Kind() Kind
	Invoke(env *Envelope)
	Hash() uint64
	Equal(other Handler) bool
	HasTag(name string) bool
}

type typedHandler[T any] struct {
	actorAddr *address.Address
	kind      Kind
	fn        func(*T)
	typeID    TypeID
}

// NewHandler constructs a Handler dispatching to fn whenever a message of
// type T arrives addressed to actorAddr.
func NewHandler[T any](actorAddr *address.Address, kind Kind, fn func(*T)) Handler {
	return &typedHandler[T]{actorAddr: actorAddr, kind: kind, fn: fn, typeID: TypeIDOf[T]()}
}

func (h *typedHandler[T]) ActorAddress() *address.Address { return h.actorAddr }
func (h *typedHandler[T]) TypeID() TypeID                 { return h.typeID }
func (h *typedHandler[T]) Kind() Kind                      { return h.kind }
func (h *typedHandler[T]) HasTag(string) bool              { return false }

func (h *typedHandler[T]) Invoke(env *Envelope) {
	switch p := env.Payload.(type) {
	case *T:
		h.fn(p)
	case T:
		h.fn(&p)
	}
}

// Hash combines the actor address id and message type id so handlers can
// be bucketed without a full Equal comparison.
func (h *typedHandler[T]) Hash() uint64 {
	return h.actorAddr.ID() ^ (uint64(h.typeID) << 1)
}

func (h *typedHandler[T]) Equal(other Handler) bool {
	o, ok := Unwrap(other).(*typedHandler[T])
	if !ok {
		return false
	}
	return o.actorAddr == h.actorAddr && o.typeID == h.typeID
}
