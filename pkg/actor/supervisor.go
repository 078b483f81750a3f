package actor

import (
	"time"

	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/backend"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/subscription"
	"github.com/rs/zerolog"
)

// Supervisor is the subset of supervisor.Supervisor that an actor base and
// its plugins need. Defined here (rather than imported from the supervisor
// package) to invert the dependency: package supervisor imports package
// actor (every supervisor embeds a Base), so actor cannot import supervisor
// back.
type Supervisor interface {
	address.Owner

	// Address returns the supervisor's own main address, used by a child
	// actor to reach it directly (failure escalation, autoshutdown).
	Address() *address.Address

	// MakeAddress allocates a fresh address owned by this supervisor.
	MakeAddress() *address.Address

	// Table returns this supervisor's subscription table.
	Table() *subscription.Table

	// Enqueue appends env to this supervisor's in-flight queue for
	// same-locality dispatch.
	Enqueue(env *message.Envelope)

	// StartTimer and CancelTimer delegate to the backend driving this
	// supervisor's locality.
	StartTimer(d time.Duration, fn backend.TimerFiredFunc) backend.TimerID
	CancelTimer(id backend.TimerID)

	// NextRequestID allocates the next monotonic request id for this
	// supervisor.
	NextRequestID() uint64

	// RegisterChild records a, and ChildStateChanged is invoked whenever
	// a's lifecycle state changes so the supervisor can track init/
	// shutdown completion across all its children.
	RegisterChild(a *Base)
	ChildStateChanged(a *Base, state State)

	// Log returns the logger this actor should derive its own logger
	// from.
	Log() zerolog.Logger

	// RegistryAddress returns the well-known registry actor's address,
	// if one is configured for this supervisor (nil otherwise).
	RegistryAddress() *address.Address
}
