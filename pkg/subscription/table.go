// Package subscription implements the per-supervisor routing table: the
// (address, message-type) -> ordered handler list index that the supervisor
// dispatch loop consults for every message it processes.
package subscription

import (
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/message"
)

// OwnerTag records who created a subscription point.
type OwnerTag int

const (
	Anonymous OwnerTag = iota
	Plugin
	Supervisor
	Foreign
)

func (t OwnerTag) String() string {
	switch t {
	case Anonymous:
		return "anonymous"
	case Plugin:
		return "plugin"
	case Supervisor:
		return "supervisor"
	case Foreign:
		return "foreign"
	default:
		return "unknown"
	}
}

// State is the lifecycle of one subscription point.
type State int

const (
	Subscribing State = iota
	Established
	Unsubscribing
)

// Point is a (handler, address) pair: the thing being subscribed.
type Point struct {
	Handler message.Handler
	Address *address.Address
}

func (p Point) equal(o Point) bool {
	return p.Address == o.Address && p.Handler.Equal(o.Handler)
}

// Info is a materialised subscription point: a Point plus bookkeeping about
// who owns it, whether address/handler are local to this supervisor, and
// its current negotiation state.
type Info struct {
	Point
	OwnerIdentity   string
	OwnerTag        OwnerTag
	State           State
	InternalAddress bool
	InternalHandler bool
}

type key struct {
	addr *address.Address
	typ  message.TypeID
}

type handlerSet struct {
	internal []message.Handler
	external []message.Handler
}

// Table is one supervisor's subscription index. It is only ever touched by
// the goroutine driving that supervisor's dispatch loop.
type Table struct {
	owner address.Owner

	// internalInfos indexes by address, but only for addresses this
	// supervisor owns.
	internalInfos map[*address.Address][]*Info

	// mineHandlers indexes (address, type) -> handler lists, split by
	// whether the handler is local (internal) or lives on another
	// supervisor (external). Only locally-owned addresses appear here;
	// subscriptions on foreign addresses are bookkept by the owning
	// supervisor's own table instead.
	mineHandlers map[key]*handlerSet
}

// NewTable constructs a subscription table for the supervisor identified by
// owner.
func NewTable(owner address.Owner) *Table {
	return &Table{
		owner:         owner,
		internalInfos: make(map[*address.Address][]*Info),
		mineHandlers:  make(map[key]*handlerSet),
	}
}

func (t *Table) isLocal(addr *address.Address) bool {
	return addr.Owner() == t.owner
}

// Materialise classifies point (internal/external address, internal/
// external handler), inserts it into the indexes, and returns the resulting
// Info. A point on a locally-owned address is immediately ESTABLISHED;
// otherwise it starts SUBSCRIBING, pending confirmation from the owning
// supervisor.
func (t *Table) Materialise(point Point, ownerIdentity string, ownerTag OwnerTag) *Info {
	internalAddress := t.isLocal(point.Address)
	internalHandler := t.isLocal(point.Handler.ActorAddress())

	state := Subscribing
	if internalAddress {
		state = Established
	}

	info := &Info{
		Point:           point,
		OwnerIdentity:   ownerIdentity,
		OwnerTag:        ownerTag,
		State:           state,
		InternalAddress: internalAddress,
		InternalHandler: internalHandler,
	}

	if internalAddress {
		t.internalInfos[point.Address] = append(t.internalInfos[point.Address], info)

		k := key{addr: point.Address, typ: point.Handler.TypeID()}
		set, ok := t.mineHandlers[k]
		if !ok {
			set = &handlerSet{}
			t.mineHandlers[k] = set
		}
		if internalHandler {
			set.internal = append(set.internal, point.Handler)
		} else {
			set.external = append(set.external, point.Handler)
		}
	}

	return info
}

// Update in-place replaces info's handler with newHandler (used by tag
// upgrades, which must stay findable under the same address/type key).
func (t *Table) Update(info *Info, newHandler message.Handler) {
	if info.InternalAddress {
		k := key{addr: info.Address, typ: info.Handler.TypeID()}
		if set, ok := t.mineHandlers[k]; ok {
			replaceHandler(set.internal, info.Handler, newHandler)
			replaceHandler(set.external, info.Handler, newHandler)
		}
	}
	info.Handler = newHandler
}

func replaceHandler(list []message.Handler, old, next message.Handler) {
	for i, h := range list {
		if h.Equal(old) {
			list[i] = next
			return
		}
	}
}

// Forget removes info from both indexes. If the per-address info list
// becomes empty, the address key is dropped entirely.
func (t *Table) Forget(info *Info) {
	if !info.InternalAddress {
		return
	}

	infos := t.internalInfos[info.Address]
	for i, candidate := range infos {
		if candidate == info {
			infos = append(infos[:i], infos[i+1:]...)
			break
		}
	}
	if len(infos) == 0 {
		delete(t.internalInfos, info.Address)
	} else {
		t.internalInfos[info.Address] = infos
	}

	k := key{addr: info.Address, typ: info.Handler.TypeID()}
	if set, ok := t.mineHandlers[k]; ok {
		set.internal = removeHandler(set.internal, info.Handler)
		set.external = removeHandler(set.external, info.Handler)
		if len(set.internal) == 0 && len(set.external) == 0 {
			delete(t.mineHandlers, k)
		}
	}
}

func removeHandler(list []message.Handler, h message.Handler) []message.Handler {
	for i, candidate := range list {
		if candidate.Equal(h) {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Recipients looks up the (addr, typeID) pair and returns
// the internal and external handler lists, in subscription order. ok is
// false if nothing is subscribed.
func (t *Table) Recipients(addr *address.Address, typeID message.TypeID) (internal, external []message.Handler, ok bool) {
	set, found := t.mineHandlers[key{addr: addr, typ: typeID}]
	if !found {
		return nil, nil, false
	}
	return set.internal, set.external, true
}

// InfosFor returns every subscription Info recorded for a locally-owned
// address, in subscription order, as a copy the caller may keep.
func (t *Table) InfosFor(addr *address.Address) []*Info {
	return append([]*Info(nil), t.internalInfos[addr]...)
}
