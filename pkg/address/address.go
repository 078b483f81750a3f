// Package address implements the actor runtime's identity anchor: the
// Address.
//
// An Address is immutable after creation and carries a locality token used
// to decide whether two addresses share the same execution context (and can
// therefore be dispatched without crossing a supervisor boundary).
package address

import (
	"fmt"
	"sync/atomic"
)

// Locality identifies an execution context: a group of supervisors sharing
// one backend loop/thread. Pointer identity is the only thing that matters;
// two addresses share locality iff their Locality pointers are equal.
type Locality struct {
	label string
}

// NewLocality creates a fresh locality token. label is for logging only.
func NewLocality(label string) *Locality {
	return &Locality{label: label}
}

func (l *Locality) String() string {
	if l == nil {
		return "<nil-locality>"
	}
	return l.label
}

// Owner is the minimal view of a supervisor an Address needs: enough to
// route a message back to the locality that owns it, without the address
// package importing the supervisor package (addresses outlive nothing;
// supervisors outlive their addresses by construction, so this reference is
// intentionally non-owning).
type Owner interface {
	Identity() string
	Locality() *Locality
}

var tokenSeq uint64

// Address is the subscription and delivery anchor for an actor. It is never
// constructed directly by user code; only by a supervisor or its
// address-maker plugin.
type Address struct {
	owner    Owner
	locality *Locality
	token    uint64
}

// New allocates a new address owned by owner. Only supervisor.Supervisor and
// the address-maker plugin call this.
func New(owner Owner) *Address {
	return &Address{
		owner:    owner,
		locality: owner.Locality(),
		token:    atomic.AddUint64(&tokenSeq, 1),
	}
}

// Owner returns the non-owning back-reference to the supervisor hosting this
// address.
func (a *Address) Owner() Owner { return a.owner }

// ID returns the address's creation-order token. It is unique for hashing
// and debug output; it is never used for equality (pointer identity is).
func (a *Address) ID() uint64 { return a.token }

// Locality returns the locality token stamped at creation; it never changes.
func (a *Address) Locality() *Locality { return a.locality }

// SameLocality reports whether a and other were created under the same
// locality leader, i.e. can be dispatched without crossing an inbound queue.
func (a *Address) SameLocality(other *Address) bool {
	if a == nil || other == nil {
		return false
	}
	return a.locality == other.locality
}

func (a *Address) String() string {
	if a == nil {
		return "<nil-address>"
	}
	return fmt.Sprintf("%s/%d", a.owner.Identity(), a.token)
}
