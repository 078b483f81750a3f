package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeOwner struct {
	identity string
	locality *Locality
}

func (f *fakeOwner) Identity() string    { return f.identity }
func (f *fakeOwner) Locality() *Locality { return f.locality }

func TestNewAddressStampsLocality(t *testing.T) {
	loc := NewLocality("loc-a")
	owner := &fakeOwner{identity: "actor-1", locality: loc}

	addr := New(owner)

	assert.Equal(t, loc, addr.Locality())
	assert.Same(t, owner, addr.Owner())
}

func TestAddressIDsAreUniqueAndOrdered(t *testing.T) {
	owner := &fakeOwner{identity: "actor-1", locality: NewLocality("loc-a")}

	a := New(owner)
	b := New(owner)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Less(t, a.ID(), b.ID())
}

func TestSameLocality(t *testing.T) {
	locA := NewLocality("a")
	locB := NewLocality("b")
	ownerA := &fakeOwner{identity: "x", locality: locA}
	ownerB := &fakeOwner{identity: "y", locality: locB}
	ownerA2 := &fakeOwner{identity: "z", locality: locA}

	addr1 := New(ownerA)
	addr2 := New(ownerA2)
	addr3 := New(ownerB)

	assert.True(t, addr1.SameLocality(addr2))
	assert.False(t, addr1.SameLocality(addr3))
}

func TestSameLocalityNilSafe(t *testing.T) {
	addr := New(&fakeOwner{identity: "x", locality: NewLocality("a")})
	var nilAddr *Address

	assert.False(t, addr.SameLocality(nilAddr))
	assert.False(t, nilAddr.SameLocality(addr))
}

func TestAddressStringNilSafe(t *testing.T) {
	var nilAddr *Address
	assert.Equal(t, "<nil-address>", nilAddr.String())
}
