package subscription

import (
	"testing"

	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/message"
	"github.com/stretchr/testify/assert"
)

type fakeOwner struct {
	identity string
	locality *address.Locality
}

func (f *fakeOwner) Identity() string            { return f.identity }
func (f *fakeOwner) Locality() *address.Locality { return f.locality }

type pingPayload struct{}

func TestMaterialiseLocalAddressEstablishesImmediately(t *testing.T) {
	owner := &fakeOwner{identity: "sup", locality: address.NewLocality("loc")}
	table := NewTable(owner)
	addr := address.New(owner)
	h := message.NewHandler[pingPayload](addr, message.KindActor, func(*pingPayload) {})

	info := table.Materialise(Point{Handler: h, Address: addr}, "actor-1", Plugin)

	assert.Equal(t, Established, info.State)
	assert.True(t, info.InternalAddress)
	internal, external, ok := table.Recipients(addr, message.TypeIDOf[pingPayload]())
	assert.True(t, ok)
	assert.Len(t, internal, 1)
	assert.Empty(t, external)
}

func TestMaterialiseForeignAddressStaysSubscribing(t *testing.T) {
	owner := &fakeOwner{identity: "sup-a", locality: address.NewLocality("loc-a")}
	other := &fakeOwner{identity: "sup-b", locality: address.NewLocality("loc-b")}
	table := NewTable(owner)
	foreignAddr := address.New(other)
	h := message.NewHandler[pingPayload](foreignAddr, message.KindActor, func(*pingPayload) {})

	info := table.Materialise(Point{Handler: h, Address: foreignAddr}, "actor-1", Plugin)

	assert.Equal(t, Subscribing, info.State)
	assert.False(t, info.InternalAddress)
	_, _, ok := table.Recipients(foreignAddr, message.TypeIDOf[pingPayload]())
	assert.False(t, ok)
}

func TestForgetRemovesFromBothIndexes(t *testing.T) {
	owner := &fakeOwner{identity: "sup", locality: address.NewLocality("loc")}
	table := NewTable(owner)
	addr := address.New(owner)
	h := message.NewHandler[pingPayload](addr, message.KindActor, func(*pingPayload) {})
	info := table.Materialise(Point{Handler: h, Address: addr}, "actor-1", Plugin)

	table.Forget(info)

	_, _, ok := table.Recipients(addr, message.TypeIDOf[pingPayload]())
	assert.False(t, ok)
	assert.Empty(t, table.InfosFor(addr))
}

func TestUpdateReplacesHandlerInPlace(t *testing.T) {
	owner := &fakeOwner{identity: "sup", locality: address.NewLocality("loc")}
	table := NewTable(owner)
	addr := address.New(owner)
	h := message.NewHandler[pingPayload](addr, message.KindActor, func(*pingPayload) {})
	info := table.Materialise(Point{Handler: h, Address: addr}, "actor-1", Plugin)

	tagged := message.Tag(h, message.IOTag)
	table.Update(info, tagged)

	internal, _, ok := table.Recipients(addr, message.TypeIDOf[pingPayload]())
	assert.True(t, ok)
	assert.True(t, internal[0].HasTag(message.IOTag))
}

func TestOwnerTagString(t *testing.T) {
	assert.Equal(t, "plugin", Plugin.String())
	assert.Equal(t, "supervisor", Supervisor.String())
	assert.Equal(t, "foreign", Foreign.String())
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "unknown", OwnerTag(99).String())
}
