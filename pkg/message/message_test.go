package message

import (
	"testing"

	"github.com/cuemby/hive/pkg/address"
	"github.com/stretchr/testify/assert"
)

type pingPayload struct{ Seq int }
type pongPayload struct{ Seq int }

type fakeOwner struct {
	identity string
	locality *address.Locality
}

func (f *fakeOwner) Identity() string            { return f.identity }
func (f *fakeOwner) Locality() *address.Locality { return f.locality }

func TestTypeIDOfIsStableAndDistinct(t *testing.T) {
	id1 := TypeIDOf[pingPayload]()
	id2 := TypeIDOf[pingPayload]()
	id3 := TypeIDOf[pongPayload]()

	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)
	assert.Equal(t, "message.pingPayload", TypeName(id1))
}

func TestHandlerInvokeAcceptsValueOrPointerPayload(t *testing.T) {
	owner := &fakeOwner{identity: "a", locality: address.NewLocality("loc")}
	addr := address.New(owner)

	var got []int
	h := NewHandler[pingPayload](addr, KindActor, func(p *pingPayload) {
		got = append(got, p.Seq)
	})

	h.Invoke(New(addr, pingPayload{Seq: 1}))
	envPtr := New(addr, pingPayload{Seq: 2})
	envPtr.Payload = &pingPayload{Seq: 2}
	h.Invoke(envPtr)

	assert.Equal(t, []int{1, 2}, got)
}

func TestHandlerEqualityIgnoresTags(t *testing.T) {
	owner := &fakeOwner{identity: "a", locality: address.NewLocality("loc")}
	addr := address.New(owner)

	h1 := NewHandler[pingPayload](addr, KindActor, func(*pingPayload) {})
	h2 := NewHandler[pingPayload](addr, KindActor, func(*pingPayload) {})
	tagged := Tag(h2, IOTag)

	assert.True(t, h1.Equal(tagged))
	assert.True(t, tagged.Equal(h1))
	assert.True(t, tagged.HasTag(IOTag))
	assert.False(t, h1.HasTag(IOTag))
}

func TestTagMergesRatherThanNests(t *testing.T) {
	owner := &fakeOwner{identity: "a", locality: address.NewLocality("loc")}
	addr := address.New(owner)
	h := NewHandler[pingPayload](addr, KindActor, func(*pingPayload) {})

	once := Tag(h, "first")
	twice := Tag(once, "second")

	assert.True(t, twice.HasTag("first"))
	assert.True(t, twice.HasTag("second"))
	assert.Same(t, h, Unwrap(twice))
}

func TestEnvelopeRefcountTriggersRepublishOnLastRelease(t *testing.T) {
	owner := &fakeOwner{identity: "a", locality: address.NewLocality("loc")}
	dest := address.New(owner)
	next := address.New(owner)

	republished := make(chan *address.Address, 1)
	repub := republisherFunc(func(env *Envelope, to *address.Address) {
		republished <- to
	})

	env := NewRouted(dest, next, repub, pingPayload{Seq: 1})
	env.Retain()
	env.Release()
	select {
	case <-republished:
		t.Fatal("republished before last release")
	default:
	}

	env.Release()
	assert.Equal(t, next, <-republished)
}

func TestPayloadTypeAssertion(t *testing.T) {
	owner := &fakeOwner{identity: "a", locality: address.NewLocality("loc")}
	addr := address.New(owner)
	env := New(addr, pingPayload{Seq: 7})

	p, ok := Payload[pingPayload](env)
	assert.True(t, ok)
	assert.Equal(t, 7, p.Seq)

	_, ok = Payload[pongPayload](env)
	assert.False(t, ok)
}

type republisherFunc func(env *Envelope, to *address.Address)

func (f republisherFunc) Republish(env *Envelope, to *address.Address) { f(env, to) }
