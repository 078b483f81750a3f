package message

import "github.com/cuemby/hive/pkg/address"

// taggedHandler upgrades a Handler with a named tag (e.g. IOTag). It
// delegates every operation to the wrapped handler and is transparent for
// equality/hashing: a tagged handler compares equal to its untagged
// original and vice versa.
type taggedHandler struct {
	Handler
	tags map[string]bool
}

// Tag wraps h, adding name to its tag set. Tagging an already-tagged handler
// merges tags rather than nesting wrappers.
func Tag(h Handler, name string) Handler {
	if th, ok := h.(*taggedHandler); ok {
		next := make(map[string]bool, len(th.tags)+1)
		for k := range th.tags {
			next[k] = true
		}
		next[name] = true
		return &taggedHandler{Handler: th.Handler, tags: next}
	}
	return &taggedHandler{Handler: h, tags: map[string]bool{name: true}}
}

func (t *taggedHandler) HasTag(name string) bool { return t.tags[name] }

func (t *taggedHandler) Equal(other Handler) bool { return t.Handler.Equal(Unwrap(other)) }

func (t *taggedHandler) Hash() uint64 { return t.Handler.Hash() }

func (t *taggedHandler) ActorAddress() *address.Address { return t.Handler.ActorAddress() }

func (t *taggedHandler) TypeID() TypeID { return t.Handler.TypeID() }

// Unwrap peels any tag wrappers off h, returning the original handler. Used
// so equality comparisons ignore tags entirely.
func Unwrap(h Handler) Handler {
	for {
		th, ok := h.(*taggedHandler)
		if !ok {
			return h
		}
		h = th.Handler
	}
}
