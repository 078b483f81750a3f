package rerror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorChainsAndDescribes(t *testing.T) {
	root := New("ponger timed out", RequestTimeout, nil, nil)
	wrapped := New("pinger request failed", ChildDown, root, nil)

	assert.Equal(t, "pinger request failed: child_down <- ponger timed out: request_timeout", wrapped.Error())
	assert.Same(t, root, wrapped.Root())
	assert.Same(t, root, root.Root())
}

func TestErrorUnwrapCompatibleWithStandardLibrary(t *testing.T) {
	root := New("root cause", ActorMisconfigured, nil, nil)
	wrapped := New("outer", ChildDown, root, nil)

	assert.Same(t, root, errors.Unwrap(wrapped))
	assert.Nil(t, errors.Unwrap(root))
}

func TestErrorIsMatchesByCodeOnly(t *testing.T) {
	a := New("first", RequestTimeout, nil, nil)
	b := New("second", RequestTimeout, nil, nil)
	c := New("third", ChildDown, nil, nil)

	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
	assert.False(t, a.Is(errors.New("plain error")))
}

func TestNilErrorIsSafe(t *testing.T) {
	var e *Error
	assert.Equal(t, "", e.Error())
	assert.Nil(t, e.Unwrap())
}
