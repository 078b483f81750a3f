// Package rerror implements the runtime's extended error: a chained error
// carrying a context string describing what happened, a
// closed-set error code, and an optional pointer to the next (deeper) cause.
package rerror

import "fmt"

// Code is one of the closed set of error codes the runtime emits.
type Code string

const (
	NormalShutdown     Code = "normal_shutdown"
	SupervisorDefined  Code = "supervisor_defined"
	RequestTimeout     Code = "request_timeout"
	Cancelled          Code = "cancelled"
	ActorNotLinkable   Code = "actor_not_linkable"
	AlreadyRegistered  Code = "already_registered"
	UnknownService     Code = "unknown_service"
	FailureEscalation  Code = "failure_escalation"
	ActorMisconfigured Code = "actor_misconfigured"
	ActorNotSpawnable  Code = "actor_not_spawnable"
	ChildDown          Code = "child_down"
)

// Error is the extended error: {context, code, next, offending request}.
// Next forms an acyclic chain; Root walks it to the deepest cause.
type Error struct {
	Context string
	Code    Code
	Next    *Error
	Request any
}

// New constructs an extended error. next and request may be nil.
func New(context string, code Code, next *Error, request any) *Error {
	return &Error{Context: context, Code: code, Next: next, Request: request}
}

// Error implements the standard error interface, recursively describing the
// whole chain from this node down to the root cause.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s", e.Context, e.Code)
	if e.Next != nil {
		msg += " <- " + e.Next.Error()
	}
	return msg
}

// Unwrap lets errors.Is/errors.As walk the chain using the standard library.
func (e *Error) Unwrap() error {
	if e == nil || e.Next == nil {
		return nil
	}
	return e.Next
}

// Root returns the innermost (deepest) error in the chain.
func (e *Error) Root() *Error {
	cur := e
	for cur != nil && cur.Next != nil {
		cur = cur.Next
	}
	return cur
}

// Is allows errors.Is(err, rerror.New("", rerror.RequestTimeout, nil, nil))
// style comparisons to match purely on Code.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok || other == nil {
		return false
	}
	return e != nil && e.Code == other.Code
}
