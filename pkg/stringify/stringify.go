// Package stringify implements a pluggable message stringifier for
// debugging: a default rendering for every built-in control-plane message,
// with a registration path for user message types, and a safe fallback for
// anything unknown.
package stringify

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/proto"
)

// Func renders one message payload to a short human-readable string.
type Func func(payload any) string

var (
	mu    sync.RWMutex
	funcs = map[reflect.Type]Func{}
)

func init() {
	Register(proto.InitRequest{}, func(p any) string {
		v := p.(proto.InitRequest)
		return fmt.Sprintf("init_request{reply_to=%s}", v.ReplyTo)
	})
	Register(proto.InitResponse{}, func(p any) string {
		v := p.(proto.InitResponse)
		return fmt.Sprintf("init_response{actor=%s, err=%v}", v.Actor, v.Err)
	})
	Register(proto.ShutdownRequest{}, func(p any) string {
		v := p.(proto.ShutdownRequest)
		return fmt.Sprintf("shutdown_request{reply_to=%s, reason=%v}", v.ReplyTo, v.Reason)
	})
	Register(proto.ShutdownResponse{}, func(p any) string {
		v := p.(proto.ShutdownResponse)
		return fmt.Sprintf("shutdown_response{actor=%s, err=%v}", v.Actor, v.Err)
	})
	Register(proto.StartTrigger{}, func(any) string { return "start_trigger{}" })
	Register(proto.ShutdownTrigger{}, func(p any) string {
		v := p.(proto.ShutdownTrigger)
		return fmt.Sprintf("shutdown_trigger{reason=%v}", v.Reason)
	})
	Register(proto.LinkRequest{}, func(p any) string {
		v := p.(proto.LinkRequest)
		return fmt.Sprintf("link_request{client=%s, server=%s}", v.ClientAddr, v.ServerAddr)
	})
	Register(proto.LinkResponse{}, func(p any) string {
		v := p.(proto.LinkResponse)
		return fmt.Sprintf("link_response{server=%s, err=%v}", v.ServerAddr, v.Err)
	})
	Register(proto.UnlinkNotify{}, func(p any) string {
		v := p.(proto.UnlinkNotify)
		return fmt.Sprintf("unlink_notify{server=%s, reason=%v}", v.ServerAddr, v.Reason)
	})
	Register(proto.UnlinkRequest{}, func(p any) string {
		return fmt.Sprintf("unlink_request{client=%s, server=%s}", p.(proto.UnlinkRequest).ClientAddr, p.(proto.UnlinkRequest).ServerAddr)
	})
	Register(proto.UnlinkResponse{}, func(p any) string {
		return fmt.Sprintf("unlink_response{server=%s}", p.(proto.UnlinkResponse).ServerAddr)
	})
	Register(proto.RegisterNameResponse{}, func(p any) string {
		return fmt.Sprintf("register_name_response{name=%q, err=%v}", p.(proto.RegisterNameResponse).Name, p.(proto.RegisterNameResponse).Err)
	})
	Register(proto.Deregister{}, func(p any) string {
		return fmt.Sprintf("deregister{name=%q, addr=%s}", p.(proto.Deregister).Name, p.(proto.Deregister).Addr)
	})
	Register(proto.CancelDiscovery{}, func(p any) string {
		return fmt.Sprintf("cancel_discovery{name=%q}", p.(proto.CancelDiscovery).Name)
	})
	Register(proto.RegisterName{}, func(p any) string {
		v := p.(proto.RegisterName)
		return fmt.Sprintf("register_name{name=%q, addr=%s}", v.Name, v.Addr)
	})
	Register(proto.DiscoveryRequest{}, func(p any) string {
		v := p.(proto.DiscoveryRequest)
		return fmt.Sprintf("discovery_request{name=%q}", v.Name)
	})
	Register(proto.DiscoveryResponse{}, func(p any) string {
		v := p.(proto.DiscoveryResponse)
		return fmt.Sprintf("discovery_response{name=%q, addr=%s, err=%v}", v.Name, v.Addr, v.Err)
	})
	Register(proto.DiscoveryPromise{}, func(p any) string {
		v := p.(proto.DiscoveryPromise)
		return fmt.Sprintf("discovery_promise{name=%q}", v.Name)
	})
	Register(proto.DiscoveryFuture{}, func(p any) string {
		v := p.(proto.DiscoveryFuture)
		return fmt.Sprintf("discovery_future{name=%q, addr=%s}", v.Name, v.Addr)
	})
}

// Register installs a custom stringifier for T, keyed by T's reflect.Type.
// User message types should call this (with an arbitrary zero value of
// their type) during package init to get readable logs/debug output.
func Register[T any](zero T, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	funcs[reflect.TypeOf(zero)] = fn
}

// Stringify renders env's payload using the registered Func for its type,
// falling back to "%+v" for anything that never registered one.
func Stringify(env *message.Envelope) string {
	mu.RLock()
	fn, ok := funcs[reflect.TypeOf(env.Payload)]
	mu.RUnlock()
	if !ok {
		return fmt.Sprintf("%T%+v", env.Payload, env.Payload)
	}
	return fn(env.Payload)
}
