// Package supervisor implements the execution locality: the queue/dispatch
// loop that owns a subscription table and a set of child actors, the
// request/response correlator (request.go), and the logical timer layer
// (timer.go).
package supervisor

import (
	"strconv"
	"sync"
	"time"

	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/actor/plugin"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/backend"
	"github.com/cuemby/hive/pkg/log"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/metrics"
	"github.com/cuemby/hive/pkg/proto"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/subscription"
	"github.com/rs/zerolog"
)

// InboundEnqueuer is implemented by every Supervisor. Cross-locality
// forwarding discovers it via a type assertion against an address's
// Owner(), rather than widening actor.Supervisor with a generic forwarding
// method every other caller would have to satisfy too.
type InboundEnqueuer interface {
	EnqueueInbound(env *message.Envelope)
}

// Config configures one supervisor.
type Config struct {
	actor.Config

	Identity string
	Locality *address.Locality
	Backend  backend.Backend
	Registry *address.Address
}

// Supervisor owns one locality's inbound queue, dispatch loop, timers, and
// child actors. It is itself an actor, running through the same eight-plugin
// pipeline as any actor it hosts. Its own Base is hosted by the supervisor
// itself, so its lifecycle changes are reported to itself and never to
// another supervisor: a Supervisor runs as the root of its own tree.
//
// Two queues back it. queue is the single-consumer dispatch deque: only the
// goroutine running OnWake ever touches it, so it needs no locking. inbound
// is the cross-thread handoff point: EnqueueInbound, called by a forward()
// on some other locality's goroutine, is the only place another goroutine
// ever reaches into this supervisor, and inboundMu is the one lock that
// guards it. OnWake drains inbound into queue before dispatching.
type Supervisor struct {
	actor.Base

	identity string
	locality *address.Locality
	be       backend.Backend
	registry *address.Address
	log      zerolog.Logger

	table *subscription.Table
	queue []*message.Envelope

	inboundMu sync.Mutex
	inbound   []*message.Envelope

	nextReq uint64

	children     map[*address.Address]*actor.Base
	initializing map[*address.Address]struct{}

	onChildShutdown func(child *actor.Base)
	onSelfShutdown  func()

	pipeline *plugin.Pipeline
}

// New constructs a supervisor. Call Start to begin its own init sequence
// and Run to drive its backend loop.
func New(cfg Config) *Supervisor {
	s := &Supervisor{
		identity:     cfg.Identity,
		locality:     cfg.Locality,
		be:           cfg.Backend,
		registry:     cfg.Registry,
		children:     make(map[*address.Address]*actor.Base),
		initializing: make(map[*address.Address]struct{}),
	}
	s.log = log.WithSupervisor(cfg.Identity)
	s.table = subscription.NewTable(s)
	s.pipeline = plugin.NewPipeline()
	s.Base = *actor.NewBase(cfg.Identity, s, cfg.Config, s.pipeline.Plugins()...)
	metrics.SupervisorsTotal.Inc()
	return s
}

func (s *Supervisor) Locality() *address.Locality        { return s.locality }
func (s *Supervisor) Log() zerolog.Logger                { return s.log }
func (s *Supervisor) Table() *subscription.Table         { return s.table }
func (s *Supervisor) RegistryAddress() *address.Address  { return s.registry }
func (s *Supervisor) MakeAddress() *address.Address      { return address.New(s) }

// OnChildShutdown installs the hook the spawner package uses to learn when
// a spawned child reaches SHUT_DOWN.
func (s *Supervisor) OnChildShutdown(fn func(child *actor.Base)) { s.onChildShutdown = fn }

// OnSelfShutdown installs the hook run once this supervisor itself (not a
// child) reaches SHUT_DOWN, typically used to stop the backend's Run loop.
func (s *Supervisor) OnSelfShutdown(fn func()) { s.onSelfShutdown = fn }

// Enqueue appends env to this supervisor's dispatch deque and wakes its
// backend. Only safe to call from the goroutine already running this
// supervisor's dispatch loop (i.e. from within a handler on this same
// locality); cross-locality callers must go through EnqueueInbound on the
// destination's owning supervisor instead.
func (s *Supervisor) Enqueue(env *message.Envelope) {
	s.queue = append(s.queue, env)
	metrics.QueueDepth.WithLabelValues(s.identity).Set(float64(len(s.queue)))
	s.be.Wake()
}

// EnqueueInbound accepts an envelope forwarded from a different locality's
// goroutine. It is the only method on Supervisor any goroutine but the one
// running the dispatch loop may call, so it is the only one that takes a
// lock.
func (s *Supervisor) EnqueueInbound(env *message.Envelope) {
	s.inboundMu.Lock()
	s.inbound = append(s.inbound, env)
	metrics.InboundDepth.WithLabelValues(s.identity).Set(float64(len(s.inbound)))
	s.inboundMu.Unlock()
	s.be.Wake()
}

// drainInbound moves every envelope waiting in the cross-thread inbound
// queue onto the single-consumer dispatch deque. Called once per OnWake,
// before dispatching, so a message forwarded from another locality never
// waits more than one wake cycle.
func (s *Supervisor) drainInbound() {
	s.inboundMu.Lock()
	if len(s.inbound) == 0 {
		s.inboundMu.Unlock()
		return
	}
	pending := s.inbound
	s.inbound = nil
	metrics.InboundDepth.WithLabelValues(s.identity).Set(0)
	s.inboundMu.Unlock()

	s.queue = append(s.queue, pending...)
}

func (s *Supervisor) StartTimer(d time.Duration, fn backend.TimerFiredFunc) backend.TimerID {
	metrics.TimersActive.WithLabelValues(s.identity).Inc()
	return s.be.StartTimer(d, func(id backend.TimerID, cancelled bool) {
		metrics.TimersActive.WithLabelValues(s.identity).Dec()
		metrics.TimersFiredTotal.WithLabelValues(s.identity, strconv.FormatBool(cancelled)).Inc()
		fn(id, cancelled)
	})
}

func (s *Supervisor) CancelTimer(id backend.TimerID) { s.be.CancelTimer(id) }

// NextRequestID hands out the next monotonic request id for this
// supervisor: strictly increasing, never reused.
func (s *Supervisor) NextRequestID() uint64 {
	s.nextReq++
	return s.nextReq
}

// RegisterChild records a freshly activated child and marks it pending
// init-completion.
func (s *Supervisor) RegisterChild(a *actor.Base) {
	s.children[a.Address()] = a
	s.initializing[a.Address()] = struct{}{}
	metrics.ActorsTotal.WithLabelValues(a.State().String()).Inc()
}

// ChildStateChanged tracks every lifecycle transition a child reports.
// Once every child clears INITIALIZING, the supervisor broadcasts the start
// trigger; once a child reaches SHUT_DOWN, it is forgotten and the spawner
// hook (if any) is invoked.
func (s *Supervisor) ChildStateChanged(a *actor.Base, state actor.State) {
	s.log.Debug().Str("actor", a.Identity()).Str("state", state.String()).Msg("child state changed")

	if a == &s.Base {
		if state == actor.StateShutDown {
			metrics.SupervisorsTotal.Dec()
			if s.onSelfShutdown != nil {
				s.onSelfShutdown()
			}
		}
		return
	}

	switch state {
	case actor.StateInitialized:
		delete(s.initializing, a.Address())
		if len(s.initializing) == 0 {
			s.broadcastStart()
		}
	case actor.StateShutDown:
		delete(s.children, a.Address())
		delete(s.initializing, a.Address())
		if s.onChildShutdown != nil {
			s.onChildShutdown(a)
		}
	}
}

func (s *Supervisor) broadcastStart() {
	for addr := range s.children {
		actor.Send(&s.Base, addr, proto.StartTrigger{})
	}
}

// Spawn constructs a child via factory, activates its plugin pipeline,
// registers it with this supervisor, and sends its init request.
func (s *Supervisor) Spawn(factory func(sup *Supervisor) *actor.Base) *actor.Base {
	child := factory(s)
	child.Activate()
	s.RegisterChild(child)
	actor.Send(&s.Base, child.Address(), proto.InitRequest{ReplyTo: s.Address()})
	return child
}

// Start runs this supervisor's own init sequence in-process (a root
// supervisor has no parent to send it an init_request).
func (s *Supervisor) Start() {
	s.Activate()
	h := message.NewHandler[proto.ShutdownTrigger](s.Address(), message.KindLambda, s.onShutdownTrigger)
	s.Subscribe(s.Address(), h, subscription.Supervisor)
	s.BeginInit(func(err *rerror.Error) {
		if err == nil {
			s.MarkOperational()
		}
	})
}

// onShutdownTrigger reacts to a failure-escalation or autoshutdown-
// supervisor request from one of this supervisor's children (actor.Base's
// shutdownFinish sends this to its own supervisor's address).
func (s *Supervisor) onShutdownTrigger(trigger *proto.ShutdownTrigger) {
	s.BeginShutdown(trigger.Reason, nil)
}

// OnWake implements backend.Loop: it moves any cross-thread inbound
// envelopes onto the dispatch deque, then drains the deque, dispatching or
// forwarding each envelope in turn.
func (s *Supervisor) OnWake() {
	s.drainInbound()
	for len(s.queue) > 0 {
		env := s.queue[0]
		s.queue = s.queue[1:]
		s.dispatch(env)
		metrics.QueueDepth.WithLabelValues(s.identity).Set(float64(len(s.queue)))
	}
}

func (s *Supervisor) dispatch(env *message.Envelope) {
	dest := env.Destination
	if dest.Owner() != s {
		s.forward(dest, env)
		return
	}

	internal, external, ok := s.table.Recipients(dest, env.TypeID)
	if !ok {
		env.Release()
		return
	}

	// The queue's ref is dropped once every handler has returned.
	defer env.Release()

	env.Retain()
	defer env.Release()

	for _, h := range internal {
		h.Invoke(env)
	}
	for _, h := range external {
		s.forward(h.ActorAddress(), env)
	}

	metrics.MessagesDispatchedTotal.WithLabelValues(s.identity, s.locality.String()).Inc()
}

func (s *Supervisor) forward(dest *address.Address, env *message.Envelope) {
	fwd, ok := dest.Owner().(InboundEnqueuer)
	if !ok {
		s.log.Error().Str("dest", dest.String()).Msg("destination owner cannot accept forwarded envelopes")
		return
	}
	metrics.MessagesForwardedTotal.WithLabelValues(s.identity).Inc()
	fwd.EnqueueInbound(env)
}
