package actor

import (
	"time"

	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/backend"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/proto"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/subscription"
	"github.com/rs/zerolog"
)

// PendingRequest is the correlator bookkeeping for one outstanding request
// issued by this actor: a timeout timer and the callback to invoke on
// either a matching reply or a timeout.
type PendingRequest struct {
	TimerID   backend.TimerID
	OnTimeout func()
}

// Base is the actor base: address(es), the ordered plugin pipeline, current
// lifecycle state, pending init/shutdown requests, and active timers/
// requests. Every concrete actor type embeds Base.
//
// Base's fields are unexported: the stock plugins live in package
// pkg/actor/plugin and drive the actor only through Base's exported methods.
type Base struct {
	identity string
	addrs    []*address.Address
	mainAddr *address.Address

	plugins []Plugin
	state   State

	sup Supervisor
	cfg Config
	log zerolog.Logger

	// init bookkeeping
	initIdx       int
	initTimerID   backend.TimerID
	initTimerSet  bool
	onInitDone    func(*rerror.Error)

	// shutdown bookkeeping
	shutdownIdx      int
	shutdownTimerID  backend.TimerID
	shutdownTimerSet bool
	shutdownReason   *rerror.Error
	onShutdownDone   func(*rerror.Error)
	shutdownStarted  bool

	activeTimers   map[backend.TimerID]struct{}
	activeRequests map[uint64]*PendingRequest

	shouldRestart func() bool
	onStart       func()
	onActivated   func()
}

// NewBase constructs an actor base hosted by sup, running the given plugin
// pipeline in activation order. Call Activate once the concrete actor type
// finishes embedding Base.
func NewBase(identity string, sup Supervisor, cfg Config, plugins ...Plugin) *Base {
	return &Base{
		identity:       identity,
		sup:            sup,
		cfg:            cfg,
		plugins:        plugins,
		log:            sup.Log().With().Str("actor", identity).Logger(),
		activeTimers:   make(map[backend.TimerID]struct{}),
		activeRequests: make(map[uint64]*PendingRequest),
	}
}

// Identity returns the actor's identity string, recorded as the owner
// identity of every subscription it makes through Subscribe.
func (a *Base) Identity() string { return a.identity }

// State returns the actor's current lifecycle state.
func (a *Base) State() State { return a.state }

// Supervisor returns the supervisor hosting this actor.
func (a *Base) Supervisor() Supervisor { return a.sup }

// Address returns the actor's main address, allocated by the address-maker
// plugin during Activate.
func (a *Base) Address() *address.Address { return a.mainAddr }

// Addresses returns every address this actor owns.
func (a *Base) Addresses() []*address.Address { return a.addrs }

// SetMainAddress is called by the address-maker plugin once, during
// Activate.
func (a *Base) SetMainAddress(addr *address.Address) {
	a.mainAddr = addr
	a.addrs = append(a.addrs, addr)
}

// AddAddress records an additional address the actor owns.
func (a *Base) AddAddress(addr *address.Address) {
	a.addrs = append(a.addrs, addr)
}

// Config returns the actor's configuration.
func (a *Base) Config() Config { return a.cfg }

// Log returns this actor's logger.
func (a *Base) Log() zerolog.Logger { return a.log }

// SetShouldRestart installs the ASK_ACTOR spawner-policy hook: called by a
// spawner when deciding whether to respawn this actor after it shuts down.
func (a *Base) SetShouldRestart(fn func() bool) { a.shouldRestart = fn }

// ShouldRestart consults the ASK_ACTOR hook, defaulting to false if none was
// installed.
func (a *Base) ShouldRestart() bool {
	if a.shouldRestart == nil {
		return false
	}
	return a.shouldRestart()
}

// setState enforces the monotonic state machine and notifies the
// supervisor.
func (a *Base) setState(s State) {
	if !canTransition(a.state, s) {
		a.log.Error().Str("from", a.state.String()).Str("to", s.String()).Msg("rejected non-monotonic state transition")
		return
	}
	a.state = s
	a.sup.ChildStateChanged(a, s)
}

// Activate runs every plugin's Activate method, in pipeline order, then the
// concrete actor's own on-activated hook, if one was installed. This is
// where a concrete actor subscribes its own business message handlers,
// since its main address only exists once the address-maker plugin has run.
func (a *Base) Activate() {
	for _, p := range a.plugins {
		p.Activate(a)
	}
	if a.onActivated != nil {
		a.onActivated()
	}
}

// SetOnActivated installs the hook run once, right after every plugin has
// activated.
func (a *Base) SetOnActivated(fn func()) { a.onActivated = fn }

// Subscribe materialises a subscription point on addr for msgType, owned by
// ownerTag (PLUGIN for plugin-driven subscriptions, SUPERVISOR for
// temporary request/response correlation, ANONYMOUS otherwise).
func (a *Base) Subscribe(addr *address.Address, h message.Handler, ownerTag subscription.OwnerTag) *subscription.Info {
	point := subscription.Point{Handler: h, Address: addr}
	return a.sup.Table().Materialise(point, a.identity, ownerTag)
}

// Unsubscribe removes a previously materialised subscription point.
func (a *Base) Unsubscribe(info *subscription.Info) {
	a.sup.Table().Forget(info)
}

// Send enqueues a message addressed to dest for same-locality dispatch.
func Send[T any](a *Base, dest *address.Address, payload T) {
	a.sup.Enqueue(message.New(dest, payload))
}

// StartTimer arms a timer via the supervisor's backend and tracks it so
// shutdown can cancel every timer this actor still owns.
func (a *Base) StartTimer(d time.Duration, fn backend.TimerFiredFunc) backend.TimerID {
	var id backend.TimerID
	wrapped := func(firedID backend.TimerID, cancelled bool) {
		delete(a.activeTimers, firedID)
		fn(firedID, cancelled)
	}
	id = a.sup.StartTimer(d, wrapped)
	a.activeTimers[id] = struct{}{}
	return id
}

// CancelTimer cancels a timer this actor owns.
func (a *Base) CancelTimer(id backend.TimerID) {
	if _, ok := a.activeTimers[id]; !ok {
		return
	}
	a.sup.CancelTimer(id)
}

// BeginInit starts the init-phase plugin poll. onDone is called exactly
// once, with a nil error on success or the failure reason if init timed out
// or a plugin reported failure.
func (a *Base) BeginInit(onDone func(*rerror.Error)) {
	a.onInitDone = onDone
	a.setState(StateInitializing)
	a.initIdx = 0
	if a.cfg.InitTimeout > 0 {
		a.initTimerID = a.sup.StartTimer(a.cfg.InitTimeout, a.onInitTimeout)
		a.initTimerSet = true
	}
	a.InitContinue()
}

func (a *Base) onInitTimeout(_ backend.TimerID, cancelled bool) {
	if cancelled {
		return
	}
	a.initTimerSet = false
	a.FailInit(rerror.New("actor init timed out", rerror.RequestTimeout, nil, nil))
}

// FailInit aborts initialization early: the actor moves directly to
// SHUTTING_DOWN, skipping INITIALIZED and OPERATIONAL.
func (a *Base) FailInit(err *rerror.Error) {
	if a.initTimerSet {
		a.sup.CancelTimer(a.initTimerID)
		a.initTimerSet = false
	}
	a.shutdownReason = err
	a.setState(StateShuttingDown)
	done := a.onInitDone
	a.onInitDone = nil
	if done != nil {
		done(err)
	}
}

// InitContinue resumes polling init plugins from where it left off. A
// plugin whose HandleInit returned false is expected to call this again
// once its async precondition resolves.
func (a *Base) InitContinue() {
	if a.state != StateInitializing {
		return
	}
	for a.initIdx < len(a.plugins) {
		p := a.plugins[a.initIdx]
		if p.Reactions()&ReactionInit == 0 {
			a.initIdx++
			continue
		}
		if !p.HandleInit() {
			return
		}
		a.initIdx++
	}
	a.initFinish()
}

func (a *Base) initFinish() {
	if a.initTimerSet {
		a.sup.CancelTimer(a.initTimerID)
		a.initTimerSet = false
	}
	a.setState(StateInitialized)
	done := a.onInitDone
	a.onInitDone = nil
	if done != nil {
		done(nil)
	}
}

// BeginShutdown starts the shutdown-phase plugin poll, in reverse pipeline
// order. reason is nil for a normal shutdown request. Every timer this
// actor still owns is cancelled immediately, except the shutdown timeout
// timer itself.
func (a *Base) BeginShutdown(reason *rerror.Error, onDone func(*rerror.Error)) {
	if a.shutdownStarted {
		return
	}
	a.shutdownStarted = true
	if reason != nil {
		a.shutdownReason = reason
	}
	a.onShutdownDone = onDone
	a.setState(StateShuttingDown)
	a.shutdownIdx = len(a.plugins) - 1

	if a.cfg.ShutdownTimeout > 0 {
		a.shutdownTimerID = a.sup.StartTimer(a.cfg.ShutdownTimeout, a.onShutdownTimeout)
		a.shutdownTimerSet = true
	}
	for id := range a.activeTimers {
		if a.shutdownTimerSet && id == a.shutdownTimerID {
			continue
		}
		a.sup.CancelTimer(id)
	}

	a.ShutdownContinue()
}

func (a *Base) onShutdownTimeout(_ backend.TimerID, cancelled bool) {
	if cancelled {
		return
	}
	a.shutdownTimerSet = false
	a.log.Warn().Msg("shutdown timed out, forcing shut_down")
	a.shutdownFinish()
}

// ShutdownContinue resumes polling shutdown plugins from where it left off.
func (a *Base) ShutdownContinue() {
	if a.state != StateShuttingDown {
		return
	}
	for a.shutdownIdx >= 0 {
		p := a.plugins[a.shutdownIdx]
		if p.Reactions()&ReactionShutdown == 0 {
			p.Deactivate()
			a.shutdownIdx--
			continue
		}
		if !p.HandleShutdown() {
			return
		}
		p.Deactivate()
		a.shutdownIdx--
	}
	a.shutdownFinish()
}

func (a *Base) shutdownFinish() {
	if a.shutdownTimerSet {
		a.sup.CancelTimer(a.shutdownTimerID)
		a.shutdownTimerSet = false
	}

	if a.cfg.EscalateFailure && a.cfg.SpawnerAddress == nil {
		if reason := a.shutdownReason; reason != nil && reason.Root().Code != rerror.NormalShutdown {
			Send(a, a.sup.Address(), proto.ShutdownTrigger{Reason: reason})
		}
	}
	if a.cfg.AutoshutdownSupervisor {
		Send(a, a.sup.Address(), proto.ShutdownTrigger{Reason: a.shutdownReason})
	}

	a.setState(StateShutDown)
	done := a.onShutdownDone
	a.onShutdownDone = nil
	if done != nil {
		done(a.shutdownReason)
	}
}

// ShutdownReason returns the reason this actor is shutting down, nil for a
// normal voluntary shutdown.
func (a *Base) ShutdownReason() *rerror.Error { return a.shutdownReason }

// SetOnStart installs the callback the starter plugin invokes once the
// start trigger arrives, right before the actor moves to OPERATIONAL.
func (a *Base) SetOnStart(fn func()) { a.onStart = fn }

// MarkOperational transitions the actor to OPERATIONAL and runs the
// on-start callback, if one was installed. Called by the starter plugin
// upon receiving the start trigger.
func (a *Base) MarkOperational() {
	if a.onStart != nil {
		a.onStart()
	}
	a.setState(StateOperational)
}

// TrackRequest records an outstanding request's correlator entry.
func (a *Base) TrackRequest(id uint64, pr *PendingRequest) {
	a.activeRequests[id] = pr
}

// CompleteRequest removes and returns a request's correlator entry, if
// still present. A late reply arriving after the timeout already fired
// finds nothing here and is silently dropped.
func (a *Base) CompleteRequest(id uint64) (*PendingRequest, bool) {
	pr, ok := a.activeRequests[id]
	if ok {
		delete(a.activeRequests, id)
	}
	return pr, ok
}
