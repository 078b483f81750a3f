package backend

import (
	"context"
	"sync"
	"time"
)

type timerEntry struct {
	fn    TimerFiredFunc
	timer *time.Timer
	fired bool
}

type fireEvent struct {
	id  TimerID
	fn  TimerFiredFunc
}

// ThreadBackend is the condition-variable-blocking thread loop: the
// simplest reference backend, driving one locality group on a single
// goroutine. Cross-thread wakes are coalesced: a burst of Wake() calls
// between two drains collapses into a single OnWake, via the buffered
// wakeSig channel below (see CoalescingBackend for an atomic-counter
// variant of the same idea, for adapters with no channel of their own).
type ThreadBackend struct {
	loop Loop

	mu     sync.Mutex
	timers map[TimerID]*timerEntry
	nextID TimerID

	wakeSig chan struct{}
	fireCh  chan fireEvent

	// pollDuration is a hint: after serving a wake, keep draining further
	// wakes without blocking for this long, to reduce latency for burst
	// producers. Zero disables spinning.
	pollDuration time.Duration
}

// NewThreadBackend constructs a backend that drives loop. pollDuration is a
// spin-wait window: after serving a wake, keep polling for further wakes
// without blocking for up to this long, to cut latency for burst producers.
// Pass 0 to always block between wakes.
func NewThreadBackend(loop Loop, pollDuration time.Duration) *ThreadBackend {
	return &ThreadBackend{
		loop:         loop,
		timers:       make(map[TimerID]*timerEntry),
		wakeSig:      make(chan struct{}, 1),
		fireCh:       make(chan fireEvent, 64),
		pollDuration: pollDuration,
	}
}

// SetLoop wires the loop this backend drives. Callers that must construct
// the backend before its loop exists (a supervisor needs its backend at
// construction time, and a ThreadBackend needs its loop) call this once,
// before Run, instead of passing loop to NewThreadBackend.
func (b *ThreadBackend) SetLoop(loop Loop) { b.loop = loop }

// Wake implements Backend.
func (b *ThreadBackend) Wake() {
	select {
	case b.wakeSig <- struct{}{}:
	default:
	}
}

// StartTimer implements Backend.
func (b *ThreadBackend) StartTimer(interval time.Duration, fn TimerFiredFunc) TimerID {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	entry := &timerEntry{fn: fn}
	b.timers[id] = entry
	b.mu.Unlock()

	entry.timer = time.AfterFunc(interval, func() {
		b.mu.Lock()
		e, ok := b.timers[id]
		if !ok || e.fired {
			b.mu.Unlock()
			return
		}
		e.fired = true
		delete(b.timers, id)
		b.mu.Unlock()
		b.fireCh <- fireEvent{id: id, fn: fn}
	})
	return id
}

// CancelTimer implements Backend. It always invokes the stored callback
// synchronously with cancelled=true.
func (b *ThreadBackend) CancelTimer(id TimerID) {
	b.mu.Lock()
	e, ok := b.timers[id]
	if !ok || e.fired {
		b.mu.Unlock()
		return
	}
	e.fired = true
	delete(b.timers, id)
	b.mu.Unlock()

	e.timer.Stop()
	e.fn(id, true)
}

// Run implements Backend: drive wakes and timer fires until ctx is done.
func (b *ThreadBackend) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.wakeSig:
			b.loop.OnWake()
			b.drainBurst(ctx)
		case ev := <-b.fireCh:
			ev.fn(ev.id, false)
		}
	}
}

func (b *ThreadBackend) drainBurst(ctx context.Context) {
	if b.pollDuration <= 0 {
		return
	}
	deadline := time.Now().Add(b.pollDuration)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return
		case <-b.wakeSig:
			b.loop.OnWake()
		default:
			return
		}
	}
}
