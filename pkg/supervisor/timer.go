package supervisor

import (
	"time"

	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/backend"
)

// After arms a one-shot timer on host, owned by host so shutdown cancels it
// automatically. fn is invoked with cancelled=true if the actor shuts down,
// or the timer is cancelled, before it fires.
func After(host *actor.Base, d time.Duration, fn backend.TimerFiredFunc) backend.TimerID {
	return host.StartTimer(d, fn)
}

// Every re-arms a timer on every fire, matching the ticker idiom used
// elsewhere in this codebase, except timers are cooperative (fired from
// the locality's own dispatch loop, never a separate goroutine) and always
// owned by host, so shutdown stops the cadence without an explicit Stop
// call. fn is not invoked when the cadence is torn down, and the timer is
// not re-armed after a cancellation. The returned id is that of the first
// timer only: cancelling it stops the cadence before the first fire, but
// has no effect once the timer has been re-armed.
func Every(host *actor.Base, interval time.Duration, fn func()) backend.TimerID {
	var id backend.TimerID
	var tick backend.TimerFiredFunc
	tick = func(firedID backend.TimerID, cancelled bool) {
		if cancelled {
			return
		}
		fn()
		id = host.StartTimer(interval, tick)
	}
	id = host.StartTimer(interval, tick)
	return id
}
