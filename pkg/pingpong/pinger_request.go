package pingpong

import (
	"time"

	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/actor/plugin"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/supervisor"
)

// RequestPinger sends a single Ping through the request/response
// correlator and records whether it received a timely Pong or a timeout,
// the shape both the request-timeout and spawner-restart scenarios need.
type RequestPinger struct {
	actor.Base
	pipeline *plugin.Pipeline

	sup     *supervisor.Supervisor
	ponger  *address.Address
	timeout time.Duration

	// managedBySpawner: when true, this actor only ever shuts itself down
	// (never its supervisor) and reports failure through its own shutdown
	// reason, leaving the restart/escalate decision to the spawner hosting
	// it. When false, it shuts its supervisor down directly once the
	// single request resolves, for standalone (non-spawner) use.
	managedBySpawner bool

	// OnSuccess, if set, runs when managedBySpawner and the request
	// succeeds, right before the actor shuts itself down. A spawner
	// scenario driver uses this to end the whole run once no further
	// restart will happen.
	OnSuccess func()

	// Outcome is set once the single request resolves: true for a
	// received pong, false for a timeout.
	Outcome    bool
	OutcomeErr *rerror.Error
	Done       bool
}

// NewRequestPinger returns a factory constructing a pinger that sends one
// correlated ping to ponger with the given timeout, then shuts its
// supervisor down once the outcome is known. Use this for the standalone
// request-timeout scenario.
func NewRequestPinger(ponger *address.Address, timeout time.Duration) func(sup *supervisor.Supervisor) *actor.Base {
	return newRequestPinger(ponger, timeout, false, nil)
}

// NewSpawnedRequestPinger is like NewRequestPinger but never touches its
// supervisor directly on failure: it shuts itself down with the failure
// reason on timeout, for a spawner.Spawner to observe and decide whether to
// respawn. onSuccess runs once a request finally succeeds.
func NewSpawnedRequestPinger(ponger *address.Address, timeout time.Duration, onSuccess func()) func(sup *supervisor.Supervisor) *actor.Base {
	return newRequestPinger(ponger, timeout, true, onSuccess)
}

func newRequestPinger(ponger *address.Address, timeout time.Duration, managedBySpawner bool, onSuccess func()) func(sup *supervisor.Supervisor) *actor.Base {
	return func(sup *supervisor.Supervisor) *actor.Base {
		p := &RequestPinger{sup: sup, ponger: ponger, timeout: timeout, managedBySpawner: managedBySpawner, OnSuccess: onSuccess}
		p.pipeline = plugin.NewPipeline()
		p.Base = *actor.NewBase("pinger", sup, actor.Config{}, p.pipeline.Plugins()...)
		p.SetOnStart(p.sendRequest)
		return &p.Base
	}
}

func (p *RequestPinger) sendRequest() {
	supervisor.Send[Ping, Pong](p.sup, &p.Base, p.ponger, Ping{Seq: 1}, p.timeout, p.onReply)
}

func (p *RequestPinger) onReply(resp supervisor.Response[Pong]) {
	p.Done = true
	p.OutcomeErr = resp.Err
	p.Outcome = resp.Err == nil

	if p.managedBySpawner {
		if resp.Err == nil && p.OnSuccess != nil {
			p.OnSuccess()
		}
		p.BeginShutdown(resp.Err, nil)
		return
	}
	if resp.Err != nil {
		p.sup.BeginShutdown(rerror.New("pinger request failed", rerror.ChildDown, resp.Err, nil), nil)
		return
	}
	p.sup.BeginShutdown(rerror.New("pinger done", rerror.NormalShutdown, nil, nil), nil)
}
