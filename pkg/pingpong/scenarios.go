package pingpong

import (
	"context"
	"fmt"
	"time"

	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/backend"
	"github.com/cuemby/hive/pkg/registry"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/spawner"
	"github.com/cuemby/hive/pkg/supervisor"
)

// pollDuration is the spin-wait hint passed to every thread backend this
// package constructs; zero always blocks between wakes.
const pollDuration = 200 * time.Microsecond

// newSupervisor builds a supervisor.Supervisor wired to a dedicated thread
// backend and locality, with its own shutdown signalled on done.
func newSupervisor(identity string, registryAddr *address.Address) (*supervisor.Supervisor, *backend.ThreadBackend, chan struct{}) {
	be := backend.NewThreadBackend(nil, pollDuration)
	sup := supervisor.New(supervisor.Config{
		Identity: identity,
		Locality: address.NewLocality(identity),
		Backend:  be,
		Registry: registryAddr,
	})
	be.SetLoop(sup)
	done := make(chan struct{})
	sup.OnSelfShutdown(func() { close(done) })
	return sup, be, done
}

// runUntilDone starts be.Run on its own goroutine and blocks until done
// fires or the deadline elapses, returning an error in the latter case.
func runUntilDone(be *backend.ThreadBackend, done chan struct{}, deadline time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- be.Run(ctx) }()

	select {
	case <-done:
		cancel()
		<-errc
		return nil
	case <-ctx.Done():
		<-errc
		return fmt.Errorf("scenario did not complete within %s", deadline)
	}
}

// RunBasicPingPong exchanges total ping/pong round-trips between one
// pinger and one ponger hosted on a single supervisor, then reports the
// outstanding ping count (expected zero).
func RunBasicPingPong(total int) (string, error) {
	sup, be, done := newSupervisor("basic", nil)

	pongBase := sup.Spawn(NewPonger(0, ""))
	sup.Spawn(NewDirectPinger(pongBase.Address(), total))
	sup.Start()

	if err := runUntilDone(be, done, 30*time.Second); err != nil {
		return "", err
	}
	return sup.ShutdownReason().Context, nil
}

// RunRequestTimeout sends one correlated ping with a 50% reply-drop rate on
// the ponger side, reporting whether the pong arrived before the timeout.
func RunRequestTimeout(timeout time.Duration) (string, error) {
	sup, be, done := newSupervisor("timeout", nil)

	pongBase := sup.Spawn(NewPonger(0.5, ""))
	sup.Spawn(NewRequestPinger(pongBase.Address(), timeout))
	sup.Start()

	if err := runUntilDone(be, done, timeout+10*time.Second); err != nil {
		return "", err
	}
	return sup.ShutdownReason().Error(), nil
}

// RunRegistryRace discovers a ponger registered under serviceName and links
// to it. Both outcomes of the race are legal per the scenario's own
// definition; the returned string only reports that the scenario completed
// and does not say which way the race went.
func RunRegistryRace(serviceName string) (string, error) {
	regSup, regBe, _ := newSupervisor("registry-host", nil)
	regBase := regSup.Spawn(func(s *supervisor.Supervisor) *actor.Base { return registry.New(s) })
	regSup.Start()
	regAddr := regBase.Address()

	sup, be, done := newSupervisor("race", regAddr)
	sup.Spawn(NewPonger(0, serviceName))
	sup.Spawn(func(s *supervisor.Supervisor) *actor.Base { return NewDiscoverPinger(serviceName, 0)(s) })
	sup.Start()

	regCtx, regCancel := context.WithCancel(context.Background())
	defer regCancel()
	go regBe.Run(regCtx)

	if err := runUntilDone(be, done, 10*time.Second); err != nil {
		return "", err
	}
	return "discovery race resolved (\"yes\" or \"no\" are both legal outcomes)", nil
}

// RunCrossThread hosts a pinger and a ponger on two independent
// supervisors, each on its own goroutine, sharing one registry, and
// exchanges total ping/pong round-trips across the locality boundary.
func RunCrossThread(total int) (string, error) {
	regSup, regBe, _ := newSupervisor("registry-host", nil)
	regBase := regSup.Spawn(func(s *supervisor.Supervisor) *actor.Base { return registry.New(s) })
	regSup.Start()
	regAddr := regBase.Address()

	const serviceName = "service:ponger"
	supB, beB, doneB := newSupervisor("ponger-host", regAddr)
	supB.Spawn(NewPonger(0, serviceName))
	supB.Start()

	supA, beA, doneA := newSupervisor("pinger-host", regAddr)
	supA.Spawn(NewDiscoverPinger(serviceName, total))
	supA.Start()

	regCtx, regCancel := context.WithCancel(context.Background())
	defer regCancel()
	go regBe.Run(regCtx)

	errc := make(chan error, 2)
	go func() { errc <- runUntilDone(beB, doneB, 60*time.Second) }()
	go func() { errc <- runUntilDone(beA, doneA, 60*time.Second) }()

	for i := 0; i < 2; i++ {
		if err := <-errc; err != nil {
			return "", err
		}
	}
	return "both supervisors reached shut_down; inbound queues drained", nil
}

// RunSpawner hosts a request-pinger under a fail_only spawner with
// maxAttempts restarts, against a ponger that drops replies with high
// probability, and reports whether the spawner exhausted its attempts.
func RunSpawner(maxAttempts int, timeout time.Duration) (string, error) {
	sup, be, done := newSupervisor("spawner", nil)

	pongBase := sup.Spawn(NewPonger(0.925, ""))
	pongerAddr := pongBase.Address()

	onSuccess := func() {
		sup.BeginShutdown(rerror.New("pinger succeeded", rerror.NormalShutdown, nil, nil), nil)
	}
	sp := spawner.New(sup, "pinger-spawner",
		func(s *supervisor.Supervisor) *actor.Base { return NewSpawnedRequestPinger(pongerAddr, timeout, onSuccess)(s) },
		maxAttempts, 10*time.Millisecond, spawner.FailOnly, true)
	sp.SpawnInitial()
	sup.Start()

	if err := runUntilDone(be, done, timeout*time.Duration(maxAttempts+2)+10*time.Second); err != nil {
		return "", err
	}
	return sup.ShutdownReason().Error(), nil
}
