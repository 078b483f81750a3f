// Package spawner implements the restart-policy engine: it owns an actor
// factory and respawns the actor it produces according to a restart policy
// whenever it reaches SHUT_DOWN.
package spawner

import (
	"time"

	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/backend"
	"github.com/cuemby/hive/pkg/metrics"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/supervisor"
	"github.com/google/uuid"
)

// Policy decides whether a spawned actor gets respawned after it shuts
// down.
type Policy int

const (
	Never Policy = iota
	Always
	FailOnly
	AskActor
)

func (p Policy) String() string {
	switch p {
	case Never:
		return "never"
	case Always:
		return "always"
	case FailOnly:
		return "fail_only"
	case AskActor:
		return "ask_actor"
	default:
		return "unknown"
	}
}

// Factory constructs a fresh actor instance hosted by sup.
type Factory func(sup *supervisor.Supervisor) *actor.Base

// Spawner owns one factory and respawns its product according to Policy,
// up to MaxAttempts times, waiting RestartPeriod between attempts.
type Spawner struct {
	Identity        string
	Factory         Factory
	MaxAttempts     int
	RestartPeriod   time.Duration
	Policy          Policy
	EscalateFailure bool

	sup          *supervisor.Supervisor
	attemptsLeft int
	current      *actor.Base

	// generation uniquely identifies the current spawned instance across
	// restarts, for log correlation between an actor's crash and its
	// replacement.
	generation string
}

// New constructs a spawner attached to sup. MaxAttempts <= 0 means
// unlimited restarts.
func New(sup *supervisor.Supervisor, identity string, factory Factory, maxAttempts int, restartPeriod time.Duration, policy Policy, escalateFailure bool) *Spawner {
	sp := &Spawner{
		Identity:        identity,
		Factory:         factory,
		MaxAttempts:     maxAttempts,
		RestartPeriod:   restartPeriod,
		Policy:          policy,
		EscalateFailure: escalateFailure,
		sup:             sup,
		attemptsLeft:    maxAttempts,
	}
	sup.OnChildShutdown(sp.onChildShutdown)
	return sp
}

// SpawnInitial produces the first instance.
func (sp *Spawner) SpawnInitial() *actor.Base {
	sp.generation = uuid.New().String()
	sp.current = sp.sup.Spawn(sp.Factory)
	sp.sup.Log().Info().Str("spawner", sp.Identity).Str("generation", sp.generation).Msg("spawned initial instance")
	return sp.current
}

// Current returns the actor this spawner is currently hosting, nil between
// a shutdown and the next restart.
func (sp *Spawner) Current() *actor.Base { return sp.current }

func (sp *Spawner) onChildShutdown(child *actor.Base) {
	if child != sp.current {
		return
	}
	sp.current = nil

	if !sp.decide(child) {
		return
	}

	if sp.MaxAttempts > 0 && sp.attemptsLeft <= 0 {
		if sp.EscalateFailure {
			reason := rerror.New(sp.Identity+": restart attempts exhausted", rerror.FailureEscalation, child.ShutdownReason(), nil)
			sp.sup.BeginShutdown(reason, nil)
		}
		return
	}
	if sp.MaxAttempts > 0 {
		sp.attemptsLeft--
	}

	metrics.SpawnerRestartsTotal.WithLabelValues(sp.Identity).Inc()
	prevGeneration := sp.generation
	supervisor.After(&sp.sup.Base, sp.RestartPeriod, func(_ backend.TimerID, cancelled bool) {
		if cancelled {
			return
		}
		sp.generation = uuid.New().String()
		sp.current = sp.sup.Spawn(sp.Factory)
		sp.sup.Log().Info().Str("spawner", sp.Identity).
			Str("previous_generation", prevGeneration).
			Str("generation", sp.generation).
			Msg("respawned instance")
	})
}

func (sp *Spawner) decide(child *actor.Base) bool {
	switch sp.Policy {
	case Never:
		return false
	case Always:
		return true
	case FailOnly:
		reason := child.ShutdownReason()
		return reason != nil && reason.Root().Code != rerror.NormalShutdown
	case AskActor:
		return child.ShouldRestart()
	default:
		return false
	}
}
