package actor

import (
	"time"

	"github.com/cuemby/hive/pkg/address"
)

// Config holds the per-actor configuration fields: init/shutdown timeouts
// and the failure-escalation/autoshutdown hooks into the hosting
// supervisor.
type Config struct {
	InitTimeout     time.Duration
	ShutdownTimeout time.Duration

	SpawnerAddress *address.Address

	EscalateFailure        bool
	AutoshutdownSupervisor bool
}
