package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateNew, "new"},
		{StateInitializing, "initializing"},
		{StateInitialized, "initialized"},
		{StateOperational, "operational"},
		{StateShuttingDown, "shutting_down"},
		{StateShutDown, "shut_down"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
		want bool
	}{
		{"monotonic forward", StateNew, StateInitializing, true},
		{"skip ahead still forward", StateInitializing, StateOperational, true},
		{"same state rejected", StateOperational, StateOperational, false},
		{"backward rejected", StateOperational, StateInitializing, false},
		{"early failure escape", StateNew, StateShuttingDown, true},
		{"early failure escape is the only backward-looking exception", StateInitializing, StateNew, false},
		{"terminal to anything rejected", StateShutDown, StateNew, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canTransition(tt.from, tt.to))
		})
	}
}
