// Package config loads supervisor/actor/spawner configuration from YAML,
// matching the cuemby/warren pattern of a plain YAML-tagged struct loaded
// with gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ActorConfig is the YAML-facing mirror of actor.Config.
type ActorConfig struct {
	InitTimeout            time.Duration `yaml:"initTimeout"`
	ShutdownTimeout        time.Duration `yaml:"shutdownTimeout"`
	EscalateFailure        bool          `yaml:"escalateFailure"`
	AutoshutdownSupervisor bool          `yaml:"autoshutdownSupervisor"`
}

// SpawnerConfig is the YAML-facing mirror of spawner.Spawner's tunables.
type SpawnerConfig struct {
	MaxAttempts     int           `yaml:"maxAttempts"`
	RestartPeriod   time.Duration `yaml:"restartPeriod"`
	Policy          string        `yaml:"policy"` // never | always | fail_only | ask_actor
	EscalateFailure bool          `yaml:"escalateFailure"`
}

// SupervisorConfig describes one supervisor and the actors/spawners it
// hosts, as read from a deployment file.
type SupervisorConfig struct {
	Identity      string                   `yaml:"identity"`
	PollInterval  time.Duration            `yaml:"pollInterval"`
	Actor         ActorConfig              `yaml:"actor"`
	Spawners      map[string]SpawnerConfig `yaml:"spawners"`
	RegistryNamed bool                     `yaml:"registry"`
}

// Root is the top-level document: one or more named supervisors sharing a
// process.
type Root struct {
	Supervisors map[string]SupervisorConfig `yaml:"supervisors"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var root Root
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &root, nil
}
