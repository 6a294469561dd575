package structor

import (
	"fmt"

	"github.com/viant/structor/runtime/orchestrator"
	"github.com/viant/structor/service/llm/provider"
)

// Config is a serialisable representation of the engine settings. It can be
// populated from JSON, YAML or command line flags, DefaultConfig provides a
// usable starting point.
type Config struct {
	Orchestrator OrchestratorConfig `json:"orchestrator" yaml:"orchestrator"`
	Provider     *provider.Config   `json:"provider,omitempty" yaml:"provider,omitempty"`
}

// OrchestratorConfig controls scheduling
type OrchestratorConfig struct {
	Mode    orchestrator.Mode `json:"mode" yaml:"mode"`
	Workers int               `json:"workers" yaml:"workers"`
}

// DefaultConfig returns parallel scheduling with the default worker pool and the default provider
func DefaultConfig() *Config {
	return &Config{
		Orchestrator: OrchestratorConfig{
			Mode:    orchestrator.ModeParallel,
			Workers: orchestrator.DefaultWorkers,
		},
		Provider: provider.DefaultConfig(),
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Orchestrator.Mode {
	case "", orchestrator.ModeParallel, orchestrator.ModeSequential:
	default:
		return fmt.Errorf("orchestrator.mode: unsupported mode %q", c.Orchestrator.Mode)
	}
	if c.Orchestrator.Workers < 0 {
		return fmt.Errorf("orchestrator.workers must be >= 0")
	}
	if c.Provider != nil {
		if err := c.Provider.Validate(); err != nil {
			return fmt.Errorf("provider: %w", err)
		}
	}
	return nil
}
