package orchestrator

import (
	"log/slog"

	"github.com/viant/structor/metrics"
)

// Mode represents scheduling mode
type Mode string

const (
	// ModeParallel runs requested fields and root workflow steps concurrently
	ModeParallel Mode = "parallel"
	// ModeSequential runs them one at a time in request order
	ModeSequential Mode = "sequential"
)

// DefaultWorkers is the default number of concurrent field executions
const DefaultWorkers = 8

// Option customises an Orchestrator
type Option func(o *Orchestrator)

// WithMode sets scheduling mode
func WithMode(mode Mode) Option {
	return func(o *Orchestrator) {
		if mode != "" {
			o.mode = mode
		}
	}
}

// WithWorkers sets the maximum number of concurrent field executions
func WithWorkers(workers int) Option {
	return func(o *Orchestrator) {
		if workers > 0 {
			o.workers = workers
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets engine collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithVariables sets values substituted into decision workflow prompts
func WithVariables(variables map[string]interface{}) Option {
	return func(o *Orchestrator) {
		o.variables = variables
	}
}
