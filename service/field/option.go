package field

import (
	"log/slog"

	"github.com/viant/structor/metrics"
	"github.com/viant/structor/model"
)

// Option customises a Registry
type Option func(r *Registry)

// WithLogger sets the logger used to report parse failures
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets field execution collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithStrategy overrides the strategy of a supported field type, other types are ignored
func WithStrategy(fieldType model.FieldType, strategy Strategy) Option {
	return func(r *Registry) {
		if fieldType.IsValid() && strategy != nil {
			r.strategies[fieldType] = strategy
		}
	}
}
