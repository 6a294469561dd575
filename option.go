package structor

import (
	"log/slog"

	"github.com/viant/structor/metrics"
	"github.com/viant/structor/progress"
	"github.com/viant/structor/runtime/orchestrator"
	"github.com/viant/structor/service/branch"
	"github.com/viant/structor/service/field"
	"github.com/viant/structor/service/meta"
	"github.com/viant/structor/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises a Service
type Option func(s *Service)

// WithConfig sets engine settings
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithMode sets orchestrator scheduling mode
func WithMode(mode orchestrator.Mode) Option {
	return func(s *Service) {
		s.config.Orchestrator.Mode = mode
	}
}

// WithWorkers sets the number of concurrent field executions
func WithWorkers(workers int) Option {
	return func(s *Service) {
		s.config.Orchestrator.Workers = workers
	}
}

// WithLogger sets the logger shared by all components
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics shared by all components
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithMetaService sets the configuration loader used by Load
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithVariables sets values for {name} placeholders in decision prompts
func WithVariables(variables map[string]interface{}) Option {
	return func(s *Service) {
		s.variables = variables
	}
}

// WithProgress registers a callback receiving progress snapshots of every run
func WithProgress(onChange func(progress.Snapshot)) Option {
	return func(s *Service) {
		s.onProgress = onChange
	}
}

// WithFieldOptions passes additional options to the field registry
func WithFieldOptions(options ...field.Option) Option {
	return func(s *Service) {
		s.fieldOptions = append(s.fieldOptions, options...)
	}
}

// WithSelectorOptions passes additional options to the branch selector
func WithSelectorOptions(options ...branch.Option) Option {
	return func(s *Service) {
		s.selectorOptions = append(s.selectorOptions, options...)
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.logger.Warn("failed to initialise tracing", "error", err)
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.logger.Warn("failed to initialise tracing", "error", err)
		}
	}
}
