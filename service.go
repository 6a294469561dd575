package structor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/viant/structor/metrics"
	"github.com/viant/structor/model"
	"github.com/viant/structor/model/graph"
	"github.com/viant/structor/progress"
	"github.com/viant/structor/runtime/orchestrator"
	"github.com/viant/structor/service/branch"
	"github.com/viant/structor/service/field"
	"github.com/viant/structor/service/llm"
	"github.com/viant/structor/service/meta"
)

// errValidationOnly is returned by the placeholder model used by Validate
var errValidationOnly = errors.New("structor: model is not available during validation")

// Service builds extraction components once and runs them against any number of inputs
type Service struct {
	definition      *model.Config
	config          *Config
	model           llm.Model
	registry        *field.Registry
	graph           *graph.Graph
	selector        *branch.Selector
	metaService     *meta.Service
	logger          *slog.Logger
	metrics         *metrics.Metrics
	variables       map[string]interface{}
	onProgress      func(progress.Snapshot)
	fieldOptions    []field.Option
	selectorOptions []branch.Option
}

// New creates a service for the supplied definition, all configuration errors are reported here
func New(definition *model.Config, aModel llm.Model, options ...Option) (*Service, error) {
	s := newService(options)
	if err := s.init(definition, aModel); err != nil {
		return nil, err
	}
	return s, nil
}

// Load loads the definition from URL and creates a service
func Load(ctx context.Context, URL string, aModel llm.Model, options ...Option) (*Service, error) {
	s := newService(options)
	definition, err := s.metaService.Load(ctx, URL)
	if err != nil {
		return nil, err
	}
	if err = s.init(definition, aModel); err != nil {
		return nil, fmt.Errorf("invalid definition %s: %w", URL, err)
	}
	return s, nil
}

// Validate checks the definition without calling any model
func Validate(definition *model.Config) error {
	aModel := llm.ModelFunc(func(ctx context.Context, prompt *llm.Prompt, bindings llm.Bindings) (string, error) {
		return "", errValidationOnly
	})
	_, err := New(definition, aModel, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return err
}

func newService(options []Option) *Service {
	s := &Service{config: DefaultConfig(), logger: slog.Default()}
	for _, opt := range options {
		opt(s)
	}
	if s.metaService == nil {
		s.metaService = meta.New()
	}
	return s
}

func (s *Service) init(definition *model.Config, aModel llm.Model) error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	if err := definition.Validate(); err != nil {
		return err
	}
	s.definition = definition
	s.model = aModel
	var err error
	fieldOptions := append([]field.Option{field.WithLogger(s.logger), field.WithMetrics(s.metrics)}, s.fieldOptions...)
	if s.registry, err = field.New(definition.Fields, aModel, fieldOptions...); err != nil {
		return err
	}
	if !definition.HasWorkflows() {
		return nil
	}
	if s.graph, err = graph.New(definition.Workflows); err != nil {
		return err
	}
	selectorOptions := append([]branch.Option{branch.WithLogger(s.logger)}, s.selectorOptions...)
	if s.selector, err = branch.New(aModel, selectorOptions...); err != nil {
		return err
	}
	// surfaces unknown field references before the first run
	_, err = s.Orchestrator()
	return err
}

// Orchestrator returns a new orchestrator with an empty cache, one orchestrator serves one input
func (s *Service) Orchestrator() (*orchestrator.Orchestrator, error) {
	var selector orchestrator.Selector
	if s.selector != nil {
		selector = s.selector
	}
	return orchestrator.New(s.registry, s.graph, selector,
		orchestrator.WithMode(s.config.Orchestrator.Mode),
		orchestrator.WithWorkers(s.config.Orchestrator.Workers),
		orchestrator.WithLogger(s.logger),
		orchestrator.WithMetrics(s.metrics),
		orchestrator.WithVariables(s.variables),
	)
}

// Run executes the workflow graph, or every declared field when no graph was declared
func (s *Service) Run(ctx context.Context, text string) (*orchestrator.Result, error) {
	anOrchestrator, err := s.Orchestrator()
	if err != nil {
		return nil, err
	}
	return anOrchestrator.Run(s.track(ctx, anOrchestrator), text)
}

// RunFields extracts the requested fields, all declared fields when ids is empty and no graph was declared
func (s *Service) RunFields(ctx context.Context, text string, ids ...string) (*orchestrator.Result, error) {
	anOrchestrator, err := s.Orchestrator()
	if err != nil {
		return nil, err
	}
	return anOrchestrator.RunFields(s.track(ctx, anOrchestrator), text, ids...)
}

func (s *Service) track(ctx context.Context, anOrchestrator *orchestrator.Orchestrator) context.Context {
	if s.onProgress == nil {
		return ctx
	}
	ctx, _ = progress.WithNewTracker(ctx, anOrchestrator.Session(), s.onProgress)
	return ctx
}

// Definition returns the loaded definition
func (s *Service) Definition() *model.Config {
	return s.definition
}

// Registry returns the field registry
func (s *Service) Registry() *field.Registry {
	return s.registry
}

// Graph returns the workflow graph or nil when no workflows were declared
func (s *Service) Graph() *graph.Graph {
	return s.graph
}

// Config returns engine settings
func (s *Service) Config() *Config {
	return s.config
}
