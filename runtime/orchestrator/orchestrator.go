package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/structor/internal/clock"
	"github.com/viant/structor/internal/idgen"
	"github.com/viant/structor/metrics"
	"github.com/viant/structor/model"
	"github.com/viant/structor/model/graph"
	"github.com/viant/structor/progress"
	"github.com/viant/structor/runtime/cache"
	"github.com/viant/structor/service/branch"
	"github.com/viant/structor/service/field"
	"github.com/viant/structor/tracing"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Registry provides field executors and metadata
type Registry interface {
	Executor(id string) (field.Executor, error)
	Name(id string) string
	IDs() []string
	Has(id string) bool
	Type(id string) model.FieldType
}

// Selector picks explanation workflows
type Selector interface {
	Select(ctx context.Context, request *branch.Request) (string, error)
}

// Orchestrator schedules field extractions and workflow steps for one input
type Orchestrator struct {
	session   string
	registry  Registry
	graph     *graph.Graph
	selector  Selector
	cache     *cache.Cache
	mode      Mode
	workers   int
	pool      *semaphore.Weighted
	variables map[string]interface{}
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New creates an orchestrator, g may be nil in which case Run extracts all
// declared fields
func New(registry Registry, g *graph.Graph, selector Selector, options ...Option) (*Orchestrator, error) {
	if registry == nil {
		return nil, ErrNoRegistry
	}
	if g != nil && selector == nil {
		return nil, ErrNoSelector
	}
	o := &Orchestrator{
		session:  idgen.New(),
		registry: registry,
		graph:    g,
		selector: selector,
		cache:    cache.New(),
		mode:     ModeParallel,
		workers:  DefaultWorkers,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(o)
	}
	switch o.mode {
	case ModeParallel, ModeSequential:
	default:
		return nil, fmt.Errorf("unsupported mode: %s", o.mode)
	}
	if g != nil {
		for _, workflow := range g.Workflows() {
			for _, fieldID := range workflow.Data {
				if !registry.Has(fieldID) {
					return nil, fmt.Errorf("workflow %s: %w: %s", workflow.ID, field.ErrFieldNotFound, fieldID)
				}
			}
		}
	}
	o.pool = semaphore.NewWeighted(int64(o.workers))
	o.logger = o.logger.With("session", o.session)
	return o, nil
}

// Session returns the orchestrator session id
func (o *Orchestrator) Session() string {
	return o.session
}

// Mode returns the scheduling mode
func (o *Orchestrator) Mode() Mode {
	return o.mode
}

// HasWorkflows returns true if a workflow graph was supplied
func (o *Orchestrator) HasWorkflows() bool {
	return o.graph != nil
}

// RunFields resolves fields through the cache. Without ids it resolves all
// declared fields when no workflow graph was supplied, and nothing otherwise.
// On failure the result holds the fields that resolved.
func (o *Orchestrator) RunFields(ctx context.Context, text string, ids ...string) (*Result, error) {
	if len(ids) == 0 && o.graph == nil {
		ids = o.registry.IDs()
	}
	ctx, span := tracing.StartSpan(ctx, "orchestrator.RunFields", tracing.KindInternal)
	span.WithInt("fields", len(ids))
	result, err := o.runFields(ctx, text, ids)
	tracing.EndSpan(span, err)
	return result, err
}

func (o *Orchestrator) runFields(ctx context.Context, text string, ids []string) (*Result, error) {
	ret := NewResult()
	executors := make([]field.Executor, len(ids))
	for i, id := range ids {
		executor, err := o.registry.Executor(id)
		if err != nil {
			return ret, err
		}
		executors[i] = executor
	}
	values := make([]interface{}, len(ids))
	errs := make([]error, len(ids))
	resolve := func(i int) {
		values[i], errs[i] = o.resolve(ctx, ids[i], text, executors[i])
	}
	switch o.mode {
	case ModeSequential:
		for i := range ids {
			resolve(i)
		}
	default:
		group := errgroup.Group{}
		for i := range ids {
			i := i
			group.Go(func() error {
				resolve(i)
				return nil
			})
		}
		_ = group.Wait()
	}
	for i, id := range ids {
		if errs[i] != nil {
			continue
		}
		ret.Results[id] = values[i]
		ret.Titles[id] = o.registry.Name(id)
	}
	return ret, errors.Join(errs...)
}

// resolve returns the cached field value or executes the field on the worker pool
func (o *Orchestrator) resolve(ctx context.Context, id, text string, executor field.Executor) (interface{}, error) {
	value, hit, err := o.cache.Resolve(ctx, id, func(ctx context.Context) (interface{}, error) {
		if err := o.pool.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer o.pool.Release(1)
		progress.UpdateCtx(ctx, progress.Delta{Total: 1, Running: 1})
		value, err := executor(ctx, text)
		if err != nil {
			progress.UpdateCtx(ctx, progress.Delta{Running: -1, Failed: 1})
			return nil, err
		}
		progress.UpdateCtx(ctx, progress.Delta{Running: -1, Completed: 1})
		o.logger.Debug("field resolved", "field", id)
		return value, nil
	})
	if hit {
		o.metrics.CacheHit()
		progress.UpdateCtx(ctx, progress.Delta{Cached: 1})
	}
	return value, err
}

// Run extracts all fields when no workflow graph was supplied, otherwise runs
// one workflow step per root workflow and merges step results by root id.
// Failed steps are omitted from the result and reported as joined *StepError.
func (o *Orchestrator) Run(ctx context.Context, text string) (result *Result, err error) {
	started := clock.Now()
	ctx, span := tracing.StartSpan(ctx, "orchestrator.Run", tracing.KindInternal)
	span.WithAttributes(map[string]string{"session": o.session, "mode": string(o.mode)})
	defer func() {
		tracing.EndSpan(span, err)
		o.logger.Info("run completed", "mode", o.mode, "elapsed", clock.Since(started), "error", err)
	}()
	if o.graph == nil {
		return o.runFields(ctx, text, o.registry.IDs())
	}
	roots := o.graph.RootWorkflows()
	results := make([]*Result, len(roots))
	errs := make([]error, len(roots))
	switch o.mode {
	case ModeSequential:
		for i, root := range roots {
			results[i], errs[i] = o.runStep(ctx, text, root)
		}
	default:
		group := errgroup.Group{}
		for i, root := range roots {
			i, root := i, root
			group.Go(func() error {
				results[i], errs[i] = o.runStep(ctx, text, root)
				return nil
			})
		}
		_ = group.Wait()
	}
	ret := NewResult()
	for i := range roots {
		if errs[i] == nil {
			ret.Merge(results[i])
		}
	}
	return ret, errors.Join(errs...)
}

// runStep executes one root workflow step
func (o *Orchestrator) runStep(ctx context.Context, text string, workflow *model.Workflow) (result *Result, err error) {
	state := StateStart
	ctx, span := tracing.StartSpan(ctx, "orchestrator.step "+workflow.ID, tracing.KindInternal)
	defer func() {
		span.WithAttributes(map[string]string{"workflow": workflow.ID, "state": string(state)})
		if err != nil {
			err = &StepError{WorkflowID: workflow.ID, State: state, Err: err}
			o.logger.Warn("workflow step failed", "workflow", workflow.ID, "state", state, "error", err)
		}
		tracing.EndSpan(span, err)
	}()

	data, err := o.runFields(ctx, text, o.graph.DataRequirements(workflow.ID))
	if err != nil {
		return nil, err
	}
	state = StateDataResolved
	results := data.Results
	titles := data.titleEntry(workflow.DisplayName())

	selected, err := o.selector.Select(ctx, &branch.Request{
		WorkflowID:  workflow.ID,
		Text:        text,
		Instruction: workflow.Prompt,
		Candidates:  o.graph.ExplainCandidates(workflow.ID),
		Context:     o.variables,
	})
	if err != nil {
		o.metrics.BranchSelected(workflow.ID, metrics.StatusError)
		return nil, err
	}
	if selected == branch.NoDecision {
		state = StateNoBranch
		o.metrics.BranchSelected(workflow.ID, "none")
	} else {
		state = StateBranchChosen
		o.metrics.BranchSelected(workflow.ID, metrics.StatusOK)
		progress.UpdateCtx(ctx, progress.Delta{Branches: 1})
		explain, err := o.graph.Lookup(selected)
		if err != nil {
			return nil, err
		}
		explainData, err := o.runFields(ctx, text, o.graph.DataRequirements(selected))
		if err != nil {
			return nil, err
		}
		state = StateExplainDataResolved
		results[selected] = explainData.Results
		titles[selected] = explainData.titleEntry(explain.DisplayName())
	}
	state = StateDone
	progress.UpdateCtx(ctx, progress.Delta{Steps: 1})
	o.logger.Debug("workflow step completed", "workflow", workflow.ID, "branch", selected)
	ret := NewResult()
	ret.Results[workflow.ID] = results
	ret.Titles[workflow.ID] = titles
	return ret, nil
}

// Cached returns sorted ids of resolved fields
func (o *Orchestrator) Cached() []string {
	return o.cache.Keys()
}
