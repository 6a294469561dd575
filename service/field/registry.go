// Package field builds one executable unit per declared data field. Each field
// type resolves once to a strategy that prompts the model and parses its
// output into a typed value.
package field

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/structor/internal/clock"
	"github.com/viant/structor/metrics"
	"github.com/viant/structor/model"
	"github.com/viant/structor/service/llm"
	"github.com/viant/structor/tracing"
)

// Executor extracts a field value from text. A nil value with nil error means
// the model output could not be parsed.
type Executor func(ctx context.Context, text string) (interface{}, error)

// Registry holds field executors. It is read-only once created and performs
// no caching or concurrency control.
type Registry struct {
	model      llm.Model
	fields     []*model.Field
	byID       map[string]*model.Field
	strategies map[model.FieldType]Strategy
	executors  map[string]Executor
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// New validates fields and creates a registry
func New(fields []*model.Field, aModel llm.Model, options ...Option) (*Registry, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	if aModel == nil {
		return nil, ErrNoModel
	}
	r := &Registry{
		model:      aModel,
		byID:       make(map[string]*model.Field, len(fields)),
		strategies: DefaultStrategies(),
		executors:  make(map[string]Executor, len(fields)),
		logger:     slog.Default(),
	}
	for _, opt := range options {
		opt(r)
	}
	for i, declared := range fields {
		if declared == nil || declared.ID == "" {
			return nil, fmt.Errorf("data[%d]: field id was empty", i)
		}
		if _, ok := r.byID[declared.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, declared.ID)
		}
		if declared.Type == "" {
			return nil, fmt.Errorf("%w: field %s", ErrMissingType, declared.ID)
		}
		strategy, ok := r.strategies[declared.Type]
		if !ok || !declared.Type.IsValid() {
			return nil, fmt.Errorf("%w: %q for field %s", ErrUnsupportedType, declared.Type, declared.ID)
		}
		aField := *declared
		aField.Attributes = append([]*model.Attribute(nil), declared.Attributes...)
		r.fields = append(r.fields, &aField)
		r.byID[aField.ID] = &aField
		r.executors[aField.ID] = r.newExecutor(&aField, strategy)
	}
	return r, nil
}

func (r *Registry) newExecutor(aField *model.Field, strategy Strategy) Executor {
	fieldType := string(aField.Type)
	return func(ctx context.Context, text string) (value interface{}, err error) {
		ctx, span := tracing.StartSpan(ctx, "field.execute "+aField.ID, tracing.KindClient)
		span.WithAttributes(map[string]string{"field.id": aField.ID, "field.type": fieldType})
		started := clock.Now()
		defer func() {
			tracing.EndSpan(span, err)
		}()
		value, err = strategy(ctx, r.model, aField, text)
		elapsed := clock.Since(started)
		switch {
		case err == nil:
			r.metrics.ObserveField(fieldType, metrics.StatusOK, elapsed)
		case errors.Is(err, ErrParse):
			r.metrics.ObserveField(fieldType, metrics.StatusParseError, elapsed)
			r.logger.Warn("unable to parse field value", "field", aField.ID, "type", fieldType, "error", err)
			return nil, nil
		default:
			r.metrics.ObserveField(fieldType, metrics.StatusError, elapsed)
			return nil, fmt.Errorf("field %s: %w", aField.ID, err)
		}
		return value, nil
	}
}

// Executor returns the executor bound to a field
func (r *Registry) Executor(id string) (Executor, error) {
	executor, ok := r.executors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, id)
	}
	return executor, nil
}

// Name returns the field display name, unknown ids return the id
func (r *Registry) Name(id string) string {
	if aField, ok := r.byID[id]; ok {
		return aField.DisplayName()
	}
	return id
}

// IDs returns field ids in declaration order
func (r *Registry) IDs() []string {
	ret := make([]string, 0, len(r.fields))
	for _, aField := range r.fields {
		ret = append(ret, aField.ID)
	}
	return ret
}

// Has returns true if the field was declared
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Field returns the field declaration
func (r *Registry) Field(id string) (*model.Field, error) {
	aField, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, id)
	}
	return aField, nil
}

// Type returns the field type, unknown ids return an empty type
func (r *Registry) Type(id string) model.FieldType {
	if aField, ok := r.byID[id]; ok {
		return aField.Type
	}
	return ""
}
