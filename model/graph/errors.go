package graph

import (
	"errors"
	"fmt"
)

// Graph validation errors. A ValidationError always unwraps to one of them.
var (
	// ErrEmptyWorkflows is returned when no workflow was declared.
	ErrEmptyWorkflows = errors.New("graph: no workflows declared")

	// ErrMissingInstruction is returned when a workflow has neither prompt nor explain.
	ErrMissingInstruction = errors.New("graph: workflow must have either prompt or explain")

	// ErrExplainWithoutRequires is returned when an explanation workflow has no dependencies.
	ErrExplainWithoutRequires = errors.New("graph: explain workflow must have dependencies")

	// ErrExplainDependsOnExplain is returned when an explanation workflow requires another explanation workflow.
	ErrExplainDependsOnExplain = errors.New("graph: explain workflow cannot depend on another explain workflow")

	// ErrPromptDependsOnPrompt is returned when a decision workflow requires another decision workflow.
	ErrPromptDependsOnPrompt = errors.New("graph: prompt workflow cannot depend on another prompt workflow")

	// ErrDuplicateWorkflow is returned when two workflows share an id.
	ErrDuplicateWorkflow = errors.New("graph: duplicate workflow id")

	// ErrReservedID is returned when an explanation workflow id collides with a nested title key.
	ErrReservedID = errors.New("graph: explain workflow id is reserved")

	// ErrUnknownDependency is returned when requires names an undeclared workflow.
	ErrUnknownDependency = errors.New("graph: workflow depends on unknown workflow")

	// ErrInvalidData is returned when a data reference is empty.
	ErrInvalidData = errors.New("graph: data field references must be non-empty strings")

	// ErrWorkflowNotFound is returned by lookups of undeclared workflow ids.
	ErrWorkflowNotFound = errors.New("graph: workflow not found")
)

// Keys a decision's nested title entry uses next to its explanation ids
const (
	WorkflowKey = "workflow"
	DataKey     = "data"
)

// ValidationError describes a violated graph rule.
type ValidationError struct {
	WorkflowID string // offending workflow
	Field      string // offending declaration attribute
	Message    string
	Err        error
}

// Error implements error interface
func (e *ValidationError) Error() string {
	if e.WorkflowID == "" {
		return e.Message
	}
	if e.Field == "" {
		return fmt.Sprintf("workflow %q: %s", e.WorkflowID, e.Message)
	}
	return fmt.Sprintf("workflow %q: %s: %s", e.WorkflowID, e.Field, e.Message)
}

// Unwrap returns the violated rule sentinel
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(workflowID, field string, err error, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		WorkflowID: workflowID,
		Field:      field,
		Message:    fmt.Sprintf(format, args...),
		Err:        err,
	}
}
