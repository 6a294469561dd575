package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRegistry is returned when an orchestrator is created without a field registry.
	ErrNoRegistry = errors.New("orchestrator: field registry is required")

	// ErrNoSelector is returned when a workflow graph is supplied without a branch selector.
	ErrNoSelector = errors.New("orchestrator: branch selector is required with workflows")
)

// State represents a workflow step state
type State string

// Workflow step states
const (
	StateStart               State = "start"
	StateDataResolved        State = "dataResolved"
	StateBranchChosen        State = "branchChosen"
	StateNoBranch            State = "noBranch"
	StateExplainDataResolved State = "explainDataResolved"
	StateDone                State = "done"
)

// StepError represents a failed workflow step
type StepError struct {
	WorkflowID string
	// State is the last state the step reached before failing
	State State
	Err   error
}

// Error implements error interface
func (e *StepError) Error() string {
	return fmt.Sprintf("workflow %s failed after %s: %v", e.WorkflowID, e.State, e.Err)
}

// Unwrap returns the underlying error
func (e *StepError) Unwrap() error {
	return e.Err
}
