// Package graph validates decision and explanation workflows and derives the
// read-only indexes used at execution time.
package graph

import (
	"fmt"

	"github.com/viant/structor/model"
)

// Candidate represents an explanation workflow a decision workflow can branch into.
type Candidate struct {
	ID      string `json:"id"`
	Explain string `json:"explain"`
}

// Graph represents a validated workflow graph. It is immutable once created.
type Graph struct {
	workflows           []*model.Workflow
	byID                map[string]*model.Workflow
	promptWorkflows     map[string]*model.Workflow
	explainWorkflows    map[string]*model.Workflow
	explainDependencies map[string][]string
	dataRequirements    map[string][]string
	roots               []*model.Workflow
}

// New validates workflows and creates a graph. Any violated rule aborts the
// construction.
func New(workflows []*model.Workflow) (*Graph, error) {
	if len(workflows) == 0 {
		return nil, ErrEmptyWorkflows
	}
	g := &Graph{
		byID:                make(map[string]*model.Workflow, len(workflows)),
		promptWorkflows:     make(map[string]*model.Workflow),
		explainWorkflows:    make(map[string]*model.Workflow),
		explainDependencies: make(map[string][]string),
		dataRequirements:    make(map[string][]string, len(workflows)),
	}
	for i, workflow := range workflows {
		if workflow == nil || workflow.ID == "" {
			return nil, newValidationError("", "id", ErrMissingInstruction, "workflow[%d] has empty id", i)
		}
		if _, ok := g.byID[workflow.ID]; ok {
			return nil, newValidationError(workflow.ID, "id", ErrDuplicateWorkflow, "declared more than once")
		}
		cloned := workflow.Clone()
		g.workflows = append(g.workflows, cloned)
		g.byID[cloned.ID] = cloned
	}
	for _, workflow := range g.workflows {
		if err := g.classify(workflow); err != nil {
			return nil, err
		}
	}
	for _, workflow := range g.workflows {
		if err := g.validateRequires(workflow); err != nil {
			return nil, err
		}
	}
	g.index()
	return g, nil
}

func (g *Graph) classify(workflow *model.Workflow) error {
	switch {
	case workflow.IsDecision():
		g.promptWorkflows[workflow.ID] = workflow
	case workflow.IsExplanation():
		if len(workflow.Requires) == 0 {
			return newValidationError(workflow.ID, "requires", ErrExplainWithoutRequires, "explain workflow must have dependencies")
		}
		if workflow.ID == WorkflowKey || workflow.ID == DataKey {
			return newValidationError(workflow.ID, "id", ErrReservedID, "explain workflow id %q collides with a title key", workflow.ID)
		}
		g.explainWorkflows[workflow.ID] = workflow
	default:
		return newValidationError(workflow.ID, "", ErrMissingInstruction, "must have either prompt or explain")
	}
	for i, fieldID := range workflow.Data {
		if fieldID == "" {
			return newValidationError(workflow.ID, fmt.Sprintf("data[%d]", i), ErrInvalidData, "data field reference was empty")
		}
	}
	return nil
}

func (g *Graph) validateRequires(workflow *model.Workflow) error {
	for _, dependency := range workflow.Requires {
		if _, ok := g.byID[dependency]; !ok {
			return newValidationError(workflow.ID, "requires", ErrUnknownDependency, "unknown workflow %q", dependency)
		}
		_, dependsOnPrompt := g.promptWorkflows[dependency]
		_, dependsOnExplain := g.explainWorkflows[dependency]
		switch {
		case workflow.IsDecision() && dependsOnPrompt:
			return newValidationError(workflow.ID, "requires", ErrPromptDependsOnPrompt, "prompt-based workflow cannot depend on prompt-based workflow %q", dependency)
		case workflow.IsExplanation() && dependsOnExplain:
			return newValidationError(workflow.ID, "requires", ErrExplainDependsOnExplain, "explain workflow cannot depend on explain workflow %q", dependency)
		}
	}
	return nil
}

func (g *Graph) index() {
	for _, workflow := range g.workflows {
		g.dataRequirements[workflow.ID] = workflow.Data
		if workflow.IsDecision() && len(workflow.Requires) == 0 {
			g.roots = append(g.roots, workflow)
		}
		if !workflow.IsExplanation() {
			continue
		}
		for _, dependency := range workflow.Requires {
			if containsString(g.explainDependencies[dependency], workflow.ID) {
				continue
			}
			g.explainDependencies[dependency] = append(g.explainDependencies[dependency], workflow.ID)
		}
	}
}

// Workflows returns all workflows in declaration order
func (g *Graph) Workflows() []*model.Workflow {
	return append([]*model.Workflow(nil), g.workflows...)
}

// RootWorkflows returns decision workflows without dependencies in declaration order
func (g *Graph) RootWorkflows() []*model.Workflow {
	return append([]*model.Workflow(nil), g.roots...)
}

// DataRequirements returns field ids required by a workflow, unknown ids
// yield an empty slice; use Has to check membership.
func (g *Graph) DataRequirements(workflowID string) []string {
	return append([]string{}, g.dataRequirements[workflowID]...)
}

// ExplainCandidates returns explanation workflows that required the decision
// workflow, in declaration order.
func (g *Graph) ExplainCandidates(decisionID string) []Candidate {
	ids := g.explainDependencies[decisionID]
	ret := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		ret = append(ret, Candidate{ID: id, Explain: g.explainWorkflows[id].Explain})
	}
	return ret
}

// ExplainCandidateMap returns explanation workflow id to explanation text mapping
func (g *Graph) ExplainCandidateMap(decisionID string) map[string]string {
	ret := make(map[string]string)
	for _, candidate := range g.ExplainCandidates(decisionID) {
		ret[candidate.ID] = candidate.Explain
	}
	return ret
}

// Lookup returns a workflow by id
func (g *Graph) Lookup(workflowID string) (*model.Workflow, error) {
	workflow, ok := g.byID[workflowID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, workflowID)
	}
	return workflow, nil
}

// Name returns a workflow display name
func (g *Graph) Name(workflowID string) (string, error) {
	workflow, err := g.Lookup(workflowID)
	if err != nil {
		return "", err
	}
	return workflow.DisplayName(), nil
}

// Has returns true if workflow was declared
func (g *Graph) Has(workflowID string) bool {
	_, ok := g.byID[workflowID]
	return ok
}

// FieldIDs returns distinct field ids referenced by any workflow, in declaration order
func (g *Graph) FieldIDs() []string {
	var ret []string
	seen := map[string]bool{}
	for _, workflow := range g.workflows {
		for _, fieldID := range workflow.Data {
			if seen[fieldID] {
				continue
			}
			seen[fieldID] = true
			ret = append(ret, fieldID)
		}
	}
	return ret
}

func containsString(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
