package model

// Workflow represents a decision or explanation workflow declaration.
//
// A decision workflow carries a Prompt: a question posed against the input
// text whose answer selects one of the explanation workflows that require it.
// An explanation workflow carries Explain and runs only after the decision
// workflow it requires picked it.
type Workflow struct {
	// ID is the unique workflow identifier
	ID string `json:"id" yaml:"id"`

	// Prompt is the decision instruction
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`

	// Explain is the explanation instruction, listed to the branch selector
	Explain string `json:"explain,omitempty" yaml:"explain,omitempty"`

	// Requires lists workflow ids this workflow depends on
	Requires []string `json:"requires,omitempty" yaml:"requires,omitempty"`

	// Data lists field ids resolved when the workflow runs
	Data []string `json:"data,omitempty" yaml:"data,omitempty"`

	// Name is the display name, it defaults to ID
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Description provides a human-readable description of the workflow
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsDecision returns true for workflows declaring a prompt.
func (w *Workflow) IsDecision() bool {
	return w.Prompt != ""
}

// IsExplanation returns true for workflows declaring only an explanation.
func (w *Workflow) IsExplanation() bool {
	return w.Prompt == "" && w.Explain != ""
}

// DisplayName returns the workflow name or its ID when no name was declared.
func (w *Workflow) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.ID
}

// NewDecision creates a decision workflow
func NewDecision(id, prompt string) *Workflow {
	return &Workflow{ID: id, Prompt: prompt}
}

// NewExplanation creates an explanation workflow requiring the supplied decisions
func NewExplanation(id, explain string, requires ...string) *Workflow {
	return &Workflow{ID: id, Explain: explain, Requires: requires}
}

// WithData appends required field ids
func (w *Workflow) WithData(fieldIDs ...string) *Workflow {
	w.Data = append(w.Data, fieldIDs...)
	return w
}

// WithRequires appends required workflow ids
func (w *Workflow) WithRequires(workflowIDs ...string) *Workflow {
	w.Requires = append(w.Requires, workflowIDs...)
	return w
}

// WithName sets the display name
func (w *Workflow) WithName(name string) *Workflow {
	w.Name = name
	return w
}

// WithDescription sets the description
func (w *Workflow) WithDescription(description string) *Workflow {
	w.Description = description
	return w
}

// Clone returns a deep copy of the workflow
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}
	ret := *w
	ret.Requires = append([]string(nil), w.Requires...)
	ret.Data = append([]string(nil), w.Data...)
	return &ret
}
