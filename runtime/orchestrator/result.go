package orchestrator

import "github.com/viant/structor/model/graph"

// Result represents extracted values and their display titles.
//
// For plain field runs Results maps field id to value and Titles maps field id
// to display name. For workflow runs both are keyed by root workflow id:
//
//	results[wf] = {field: value, ..., explainID: {field: value, ...}}
//	titles[wf]  = {"workflow": name, "data": {field: title}, explainID: {"workflow": name, "data": {...}}}
type Result struct {
	Results map[string]interface{} `json:"results"`
	Titles  map[string]interface{} `json:"titles"`
}

// Title keys
const (
	WorkflowKey = graph.WorkflowKey
	DataKey     = graph.DataKey
)

// NewResult creates an empty result
func NewResult() *Result {
	return &Result{Results: map[string]interface{}{}, Titles: map[string]interface{}{}}
}

// Merge copies top-level entries of other into r
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	for k, v := range other.Results {
		r.Results[k] = v
	}
	for k, v := range other.Titles {
		r.Titles[k] = v
	}
}

func (r *Result) titleEntry(name string) map[string]interface{} {
	return map[string]interface{}{WorkflowKey: name, DataKey: r.Titles}
}
