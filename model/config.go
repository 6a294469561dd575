package model

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when an engine configuration declares no data fields.
var ErrNoData = errors.New("model: no data fields declared")

// Config represents an engine configuration: the declared data fields and the
// optional workflow graph, both in declaration order.
type Config struct {
	Fields    []*Field    `json:"data" yaml:"data"`
	Workflows []*Workflow `json:"workflow,omitempty" yaml:"workflow,omitempty"`
}

// Validate checks that the configuration declares at least one field.
// Field and workflow level rules are enforced by the field registry and the
// workflow graph.
func (c *Config) Validate() error {
	if c == nil || len(c.Fields) == 0 {
		return ErrNoData
	}
	for i, field := range c.Fields {
		if field == nil || field.ID == "" {
			return fmt.Errorf("data[%d]: field id was empty", i)
		}
	}
	for i, workflow := range c.Workflows {
		if workflow == nil || workflow.ID == "" {
			return fmt.Errorf("workflow[%d]: workflow id was empty", i)
		}
	}
	return nil
}

// HasWorkflows returns true when a workflow graph was declared.
func (c *Config) HasWorkflows() bool {
	return len(c.Workflows) > 0
}

// Field returns the field with the supplied id or nil.
func (c *Config) Field(id string) *Field {
	for _, candidate := range c.Fields {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}

// Workflow returns the workflow with the supplied id or nil.
func (c *Config) Workflow(id string) *Workflow {
	for _, candidate := range c.Workflows {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}
