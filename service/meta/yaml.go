package meta

import (
	"fmt"
	"strings"

	"github.com/viant/structor/internal/yml"
	"github.com/viant/structor/model"
	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes YAML or JSON configuration:
//
//	data:
//	  <fieldID>: {type: ..., prompt: ..., name: ..., attributes: {<name>: <example>}}
//	workflow:
//	  <workflowID>: {prompt|explain: ..., requires: [...], data: [...], name: ..., description: ...}
func DecodeYAML(data []byte) (*model.Config, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	root := (*yml.Node)(&node).Root()
	if !root.IsMap() {
		return nil, fmt.Errorf("%w: expected mapping at document root", ErrInvalidConfig)
	}
	config := &model.Config{}
	err := root.Pairs(func(key string, node *yml.Node) error {
		switch strings.ToLower(key) {
		case "data":
			return decodeFields(node, config)
		case "workflow", "workflows":
			return decodeWorkflows(node, config)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return config, nil
}

func decodeFields(node *yml.Node, config *model.Config) error {
	if node.IsNull() {
		return nil
	}
	if !node.IsMap() {
		return fmt.Errorf("%w: data must be a mapping", ErrInvalidConfig)
	}
	return node.Pairs(func(id string, node *yml.Node) error {
		if !node.IsMap() {
			return fmt.Errorf("%w: configuration for key '%s' must be a mapping", ErrInvalidConfig, id)
		}
		aField := &model.Field{ID: id}
		err := node.Pairs(func(key string, value *yml.Node) error {
			switch strings.ToLower(key) {
			case "type":
				aField.Type = model.FieldType(strings.ToLower(value.String()))
			case "prompt":
				aField.Prompt = value.String()
			case "name":
				aField.Name = value.String()
			case "attributes":
				return decodeAttributes(id, value, aField)
			}
			return nil
		})
		if err != nil {
			return err
		}
		config.Fields = append(config.Fields, aField)
		return nil
	})
}

func decodeAttributes(fieldID string, node *yml.Node, aField *model.Field) error {
	if !node.IsMap() {
		return fmt.Errorf("%w: attributes of '%s' must be a mapping", ErrInvalidConfig, fieldID)
	}
	return node.Pairs(func(name string, value *yml.Node) error {
		aField.Attributes = append(aField.Attributes, &model.Attribute{Name: name, Example: value.Interface()})
		return nil
	})
}

func decodeWorkflows(node *yml.Node, config *model.Config) error {
	if node.IsNull() {
		return nil
	}
	if !node.IsMap() {
		return fmt.Errorf("%w: workflow must be a mapping", ErrInvalidConfig)
	}
	return node.Pairs(func(id string, node *yml.Node) error {
		if !node.IsMap() {
			return fmt.Errorf("%w: workflow '%s' must be a mapping", ErrInvalidConfig, id)
		}
		workflow := &model.Workflow{ID: id}
		err := node.Pairs(func(key string, value *yml.Node) error {
			var err error
			switch strings.ToLower(key) {
			case "prompt":
				workflow.Prompt = value.String()
			case "explain":
				workflow.Explain = value.String()
			case "name":
				workflow.Name = value.String()
			case "description":
				workflow.Description = value.String()
			case "requires":
				if workflow.Requires, err = value.Strings(); err != nil {
					return fmt.Errorf("%w: requires of workflow '%s': %v", ErrInvalidConfig, id, err)
				}
			case "data":
				if !value.IsSequence() && !value.IsNull() {
					return fmt.Errorf("%w: data field for workflow '%s' must be a list", ErrInvalidConfig, id)
				}
				if workflow.Data, err = value.Strings(); err != nil {
					return fmt.Errorf("%w: data field references in workflow '%s' must be strings", ErrInvalidConfig, id)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		config.Workflows = append(config.Workflows, workflow)
		return nil
	})
}
