package meta

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/viant/structor/model"
)

type hclConfig struct {
	Fields    []*hclField    `hcl:"field,block"`
	Workflows []*hclWorkflow `hcl:"workflow,block"`
}

type hclField struct {
	ID         string          `hcl:"id,label"`
	Type       string          `hcl:"type"`
	Prompt     string          `hcl:"prompt,optional"`
	Name       string          `hcl:"name,optional"`
	Attributes []*hclAttribute `hcl:"attribute,block"`
}

type hclAttribute struct {
	Name        string `hcl:"name,label"`
	Type        string `hcl:"type,optional"`
	Description string `hcl:"description,optional"`
}

type hclWorkflow struct {
	ID          string   `hcl:"id,label"`
	Prompt      string   `hcl:"prompt,optional"`
	Explain     string   `hcl:"explain,optional"`
	Requires    []string `hcl:"requires,optional"`
	Data        []string `hcl:"data,optional"`
	Name        string   `hcl:"name,optional"`
	Description string   `hcl:"description,optional"`
}

// DecodeHCL decodes HCL configuration:
//
//	field "<id>" {
//	  type   = "object"
//	  prompt = "..."
//	  attribute "<name>" { type = "string" description = "..." }
//	}
//	workflow "<id>" { prompt = "..." data = ["<fieldID>"] }
func DecodeHCL(data []byte, filename string) (*model.Config, error) {
	if filename == "" {
		filename = "config.hcl"
	}
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, filename, diags)
	}
	var decoded hclConfig
	if diags = gohcl.DecodeBody(file.Body, nil, &decoded); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrInvalidConfig, filename, diags)
	}
	config := &model.Config{}
	for _, declared := range decoded.Fields {
		aField := &model.Field{
			ID:     declared.ID,
			Type:   model.FieldType(declared.Type),
			Prompt: declared.Prompt,
			Name:   declared.Name,
		}
		for _, attribute := range declared.Attributes {
			aField.Attributes = append(aField.Attributes, &model.Attribute{
				Name:        attribute.Name,
				Type:        attribute.Type,
				Description: attribute.Description,
			})
		}
		config.Fields = append(config.Fields, aField)
	}
	for _, declared := range decoded.Workflows {
		config.Workflows = append(config.Workflows, &model.Workflow{
			ID:          declared.ID,
			Prompt:      declared.Prompt,
			Explain:     declared.Explain,
			Requires:    declared.Requires,
			Data:        declared.Data,
			Name:        declared.Name,
			Description: declared.Description,
		})
	}
	return config, nil
}
