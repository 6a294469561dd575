package model

import "fmt"

// FieldType identifies the execution strategy of a data field.
type FieldType string

const (
	FieldTypeObject  FieldType = "object"
	FieldTypeString  FieldType = "string"
	FieldTypeNumeric FieldType = "numeric"
	FieldTypeList    FieldType = "list"
)

// FieldTypes lists all supported field types.
var FieldTypes = []FieldType{FieldTypeObject, FieldTypeString, FieldTypeNumeric, FieldTypeList}

// IsValid returns true if t is one of the supported field types.
func (t FieldType) IsValid() bool {
	for _, candidate := range FieldTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// Attribute describes a single attribute of an object field. Example carries
// the value given in the configuration: unless Type is set, its JSON type
// becomes the attribute type, and when it is a string it doubles as the
// attribute description.
type Attribute struct {
	Name        string      `json:"name" yaml:"name"`
	Example     interface{} `json:"example,omitempty" yaml:"example,omitempty"`
	Type        string      `json:"type,omitempty" yaml:"type,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
}

// Describe returns a human-readable attribute description.
func (a *Attribute) Describe() string {
	if a.Description != "" {
		return a.Description
	}
	switch actual := a.Example.(type) {
	case string:
		return actual
	case nil:
		return a.Name
	default:
		return fmt.Sprintf("%v", actual)
	}
}

// Field represents a data field declaration
type Field struct {
	// ID is the unique field identifier
	ID string `json:"id" yaml:"id"`

	// Type selects the execution strategy
	Type FieldType `json:"type" yaml:"type"`

	// Prompt is the extraction instruction sent along with the input text
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`

	// Name is the display name, it defaults to ID
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Attributes define the shape of object fields
	Attributes []*Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// DisplayName returns the field name or its ID when no name was declared.
func (f *Field) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

// NewField creates a field with the given id, type and prompt
func NewField(id string, fieldType FieldType, prompt string) *Field {
	return &Field{ID: id, Type: fieldType, Prompt: prompt}
}

// WithName sets the display name
func (f *Field) WithName(name string) *Field {
	f.Name = name
	return f
}

// WithAttribute adds an object attribute
func (f *Field) WithAttribute(name string, example interface{}) *Field {
	f.Attributes = append(f.Attributes, &Attribute{Name: name, Example: example})
	return f
}
