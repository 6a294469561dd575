package field

import (
	"encoding/json"
	"strings"

	"github.com/viant/structor/model"
)

// JSON schema types
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Property represents an object attribute schema
type Property struct {
	Name        string `json:"-"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Schema represents an object field schema derived from attribute examples
type Schema struct {
	Properties []*Property
}

// NewSchema infers a schema from attributes, the example JSON type becomes
// the property type unless the attribute declares one
func NewSchema(attributes []*model.Attribute) *Schema {
	ret := &Schema{}
	for _, attribute := range attributes {
		if attribute == nil || attribute.Name == "" {
			continue
		}
		ret.Properties = append(ret.Properties, &Property{
			Name:        attribute.Name,
			Type:        attributeType(attribute),
			Description: attribute.Describe(),
		})
	}
	return ret
}

func attributeType(attribute *model.Attribute) string {
	switch declared := strings.ToLower(attribute.Type); declared {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeArray, TypeObject:
		return declared
	case string(model.FieldTypeNumeric):
		return TypeNumber
	case string(model.FieldTypeList):
		return TypeArray
	}
	switch attribute.Example.(type) {
	case bool:
		return TypeBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger
	case float32, float64:
		return TypeNumber
	case []interface{}, []string:
		return TypeArray
	case map[string]interface{}:
		return TypeObject
	default:
		return TypeString
	}
}

// JSON returns the schema document with properties in declaration order
func (s *Schema) JSON() string {
	builder := strings.Builder{}
	builder.WriteString(`{"type": "object", "properties": {`)
	for i, property := range s.Properties {
		if i > 0 {
			builder.WriteString(", ")
		}
		name, _ := json.Marshal(property.Name)
		body, _ := json.Marshal(property)
		builder.Write(name)
		builder.WriteString(": ")
		builder.Write(body)
	}
	builder.WriteString(`}, "required": [`)
	for i, property := range s.Properties {
		if i > 0 {
			builder.WriteString(", ")
		}
		name, _ := json.Marshal(property.Name)
		builder.Write(name)
	}
	builder.WriteString("]}")
	return builder.String()
}

// FormatInstructions returns model instructions describing the expected output
func (s *Schema) FormatInstructions() string {
	return "The output should be formatted as a JSON instance that conforms to the JSON schema below.\n\nHere is the output schema:\n" + s.JSON()
}

// Coerce keeps declared attributes only and converts each value to its
// example type. Values that cannot be converted become nil.
func (s *Schema) Coerce(raw map[string]interface{}) map[string]interface{} {
	ret := make(map[string]interface{}, len(s.Properties))
	for _, property := range s.Properties {
		value, ok := raw[property.Name]
		if !ok || value == nil {
			ret[property.Name] = nil
			continue
		}
		ret[property.Name] = property.coerce(value)
	}
	return ret
}

func (p *Property) coerce(value interface{}) interface{} {
	var err error
	switch p.Type {
	case TypeString:
		if text, ok := value.(string); ok {
			return text
		}
		var text string
		err = converter.Convert(value, &text)
		value = text
	case TypeNumber:
		if number, ok := value.(float64); ok {
			return number
		}
		var number float64
		err = converter.Convert(value, &number)
		value = number
	case TypeInteger:
		var number int
		if float, ok := value.(float64); ok && float == float64(int(float)) {
			return int(float)
		}
		err = converter.Convert(value, &number)
		value = number
	case TypeBoolean:
		if flag, ok := value.(bool); ok {
			return flag
		}
		var flag bool
		err = converter.Convert(value, &flag)
		value = flag
	case TypeArray:
		if _, ok := value.([]interface{}); !ok {
			return nil
		}
	case TypeObject:
		if _, ok := value.(map[string]interface{}); !ok {
			return nil
		}
	}
	if err != nil {
		return nil
	}
	return value
}
