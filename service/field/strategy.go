package field

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/structology/conv"
	"github.com/viant/structor/model"
	"github.com/viant/structor/service/llm"
)

// Strategy extracts and parses a typed value for one field type. Parse
// failures are reported by wrapping ErrParse.
type Strategy func(ctx context.Context, aModel llm.Model, aField *model.Field, text string) (interface{}, error)

// Prompt bindings
const (
	ContentKey            = "content"
	InvocationPromptKey   = "invocation_prompt"
	FormatInstructionsKey = "format_instructions"
)

const (
	numericInstruction = "output only numeric value"
	jsonInstruction    = "Be sure to return a valid json NOT encapsulated in markdown. Do not add any comments or explanations.\n{" + FormatInstructionsKey + "}"
	listInstructions   = `The output should be a JSON object with a single "items" property holding an array of strings, for example: {"items": ["first", "second"]}`
)

var converter = conv.NewConverter(conv.DefaultOptions())

// DefaultStrategies returns the strategy table for supported field types
func DefaultStrategies() map[model.FieldType]Strategy {
	return map[model.FieldType]Strategy{
		model.FieldTypeString:  extractString,
		model.FieldTypeNumeric: extractNumeric,
		model.FieldTypeList:    extractList,
		model.FieldTypeObject:  extractObject,
	}
}

func basePrompt() *llm.Prompt {
	return llm.NewPrompt(llm.User("{"+ContentKey+"}"), llm.User("{"+InvocationPromptKey+"}"))
}

func invoke(ctx context.Context, aModel llm.Model, prompt *llm.Prompt, aField *model.Field, text string, formatInstructions string) (string, error) {
	bindings := llm.Bindings{ContentKey: text, InvocationPromptKey: aField.Prompt}
	if formatInstructions != "" {
		bindings[FormatInstructionsKey] = formatInstructions
	}
	output, err := aModel.Invoke(ctx, prompt, bindings)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

func extractString(ctx context.Context, aModel llm.Model, aField *model.Field, text string) (interface{}, error) {
	return invoke(ctx, aModel, basePrompt(), aField, text, "")
}

func extractNumeric(ctx context.Context, aModel llm.Model, aField *model.Field, text string) (interface{}, error) {
	output, err := invoke(ctx, aModel, basePrompt().Add(llm.User(numericInstruction)), aField, text, "")
	if err != nil {
		return nil, err
	}
	value, err := strconv.ParseFloat(output, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: expected numeric value, got %q", ErrParse, output)
	}
	return value, nil
}

func extractList(ctx context.Context, aModel llm.Model, aField *model.Field, text string) (interface{}, error) {
	output, err := invoke(ctx, aModel, basePrompt().Add(llm.User(jsonInstruction)), aField, text, listInstructions)
	if err != nil {
		return nil, err
	}
	fragment, err := extractJSON(output)
	if err != nil {
		return nil, err
	}
	list := struct {
		Items []interface{} `json:"items"`
	}{}
	if strings.HasPrefix(fragment, "[") {
		err = json.Unmarshal([]byte(fragment), &list.Items)
	} else {
		err = json.Unmarshal([]byte(fragment), &list)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	items := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		switch actual := item.(type) {
		case string:
			items = append(items, actual)
		case nil:
		default:
			items = append(items, fmt.Sprintf("%v", actual))
		}
	}
	return items, nil
}

func extractObject(ctx context.Context, aModel llm.Model, aField *model.Field, text string) (interface{}, error) {
	schema := NewSchema(aField.Attributes)
	output, err := invoke(ctx, aModel, basePrompt().Add(llm.User(jsonInstruction)), aField, text, schema.FormatInstructions())
	if err != nil {
		return nil, err
	}
	fragment, err := extractJSON(output)
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err = json.Unmarshal([]byte(fragment), &raw); err != nil {
		return nil, fmt.Errorf("%w: expected json object: %v", ErrParse, err)
	}
	return schema.Coerce(raw), nil
}
