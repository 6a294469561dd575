package field

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/structor/metrics"
	"github.com/viant/structor/model"
	"github.com/viant/structor/service/llm"
)

// answerModel returns the answer registered for the field prompt
func answerModel(answers map[string]string) llm.Model {
	return llm.ModelFunc(func(ctx context.Context, prompt *llm.Prompt, bindings llm.Bindings) (string, error) {
		instruction := bindings[InvocationPromptKey].(string)
		answer, ok := answers[instruction]
		if !ok {
			return "", errors.New("unexpected prompt: " + instruction)
		}
		return answer, nil
	})
}

func TestNew(t *testing.T) {
	aModel := answerModel(nil)
	testCases := []struct {
		name   string
		fields []*model.Field
		model  llm.Model
		expect error
	}{
		{name: "no fields", model: aModel, expect: ErrNoFields},
		{name: "no model", fields: []*model.Field{model.NewField("f1", model.FieldTypeString, "p")}, expect: ErrNoModel},
		{name: "missing type", fields: []*model.Field{{ID: "f1", Prompt: "p"}}, model: aModel, expect: ErrMissingType},
		{name: "unsupported type", fields: []*model.Field{model.NewField("f1", "date", "p")}, model: aModel, expect: ErrUnsupportedType},
		{
			name: "duplicate",
			fields: []*model.Field{
				model.NewField("f1", model.FieldTypeString, "p"),
				model.NewField("f1", model.FieldTypeNumeric, "p"),
			},
			model:  aModel,
			expect: ErrDuplicateField,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			registry, err := New(tc.fields, tc.model)
			assert.Nil(t, registry)
			assert.ErrorIs(t, err, tc.expect)
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	registry, err := New([]*model.Field{
		model.NewField("price", model.FieldTypeNumeric, "price?").WithName("Price"),
		model.NewField("summary", model.FieldTypeString, "summary?"),
	}, answerModel(nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"price", "summary"}, registry.IDs())
	assert.Equal(t, "Price", registry.Name("price"))
	assert.Equal(t, "summary", registry.Name("summary"))
	assert.Equal(t, "unknown", registry.Name("unknown"))
	assert.True(t, registry.Has("price"))
	assert.False(t, registry.Has("unknown"))
	assert.Equal(t, model.FieldTypeNumeric, registry.Type("price"))

	aField, err := registry.Field("price")
	require.NoError(t, err)
	assert.Equal(t, "price?", aField.Prompt)

	_, err = registry.Executor("unknown")
	assert.ErrorIs(t, err, ErrFieldNotFound)
	_, err = registry.Field("unknown")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestRegistry_Executor(t *testing.T) {
	answers := map[string]string{
		"price?":    " 42 ",
		"broken?":   "not-a-number",
		"summary?":  "  ok\n",
		"tags?":     "```json\n{\"items\": [\"a\", \"b\"]}\n```",
		"address?":  `Sure: {"city": "Paris", "zip": 75001, "verified": true, "extra": "dropped"}`,
		"failing?":  "",
		"badlist?":  "no json here",
		"rawlist?":  `["x", 1]`,
		"emptyobj?": `{}`,
	}
	fields := []*model.Field{
		model.NewField("price", model.FieldTypeNumeric, "price?"),
		model.NewField("broken", model.FieldTypeNumeric, "broken?"),
		model.NewField("summary", model.FieldTypeString, "summary?"),
		model.NewField("tags", model.FieldTypeList, "tags?"),
		model.NewField("address", model.FieldTypeObject, "address?").
			WithAttribute("city", "city name").
			WithAttribute("zip", 1).
			WithAttribute("verified", false),
		model.NewField("badlist", model.FieldTypeList, "badlist?"),
		model.NewField("rawlist", model.FieldTypeList, "rawlist?"),
		model.NewField("emptyobj", model.FieldTypeObject, "emptyobj?").WithAttribute("city", "city name"),
	}
	registry, err := New(fields, answerModel(answers))
	require.NoError(t, err)

	testCases := []struct {
		id       string
		expected interface{}
	}{
		{id: "price", expected: 42.0},
		{id: "broken", expected: nil},
		{id: "summary", expected: "ok"},
		{id: "tags", expected: []string{"a", "b"}},
		{id: "address", expected: map[string]interface{}{"city": "Paris", "zip": 75001, "verified": true}},
		{id: "badlist", expected: nil},
		{id: "rawlist", expected: []string{"x", "1"}},
		{id: "emptyobj", expected: map[string]interface{}{"city": nil}},
	}
	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			executor, err := registry.Executor(tc.id)
			require.NoError(t, err)
			value, err := executor(context.Background(), "input text")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func TestRegistry_Executor_ModelError(t *testing.T) {
	failing := llm.ModelFunc(func(ctx context.Context, prompt *llm.Prompt, bindings llm.Bindings) (string, error) {
		return "", errors.New("quota exceeded")
	})
	promRegistry := prometheus.NewRegistry()
	m := metrics.MustNew(promRegistry)
	registry, err := New([]*model.Field{model.NewField("f1", model.FieldTypeString, "p")}, failing, WithMetrics(m))
	require.NoError(t, err)

	executor, err := registry.Executor("f1")
	require.NoError(t, err)
	value, err := executor(context.Background(), "text")
	assert.Nil(t, value)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "f1")

	count, err := testutil.GatherAndCount(promRegistry, "structor_field_executions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegistry_Prompts(t *testing.T) {
	var prompts []*llm.Prompt
	var bindings []llm.Bindings
	recording := llm.ModelFunc(func(ctx context.Context, prompt *llm.Prompt, b llm.Bindings) (string, error) {
		prompts = append(prompts, prompt)
		bindings = append(bindings, b)
		return `{"items": []}`, nil
	})
	registry, err := New([]*model.Field{
		model.NewField("s", model.FieldTypeString, "s?"),
		model.NewField("n", model.FieldTypeNumeric, "n?"),
		model.NewField("l", model.FieldTypeList, "l?"),
	}, recording)
	require.NoError(t, err)
	for _, id := range registry.IDs() {
		executor, err := registry.Executor(id)
		require.NoError(t, err)
		_, err = executor(context.Background(), "text {with} braces")
		require.NoError(t, err)
	}
	require.Len(t, prompts, 3)

	rendered, err := prompts[0].Render(bindings[0])
	require.NoError(t, err)
	assert.Equal(t, []llm.RenderedMessage{
		{Role: llm.RoleUser, Text: "text {with} braces"},
		{Role: llm.RoleUser, Text: "s?"},
	}, rendered)

	rendered, err = prompts[1].Render(bindings[1])
	require.NoError(t, err)
	require.Len(t, rendered, 3)
	assert.Equal(t, "output only numeric value", rendered[2].Text)

	rendered, err = prompts[2].Render(bindings[2])
	require.NoError(t, err)
	require.Len(t, rendered, 3)
	assert.Contains(t, rendered[2].Text, "NOT encapsulated in markdown")
	assert.Contains(t, rendered[2].Text, `"items"`)
}

func TestWithStrategy(t *testing.T) {
	var calls int32
	custom := func(ctx context.Context, aModel llm.Model, aField *model.Field, text string) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return len(text), nil
	}

	t.Run("overrides supported type", func(t *testing.T) {
		registry, err := New([]*model.Field{model.NewField("length", model.FieldTypeString, "")}, answerModel(nil), WithStrategy(model.FieldTypeString, custom))
		require.NoError(t, err)
		executor, err := registry.Executor("length")
		require.NoError(t, err)
		value, err := executor(context.Background(), "abcd")
		require.NoError(t, err)
		assert.Equal(t, 4, value)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("cannot open the type set", func(t *testing.T) {
		registry, err := New([]*model.Field{model.NewField("f", "date", "")}, answerModel(nil), WithStrategy("date", custom))
		assert.Nil(t, registry)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}
