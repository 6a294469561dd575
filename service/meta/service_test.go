package meta

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/structor/model"
)

const yamlConfig = `
data:
  summary:
    type: string
    prompt: Summarize the text in one sentence.
    name: Summary
  score:
    type: numeric
    prompt: Rate the text from 1 to 10.
  address:
    type: object
    prompt: Extract the address.
    attributes:
      city: City name
      zip: 12345
  keywords:
    type: list
    prompt: List keywords for ${env.STRUCTOR_TOPIC}.
workflow:
  kind:
    prompt: Is this a complaint or praise?
    data: [summary]
  complaint:
    explain: Text is a complaint.
    requires: [kind]
    data: [score, address]
  praise:
    explain: Text is a praise.
    requires: [kind]
    data:
      - keywords
`

const hclSource = `
field "summary" {
  type   = "string"
  prompt = "Summarize the text."
}

field "address" {
  type   = "object"
  prompt = "Extract the address."
  name   = "Address"
  attribute "city" {
    type        = "string"
    description = "City name"
  }
  attribute "zip" {
    type = "numeric"
  }
}

workflow "kind" {
  prompt = "Is this a letter?"
  data   = ["summary"]
}

workflow "letter" {
  explain  = "Text is a letter."
  requires = ["kind"]
  data     = ["address"]
}
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	location := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))
	return "file://" + location
}

func TestService_Load(t *testing.T) {
	t.Setenv("STRUCTOR_TOPIC", "travel")

	t.Run("yaml", func(t *testing.T) {
		config, err := New().Load(context.Background(), writeConfig(t, "config.yaml", yamlConfig))
		require.NoError(t, err)

		var ids []string
		for _, aField := range config.Fields {
			ids = append(ids, aField.ID)
		}
		assert.Equal(t, []string{"summary", "score", "address", "keywords"}, ids)
		assert.Equal(t, model.FieldTypeNumeric, config.Field("score").Type)
		assert.Equal(t, "Summary", config.Field("summary").Name)
		assert.Equal(t, "List keywords for travel.", config.Field("keywords").Prompt)

		address := config.Field("address")
		require.Len(t, address.Attributes, 2)
		assert.Equal(t, "city", address.Attributes[0].Name)
		assert.Equal(t, "City name", address.Attributes[0].Example)
		assert.Equal(t, "zip", address.Attributes[1].Name)
		assert.EqualValues(t, 12345, address.Attributes[1].Example)

		require.Len(t, config.Workflows, 3)
		assert.Equal(t, "kind", config.Workflows[0].ID)
		assert.True(t, config.Workflows[0].IsDecision())
		assert.Equal(t, []string{"kind"}, config.Workflow("complaint").Requires)
		assert.Equal(t, []string{"score", "address"}, config.Workflow("complaint").Data)
		assert.Equal(t, []string{"keywords"}, config.Workflow("praise").Data)
		assert.True(t, config.Workflow("praise").IsExplanation())
	})

	t.Run("json", func(t *testing.T) {
		content := `{"data": {"title": {"type": "string", "prompt": "Extract the title."}}}`
		config, err := New().Load(context.Background(), writeConfig(t, "config.json", content))
		require.NoError(t, err)
		require.Len(t, config.Fields, 1)
		assert.Equal(t, "title", config.Fields[0].ID)
		assert.False(t, config.HasWorkflows())
	})

	t.Run("hcl", func(t *testing.T) {
		config, err := New().Load(context.Background(), writeConfig(t, "config.hcl", hclSource))
		require.NoError(t, err)
		require.Len(t, config.Fields, 2)
		address := config.Field("address")
		require.NotNil(t, address)
		assert.Equal(t, model.FieldTypeObject, address.Type)
		assert.Equal(t, "Address", address.Name)
		require.Len(t, address.Attributes, 2)
		assert.Equal(t, "string", address.Attributes[0].Type)
		assert.Equal(t, "City name", address.Attributes[0].Description)
		assert.Equal(t, "numeric", address.Attributes[1].Type)
		require.Len(t, config.Workflows, 2)
		assert.Equal(t, []string{"kind"}, config.Workflow("letter").Requires)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New().Load(context.Background(), "file://"+filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestDecodeYAML_Errors(t *testing.T) {
	testCases := []struct {
		description string
		content     string
		expectErr   error
	}{
		{description: "no data", content: "workflow:\n  a:\n    prompt: x\n", expectErr: model.ErrNoData},
		{description: "empty data", content: "data: {}\n", expectErr: model.ErrNoData},
		{description: "root sequence", content: "- a\n- b\n", expectErr: ErrInvalidConfig},
		{description: "field not mapping", content: "data:\n  title: x\n", expectErr: ErrInvalidConfig},
		{description: "workflow data not list", content: "data:\n  t: {type: string}\nworkflow:\n  a:\n    prompt: x\n    data: t\n", expectErr: ErrInvalidConfig},
		{description: "workflow data not strings", content: "data:\n  t: {type: string}\nworkflow:\n  a:\n    prompt: x\n    data: [{k: v}]\n", expectErr: ErrInvalidConfig},
		{description: "malformed", content: "data: [\n", expectErr: ErrInvalidConfig},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			_, err := Decode([]byte(testCase.content), FormatYAML, "config.yaml")
			require.Error(t, err)
			assert.ErrorIs(t, err, testCase.expectErr)
		})
	}
}

func TestDecodeHCL_Errors(t *testing.T) {
	_, err := DecodeHCL([]byte(`field "x" {`), "broken.hcl")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = DecodeHCL([]byte(`field "x" { prompt = "no type" }`), "")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("file:///tmp/a.yaml"))
	assert.Equal(t, FormatYAML, FormatOf("mem://localhost/a"))
	assert.Equal(t, FormatJSON, FormatOf("s3://bucket/a.JSON"))
	assert.Equal(t, FormatHCL, FormatOf("/tmp/a.hcl"))
}
