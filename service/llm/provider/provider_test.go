package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/viant/structor/service/llm"
)

type fakeClient struct {
	messages []llms.MessageContent
	options  llms.CallOptions
	response *llms.ContentResponse
	err      error
}

func (f *fakeClient) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, option := range options {
		option(&f.options)
	}
	return f.response, f.err
}

func (f *fakeClient) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestAdapter_Invoke(t *testing.T) {
	client := &fakeClient{response: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "42"}}}}
	adapter := NewAdapter(client, &Config{Temperature: 0.2, MaxTokens: 64})
	prompt := llm.NewPrompt(llm.System("analyze"), llm.User("{content}"), llm.Assistant("ok"))

	out, err := adapter.Invoke(context.Background(), prompt, llm.Bindings{"content": "text"})
	require.NoError(t, err)
	assert.Equal(t, "42", out)
	require.Len(t, client.messages, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, client.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, client.messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, client.messages[2].Role)
	assert.Equal(t, llms.TextPart("text"), client.messages[1].Parts[0])
	assert.Equal(t, 0.2, client.options.Temperature)
	assert.Equal(t, 64, client.options.MaxTokens)
}

func TestAdapter_Invoke_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		client *fakeClient
		expect error
	}{
		{name: "no choices", client: &fakeClient{response: &llms.ContentResponse{}}, expect: ErrNoChoices},
		{name: "client error", client: &fakeClient{err: errors.New("boom")}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAdapter(tc.client, nil).Invoke(context.Background(), llm.NewPrompt(llm.User("x")), nil)
			require.Error(t, err)
			if tc.expect != nil {
				assert.ErrorIs(t, err, tc.expect)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		config  *Config
		isValid bool
	}{
		{name: "default", config: DefaultConfig(), isValid: true},
		{name: "ollama", config: &Config{Provider: "Ollama"}, isValid: true},
		{name: "empty", config: &Config{}},
		{name: "unsupported", config: &Config{Provider: "watson"}},
		{name: "negative temperature", config: &Config{Provider: OpenAI, Temperature: -1}},
		{name: "nil", config: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.isValid {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
		})
	}
}

func TestNew_MissingAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := New(context.Background(), &Config{Provider: Anthropic})
	assert.Error(t, err)
}
