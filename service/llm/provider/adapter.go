package provider

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/viant/structor/service/llm"
)

// Adapter adapts a langchaingo model to llm.Model
type Adapter struct {
	client  llms.Model
	options []llms.CallOption
}

// NewAdapter creates an adapter, config may be nil
func NewAdapter(client llms.Model, config *Config) *Adapter {
	ret := &Adapter{client: client}
	if config == nil {
		return ret
	}
	if config.Temperature > 0 {
		ret.options = append(ret.options, llms.WithTemperature(config.Temperature))
	}
	if config.MaxTokens > 0 {
		ret.options = append(ret.options, llms.WithMaxTokens(config.MaxTokens))
	}
	return ret
}

// Invoke renders the prompt and generates a completion
func (a *Adapter) Invoke(ctx context.Context, prompt *llm.Prompt, bindings llm.Bindings) (string, error) {
	messages, err := prompt.Render(bindings)
	if err != nil {
		return "", err
	}
	content := make([]llms.MessageContent, 0, len(messages))
	for _, message := range messages {
		content = append(content, llms.MessageContent{
			Role:  chatMessageType(message.Role),
			Parts: []llms.ContentPart{llms.TextPart(message.Text)},
		})
	}
	resp, err := a.client.GenerateContent(ctx, content, a.options...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Content, nil
}

func chatMessageType(role llm.Role) llms.ChatMessageType {
	switch role {
	case llm.RoleSystem:
		return llms.ChatMessageTypeSystem
	case llm.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
