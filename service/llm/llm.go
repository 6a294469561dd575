// Package llm defines the completion capability consumed by the extraction
// engine: an opaque function turning a role-tagged prompt and its bindings
// into a textual answer.
package llm

import (
	"context"
	"errors"

	"github.com/viant/structor/internal/template"
)

// Role represents a message author
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ErrEmptyPrompt is returned when a prompt has no messages.
var ErrEmptyPrompt = errors.New("llm: empty prompt")

// Bindings represents prompt variable values
type Bindings map[string]interface{}

// Message represents a role-tagged message template
type Message struct {
	Role     Role   `json:"role" yaml:"role"`
	Template string `json:"template" yaml:"template"`
}

// Prompt represents an ordered list of message templates
type Prompt struct {
	Messages []*Message `json:"messages" yaml:"messages"`
}

// NewPrompt creates a prompt
func NewPrompt(messages ...*Message) *Prompt {
	return &Prompt{Messages: messages}
}

// System creates a system message
func System(text string) *Message {
	return &Message{Role: RoleSystem, Template: text}
}

// User creates a user message
func User(text string) *Message {
	return &Message{Role: RoleUser, Template: text}
}

// Assistant creates an assistant message
func Assistant(text string) *Message {
	return &Message{Role: RoleAssistant, Template: text}
}

// Add appends messages
func (p *Prompt) Add(messages ...*Message) *Prompt {
	p.Messages = append(p.Messages, messages...)
	return p
}

// RenderedMessage represents a message with placeholders substituted
type RenderedMessage struct {
	Role Role
	Text string
}

// Render substitutes {name} placeholders of every message in a single pass
func (p *Prompt) Render(bindings Bindings) ([]RenderedMessage, error) {
	if p == nil || len(p.Messages) == 0 {
		return nil, ErrEmptyPrompt
	}
	ret := make([]RenderedMessage, 0, len(p.Messages))
	for _, message := range p.Messages {
		ret = append(ret, RenderedMessage{Role: message.Role, Text: template.Expand(message.Template, bindings)})
	}
	return ret, nil
}

// Model represents a completion capability
type Model interface {
	Invoke(ctx context.Context, prompt *Prompt, bindings Bindings) (string, error)
}

// ModelFunc adapts a function to Model
type ModelFunc func(ctx context.Context, prompt *Prompt, bindings Bindings) (string, error)

// Invoke calls fn
func (fn ModelFunc) Invoke(ctx context.Context, prompt *Prompt, bindings Bindings) (string, error) {
	return fn(ctx, prompt, bindings)
}
