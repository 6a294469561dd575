// Package provider creates llm.Model implementations backed by langchaingo
// clients.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/viant/scy"
	"github.com/viant/structor/service/llm"
)

// ErrNoChoices is returned when a provider responds without any choice.
var ErrNoChoices = errors.New("provider: empty response")

// New creates a model client for the configured provider
func New(ctx context.Context, config *Config) (llm.Model, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	apiKey, err := resolveAPIKey(ctx, config)
	if err != nil {
		return nil, err
	}
	var client llms.Model
	switch strings.ToLower(config.Provider) {
	case OpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("openai: api key was empty")
		}
		opts := []openai.Option{openai.WithToken(apiKey)}
		if config.Model != "" {
			opts = append(opts, openai.WithModel(config.Model))
		}
		if config.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(config.BaseURL))
		}
		client, err = openai.New(opts...)
	case Ollama:
		serverURL := config.BaseURL
		if serverURL == "" {
			serverURL = "http://localhost:11434"
		}
		opts := []ollama.Option{ollama.WithServerURL(serverURL)}
		if config.Model != "" {
			opts = append(opts, ollama.WithModel(config.Model))
		}
		client, err = ollama.New(opts...)
	case GoogleAI:
		if apiKey == "" {
			return nil, fmt.Errorf("googleai: api key was empty")
		}
		opts := []googleai.Option{googleai.WithAPIKey(apiKey)}
		if config.Model != "" {
			opts = append(opts, googleai.WithDefaultModel(config.Model))
		}
		client, err = googleai.New(ctx, opts...)
	case Anthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic: api key was empty")
		}
		opts := []anthropic.Option{anthropic.WithToken(apiKey)}
		if config.Model != "" {
			opts = append(opts, anthropic.WithModel(config.Model))
		}
		client, err = anthropic.New(opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", config.Provider, err)
	}
	return NewAdapter(client, config), nil
}

func resolveAPIKey(ctx context.Context, config *Config) (string, error) {
	if config.APIKey != "" {
		return config.APIKey, nil
	}
	if config.SecretURL != "" {
		resource := scy.NewResource(nil, config.SecretURL, config.SecretKey)
		secret, err := scy.New().Load(ctx, resource)
		if err != nil {
			return "", fmt.Errorf("failed to load secret from %s: %w", config.SecretURL, err)
		}
		return strings.TrimSpace(secret.String()), nil
	}
	if env := config.apiKeyEnv(); env != "" {
		return os.Getenv(env), nil
	}
	return "", nil
}
