package provider

import (
	"fmt"
	"strings"
)

// Supported providers
const (
	OpenAI    = "openai"
	Ollama    = "ollama"
	GoogleAI  = "googleai"
	Anthropic = "anthropic"
)

// Config represents model client configuration
type Config struct {
	// Provider is one of openai, ollama, googleai, anthropic
	Provider string `json:"provider" yaml:"provider"`

	// Model is the provider specific model name, e.g. gpt-4o
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// BaseURL overrides the provider endpoint
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`

	// APIKey is the explicit provider key
	APIKey string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`

	// SecretURL locates an encrypted API key, e.g. ~/.secret/openai.json
	SecretURL string `json:"secretURL,omitempty" yaml:"secretURL,omitempty"`

	// SecretKey is the secret encryption key, e.g. blowfish://default
	SecretKey string `json:"secretKey,omitempty" yaml:"secretKey,omitempty"`

	// Temperature is the sampling temperature
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`

	// MaxTokens limits the completion size, zero keeps provider default
	MaxTokens int `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
}

// DefaultConfig returns the default model configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: OpenAI,
		Model:    "gpt-4o",
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("provider config was nil")
	}
	switch strings.ToLower(c.Provider) {
	case OpenAI, Ollama, GoogleAI, Anthropic:
	case "":
		return fmt.Errorf("provider was empty")
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	if c.Temperature < 0 {
		return fmt.Errorf("temperature must be non-negative, got %v", c.Temperature)
	}
	return nil
}

func (c *Config) apiKeyEnv() string {
	switch strings.ToLower(c.Provider) {
	case OpenAI:
		return "OPENAI_API_KEY"
	case GoogleAI:
		return "GOOGLE_API_KEY"
	case Anthropic:
		return "ANTHROPIC_API_KEY"
	}
	return ""
}
