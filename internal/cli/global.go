package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/structor"
	"github.com/viant/structor/runtime/orchestrator"
	"github.com/viant/structor/service/llm"
	"github.com/viant/structor/service/llm/provider"
	"github.com/viant/structor/tracing"
)

// ModelFactory creates a model client
type ModelFactory func(ctx context.Context, config *provider.Config) (llm.Model, error)

// Global holds settings shared by all commands
type Global struct {
	LogLevel  string
	LogFormat string
	TraceFile string
	Version   string
	// NewModel defaults to provider.New
	NewModel ModelFactory
	// FS reads input documents, defaults to afs.New()
	FS afs.Service
}

// Bind registers persistent flags
func (g *Global) Bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.LogFormat, "log-format", "text", "Log format (text, json)")
	cmd.PersistentFlags().StringVar(&g.TraceFile, "trace-file", "", "Write OpenTelemetry spans to file")
}

// Logger returns a logger writing to w
func (g *Global) Logger(w io.Writer) *slog.Logger {
	return newLogger(g.LogLevel, g.LogFormat, w)
}

func (g *Global) fs() afs.Service {
	if g.FS == nil {
		g.FS = afs.New()
	}
	return g.FS
}

func (g *Global) newModel(ctx context.Context, config *provider.Config) (llm.Model, error) {
	if g.NewModel != nil {
		return g.NewModel(ctx, config)
	}
	return provider.New(ctx, config)
}

func (g *Global) initTracing(logger *slog.Logger) {
	if g.TraceFile == "" {
		return
	}
	if err := tracing.Init("structor", g.Version, g.TraceFile); err != nil {
		logger.Warn("failed to initialise tracing", "error", err)
	}
}

// engineFlags are shared by commands running extractions
type engineFlags struct {
	config     string
	provider   string
	model      string
	baseURL    string
	secretURL  string
	sequential bool
	workers    int
	variables  []string
}

func (f *engineFlags) bind(cmd *cobra.Command) {
	defaults := provider.DefaultConfig()
	cmd.Flags().StringVar(&f.config, "config", "", "Engine configuration URL (yaml, json or hcl)")
	cmd.Flags().StringVar(&f.provider, "provider", defaults.Provider, "Model provider (openai, ollama, googleai, anthropic)")
	cmd.Flags().StringVar(&f.model, "model", defaults.Model, "Model name")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Provider endpoint override")
	cmd.Flags().StringVar(&f.secretURL, "secret", "", "Encrypted API key URL")
	cmd.Flags().BoolVar(&f.sequential, "sequential", false, "Run fields and workflow steps one at a time")
	cmd.Flags().IntVar(&f.workers, "workers", orchestrator.DefaultWorkers, "Maximum concurrent field executions")
	cmd.Flags().StringSliceVar(&f.variables, "var", nil, "Decision prompt variable as KEY=VALUE (repeatable)")
	_ = cmd.MarkFlagRequired("config")
}

func (f *engineFlags) providerConfig() *provider.Config {
	ret := provider.DefaultConfig()
	ret.Provider = f.provider
	ret.Model = f.model
	ret.BaseURL = f.baseURL
	ret.SecretURL = f.secretURL
	return ret
}

func (f *engineFlags) options(logger *slog.Logger) ([]structor.Option, error) {
	config := structor.DefaultConfig()
	config.Provider = f.providerConfig()
	config.Orchestrator.Workers = f.workers
	if f.sequential {
		config.Orchestrator.Mode = orchestrator.ModeSequential
	}
	options := []structor.Option{structor.WithConfig(config), structor.WithLogger(logger)}
	if len(f.variables) > 0 {
		variables := make(map[string]interface{}, len(f.variables))
		for _, kv := range f.variables {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || key == "" {
				return nil, fmt.Errorf("invalid variable format %q, expected KEY=VALUE", kv)
			}
			variables[key] = value
		}
		options = append(options, structor.WithVariables(variables))
	}
	return options, nil
}

// load creates the model and loads the engine configuration
func (g *Global) load(ctx context.Context, flags *engineFlags, logger *slog.Logger, extra ...structor.Option) (*structor.Service, error) {
	options, err := flags.options(logger)
	if err != nil {
		return nil, err
	}
	aModel, err := g.newModel(ctx, flags.providerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return structor.Load(ctx, flags.config, aModel, append(options, extra...)...)
}
