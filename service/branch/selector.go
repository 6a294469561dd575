// Package branch selects which explanation workflow a decision workflow
// continues with, by asking the model to classify the input text.
package branch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/viant/structor/internal/template"
	"github.com/viant/structor/model/graph"
	"github.com/viant/structor/service/llm"
	"github.com/viant/structor/tracing"
)

// NoDecision is returned when a decision workflow has no candidates
const NoDecision = ""

// ErrInvalidBranch is returned when the model answer does not identify exactly one candidate.
var ErrInvalidBranch = errors.New("branch: invalid branch")

// ErrNoModel is returned when a selector is created without a model.
var ErrNoModel = errors.New("branch: model is required")

const (
	systemInstruction = "You are a workflow analyzer. Based on the content and description, select ONE of the provided workflow types. Respond ONLY with the workflow key."
	contentKey        = "content"
	taskKey           = "workflow_prompt"
	optionsKey        = "options"
)

// Request represents a branch selection request
type Request struct {
	// WorkflowID identifies the decision workflow, used for tracing and logging
	WorkflowID string
	// Text is the input text
	Text string
	// Instruction is the decision workflow prompt, {name} placeholders are
	// substituted from Context
	Instruction string
	// Candidates lists explanation workflows in declaration order
	Candidates []graph.Candidate
	// Context holds placeholder values for Instruction
	Context map[string]interface{}
}

// Selector selects explanation workflows
type Selector struct {
	model  llm.Model
	prompt *llm.Prompt
	logger *slog.Logger
}

// Option customises a Selector
type Option func(s *Selector)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSystemInstruction overrides the classification system message
func WithSystemInstruction(instruction string) Option {
	return func(s *Selector) {
		s.prompt.Messages[0].Template = instruction
	}
}

// New creates a selector
func New(aModel llm.Model, options ...Option) (*Selector, error) {
	if aModel == nil {
		return nil, ErrNoModel
	}
	s := &Selector{
		model: aModel,
		prompt: llm.NewPrompt(
			llm.System(systemInstruction),
			llm.User("Content: {"+contentKey+"}"),
			llm.User("Task: {"+taskKey+"}"),
			llm.User("Available workflows:\n{"+optionsKey+"}"),
		),
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Select asks the model to pick one candidate and validates the answer.
// Empty candidates yield NoDecision without invoking the model.
func (s *Selector) Select(ctx context.Context, request *Request) (selected string, err error) {
	if len(request.Candidates) == 0 {
		return NoDecision, nil
	}
	ctx, span := tracing.StartSpan(ctx, "branch.select "+request.WorkflowID, tracing.KindClient)
	span.WithInt("candidates", len(request.Candidates))
	defer func() {
		span.WithAttributes(map[string]string{"branch.selected": selected})
		tracing.EndSpan(span, err)
	}()

	bindings := llm.Bindings{
		contentKey: request.Text,
		taskKey:    template.Expand(request.Instruction, request.Context),
		optionsKey: Options(request.Candidates),
	}
	answer, err := s.model.Invoke(ctx, s.prompt, bindings)
	if err != nil {
		return NoDecision, fmt.Errorf("failed to select branch for %s: %w", request.WorkflowID, err)
	}
	selected, err = Match(answer, request.Candidates)
	if err != nil {
		s.logger.Warn("invalid branch", "workflow", request.WorkflowID, "answer", answer)
		return NoDecision, err
	}
	s.logger.Debug("branch selected", "workflow", request.WorkflowID, "selected", selected)
	return selected, nil
}

// Options renders candidates as "- id: explanation" lines
func Options(candidates []graph.Candidate) string {
	lines := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		lines = append(lines, "- "+candidate.ID+": "+candidate.Explain)
	}
	return strings.Join(lines, "\n")
}

// Match validates a model answer against candidates. An exact id match wins,
// otherwise a single case-insensitive match is required.
func Match(answer string, candidates []graph.Candidate) (string, error) {
	normalized := Normalize(answer)
	var folded []string
	for _, candidate := range candidates {
		if candidate.ID == normalized {
			return candidate.ID, nil
		}
		if strings.EqualFold(candidate.ID, normalized) {
			folded = append(folded, candidate.ID)
		}
	}
	if len(folded) == 1 {
		return folded[0], nil
	}
	allowed := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		allowed = append(allowed, candidate.ID)
	}
	if len(folded) > 1 {
		return NoDecision, fmt.Errorf("%w: ambiguous answer %q, matches %v", ErrInvalidBranch, answer, folded)
	}
	return NoDecision, fmt.Errorf("%w: answer %q not in %v", ErrInvalidBranch, answer, allowed)
}

// Normalize trims whitespace, wrapping quotes or backticks, and a trailing period
func Normalize(answer string) string {
	ret := strings.TrimSpace(answer)
	ret = strings.TrimSuffix(ret, ".")
	for len(ret) >= 2 {
		first, last := ret[0], ret[len(ret)-1]
		if first != last || !strings.ContainsRune("\"'`", rune(first)) {
			break
		}
		ret = strings.TrimSpace(ret[1 : len(ret)-1])
	}
	return ret
}
