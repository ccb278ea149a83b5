package remediation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tildaslashalef/remediator/internal/config"
	"github.com/tildaslashalef/remediator/internal/loggy"
	"github.com/tildaslashalef/remediator/internal/openai"
)

// Placeholder values substituted when the model response lacks a field.
const (
	missingAssessment = "[LLM did not provide assessment summary]"
	missingLLMPrompt  = "[LLM did not provide llm_prompt]"
)

// CompletionClient is the interface the pipeline needs from the completion
// endpoint client.
type CompletionClient interface {
	GenerateChat(ctx context.Context, req openai.ChatRequest) (*openai.ChatResponse, error)
	Model() string
}

// Service runs the per-unit pipeline: filter findings, build the prompt,
// call the completion endpoint, normalize the response.
type Service struct {
	client  CompletionClient
	builder *PromptBuilder
	logger  *loggy.Logger
}

// NewService creates a remediation service for the configured prompt style.
func NewService(client CompletionClient, cfg config.RemediationConfig, logger *loggy.Logger) (*Service, error) {
	builder, err := NewPromptBuilder(cfg.PromptStyle)
	if err != nil {
		return nil, err
	}

	return &Service{
		client:  client,
		builder: builder,
		logger:  logger,
	}, nil
}

// Model returns the model identifier used for completions.
func (s *Service) Model() string {
	return s.client.Model()
}

// ProcessBatch processes units strictly sequentially and returns one result
// per non-skipped unit, in input order. Per-unit failures become degraded
// results; a bad unit never aborts the batch.
func (s *Service) ProcessBatch(ctx context.Context, units []Unit) []Result {
	results := make([]Result, 0, len(units))

	for _, unit := range units {
		result, ok := s.ProcessUnit(ctx, unit)
		if !ok {
			continue
		}
		results = append(results, result)
	}

	return results
}

// ProcessUnit runs the pipeline for a single unit. The second return value
// is false when the unit has no actionable findings and is skipped.
func (s *Service) ProcessUnit(ctx context.Context, unit Unit) (Result, bool) {
	relevant := unit.RelevantFindings()
	if len(relevant) == 0 {
		s.logger.Debug("skipping unit without actionable findings",
			"pgm_name", unit.PgmName,
			"unit_name", unit.Name,
			"findings", len(unit.Findings))
		return Result{}, false
	}

	result := newResult(unit)

	messages, err := s.builder.Build(unit, relevant)
	if err != nil {
		// Degraded result rather than a hard failure, same as call errors
		result.Assessment = errorMarker(err)
		return result, true
	}

	assessment, llmPrompt := s.callAndNormalize(ctx, messages)
	result.Assessment = assessment
	result.LLMPrompt = llmPrompt

	s.logger.Debug("processed unit",
		"pgm_name", unit.PgmName,
		"unit_name", unit.Name,
		"actionable_findings", len(relevant))

	return result, true
}

// callAndNormalize issues the completion call and normalizes its output.
// All failures are converted into in-band degraded field values.
func (s *Service) callAndNormalize(ctx context.Context, messages Messages) (assessment, llmPrompt string) {
	temperature := 0.0

	resp, err := s.client.GenerateChat(ctx, openai.ChatRequest{
		Messages: []openai.Message{
			{Role: "system", Content: messages.System},
			{Role: "user", Content: messages.User},
		},
		Temperature:    &temperature,
		ResponseFormat: &openai.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		s.logger.Warn("completion call failed", "error", err)
		return errorMarker(err), ""
	}

	content, err := resp.FirstContent()
	if err != nil {
		s.logger.Warn("completion response unusable", "error", err)
		return errorMarker(err), ""
	}

	assessment, llmPrompt, err = normalizeContent(content)
	if err != nil {
		s.logger.Warn("completion content is not valid JSON", "error", err)
		// Carry the raw content as a diagnostic, bracketed like the error marker
		return errorMarker(err), "[" + content + "]"
	}

	return assessment, llmPrompt
}

// normalizeContent parses the completion text as a JSON object and extracts
// the two contract fields, guaranteeing both come back as strings: missing
// fields are replaced by placeholders and a list-typed llm_prompt is joined
// into a single newline-separated string.
func normalizeContent(content string) (assessment, llmPrompt string, err error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return "", "", fmt.Errorf("parsing completion content: %w", err)
	}

	assessment = missingAssessment
	if v, ok := parsed["assessment"].(string); ok {
		assessment = v
	}

	llmPrompt = missingLLMPrompt
	switch v := parsed["llm_prompt"].(type) {
	case string:
		llmPrompt = v
	case []any:
		// Some model variants return the sections as a list of strings
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		llmPrompt = strings.Join(parts, "\n")
	}

	return assessment, llmPrompt, nil
}

// errorMarker renders a failure as the in-band assessment value.
func errorMarker(err error) string {
	return fmt.Sprintf("[LLM error: %v]", err)
}
