package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/interview"
)

// Metric keys the evaluator keeps from the model output. Anything else the
// model invents is dropped so downstream averages stay comparable.
var knownMetrics = map[string]bool{
	"content":         true,
	"communication":   true,
	"analytical":      true,
	"technical_depth": true,
	"star_method":     true,
	"authenticity":    true,
}

// answerEvaluator scores answers with Gemini. It satisfies
// interview.ResponseEvaluator so the session core never sees the model.
type answerEvaluator struct {
	gemini  GeminiService
	prompts *PromptBuilder
	timeout time.Duration
}

func NewAnswerEvaluator(gemini GeminiService, prompts *PromptBuilder, timeout time.Duration) interview.ResponseEvaluator {
	return &answerEvaluator{
		gemini:  gemini,
		prompts: prompts,
		timeout: timeout,
	}
}

type evaluationResponse struct {
	Scores  map[string]float64 `json:"scores"`
	Summary string             `json:"summary"`
}

// Evaluate implements interview.ResponseEvaluator.
func (e *answerEvaluator) Evaluate(ctx context.Context, question interview.Question, answer string) (interview.Evaluation, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	prompt := e.prompts.BuildEvaluationPrompt(question.Prompt, question.Type, answer)

	var parsed evaluationResponse
	if err := e.gemini.GenerateJSON(ctx, prompt, 0.3, 2, &parsed); err != nil {
		return interview.Evaluation{}, fmt.Errorf("answer evaluation failed: %w", err)
	}
	if len(parsed.Scores) == 0 {
		return interview.Evaluation{}, fmt.Errorf("answer evaluation returned no scores")
	}

	scores := make(map[string]float64, len(knownMetrics))
	for key, value := range parsed.Scores {
		if !knownMetrics[key] {
			continue
		}
		scores[key] = clamp(value, 0, 10)
	}
	if len(scores) == 0 {
		return interview.Evaluation{}, fmt.Errorf("answer evaluation returned no recognized metrics")
	}

	return interview.Evaluation{
		Scores:  scores,
		Summary: parsed.Summary,
	}, nil
}
