package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/interview"
)

func testQuestion() interview.Question {
	return interview.Question{
		Index:  1,
		Total:  3,
		Topic:  "billing",
		Type:   "technical",
		Prompt: "Walk me through the billing rewrite.",
	}
}

func TestEvaluateParsesScores(t *testing.T) {
	gemini := &stubGemini{jsonResponse: `{
		"scores": {
			"content": 8,
			"communication": 7,
			"analytical": 6.5,
			"technical_depth": 9,
			"star_method": 5,
			"authenticity": 7
		},
		"summary": "Solid technical answer with clear structure."
	}`}
	evaluator := NewAnswerEvaluator(gemini, NewPromptBuilder(), time.Minute)

	eval, err := evaluator.Evaluate(context.Background(), testQuestion(), "We rewrote the billing service in stages...")
	require.NoError(t, err)

	assert.Len(t, eval.Scores, 6)
	assert.Equal(t, 8.0, eval.Scores["content"])
	assert.Equal(t, 6.5, eval.Scores["analytical"])
	assert.Equal(t, "Solid technical answer with clear structure.", eval.Summary)
}

func TestEvaluateClampsOutOfRangeScores(t *testing.T) {
	gemini := &stubGemini{jsonResponse: `{
		"scores": {"content": 14, "communication": -3},
		"summary": "odd"
	}`}
	evaluator := NewAnswerEvaluator(gemini, NewPromptBuilder(), time.Minute)

	eval, err := evaluator.Evaluate(context.Background(), testQuestion(), "answer")
	require.NoError(t, err)

	assert.Equal(t, 10.0, eval.Scores["content"])
	assert.Equal(t, 0.0, eval.Scores["communication"])
}

func TestEvaluateDropsUnknownMetrics(t *testing.T) {
	gemini := &stubGemini{jsonResponse: `{
		"scores": {"content": 7, "vibes": 10, "charisma": 9},
		"summary": "creative scoring"
	}`}
	evaluator := NewAnswerEvaluator(gemini, NewPromptBuilder(), time.Minute)

	eval, err := evaluator.Evaluate(context.Background(), testQuestion(), "answer")
	require.NoError(t, err)

	assert.Len(t, eval.Scores, 1)
	assert.Contains(t, eval.Scores, "content")
	assert.NotContains(t, eval.Scores, "vibes")
}

func TestEvaluatePropagatesModelError(t *testing.T) {
	gemini := &stubGemini{err: errors.New("rate limited")}
	evaluator := NewAnswerEvaluator(gemini, NewPromptBuilder(), time.Minute)

	_, err := evaluator.Evaluate(context.Background(), testQuestion(), "answer")
	assert.Error(t, err)
}

func TestEvaluateRejectsEmptyScores(t *testing.T) {
	gemini := &stubGemini{jsonResponse: `{"scores": {}, "summary": "nothing"}`}
	evaluator := NewAnswerEvaluator(gemini, NewPromptBuilder(), time.Minute)

	_, err := evaluator.Evaluate(context.Background(), testQuestion(), "answer")
	assert.Error(t, err)
}

func TestEvaluateRejectsOnlyUnknownMetrics(t *testing.T) {
	gemini := &stubGemini{jsonResponse: `{"scores": {"vibes": 10}, "summary": "no"}`}
	evaluator := NewAnswerEvaluator(gemini, NewPromptBuilder(), time.Minute)

	_, err := evaluator.Evaluate(context.Background(), testQuestion(), "answer")
	assert.Error(t, err)
}
