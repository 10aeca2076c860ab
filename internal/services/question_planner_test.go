package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGemini satisfies GeminiService with canned responses.
type stubGemini struct {
	jsonResponse string
	textResponse string
	err          error
	embedding    []float32
	calls        int
}

func (s *stubGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.embedding, nil
}

func (s *stubGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.textResponse, nil
}

func (s *stubGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return s.GenerateText(ctx, prompt, temperature)
}

// GenerateJSON runs the canned response through the same extraction and
// decoding as the real client, so markdown-wrapped payloads are exercised.
func (s *stubGemini) GenerateJSON(ctx context.Context, prompt string, temperature float32, maxRetries int, target interface{}) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return parseJSONResponse(s.jsonResponse, target)
}

func TestGeneratePlanFromModel(t *testing.T) {
	// Models wrap the array in a markdown fence; the plan must still come
	// from the response, not the fallback bank.
	gemini := &stubGemini{jsonResponse: "Here is the plan:\n```json\n[\n" +
		`		{"topic": "billing", "type": "technical", "prompt": "Walk me through the billing rewrite."},
		{"topic": "teamwork", "type": "behavioral", "prompt": "Tell me about a team conflict."},
		{"topic": "scaling", "type": "technical", "prompt": "How would you scale the order pipeline?"}
	]` + "\n```"}
	planner := NewQuestionPlannerService(gemini, NewPromptBuilder())

	plan, err := planner.GeneratePlan(context.Background(), "resume context", PlanParams{
		InterviewType: "technical",
		Difficulty:    "senior",
		NumQuestions:  3,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, plan.Length())
	first, ok := plan.QuestionAt(1)
	require.True(t, ok)
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 3, first.Total)
	assert.Equal(t, "billing", first.Topic)
}

func TestGeneratePlanTruncatesLongPlans(t *testing.T) {
	gemini := &stubGemini{jsonResponse: `[
		{"topic": "a", "prompt": "Question one?"},
		{"topic": "b", "prompt": "Question two?"},
		{"topic": "c", "prompt": "Question three?"},
		{"topic": "d", "prompt": "Question four?"}
	]`}
	planner := NewQuestionPlannerService(gemini, NewPromptBuilder())

	plan, err := planner.GeneratePlan(context.Background(), "", PlanParams{NumQuestions: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Length())
}

func TestGeneratePlanPadsShortPlans(t *testing.T) {
	gemini := &stubGemini{jsonResponse: `[{"topic": "a", "prompt": "Only question?"}]`}
	planner := NewQuestionPlannerService(gemini, NewPromptBuilder())

	plan, err := planner.GeneratePlan(context.Background(), "", PlanParams{NumQuestions: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, plan.Length())

	last, ok := plan.QuestionAt(4)
	require.True(t, ok)
	assert.NotEmpty(t, last.Prompt)
}

func TestGeneratePlanFallsBackOnModelError(t *testing.T) {
	gemini := &stubGemini{err: errors.New("model unavailable")}
	planner := NewQuestionPlannerService(gemini, NewPromptBuilder())

	plan, err := planner.GeneratePlan(context.Background(), "", PlanParams{NumQuestions: 7})
	require.NoError(t, err)

	assert.Equal(t, 7, plan.Length())
	first, _ := plan.QuestionAt(1)
	assert.Equal(t, "introduction", first.Topic)
}

func TestGeneratePlanDefaultsQuestionType(t *testing.T) {
	gemini := &stubGemini{jsonResponse: `[{"topic": "a", "prompt": "Question?"}]`}
	planner := NewQuestionPlannerService(gemini, NewPromptBuilder())

	plan, err := planner.GeneratePlan(context.Background(), "", PlanParams{NumQuestions: 1})
	require.NoError(t, err)

	q, _ := plan.QuestionAt(1)
	assert.Equal(t, "behavioral", q.Type)
}
