package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/interview"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/repositories"
)

func completedState(t *testing.T) *repositories.SessionState {
	t.Helper()

	plan, err := interview.NewQuestionPlan([]interview.Question{
		{Topic: "intro", Prompt: "Tell me about yourself."},
		{Topic: "depth", Prompt: "Describe a hard bug you fixed."},
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	session := &interview.Session{
		ID:        uuid.New(),
		Plan:      plan,
		Position:  3,
		Status:    interview.StatusCompleted,
		StartedAt: now.Add(-10 * time.Minute),
		EndedAt:   &now,
	}
	q1, _ := plan.QuestionAt(1)
	q2, _ := plan.QuestionAt(2)
	session.History = []interview.HistoryEntry{
		{
			Question:   q1,
			Answer:     "I am a backend engineer focused on payments.",
			Evaluation: interview.Evaluation{Scores: map[string]float64{"content": 8, "communication": 8}, Summary: "Clear intro."},
			AnsweredAt: now.Add(-8 * time.Minute),
		},
		{
			Question:   q2,
			Answer:     "I tracked a double-charge bug to a retry race and fixed the idempotency key handling.",
			Evaluation: interview.Evaluation{Scores: map[string]float64{"content": 6, "communication": 4}, Summary: "Good detail, rushed delivery."},
			AnsweredAt: now.Add(-2 * time.Minute),
		},
	}

	state := &repositories.SessionState{
		Session:       session,
		ResumeID:      uuid.New(),
		InterviewType: "technical",
	}
	state.AppendResponse("I am a backend engineer focused on payments.")
	state.AppendResponse("I tracked a double-charge bug to a retry race and fixed the idempotency key handling.")
	return state
}

func TestGenerateReport(t *testing.T) {
	gemini := &stubGemini{textResponse: "Strong overall performance with room to polish delivery."}
	svc := NewReportService(gemini, NewBehavioralService())

	report, err := svc.GenerateReport(context.Background(), completedState(t))
	require.NoError(t, err)

	// mean of 8, 8, 6, 4 is 6.5, scaled to 65
	assert.Equal(t, 65.0, report.OverallScore)
	assert.Equal(t, "Hire", report.Recommendation)
	assert.Equal(t, "technical", report.InterviewType)
	assert.Equal(t, "Strong overall performance with room to polish delivery.", report.ExecutiveSummary)
	assert.Len(t, report.PerQuestion, 2)
	require.NotNil(t, report.Behavioral)
	assert.Len(t, report.Behavioral.PerResponse, 2)
}

func TestGenerateReportSummaryFallback(t *testing.T) {
	gemini := &stubGemini{err: errors.New("model down")}
	svc := NewReportService(gemini, NewBehavioralService())

	state := completedState(t)
	// The deterministic parts must survive a model outage, so only the
	// evaluator-independent summary generation may fail.
	gemini.err = nil
	report1, err := svc.GenerateReport(context.Background(), state)
	require.NoError(t, err)

	gemini.err = errors.New("model down")
	report2, err := svc.GenerateReport(context.Background(), state)
	require.NoError(t, err)

	assert.NotEmpty(t, report2.ExecutiveSummary)
	assert.Equal(t, report1.OverallScore, report2.OverallScore)
	assert.Equal(t, report1.Recommendation, report2.Recommendation)
}

func TestGenerateReportIncompleteSession(t *testing.T) {
	gemini := &stubGemini{}
	svc := NewReportService(gemini, NewBehavioralService())

	state := completedState(t)
	state.Session.Status = interview.StatusInProgress

	_, err := svc.GenerateReport(context.Background(), state)
	assert.ErrorIs(t, err, interview.ErrSessionNotComplete)
}

func TestRecommendationTiers(t *testing.T) {
	assert.Equal(t, "Strong Hire", recommendationFor(85))
	assert.Equal(t, "Strong Hire", recommendationFor(80))
	assert.Equal(t, "Hire", recommendationFor(70))
	assert.Equal(t, "Maybe", recommendationFor(55))
	assert.Equal(t, "No Hire", recommendationFor(30))
}
