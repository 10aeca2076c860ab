package interview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedSession(t *testing.T, evaluations ...Evaluation) *Session {
	t.Helper()
	prompts := make([]string, len(evaluations))
	for i := range prompts {
		prompts[i] = "question"
	}
	session, err := Start(planOf(t, prompts...))
	require.NoError(t, err)

	for _, evaluation := range evaluations {
		_, err := session.SubmitAnswer(context.Background(), "answer", &stubEvaluator{evaluation: evaluation})
		require.NoError(t, err)
	}
	require.True(t, session.IsComplete())
	return session
}

func TestAssembleReport_RequiresCompletedSession(t *testing.T) {
	session, err := Start(planOf(t, "q1"))
	require.NoError(t, err)

	_, err = AssembleReport(session, nil)
	assert.ErrorIs(t, err, ErrSessionNotComplete)
}

func TestAssembleReport_OverallScore(t *testing.T) {
	session := completedSession(t,
		Evaluation{Scores: map[string]float64{"clarity": 8, "content": 6}, Summary: "good"},
		Evaluation{Scores: map[string]float64{"clarity": 4, "content": 6}, Summary: "vague"},
	)

	report, err := AssembleReport(session, nil)
	require.NoError(t, err)

	// mean(8,6,4,6) = 6.0 -> scaled x10
	assert.InDelta(t, 60.0, report.OverallScore, 1e-9)
	assert.Len(t, report.PerQuestion, 2)
	assert.Equal(t, "good", report.PerQuestion[0].Summary)
	assert.InDelta(t, 6.0, report.MetricAverages["clarity"], 1e-9)
}

func TestAssembleReport_Idempotent(t *testing.T) {
	session := completedSession(t,
		Evaluation{Scores: map[string]float64{"clarity": 7.5, "technical_depth": 3.2}},
		Evaluation{Scores: map[string]float64{"clarity": 6.1}},
	)

	first, err := AssembleReport(session, nil)
	require.NoError(t, err)
	second, err := AssembleReport(session, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDefaultSummaryHeuristic_SplitsByAverage(t *testing.T) {
	history := []HistoryEntry{
		{Evaluation: Evaluation{Scores: map[string]float64{"communication": 9, "technical_depth": 3, "content": 6}}},
		{Evaluation: Evaluation{Scores: map[string]float64{"communication": 8, "technical_depth": 4, "content": 6}}},
	}

	strengths, improvements := DefaultSummaryHeuristic(history)
	assert.Equal(t, []string{"Strong communication"}, strengths)
	assert.Equal(t, []string{"Work on technical depth"}, improvements)
}

func TestAssembleReport_CustomHeuristic(t *testing.T) {
	session := completedSession(t, Evaluation{Scores: map[string]float64{"clarity": 5}})

	report, err := AssembleReport(session, func(history []HistoryEntry) ([]string, []string) {
		return []string{"custom strength"}, []string{"custom gap"}
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"custom strength"}, report.Strengths)
	assert.Equal(t, []string{"custom gap"}, report.ImprovementAreas)
}
