package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeResponseEmptyText(t *testing.T) {
	svc := NewBehavioralService()

	analysis := svc.AnalyzeResponse("", 0)

	assert.Equal(t, 0, analysis.FillerWordCount)
	assert.Equal(t, "neutral", analysis.Sentiment)
	assert.Contains(t, analysis.RedFlags, "Empty response")
}

func TestAnalyzeResponseCountsFillers(t *testing.T) {
	svc := NewBehavioralService()

	analysis := svc.AnalyzeResponse("Um, I basically worked on, like, a payment system, you know.", 0)

	assert.Greater(t, analysis.FillerWordCount, 2)
	assert.Contains(t, analysis.FillerWordsFound, "um")
	assert.Contains(t, analysis.FillerWordsFound, "like")
	assert.Greater(t, analysis.FillerWordRate, 0.0)
}

func TestAnalyzeResponseAssertiveRaisesConfidence(t *testing.T) {
	svc := NewBehavioralService()

	hedged := svc.AnalyzeResponse(
		"I think maybe I sort of led the project, I guess it probably went well, not sure though, perhaps.", 0)
	assertive := svc.AnalyzeResponse(
		"I led the project. Specifically, I designed the pipeline and I did the rollout. I'm confident it succeeded.", 0)

	assert.Greater(t, assertive.ConfidenceScore, hedged.ConfidenceScore)
	assert.Equal(t, "positive", assertive.Sentiment)
}

func TestAnalyzeResponseSpeakingRate(t *testing.T) {
	svc := NewBehavioralService()

	// 30 words over 10 seconds is 180 WPM
	text := strings.Repeat("word ", 30)
	analysis := svc.AnalyzeResponse(text, 10)

	require.NotNil(t, analysis.SpeakingRateWPM)
	assert.InDelta(t, 180, *analysis.SpeakingRateWPM, 0.1)
}

func TestAnalyzeResponseVeryBriefFlagged(t *testing.T) {
	svc := NewBehavioralService()

	analysis := svc.AnalyzeResponse("Yes, I did that once.", 0)

	found := false
	for _, flag := range analysis.RedFlags {
		if strings.Contains(flag, "brief") {
			found = true
		}
	}
	assert.True(t, found, "expected short answer to be flagged")
}

func TestAnalyzeSessionAggregates(t *testing.T) {
	svc := NewBehavioralService()

	responses := []string{
		"Um, I think I worked on, like, some backend stuff, you know, kind of.",
		"I led the migration of our billing service. Specifically, I designed the rollout plan and I did the execution.",
		"I am certain the project succeeded. I can point to the latency drop we measured. In fact, we cut p99 in half.",
	}

	report := svc.AnalyzeSession(responses, nil)
	require.NotNil(t, report)

	assert.Len(t, report.PerResponse, 3)
	assert.Greater(t, report.TotalFillers, 0)
	assert.NotEmpty(t, report.FillerAssessment)
	assert.NotEmpty(t, report.Recommendations)
	assert.Contains(t, []string{"improving", "declining", "stable"}, report.ConfidenceTrend)
}

func TestAnalyzeSessionEmpty(t *testing.T) {
	svc := NewBehavioralService()
	assert.Nil(t, svc.AnalyzeSession(nil, nil))
}

func TestScoreTrend(t *testing.T) {
	assert.Equal(t, "insufficient_data", scoreTrend([]float64{50, 60}))
	assert.Equal(t, "improving", scoreTrend([]float64{40, 45, 60, 70}))
	assert.Equal(t, "declining", scoreTrend([]float64{80, 75, 55, 50}))
	assert.Equal(t, "stable", scoreTrend([]float64{60, 61, 59, 60}))
}

func TestVocabularyDiversityRange(t *testing.T) {
	repetitive := vocabularyDiversity(strings.Fields(strings.Repeat("same same same ", 20)))
	varied := vocabularyDiversity(strings.Fields("each word here appears exactly once in this short sentence today"))

	assert.Less(t, repetitive, varied)
	assert.GreaterOrEqual(t, repetitive, 0.0)
	assert.LessOrEqual(t, varied, 100.0)
}
