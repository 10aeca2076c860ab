package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	raw := "Here is the evaluation:\n```json\n{\"scores\": {\"content\": 8}, \"summary\": \"Solid.\"}\n```\nLet me know if you need more."

	assert.Equal(t, `{"scores": {"content": 8}, "summary": "Solid."}`, extractJSON(raw))
}

func TestExtractJSONArrayOfObjects(t *testing.T) {
	raw := "```json\n[\n  {\"topic\": \"billing\"},\n  {\"topic\": \"teamwork\"}\n]\n```"

	extracted := extractJSON(raw)
	assert.Equal(t, "[", extracted[:1])
	assert.Equal(t, "]", extracted[len(extracted)-1:])
}

func TestExtractJSONPlainTextPassthrough(t *testing.T) {
	assert.Equal(t, "no json here", extractJSON("no json here"))
}

func TestParseJSONResponseQuestionArray(t *testing.T) {
	raw := "Here are the interview questions:\n```json\n[\n" +
		"  {\"topic\": \"billing\", \"type\": \"technical\", \"prompt\": \"Walk me through the billing rewrite.\"},\n" +
		"  {\"topic\": \"teamwork\", \"type\": \"behavioral\", \"prompt\": \"Tell me about a team conflict.\"}\n" +
		"]\n```"

	var questions []plannedQuestion
	require.NoError(t, parseJSONResponse(raw, &questions))
	require.Len(t, questions, 2)
	assert.Equal(t, "billing", questions[0].Topic)
	assert.Equal(t, "behavioral", questions[1].Type)
}

func TestParseJSONResponseObjectWithTrailingProse(t *testing.T) {
	raw := "{\"scores\": {\"content\": 7.5}, \"summary\": \"Good depth.\"}\n\nOverall a strong answer."

	var eval struct {
		Scores  map[string]float64 `json:"scores"`
		Summary string             `json:"summary"`
	}
	require.NoError(t, parseJSONResponse(raw, &eval))
	assert.InDelta(t, 7.5, eval.Scores["content"], 0.001)
}
