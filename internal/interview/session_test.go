package interview

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvaluator struct {
	evaluation Evaluation
	err        error
	calls      int

	block   chan struct{} // when set, Evaluate waits until closed
	started chan struct{} // signals that a blocked Evaluate has begun
}

func (s *stubEvaluator) Evaluate(_ context.Context, _ Question, _ string) (Evaluation, error) {
	s.calls++
	if s.block != nil {
		s.started <- struct{}{}
		<-s.block
	}
	if s.err != nil {
		return Evaluation{}, s.err
	}
	return s.evaluation, nil
}

func planOf(t *testing.T, prompts ...string) QuestionPlan {
	t.Helper()
	questions := make([]Question, len(prompts))
	for i, p := range prompts {
		questions[i] = Question{Topic: "general", Prompt: p}
	}
	plan, err := NewQuestionPlan(questions)
	require.NoError(t, err)
	return plan
}

func TestNewQuestionPlan_AssignsContiguousIndices(t *testing.T) {
	plan := planOf(t, "q1", "q2", "q3")

	require.Equal(t, 3, plan.Length())
	for i, q := range plan.Questions {
		assert.Equal(t, i+1, q.Index)
		assert.Equal(t, 3, q.Total)
	}
}

func TestNewQuestionPlan_Empty(t *testing.T) {
	_, err := NewQuestionPlan(nil)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = NewQuestionPlan([]Question{{Topic: "x"}})
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestStart_EmptyPlan(t *testing.T) {
	_, err := Start(QuestionPlan{})
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestSession_TwoQuestionFlow(t *testing.T) {
	plan := planOf(t, "Tell me about yourself", "Describe a challenge")
	session, err := Start(plan)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, session.Status)
	require.Equal(t, 1, session.Position)

	evaluator := &stubEvaluator{evaluation: Evaluation{
		Scores:  map[string]float64{"clarity": 8},
		Summary: "clear",
	}}

	result, err := session.SubmitAnswer(context.Background(), "I am an engineer", evaluator)
	require.NoError(t, err)
	assert.Equal(t, 8.0, result.Evaluation.Scores["clarity"])
	assert.False(t, result.Completed)
	require.NotNil(t, result.Next)
	assert.Equal(t, 2, result.Next.Index)
	assert.Equal(t, 2, session.Position)

	result, err = session.SubmitAnswer(context.Background(), "I shipped a migration under load", evaluator)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Nil(t, result.Next)
	assert.Equal(t, StatusCompleted, session.Status)
	assert.Len(t, session.History, 2)
	assert.True(t, session.IsComplete())
}

func TestSession_CompletesAfterExactlyN(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		prompts := make([]string, n)
		for i := range prompts {
			prompts[i] = "question"
		}
		session, err := Start(planOf(t, prompts...))
		require.NoError(t, err)

		evaluator := &stubEvaluator{evaluation: Evaluation{Scores: map[string]float64{"content": 6}}}
		for i := 0; i < n; i++ {
			assert.False(t, session.IsComplete(), "n=%d i=%d", n, i)
			_, err := session.SubmitAnswer(context.Background(), "an answer", evaluator)
			require.NoError(t, err)
		}

		assert.True(t, session.IsComplete())
		assert.Len(t, session.History, n)
	}
}

func TestSubmitAnswer_AfterCompletion(t *testing.T) {
	session, err := Start(planOf(t, "only question"))
	require.NoError(t, err)

	evaluator := &stubEvaluator{evaluation: Evaluation{Scores: map[string]float64{"content": 7}}}
	_, err = session.SubmitAnswer(context.Background(), "done", evaluator)
	require.NoError(t, err)
	require.True(t, session.IsComplete())

	_, err = session.SubmitAnswer(context.Background(), "extra", evaluator)
	assert.ErrorIs(t, err, ErrSessionComplete)
	assert.Len(t, session.History, 1)

	_, err = session.CurrentQuestion()
	assert.ErrorIs(t, err, ErrSessionComplete)
}

func TestSubmitAnswer_EmptyAfterTrim(t *testing.T) {
	session, err := Start(planOf(t, "q1"))
	require.NoError(t, err)

	evaluator := &stubEvaluator{}
	_, err = session.SubmitAnswer(context.Background(), "   ", evaluator)
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	assert.Empty(t, session.History)
	assert.Equal(t, 1, session.Position)
	assert.Zero(t, evaluator.calls)
}

func TestSubmitAnswer_EvaluatorFailureLeavesSessionUnmutated(t *testing.T) {
	session, err := Start(planOf(t, "q1", "q2"))
	require.NoError(t, err)

	failing := &stubEvaluator{err: errors.New("upstream 503")}
	_, err = session.SubmitAnswer(context.Background(), "my answer", failing)
	assert.ErrorIs(t, err, ErrEvaluationFailed)
	assert.Empty(t, session.History)
	assert.Equal(t, 1, session.Position)
	assert.Equal(t, StatusInProgress, session.Status)

	// Retry with a working evaluator proceeds normally.
	ok := &stubEvaluator{evaluation: Evaluation{Scores: map[string]float64{"content": 5}}}
	result, err := session.SubmitAnswer(context.Background(), "my answer", ok)
	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.Equal(t, 2, session.Position)
}

func TestSubmitAnswer_ConcurrentSubmissionRejected(t *testing.T) {
	session, err := Start(planOf(t, "q1", "q2"))
	require.NoError(t, err)

	blocked := &stubEvaluator{
		evaluation: Evaluation{Scores: map[string]float64{"content": 6}},
		block:      make(chan struct{}),
		started:    make(chan struct{}, 1),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, submitErr := session.SubmitAnswer(context.Background(), "first", blocked)
		assert.NoError(t, submitErr)
	}()

	<-blocked.started

	_, err = session.SubmitAnswer(context.Background(), "second", &stubEvaluator{})
	assert.ErrorIs(t, err, ErrConcurrentSubmission)

	close(blocked.block)
	wg.Wait()
	assert.Len(t, session.History, 1)
}

func TestTranscript_ReadableDuringSubmission(t *testing.T) {
	session, err := Start(planOf(t, "q1", "q2"))
	require.NoError(t, err)

	blocked := &stubEvaluator{
		evaluation: Evaluation{Scores: map[string]float64{"content": 6}},
		block:      make(chan struct{}),
		started:    make(chan struct{}, 1),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, submitErr := session.SubmitAnswer(context.Background(), "first", blocked)
		assert.NoError(t, submitErr)
	}()

	<-blocked.started

	// Readers see the pre-commit state while evaluation is in flight.
	assert.Empty(t, session.Transcript())
	assert.Equal(t, 0, session.Answered())
	assert.Equal(t, StatusInProgress, session.CurrentStatus())
	assert.False(t, session.IsComplete())

	close(blocked.block)
	wg.Wait()

	transcript := session.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, "first", transcript[0].Answer)

	// The snapshot is a copy, not the live slice.
	transcript[0].Answer = "mutated"
	assert.Equal(t, "first", session.Transcript()[0].Answer)
}

func TestAggregateScores(t *testing.T) {
	session, err := Start(planOf(t, "q1", "q2"))
	require.NoError(t, err)

	first := &stubEvaluator{evaluation: Evaluation{Scores: map[string]float64{"clarity": 8, "content": 6}}}
	second := &stubEvaluator{evaluation: Evaluation{Scores: map[string]float64{"clarity": 6}}}

	_, err = session.SubmitAnswer(context.Background(), "a", first)
	require.NoError(t, err)
	_, err = session.SubmitAnswer(context.Background(), "b", second)
	require.NoError(t, err)

	averages := session.AggregateScores()
	assert.InDelta(t, 7.0, averages["clarity"], 1e-9)
	assert.InDelta(t, 6.0, averages["content"], 1e-9)
}
