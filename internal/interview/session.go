package interview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a session. The only transition is
// in_progress -> completed, triggered when the last answer is evaluated.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Evaluation is the structured result of scoring one answer. Metric keys
// are defined by the evaluator, not fixed here; values are 0-10.
type Evaluation struct {
	Scores  map[string]float64 `json:"scores"`
	Summary string             `json:"summary"`
}

// ResponseEvaluator scores a candidate answer against a question. The call
// is expected to suspend (it usually wraps a network call to a scoring
// service); callers bound it with the context.
type ResponseEvaluator interface {
	Evaluate(ctx context.Context, question Question, answer string) (Evaluation, error)
}

// HistoryEntry records one answered question. History is append-only.
type HistoryEntry struct {
	Question   Question   `json:"question"`
	Answer     string     `json:"answer"`
	Evaluation Evaluation `json:"evaluation"`
	AnsweredAt time.Time  `json:"answered_at"`
}

// Session sequences a fixed question plan, records answers and their
// evaluations, and tracks completion. It never retries and never logs;
// retry policy belongs to the evaluator collaborator.
type Session struct {
	ID        uuid.UUID      `json:"id"`
	Plan      QuestionPlan   `json:"plan"`
	Position  int            `json:"position"` // current question index, 1-based
	History   []HistoryEntry `json:"history"`
	Status    Status         `json:"status"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`

	// mu serializes SubmitAnswer per session and is held across the
	// evaluator call; unrelated sessions never block each other. stateMu
	// guards the mutable fields so readers never observe a half-applied
	// commit while a submission is in flight.
	mu      sync.Mutex
	stateMu sync.RWMutex
}

// SubmitResult is the outcome of a successful answer submission.
type SubmitResult struct {
	Evaluation Evaluation
	Next       *Question // nil when the session just completed
	Completed  bool
}

// Start constructs a session over the given plan. Fails with ErrInvalidPlan
// if the plan is empty.
func Start(plan QuestionPlan) (*Session, error) {
	if plan.Length() == 0 {
		return nil, fmt.Errorf("%w: empty plan", ErrInvalidPlan)
	}

	return &Session{
		ID:        uuid.New(),
		Plan:      plan,
		Position:  1,
		History:   nil,
		Status:    StatusInProgress,
		StartedAt: time.Now().UTC(),
	}, nil
}

// CurrentQuestion returns the question at the current position. Fails with
// ErrSessionComplete once the session has completed.
func (s *Session) CurrentQuestion() (Question, error) {
	s.stateMu.RLock()
	status, position := s.Status, s.Position
	s.stateMu.RUnlock()

	if status == StatusCompleted {
		return Question{}, ErrSessionComplete
	}

	q, ok := s.Plan.QuestionAt(position)
	if !ok {
		return Question{}, fmt.Errorf("%w: position %d out of range", ErrInvalidPlan, position)
	}
	return q, nil
}

// SubmitAnswer evaluates the answer to the current question and, on
// success, appends it to the history and advances the session. If the
// evaluator fails, the session is left unmutated and the same call may be
// retried. Overlapping calls on one session fail with
// ErrConcurrentSubmission.
func (s *Session) SubmitAnswer(ctx context.Context, text string, evaluator ResponseEvaluator) (SubmitResult, error) {
	if !s.mu.TryLock() {
		return SubmitResult{}, ErrConcurrentSubmission
	}
	defer s.mu.Unlock()

	if s.Status == StatusCompleted {
		return SubmitResult{}, ErrSessionComplete
	}

	answer := strings.TrimSpace(text)
	if answer == "" {
		return SubmitResult{}, ErrEmptyAnswer
	}

	question, ok := s.Plan.QuestionAt(s.Position)
	if !ok {
		return SubmitResult{}, fmt.Errorf("%w: position %d out of range", ErrInvalidPlan, s.Position)
	}

	evaluation, err := evaluator.Evaluate(ctx, question, answer)
	if err != nil {
		// No mutation on failure: resubmission is safe.
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}

	s.stateMu.Lock()
	s.History = append(s.History, HistoryEntry{
		Question:   question,
		Answer:     answer,
		Evaluation: evaluation,
		AnsweredAt: time.Now().UTC(),
	})
	s.Position++

	completed := s.Position > s.Plan.Length()
	if completed {
		s.Status = StatusCompleted
		now := time.Now().UTC()
		s.EndedAt = &now
	}
	position := s.Position
	s.stateMu.Unlock()

	if completed {
		return SubmitResult{Evaluation: evaluation, Next: nil, Completed: true}, nil
	}

	next, _ := s.Plan.QuestionAt(position)
	return SubmitResult{Evaluation: evaluation, Next: &next, Completed: false}, nil
}

// CompletedAt returns the completion time, if the session has completed.
func (s *Session) CompletedAt() (time.Time, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if s.EndedAt == nil {
		return time.Time{}, false
	}
	return *s.EndedAt, true
}

// CurrentStatus returns the lifecycle state at the time of the call.
func (s *Session) CurrentStatus() Status {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.Status
}

// IsComplete reports whether the session has finished its plan.
func (s *Session) IsComplete() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.Status == StatusCompleted
}

// Answered returns the number of answers recorded so far.
func (s *Session) Answered() int {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return len(s.History)
}

// Transcript returns a copy of the history safe to read while a
// submission is committing.
func (s *Session) Transcript() []HistoryEntry {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	history := make([]HistoryEntry, len(s.History))
	copy(history, s.History)
	return history
}

// AggregateScores averages each metric across the history. Metrics missing
// from some evaluations are averaged over the entries that carry them.
func (s *Session) AggregateScores() map[string]float64 {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, entry := range s.History {
		for metric, value := range entry.Evaluation.Scores {
			sums[metric] += value
			counts[metric]++
		}
	}

	if len(sums) == 0 {
		return nil
	}

	averages := make(map[string]float64, len(sums))
	for metric, sum := range sums {
		averages[metric] = sum / float64(counts[metric])
	}
	return averages
}
