package interview

import "errors"

var (
	// ErrInvalidPlan is returned when a session is started from an empty or
	// malformed question plan.
	ErrInvalidPlan = errors.New("invalid question plan")

	// ErrSessionComplete is returned when an operation is attempted on a
	// session that has already completed.
	ErrSessionComplete = errors.New("interview session already completed")

	// ErrEmptyAnswer is returned when a submitted answer is blank after trimming.
	ErrEmptyAnswer = errors.New("answer is empty")

	// ErrEvaluationFailed wraps evaluator errors. The session is left
	// unmutated, so the same submission may be retried safely.
	ErrEvaluationFailed = errors.New("response evaluation failed")

	// ErrSessionNotComplete is returned when a report is requested for a
	// session that is still in progress.
	ErrSessionNotComplete = errors.New("interview session not completed")

	// ErrConcurrentSubmission is returned when a submission is already in
	// flight for the same session.
	ErrConcurrentSubmission = errors.New("submission already in flight for this session")
)
