// Package interview implements the interview session lifecycle: a fixed
// question plan, answer submission with external evaluation, completion
// tracking and report assembly. The package performs no I/O of its own;
// question generation, scoring and persistence are injected collaborators.
package interview

import "fmt"

// Question is a single entry of a question plan. Immutable once the plan
// is created.
type Question struct {
	Index  int    `json:"index"` // 1-based position
	Total  int    `json:"total"` // fixed at plan creation
	Topic  string `json:"topic"`
	Type   string `json:"type,omitempty"` // behavioral, technical, situational, ...
	Prompt string `json:"prompt"`
}

// QuestionPlan is an ordered, immutable list of interview questions with
// contiguous 1-based indices.
type QuestionPlan struct {
	Questions []Question `json:"questions"`
}

// NewQuestionPlan builds a plan from prompts in order, assigning indices
// and totals. Fails with ErrInvalidPlan if no questions are given.
func NewQuestionPlan(questions []Question) (QuestionPlan, error) {
	if len(questions) == 0 {
		return QuestionPlan{}, fmt.Errorf("%w: no questions", ErrInvalidPlan)
	}

	total := len(questions)
	plan := QuestionPlan{Questions: make([]Question, total)}
	for i, q := range questions {
		if q.Prompt == "" {
			return QuestionPlan{}, fmt.Errorf("%w: question %d has no prompt", ErrInvalidPlan, i+1)
		}
		q.Index = i + 1
		q.Total = total
		plan.Questions[i] = q
	}

	return plan, nil
}

// Length returns the number of questions in the plan.
func (p QuestionPlan) Length() int {
	return len(p.Questions)
}

// QuestionAt returns the question at the given 1-based index.
func (p QuestionPlan) QuestionAt(index int) (Question, bool) {
	if index < 1 || index > len(p.Questions) {
		return Question{}, false
	}
	return p.Questions[index-1], true
}
