package interview

import (
	"math"
	"sort"
	"strings"
)

// QuestionFeedback is the per-question slice of a report.
type QuestionFeedback struct {
	Index    int                `json:"index"`
	Topic    string             `json:"topic"`
	Question string             `json:"question"`
	Answer   string             `json:"answer"`
	Scores   map[string]float64 `json:"scores"`
	Summary  string             `json:"summary"`
}

// Report is the derived summary of a completed session. It is computed on
// demand from the immutable history and never stored by this package.
type Report struct {
	SessionID        string             `json:"session_id"`
	OverallScore     float64            `json:"overall_score"` // 0-100
	MetricAverages   map[string]float64 `json:"metric_averages"`
	PerQuestion      []QuestionFeedback `json:"per_question_feedback"`
	Strengths        []string           `json:"strengths"`
	ImprovementAreas []string           `json:"improvement_areas"`
}

// SummaryHeuristic derives strength and improvement lists from the history.
// The default is rule-based; callers may supply an LLM-driven one.
type SummaryHeuristic func(history []HistoryEntry) (strengths, improvements []string)

// AssembleReport folds a completed session's history into a Report. Fails
// with ErrSessionNotComplete if the session is still in progress. The
// result is a pure function of the history: repeated calls yield identical
// reports.
func AssembleReport(s *Session, heuristic SummaryHeuristic) (Report, error) {
	if !s.IsComplete() {
		return Report{}, ErrSessionNotComplete
	}

	if heuristic == nil {
		heuristic = DefaultSummaryHeuristic
	}

	history := s.Transcript()
	report := Report{
		SessionID:      s.ID.String(),
		MetricAverages: s.AggregateScores(),
		PerQuestion:    make([]QuestionFeedback, 0, len(history)),
	}

	// Overall score: mean of every per-question metric value (0-10),
	// scaled to 0-100.
	var sum float64
	var n int
	for _, entry := range history {
		for _, value := range entry.Evaluation.Scores {
			sum += value
			n++
		}

		report.PerQuestion = append(report.PerQuestion, QuestionFeedback{
			Index:    entry.Question.Index,
			Topic:    entry.Question.Topic,
			Question: entry.Question.Prompt,
			Answer:   entry.Answer,
			Scores:   entry.Evaluation.Scores,
			Summary:  entry.Evaluation.Summary,
		})
	}
	if n > 0 {
		report.OverallScore = math.Round(sum/float64(n)*10*10) / 10
	}

	report.Strengths, report.ImprovementAreas = heuristic(history)
	return report, nil
}

// strongThreshold and weakThreshold split metric averages into strengths
// and improvement areas for the default heuristic.
const (
	strongThreshold = 7.0
	weakThreshold   = 5.0
)

// DefaultSummaryHeuristic labels metrics whose session average is high as
// strengths and low ones as improvement areas, in deterministic order.
func DefaultSummaryHeuristic(history []HistoryEntry) ([]string, []string) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, entry := range history {
		for metric, value := range entry.Evaluation.Scores {
			sums[metric] += value
			counts[metric]++
		}
	}

	metrics := make([]string, 0, len(sums))
	for metric := range sums {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)

	var strengths, improvements []string
	for _, metric := range metrics {
		avg := sums[metric] / float64(counts[metric])
		label := strings.ReplaceAll(metric, "_", " ")
		switch {
		case avg >= strongThreshold:
			strengths = append(strengths, "Strong "+label)
		case avg < weakThreshold:
			improvements = append(improvements, "Work on "+label)
		}
	}

	return strengths, improvements
}
