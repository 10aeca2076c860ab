package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/interview"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/repositories"
)

// InterviewReport is the full client-facing report: the core score
// breakdown plus behavioral analytics and coaching output.
type InterviewReport struct {
	interview.Report
	InterviewType    string                   `json:"interview_type"`
	Recommendation   string                   `json:"recommendation"`
	ExecutiveSummary string                   `json:"executive_summary"`
	Behavioral       *SessionBehavioralReport `json:"behavioral_analytics,omitempty"`
}

type ReportService interface {
	GenerateReport(ctx context.Context, state *repositories.SessionState) (*InterviewReport, error)
}

type reportService struct {
	gemini     GeminiService
	behavioral BehavioralService
	prompts    *PromptBuilder
}

func NewReportService(gemini GeminiService, behavioral BehavioralService) ReportService {
	return &reportService{
		gemini:     gemini,
		behavioral: behavioral,
		prompts:    NewPromptBuilder(),
	}
}

// GenerateReport implements ReportService. The core report is deterministic;
// the executive summary comes from Gemini with a heuristic fallback so a
// model outage never blocks report delivery.
func (r *reportService) GenerateReport(ctx context.Context, state *repositories.SessionState) (*InterviewReport, error) {
	core, err := interview.AssembleReport(state.Session, nil)
	if err != nil {
		return nil, err
	}

	report := &InterviewReport{
		Report:         core,
		InterviewType:  state.InterviewType,
		Recommendation: recommendationFor(core.OverallScore),
	}

	if responses := state.Responses(); len(responses) > 0 {
		report.Behavioral = r.behavioral.AnalyzeSession(responses, nil)
	}

	report.ExecutiveSummary = r.executiveSummary(ctx, state.InterviewType, core)
	return report, nil
}

func (r *reportService) executiveSummary(ctx context.Context, interviewType string, core interview.Report) string {
	feedback := make([]string, 0, len(core.PerQuestion))
	for _, q := range core.PerQuestion {
		if q.Summary != "" {
			feedback = append(feedback, q.Summary)
		}
	}

	prompt := r.prompts.BuildReportSummaryPrompt(interviewType, core.OverallScore, core.MetricAverages, feedback)
	summary, err := r.gemini.GenerateTextWithRetry(ctx, prompt, 0.5, 2)
	if err != nil || strings.TrimSpace(summary) == "" {
		log.Printf("⚠️ Executive summary generation failed, using fallback: %v", err)
		return fallbackSummary(core)
	}
	return strings.TrimSpace(summary)
}

func recommendationFor(score float64) string {
	switch {
	case score >= 80:
		return "Strong Hire"
	case score >= 65:
		return "Hire"
	case score >= 50:
		return "Maybe"
	default:
		return "No Hire"
	}
}

func fallbackSummary(core interview.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The candidate scored %.1f/100 across %d questions.", core.OverallScore, len(core.PerQuestion))
	if len(core.Strengths) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(core.Strengths, ", "))
		sb.WriteString(".")
	}
	if len(core.ImprovementAreas) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(core.ImprovementAreas, ", "))
		sb.WriteString(".")
	}
	return sb.String()
}
