package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/interview"
)

// PlanParams are the knobs for generating an interview question plan.
type PlanParams struct {
	JobDescription string
	InterviewType  string
	Difficulty     string
	NumQuestions   int
}

type QuestionPlannerService interface {
	GeneratePlan(ctx context.Context, resumeContext string, params PlanParams) (interview.QuestionPlan, error)
}

type questionPlannerService struct {
	gemini  GeminiService
	prompts *PromptBuilder
}

func NewQuestionPlannerService(gemini GeminiService, prompts *PromptBuilder) QuestionPlannerService {
	return &questionPlannerService{
		gemini:  gemini,
		prompts: prompts,
	}
}

type plannedQuestion struct {
	Topic  string `json:"topic"`
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}

// Generic questions used when the model cannot produce a plan. The order
// roughly follows a real interview arc from introduction to closing.
var fallbackQuestionBank = []plannedQuestion{
	{Topic: "introduction", Type: "behavioral", Prompt: "Tell me about yourself and your background."},
	{Topic: "strengths", Type: "behavioral", Prompt: "What are your greatest strengths and how have you applied them professionally?"},
	{Topic: "challenges", Type: "behavioral", Prompt: "Describe a challenging project you've worked on. How did you handle it?"},
	{Topic: "motivation", Type: "situational", Prompt: "Why are you interested in this role?"},
	{Topic: "career_goals", Type: "situational", Prompt: "Where do you see yourself in the next few years?"},
	{Topic: "teamwork", Type: "behavioral", Prompt: "Tell me about a time you worked effectively in a team."},
	{Topic: "stress_management", Type: "situational", Prompt: "How do you handle tight deadlines or pressure?"},
	{Topic: "growth", Type: "behavioral", Prompt: "What's a skill you're currently working to improve?"},
	{Topic: "closing", Type: "behavioral", Prompt: "Is there anything else you'd like to share about your qualifications?"},
	{Topic: "closing", Type: "behavioral", Prompt: "Do you have any questions about the role or the team?"},
}

// GeneratePlan implements QuestionPlannerService. It asks Gemini for a
// resume-grounded plan and falls back to the static question bank when the
// model fails or returns an unusable plan.
func (s *questionPlannerService) GeneratePlan(ctx context.Context, resumeContext string, params PlanParams) (interview.QuestionPlan, error) {
	prompt := s.prompts.BuildQuestionPlanPrompt(
		resumeContext,
		params.JobDescription,
		params.InterviewType,
		params.Difficulty,
		params.NumQuestions,
	)

	var generated []plannedQuestion
	if err := s.gemini.GenerateJSON(ctx, prompt, 0.7, 2, &generated); err != nil {
		log.Printf("⚠️ Question generation failed, using fallback bank: %v", err)
		return s.fallbackPlan(params.NumQuestions)
	}

	if len(generated) > params.NumQuestions {
		generated = generated[:params.NumQuestions]
	}
	for len(generated) < params.NumQuestions {
		// Pad short plans from the bank, skipping already-covered topics
		// is not worth the complexity here.
		filler := fallbackQuestionBank[len(generated)%len(fallbackQuestionBank)]
		generated = append(generated, filler)
	}

	plan, err := s.buildPlan(generated)
	if err != nil {
		log.Printf("⚠️ Generated plan invalid, using fallback bank: %v", err)
		return s.fallbackPlan(params.NumQuestions)
	}
	return plan, nil
}

func (s *questionPlannerService) fallbackPlan(numQuestions int) (interview.QuestionPlan, error) {
	questions := make([]plannedQuestion, 0, numQuestions)
	for i := 0; i < numQuestions; i++ {
		questions = append(questions, fallbackQuestionBank[i%len(fallbackQuestionBank)])
	}
	return s.buildPlan(questions)
}

func (s *questionPlannerService) buildPlan(questions []plannedQuestion) (interview.QuestionPlan, error) {
	specs := make([]interview.Question, 0, len(questions))
	for _, q := range questions {
		qType := q.Type
		if qType == "" {
			qType = "behavioral"
		}
		specs = append(specs, interview.Question{
			Topic:  q.Topic,
			Type:   qType,
			Prompt: q.Prompt,
		})
	}

	plan, err := interview.NewQuestionPlan(specs)
	if err != nil {
		return interview.QuestionPlan{}, fmt.Errorf("failed to build question plan: %w", err)
	}
	return plan, nil
}
