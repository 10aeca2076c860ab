package services

import (
	"fmt"
	"strings"
)

// PromptBuilder assembles the prompts sent to Gemini. Keeping them in one
// place makes the model-facing contract easy to audit and tweak.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// FormatResumeContext renders retrieved resume chunks into a context block
// for RAG-grounded prompts.
func (b *PromptBuilder) FormatResumeContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No resume context available."
	}

	var sb strings.Builder
	for i, result := range results {
		sb.WriteString(fmt.Sprintf("[%s #%d]\n%s\n\n", result.ChunkType, i+1, result.Text))
	}
	return strings.TrimSpace(sb.String())
}

// BuildQuestionPlanPrompt asks the model for a full interview plan as a
// JSON array. numQuestions is enforced downstream; the prompt states it
// so the model does not pad or truncate.
func (b *PromptBuilder) BuildQuestionPlanPrompt(resumeContext, jobDescription, interviewType, difficulty string, numQuestions int) string {
	jobSection := "No job description provided. Base questions on the resume alone."
	if strings.TrimSpace(jobDescription) != "" {
		jobSection = fmt.Sprintf("TARGET JOB DESCRIPTION:\n%s", jobDescription)
	}

	return fmt.Sprintf(`You are an experienced %s interviewer preparing a mock interview.

CANDIDATE RESUME CONTEXT:
%s

%s

Generate exactly %d interview questions at %s difficulty. Mix question types:
behavioral questions grounded in the candidate's actual experience, and
%s questions relevant to the role. Reference specific projects, companies,
or skills from the resume where possible so the interview feels personal.

Respond with ONLY a JSON array, no markdown, in this exact shape:
[
  {
    "topic": "short topic label",
    "type": "behavioral|technical|situational",
    "prompt": "the full question text"
  }
]`, interviewType, resumeContext, jobSection, numQuestions, difficulty, interviewType)
}

// BuildEvaluationPrompt asks the model to score a single answer. The score
// keys are fixed; the evaluator clamps them to 0-10 after parsing.
func (b *PromptBuilder) BuildEvaluationPrompt(questionPrompt, questionType, answer string) string {
	return fmt.Sprintf(`You are an expert interview coach evaluating a candidate's answer.

QUESTION (%s):
%s

CANDIDATE ANSWER:
%s

Score the answer on each dimension from 0 to 10:
- content: substance, relevance and specificity of the answer
- communication: structure, clarity and flow
- analytical: reasoning quality and problem decomposition
- technical_depth: depth of technical or domain knowledge shown
- star_method: use of Situation, Task, Action, Result structure
- authenticity: whether the answer sounds genuine and first-hand

Respond with ONLY a JSON object, no markdown:
{
  "scores": {
    "content": 0,
    "communication": 0,
    "analytical": 0,
    "technical_depth": 0,
    "star_method": 0,
    "authenticity": 0
  },
  "summary": "two or three sentences of concrete feedback"
}`, questionType, questionPrompt, answer)
}

// BuildIntroPrompt produces the interviewer's opening message.
func (b *PromptBuilder) BuildIntroPrompt(resumeContext, interviewType string, numQuestions int) string {
	return fmt.Sprintf(`You are a friendly professional interviewer opening a %s mock interview.

CANDIDATE RESUME CONTEXT:
%s

Write a warm two-sentence introduction: greet the candidate by referencing
something specific from their background, and tell them the interview has
%d questions. Respond with the introduction text only, no quotes or markdown.`, interviewType, resumeContext, numQuestions)
}

// BuildClosingPrompt produces the interviewer's sign-off after the last answer.
func (b *PromptBuilder) BuildClosingPrompt(interviewType string, questionsAnswered int) string {
	return fmt.Sprintf(`You are a professional interviewer wrapping up a %s mock interview.
The candidate answered all %d questions. Write a brief two-sentence closing:
thank them and tell them their detailed report is ready. Respond with the
closing text only, no quotes or markdown.`, interviewType, questionsAnswered)
}

// BuildResumeAnalysisPrompt asks the model for a structured resume review
// against an optional job description.
func (b *PromptBuilder) BuildResumeAnalysisPrompt(resumeText, jobDescription string) string {
	jobSection := "No target job description was provided. Analyze the resume on general quality."
	if strings.TrimSpace(jobDescription) != "" {
		jobSection = fmt.Sprintf("TARGET JOB DESCRIPTION:\n%s", jobDescription)
	}

	return fmt.Sprintf(`You are a senior technical recruiter reviewing a resume.

RESUME:
%s

%s

Analyze the resume and respond with ONLY a JSON object, no markdown:
{
  "overall_score": 0,
  "match_score": 0,
  "strengths": ["..."],
  "weaknesses": ["..."],
  "missing_keywords": ["..."],
  "improvement_suggestions": ["..."],
  "summary": "one paragraph executive summary"
}

overall_score and match_score are 0-100. If no job description was given,
set match_score equal to overall_score and leave missing_keywords empty.`, resumeText, jobSection)
}

// BuildReportSummaryPrompt asks the model for an executive summary of a
// finished interview. Callers fall back to a heuristic summary when the
// model is unavailable.
func (b *PromptBuilder) BuildReportSummaryPrompt(interviewType string, overallScore float64, metricAverages map[string]float64, feedback []string) string {
	var metrics strings.Builder
	for name, avg := range metricAverages {
		metrics.WriteString(fmt.Sprintf("- %s: %.1f/10\n", name, avg))
	}

	var notes strings.Builder
	for i, f := range feedback {
		notes.WriteString(fmt.Sprintf("%d. %s\n", i+1, f))
	}

	return fmt.Sprintf(`You are an interview coach writing the executive summary of a %s mock
interview report.

OVERALL SCORE: %.1f/100

AVERAGE SCORES:
%s
PER-QUESTION FEEDBACK:
%s
Write a concise executive summary (3-4 sentences): overall impression, the
candidate's strongest area, and the single most impactful thing to improve.
Respond with the summary text only, no markdown.`, interviewType, overallScore, metrics.String(), notes.String())
}
