package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/models"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/repositories"
)

type AnalyzerService interface {
	AnalyzeResume(ctx context.Context, analysisID uuid.UUID) error
}

type analyzerService struct {
	analysisRepo  repositories.AnalysisRepository
	resumeRepo    repositories.ResumeRepository
	geminiService GeminiService
	qdrantService QdrantService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewAnalyzerService(
	analysisRepo repositories.AnalysisRepository,
	resumeRepo repositories.ResumeRepository,
	geminiService GeminiService,
	qdrantService QdrantService,
	maxRetries int,
) AnalyzerService {
	return &analyzerService{
		analysisRepo:  analysisRepo,
		resumeRepo:    resumeRepo,
		geminiService: geminiService,
		qdrantService: qdrantService,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// ResumeAnalysisResult is the structured review stored on the analysis row.
type ResumeAnalysisResult struct {
	OverallScore           float64  `json:"overall_score"`
	MatchScore             float64  `json:"match_score"`
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	MissingKeywords        []string `json:"missing_keywords"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	Summary                string   `json:"summary"`
}

// AnalyzeResume runs the full analysis pipeline for a queued job. Any
// failure is written back to the analysis row so clients can see it.
func (a *analyzerService) AnalyzeResume(ctx context.Context, analysisID uuid.UUID) error {
	if err := a.analysisRepo.UpdateStatus(analysisID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("🔄 Starting resume analysis for job ID: %s\n", analysisID)

	analysis, err := a.analysisRepo.FindByID(analysisID)
	if err != nil {
		a.analysisRepo.UpdateError(analysisID, err.Error())
		return fmt.Errorf("failed to get analysis: %w", err)
	}

	resume, err := a.resumeRepo.FindByID(analysis.ResumeID)
	if err != nil {
		a.analysisRepo.UpdateError(analysisID, fmt.Sprintf("Resume not found: %v", err))
		return fmt.Errorf("failed to get resume: %w", err)
	}

	resumeText := resume.TextContent
	if ragContext := a.retrieveContext(ctx, analysis.JobDescription, resume.ID); ragContext != "" {
		// Prefer retrieved chunks over the full text for long resumes
		// so the prompt stays focused on relevant experience.
		if len(resumeText) > 12000 {
			resumeText = ragContext
		}
	}

	log.Println("🤖 Analyzing resume with LLM...")
	prompt := a.promptBuilder.BuildResumeAnalysisPrompt(resumeText, analysis.JobDescription)

	var result ResumeAnalysisResult
	if err := a.geminiService.GenerateJSON(ctx, prompt, 0.3, a.maxRetries, &result); err != nil {
		a.analysisRepo.UpdateError(analysisID, fmt.Sprintf("Failed to analyze resume: %v", err))
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	result.OverallScore = clamp(result.OverallScore, 0, 100)
	result.MatchScore = clamp(result.MatchScore, 0, 100)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		a.analysisRepo.UpdateError(analysisID, fmt.Sprintf("Failed to encode result: %v", err))
		return fmt.Errorf("failed to encode result: %w", err)
	}

	log.Println("💾 Saving analysis results...")
	if err := a.analysisRepo.UpdateResult(analysisID, result.OverallScore, string(resultJSON)); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.Printf("✅ Resume analysis completed for job ID: %s\n", analysisID)
	return nil
}

// retrieveContext pulls the most relevant resume chunks for the job
// description. Returns "" when retrieval is unavailable; analysis then
// proceeds on the raw text.
func (a *analyzerService) retrieveContext(ctx context.Context, query string, resumeID uuid.UUID) string {
	if query == "" {
		return ""
	}

	embedding, err := a.geminiService.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("⚠️  Warning: failed to generate query embedding: %v\n", err)
		return ""
	}

	results, err := a.qdrantService.SearchResumeContext(ctx, embedding, resumeID.String(), 6)
	if err != nil {
		log.Printf("⚠️  Warning: failed to retrieve resume context: %v\n", err)
		return ""
	}

	return a.promptBuilder.FormatResumeContext(results)
}
