package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/models"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/repositories"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/services"
)

type AnalysisHandler struct {
	analysisRepo repositories.AnalysisRepository
	resumeRepo   repositories.ResumeRepository
	worker       services.Worker
}

func NewAnalysisHandler(
	analysisRepo repositories.AnalysisRepository,
	resumeRepo repositories.ResumeRepository,
	worker services.Worker,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysisRepo: analysisRepo,
		resumeRepo:   resumeRepo,
		worker:       worker,
	}
}

// HandleAnalyze queues an analysis job for a resume and returns its ID.
// Processing happens on the worker pool; clients poll the result endpoint.
func (h *AnalysisHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_id must be a valid UUID",
		})
	}

	if _, err := h.resumeRepo.FindByID(resumeID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "resume not found",
		})
	}

	analysis := models.ResumeAnalysis{
		ID:             uuid.New(),
		ResumeID:       resumeID,
		JobDescription: req.JobDescription,
		Status:         models.StatusQueued,
	}

	if err := h.analysisRepo.Create(&analysis); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to create analysis job: %v", err),
		})
	}

	h.worker.EnqueueJob(analysis.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.AnalyzeResponse{
		ID:     analysis.ID.String(),
		Status: string(analysis.Status),
	})
}

// HandleGetResult returns the analysis status and, once completed, the
// structured result.
func (h *AnalysisHandler) HandleGetResult(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid analysis ID",
		})
	}

	analysis, err := h.analysisRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "analysis not found",
		})
	}

	response := fiber.Map{
		"id":     analysis.ID.String(),
		"status": string(analysis.Status),
	}

	switch analysis.Status {
	case models.StatusCompleted:
		var result services.ResumeAnalysisResult
		if analysis.Result != nil {
			if err := json.Unmarshal([]byte(*analysis.Result), &result); err == nil {
				response["result"] = result
			}
		}
		if analysis.OverallScore != nil {
			response["overall_score"] = *analysis.OverallScore
		}
	case models.StatusFailed:
		if analysis.ErrorMessage != nil {
			response["error"] = *analysis.ErrorMessage
		}
	}

	return c.JSON(response)
}
