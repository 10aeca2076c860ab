package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/models"
)

var ErrAnalysisNotFound = errors.New("analysis not found")

type AnalysisRepository interface {
	Create(analysis *models.ResumeAnalysis) error
	FindByID(id uuid.UUID) (*models.ResumeAnalysis, error)
	UpdateStatus(id uuid.UUID, status models.AnalysisStatus) error
	UpdateResult(id uuid.UUID, overallScore float64, resultJSON string) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.ResumeAnalysis, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(analysis *models.ResumeAnalysis) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(id uuid.UUID) (*models.ResumeAnalysis, error) {
	var analysis models.ResumeAnalysis
	if err := r.db.Where("id = ?", id).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepository) UpdateStatus(id uuid.UUID, status models.AnalysisStatus) error {
	result := r.db.Model(&models.ResumeAnalysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

func (r *analysisRepository) UpdateResult(id uuid.UUID, overallScore float64, resultJSON string) error {
	result := r.db.Model(&models.ResumeAnalysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusCompleted,
			"overall_score": overallScore,
			"result":        resultJSON,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

func (r *analysisRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.ResumeAnalysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

func (r *analysisRepository) FindPendingJobs(limit int) ([]models.ResumeAnalysis, error) {
	var analyses []models.ResumeAnalysis
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&analyses).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}
	return analyses, nil
}
