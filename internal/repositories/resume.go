package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/models"
)

var ErrResumeNotFound = errors.New("resume not found")

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByID(id uuid.UUID) (*models.Resume, error)
	List() ([]models.Resume, error)
	Delete(id uuid.UUID) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Create implements ResumeRepository.
func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// FindByID implements ResumeRepository.
func (r *resumeRepository) FindByID(id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("id = ?", id).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

// List implements ResumeRepository.
func (r *resumeRepository) List() ([]models.Resume, error) {
	var resumes []models.Resume
	if err := r.db.Order("created_at DESC").Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// Delete implements ResumeRepository.
func (r *resumeRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Resume{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete resume: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrResumeNotFound
	}
	return nil
}
