package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/models"
)

var ErrRecordNotFound = errors.New("interview record not found")

type InterviewRecordRepository interface {
	Create(record *models.InterviewRecord) error
	FindByID(id uuid.UUID) (*models.InterviewRecord, error)
	ListByResume(resumeID uuid.UUID) ([]models.InterviewRecord, error)
	List(limit int) ([]models.InterviewRecord, error)
}

type interviewRecordRepository struct {
	db *gorm.DB
}

func NewInterviewRecordRepository(db *gorm.DB) InterviewRecordRepository {
	return &interviewRecordRepository{db: db}
}

// Create implements InterviewRecordRepository.
func (r *interviewRecordRepository) Create(record *models.InterviewRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create interview record: %w", err)
	}
	return nil
}

// FindByID implements InterviewRecordRepository.
func (r *interviewRecordRepository) FindByID(id uuid.UUID) (*models.InterviewRecord, error) {
	var record models.InterviewRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find interview record: %w", err)
	}
	return &record, nil
}

// ListByResume implements InterviewRecordRepository.
func (r *interviewRecordRepository) ListByResume(resumeID uuid.UUID) ([]models.InterviewRecord, error) {
	var records []models.InterviewRecord
	if err := r.db.Where("resume_id = ?", resumeID).Order("started_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list interview records: %w", err)
	}
	return records, nil
}

// List implements InterviewRecordRepository.
func (r *interviewRecordRepository) List(limit int) ([]models.InterviewRecord, error) {
	var records []models.InterviewRecord
	if err := r.db.Order("started_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list interview records: %w", err)
	}
	return records, nil
}
