package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// ResumeAnalysis is an asynchronous resume scoring job and its result.
type ResumeAnalysis struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"resume_id"`
	JobDescription string         `gorm:"type:text" json:"job_description,omitempty"`
	Status         AnalysisStatus `gorm:"not null;default:'queued'" json:"status"`
	OverallScore   *float64       `gorm:"type:decimal(5,2)" json:"overall_score,omitempty"`
	Result         *string        `gorm:"type:jsonb" json:"-"` // full structured analysis
	ErrorMessage   *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Resume Resume `gorm:"foreignKey:ResumeID" json:"-"`
}

func (ResumeAnalysis) TableName() string {
	return "resume_analyses"
}
