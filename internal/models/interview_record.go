package models

import (
	"time"

	"github.com/google/uuid"
)

// InterviewRecord archives a finished interview session in Postgres so
// recruiters can list and review sessions after the process restarts.
// Live sessions stay in the SessionStore; a record is written when a
// session completes its plan or is ended early.
type InterviewRecord struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ResumeID          uuid.UUID `gorm:"type:uuid;not null;index" json:"resume_id"`
	JobDescription    string    `gorm:"type:text" json:"job_description,omitempty"`
	InterviewType     string    `gorm:"type:text" json:"interview_type"`
	Mode              string    `gorm:"type:text" json:"mode"`
	Difficulty        string    `gorm:"type:text" json:"difficulty"`
	NumQuestions      int       `gorm:"type:int" json:"num_questions"`
	QuestionsAnswered int       `gorm:"type:int" json:"questions_answered"`
	Completed         bool      `gorm:"type:bool" json:"completed"`
	OverallScore      *float64  `gorm:"type:decimal(5,2)" json:"overall_score,omitempty"`
	History           string    `gorm:"type:jsonb" json:"-"` // serialized question/answer/evaluation triples
	StartedAt         time.Time `gorm:"type:timestamp" json:"started_at"`
	EndedAt           time.Time `gorm:"type:timestamp" json:"ended_at"`
	CreatedAt         time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relations
	Resume Resume `gorm:"foreignKey:ResumeID" json:"-"`
}

func (InterviewRecord) TableName() string {
	return "interview_records"
}
