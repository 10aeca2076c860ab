package models

import (
	"time"

	"github.com/google/uuid"
)

type Resume struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	FileType         string    `gorm:"type:text" json:"file_type"`
	FilePath         string    `gorm:"type:text" json:"file_path"`
	TextContent      string    `gorm:"type:text" json:"-"`
	Sections         string    `gorm:"type:jsonb" json:"-"` // section name -> content
	ContactInfo      string    `gorm:"type:jsonb" json:"-"` // email/phone/linkedin/github
	WordCount        int       `gorm:"type:int" json:"word_count"`
	ChunkCount       int       `gorm:"type:int" json:"chunk_count"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (r *Resume) TableName() string {
	return "resumes"
}
