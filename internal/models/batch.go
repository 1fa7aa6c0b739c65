package models

import (
	"time"

	"github.com/google/uuid"
)

type BatchStatus string

const (
	StatusQueued     BatchStatus = "queued"
	StatusProcessing BatchStatus = "processing"
	StatusCompleted  BatchStatus = "completed"
	StatusFailed     BatchStatus = "failed"
)

// Batch is one job posting evaluated against a set of uploaded resumes.
type Batch struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobPost      string      `gorm:"type:text;not null" json:"job_post"`
	Status       BatchStatus `gorm:"not null;default:'queued'" json:"status"`
	ErrorMessage *string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Candidates []CandidateRecord `gorm:"foreignKey:BatchID" json:"-"`
}

func (Batch) TableName() string {
	return "batches"
}

// CandidateRecord is the persisted form of a Candidate inside a Batch.
// Position is the upload order; Rank is set once the batch is scored.
type CandidateRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BatchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"batch_id"`
	Position  int       `gorm:"not null" json:"position"`
	Filename  string    `gorm:"type:text" json:"filename"`
	FilePath  string    `gorm:"type:text" json:"-"`
	Name      *string   `gorm:"type:text" json:"name,omitempty"`
	Score     *float64  `gorm:"type:decimal(4,2)" json:"score,omitempty"`
	Result    *string   `gorm:"type:text" json:"result,omitempty"`
	Rank      *int      `json:"rank,omitempty"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (CandidateRecord) TableName() string {
	return "candidates"
}
