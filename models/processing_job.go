package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusPending    = "PENDING"
	JobStatusProcessing = "PROCESSING"
	JobStatusCompleted  = "COMPLETED"
	JobStatusFailed     = "FAILED"
)

// ProcessingJob represents one asynchronous pipeline run in the processing_jobs table.
type ProcessingJob struct {
	ID           uuid.UUID       `json:"id"`
	JobType      string          `json:"job_type"`
	EntityKey    string          `json:"entity_key"`
	Status       string          `json:"status"`
	ErrorMessage *string         `json:"error_message,omitempty"` // Nullable TEXT
	Metadata     json.RawMessage `json:"metadata,omitempty"`      // Nullable JSONB
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}
