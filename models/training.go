package models

import (
	"encoding/json"
	"time"
)

// SubtitleData is the JSONB payload shared by training_videos and subtitles rows.
type SubtitleData struct {
	Subtitles CaptionSequence `json:"subtitles"`
}

// TrainingRecord maps to the training_videos table. Rows are append-only.
type TrainingRecord struct {
	ID           int64        `json:"id,omitempty"`
	UserID       *string      `json:"user_id,omitempty"`
	SubtitleData SubtitleData `json:"subtitle_data"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
}

// SubtitleSet maps to the subtitles table: the latest caption sequence a user
// generated, used by the project export.
type SubtitleSet struct {
	ID           int64          `json:"id,omitempty"`
	UserID       string         `json:"user_id"`
	SubtitleData SubtitleData   `json:"subtitle_data"`
	Design       SubtitleDesign `json:"design"`
	FileURL      *string        `json:"file_url,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
}

// ModelSnapshot maps to the machine_learning_models table.
type ModelSnapshot struct {
	ModelData json.RawMessage `json:"model_data"`
}
