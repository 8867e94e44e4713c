// Package db reads and writes the PostgREST tables behind the subtitle
// pipeline.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	postgrest "github.com/supabase-community/postgrest-go"

	"subtitleforge/models"
)

const (
	trainingTable = "training_videos"
	subtitleTable = "subtitles"
	modelTable    = "machine_learning_models"
	jobTable      = "processing_jobs"
	designTable   = "subtitle_designs"
	filterTable   = "filters"
)

// ErrRecordNotFound is returned when a lookup matches no row.
var ErrRecordNotFound = errors.New("record not found")

// Repository is the persistence surface used by handlers, stages and jobs.
type Repository interface {
	TrainingRecords(ctx context.Context, userID string) ([]models.TrainingRecord, error)
	AllTrainingRecords(ctx context.Context) ([]models.TrainingRecord, error)
	InsertTrainingRecord(ctx context.Context, rec models.TrainingRecord) error

	LatestSubtitleSet(ctx context.Context, userID string) (*models.SubtitleSet, error)
	InsertSubtitleSet(ctx context.Context, set models.SubtitleSet) error

	InsertModelSnapshot(ctx context.Context, snap models.ModelSnapshot) error

	DesignSettings(ctx context.Context, userID string) (*models.DesignSettings, error)
	UpsertDesignSettings(ctx context.Context, settings models.DesignSettings) error
	Filters(ctx context.Context, userID string) ([]models.FilterPreset, error)
	InsertFilter(ctx context.Context, preset models.FilterPreset) (*models.FilterPreset, error)

	JobRecorder
	GetJob(ctx context.Context, id uuid.UUID) (*models.ProcessingJob, error)
}

// JobRecorder tracks processing_jobs rows through their lifecycle.
type JobRecorder interface {
	CreateJob(ctx context.Context, jobType, entityKey string, metadata interface{}) (*models.ProcessingJob, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status string, errorMessage string) error
}

// Store implements Repository on a PostgREST client. postgrest-go does not
// accept a context, so cancellation is checked before each request.
type Store struct {
	client *postgrest.Client
	now    func() time.Time
}

func NewStore(client *postgrest.Client) *Store {
	return &Store{client: client, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) TrainingRecords(ctx context.Context, userID string) ([]models.TrainingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []models.TrainingRecord
	_, err := s.client.From(trainingTable).
		Select("subtitle_data", "", false).
		Eq("user_id", userID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch training records for user %s: %w", userID, err)
	}
	return rows, nil
}

func (s *Store) AllTrainingRecords(ctx context.Context) ([]models.TrainingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []models.TrainingRecord
	_, err := s.client.From(trainingTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch training records: %w", err)
	}
	return rows, nil
}

func (s *Store) InsertTrainingRecord(ctx context.Context, rec models.TrainingRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.client.From(trainingTable).Insert(rec, false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("failed to insert training record: %w", err)
	}
	return nil
}

func (s *Store) LatestSubtitleSet(ctx context.Context, userID string) (*models.SubtitleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []models.SubtitleSet
	_, err := s.client.From(subtitleTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subtitles for user %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return nil, ErrRecordNotFound
	}
	return &rows[0], nil
}

func (s *Store) InsertSubtitleSet(ctx context.Context, set models.SubtitleSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.client.From(subtitleTable).Insert(set, false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("failed to insert subtitle set: %w", err)
	}
	return nil
}

func (s *Store) InsertModelSnapshot(ctx context.Context, snap models.ModelSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.client.From(modelTable).Insert(snap, false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("failed to insert model snapshot: %w", err)
	}
	return nil
}

func (s *Store) DesignSettings(ctx context.Context, userID string) (*models.DesignSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []models.DesignSettings
	_, err := s.client.From(designTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch design settings for user %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return nil, ErrRecordNotFound
	}
	return &rows[0], nil
}

func (s *Store) UpsertDesignSettings(ctx context.Context, settings models.DesignSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	settings.UpdatedAt = s.now()
	if _, _, err := s.client.From(designTable).Upsert(settings, "user_id", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("failed to save design settings for user %s: %w", settings.UserID, err)
	}
	return nil
}

func (s *Store) Filters(ctx context.Context, userID string) ([]models.FilterPreset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []models.FilterPreset
	_, err := s.client.From(filterTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch filters for user %s: %w", userID, err)
	}
	return rows, nil
}

func (s *Store) InsertFilter(ctx context.Context, preset models.FilterPreset) (*models.FilterPreset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload := map[string]interface{}{
		"user_id":       preset.UserID,
		"filter_string": preset.FilterString,
	}
	var rows []models.FilterPreset
	if _, err := s.client.From(filterTable).Insert(payload, false, "", "representation", "").ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("failed to insert filter: %w", err)
	}
	if len(rows) == 0 {
		return &preset, nil
	}
	return &rows[0], nil
}

// CreateJob inserts a PENDING processing_jobs row with a generated id.
func (s *Store) CreateJob(ctx context.Context, jobType, entityKey string, metadata interface{}) (*models.ProcessingJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job metadata: %w", err)
	}
	now := s.now()
	job := models.ProcessingJob{
		ID:        uuid.New(),
		JobType:   jobType,
		EntityKey: entityKey,
		Status:    models.JobStatusPending,
		Metadata:  meta,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var results []models.ProcessingJob
	if _, err := s.client.From(jobTable).Insert(job, false, "", "representation", "").ExecuteTo(&results); err != nil {
		return nil, fmt.Errorf("failed to insert job record: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no record returned after insert, job id: %s", job.ID)
	}
	return &results[0], nil
}

// UpdateJobStatus moves a job to status. PROCESSING stamps started_at;
// COMPLETED and FAILED stamp completed_at.
func (s *Store) UpdateJobStatus(ctx context.Context, id uuid.UUID, status string, errorMessage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.now()
	update := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	switch status {
	case models.JobStatusProcessing:
		update["started_at"] = now
	case models.JobStatusCompleted, models.JobStatusFailed:
		update["completed_at"] = now
	}
	if errorMessage != "" {
		update["error_message"] = errorMessage
	}

	if _, _, err := s.client.From(jobTable).Update(update, "minimal", "").Eq("id", id.String()).Execute(); err != nil {
		return fmt.Errorf("failed to update job record %s: %w", id, err)
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*models.ProcessingJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []models.ProcessingJob
	_, err := s.client.From(jobTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrRecordNotFound
	}
	return &rows[0], nil
}
