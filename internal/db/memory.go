package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"subtitleforge/models"
)

// Memory is an in-process Repository for tests and local runs.
type Memory struct {
	mu        sync.Mutex
	training  []models.TrainingRecord
	subtitles []models.SubtitleSet
	snapshots []models.ModelSnapshot
	designs   map[string]models.DesignSettings
	filters   []models.FilterPreset
	jobs      map[uuid.UUID]models.ProcessingJob
	nextID    int64
}

func NewMemory() *Memory {
	return &Memory{
		designs: make(map[string]models.DesignSettings),
		jobs:    make(map[uuid.UUID]models.ProcessingJob),
	}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) TrainingRecords(_ context.Context, userID string) ([]models.TrainingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TrainingRecord
	for _, r := range m.training {
		if r.UserID != nil && *r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) AllTrainingRecords(context.Context) ([]models.TrainingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.TrainingRecord(nil), m.training...), nil
}

func (m *Memory) InsertTrainingRecord(_ context.Context, rec models.TrainingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = m.id()
	now := time.Now().UTC()
	rec.CreatedAt = &now
	m.training = append(m.training, rec)
	return nil
}

func (m *Memory) LatestSubtitleSet(_ context.Context, userID string) (*models.SubtitleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.subtitles) - 1; i >= 0; i-- {
		if m.subtitles[i].UserID == userID {
			set := m.subtitles[i]
			return &set, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (m *Memory) InsertSubtitleSet(_ context.Context, set models.SubtitleSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set.ID = m.id()
	now := time.Now().UTC()
	set.CreatedAt = &now
	m.subtitles = append(m.subtitles, set)
	return nil
}

func (m *Memory) InsertModelSnapshot(_ context.Context, snap models.ModelSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snap)
	return nil
}

// Snapshots returns the stored model snapshots in insertion order.
func (m *Memory) Snapshots() []models.ModelSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ModelSnapshot(nil), m.snapshots...)
}

func (m *Memory) DesignSettings(_ context.Context, userID string) (*models.DesignSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.designs[userID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &d, nil
}

func (m *Memory) UpsertDesignSettings(_ context.Context, settings models.DesignSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	settings.UpdatedAt = time.Now().UTC()
	m.designs[settings.UserID] = settings
	return nil
}

func (m *Memory) Filters(_ context.Context, userID string) ([]models.FilterPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.FilterPreset
	for i := len(m.filters) - 1; i >= 0; i-- {
		if m.filters[i].UserID == userID {
			out = append(out, m.filters[i])
		}
	}
	return out, nil
}

func (m *Memory) InsertFilter(_ context.Context, preset models.FilterPreset) (*models.FilterPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	preset.ID = m.id()
	preset.CreatedAt = time.Now().UTC()
	m.filters = append(m.filters, preset)
	return &preset, nil
}

func (m *Memory) CreateJob(_ context.Context, jobType, entityKey string, metadata interface{}) (*models.ProcessingJob, error) {
	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job metadata: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	job := models.ProcessingJob{
		ID:        uuid.New(),
		JobType:   jobType,
		EntityKey: entityKey,
		Status:    models.JobStatusPending,
		Metadata:  meta,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.jobs[job.ID] = job
	return &job, nil
}

func (m *Memory) UpdateJobStatus(_ context.Context, id uuid.UUID, status string, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return ErrRecordNotFound
	}
	now := time.Now().UTC()
	job.Status = status
	job.UpdatedAt = now
	switch status {
	case models.JobStatusProcessing:
		job.StartedAt = &now
	case models.JobStatusCompleted, models.JobStatusFailed:
		job.CompletedAt = &now
	}
	if errorMessage != "" {
		job.ErrorMessage = &errorMessage
	}
	m.jobs[id] = job
	return nil
}

func (m *Memory) GetJob(_ context.Context, id uuid.UUID) (*models.ProcessingJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &job, nil
}
