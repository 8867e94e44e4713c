package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"subtitleforge/internal/db"
	"subtitleforge/internal/pipeline"
	"subtitleforge/internal/storage"
	"subtitleforge/internal/subtitles"
	"subtitleforge/models"
)

// GenerateProjectJobType is stored in processing_jobs.job_type.
const GenerateProjectJobType = "GENERATE_PROJECT"

// statusTimeout bounds the final status write, which must happen even when
// the job context is already cancelled.
const statusTimeout = 10 * time.Second

// GenerateProjectPayload is recorded as the job's metadata.
type GenerateProjectPayload struct {
	FileName    string           `json:"file_name"`
	Category    storage.Category `json:"category"`
	ContentType string           `json:"content_type"`
	UserID      string           `json:"user_id,omitempty"`
	Filter      string           `json:"filter,omitempty"`
	ArtifactKey string           `json:"artifact_key"`
}

// GenerateProjectJob turns an uploaded recording into the <name>.fcpxmld.zip
// bundle clients poll for.
type GenerateProjectJob struct {
	JobID   uuid.UUID
	Payload GenerateProjectPayload
	Design  models.SubtitleDesign

	Store    storage.ObjectStore
	Recorder db.JobRecorder
	Pipeline *pipeline.Pipeline
	Logger   *logrus.Logger
}

// NewGenerateProjectPayload describes a run over the upload stored at
// fileName in cat.
func NewGenerateProjectPayload(fileName string, cat storage.Category, contentType, userID string, filter subtitles.FilterSpec) GenerateProjectPayload {
	return GenerateProjectPayload{
		FileName:    fileName,
		Category:    cat,
		ContentType: contentType,
		UserID:      userID,
		Filter:      filter.String(),
		ArtifactKey: subtitles.ArtifactKey(fileName),
	}
}

func (j *GenerateProjectJob) ID() string { return j.JobID.String() }

func (j *GenerateProjectJob) Type() string { return GenerateProjectJobType }

// Execute moves the job row through PROCESSING to COMPLETED or FAILED.
func (j *GenerateProjectJob) Execute(ctx context.Context) error {
	log := j.Logger.WithFields(logrus.Fields{"job_id": j.ID(), "file": j.Payload.FileName})

	if err := j.Recorder.UpdateJobStatus(ctx, j.JobID, models.JobStatusProcessing, ""); err != nil {
		log.Warnf("Failed to mark job processing: %v", err)
	}

	res, err := j.run(ctx)
	statusCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusTimeout)
	defer cancel()
	if err != nil {
		if uerr := j.Recorder.UpdateJobStatus(statusCtx, j.JobID, models.JobStatusFailed, err.Error()); uerr != nil {
			log.Errorf("Failed to mark job failed: %v", uerr)
		}
		return fmt.Errorf("generate project for %s: %w", j.Payload.FileName, err)
	}

	if err := j.Recorder.UpdateJobStatus(statusCtx, j.JobID, models.JobStatusCompleted, ""); err != nil {
		log.Errorf("Failed to mark job completed: %v", err)
	}
	log.WithFields(logrus.Fields{"artifact": res.Artifact.URL, "degraded": res.Degraded()}).Info("Project bundle ready")
	return nil
}

func (j *GenerateProjectJob) run(ctx context.Context) (*pipeline.Result, error) {
	media, err := j.Store.Get(ctx, j.Payload.Category, j.Payload.FileName)
	if err != nil {
		return nil, fmt.Errorf("download upload: %w", err)
	}
	return j.Pipeline.Run(ctx, pipeline.Input{
		FileName:    j.Payload.FileName,
		ContentType: j.Payload.ContentType,
		Media:       media,
		UserID:      j.Payload.UserID,
		Filter:      subtitles.ParseFilter(j.Payload.Filter),
		Design:      j.Design,
	})
}
