package handlers

import (
	"github.com/gofiber/fiber/v2"

	"subtitleforge/internal/pipeline"
	"subtitleforge/middleware"
	"subtitleforge/models"
	"subtitleforge/utils"
)

// TrainingRequest carries an FCPXML document.
type TrainingRequest struct {
	File string `json:"file" validate:"required"`
}

// TrainingResponse reports the training outcome.
type TrainingResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Source  pipeline.Source `json:"source"`
}

// AddTrainingData godoc
// @Summary Add a project file to the training data
// @Description Parses the FCPXML titles into captions, appends them to training_videos, asks the model for updated parameters over all training data and stores the snapshot.
// @Tags training
// @Accept json
// @Produce json
// @Param request body TrainingRequest true "FCPXML text"
// @Success 200 {object} TrainingResponse
// @Failure 400 {object} ErrorResponse "No file"
// @Failure 500 {object} ErrorResponse "Database failure"
// @Router /add-training-data [post]
func (h *ApplicationHandler) AddTrainingData(c *fiber.Ctx) error {
	req := new(TrainingRequest)
	if err := h.parseAndValidate(c, req); err != nil {
		return err
	}
	ctx := c.UserContext()

	captions, parsed := pipeline.TrainingCaptions([]byte(req.File), h.Logger)
	rec := models.TrainingRecord{SubtitleData: models.SubtitleData{Subtitles: captions}}
	if user := middleware.CurrentUser(c); user != nil {
		rec.UserID = &user.ID
	}
	if err := h.Repo.InsertTrainingRecord(ctx, rec); err != nil {
		return utils.Upstream("Failed to store training data", err)
	}

	records, err := h.Repo.AllTrainingRecords(ctx)
	if err != nil {
		return utils.Upstream("Failed to load training data", err)
	}
	params, updated := h.Trainer.Update(ctx, records)
	if err := h.Repo.InsertModelSnapshot(ctx, models.ModelSnapshot{ModelData: params}); err != nil {
		return utils.Upstream("Failed to save the updated model", err)
	}

	source := pipeline.SourceModel
	if parsed.Degraded() || updated.Degraded() {
		source = pipeline.SourceFallback
	}
	h.Logger.Infof("Added %d training captions (%d records total)", len(captions), len(records))
	return c.Status(fiber.StatusOK).JSON(TrainingResponse{
		Success: true,
		Message: "Training data added successfully",
		Source:  source,
	})
}
