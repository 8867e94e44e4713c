package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"subtitleforge/internal/db"
	"subtitleforge/utils"
)

// GetJobStatus godoc
// @Summary Get a processing job
// @Description Returns the processing_jobs row for a project generation job.
// @Tags jobs
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse "Invalid job ID format"
// @Failure 404 {object} ErrorResponse "Job not found"
// @Router /jobs/{jobId} [get]
func (h *ApplicationHandler) GetJobStatus(c *fiber.Ctx) error {
	jobIDStr := c.Params("jobId")
	jobID, err := uuid.Parse(jobIDStr)
	if err != nil {
		h.Logger.Warnf("Invalid job ID format: %s", jobIDStr)
		return utils.Validation("Invalid job ID format")
	}

	job, err := h.Repo.GetJob(c.UserContext(), jobID)
	if errors.Is(err, db.ErrRecordNotFound) {
		return utils.NotFound("Job not found")
	}
	if err != nil {
		return utils.Upstream("Could not retrieve job status", err)
	}

	h.Logger.Infof("Retrieved status for job %s: %s", jobID, job.Status)
	return utils.RespondWithJSON(c, fiber.StatusOK, job)
}

// HealthCheck godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} ErrorResponse
// @Router /health [get]
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "Subtitle service is healthy",
	})
}
