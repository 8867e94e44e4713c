package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"subtitleforge/internal/db"
	"subtitleforge/internal/pipeline"
	"subtitleforge/models"
	"subtitleforge/utils"
)

// ExportResponse carries either previewUrl or downloadUrl.
type ExportResponse struct {
	PreviewURL  string `json:"previewUrl,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// ValidateExportSoftware rejects unsupported editors before authentication
// runs.
func ValidateExportSoftware(c *fiber.Ctx) error {
	if !pipeline.ValidSoftware(strings.ToLower(strings.TrimSpace(c.Query("software")))) {
		return utils.Validation("Invalid software: expected finalcut or premiere")
	}
	return c.Next()
}

// ExportProjectFile godoc
// @Summary Export the latest subtitles as a project file
// @Description Renders the caller's most recent subtitle set as FCPXML (finalcut) or SubRip (premiere). With preview the file is stored under previews/.
// @Tags export
// @Produce json
// @Security BearerAuth
// @Param software query string true "finalcut or premiere"
// @Param preview query bool false "Store as a preview"
// @Success 200 {object} ExportResponse
// @Failure 400 {object} ErrorResponse "Invalid software or unrenderable stored timecodes"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "No subtitle data"
// @Failure 500 {object} ErrorResponse "Storage or database failure"
// @Router /export-project-file [get]
func (h *ApplicationHandler) ExportProjectFile(c *fiber.Ctx) error {
	software := strings.ToLower(strings.TrimSpace(c.Query("software")))
	if !pipeline.ValidSoftware(software) {
		return utils.Validation("Invalid software: expected finalcut or premiere")
	}
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	preview, _ := strconv.ParseBool(c.Query("preview", "false"))

	set, err := h.Repo.LatestSubtitleSet(c.UserContext(), user.ID)
	if errors.Is(err, db.ErrRecordNotFound) {
		return utils.NotFound("No subtitle data found")
	}
	if err != nil {
		return utils.Upstream("Failed to load subtitle data", err)
	}
	if len(set.SubtitleData.Subtitles) == 0 {
		return utils.NotFound("No subtitle data found")
	}

	design := set.Design
	if design == (models.SubtitleDesign{}) {
		if design, err = h.userDesign(c, user); err != nil {
			return err
		}
	}

	artifact, err := h.Exporter.Project(c.UserContext(), set.SubtitleData.Subtitles, design, software, preview)
	if errors.Is(err, pipeline.ErrRender) {
		h.Logger.Warnf("Stored subtitles for user %s cannot be rendered: %v", user.ID, err)
		return utils.Validation("Stored subtitles have invalid timecodes")
	}
	if err != nil {
		return utils.Upstream("Failed to export the project file", err)
	}
	h.Logger.Infof("Exported %s project %s for user %s", software, artifact.Key, user.ID)

	if preview {
		return c.Status(fiber.StatusOK).JSON(ExportResponse{PreviewURL: artifact.URL})
	}
	return c.Status(fiber.StatusOK).JSON(ExportResponse{DownloadURL: artifact.URL})
}
