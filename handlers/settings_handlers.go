package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"subtitleforge/internal/db"
	"subtitleforge/internal/subtitles"
	"subtitleforge/models"
	"subtitleforge/utils"
)

// DesignResponse wraps a subtitle design.
type DesignResponse struct {
	Design models.SubtitleDesign `json:"design"`
}

// GetSubtitleDesign godoc
// @Summary Get the caller's subtitle design
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DesignResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /subtitle-design [get]
func (h *ApplicationHandler) GetSubtitleDesign(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	design, err := h.userDesign(c, user)
	if err != nil {
		return err
	}
	return c.JSON(DesignResponse{Design: design})
}

// UpdateSubtitleDesign godoc
// @Summary Save the caller's subtitle design
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param design body models.SubtitleDesign true "Design"
// @Success 200 {object} DesignResponse
// @Failure 400 {object} ErrorResponse "Invalid design"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /subtitle-design [put]
func (h *ApplicationHandler) UpdateSubtitleDesign(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	design := new(models.SubtitleDesign)
	if err := h.parseAndValidate(c, design); err != nil {
		return err
	}

	settings := models.DesignSettings{
		UserID:          user.ID,
		FontName:        design.Font,
		FontSize:        design.Size,
		FontColor:       design.Color,
		BackgroundColor: design.BackgroundColor,
		UpdatedAt:       time.Now().UTC(),
	}
	if err := h.Repo.UpsertDesignSettings(c.UserContext(), settings); err != nil {
		return utils.Upstream("Failed to save subtitle design", err)
	}
	return c.JSON(DesignResponse{Design: *design})
}

// FilterRequest is the body of POST /api/filters.
type FilterRequest struct {
	Filter string `json:"filter" validate:"required"`
}

// FilterListResponse lists stored filters.
type FilterListResponse struct {
	Filters []models.FilterPreset `json:"filters"`
}

// ListFilters godoc
// @Summary List the caller's saved filters
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} FilterListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /filters [get]
func (h *ApplicationHandler) ListFilters(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	filters, err := h.Repo.Filters(c.UserContext(), user.ID)
	if err != nil && !errors.Is(err, db.ErrRecordNotFound) {
		return utils.Upstream("Failed to load filters", err)
	}
	if filters == nil {
		filters = []models.FilterPreset{}
	}
	return c.JSON(FilterListResponse{Filters: filters})
}

// CreateFilter godoc
// @Summary Save a filter
// @Description Stores a comma separated filter string after trimming and de-duplicating its tokens.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param filter body FilterRequest true "Filter"
// @Success 201 {object} models.FilterPreset
// @Failure 400 {object} ErrorResponse "Empty filter"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /filters [post]
func (h *ApplicationHandler) CreateFilter(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	req := new(FilterRequest)
	if err := h.parseAndValidate(c, req); err != nil {
		return err
	}
	spec := subtitles.ParseFilter(req.Filter)
	if spec.Empty() {
		return utils.Validation("Filter has no tokens")
	}

	preset, err := h.Repo.InsertFilter(c.UserContext(), models.FilterPreset{
		UserID:       user.ID,
		FilterString: spec.String(),
	})
	if err != nil {
		return utils.Upstream("Failed to save filter", err)
	}
	return c.Status(fiber.StatusCreated).JSON(preset)
}
