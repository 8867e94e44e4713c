package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"subtitleforge/internal/db"
	"subtitleforge/internal/subtitles"
	"subtitleforge/middleware"
	"subtitleforge/models"
	"subtitleforge/utils"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// parseAndValidate decodes the JSON body into req and runs the validator.
func (h *ApplicationHandler) parseAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		h.Logger.Warnf("Cannot parse request body on %s: %v", c.Path(), err)
		return utils.Validation("Cannot parse request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.ValidationFailure(err)
	}
	return nil
}

// requireUser returns the authenticated caller. Routes behind RequireAuth
// always have one.
func requireUser(c *fiber.Ctx) (*models.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, utils.Unauthorized("Unauthorized")
	}
	return user, nil
}

// userDesign returns the caller's stored design, or the configured default
// when there is no caller or no stored row.
func (h *ApplicationHandler) userDesign(c *fiber.Ctx, user *models.User) (models.SubtitleDesign, error) {
	if user == nil {
		return h.Design, nil
	}
	settings, err := h.Repo.DesignSettings(c.UserContext(), user.ID)
	if errors.Is(err, db.ErrRecordNotFound) {
		return h.Design, nil
	}
	if err != nil {
		return models.SubtitleDesign{}, utils.Upstream("Failed to load subtitle design", err)
	}
	return settings.Design(), nil
}

// checkTimecodes rejects captions whose start time cannot be parsed. An
// unparseable end is allowed; rendering replaces it with start + 5s.
func checkTimecodes(seq models.CaptionSequence) error {
	for i, c := range seq {
		if _, err := subtitles.ParseTimestamp(c.Start); err != nil {
			return utils.Validation(fmt.Sprintf("subtitleData[%d].start: %v", i, err))
		}
	}
	return nil
}
