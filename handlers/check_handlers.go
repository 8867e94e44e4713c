package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"subtitleforge/internal/poller"
	"subtitleforge/internal/storage"
	"subtitleforge/internal/subtitles"
)

// CheckResponse reports whether the project bundle for an upload exists.
type CheckResponse struct {
	Exists bool   `json:"exists"`
	URL    string `json:"url,omitempty"`
}

func (h *ApplicationHandler) bundleKey(c *fiber.Ctx) (string, bool) {
	name := strings.TrimSpace(c.Query("fileName"))
	if name == "" {
		return "", false
	}
	key := subtitles.ArtifactKey(name)
	if storage.ValidateKey(key) != nil {
		return "", false
	}
	return key, true
}

// CheckFCPXML godoc
// @Summary Check whether a project bundle is ready
// @Description Single existence check for <fileName>.fcpxmld.zip. A fileName that already ends in .fcpxmld.zip is used as is.
// @Tags export
// @Produce json
// @Param fileName query string true "Uploaded file name"
// @Success 200 {object} CheckResponse
// @Failure 400 {object} CheckResponse "Missing or invalid fileName"
// @Failure 500 {object} CheckResponse "Storage failure"
// @Router /check-fcpxml [get]
func (h *ApplicationHandler) CheckFCPXML(c *fiber.Ctx) error {
	key, ok := h.bundleKey(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(CheckResponse{Exists: false})
	}

	exists, err := h.Store.Exists(c.UserContext(), storage.CategoryBundle, key)
	if err != nil {
		h.Logger.Errorf("Error checking bundle %s: %v", key, err)
		return c.Status(fiber.StatusInternalServerError).JSON(CheckResponse{Exists: false})
	}
	resp := CheckResponse{Exists: exists}
	if exists {
		resp.URL = h.Store.URL(storage.CategoryBundle, key)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// WaitFCPXML godoc
// @Summary Wait until a project bundle is ready
// @Description Long-poll with exponential backoff until <fileName>.fcpxmld.zip exists or the timeout elapses.
// @Tags export
// @Produce json
// @Param fileName query string true "Uploaded file name"
// @Param timeout query string false "Wait budget, e.g. 30s (capped by the server)"
// @Success 200 {object} CheckResponse
// @Failure 400 {object} CheckResponse "Missing or invalid fileName or timeout"
// @Failure 408 {object} CheckResponse "Bundle not ready before the timeout"
// @Failure 500 {object} CheckResponse "Storage failure"
// @Router /wait-fcpxml [get]
func (h *ApplicationHandler) WaitFCPXML(c *fiber.Ctx) error {
	key, ok := h.bundleKey(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(CheckResponse{Exists: false})
	}
	timeout, err := h.waitBudget(c.Query("timeout"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(CheckResponse{Exists: false})
	}

	checks, err := poller.Wait(c.UserContext(), timeout, h.Poll.Backoff, func(ctx context.Context) (bool, error) {
		exists, err := h.Store.Exists(ctx, storage.CategoryBundle, key)
		if errors.Is(err, storage.ErrUnknownCategory) || errors.Is(err, storage.ErrInvalidKey) {
			return false, poller.Permanent(err)
		}
		return exists, err
	})
	switch {
	case err == nil:
		h.Logger.Infof("Bundle %s ready after %d checks", key, checks)
		return c.Status(fiber.StatusOK).JSON(CheckResponse{Exists: true, URL: h.Store.URL(storage.CategoryBundle, key)})
	case errors.Is(err, poller.ErrTimeout):
		return c.Status(fiber.StatusRequestTimeout).JSON(CheckResponse{Exists: false})
	default:
		h.Logger.Errorf("Error waiting for bundle %s: %v", key, err)
		return c.Status(fiber.StatusInternalServerError).JSON(CheckResponse{Exists: false})
	}
}

// waitBudget parses "30s" or "30" and caps it at the configured timeout.
func (h *ApplicationHandler) waitBudget(raw string) (time.Duration, error) {
	limit := h.Poll.Timeout
	if limit <= 0 {
		limit = 2 * time.Minute
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return limit, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		secs, serr := strconv.Atoi(raw)
		if serr != nil {
			return 0, err
		}
		d = time.Duration(secs) * time.Second
	}
	if d <= 0 {
		return 0, errors.New("timeout must be positive")
	}
	if d > limit {
		d = limit
	}
	return d, nil
}
