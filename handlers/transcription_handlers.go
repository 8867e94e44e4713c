package handlers

import (
	"encoding/json"
	"io"
	"path"

	"github.com/gofiber/fiber/v2"

	"subtitleforge/internal/pipeline"
	"subtitleforge/internal/storage"
	"subtitleforge/models"
	"subtitleforge/utils"
)

// TranscriptionResponse points at the stored transcription JSON.
type TranscriptionResponse struct {
	URL           string               `json:"url"`
	Source        pipeline.Source      `json:"source"`
	Transcription models.Transcription `json:"transcription"`
}

// SpeechToText godoc
// @Summary Transcribe an uploaded video
// @Description Stores the video under the caller's prefix, transcribes it and stores the transcription as JSON. A failed model call yields a placeholder transcript with source "fallback".
// @Tags subtitles
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param video formData file true "Video file"
// @Success 200 {object} TranscriptionResponse
// @Failure 400 {object} ErrorResponse "No video file"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /speech-to-text [post]
func (h *ApplicationHandler) SpeechToText(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("video")
	if err != nil {
		return utils.Validation("No video file found")
	}
	fh, err := file.Open()
	if err != nil {
		return utils.Upstream("Error opening file", err)
	}
	defer fh.Close()
	data, err := io.ReadAll(fh)
	if err != nil {
		return utils.Upstream("Error reading file", err)
	}

	name := path.Base(utils.SanitizeInput(file.Filename))
	key := user.ID + "/" + name
	if err := storage.ValidateKey(key); err != nil || name == "." || name == "/" {
		return utils.Validation("Invalid video file name")
	}
	contentType := file.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = storage.ContentTypeForKey(name)
	}
	if _, err := h.Store.Put(c.UserContext(), storage.CategoryVideo, key, data, contentType); err != nil {
		return utils.Upstream("Failed to store the video", err)
	}

	media := pipeline.MediaInfo{FileName: name, ContentType: contentType, Size: len(data)}
	if h.Prober != nil {
		probe, err := h.Prober.Probe(c.UserContext(), name, data)
		if err != nil {
			h.Logger.Warnf("Probing %s failed: %v", key, err)
		}
		media.MediaProbe = probe
	}
	transcription, outcome := h.Transcriber.Transcribe(c.UserContext(), media)

	payload, err := json.Marshal(transcription)
	if err != nil {
		return utils.Upstream("Failed to encode the transcription", err)
	}
	artifact, err := h.Exporter.Transcript(c.UserContext(), user.ID, payload)
	if err != nil {
		return utils.Upstream("Failed to store the transcription", err)
	}

	h.Logger.Infof("Transcribed %s for user %s (source %s)", key, user.ID, outcome.Source)
	return c.Status(fiber.StatusOK).JSON(TranscriptionResponse{
		URL:           artifact.URL,
		Source:        outcome.Source,
		Transcription: transcription,
	})
}
