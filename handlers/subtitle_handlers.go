package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"subtitleforge/internal/pipeline"
	"subtitleforge/internal/subtitles"
	"subtitleforge/middleware"
	"subtitleforge/models"
	"subtitleforge/utils"
)

// TextData carries the raw "<timestamp> <text>" transcript.
type TextData struct {
	Text string `json:"text" validate:"required"`
}

// GenerateSubtitleRequest is the body of POST /api/generate-subtitle-file.
type GenerateSubtitleRequest struct {
	TextData       *TextData              `json:"textData" validate:"required"`
	SubtitleDesign *models.SubtitleDesign `json:"subtitleDesign,omitempty" validate:"omitempty"`
	Filter         string                 `json:"filter"`
}

// GenerateSubtitleResponse points at the rendered FCPXML.
type GenerateSubtitleResponse struct {
	URL      string `json:"url"`
	Captions int    `json:"captions"`
	Skipped  int    `json:"skipped"`
}

// GenerateSubtitleFile godoc
// @Summary Render a transcript to FCPXML
// @Description Extracts captions from "<timestamp> <text>" lines, drops captions matching any comma separated filter token and stores the FCPXML render. Without subtitleDesign the caller's stored design is used.
// @Tags subtitles
// @Accept json
// @Produce json
// @Param request body GenerateSubtitleRequest true "Transcript, design and filter"
// @Success 200 {object} GenerateSubtitleResponse
// @Failure 400 {object} ErrorResponse "Missing text or invalid design"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /generate-subtitle-file [post]
func (h *ApplicationHandler) GenerateSubtitleFile(c *fiber.Ctx) error {
	req := new(GenerateSubtitleRequest)
	if err := h.parseAndValidate(c, req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	var design models.SubtitleDesign
	if req.SubtitleDesign != nil {
		design = *req.SubtitleDesign
	} else {
		d, err := h.userDesign(c, user)
		if err != nil {
			return err
		}
		design = d
	}

	captions, rejected := subtitles.ExtractTranscript(req.TextData.Text)
	if len(rejected) > 0 {
		h.Logger.Warnf("Skipped %d transcript lines without a timestamp", len(rejected))
	}
	captions = subtitles.ParseFilter(req.Filter).Apply(captions)

	artifact, err := h.Exporter.SubtitleFile(c.UserContext(), captions, design)
	if err != nil {
		return utils.Upstream("Failed to generate the subtitle file", err)
	}

	if user != nil {
		url := artifact.URL
		set := models.SubtitleSet{
			UserID:       user.ID,
			SubtitleData: models.SubtitleData{Subtitles: captions},
			Design:       design,
			FileURL:      &url,
		}
		if err := h.Repo.InsertSubtitleSet(c.UserContext(), set); err != nil {
			return utils.Upstream("Failed to save the subtitles", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(GenerateSubtitleResponse{
		URL:      artifact.URL,
		Captions: len(captions),
		Skipped:  len(rejected),
	})
}

// SubtitleDataRequest carries a caption sequence.
type SubtitleDataRequest struct {
	SubtitleData models.CaptionSequence `json:"subtitleData" validate:"required,min=1"`
}

// SummarizeResponse is the marked sequence.
type SummarizeResponse struct {
	SummarizedSubtitles models.CaptionSequence `json:"summarizedSubtitles"`
	Source              pipeline.Source        `json:"source"`
}

// GenerateSummarizedSubtitles godoc
// @Summary Mark important captions
// @Description Marks captions quoted verbatim by the model's summary, using the caller's training history. When the model fails the response is a fixed sample with source "fallback".
// @Tags subtitles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubtitleDataRequest true "Captions"
// @Success 200 {object} SummarizeResponse
// @Failure 400 {object} ErrorResponse "Missing subtitle data or invalid start time"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Database failure"
// @Router /generate-summarized-subtitles [post]
func (h *ApplicationHandler) GenerateSummarizedSubtitles(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	req := new(SubtitleDataRequest)
	if err := h.parseAndValidate(c, req); err != nil {
		return err
	}
	if err := checkTimecodes(req.SubtitleData); err != nil {
		return err
	}

	history, err := h.Repo.TrainingRecords(c.UserContext(), user.ID)
	if err != nil {
		return utils.Upstream("Failed to load training data", err)
	}
	summarized, outcome := h.Summarizer.Summarize(c.UserContext(), req.SubtitleData, history)

	design, err := h.userDesign(c, user)
	if err != nil {
		return err
	}
	set := models.SubtitleSet{
		UserID:       user.ID,
		SubtitleData: models.SubtitleData{Subtitles: summarized},
		Design:       design,
	}
	if err := h.Repo.InsertSubtitleSet(c.UserContext(), set); err != nil {
		return utils.Upstream("Failed to save the subtitles", err)
	}

	return c.Status(fiber.StatusOK).JSON(SummarizeResponse{SummarizedSubtitles: summarized, Source: outcome.Source})
}

// StyledSubtitles is the JSON document stored by apply-speaker-styles.
type StyledSubtitles struct {
	Subtitles models.CaptionSequence `json:"subtitles"`
	Speakers  []models.Speaker       `json:"speakers"`
}

// StyleResponse points at the stored styled captions.
type StyleResponse struct {
	URL    string          `json:"url"`
	Source pipeline.Source `json:"source"`
}

// ApplySpeakerStyles godoc
// @Summary Style captions by speaker
// @Description Identifies speakers and assigns palette styles by speaker id, then stores the styled captions as JSON. Identification failures fall back to two default speakers and report source "fallback".
// @Tags subtitles
// @Accept json
// @Produce json
// @Param request body SubtitleDataRequest true "Captions"
// @Success 200 {object} StyleResponse
// @Failure 400 {object} ErrorResponse "Missing subtitle data or invalid start time"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /apply-speaker-styles [post]
func (h *ApplicationHandler) ApplySpeakerStyles(c *fiber.Ctx) error {
	req := new(SubtitleDataRequest)
	if err := h.parseAndValidate(c, req); err != nil {
		return err
	}
	if err := checkTimecodes(req.SubtitleData); err != nil {
		return err
	}

	styled, speakers, outcome := h.Styler.Style(c.UserContext(), req.SubtitleData)
	payload, err := json.Marshal(StyledSubtitles{Subtitles: styled, Speakers: speakers})
	if err != nil {
		return utils.Upstream("Failed to encode styled subtitles", err)
	}
	artifact, err := h.Exporter.Stylized(c.UserContext(), payload)
	if err != nil {
		return utils.Upstream("Failed to store styled subtitles", err)
	}

	return c.Status(fiber.StatusOK).JSON(StyleResponse{URL: artifact.URL, Source: outcome.Source})
}
