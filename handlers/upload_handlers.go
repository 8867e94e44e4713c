package handlers

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"subtitleforge/internal/jobs"
	"subtitleforge/internal/storage"
	"subtitleforge/internal/subtitles"
	"subtitleforge/internal/worker"
	"subtitleforge/middleware"
	"subtitleforge/models"
	"subtitleforge/utils"
)

// UploadRequest is the JSON body of POST /api/upload.
type UploadRequest struct {
	FileName string `json:"fileName" validate:"required"`
	FileData string `json:"fileData" validate:"required"`
	FileType string `json:"fileType" validate:"required"`
	Filter   string `json:"filter,omitempty"`
}

// UploadResponse is returned after the file is stored.
type UploadResponse struct {
	Message string `json:"message"`
	Key     string `json:"key"`
	URL     string `json:"url"`
	JobID   string `json:"jobId,omitempty"`
}

// UploadFile godoc
// @Summary Upload a file
// @Description Stores a base64 encoded file under fileName in the bucket for its content type. Uploads stored in the video bucket (video/*, audio/* and unrecognised types) start a project generation job whose <fileName>.fcpxmld.zip bundle check-fcpxml reports. Transcript (JSON, plain text) and project (XML, zip) uploads are stored only; no bundle is produced for them and jobId is omitted.
// @Tags upload
// @Accept json
// @Produce json
// @Param upload body UploadRequest true "File to upload"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} ErrorResponse "Missing field or invalid base64"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Failure 503 {object} ErrorResponse "Job queue full"
// @Router /upload [post]
func (h *ApplicationHandler) UploadFile(c *fiber.Ctx) error {
	req := new(UploadRequest)
	if err := h.parseAndValidate(c, req); err != nil {
		return err
	}

	fileName := utils.SanitizeInput(req.FileName)
	if err := storage.ValidateKey(fileName); err != nil {
		return utils.Validation("Invalid fileName")
	}
	data, err := decodeFileData(req.FileData)
	if err != nil {
		return utils.Validation("fileData must be base64 encoded")
	}

	cat := storage.CategoryForContentType(req.FileType)
	url, err := h.Store.Put(c.UserContext(), cat, fileName, data, req.FileType)
	if err != nil {
		return utils.Upstream("Failed to upload the file", err)
	}
	h.Logger.Infof("Stored %s (%d bytes) in %s", fileName, len(data), cat)

	resp := UploadResponse{Message: "File uploaded successfully", Key: fileName, URL: url}
	if cat == storage.CategoryVideo && h.Jobs != nil {
		jobID, err := h.enqueueProject(c, fileName, cat, req)
		if err != nil {
			return err
		}
		resp.JobID = jobID
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *ApplicationHandler) enqueueProject(c *fiber.Ctx, fileName string, cat storage.Category, req *UploadRequest) (string, error) {
	userID := ""
	if user := middleware.CurrentUser(c); user != nil {
		userID = user.ID
	}
	design, err := h.userDesign(c, middleware.CurrentUser(c))
	if err != nil {
		return "", err
	}

	payload := jobs.NewGenerateProjectPayload(fileName, cat, req.FileType, userID, subtitles.ParseFilter(req.Filter))
	row, err := h.Repo.CreateJob(c.UserContext(), jobs.GenerateProjectJobType, payload.ArtifactKey, payload)
	if err != nil {
		return "", utils.Upstream("Failed to record the processing job", err)
	}

	job := &jobs.GenerateProjectJob{
		JobID:    row.ID,
		Payload:  payload,
		Design:   design,
		Store:    h.Store,
		Recorder: h.Repo,
		Pipeline: h.Pipeline,
		Logger:   h.Logger,
	}
	if err := h.Jobs.SubmitJob(job); err != nil {
		if uerr := h.Repo.UpdateJobStatus(c.UserContext(), row.ID, models.JobStatusFailed, err.Error()); uerr != nil {
			h.Logger.Errorf("Failed to mark job %s failed: %v", row.ID, uerr)
		}
		if errors.Is(err, worker.ErrQueueFull) || errors.Is(err, worker.ErrStopped) {
			return "", fiber.NewError(fiber.StatusServiceUnavailable, "Processing queue is full, try again later")
		}
		return "", utils.Upstream("Failed to queue the processing job", err)
	}
	return row.ID.String(), nil
}

// decodeFileData accepts plain base64 or a data URL.
func decodeFileData(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ";base64,"); i >= 0 {
			s = s[i+len(";base64,"):]
		}
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	return data, nil
}
