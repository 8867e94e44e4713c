package handlers

import (
	"github.com/gofiber/fiber/v2"

	"subtitleforge/middleware"
)

// RegisterRoutes mounts the API under /api and the health check at /health.
func (h *ApplicationHandler) RegisterRoutes(app *fiber.App, auth middleware.Authenticator) {
	app.Get("/health", HealthCheck)

	requireAuth := middleware.RequireAuth(auth, h.Logger)
	optionalAuth := middleware.OptionalAuth(auth, h.Logger)

	api := app.Group("/api")

	api.Post("/upload", optionalAuth, h.UploadFile)
	api.Get("/check-fcpxml", h.CheckFCPXML)
	api.Get("/wait-fcpxml", h.WaitFCPXML)
	api.Get("/jobs/:jobId", h.GetJobStatus)

	api.Post("/speech-to-text", requireAuth, h.SpeechToText)
	api.Post("/generate-subtitle-file", optionalAuth, h.GenerateSubtitleFile)
	api.Post("/generate-summarized-subtitles", requireAuth, h.GenerateSummarizedSubtitles)
	api.Post("/apply-speaker-styles", h.ApplySpeakerStyles)
	api.Get("/export-project-file", ValidateExportSoftware, requireAuth, h.ExportProjectFile)
	api.Post("/add-training-data", optionalAuth, h.AddTrainingData)

	api.Get("/subtitle-design", requireAuth, h.GetSubtitleDesign)
	api.Put("/subtitle-design", requireAuth, h.UpdateSubtitleDesign)
	api.Get("/filters", requireAuth, h.ListFilters)
	api.Post("/filters", requireAuth, h.CreateFilter)
}
