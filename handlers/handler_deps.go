package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"subtitleforge/internal/aiclient"
	"subtitleforge/internal/db"
	"subtitleforge/internal/pipeline"
	"subtitleforge/internal/poller"
	"subtitleforge/internal/storage"
	"subtitleforge/internal/worker"
	"subtitleforge/models"
)

// JobSubmitter accepts background jobs. *worker.Dispatcher implements it.
type JobSubmitter interface {
	SubmitJob(job worker.Job) error
}

// PollSettings bounds the server-side readiness wait.
type PollSettings struct {
	Timeout time.Duration
	Backoff poller.Backoff
}

// Dependencies is everything NewApplicationHandler wires together.
type Dependencies struct {
	Logger  *logrus.Logger
	Store   storage.ObjectStore
	Repo    db.Repository
	Model   aiclient.Completer
	Jobs    JobSubmitter
	Prober  pipeline.MediaProber
	Palette pipeline.Palette
	Design  models.SubtitleDesign
	Poll    PollSettings
	Now     func() time.Time
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Logger *logrus.Logger
	Store  storage.ObjectStore
	Repo   db.Repository
	Jobs   JobSubmitter
	Prober pipeline.MediaProber
	Design models.SubtitleDesign
	Poll   PollSettings

	Transcriber *pipeline.Transcriber
	Summarizer  *pipeline.Summarizer
	Styler      *pipeline.SpeakerStyler
	Trainer     *pipeline.ModelTrainer
	Exporter    *pipeline.Exporter
	Pipeline    *pipeline.Pipeline

	validate *validator.Validate
}

// NewApplicationHandler builds the pipeline stages around one completion
// model and returns the handler set.
func NewApplicationHandler(deps Dependencies) *ApplicationHandler {
	if deps.Design == (models.SubtitleDesign{}) {
		deps.Design = models.DefaultSubtitleDesign()
	}
	if deps.Palette.Styles == nil && deps.Palette.Rotation == nil {
		deps.Palette = pipeline.DefaultPalette()
	}

	h := &ApplicationHandler{
		Logger: deps.Logger,
		Store:  deps.Store,
		Repo:   deps.Repo,
		Jobs:   deps.Jobs,
		Prober: deps.Prober,
		Design: deps.Design,
		Poll:   deps.Poll,

		Transcriber: &pipeline.Transcriber{Model: deps.Model, Logger: deps.Logger},
		Summarizer:  &pipeline.Summarizer{Model: deps.Model, Logger: deps.Logger},
		Styler:      &pipeline.SpeakerStyler{Model: deps.Model, Palette: deps.Palette, Logger: deps.Logger},
		Trainer:     &pipeline.ModelTrainer{Model: deps.Model, Logger: deps.Logger},
		Exporter:    &pipeline.Exporter{Store: deps.Store, Now: deps.Now},

		validate: validator.New(),
	}
	h.Pipeline = &pipeline.Pipeline{
		Prober:      deps.Prober,
		History:     deps.Repo,
		Transcriber: h.Transcriber,
		Summarizer:  h.Summarizer,
		Styler:      h.Styler,
		Exporter:    h.Exporter,
		Logger:      deps.Logger,
	}
	return h
}
