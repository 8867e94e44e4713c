package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"subtitleforge/config"
	_ "subtitleforge/docs"
	"subtitleforge/handlers"
	"subtitleforge/internal/aiclient"
	"subtitleforge/internal/db"
	"subtitleforge/internal/ffmpeg"
	"subtitleforge/internal/pipeline"
	"subtitleforge/internal/poller"
	"subtitleforge/internal/storage"
	"subtitleforge/internal/worker"
	"subtitleforge/middleware"
	"subtitleforge/utils"
)

// @title Subtitle Forge API
// @version 1.0
// @description Upload videos, generate styled subtitles and export editor project files.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.InitLogger()
	settings := config.LoadSettings()
	if err := settings.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	style, err := config.LoadStyleConfig(settings.StyleConfigPath)
	if err != nil {
		logger.Fatalf("Failed to load style config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := config.InitSupabase(settings)
	if err != nil {
		logger.Fatalf("Failed to initialize Supabase: %v", err)
	}

	store, err := buildStorage(ctx, settings, storage.NewSupabase(client.Storage), logger)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	rest, err := config.NewPostgrestClient(settings)
	if err != nil {
		logger.Fatalf("Failed to initialize database client: %v", err)
	}

	model, err := aiclient.New(ctx, aiclient.Config{
		Provider:    settings.LLMProvider,
		GeminiKey:   settings.GeminiKey,
		GeminiModel: settings.GeminiModel,
		OllamaURL:   settings.OllamaURL,
		OllamaModel: settings.OllamaModel,
		Timeout:     settings.LLMTimeout,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize language model: %v", err)
	}
	logger.WithField("model", model.Name()).Info("Language model ready")

	dispatcher := worker.NewDispatcher(settings.WorkerCount, settings.JobQueueSize, logger)
	dispatcher.Run(ctx)

	h := handlers.NewApplicationHandler(handlers.Dependencies{
		Logger: logger,
		Store:  store,
		Repo:   db.NewStore(rest),
		Model:  model,
		Jobs:   dispatcher,
		Prober: ffmpeg.NewProber(logger),
		Palette: pipeline.Palette{
			Styles:   style.SpeakerStyles(),
			Rotation: style.Rotation,
		},
		Design: style.Design,
		Poll: handlers.PollSettings{
			Timeout: settings.PollTimeout,
			Backoff: poller.Backoff{
				Initial:    settings.PollInitialInterval,
				Max:        settings.PollMaxInterval,
				Multiplier: 2,
			},
		},
		Now: time.Now,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler(logger),
		BodyLimit:    512 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger(logger))

	h.RegisterRoutes(app, &middleware.SupabaseAuthenticator{Auth: client.Auth})
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			logger.Errorf("Server shutdown: %v", err)
		}
	}()

	logger.Infof("Starting subtitle service on port %s...", settings.Port)
	if err := app.Listen(":" + settings.Port); err != nil {
		logger.Errorf("Server stopped: %v", err)
	}

	dispatcher.Stop()
	logger.Info("Workers stopped")
}

// buildStorage routes raw videos, rendered projects and bundles to S3 when it
// is configured and everything else to Supabase Storage.
func buildStorage(ctx context.Context, s config.Settings, supabase storage.Backend, logger *logrus.Logger) (*storage.Mux, error) {
	mux := storage.NewMux().
		Route(storage.CategoryVideo, supabase, s.VideoBucket).
		Route(storage.CategoryTranscript, supabase, s.TranscriptBucket).
		Route(storage.CategoryStylized, supabase, s.StylizedBucket).
		Route(storage.CategorySubtitle, supabase, s.SubtitleBucket).
		Route(storage.CategoryProject, supabase, s.ProjectBucket).
		Route(storage.CategoryBundle, supabase, s.ProjectBucket)

	if !s.S3Enabled() {
		logger.Info("S3 not configured, all buckets served by Supabase Storage")
		return mux, nil
	}

	s3, err := storage.NewS3(ctx, storage.S3Config{
		Region:    s.AWSRegion,
		AccessKey: s.AWSAccessKey,
		SecretKey: s.AWSSecretKey,
		Endpoint:  s.AWSEndpoint,
	})
	if err != nil {
		return nil, err
	}
	mux.Route(storage.CategoryVideo, s3, s.AWSVideoBucket).
		Route(storage.CategoryProject, s3, s.FCPXMLBucket).
		Route(storage.CategoryBundle, s3, s.FCPXMLBucket)
	logger.WithFields(logrus.Fields{
		"video_bucket":  s.AWSVideoBucket,
		"fcpxml_bucket": s.FCPXMLBucket,
	}).Info("S3 storage enabled")
	return mux, nil
}
