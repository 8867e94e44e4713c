package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds every option the server and the pipeline worker read from the
// environment.
type Settings struct {
	Port string

	SupabaseURL string
	SupabaseKey string

	AWSRegion        string
	AWSAccessKey     string
	AWSSecretKey     string
	AWSEndpoint      string
	AWSVideoBucket   string
	FCPXMLBucket     string
	VideoBucket      string
	TranscriptBucket string
	StylizedBucket   string
	SubtitleBucket   string
	ProjectBucket    string

	LLMProvider string
	GeminiKey   string
	GeminiModel string
	OllamaURL   string
	OllamaModel string
	LLMTimeout  time.Duration

	WorkerCount  int
	JobQueueSize int

	PollTimeout         time.Duration
	PollInitialInterval time.Duration
	PollMaxInterval     time.Duration

	StyleConfigPath string
}

// LoadSettings reads a .env file when one exists and then the process
// environment.
func LoadSettings() Settings {
	_ = godotenv.Load()

	return Settings{
		Port: envOr("PORT", "8080"),

		SupabaseURL: os.Getenv("SUPABASE_URL"),
		SupabaseKey: os.Getenv("SUPABASE_SERVICE_KEY"),

		AWSRegion:        os.Getenv("AWS_REGION"),
		AWSAccessKey:     os.Getenv("AWS_ACCESS_KEY"),
		AWSSecretKey:     os.Getenv("AWS_SECRET_KEY"),
		AWSEndpoint:      os.Getenv("AWS_ENDPOINT"),
		AWSVideoBucket:   os.Getenv("AWS_BUCKET_NAME"),
		FCPXMLBucket:     os.Getenv("FCPXML_BUCKET_NAME"),
		VideoBucket:      envOr("VIDEO_BUCKET", "videos"),
		TranscriptBucket: envOr("TRANSCRIPT_BUCKET", "transcriptions"),
		StylizedBucket:   envOr("STYLIZED_BUCKET", "stylized-subtitles"),
		SubtitleBucket:   envOr("SUBTITLE_BUCKET", "subtitles"),
		ProjectBucket:    envOr("PROJECT_BUCKET", "project_files"),

		LLMProvider: strings.ToLower(envOr("LLM_PROVIDER", "gemini")),
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel: envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaURL:   envOr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: envOr("OLLAMA_MODEL", "llama3.1"),
		LLMTimeout:  envDuration("LLM_TIMEOUT", 60*time.Second),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		JobQueueSize: envInt("JOB_QUEUE_SIZE", 100),

		PollTimeout:         envDuration("POLL_TIMEOUT", 2*time.Minute),
		PollInitialInterval: envDuration("POLL_INITIAL_INTERVAL", time.Second),
		PollMaxInterval:     envDuration("POLL_MAX_INTERVAL", 10*time.Second),

		StyleConfigPath: os.Getenv("STYLE_CONFIG"),
	}
}

// S3Enabled reports whether the S3 backend has enough configuration to serve
// the raw video and project file buckets.
func (s Settings) S3Enabled() bool {
	return s.AWSRegion != "" && s.AWSVideoBucket != "" && s.FCPXMLBucket != ""
}

// SupabaseEnabled reports whether Supabase credentials are present.
func (s Settings) SupabaseEnabled() bool {
	return s.SupabaseURL != "" && s.SupabaseKey != ""
}

// Validate reports configuration that makes the storage-backed routes unusable.
func (s Settings) Validate() error {
	var problems []string
	if !s.SupabaseEnabled() {
		problems = append(problems, "SUPABASE_URL and SUPABASE_SERVICE_KEY must be set")
	}
	if s.AWSRegion != "" && (s.AWSVideoBucket == "" || s.FCPXMLBucket == "") {
		problems = append(problems, "AWS_BUCKET_NAME and FCPXML_BUCKET_NAME are required when AWS_REGION is set")
	}
	if (s.AWSAccessKey == "") != (s.AWSSecretKey == "") {
		problems = append(problems, "AWS_ACCESS_KEY and AWS_SECRET_KEY must be set together")
	}
	switch s.LLMProvider {
	case "gemini", "ollama":
	default:
		problems = append(problems, fmt.Sprintf("unknown LLM_PROVIDER %q", s.LLMProvider))
	}
	if s.WorkerCount < 1 {
		problems = append(problems, "WORKER_COUNT must be at least 1")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		Logger().Warnf("Ignoring invalid %s=%q: %v", key, v, err)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		Logger().Warnf("Ignoring invalid %s=%q", key, v)
		return fallback
	}
	return d
}
