package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"subtitleforge/internal/aiclient"
	"subtitleforge/models"
)

// maxHistoryCaptions bounds how much training history goes into one prompt.
const maxHistoryCaptions = 200

const summarizeSystem = "Extract the important sentences and phrases from the given subtitles and summarize them. " +
	"Quote every important subtitle line verbatim, one per line. " +
	"The training subtitles show which kind of lines this user considers important."

// Summarizer is the summarization stage.
type Summarizer struct {
	Model  aiclient.Completer
	Logger *logrus.Logger
}

// Summarize marks captions whose text appears verbatim in the model's
// summary. Captions with empty text are never marked. When the model fails
// the result is SampleSummary, not the input.
func (s *Summarizer) Summarize(ctx context.Context, seq models.CaptionSequence, history []models.TrainingRecord) (models.CaptionSequence, Outcome) {
	summary, err := s.summarize(ctx, seq, history)
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"stage": "summarization", "captions": len(seq)}).
			Warnf("Replacing captions with sample summary: %v", err)
		return SampleSummary(), fellBack(err)
	}
	return MarkImportant(seq, summary), fromModel()
}

func (s *Summarizer) summarize(ctx context.Context, seq models.CaptionSequence, history []models.TrainingRecord) (string, error) {
	if s.Model == nil {
		return "", fmt.Errorf("no summarization model configured")
	}
	current, err := json.Marshal(seq)
	if err != nil {
		return "", err
	}
	training, err := json.Marshal(historyCaptions(history))
	if err != nil {
		return "", err
	}

	raw, err := s.Model.Complete(ctx, aiclient.Request{
		System: summarizeSystem,
		Prompt: fmt.Sprintf("Subtitles: %s\nTraining subtitles: %s", current, training),
	})
	if err != nil {
		return "", err
	}
	summary := aiclient.StripCodeFence(raw)
	if summary == "" {
		return "", aiclient.ErrEmptyResponse
	}
	return summary, nil
}

// MarkImportant returns a copy of seq with IsImportant set on every caption
// whose non-empty text is a substring of summary.
func MarkImportant(seq models.CaptionSequence, summary string) models.CaptionSequence {
	out := seq.Clone()
	for i := range out {
		text := strings.TrimSpace(out[i].Text)
		if text != "" && strings.Contains(summary, text) {
			out[i].IsImportant = true
		}
	}
	return out
}

func historyCaptions(history []models.TrainingRecord) []string {
	var texts []string
	for i := len(history) - 1; i >= 0 && len(texts) < maxHistoryCaptions; i-- {
		for _, c := range history[i].SubtitleData.Subtitles {
			if len(texts) == maxHistoryCaptions {
				break
			}
			if t := strings.TrimSpace(c.Text); t != "" {
				texts = append(texts, t)
			}
		}
	}
	return texts
}

// SampleSummary is the fixed sequence substituted when summarization fails.
func SampleSummary() models.CaptionSequence {
	return models.CaptionSequence{
		{ID: 1, Start: "00:00:00", End: "00:00:05", Text: "Hello, today is an important meeting.", IsImportant: true},
		{ID: 2, Start: "00:00:06", End: "00:00:10", Text: "The agenda is the development of a new product.", IsImportant: true},
		{ID: 3, Start: "00:00:11", End: "00:00:15", Text: "First, let's look at the market research results.", IsImportant: false},
		{ID: 4, Start: "00:00:16", End: "00:00:20", Text: "We also need to consider what our competitors are doing.", IsImportant: true},
	}
}
