package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"subtitleforge/internal/subtitles"
	"subtitleforge/models"
)

// MediaProber inspects an uploaded recording. Implementations may return a
// zero probe when probing is unavailable.
type MediaProber interface {
	Probe(ctx context.Context, name string, data []byte) (models.MediaProbe, error)
}

// TrainingHistory supplies per-user training captions to summarization.
type TrainingHistory interface {
	TrainingRecords(ctx context.Context, userID string) ([]models.TrainingRecord, error)
}

// Input is one pipeline run over an uploaded recording.
type Input struct {
	FileName    string
	ContentType string
	Media       []byte
	UserID      string
	Filter      subtitles.FilterSpec
	Design      models.SubtitleDesign
}

// Result collects what each stage produced.
type Result struct {
	Transcription models.Transcription
	Captions      models.CaptionSequence
	Rejected      []subtitles.Rejected
	Speakers      []models.Speaker
	Artifact      models.PipelineArtifact
	Outcomes      map[string]Outcome
}

// Degraded reports whether any stage substituted fallback data.
func (r *Result) Degraded() bool {
	for _, o := range r.Outcomes {
		if o.Degraded() {
			return true
		}
	}
	return false
}

// Pipeline runs the stages strictly in order. Model failures inside a stage
// become fallback outcomes; storage failures abort the run.
type Pipeline struct {
	Prober      MediaProber
	History     TrainingHistory
	Transcriber *Transcriber
	Summarizer  *Summarizer
	Styler      *SpeakerStyler
	Exporter    *Exporter
	Logger      *logrus.Logger
}

func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	log := p.Logger.WithField("file", in.FileName)
	res := &Result{Outcomes: make(map[string]Outcome, 3)}

	media := MediaInfo{FileName: in.FileName, ContentType: in.ContentType, Size: len(in.Media)}
	if p.Prober != nil {
		probe, err := p.Prober.Probe(ctx, in.FileName, in.Media)
		if err != nil {
			log.Warnf("Probing media failed: %v", err)
		}
		media.MediaProbe = probe
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Transcription, res.Outcomes["transcription"] = p.Transcriber.Transcribe(ctx, media)

	captions, rejected := subtitles.ExtractTranscript(res.Transcription.Transcription)
	res.Rejected = rejected
	if len(rejected) > 0 {
		log.Warnf("Skipped %d transcript lines without a timestamp", len(rejected))
	}
	captions = in.Filter.Apply(captions)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var history []models.TrainingRecord
	if p.History != nil && in.UserID != "" {
		h, err := p.History.TrainingRecords(ctx, in.UserID)
		if err != nil {
			log.Warnf("Loading training history failed: %v", err)
		}
		history = h
	}
	captions, res.Outcomes["summarization"] = p.Summarizer.Summarize(ctx, captions, history)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Extracted captions carry no speaker id, so the bundle stays unstyled and
	// Speakers only records who was identified.
	captions, res.Speakers, res.Outcomes["speakers"] = p.Styler.Style(ctx, captions)
	res.Captions = captions

	artifact, err := p.Exporter.Bundle(ctx, in.FileName, captions, in.Design)
	if err != nil {
		return nil, fmt.Errorf("export bundle: %w", err)
	}
	res.Artifact = artifact

	log.WithFields(logrus.Fields{
		"captions": len(captions),
		"degraded": res.Degraded(),
		"key":      artifact.Key,
	}).Info("Pipeline run completed")
	return res, nil
}
