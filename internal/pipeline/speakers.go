package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"subtitleforge/internal/aiclient"
	"subtitleforge/models"
)

const identifySystem = "You are a speaker diarization assistant. Given subtitle lines, group them by speaker. " +
	`Answer with a JSON array of objects {"speakerId": <integer>, "speakerName": "<name>"}, one per distinct speaker.`

// Palette maps speaker ids to styles. Ids with an explicit entry always get
// that style. Other speakers take Rotation styles in ascending id order.
type Palette struct {
	Styles   map[int]models.SpeakerStyle
	Rotation []models.SpeakerStyle
}

// DefaultPalette is the two-entry palette used when nothing is configured.
func DefaultPalette() Palette {
	return Palette{Styles: map[int]models.SpeakerStyle{
		1: {Font: "Arial", FontColor: "#FF0000"},
		2: {Font: "Helvetica", FontColor: "#0000FF"},
	}}
}

// Assign resolves a style for every id it can. Ids that are neither explicit
// nor reachable through the rotation are absent from the result.
func (p Palette) Assign(ids []int) map[int]models.SpeakerStyle {
	out := make(map[int]models.SpeakerStyle, len(ids))
	var rest []int
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if style, ok := p.Styles[id]; ok {
			out[id] = style
		} else {
			rest = append(rest, id)
		}
	}
	if len(p.Rotation) == 0 {
		return out
	}
	sort.Ints(rest)
	for i, id := range rest {
		out[id] = p.Rotation[i%len(p.Rotation)]
	}
	return out
}

// SpeakerStyler is the speaker styling stage.
type SpeakerStyler struct {
	Model   aiclient.Completer
	Palette Palette
	Logger  *logrus.Logger
}

// Style identifies speakers and returns a styled copy of seq together with
// the identification result. The outcome reflects the identification step;
// style assignment itself cannot fail.
func (s *SpeakerStyler) Style(ctx context.Context, seq models.CaptionSequence) (models.CaptionSequence, []models.Speaker, Outcome) {
	speakers, outcome := s.Identify(ctx, seq)
	return s.Apply(seq, speakers), speakers, outcome
}

// Identify asks the model who is speaking. On failure it returns the fixed
// two-speaker mapping.
func (s *SpeakerStyler) Identify(ctx context.Context, seq models.CaptionSequence) ([]models.Speaker, Outcome) {
	speakers, err := s.identify(ctx, seq)
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"stage": "speaker_identification", "captions": len(seq)}).
			Warnf("Using default speakers: %v", err)
		return FallbackSpeakers(), fellBack(err)
	}
	return speakers, fromModel()
}

func (s *SpeakerStyler) identify(ctx context.Context, seq models.CaptionSequence) ([]models.Speaker, error) {
	if s.Model == nil {
		return nil, fmt.Errorf("no speaker identification model configured")
	}
	payload, err := json.Marshal(seq)
	if err != nil {
		return nil, err
	}
	raw, err := s.Model.Complete(ctx, aiclient.Request{
		System: identifySystem,
		Prompt: fmt.Sprintf("Identify the speakers in these subtitles: %s", payload),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	return decodeSpeakers(aiclient.ExtractJSON(raw))
}

// decodeSpeakers accepts either a bare array or an object wrapping it under
// "speakers".
func decodeSpeakers(raw string) ([]models.Speaker, error) {
	var speakers []models.Speaker
	if err := json.Unmarshal([]byte(raw), &speakers); err != nil {
		var wrapped struct {
			Speakers []models.Speaker `json:"speakers"`
		}
		if err2 := json.Unmarshal([]byte(raw), &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode speakers: %w", err)
		}
		speakers = wrapped.Speakers
	}
	if len(speakers) == 0 {
		return nil, fmt.Errorf("model identified no speakers")
	}
	return speakers, nil
}

// Apply returns a copy of seq with Font and Color set on every caption whose
// speaker has a style. Captions without a speaker id, or with an id the
// palette cannot style, are copied unchanged.
func (s *SpeakerStyler) Apply(seq models.CaptionSequence, speakers []models.Speaker) models.CaptionSequence {
	var ids []int
	for _, sp := range speakers {
		ids = append(ids, sp.SpeakerID)
	}
	for _, c := range seq {
		if c.SpeakerID != nil {
			ids = append(ids, *c.SpeakerID)
		}
	}
	styles := s.Palette.Assign(ids)

	out := seq.Clone()
	for i := range out {
		if out[i].SpeakerID == nil {
			continue
		}
		if style, ok := styles[*out[i].SpeakerID]; ok {
			out[i].Font = style.Font
			out[i].Color = style.FontColor
		}
	}
	return out
}

// FallbackSpeakers is the mapping used when identification fails.
func FallbackSpeakers() []models.Speaker {
	return []models.Speaker{
		{SpeakerID: 1, SpeakerName: "Speaker A"},
		{SpeakerID: 2, SpeakerName: "Speaker B"},
	}
}
