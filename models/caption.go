package models

// Caption is one timed subtitle line.
type Caption struct {
	ID          int    `json:"id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Text        string `json:"text"`
	IsImportant bool   `json:"isImportant"`
	SpeakerID   *int   `json:"speakerId,omitempty"`
	Font        string `json:"font,omitempty"`  // set by speaker styling
	Color       string `json:"color,omitempty"` // set by speaker styling
}

// CaptionSequence is ordered by start time. Stages never mutate a sequence
// they were handed; they return a new one.
type CaptionSequence []Caption

// Clone returns a deep copy so a stage can modify captions without touching
// its input.
func (s CaptionSequence) Clone() CaptionSequence {
	if s == nil {
		return nil
	}
	out := make(CaptionSequence, len(s))
	for i, c := range s {
		if c.SpeakerID != nil {
			id := *c.SpeakerID
			c.SpeakerID = &id
		}
		out[i] = c
	}
	return out
}

// Texts returns the caption texts in order.
func (s CaptionSequence) Texts() []string {
	texts := make([]string, len(s))
	for i, c := range s {
		texts[i] = c.Text
	}
	return texts
}
