package models

// SpeakerStyle is the visual style assigned to one speaker.
type SpeakerStyle struct {
	Font      string `json:"font" toml:"font"`
	FontColor string `json:"fontColor" toml:"font_color"`
}

// Speaker is one entry of the speaker identification result.
type Speaker struct {
	SpeakerID   int    `json:"speakerId"`
	SpeakerName string `json:"speakerName"`
}
