package models

import "time"

// MediaProbe is what ffprobe reports about an uploaded recording.
type MediaProbe struct {
	Duration   time.Duration `json:"duration"`
	FormatName string        `json:"formatName,omitempty"`
	AudioCodec string        `json:"audioCodec,omitempty"`
	VideoCodec string        `json:"videoCodec,omitempty"`
	Width      int           `json:"width,omitempty"`
	Height     int           `json:"height,omitempty"`
}
