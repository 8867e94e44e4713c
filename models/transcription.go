package models

// Transcription is the output of the transcription stage.
type Transcription struct {
	Transcription string  `json:"transcription"`
	Confidence    float64 `json:"confidence"`
}
