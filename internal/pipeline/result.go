// Package pipeline runs the subtitle stages: transcription, extraction,
// summarization, speaker styling and export.
package pipeline

// Source says where a stage's output came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Outcome accompanies every stage result so callers can tell a model answer
// from substituted sample data.
type Outcome struct {
	Source Source `json:"source"`
	Reason string `json:"reason,omitempty"`
}

func fromModel() Outcome { return Outcome{Source: SourceModel} }

func fellBack(err error) Outcome {
	o := Outcome{Source: SourceFallback}
	if err != nil {
		o.Reason = err.Error()
	}
	return o
}

// Degraded reports whether the stage substituted fallback data.
func (o Outcome) Degraded() bool { return o.Source == SourceFallback }
