package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"subtitleforge/internal/aiclient"
	"subtitleforge/internal/subtitles"
	"subtitleforge/models"
)

const trainerSystem = "You maintain the parameters of a subtitle highlighting model. " +
	"Given the complete training set of subtitle lines, return the updated model parameters as a JSON object " +
	`with at least "model_version" and "parameters".`

// maxTrainingCaptions bounds the training set sent in one prompt.
const maxTrainingCaptions = 500

// TrainingCaptions parses an uploaded project file into training captions.
// Unparseable or empty files yield the two sample clips instead.
func TrainingCaptions(project []byte, logger *logrus.Logger) (models.CaptionSequence, Outcome) {
	seq, err := subtitles.ParseProject(project)
	if err != nil {
		logger.WithField("stage", "training_parse").Warnf("Using sample training clips: %v", err)
		return SampleTrainingCaptions(), fellBack(err)
	}
	return seq, fromModel()
}

// SampleTrainingCaptions stands in for a project file that could not be read.
func SampleTrainingCaptions() models.CaptionSequence {
	return models.CaptionSequence{
		{ID: 1, Start: "0s", End: "5s", Text: "Sample subtitle 1"},
		{ID: 2, Start: "5s", End: "10s", Text: "Sample subtitle 2"},
	}
}

// ModelTrainer asks the completion model for updated model parameters over
// the full training history.
type ModelTrainer struct {
	Model  aiclient.Completer
	Logger *logrus.Logger
}

func (m *ModelTrainer) Update(ctx context.Context, records []models.TrainingRecord) (json.RawMessage, Outcome) {
	params, err := m.update(ctx, records)
	if err != nil {
		m.Logger.WithFields(logrus.Fields{"stage": "model_update", "records": len(records)}).
			Warnf("Storing default model parameters: %v", err)
		return FallbackModelParameters(), fellBack(err)
	}
	return params, fromModel()
}

func (m *ModelTrainer) update(ctx context.Context, records []models.TrainingRecord) (json.RawMessage, error) {
	if m.Model == nil {
		return nil, fmt.Errorf("no training model configured")
	}
	var lines []models.Caption
	for _, r := range records {
		for _, c := range r.SubtitleData.Subtitles {
			if len(lines) == maxTrainingCaptions {
				break
			}
			lines = append(lines, c)
		}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}

	raw, err := m.Model.Complete(ctx, aiclient.Request{
		System: trainerSystem,
		Prompt: fmt.Sprintf("Update the model with this training data: %s", data),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	body := aiclient.ExtractJSON(raw)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return nil, fmt.Errorf("decode model parameters: %w", err)
	}
	if len(obj) == 0 {
		return nil, aiclient.ErrEmptyResponse
	}
	return json.RawMessage(body), nil
}

// FallbackModelParameters is stored when the model update fails.
func FallbackModelParameters() json.RawMessage {
	return json.RawMessage(`{"model_version":"1.0.1","parameters":{"embedding_size":256,"num_layers":4,"dropout_rate":0.1}}`)
}
