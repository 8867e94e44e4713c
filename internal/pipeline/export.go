package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"subtitleforge/internal/storage"
	"subtitleforge/internal/subtitles"
	"subtitleforge/models"
)

// ErrRender marks captions that cannot be serialized, such as an
// unparseable start time.
var ErrRender = errors.New("render project")

// Software names accepted by the project export.
const (
	SoftwareFinalCut = "finalcut"
	SoftwarePremiere = "premiere"
)

// ValidSoftware reports whether software names a supported editor.
func ValidSoftware(software string) bool {
	return software == SoftwareFinalCut || software == SoftwarePremiere
}

// Rendered is an export rendered in memory.
type Rendered struct {
	Data        []byte
	Ext         string
	ContentType string
}

// Render serializes seq for the given editor.
func Render(seq models.CaptionSequence, design models.SubtitleDesign, software string) (Rendered, error) {
	switch software {
	case SoftwareFinalCut:
		data, err := subtitles.RenderFCPXML(seq, design, subtitles.DefaultRenderOptions())
		if err != nil {
			return Rendered{}, err
		}
		return Rendered{Data: data, Ext: ".fcpxml", ContentType: "application/xml"}, nil
	case SoftwarePremiere:
		data, err := subtitles.RenderSRT(seq)
		if err != nil {
			return Rendered{}, err
		}
		return Rendered{Data: data, Ext: ".srt", ContentType: "application/x-subrip"}, nil
	default:
		return Rendered{}, fmt.Errorf("unsupported software %q", software)
	}
}

// Exporter renders caption sequences and stores them under
// timestamp-qualified keys.
type Exporter struct {
	Store storage.ObjectStore
	Now   func() time.Time
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Exporter) stamp(prefix, ext string) string {
	return fmt.Sprintf("%s_%d%s", prefix, e.now().UnixMilli(), ext)
}

// SubtitleFile stores an FCPXML render of seq in the subtitle category.
func (e *Exporter) SubtitleFile(ctx context.Context, seq models.CaptionSequence, design models.SubtitleDesign) (models.PipelineArtifact, error) {
	data, err := subtitles.RenderFCPXML(seq, design, subtitles.DefaultRenderOptions())
	if err != nil {
		return models.PipelineArtifact{}, fmt.Errorf("render subtitles: %w", err)
	}
	return e.put(ctx, storage.CategorySubtitle, e.stamp("subtitle", ".fcpxml"), data, "application/xml")
}

// Project stores the render for software in the project category. Previews
// go under previews/.
func (e *Exporter) Project(ctx context.Context, seq models.CaptionSequence, design models.SubtitleDesign, software string, preview bool) (models.PipelineArtifact, error) {
	r, err := Render(seq, design, software)
	if err != nil {
		return models.PipelineArtifact{}, fmt.Errorf("%w: %v", ErrRender, err)
	}
	key := e.stamp("project", r.Ext)
	if preview {
		key = "previews/" + key
	}
	return e.put(ctx, storage.CategoryProject, key, r.Data, r.ContentType)
}

// Stylized stores the styled sequence as JSON in the stylized category.
func (e *Exporter) Stylized(ctx context.Context, payload []byte) (models.PipelineArtifact, error) {
	return e.put(ctx, storage.CategoryStylized, e.stamp("stylized_subtitles", ".json"), payload, "application/json")
}

// Transcript stores a transcription record as JSON under the owner's prefix.
func (e *Exporter) Transcript(ctx context.Context, owner string, payload []byte) (models.PipelineArtifact, error) {
	key := e.stamp("transcription", ".json")
	if owner != "" {
		key = owner + "/" + key
	}
	return e.put(ctx, storage.CategoryTranscript, key, payload, "application/json")
}

// Bundle stores the .fcpxmld.zip bundle for an uploaded file under the key
// clients poll for.
func (e *Exporter) Bundle(ctx context.Context, fileName string, seq models.CaptionSequence, design models.SubtitleDesign) (models.PipelineArtifact, error) {
	opts := subtitles.DefaultRenderOptions()
	if base := strings.TrimSpace(fileName); base != "" {
		opts.ProjectName = base
	}
	doc, err := subtitles.RenderFCPXML(seq, design, opts)
	if err != nil {
		return models.PipelineArtifact{}, fmt.Errorf("render bundle: %w", err)
	}
	key := subtitles.ArtifactKey(fileName)
	zipped, err := subtitles.BundleFCPXMLD(key, doc, e.now())
	if err != nil {
		return models.PipelineArtifact{}, err
	}
	return e.put(ctx, storage.CategoryBundle, key, zipped, "application/zip")
}

func (e *Exporter) put(ctx context.Context, cat storage.Category, key string, data []byte, contentType string) (models.PipelineArtifact, error) {
	url, err := e.Store.Put(ctx, cat, key, data, contentType)
	if err != nil {
		return models.PipelineArtifact{}, err
	}
	return models.PipelineArtifact{Key: key, URL: url, ContentType: contentType}, nil
}
