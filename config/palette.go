package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"subtitleforge/models"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// SpeakerEntry pins a style to one speaker id.
type SpeakerEntry struct {
	ID        int    `toml:"id"`
	Font      string `toml:"font"`
	FontColor string `toml:"font_color"`
}

// StyleConfig is the on-disk description of the default subtitle design and
// the speaker palette.
//
//	[design]
//	font = "Noto Sans JP"
//	size = 16
//
//	[[speakers]]
//	id = 1
//	font = "Arial"
//	font_color = "#FF0000"
//
//	[[rotation]]
//	font = "Georgia"
//	font_color = "#00AA00"
type StyleConfig struct {
	Design   models.SubtitleDesign `toml:"design"`
	Speakers []SpeakerEntry        `toml:"speakers"`
	Rotation []models.SpeakerStyle `toml:"rotation"`
}

// DefaultStyleConfig is used when STYLE_CONFIG is unset.
func DefaultStyleConfig() StyleConfig {
	return StyleConfig{
		Design: models.DefaultSubtitleDesign(),
		Speakers: []SpeakerEntry{
			{ID: 1, Font: "Arial", FontColor: "#FF0000"},
			{ID: 2, Font: "Helvetica", FontColor: "#0000FF"},
		},
	}
}

// LoadStyleConfig reads the TOML file at path. An empty path yields the
// defaults.
func LoadStyleConfig(path string) (StyleConfig, error) {
	if path == "" {
		return DefaultStyleConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return StyleConfig{}, fmt.Errorf("read style config %s: %w", path, err)
	}
	cfg, err := ParseStyleConfig(data)
	if err != nil {
		return StyleConfig{}, fmt.Errorf("style config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseStyleConfig decodes TOML on top of the defaults. Keys the file omits
// keep their default value; unknown keys are rejected.
func ParseStyleConfig(data []byte) (StyleConfig, error) {
	cfg := DefaultStyleConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return StyleConfig{}, err
	}
	if err := cfg.validate(); err != nil {
		return StyleConfig{}, err
	}
	return cfg, nil
}

// SpeakerStyles returns the explicit id to style map.
func (c StyleConfig) SpeakerStyles() map[int]models.SpeakerStyle {
	styles := make(map[int]models.SpeakerStyle, len(c.Speakers))
	for _, s := range c.Speakers {
		styles[s.ID] = models.SpeakerStyle{Font: s.Font, FontColor: s.FontColor}
	}
	return styles
}

func (c StyleConfig) validate() error {
	if c.Design.Font == "" {
		return fmt.Errorf("design.font must not be empty")
	}
	if c.Design.Size <= 0 {
		return fmt.Errorf("design.size must be positive, got %d", c.Design.Size)
	}
	for _, color := range []string{c.Design.Color, c.Design.BackgroundColor} {
		if !hexColor.MatchString(color) {
			return fmt.Errorf("design color %q is not #RRGGBB", color)
		}
	}

	seen := make(map[int]bool, len(c.Speakers))
	for _, s := range c.Speakers {
		if seen[s.ID] {
			return fmt.Errorf("speaker %d listed twice", s.ID)
		}
		seen[s.ID] = true
		if s.Font == "" || !hexColor.MatchString(s.FontColor) {
			return fmt.Errorf("speaker %d needs a font and a #RRGGBB font_color", s.ID)
		}
	}
	for i, s := range c.Rotation {
		if s.Font == "" || !hexColor.MatchString(s.FontColor) {
			return fmt.Errorf("rotation[%d] needs a font and a #RRGGBB font_color", i)
		}
	}
	return nil
}
