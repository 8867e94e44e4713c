package models

import "time"

// SubtitleDesign is the style configuration applied to every exported title.
type SubtitleDesign struct {
	Font            string `json:"font" toml:"font" validate:"required"`
	Size            int    `json:"size" toml:"size" validate:"gt=0,lte=500"`
	Color           string `json:"color" toml:"color" validate:"required,hexcolor"`
	BackgroundColor string `json:"backgroundColor" toml:"background_color" validate:"required,hexcolor"`
}

// DefaultSubtitleDesign matches the defaults offered by the design settings page.
func DefaultSubtitleDesign() SubtitleDesign {
	return SubtitleDesign{
		Font:            "Noto Sans JP",
		Size:            16,
		Color:           "#FFFFFF",
		BackgroundColor: "#000000",
	}
}

// DesignSettings maps to the subtitle_designs table.
type DesignSettings struct {
	UserID          string    `json:"user_id"`
	FontName        string    `json:"font_name"`
	FontSize        int       `json:"font_size"`
	FontColor       string    `json:"font_color"`
	BackgroundColor string    `json:"background_color"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Design converts a stored row into the render configuration.
func (d DesignSettings) Design() SubtitleDesign {
	return SubtitleDesign{
		Font:            d.FontName,
		Size:            d.FontSize,
		Color:           d.FontColor,
		BackgroundColor: d.BackgroundColor,
	}
}

// FilterPreset maps to the filters table.
type FilterPreset struct {
	ID           int64     `json:"id,omitempty"`
	UserID       string    `json:"user_id"`
	FilterString string    `json:"filter_string"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}
