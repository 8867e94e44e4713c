package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadStyleConfigDefaults(t *testing.T) {
	cfg, err := LoadStyleConfig("")
	if err != nil {
		t.Fatalf("LoadStyleConfig: %v", err)
	}
	styles := cfg.SpeakerStyles()
	if got := styles[1]; got.Font != "Arial" || got.FontColor != "#FF0000" {
		t.Errorf("speaker 1 = %+v", got)
	}
	if got := styles[2]; got.Font != "Helvetica" || got.FontColor != "#0000FF" {
		t.Errorf("speaker 2 = %+v", got)
	}
	if cfg.Design.Font != "Noto Sans JP" || cfg.Design.Size != 16 {
		t.Errorf("design = %+v", cfg.Design)
	}
}

func TestParseStyleConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, cfg StyleConfig)
	}{
		{
			name:  "partial design keeps defaults",
			input: "[design]\nsize = 24\n",
			check: func(t *testing.T, cfg StyleConfig) {
				if cfg.Design.Size != 24 || cfg.Design.Font != "Noto Sans JP" {
					t.Errorf("design = %+v", cfg.Design)
				}
				if len(cfg.Speakers) != 2 {
					t.Errorf("speakers = %d, want defaults", len(cfg.Speakers))
				}
			},
		},
		{
			name: "speakers and rotation",
			input: `
[[speakers]]
id = 7
font = "Georgia"
font_color = "#123456"

[[rotation]]
font = "Verdana"
font_color = "#ABCDEF"
`,
			check: func(t *testing.T, cfg StyleConfig) {
				styles := cfg.SpeakerStyles()
				if len(styles) != 1 || styles[7].Font != "Georgia" {
					t.Errorf("styles = %+v", styles)
				}
				if len(cfg.Rotation) != 1 || cfg.Rotation[0].FontColor != "#ABCDEF" {
					t.Errorf("rotation = %+v", cfg.Rotation)
				}
			},
		},
		{name: "unknown key", input: "colour = \"red\"\n", wantErr: true},
		{name: "bad color", input: "[design]\ncolor = \"white\"\n", wantErr: true},
		{name: "duplicate speaker", input: "[[speakers]]\nid = 1\nfont = \"A\"\nfont_color = \"#000000\"\n[[speakers]]\nid = 1\nfont = \"B\"\nfont_color = \"#000000\"\n", wantErr: true},
		{name: "malformed", input: "[design\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseStyleConfig([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStyleConfig: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadStyleConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.toml")
	if err := os.WriteFile(path, []byte("[design]\nfont = \"Inter\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadStyleConfig(path)
	if err != nil {
		t.Fatalf("LoadStyleConfig: %v", err)
	}
	if cfg.Design.Font != "Inter" {
		t.Errorf("font = %q", cfg.Design.Font)
	}

	if _, err := LoadStyleConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
