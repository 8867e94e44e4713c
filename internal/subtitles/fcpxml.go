package subtitles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"subtitleforge/models"
)

const (
	fcpxmlVersion = "1.8"
	formatID      = "r1"
)

type fcpxmlDoc struct {
	XMLName   xml.Name     `xml:"fcpxml"`
	Version   string       `xml:"version,attr"`
	Resources fcpResources `xml:"resources"`
	Library   fcpLibrary   `xml:"library"`
}

type fcpResources struct {
	Formats []fcpFormat `xml:"format"`
}

type fcpFormat struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr"`
	FrameDuration string `xml:"frameDuration,attr"`
	Width         string `xml:"width,attr"`
	Height        string `xml:"height,attr"`
}

type fcpLibrary struct {
	Events []fcpEvent `xml:"event"`
}

type fcpEvent struct {
	Name     string       `xml:"name,attr"`
	Projects []fcpProject `xml:"project"`
}

type fcpProject struct {
	Name     string      `xml:"name,attr"`
	Sequence fcpSequence `xml:"sequence"`
}

type fcpSequence struct {
	Format   string   `xml:"format,attr"`
	Duration string   `xml:"duration,attr"`
	Spine    fcpSpine `xml:"spine"`
}

type fcpSpine struct {
	Titles []fcpTitle `xml:"title"`
}

type fcpTitle struct {
	Name     string       `xml:"name,attr"`
	Lane     string       `xml:"lane,attr"`
	Offset   string       `xml:"offset,attr"`
	Start    string       `xml:"start,attr"`
	Duration string       `xml:"duration,attr"`
	Text     fcpTitleText `xml:"text"`
}

type fcpTitleText struct {
	Style fcpTextStyle `xml:"text-style"`
}

type fcpTextStyle struct {
	Font            string `xml:"font,attr"`
	FontSize        string `xml:"fontSize,attr"`
	FontColor       string `xml:"fontColor,attr"`
	BackgroundColor string `xml:"backgroundColor,attr"`
	Text            string `xml:",chardata"`
}

// RenderOptions names the event and project in the generated library.
type RenderOptions struct {
	EventName   string
	ProjectName string
}

// DefaultRenderOptions are used when the caller has no better names.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{EventName: "Subtitles", ProjectName: "Subtitle Project"}
}

// RenderFCPXML writes one <title> per caption on lane 1 of a 1080p30
// sequence. A caption's own font and color (set by speaker styling) override
// the design.
func RenderFCPXML(seq models.CaptionSequence, design models.SubtitleDesign, opts RenderOptions) ([]byte, error) {
	if opts.EventName == "" || opts.ProjectName == "" {
		def := DefaultRenderOptions()
		if opts.EventName == "" {
			opts.EventName = def.EventName
		}
		if opts.ProjectName == "" {
			opts.ProjectName = def.ProjectName
		}
	}

	titles := make([]fcpTitle, 0, len(seq))
	var total time.Duration
	for _, c := range seq {
		start, end, err := Span(c)
		if err != nil {
			return nil, fmt.Errorf("caption %d: %w", c.ID, err)
		}
		if end > total {
			total = end
		}

		font, color := design.Font, design.Color
		if c.Font != "" {
			font = c.Font
		}
		if c.Color != "" {
			color = c.Color
		}

		titles = append(titles, fcpTitle{
			Name:     titleName(c),
			Lane:     "1",
			Offset:   FormatFCPTime(start),
			Start:    FormatFCPTime(start),
			Duration: FormatFCPTime(end - start),
			Text: fcpTitleText{Style: fcpTextStyle{
				Font:            font,
				FontSize:        strconv.Itoa(design.Size),
				FontColor:       FCPColor(color),
				BackgroundColor: FCPColor(design.BackgroundColor),
				Text:            c.Text,
			}},
		})
	}

	doc := fcpxmlDoc{
		Version: fcpxmlVersion,
		Resources: fcpResources{Formats: []fcpFormat{{
			ID:            formatID,
			Name:          "FFVideoFormat1080p30",
			FrameDuration: "1001/30000s",
			Width:         "1920",
			Height:        "1080",
		}}},
		Library: fcpLibrary{Events: []fcpEvent{{
			Name: opts.EventName,
			Projects: []fcpProject{{
				Name: opts.ProjectName,
				Sequence: fcpSequence{
					Format:   formatID,
					Duration: FormatFCPTime(total),
					Spine:    fcpSpine{Titles: titles},
				},
			}},
		}}},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<!DOCTYPE fcpxml>\n")
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode fcpxml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func titleName(c models.Caption) string {
	name := []rune(strings.TrimSpace(c.Text))
	if len(name) > 32 {
		name = append(name[:32], '…')
	}
	if len(name) == 0 {
		return fmt.Sprintf("Caption %d", c.ID)
	}
	return string(name)
}

// FCPColor converts "#RRGGBB" or "#RRGGBBAA" into the "r g b a" float form
// Final Cut Pro expects. Other values are passed through unchanged.
func FCPColor(hex string) string {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 && len(h) != 8 {
		return hex
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return hex
	}
	if len(h) == 6 {
		v = v<<8 | 0xFF
	}
	channel := func(shift uint) string {
		return strconv.FormatFloat(float64((v>>shift)&0xFF)/255, 'f', -1, 64)
	}
	return fmt.Sprintf("%s %s %s %s", channel(24), channel(16), channel(8), channel(0))
}
