package subtitles

import (
	"bytes"
	"fmt"
	"strings"

	"subtitleforge/models"
)

// RenderSRT writes the sequence as SubRip, the caption format Premiere Pro
// imports. Cues are numbered from 1 in sequence order.
func RenderSRT(seq models.CaptionSequence) ([]byte, error) {
	var buf bytes.Buffer
	for i, c := range seq {
		start, end, err := Span(c)
		if err != nil {
			return nil, fmt.Errorf("caption %d: %w", c.ID, err)
		}
		fmt.Fprintf(&buf, "%d\n%s --> %s\n%s\n\n", i+1, FormatSRT(start), FormatSRT(end), strings.TrimSpace(c.Text))
	}
	return buf.Bytes(), nil
}
