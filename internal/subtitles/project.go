package subtitles

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"subtitleforge/models"
)

// ErrNoCaptions is returned when a project file contains no titles or captions.
var ErrNoCaptions = errors.New("project contains no titles or captions")

// timeline tracks how a container maps its children's time values onto the
// project timeline.
type timeline struct {
	origin time.Duration // absolute position of the container's start
	start  time.Duration // the container's own start attribute
}

type pendingCaption struct {
	start, dur time.Duration
	name       string
	text       strings.Builder
}

// ParseProject reads an FCPXML document and returns one caption per <title>
// or <caption> element, positioned on the project timeline. Elements nested
// in gaps and clips are offset by their parents. Caption text is the
// element's <text> content, or its name attribute when it has none.
func ParseProject(data []byte) (models.CaptionSequence, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	type entry struct {
		captured *pendingCaption
		tl       timeline
	}

	var (
		stack   = []entry{{}}
		found   []*pendingCaption
		inText  int
		sawRoot bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse fcpxml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "fcpxml" {
				sawRoot = true
			}
			parent := stack[len(stack)-1]
			attrs := attrMap(t.Attr)

			tl := parent.tl
			if off, ok := attrs["offset"]; ok {
				offset, err := ParseTimestamp(off)
				if err != nil {
					return nil, fmt.Errorf("%s offset: %w", t.Name.Local, err)
				}
				start, _ := ParseTimestamp(attrs["start"])
				tl = timeline{origin: parent.tl.origin + offset - parent.tl.start, start: start}
			}

			cur := entry{captured: parent.captured, tl: tl}
			switch t.Name.Local {
			case "title", "caption":
				dur, err := ParseTimestamp(attrs["duration"])
				if err != nil {
					dur = CaptionLength
				}
				pc := &pendingCaption{start: tl.origin, dur: dur, name: attrs["name"]}
				found = append(found, pc)
				cur.captured = pc
			case "text":
				inText++
			}
			stack = append(stack, cur)

		case xml.EndElement:
			if t.Name.Local == "text" && inText > 0 {
				inText--
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if cur := stack[len(stack)-1].captured; cur != nil && inText > 0 {
				cur.text.Write(t)
			}
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("parse fcpxml: missing <fcpxml> root element")
	}
	if len(found) == 0 {
		return nil, ErrNoCaptions
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].start < found[j].start })
	seq := make(models.CaptionSequence, 0, len(found))
	for i, pc := range found {
		text := strings.Join(strings.Fields(pc.text.String()), " ")
		if text == "" {
			text = strings.TrimSpace(pc.name)
		}
		seq = append(seq, models.Caption{
			ID:    i + 1,
			Start: FormatClock(pc.start),
			End:   FormatClock(pc.start + pc.dur),
			Text:  text,
		})
	}
	return seq, nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}
