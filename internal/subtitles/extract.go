package subtitles

import (
	"sort"
	"strings"
	"time"

	"subtitleforge/models"
)

// Rejected is a transcript line the extractor could not use.
type Rejected struct {
	Line   int
	Text   string
	Reason string
}

// ExtractTranscript turns "<timestamp> <text>" lines into captions. Each
// caption ends CaptionLength after it starts. A timestamp with no text yields
// an empty-text caption; blank lines and lines whose first field is not a
// timestamp are reported in the second return value. The result is sorted by
// start time and numbered from 1 in that order.
func ExtractTranscript(transcript string) (models.CaptionSequence, []Rejected) {
	type timed struct {
		start time.Duration
		text  string
	}

	var (
		lines    []timed
		rejected []Rejected
	)
	for i, raw := range strings.Split(transcript, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" {
			continue
		}
		stamp, text := splitFirstField(line)
		start, err := ParseTimestamp(stamp)
		if err != nil {
			rejected = append(rejected, Rejected{Line: i + 1, Text: line, Reason: err.Error()})
			continue
		}
		lines = append(lines, timed{start: start, text: text})
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].start < lines[j].start })

	captions := make(models.CaptionSequence, 0, len(lines))
	for i, l := range lines {
		captions = append(captions, models.Caption{
			ID:    i + 1,
			Start: FormatClock(l.start),
			End:   FormatClock(l.start + CaptionLength),
			Text:  l.text,
		})
	}
	return captions, rejected
}

func splitFirstField(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

// Span returns the parsed start and end of a caption. A missing or
// unparseable end falls back to start + CaptionLength.
func Span(c models.Caption) (time.Duration, time.Duration, error) {
	start, err := ParseTimestamp(c.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(c.End)
	if err != nil || end <= start {
		end = start + CaptionLength
	}
	return start, end, nil
}
