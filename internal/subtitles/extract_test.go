package subtitles

import (
	"fmt"
	"strings"
	"testing"

	"subtitleforge/models"
)

func TestExtractTranscript(t *testing.T) {
	got, rejected := ExtractTranscript("00 Hello there\n05 How are you")
	want := models.CaptionSequence{
		{ID: 1, Start: "00:00", End: "00:05", Text: "Hello there"},
		{ID: 2, Start: "00:05", End: "00:10", Text: "How are you"},
	}
	if len(rejected) != 0 {
		t.Fatalf("rejected = %+v", rejected)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d captions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("caption %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExtractTranscriptProperties(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, fmt.Sprintf("%d line number %d", (i*37)%120, i))
	}
	got, rejected := ExtractTranscript(strings.Join(lines, "\n"))
	if len(rejected) != 0 {
		t.Fatalf("rejected = %+v", rejected)
	}
	if len(got) != len(lines) {
		t.Fatalf("got %d captions, want %d", len(got), len(lines))
	}

	ids := make(map[int]bool)
	for i, c := range got {
		if ids[c.ID] {
			t.Errorf("duplicate id %d", c.ID)
		}
		ids[c.ID] = true

		start, err := ParseTimestamp(c.Start)
		if err != nil {
			t.Fatalf("caption %d start %q: %v", c.ID, c.Start, err)
		}
		end, err := ParseTimestamp(c.End)
		if err != nil {
			t.Fatalf("caption %d end %q: %v", c.ID, c.End, err)
		}
		if end-start != CaptionLength {
			t.Errorf("caption %d spans %v, want %v", c.ID, end-start, CaptionLength)
		}
		if len(c.End) != 5 || c.End[2] != ':' {
			t.Errorf("caption %d end %q is not MM:SS", c.ID, c.End)
		}
		if i > 0 {
			prev, _ := ParseTimestamp(got[i-1].Start)
			if prev > start {
				t.Errorf("captions out of order at %d: %v > %v", i, prev, start)
			}
		}
	}
}

func TestExtractTranscriptEdgeCases(t *testing.T) {
	got, rejected := ExtractTranscript("10\r\n\n   \nnot-a-time hello\n00:03 tabs\tinside  text\n")
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Start != "00:03" || got[0].Text != "tabs\tinside  text" {
		t.Errorf("first caption = %+v", got[0])
	}
	if got[1].Start != "00:10" || got[1].Text != "" || got[1].End != "00:15" {
		t.Errorf("empty-text caption = %+v", got[1])
	}
	if len(rejected) != 1 || rejected[0].Line != 4 {
		t.Errorf("rejected = %+v", rejected)
	}
}

func TestSpan(t *testing.T) {
	start, end, err := Span(models.Caption{Start: "00:00:03", End: ""})
	if err != nil || start.Seconds() != 3 || end.Seconds() != 8 {
		t.Errorf("Span = %v %v %v", start, end, err)
	}
	if _, _, err := Span(models.Caption{Start: "soon"}); err == nil {
		t.Error("expected error for bad start")
	}
}
