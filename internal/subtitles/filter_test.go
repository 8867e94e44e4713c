package subtitles

import (
	"reflect"
	"strings"
	"testing"

	"subtitleforge/models"
)

func sampleSequence() models.CaptionSequence {
	return models.CaptionSequence{
		{ID: 1, Start: "00:00", End: "00:05", Text: "Hello there"},
		{ID: 2, Start: "00:05", End: "00:10", Text: "This is SECRET"},
		{ID: 3, Start: "00:10", End: "00:15", Text: "ＦＵＬＬ width text"},
		{ID: 4, Start: "00:15", End: "00:20", Text: ""},
		{ID: 5, Start: "00:20", End: "00:25", Text: "Goodbye"},
	}
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		wantIDs []int
	}{
		{"empty filter keeps everything", "", []int{1, 2, 3, 4, 5}},
		{"blank tokens ignored", " , ,", []int{1, 2, 3, 4, 5}},
		{"case-insensitive", "secret", []int{1, 3, 4, 5}},
		{"substring not whole word", "ell", []int{2, 3, 4, 5}},
		{"trimmed tokens", "  hello ,  goodbye ", []int{2, 3, 4}},
		{"full width folds to ascii", "full", []int{1, 2, 4, 5}},
		{"ascii token matches full width query", "ｓｅｃｒｅｔ", []int{1, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFilter(tt.filter).Apply(sampleSequence())
			var ids []int
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestFilterIdempotent(t *testing.T) {
	for _, f := range []string{"", "secret", "hello,goodbye", "e"} {
		spec := ParseFilter(f)
		once := spec.Apply(sampleSequence())
		twice := spec.Apply(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("filter %q not idempotent: %v vs %v", f, once, twice)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	seq := sampleSequence()
	_ = ParseFilter("secret").Apply(seq)
	if !reflect.DeepEqual(seq, sampleSequence()) {
		t.Error("Apply mutated its input")
	}
}

func TestParseFilterTokens(t *testing.T) {
	spec := ParseFilter("Foo, foo ,BAR,")
	if got := spec.Tokens(); !reflect.DeepEqual(got, []string{"foo", "bar"}) {
		t.Errorf("Tokens = %v", got)
	}
	if spec.Empty() || !ParseFilter("").Empty() {
		t.Error("Empty reported wrongly")
	}
}

func TestEndToEndExample(t *testing.T) {
	captions, _ := ExtractTranscript("00 Hello there\n05 How are you")
	if len(captions) != 2 {
		t.Fatalf("extracted %d captions", len(captions))
	}
	filtered := ParseFilter("hello").Apply(captions)
	out, err := RenderFCPXML(filtered, models.DefaultSubtitleDesign(), DefaultRenderOptions())
	if err != nil {
		t.Fatalf("RenderFCPXML: %v", err)
	}
	doc := string(out)
	if n := strings.Count(doc, "<title "); n != 1 {
		t.Fatalf("found %d <title> elements, want 1:\n%s", n, doc)
	}
	if !strings.Contains(doc, "How are you") || strings.Contains(doc, "Hello there") {
		t.Errorf("wrong caption rendered:\n%s", doc)
	}
}
