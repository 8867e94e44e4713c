package subtitles

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"subtitleforge/models"
)

// FilterSpec removes captions containing any of its tokens. Matching is a
// case-insensitive substring test after Unicode case folding and NFKC
// normalisation, so full-width and half-width forms match each other.
type FilterSpec struct {
	tokens []string
}

// ParseFilter splits a comma separated filter string. Tokens are trimmed and
// empty tokens are dropped, so "" and " , " filter nothing.
func ParseFilter(s string) FilterSpec {
	var tokens []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		tok := fold(strings.TrimSpace(part))
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return FilterSpec{tokens: tokens}
}

func (f FilterSpec) Empty() bool { return len(f.tokens) == 0 }

// Tokens returns the normalised tokens.
func (f FilterSpec) Tokens() []string {
	return append([]string(nil), f.tokens...)
}

func (f FilterSpec) String() string { return strings.Join(f.tokens, ",") }

// Matches reports whether text contains any token.
func (f FilterSpec) Matches(text string) bool {
	if f.Empty() {
		return false
	}
	folded := fold(text)
	for _, tok := range f.tokens {
		if strings.Contains(folded, tok) {
			return true
		}
	}
	return false
}

// Apply returns a new sequence without the matching captions. Remaining
// captions keep their ids and order.
func (f FilterSpec) Apply(seq models.CaptionSequence) models.CaptionSequence {
	out := make(models.CaptionSequence, 0, len(seq))
	for _, c := range seq.Clone() {
		if !f.Matches(c.Text) {
			out = append(out, c)
		}
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}
