package classify

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
)

// StripMarkup removes HTML tags and entities and trims surrounding
// whitespace. Case is preserved.
func StripMarkup(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return strings.TrimSpace(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	doc.Find("script, style").Remove()

	return strings.TrimSpace(doc.Text())
}

// Fold case-folds text for matching. Typographic apostrophes are mapped to
// ASCII so "women’s rights" matches "women's rights".
func Fold(s string) string {
	s = strings.ReplaceAll(s, "’", "'")
	return cases.Fold().String(s)
}

// Text is folded text ready for phrase matching.
type Text struct {
	folded string
}

// NewText joins the non-empty parts with a space and folds the result.
func NewText(parts ...string) Text {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return Text{folded: Fold(strings.Join(nonEmpty, " "))}
}

func (t Text) String() string {
	return t.folded
}

func (t Text) Contains(phrase string) bool {
	return strings.Contains(t.folded, phrase)
}

// FirstMatch returns the first phrase found in the text.
func (t Text) FirstMatch(phrases []string) (string, bool) {
	for _, phrase := range phrases {
		if strings.Contains(t.folded, phrase) {
			return phrase, true
		}
	}
	return "", false
}

func (t Text) ContainsAny(phrases []string) bool {
	_, ok := t.FirstMatch(phrases)
	return ok
}
