package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain text is trimmed", "  plain text \n", "plain text"},
		{"tags removed, case kept", "<p>Hello <b>World</b></p>", "Hello World"},
		{"entities decoded", "Tom &amp; Jerry", "Tom & Jerry"},
		{"script dropped", "<script>alert(1)</script>Visible", "Visible"},
		{"nested markup", `<div class="x"><a href="/a">Link</a> text</div>`, "Link text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripMarkup(tt.input))
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "women's rights", Fold("Women’s RIGHTS"))
	assert.Equal(t, "", Fold(""))
}

func TestText_Matching(t *testing.T) {
	text := NewText("Pride March", "", "Thousands attended")

	assert.Equal(t, "pride march thousands attended", text.String())
	assert.True(t, text.Contains("pride"))
	assert.False(t, text.Contains("Pride"), "phrases are expected lower case")

	phrase, ok := text.FirstMatch([]string{"parade", "march", "pride"})
	assert.True(t, ok)
	assert.Equal(t, "march", phrase)

	assert.False(t, text.ContainsAny([]string{"parade"}))
}
