package classify

type AdDetector struct{}

func NewAdDetector() *AdDetector {
	return &AdDetector{}
}

// IsAd reports whether title or summary carries an advertising marker,
// returning the matched phrase.
func (d *AdDetector) IsAd(title, summary string) (bool, string) {
	phrase, ok := NewText(title, summary).FirstMatch(adIndicators)
	return ok, phrase
}
