package classify

import (
	"unicode/utf8"

	"github.com/lysyi3m/rss-sieve/app/feed"
)

// ShortPreviewLimit is the summary length, in characters, below which a
// non-empty summary is treated as a paywalled teaser. Tuned by hand.
const ShortPreviewLimit = 120

// Paywall rule names.
const (
	RulePaywalledSource = "paywalled_source"
	RulePaywallSignal   = "paywall_signal"
	RuleShortPreview    = "short_preview"
)

// PaywallRule is one predicate in the detector chain. A rule that matches
// marks the entry as paywalled.
type PaywallRule struct {
	Name  string
	Match func(source feed.Source, title, summary string) bool
}

// DefaultPaywallRules are evaluated in order; the first match wins.
var DefaultPaywallRules = []PaywallRule{
	{
		Name: RulePaywalledSource,
		Match: func(source feed.Source, _, _ string) bool {
			return source.Paywalled
		},
	},
	{
		Name: RulePaywallSignal,
		Match: func(_ feed.Source, title, summary string) bool {
			return NewText(title, summary).ContainsAny(paywallSignals)
		},
	},
	{
		// Specialist always-include sources legitimately publish short summaries.
		Name: RuleShortPreview,
		Match: func(source feed.Source, _, summary string) bool {
			if source.AlwaysInclude {
				return false
			}
			length := utf8.RuneCountInString(summary)
			return length > 0 && length < ShortPreviewLimit
		},
	},
}

type PaywallDetector struct {
	rules []PaywallRule
}

func NewPaywallDetector() *PaywallDetector {
	return NewPaywallDetectorWithRules(DefaultPaywallRules)
}

func NewPaywallDetectorWithRules(rules []PaywallRule) *PaywallDetector {
	return &PaywallDetector{rules: rules}
}

// Detect expects markup-free title and summary. It returns the verdict and
// the name of the rule that produced it.
func (d *PaywallDetector) Detect(source feed.Source, title, summary string) (bool, string) {
	for _, rule := range d.rules {
		if rule.Match(source, title, summary) {
			return true, rule.Name
		}
	}
	return false, ""
}
