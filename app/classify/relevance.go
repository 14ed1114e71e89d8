package classify

import (
	"fmt"

	"github.com/lysyi3m/rss-sieve/app/feed"
)

// Rule names reported by Relevance.Run.
const (
	RuleAlwaysInclude = "always_include"
	RuleTier1         = "tier1"
	RuleIdentityTerm  = "identity_term"
	RuleTier2Context  = "tier2_context"
)

// Relevance decides whether an entry is on topic. A broad tier-2 term is
// only trusted when an identity-context cue appears in the same text.
type Relevance struct{}

func NewRelevance() *Relevance {
	return &Relevance{}
}

// Run returns whether the entry is kept and a reason naming the rule that
// decided it.
func (r *Relevance) Run(source feed.Source, title, summary, content string) (bool, string) {
	if source.AlwaysInclude {
		return true, RuleAlwaysInclude
	}

	text := NewText(title, summary, content)

	if phrase, ok := text.FirstMatch(tier1Phrases); ok {
		return true, fmt.Sprintf("%s: contains '%s'", RuleTier1, phrase)
	}

	if term, ok := text.FirstMatch(identityTerms); ok {
		return true, fmt.Sprintf("%s: contains '%s'", RuleIdentityTerm, term)
	}

	if broad, ok := text.FirstMatch(tier2Phrases); ok {
		if cue, ok := text.FirstMatch(identityContextCues); ok {
			return true, fmt.Sprintf("%s: contains '%s' with '%s'", RuleTier2Context, broad, cue)
		}
	}

	return false, ""
}

// HasConcreteLabel reports whether labelling produced at least one identity
// tag or topic. Entries from filtered sources without one are dropped even
// after passing Run.
func HasConcreteLabel(labels Labels) bool {
	return len(labels.Tags) > 0 || len(labels.Topics) > 0
}
