package classify

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/lysyi3m/rss-sieve/app/feed"
)

const (
	TagWomen   = "women"
	TagLGBTQIA = "lgbtqia+"
	TagGeneral = "general"
)

const (
	TopicReproductiveRights = "Reproductive Rights"
	TopicGenderPayGap       = "Gender Pay Gap"
	TopicLGBTQIA            = "LGBTQIA+"
	TopicImmigration        = "Immigration"
	TopicHumanRights        = "Human Rights"
	TopicHealthMedicine     = "Health & Medicine"
	TopicLawPolicy          = "Law & Policy"
	TopicPoliticsGovernment = "Politics & Government"
	TopicCultureMedia       = "Culture & Media"
	TopicSports             = "Sports"
	TopicViolenceSafety     = "Violence & Safety"
	TopicWorkplaceEconomics = "Workplace & Economics"
)

const labelSeparator = ", "

// Topics returns the topic vocabulary in declaration order.
func Topics() []string {
	return lo.Map(topicLexicons, func(topic topicLexicon, _ int) string {
		return topic.name
	})
}

// Labels are the identity tags and topics of one article. Both slices are
// sorted and free of duplicates.
type Labels struct {
	Tags   []string
	Topics []string
}

// TagString renders tags for storage; no tags renders as "general".
func (l Labels) TagString() string {
	if len(l.Tags) == 0 {
		return TagGeneral
	}
	return strings.Join(l.Tags, labelSeparator)
}

// TopicString renders topics for storage; no topics renders as "".
func (l Labels) TopicString() string {
	return strings.Join(l.Topics, labelSeparator)
}

func (l Labels) Category() string {
	return CategoryFor(l.Tags)
}

// CategoryFor picks the primary category. LGBTQIA+ wins whenever present,
// every other case (including no tags) falls back to women.
func CategoryFor(tags []string) string {
	if lo.Contains(tags, TagLGBTQIA) {
		return TagLGBTQIA
	}
	return TagWomen
}

// ParseLabels splits a stored label string back into its values.
func ParseLabels(stored string) []string {
	if stored == "" || stored == TagGeneral {
		return nil
	}
	values := lo.Map(strings.Split(stored, ","), func(value string, _ int) string {
		return strings.TrimSpace(value)
	})
	return lo.Compact(values)
}

type Labeler struct{}

func NewLabeler() *Labeler {
	return &Labeler{}
}

// Assign derives labels from title and summary plus the labels the source
// forces on every entry. The result depends only on its inputs.
func (l *Labeler) Assign(source feed.Source, title, summary string) Labels {
	text := NewText(title, summary)

	var tags []string
	if text.ContainsAny(womenTerms) {
		tags = append(tags, TagWomen)
	}
	if text.ContainsAny(lgbtqiaTerms) {
		tags = append(tags, TagLGBTQIA)
	}
	tags = append(tags, source.ForceTags...)

	var topics []string
	for _, topic := range topicLexicons {
		if text.ContainsAny(topic.phrases) {
			topics = append(topics, topic.name)
		}
	}
	topics = append(topics, source.ForceTopics...)

	return Labels{
		Tags:   normalizeSet(tags),
		Topics: normalizeSet(topics),
	}
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	unique := lo.Uniq(values)
	sort.Strings(unique)
	return unique
}
