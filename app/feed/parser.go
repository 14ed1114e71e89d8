package feed

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses an RSS, Atom or JSON feed document into entries, keeping at
// most maxItems of them (0 keeps all).
func (p *Parser) Run(data []byte, maxItems int) ([]Entry, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := feed.Items
	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, p.normalizeItem(item))
	}

	return entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Entry {
	entry := Entry{
		Title:   item.Title,
		Summary: item.Description,
		Content: item.Content,
		Link:    item.Link,
	}

	// Atom feeds frequently carry only <updated>.
	switch {
	case item.PublishedParsed != nil:
		published := item.PublishedParsed.UTC()
		entry.PublishedAt = &published
	case item.UpdatedParsed != nil:
		updated := item.UpdatedParsed.UTC()
		entry.PublishedAt = &updated
	}

	return entry
}
