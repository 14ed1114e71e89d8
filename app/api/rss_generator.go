package api

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/rss-sieve/app/classify"
	"github.com/lysyi3m/rss-sieve/app/database"
)

const (
	feedTitle       = "RSS Sieve"
	feedDescription = "News about LGBTQIA+ people and women, collected from public feeds"
)

// RSSGenerator renders stored articles as an RSS 2.0 document.
type RSSGenerator struct {
	baseURL string
	version string
	now     func() time.Time
}

func NewRSSGenerator(baseURL, version string) *RSSGenerator {
	return &RSSGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		version: version,
		now:     time.Now,
	}
}

func (g *RSSGenerator) Run(articles []database.Article) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", feedTitle, 4)
	g.writeElement(&buf, "link", g.baseURL, 4)
	g.writeElement(&buf, "description", feedDescription, 4)

	if g.baseURL != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(g.baseURL+"/feed.xml")))
	}

	// Articles arrive newest first.
	lastBuildDate := g.now().In(time.Local)
	if len(articles) > 0 {
		lastBuildDate = articles[0].ScrapedAt
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("RSS-Sieve/%s", g.version), 4)
	g.writeElement(&buf, "language", database.DefaultLocale, 4)

	for _, article := range articles {
		g.writeItem(&buf, article)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *RSSGenerator) writeItem(buf *bytes.Buffer, article database.Article) {
	buf.WriteString("    <item>\n")

	buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(article.Link)))
	xml.EscapeText(buf, []byte(article.Link))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", article.Title, 6)
	g.writeElement(buf, "link", article.Link, 6)
	g.writeElement(buf, "description", cmp.Or(article.Summary, "No description available"), 6)

	publishedAt := article.ScrapedAt
	if article.PublishedAt != nil {
		publishedAt = *article.PublishedAt
	}
	g.writeElement(buf, "pubDate", publishedAt.Format(time.RFC1123Z), 6)

	for _, tag := range classify.ParseLabels(article.Tags) {
		g.writeElement(buf, "category", tag, 6)
	}
	for _, topic := range classify.ParseLabels(article.Topics) {
		g.writeElement(buf, "category", topic, 6)
	}

	if article.Source != "" {
		g.writeElement(buf, "dc:source", article.Source, 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *RSSGenerator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *RSSGenerator) isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
