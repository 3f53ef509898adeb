// Package news fetches recent finance headlines from the Google News
// RSS search feed.
package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// defaultFeedBase is the Google News RSS search endpoint. The query is
// restricted to the last week server-side via the when:7d modifier and
// pinned to the English/India locale.
const defaultFeedBase = "https://news.google.com/rss/search"

// publishedLayout formats article publish dates for display.
const publishedLayout = "Jan 02, 2006"

// Article is one feed entry. Articles are built fresh per fetch and
// never persisted.
type Article struct {
	Title     string
	Link      string
	Summary   string // raw feed description, may contain HTML
	Published string // formatted publish date, empty when the feed gave none
}

// PlainSummary returns the summary with HTML tags stripped, for
// terminal output.
func (a Article) PlainSummary() string {
	if a.Summary == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + a.Summary + "</body>"))
	if err != nil {
		return a.Summary
	}
	return strings.TrimSpace(doc.Text())
}

// Fetcher fetches and filters articles from the news feed.
type Fetcher struct {
	feedBase string
	parser   *gofeed.Parser
}

// NewFetcher creates a fetcher against the default Google News endpoint.
func NewFetcher() *Fetcher {
	return &Fetcher{
		feedBase: defaultFeedBase,
		parser:   gofeed.NewParser(),
	}
}

// Fetch queries the feed for articles matching query and returns at most
// maxItems of them, in feed order. Entries with a parseable publish time
// older than days are dropped; entries with no parseable publish time
// are kept regardless of age. Transport and parse errors propagate.
func (f *Fetcher) Fetch(ctx context.Context, query string, days, maxItems int) ([]Article, error) {
	feedURL := fmt.Sprintf("%s?q=%s+when:7d&hl=en-IN&gl=IN&ceid=IN:en",
		f.feedBase, url.QueryEscape(query))

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch news feed: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	articles := make([]Article, 0, maxItems)
	for _, item := range feed.Items {
		var pub *time.Time
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			pub = &t
		}
		if pub != nil && pub.Before(cutoff) {
			continue
		}
		if len(articles) == maxItems {
			break
		}

		a := Article{
			Title:   item.Title,
			Link:    item.Link,
			Summary: item.Description,
		}
		if pub != nil {
			a.Published = pub.Format(publishedLayout)
		}
		articles = append(articles, a)
	}

	return articles, nil
}
