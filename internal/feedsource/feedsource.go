// Package feedsource scans an RSS or Atom feed instead of a generator.
package feedsource

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/record"
)

// DateLayout renders item timestamps in a form the date extractor reads back.
const DateLayout = "2 January 2006, 15h04"

// DefaultMaxItems caps how many feed items one scan keeps.
const DefaultMaxItems = 50

// Source fetches URL and maps each item to a news record.
type Source struct {
	URL      string
	Location *time.Location
	MaxItems int

	parser *gofeed.Parser
}

// New returns a Source for url rendering dates in loc.
func New(url string, loc *time.Location) *Source {
	return &Source{URL: url, Location: loc, MaxItems: DefaultMaxItems, parser: gofeed.NewParser()}
}

// Scan fetches the feed. The instruction is not used by feed scans.
func (s *Source) Scan(ctx context.Context, _ string) ([]record.Record, error) {
	parser := s.parser
	if parser == nil {
		parser = gofeed.NewParser()
	}

	feed, err := parser.ParseURLWithContext(s.URL, ctx)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil, errors.NewCancelled("scan")
		}
		return nil, errors.NewGenerationFailed(fmt.Errorf("failed to fetch feed: %w", err))
	}

	records := Records(feed, s.Location, s.MaxItems)
	if len(records) == 0 {
		return nil, errors.NewInvalidResult("feed has no items")
	}
	return records, nil
}

// Records maps up to max items of feed (0 means DefaultMaxItems).
func Records(feed *gofeed.Feed, loc *time.Location, max int) []record.Record {
	if feed == nil {
		return nil
	}
	if max <= 0 {
		max = DefaultMaxItems
	}
	if loc == nil {
		loc = time.UTC
	}

	count := min(len(feed.Items), max)
	records := make([]record.Record, 0, count)
	for _, item := range feed.Items[:count] {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		records = append(records, itemRecord(item, strings.TrimSpace(feed.Title), loc))
	}
	return records
}

func itemRecord(item *gofeed.Item, source string, loc *time.Location) record.Record {
	r := record.Record{
		Title:       strings.TrimSpace(item.Title),
		Location:    source,
		Category:    record.CategoryNews,
		Description: strings.TrimSpace(cmp.Or(item.Description, item.Content)),
		URL:         strings.TrimSpace(item.Link),
	}

	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}
	if published != nil {
		at := published.In(loc)
		r.Date = at.Format(DateLayout)
		r.Published = &at
	}

	for _, c := range item.Categories {
		if c = strings.TrimSpace(c); c != "" {
			r.Tags = append(r.Tags, c)
		}
	}
	return r
}
