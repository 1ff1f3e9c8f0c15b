package rss

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/kiwifruitpeter/curator/internal/feeds"
	"github.com/kiwifruitpeter/curator/internal/model"
)

// Source fetches records from an RSS/Atom feed
type Source struct {
	name   string
	url    string
	parser *gofeed.Parser
}

// New creates a new RSS source
func New(name, url string) *Source {
	return &Source{
		name:   name,
		url:    url,
		parser: gofeed.NewParser(),
	}
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Type() feeds.SourceType {
	return feeds.SourceRSS
}

func (s *Source) Fetch(ctx context.Context) ([]model.Record, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}

	records := make([]model.Record, 0, len(feed.Items))
	now := time.Now()

	for _, entry := range feed.Items {
		published := now
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			published = *entry.UpdatedParsed
		}

		body := entry.Description
		if body == "" && entry.Content != "" {
			body = entry.Content
		}

		author := ""
		if entry.Author != nil {
			author = entry.Author.Name
		}

		records = append(records, model.Record{
			ID:        model.RecordID(entry.Link),
			Title:     entry.Title,
			Summary:   body,
			Source:    s.name,
			SourceURL: entry.Link,
			Author:    author,
			Published: published,
		})
	}

	return records, nil
}
