package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kovalyov-valentin/blog-auto-review/internal/model"
	"github.com/mmcdole/gofeed"
)

type GofeedSource struct {
	URL    string
	client *http.Client
}

func NewGofeedSource(url string, client *http.Client) GofeedSource {
	if client == nil {
		client = http.DefaultClient
	}

	return GofeedSource{URL: url, client: client}
}

func (s GofeedSource) Fetch(ctx context.Context) ([]model.FeedEntry, error) {
	body, err := download(ctx, s.client, s.URL)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.URL, err)
	}

	entries := make([]model.FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, model.FeedEntry{
			Title:      item.Title,
			Link:       item.Link,
			Categories: item.Categories,
			UpdatedAt:  updatedAt(item),
		})
	}

	return entries, nil
}

// У rss 2.0 нет updated, тогда берем pubDate
func updatedAt(item *gofeed.Item) time.Time {
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	return time.Time{}
}
