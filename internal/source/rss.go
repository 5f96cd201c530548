package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SlyMarbo/rss"
	"github.com/kovalyov-valentin/blog-auto-review/internal/model"
)

// RSS клиент. Для atom лент Date у записи это поле updated.
type RSSSource struct {
	// URL откуда мы забираем ленту
	URL    string
	client *http.Client
}

func NewRSSSource(url string, client *http.Client) RSSSource {
	if client == nil {
		client = http.DefaultClient
	}

	return RSSSource{URL: url, client: client}
}

func (s RSSSource) Fetch(ctx context.Context) ([]model.FeedEntry, error) {
	feed, err := s.loadFeed(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]model.FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, model.FeedEntry{
			Title:      item.Title,
			Link:       item.Link,
			Categories: item.Categories,
			UpdatedAt:  item.Date,
		})
	}

	return entries, nil
}

func (s RSSSource) loadFeed(ctx context.Context) (*rss.Feed, error) {
	body, err := download(ctx, s.client, s.URL)
	if err != nil {
		return nil, err
	}

	feed, err := rss.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.URL, err)
	}

	return feed, nil
}
