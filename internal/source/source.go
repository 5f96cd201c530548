package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kovalyov-valentin/blog-auto-review/internal/model"
)

// Source отдает записи ленты.
type Source interface {
	Fetch(ctx context.Context) ([]model.FeedEntry, error)
}

const (
	ParserRSS    = "rss"
	ParserGofeed = "gofeed"
)

// New собирает источник под выбранный парсер.
func New(parser, url string, client *http.Client) (Source, error) {
	switch parser {
	case ParserRSS, "":
		return NewRSSSource(url, client), nil
	case ParserGofeed:
		return NewGofeedSource(url, client), nil
	default:
		return nil, fmt.Errorf("unknown feed parser %q", parser)
	}
}

// Скачиваем ленту сами, чтобы запрос отменялся вместе с контекстом
func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch feed %s: unexpected status %s", url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
