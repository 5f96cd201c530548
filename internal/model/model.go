package model

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Запись из ленты блога. Живет только в рамках одного опроса
type FeedEntry struct {
	Title      string
	Link       string
	Categories []string
	// Время последнего обновления записи в ленте
	UpdatedAt time.Time
}

// Откуда пришло сообщение в reviewer
type SourceKind string

const (
	// В pubsub payload приходит base64 строкой внутри CloudEvent
	SourceKindPubSub SourceKind = "pubsub"
	// Из kafka приходят сырые байты
	SourceKindKafka SourceKind = "kafka"
)

// Конверт сообщения из очереди, разбирается один раз на границе функции
type Envelope struct {
	SourceKind SourceKind
	Payload    []byte
}

var ErrEmptyPayload = errors.New("empty payload")

// URL достает ссылку на статью из payload.
func (e Envelope) URL() (string, error) {
	raw := e.Payload

	if e.SourceKind == SourceKindPubSub {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return "", fmt.Errorf("decode base64 payload: %w", err)
		}
		raw = decoded
	}

	if len(raw) == 0 {
		return "", ErrEmptyPayload
	}

	if !utf8.Valid(raw) {
		return "", errors.New("payload is not valid utf-8")
	}

	link := string(raw)

	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", link, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	return link, nil
}

// Статья, вырезанная со страницы
type ArticleDocument struct {
	URL string
	// html поддерева article
	HTML string
	// То что уходит в модель
	Markdown string
}

// Результат ревью одной статьи
type Review struct {
	ID         int64
	URL        string
	Text       string
	Model      string
	ReviewedAt time.Time
}
