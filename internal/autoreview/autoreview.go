package autoreview

import (
	"context"
	"errors"
	"time"

	"github.com/kovalyov-valentin/blog-auto-review/internal/article"
	"github.com/kovalyov-valentin/blog-auto-review/internal/logging"
	"github.com/kovalyov-valentin/blog-auto-review/internal/model"
	"github.com/kovalyov-valentin/blog-auto-review/internal/notifier"
)

type Extractor interface {
	Extract(ctx context.Context, url string) (model.ArticleDocument, error)
}

type Reviewer interface {
	Review(ctx context.Context, markdown string) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, url, review string) error
}

// ReviewStore журнал ревью, может быть nil.
type ReviewStore interface {
	Store(ctx context.Context, review model.Review) (int64, error)
}

// Pipeline один проход reviewer: ссылка, статья, модель, чат.
type Pipeline struct {
	extractor Extractor
	reviewer  Reviewer
	notifier  Notifier
	store     ReviewStore
	modelName string
	logger    *logging.Logger
	now       func() time.Time
}

func New(extractor Extractor, reviewer Reviewer, notifier Notifier, modelName string, logger *logging.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		reviewer:  reviewer,
		notifier:  notifier,
		modelName: modelName,
		logger:    logger,
		now:       time.Now,
	}
}

func (p *Pipeline) WithStore(store ReviewStore) *Pipeline {
	p.store = store
	return p
}

// Handle возвращает текст ревью. Шаги идут строго по порядку и на первой
// ошибке вызов прекращается, повторов нет.
func (p *Pipeline) Handle(ctx context.Context, env model.Envelope) (string, error) {
	url, err := env.URL()
	if err != nil {
		return "", upstream(KindPayload, err)
	}

	logger := p.logger.With(logging.Field{Key: "url", Val: url})

	doc, err := p.extractor.Extract(ctx, url)
	if err != nil {
		if errors.Is(err, article.ErrNotFound) {
			return "", err
		}
		return "", upstream(KindFetch, err)
	}
	logger.Info("article extracted", logging.Field{Key: "markdown_len", Val: len(doc.Markdown)})

	text, err := p.reviewer.Review(ctx, doc.Markdown)
	if err != nil {
		return "", upstream(KindModel, err)
	}
	logger.Info("review done", logging.Field{Key: "review", Val: text})

	p.storeReview(ctx, logger, model.Review{
		URL:        url,
		Text:       text,
		Model:      p.modelName,
		ReviewedAt: p.now(),
	})

	if err := p.notifier.Notify(ctx, url, text); err != nil {
		if notifier.IsTokenError(err) {
			return "", upstream(KindSecret, err)
		}
		return "", upstream(KindChat, err)
	}
	logger.Info("review posted")

	return text, nil
}

// Журнал не критичен: при ошибке записи ревью все равно уходит в чат
func (p *Pipeline) storeReview(ctx context.Context, logger *logging.Logger, review model.Review) {
	if p.store == nil {
		return
	}

	id, err := p.store.Store(ctx, review)
	if err != nil {
		logger.Error("failed to store review", logging.Err(err))
		return
	}

	logger.Info("review stored", logging.Field{Key: "review_id", Val: id})
}
