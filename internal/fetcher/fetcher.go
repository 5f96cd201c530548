package fetcher

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kovalyov-valentin/blog-auto-review/internal/logging"
	"github.com/kovalyov-valentin/blog-auto-review/internal/model"
	"github.com/kovalyov-valentin/blog-auto-review/internal/queue"
	"github.com/samber/lo"
	"github.com/tomakado/containers/set"
)

// Источник ленты. Реализован в пакете source
type Source interface {
	Fetch(ctx context.Context) ([]model.FeedEntry, error)
}

// Дедупликация ссылок между опросами, по умолчанию не используется.
// Seen только проверяет, Mark вызывается после подтвержденной публикации.
type Deduper interface {
	Seen(ctx context.Context, link string) (bool, error)
	Mark(ctx context.Context, link string) error
}

// Итог одного опроса
type Stats struct {
	Fetched   int
	Fresh     int
	Skipped   int
	Published int
	Failed    int
}

// Poller опрашивает ленту и отправляет ссылки на свежие записи в очередь.
type Poller struct {
	source    Source
	publisher queue.Publisher
	deduper   Deduper
	logger    *logging.Logger

	// Окно, в которое запись считается новой
	lookupWindow time.Duration
	// Пояс, в котором считается граница окна
	zone           *time.Location
	filterKeywords []string
	now            func() time.Time
}

type Option func(*Poller)

func WithDeduper(d Deduper) Option {
	return func(p *Poller) { p.deduper = d }
}

func WithFilterKeywords(keywords []string) Option {
	return func(p *Poller) {
		p.filterKeywords = lo.Map(keywords, func(k string, _ int) string {
			return strings.ToLower(strings.TrimSpace(k))
		})
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

func NewPoller(
	source Source,
	publisher queue.Publisher,
	lookupWindow time.Duration,
	utcOffset time.Duration,
	logger *logging.Logger,
	opts ...Option,
) *Poller {
	p := &Poller{
		source:       source,
		publisher:    publisher,
		logger:       logger,
		lookupWindow: lookupWindow,
		zone:         time.FixedZone("feed", int(utcOffset.Seconds())),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Poll делает один проход: лента, фильтр по окну, публикация.
// Ошибка возвращается только если не удалось получить ленту.
// Неудачные публикации попадают в лог и в Stats.Failed.
func (p *Poller) Poll(ctx context.Context) (Stats, error) {
	var stats Stats

	entries, err := p.source.Fetch(ctx)
	if err != nil {
		return stats, err
	}
	stats.Fetched = len(entries)

	fresh := p.freshEntries(entries)
	stats.Fresh = len(fresh)

	results := make(map[string]queue.Result, len(fresh))
	for _, entry := range fresh {
		// Одна и та же ссылка дважды в ленте уходит один раз
		if _, ok := results[entry.Link]; ok || p.entryShouldBeSkipped(ctx, entry) {
			stats.Skipped++
			continue
		}

		results[entry.Link] = p.publisher.Publish(ctx, []byte(entry.Link))
	}

	published, failed := p.waitAll(ctx, results)
	stats.Published, stats.Failed = published, failed

	p.logger.Info("poll done",
		logging.Field{Key: "fetched", Val: stats.Fetched},
		logging.Field{Key: "fresh", Val: stats.Fresh},
		logging.Field{Key: "skipped", Val: stats.Skipped},
		logging.Field{Key: "published", Val: stats.Published},
		logging.Field{Key: "failed", Val: stats.Failed},
	)

	return stats, nil
}

// Запись свежая, если обновлена строго позже now - lookupWindow
func (p *Poller) freshEntries(entries []model.FeedEntry) []model.FeedEntry {
	cutoff := p.now().In(p.zone).Add(-p.lookupWindow)

	return lo.Filter(entries, func(entry model.FeedEntry, _ int) bool {
		return entry.UpdatedAt.In(p.zone).After(cutoff)
	})
}

func (p *Poller) entryShouldBeSkipped(ctx context.Context, entry model.FeedEntry) bool {
	if p.matchesFilterKeyword(entry) {
		return true
	}

	if p.deduper == nil {
		return false
	}

	seen, err := p.deduper.Seen(ctx, entry.Link)
	if err != nil {
		// Лучше отправить повторно, чем потерять запись
		p.logger.Warn("dedupe check failed", logging.Field{Key: "link", Val: entry.Link}, logging.Err(err))
		return false
	}

	return seen
}

// Пропускаем запись, если ключевое слово есть в категориях или в заголовке
func (p *Poller) matchesFilterKeyword(entry model.FeedEntry) bool {
	if len(p.filterKeywords) == 0 {
		return false
	}

	categoriesSet := set.New(lo.Map(entry.Categories, func(c string, _ int) string {
		return strings.ToLower(c)
	})...)
	title := strings.ToLower(entry.Title)

	for _, keyword := range p.filterKeywords {
		if categoriesSet.Contains(keyword) || strings.Contains(title, keyword) {
			return true
		}
	}

	return false
}

// Ждем подтверждения по всем публикациям сразу
func (p *Poller) waitAll(ctx context.Context, results map[string]queue.Result) (int, int) {
	var (
		wg        sync.WaitGroup
		published atomic.Int64
		failed    atomic.Int64
	)

	for link, res := range results {
		wg.Add(1)

		go func(link string, res queue.Result) {
			defer wg.Done()

			id, err := res.Get(ctx)
			if err != nil {
				failed.Add(1)
				p.logger.Error("publish failed", logging.Field{Key: "link", Val: link}, logging.Err(err))
				return
			}

			published.Add(1)
			p.logger.Info("published", logging.Field{Key: "link", Val: link}, logging.Field{Key: "message_id", Val: id})
			p.markPublished(ctx, link)
		}(link, res)
	}

	wg.Wait()

	return int(published.Load()), int(failed.Load())
}

func (p *Poller) markPublished(ctx context.Context, link string) {
	if p.deduper == nil {
		return
	}

	if err := p.deduper.Mark(ctx, link); err != nil {
		p.logger.Warn("dedupe mark failed", logging.Field{Key: "link", Val: link}, logging.Err(err))
	}
}
