package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kovalyov-valentin/blog-auto-review/internal/article"
	"github.com/kovalyov-valentin/blog-auto-review/internal/autoreview"
	"github.com/kovalyov-valentin/blog-auto-review/internal/config"
	"github.com/kovalyov-valentin/blog-auto-review/internal/dedupe"
	"github.com/kovalyov-valentin/blog-auto-review/internal/fetcher"
	"github.com/kovalyov-valentin/blog-auto-review/internal/logging"
	"github.com/kovalyov-valentin/blog-auto-review/internal/notifier"
	"github.com/kovalyov-valentin/blog-auto-review/internal/queue"
	"github.com/kovalyov-valentin/blog-auto-review/internal/review"
	"github.com/kovalyov-valentin/blog-auto-review/internal/secret"
	"github.com/kovalyov-valentin/blog-auto-review/internal/source"
	"github.com/kovalyov-valentin/blog-auto-review/internal/storage"
	_ "github.com/lib/pq"
	"github.com/sashabaranov/go-openai"
)

// Зависимости собираются на каждый вызов и закрываются через cleanup.

// InvocationLogger логгер с id вызова.
func InvocationLogger(cfg config.Config, function string) *logging.Logger {
	return logging.New(cfg.LogJSON).With(
		logging.Field{Key: "function", Val: function},
		logging.Field{Key: "invocation_id", Val: uuid.NewString()},
	)
}

func NewPoller(ctx context.Context, cfg config.Config, logger *logging.Logger) (*fetcher.Poller, func(), error) {
	if err := cfg.ValidatePoller(); err != nil {
		return nil, nil, err
	}

	src, err := source.New(cfg.FeedParser, cfg.FeedURL, http.DefaultClient)
	if err != nil {
		return nil, nil, err
	}

	var cleanup closers

	publisher, closePublisher, err := newPublisher(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup.add(closePublisher)

	opts := []fetcher.Option{fetcher.WithFilterKeywords(cfg.FilterKeywords)}
	if cfg.RedisAddr != "" {
		store := dedupe.New(cfg.RedisAddr, cfg.RedisPassword, cfg.DedupeTTL)
		cleanup.add(func() error { return store.Close() })
		opts = append(opts, fetcher.WithDeduper(store))
	}

	poller := fetcher.NewPoller(src, publisher, cfg.LookupWindow, cfg.FeedUTCOffset, logger, opts...)

	return poller, cleanup.run(logger), nil
}

func newPublisher(ctx context.Context, cfg config.Config) (queue.Publisher, func() error, error) {
	switch cfg.QueueDriver {
	case "kafka":
		p := queue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.TopicName)
		return p, p.Close, nil
	default:
		p, err := queue.NewPubSubPublisher(ctx, cfg.ProjectID, cfg.TopicName)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
}

func NewPipeline(ctx context.Context, cfg config.Config, logger *logging.Logger) (*autoreview.Pipeline, func(), error) {
	if err := cfg.ValidateReviewer(); err != nil {
		return nil, nil, err
	}

	var cleanup closers

	modelName, reviewer := newReviewer(cfg)

	ntf, err := newNotifier(cfg)
	if err != nil {
		return nil, nil, err
	}

	pipeline := autoreview.New(
		article.NewExtractor(http.DefaultClient, cfg.ReadabilityFallback),
		reviewer,
		ntf,
		modelName,
		logger,
	)

	if cfg.DatabaseDSN != "" {
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		cleanup.add(db.Close)
		pipeline.WithStore(storage.NewReviewPostgresStorage(db))
	}

	return pipeline, cleanup.run(logger), nil
}

func newReviewer(cfg config.Config) (string, review.Reviewer) {
	settings := reviewSettings(cfg)

	if cfg.ModelProvider == "openai" {
		// Модель по умолчанию из конфига gemini, для openai берем свою
		if settings.Model == "" || strings.HasPrefix(settings.Model, "gemini") {
			settings.Model = openai.GPT3Dot5Turbo
		}
		return settings.Model, review.NewOpenAIReviewer(cfg.OpenAIKey, settings)
	}

	return settings.Model, review.NewVertexReviewer(cfg.ProjectID, cfg.Location, settings)
}

// Нулевые значения в конфиге означают значения по умолчанию
func reviewSettings(cfg config.Config) review.Settings {
	settings := review.DefaultSettings(cfg.ModelName)

	if cfg.ReviewInstruction != "" {
		settings.Instruction = cfg.ReviewInstruction
	}
	if cfg.MaxOutputTokens > 0 {
		settings.MaxOutputTokens = int32(cfg.MaxOutputTokens)
	}
	if cfg.Temperature > 0 {
		settings.Temperature = float32(cfg.Temperature)
	}
	if cfg.TopP > 0 {
		settings.TopP = float32(cfg.TopP)
	}

	return settings
}

func newNotifier(cfg config.Config) (autoreview.Notifier, error) {
	if cfg.Notifier == "telegram" {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			return nil, fmt.Errorf("create telegram bot: %w", err)
		}
		return notifier.NewTelegram(bot, cfg.TelegramChannelID), nil
	}

	token := secret.NewToken(secret.Manager{}, cfg.ProjectID, cfg.SlackTokenSecret)
	return notifier.NewSlack(token, cfg.SlackChannelID), nil
}

type closers []func() error

func (c *closers) add(fn func() error) {
	*c = append(*c, fn)
}

func (c closers) run(logger *logging.Logger) func() {
	return func() {
		for i := len(c) - 1; i >= 0; i-- {
			if err := c[i](); err != nil {
				logger.Warn("cleanup failed", logging.Err(err))
			}
		}
	}
}
